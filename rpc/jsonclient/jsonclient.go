// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package jsonclient 实现JSON rpc客户端请求功能
package jsonclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// JSONClient a object of jsonclient
type JSONClient struct {
	url      string
	username string
	password string
	client   *http.Client
}

// NewJSONClient produce a json object, url 可以带上 user:passwd@
func NewJSONClient(url string) (*JSONClient, error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "http://" + url
	}
	c := &JSONClient{url: url, client: &http.Client{Timeout: 30 * time.Second}}
	return c, nil
}

// SetBasicAuth 设置用户名密码
func (client *JSONClient) SetBasicAuth(username, password string) {
	client.username = username
	client.password = password
}

type clientRequest struct {
	Method string         `json:"method"`
	Params [1]interface{} `json:"params"`
	ID     uint64         `json:"id"`
}

type clientResponse struct {
	ID     uint64           `json:"id"`
	Result *json.RawMessage `json:"result"`
	Error  interface{}      `json:"error"`
}

// Call method 形如 Chain33.Query
func (client *JSONClient) Call(method string, params, resp interface{}) error {
	req := &clientRequest{}
	req.Method = method
	req.Params[0] = params
	data, err := json.Marshal(req)
	if err != nil {
		return err
	}
	postresp, err := client.post(data)
	if err != nil {
		return err
	}
	b, err := ioutil.ReadAll(postresp.Body)
	postresp.Body.Close()
	if err != nil {
		return errors.Wrap(err, "read response")
	}
	cresp := &clientResponse{}
	err = json.Unmarshal(b, &cresp)
	if err != nil {
		return errors.Wrapf(err, "decode response %s", string(b))
	}
	if cresp.Error != nil {
		x, ok := cresp.Error.(string)
		if !ok {
			return fmt.Errorf("invalid error %v", cresp.Error)
		}
		if x == "" {
			x = "unspecified error"
		}
		return errors.New(x)
	}
	if cresp.Result == nil {
		return errors.New("Empty result")
	}
	return json.Unmarshal(*cresp.Result, resp)
}

func (client *JSONClient) post(data []byte) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodPost, client.url, bytes.NewBuffer(data))
	if err != nil {
		return nil, errors.Wrap(err, "new request")
	}
	req.Header.Set("Content-Type", "application/json")
	if client.username != "" || client.password != "" {
		req.SetBasicAuth(client.username, client.password)
	}
	resp, err := client.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "post %s", client.url)
	}
	return resp, nil
}
