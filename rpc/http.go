// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rpc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net"
	"net/http"
	"net/rpc/jsonrpc"
	"strings"

	"github.com/33cn/rpschain/types"
	"github.com/rs/cors"
)

// HTTPConn adapt HTTP connection to ReadWriteCloser
type HTTPConn struct {
	r   *http.Request
	in  io.Reader
	out io.Writer
}

func (c *HTTPConn) Read(p []byte) (n int, err error) { return c.in.Read(p) }

func (c *HTTPConn) Write(d []byte) (n int, err error) { return c.out.Write(d) }

// Close rpc 单次请求, 不需要关闭
func (c *HTTPConn) Close() error { return nil }

// Listen jsonrpc server listen
func (j *JSONRPCServer) Listen() (int, error) {
	listener, err := net.Listen("tcp", rpcCfg.JrpcBindAddr)
	if err != nil {
		return 0, err
	}
	j.l = listener
	j.srv = &http.Server{Handler: j.handler()}
	go func() {
		err := j.srv.Serve(listener)
		if err != nil && err != http.ErrServerClosed {
			rlog.Error("jrpc serve", "err", err)
		}
	}()
	return listener.Addr().(*net.TCPAddr).Port, nil
}

func (j *JSONRPCServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", j.serveJSONRPC)
	if rpcCfg.EnableWS {
		mux.HandleFunc("/ws", j.hub.serveWs)
	}
	co := cors.New(cors.Options{
		AllowedOrigins: rpcCfg.CorsOrigins,
		AllowedMethods: []string{http.MethodPost, http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})
	return co.Handler(mux)
}

func (j *JSONRPCServer) serveJSONRPC(w http.ResponseWriter, r *http.Request) {
	rlog.Debug("JSONRPCServer", "RemoteAddr", r.RemoteAddr)
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		writeError(w, r, 0, fmt.Sprintf(`The %s Address is not authorized!`, ip))
		return
	}
	if !checkIPWhitelist(ip) {
		writeError(w, r, 0, fmt.Sprintf(`The %s Address is not authorized!`, ip))
		return
	}
	if !checkBasicAuth(r) {
		writeError(w, r, 0, types.ErrRPCAuth.Error())
		return
	}
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	data, err := ioutil.ReadAll(r.Body)
	if err != nil {
		writeError(w, r, 0, "Can't get request body!")
		return
	}
	//格式做一个检查
	var req struct {
		ID     interface{} `json:"id"`
		Method string      `json:"method"`
	}
	if err := json.Unmarshal(data, &req); err != nil {
		writeError(w, r, 0, "json format err:"+err.Error())
		return
	}
	funcName := req.Method
	if i := strings.LastIndex(funcName, "."); i >= 0 {
		funcName = funcName[i+1:]
	}
	if !checkJrpcFuncWhitelist(funcName) || checkJrpcFuncBlacklist(funcName) {
		writeError(w, r, req.ID, fmt.Sprintf("The %s method is not authorized!", funcName))
		return
	}
	serverCodec := jsonrpc.NewServerCodec(&HTTPConn{in: bytes.NewReader(data), out: w, r: r})
	w.Header().Set("Content-type", "application/json")
	if err := j.s.ServeRequest(serverCodec); err != nil {
		rlog.Debug("Error while serving JSON request", "err", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, id interface{}, errstr string) {
	w.Header().Set("Content-type", "application/json")
	idjson, _ := json.Marshal(id)
	msg, _ := json.Marshal(errstr)
	_, err := w.Write([]byte(`{"id":` + string(idjson) + `,"result":null,"error":` + string(msg) + `}`))
	if err != nil {
		rlog.Debug("Write", "err", err)
	}
}
