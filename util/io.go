// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package util

import (
	"bufio"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

//ReadFile : read file
func ReadFile(file string) ([]byte, error) {
	fileCont, err := ioutil.ReadFile(file)
	if err != nil {
		return nil, errors.Wrapf(err, "Could not read file %s", file)
	}
	return fileCont, nil
}

//CheckFileIsExist : check whether the file exists or not
func CheckFileIsExist(filename string) bool {
	var exist = true
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		exist = false
	}
	return exist
}

//MakeDir : 创建文件所在的目录
func MakeDir(file string) error {
	dir := filepath.Dir(file)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0700)
}

//WriteStringToFile : write content to file, 已经存在的文件会被覆盖
func WriteStringToFile(file, content string) (writeLen int, err error) {
	if err = MakeDir(file); err != nil {
		return
	}
	f, err := os.OpenFile(file, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	writeLen, err = w.WriteString(content)
	if err != nil {
		return
	}
	err = w.Flush()
	return
}
