// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package version 程序版本
package version

// 编译时可以通过 -ldflags "-X github.com/33cn/rpschain/common/version.GitCommit=xxx" 设置
var (
	version   = "1.0.0"
	GitCommit string
)

// GetVersion 获取版本号
func GetVersion() string {
	if GitCommit != "" {
		return version + "-" + GitCommit
	}
	return version
}
