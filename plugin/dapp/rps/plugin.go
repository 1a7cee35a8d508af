// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rps 石头剪刀布: 押注托管, 先提交承诺再揭示出拳, 赢家拿走全部押注
package rps

import (
	"github.com/33cn/rpschain/plugin/dapp/rps/commands"
	"github.com/33cn/rpschain/plugin/dapp/rps/executor"
	"github.com/33cn/rpschain/plugin/dapp/rps/rpc"
	rt "github.com/33cn/rpschain/plugin/dapp/rps/types"
	"github.com/33cn/rpschain/pluginmgr"
)

func init() {
	pluginmgr.Register(&pluginmgr.PluginBase{
		Name:     rt.RpsX,
		ExecName: executor.GetName(),
		Exec:     executor.Init,
		Cmd:      commands.Cmd,
		RPC:      rpc.Init,
	})
}
