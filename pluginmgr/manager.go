// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pluginmgr 插件管理, 每个 dapp 在 init 中注册自己
package pluginmgr

import (
	"sort"
	"sync"

	"github.com/33cn/rpschain/common/log"
	rpctypes "github.com/33cn/rpschain/rpc/types"
	"github.com/33cn/rpschain/types"
	"github.com/spf13/cobra"
)

var (
	mgrlog      = log.New("module", "plugin.manager")
	pluginItems = make(map[string]Plugin)
	mu          sync.Mutex
)

// Register 注册插件, 重复注册 panic
func Register(p Plugin) {
	if p == nil {
		panic("plugin param is nil")
	}
	packageName := p.GetName()
	if len(packageName) == 0 {
		panic("plugin package name is empty")
	}
	mu.Lock()
	defer mu.Unlock()
	if _, ok := pluginItems[packageName]; ok {
		panic("execute plugin item is existed. name = " + packageName)
	}
	pluginItems[packageName] = p
}

//按名字排序, 保证初始化顺序固定
func items() []Plugin {
	mu.Lock()
	defer mu.Unlock()
	names := make([]string, 0, len(pluginItems))
	for name := range pluginItems {
		names = append(names, name)
	}
	sort.Strings(names)
	list := make([]Plugin, 0, len(names))
	for _, name := range names {
		list = append(list, pluginItems[name])
	}
	return list
}

// InitExec 初始化所有插件的执行器
func InitExec(sub *types.Exec) {
	for _, item := range items() {
		item.InitExec(sub)
		mgrlog.Debug("InitExec", "plugin", item.GetName(), "execer", item.GetExecutorName())
	}
}

// HasExec 是否存在执行器
func HasExec(name string) bool {
	for _, item := range items() {
		if item.GetExecutorName() == name {
			return true
		}
	}
	return false
}

// AddCmd 添加所有插件的命令
func AddCmd(rootCmd *cobra.Command) {
	for _, item := range items() {
		item.AddCmd(rootCmd)
	}
}

// AddRPC 注册所有插件的 rpc
func AddRPC(s rpctypes.RPCServer) {
	for _, item := range items() {
		item.AddRPC(s)
	}
}
