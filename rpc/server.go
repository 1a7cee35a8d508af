// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rpc json rpc 服务以及 websocket 事件推送
package rpc

import (
	"context"
	"encoding/base64"
	"net"
	"net/http"
	"net/rpc"
	"strings"
	"sync"

	"github.com/33cn/rpschain/common/log"
	"github.com/33cn/rpschain/executor"
	"github.com/33cn/rpschain/pluginmgr"
	"github.com/33cn/rpschain/queue"
	"github.com/33cn/rpschain/types"
)

var (
	remoteIPWhitelist = make(map[string]bool)
	rpcCfg            *types.RPC
	jrpcFuncWhitelist = make(map[string]bool)
	jrpcFuncBlacklist = make(map[string]bool)
	cfgLock           sync.RWMutex
	rlog              = log.New("module", "rpc")
)

// Chain33 系统 rpc, 注册名为 Chain33
type Chain33 struct {
	exec *executor.Executor
}

// JSONRPCServer  a json rpcserver object
type JSONRPCServer struct {
	jrpc *Chain33
	s    *rpc.Server
	l    net.Listener
	srv  *http.Server
	hub  *eventHub
}

// Close json rpcserver close
func (s *JSONRPCServer) Close() {
	if s.srv != nil {
		if err := s.srv.Close(); err != nil {
			rlog.Error("JSONRPCServer close", "err", err)
		}
	}
	if s.hub != nil {
		s.hub.Close()
	}
}

func checkBasicAuth(r *http.Request) bool {
	cfgLock.RLock()
	defer cfgLock.RUnlock()
	if rpcCfg.JrpcUserName == "" && rpcCfg.JrpcUserPasswd == "" {
		return true
	}
	s := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(s) != 2 {
		return false
	}
	b, err := base64.StdEncoding.DecodeString(s[1])
	if err != nil {
		return false
	}
	pair := strings.SplitN(string(b), ":", 2)
	if len(pair) != 2 {
		return false
	}
	return pair[0] == rpcCfg.JrpcUserName && pair[1] == rpcCfg.JrpcUserPasswd
}

func checkIPWhitelist(addr string) bool {
	//回环网络直接允许
	ip := net.ParseIP(addr)
	if ip.IsLoopback() {
		return true
	}
	ipv4 := ip.To4()
	if ipv4 != nil {
		addr = ipv4.String()
	}
	cfgLock.RLock()
	defer cfgLock.RUnlock()
	if _, ok := remoteIPWhitelist["0.0.0.0"]; ok {
		return true
	}
	if _, ok := remoteIPWhitelist[addr]; ok {
		return true
	}
	return false
}

func checkJrpcFuncWhitelist(funcName string) bool {
	cfgLock.RLock()
	defer cfgLock.RUnlock()
	if _, ok := jrpcFuncWhitelist["*"]; ok {
		return true
	}
	if _, ok := jrpcFuncWhitelist[funcName]; ok {
		return true
	}
	return false
}

func checkJrpcFuncBlacklist(funcName string) bool {
	cfgLock.RLock()
	defer cfgLock.RUnlock()
	if _, ok := jrpcFuncBlacklist[funcName]; ok {
		return true
	}
	return false
}

// NewJSONRPCServer new json rpcserver object
func NewJSONRPCServer(exec *executor.Executor) *JSONRPCServer {
	j := &JSONRPCServer{jrpc: &Chain33{exec: exec}, hub: newEventHub()}
	server := rpc.NewServer()
	j.s = server
	err := server.RegisterName("Chain33", j.jrpc)
	if err != nil {
		panic(err)
	}
	return j
}

// RPC 管理 json rpc 服务
type RPC struct {
	cfg       *types.RPC
	japi      *JSONRPCServer
	exec      *executor.Executor
	cli       queue.Client
	ctx       context.Context
	cancelCtx context.CancelFunc
}

// InitCfg  interfaces
func InitCfg(rcfg *types.RPC) {
	cfgLock.Lock()
	defer cfgLock.Unlock()
	rpcCfg = rcfg
	InitIPWhitelist(rcfg)
	InitJrpcFuncWhitelist(rcfg)
	InitJrpcFuncBlacklist(rcfg)
}

// New produce a rpc by cfg
func New(cfg *types.RPC, exec *executor.Executor) *RPC {
	InitCfg(cfg)
	r := &RPC{cfg: cfg, exec: exec}
	r.ctx, r.cancelCtx = context.WithCancel(context.Background())
	return r
}

// SetQueueClient 订阅事件, 注册插件 rpc, 然后开始监听
func (r *RPC) SetQueueClient(c queue.Client) (int, error) {
	r.SetQueueClientNoListen(c)
	return r.Listen()
}

// SetQueueClientNoListen  set queue client with  no listen
func (r *RPC) SetQueueClientNoListen(c queue.Client) {
	r.japi = NewJSONRPCServer(r.exec)
	r.cli = c
	if err := c.Sub(executor.EventTopic); err != nil {
		rlog.Error("SetQueueClient sub event", "err", err)
	} else {
		go r.japi.hub.run(c)
	}
	//注册插件rpc
	pluginmgr.AddRPC(r)
}

// Listen 监听 jrpcBindAddr, 返回实际端口
func (r *RPC) Listen() (int, error) {
	port, err := r.japi.Listen()
	if err != nil {
		rlog.Error("Jrpc Listen", "err", err)
		return 0, err
	}
	rlog.Info("rpc Listen port", "jrpc", port, "ws", r.cfg.EnableWS)
	return port, nil
}

// GetQueueClient get queue client
func (r *RPC) GetQueueClient() queue.Client {
	return r.cli
}

// Context get rpc context
func (r *RPC) Context() context.Context {
	return r.ctx
}

// JRPC return jrpc
func (r *RPC) JRPC() *rpc.Server {
	return r.japi.s
}

// Handler http handler, 不监听端口时使用
func (r *RPC) Handler() http.Handler {
	return r.japi.handler()
}

// Close rpc close
func (r *RPC) Close() {
	if r.japi != nil {
		r.japi.Close()
	}
	if r.cli != nil {
		r.cli.Close()
	}
	r.cancelCtx()
}

// InitIPWhitelist init ip whitelist
func InitIPWhitelist(cfg *types.RPC) {
	remoteIPWhitelist = make(map[string]bool)
	if len(cfg.Whitelist) == 0 {
		remoteIPWhitelist["127.0.0.1"] = true
		return
	}
	if len(cfg.Whitelist) == 1 && cfg.Whitelist[0] == "*" {
		remoteIPWhitelist["0.0.0.0"] = true
		return
	}
	for _, addr := range cfg.Whitelist {
		remoteIPWhitelist[addr] = true
	}
}

// InitJrpcFuncWhitelist init jrpc function whitelist
func InitJrpcFuncWhitelist(cfg *types.RPC) {
	jrpcFuncWhitelist = make(map[string]bool)
	if len(cfg.JrpcFuncWhitelist) == 0 {
		jrpcFuncWhitelist["*"] = true
		return
	}
	if len(cfg.JrpcFuncWhitelist) == 1 && cfg.JrpcFuncWhitelist[0] == "*" {
		jrpcFuncWhitelist["*"] = true
		return
	}
	for _, funcName := range cfg.JrpcFuncWhitelist {
		jrpcFuncWhitelist[funcName] = true
	}
}

// InitJrpcFuncBlacklist init jrpc function blacklist
func InitJrpcFuncBlacklist(cfg *types.RPC) {
	jrpcFuncBlacklist = make(map[string]bool)
	for _, funcName := range cfg.JrpcFuncBlacklist {
		jrpcFuncBlacklist[funcName] = true
	}
}
