// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package types rpc 请求和应答的类型
package types

import (
	"encoding/json"
	"net/rpc"

	"github.com/33cn/rpschain/queue"
)

// RPCServer 插件注册 rpc 时使用的接口
type RPCServer interface {
	GetQueueClient() queue.Client
	JRPC() *rpc.Server
}

// RawParm 签名之后的交易, hex 编码
type RawParm struct {
	Data string `json:"data"`
}

// QueryParm 交易 hash
type QueryParm struct {
	Hash string `json:"hash"`
}

// Query4Jrpc 执行器查询
type Query4Jrpc struct {
	Execer   string          `json:"execer"`
	FuncName string          `json:"funcName"`
	Payload  json.RawMessage `json:"payload"`
}

// ReqBalance 查询余额, execer 为空时查询 coins 账户
type ReqBalance struct {
	Addresses []string `json:"addresses"`
	Execer    string   `json:"execer"`
}

// Account 账户信息
type Account struct {
	Addr       string `json:"addr"`
	Balance    int64  `json:"balance"`
	Frozen     int64  `json:"frozen"`
	BalanceFmt string `json:"balanceFmt"`
	FrozenFmt  string `json:"frozenFmt"`
}

// ReceiptLog 收据中的 log, Log 为解析之后的内容
type ReceiptLog struct {
	Ty     int32       `json:"ty"`
	TyName string      `json:"tyName"`
	Log    interface{} `json:"log"`
	RawLog string      `json:"rawLog"`
}

// ReceiptData 交易收据
type ReceiptData struct {
	Ty     int32         `json:"ty"`
	TyName string        `json:"tyName"`
	Logs   []*ReceiptLog `json:"logs"`
}

// TransactionDetail 交易查询结果
type TransactionDetail struct {
	Hash      string          `json:"hash"`
	Height    int64           `json:"height"`
	BlockTime int64           `json:"blockTime"`
	From      string          `json:"fromAddr"`
	Execer    string          `json:"execer"`
	Amount    int64           `json:"amount"`
	AmountFmt string          `json:"amountFmt"`
	Payload   json.RawMessage `json:"payload"`
	Receipt   *ReceiptData    `json:"receipt"`
}

// ReplyMetrics 运行指标
type ReplyMetrics struct {
	Height  int64            `json:"height"`
	Metrics map[string]int64 `json:"metrics"`
}

// VersionInfo 节点版本
type VersionInfo struct {
	App string `json:"app"`
}
