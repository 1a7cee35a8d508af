// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Encode 编码，所有存储到数据库以及receipt中的结构都使用该函数序列化
func Encode(data interface{}) []byte {
	b, err := json.Marshal(data)
	if err != nil {
		panic(err)
	}
	return b
}

// Decode 解码
func Decode(data []byte, msg interface{}) error {
	if len(data) == 0 {
		return ErrDecode
	}
	return json.Unmarshal(data, msg)
}

// MustDecode 解码失败直接panic, 只用于内部可信的数据
func MustDecode(data []byte, v interface{}) {
	if err := Decode(data, v); err != nil {
		panic(err)
	}
}

// Account 账户信息, Frozen 只在执行器子账户中使用
type Account struct {
	Currency int32  `json:"currency,omitempty"`
	Balance  int64  `json:"balance"`
	Frozen   int64  `json:"frozen"`
	Addr     string `json:"addr"`
}

// GetBalance get balance
func (m *Account) GetBalance() int64 {
	if m != nil {
		return m.Balance
	}
	return 0
}

// GetFrozen get frozen
func (m *Account) GetFrozen() int64 {
	if m != nil {
		return m.Frozen
	}
	return 0
}

// ReceiptAccountTransfer 账户变更前后快照
type ReceiptAccountTransfer struct {
	Prev    *Account `json:"prev"`
	Current *Account `json:"current"`
}

// ReceiptExecAccountTransfer 执行器子账户变更前后快照
type ReceiptExecAccountTransfer struct {
	ExecAddr string   `json:"execAddr"`
	Prev     *Account `json:"prev"`
	Current  *Account `json:"current"`
}

// KeyValue kv
type KeyValue struct {
	Key   hexutil.Bytes `json:"key"`
	Value hexutil.Bytes `json:"value"`
}

// GetKey get key
func (m *KeyValue) GetKey() []byte {
	if m != nil {
		return m.Key
	}
	return nil
}

// ReceiptLog 执行器产生的日志
type ReceiptLog struct {
	Ty  int32           `json:"ty"`
	Log json.RawMessage `json:"log"`
}

// Receipt 执行器执行交易的结果, KV 为状态数据的修改
type Receipt struct {
	Ty   int32         `json:"ty"`
	KV   []*KeyValue   `json:"kv"`
	Logs []*ReceiptLog `json:"logs"`
}

// ReceiptData 保存到数据库中的交易收据
type ReceiptData struct {
	Ty   int32         `json:"ty"`
	Logs []*ReceiptLog `json:"logs"`
}

// GetTy get ty
func (m *ReceiptData) GetTy() int32 {
	if m != nil {
		return m.Ty
	}
	return 0
}

// LocalDBSet 本地索引数据
type LocalDBSet struct {
	KV []*KeyValue `json:"kv"`
}

// TxResult 交易查询结果
type TxResult struct {
	Hash      string       `json:"hash"`
	Height    int64        `json:"height"`
	Index     int32        `json:"index"`
	BlockTime int64        `json:"blockTime"`
	From      string       `json:"from"`
	Tx        *Transaction `json:"tx"`
	Receipt   *ReceiptData `json:"receipt"`
}

// ReqNil 空请求
type ReqNil struct{}

// ReqHash hash
type ReqHash struct {
	Hash string `json:"hash"`
}

// ReqInt64 int64
type ReqInt64 struct {
	Data int64 `json:"data"`
}

// Reply 通用应答
type Reply struct {
	IsOk bool   `json:"isOk"`
	Msg  string `json:"msg"`
}

// ReqBalance 查询余额
type ReqBalance struct {
	Addresses []string `json:"addresses"`
	Execer    string   `json:"execer"`
}

// ChainQuery 执行器查询请求
type ChainQuery struct {
	Driver   string          `json:"execer"`
	FuncName string          `json:"funcName"`
	Param    json.RawMessage `json:"payload"`
}
