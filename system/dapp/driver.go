// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dapp 执行器驱动的公共部分: 驱动接口, 注册, Query 分发
package dapp

import (
	"reflect"

	"github.com/33cn/rpschain/account"
	dbm "github.com/33cn/rpschain/common/db"
	"github.com/33cn/rpschain/common/log"
	"github.com/33cn/rpschain/types"
)

var blog = log.New("module", "execs.base")

// Driver 执行器驱动
type Driver interface {
	SetStateDB(dbm.KV)
	GetStateDB() dbm.KV
	SetLocalDB(dbm.KVDB)
	GetLocalDB() dbm.KVDB
	GetCoinsAccount() *account.DB
	//驱动的名字，这个名称是固定的
	GetDriverName() string
	GetName() string
	SetEnv(height, blocktime int64)
	// Exec 修改状态数据, 返回的错误会让整个交易失败并回滚
	Exec(tx *types.Transaction, index int) (*types.Receipt, error)
	// ExecLocal 根据 receipt 生成本地索引
	ExecLocal(tx *types.Transaction, receipt *types.ReceiptData, index int) (*types.LocalDBSet, error)
	Query(funcName string, params []byte) (interface{}, error)
	// DecodeLog 解析本执行器的 receipt log, 返回事件名称以及内容
	DecodeLog(ty int32, data []byte) (string, interface{}, error)
	GetFuncMap() map[string]reflect.Method
}

// DriverBase 驱动的基础实现, 具体的执行器嵌入它并调用 SetChild
type DriverBase struct {
	statedb      dbm.KV
	localdb      dbm.KVDB
	coinsaccount *account.DB
	height       int64
	blocktime    int64
	child        Driver
	childValue   reflect.Value
	funcMap      map[string]reflect.Method
}

// SetChild 设置具体的执行器
func (d *DriverBase) SetChild(e Driver) {
	d.child = e
	d.childValue = reflect.ValueOf(e)
	d.funcMap = ListMethod(e)
}

// GetFuncMap 子类的 Query_ 方法
func (d *DriverBase) GetFuncMap() map[string]reflect.Method {
	return d.funcMap
}

// SetEnv 设置执行环境
func (d *DriverBase) SetEnv(height, blocktime int64) {
	d.height = height
	d.blocktime = blocktime
}

// Exec 默认不支持任何 action
func (d *DriverBase) Exec(tx *types.Transaction, index int) (*types.Receipt, error) {
	return nil, types.ErrActionNotSupport
}

// ExecLocal 默认不产生本地数据
func (d *DriverBase) ExecLocal(tx *types.Transaction, receipt *types.ReceiptData, index int) (*types.LocalDBSet, error) {
	return &types.LocalDBSet{}, nil
}

// DecodeLog 默认无法解析
func (d *DriverBase) DecodeLog(ty int32, data []byte) (string, interface{}, error) {
	return "", nil, types.ErrActionNotSupport
}

// SetStateDB 设置状态数据库
func (d *DriverBase) SetStateDB(db dbm.KV) {
	if d.coinsaccount == nil {
		d.coinsaccount = account.NewCoinsAccount(db)
	}
	d.statedb = db
	d.coinsaccount.SetDB(db)
}

// GetStateDB get
func (d *DriverBase) GetStateDB() dbm.KV {
	return d.statedb
}

// SetLocalDB set
func (d *DriverBase) SetLocalDB(db dbm.KVDB) {
	d.localdb = db
}

// GetLocalDB get
func (d *DriverBase) GetLocalDB() dbm.KVDB {
	return d.localdb
}

// GetHeight 当前交易的执行序号
func (d *DriverBase) GetHeight() int64 {
	return d.height
}

// GetBlockTime 当前交易的执行时间
func (d *DriverBase) GetBlockTime() int64 {
	return d.blocktime
}

// GetName 执行器名称
func (d *DriverBase) GetName() string {
	return d.child.GetDriverName()
}

// GetCoinsAccount coins 账户
func (d *DriverBase) GetCoinsAccount() *account.DB {
	if d.coinsaccount == nil {
		d.coinsaccount = account.NewCoinsAccount(d.statedb)
	}
	return d.coinsaccount
}

// Query 调用子类的 Query_<funcName> 方法, params 为 json 编码的参数
func (d *DriverBase) Query(funcName string, params []byte) (msg interface{}, err error) {
	method, ok := d.funcMap["Query_"+funcName]
	if !ok {
		blog.Debug("Query", "funcName", funcName, "err", types.ErrQueryNotSupport)
		return nil, types.ErrQueryNotSupport
	}
	defer func() {
		if r := recover(); r != nil {
			blog.Error("query error", "funcName", funcName, "info", r)
			msg = nil
			err = types.ErrQueryNotSupport
		}
	}()
	argType := method.Type.In(1)
	arg := reflect.New(argType.Elem())
	if len(params) > 0 {
		if err := types.Decode(params, arg.Interface()); err != nil {
			return nil, types.ErrInvalidParam
		}
	}
	ret := method.Func.Call([]reflect.Value{d.childValue, arg})
	if r, ok := ret[1].Interface().(error); ok && r != nil {
		return nil, r
	}
	return ret[0].Interface(), nil
}
