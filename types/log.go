// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"reflect"
)

// LogInfo 系统 log 的类型和名称
type LogInfo struct {
	Ty   reflect.Type
	Name string
}

// SystemLog 账户相关的系统 log, 所有执行器共用
var SystemLog = map[int32]*LogInfo{
	TyLogFee:             {reflect.TypeOf(ReceiptAccountTransfer{}), "LogFee"},
	TyLogTransfer:        {reflect.TypeOf(ReceiptAccountTransfer{}), "LogTransfer"},
	TyLogGenesis:         {reflect.TypeOf(ReceiptAccountTransfer{}), "LogGenesis"},
	TyLogDeposit:         {reflect.TypeOf(ReceiptAccountTransfer{}), "LogDeposit"},
	TyLogExecTransfer:    {reflect.TypeOf(ReceiptExecAccountTransfer{}), "LogExecTransfer"},
	TyLogExecWithdraw:    {reflect.TypeOf(ReceiptExecAccountTransfer{}), "LogExecWithdraw"},
	TyLogExecDeposit:     {reflect.TypeOf(ReceiptExecAccountTransfer{}), "LogExecDeposit"},
	TyLogExecFrozen:      {reflect.TypeOf(ReceiptExecAccountTransfer{}), "LogExecFrozen"},
	TyLogExecActive:      {reflect.TypeOf(ReceiptExecAccountTransfer{}), "LogExecActive"},
	TyLogGenesisTransfer: {reflect.TypeOf(ReceiptAccountTransfer{}), "LogGenesisTransfer"},
	TyLogGenesisDeposit:  {reflect.TypeOf(ReceiptExecAccountTransfer{}), "LogGenesisDeposit"},
}

// DecodeSystemLog 解析系统 log, 不是系统 log 时返回 ErrLogType
func DecodeSystemLog(ty int32, data []byte) (string, interface{}, error) {
	info, ok := SystemLog[ty]
	if !ok {
		return "", nil, ErrLogType
	}
	v := reflect.New(info.Ty).Interface()
	if err := Decode(data, v); err != nil {
		return "", nil, err
	}
	return info.Name, v, nil
}

// ExecResultName 收据类型名称
func ExecResultName(ty int32) string {
	switch ty {
	case ExecErr:
		return "ExecErr"
	case ExecPack:
		return "ExecPack"
	case ExecOk:
		return "ExecOk"
	}
	return "Unknown"
}
