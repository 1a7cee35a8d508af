// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import "errors"

var (
	// ErrNotFound 数据不存在
	ErrNotFound           = errors.New("ErrNotFound")
	ErrNoBalance          = errors.New("ErrNoBalance")
	ErrAmount             = errors.New("ErrAmount")
	ErrSendSameToRecv     = errors.New("ErrSendSameToRecv")
	ErrExecNameNotAllow   = errors.New("ErrExecNameNotAllow")
	ErrSymbolNameNotAllow = errors.New("ErrSymbolNameNotAllow")
	ErrActionNotSupport   = errors.New("ErrActionNotSupport")
	ErrExecNotFound       = errors.New("ErrExecNotFound")
	ErrQueryNotSupport    = errors.New("ErrQueryNotSupport")
	ErrInvalidParam       = errors.New("ErrInvalidParam")
	ErrSign               = errors.New("ErrSign")
	ErrNoSignature        = errors.New("ErrNoSignature")
	ErrTxDup              = errors.New("ErrTxDup")
	ErrTxExpire           = errors.New("ErrTxExpire")
	ErrTxMsgSizeTooBig    = errors.New("ErrTxMsgSizeTooBig")
	ErrDecode             = errors.New("ErrDecode")
	ErrIsClosed           = errors.New("ErrIsClosed")
	ErrGenesisAlreadyInit = errors.New("ErrGenesisAlreadyInit")
	ErrPrivateKeyLen      = errors.New("ErrPrivateKeyLen")
	ErrHashNotFound       = errors.New("ErrHashNotFound")
	ErrLogType            = errors.New("ErrLogType")
	ErrRPCAuth            = errors.New("ErrRPCAuth")
	ErrConfigNotFound     = errors.New("ErrConfigNotFound")
)
