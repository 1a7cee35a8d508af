// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rpc

import (
	"context"

	rt "github.com/33cn/rpschain/plugin/dapp/rps/types"
	"github.com/33cn/rpschain/types"
)

// CreateRawGameCreateTx 创建游戏
func (c *Jrpc) CreateRawGameCreateTx(parm *rt.RpsCreateTxReq, result *interface{}) error {
	if parm == nil {
		return types.ErrInvalidParam
	}
	tx, err := c.cli.create(context.Background(), parm)
	return hexTx(tx, err, result)
}

// CreateRawGameJoinTx 加入游戏
func (c *Jrpc) CreateRawGameJoinTx(parm *rt.RpsJoinTxReq, result *interface{}) error {
	if parm == nil {
		return types.ErrInvalidParam
	}
	tx, err := c.cli.join(context.Background(), parm)
	return hexTx(tx, err, result)
}

// CreateRawGameCommitTx 提交承诺
func (c *Jrpc) CreateRawGameCommitTx(parm *rt.RpsCommitTxReq, result *interface{}) error {
	if parm == nil {
		return types.ErrInvalidParam
	}
	tx, err := c.cli.commit(context.Background(), parm)
	return hexTx(tx, err, result)
}

// CreateRawGameRevealTx 揭示出拳
func (c *Jrpc) CreateRawGameRevealTx(parm *rt.RpsRevealTxReq, result *interface{}) error {
	if parm == nil {
		return types.ErrInvalidParam
	}
	tx, err := c.cli.reveal(context.Background(), parm)
	return hexTx(tx, err, result)
}

// CreateRawGameMoveTx direct 模式出拳
func (c *Jrpc) CreateRawGameMoveTx(parm *rt.RpsMoveTxReq, result *interface{}) error {
	if parm == nil {
		return types.ErrInvalidParam
	}
	tx, err := c.cli.move(context.Background(), parm)
	return hexTx(tx, err, result)
}

// CalcCommitment 计算承诺, secret 为空时随机生成
func (c *Jrpc) CalcCommitment(parm *ReqCommitment, result *interface{}) error {
	if parm == nil {
		return types.ErrInvalidParam
	}
	reply, err := c.cli.commitment(context.Background(), parm)
	if err != nil {
		return err
	}
	*result = reply
	return nil
}
