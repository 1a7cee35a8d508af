// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"github.com/33cn/rpschain/common"
	"github.com/33cn/rpschain/common/log"
	"github.com/33cn/rpschain/types"
)

var tlog = log.New("module", RpsX)

// CreateRawRpsCreateTx 构造未签名的创建交易, 附带押注
func CreateRawRpsCreateTx(parm *RpsCreateTxReq) (*types.Transaction, error) {
	if parm == nil {
		tlog.Error("CreateRawRpsCreateTx", "parm", parm)
		return nil, types.ErrInvalidParam
	}
	v := &RpsCreate{
		BetAmount: parm.BetAmount,
		Mode:      parm.Mode,
	}
	action := &RpsAction{
		Ty:     RpsActionCreate,
		Create: v,
	}
	return types.NewTransaction(RpsX, types.Encode(action), parm.BetAmount), nil
}

// CreateRawRpsJoinTx 构造未签名的加入交易
func CreateRawRpsJoinTx(parm *RpsJoinTxReq) (*types.Transaction, error) {
	if parm == nil {
		return nil, types.ErrInvalidParam
	}
	action := &RpsAction{
		Ty:   RpsActionJoin,
		Join: &RpsJoin{GameID: parm.GameID},
	}
	return types.NewTransaction(RpsX, types.Encode(action), parm.Amount), nil
}

// CreateRawRpsCommitTx 构造未签名的提交承诺交易, commitment 为 hex
func CreateRawRpsCommitTx(parm *RpsCommitTxReq) (*types.Transaction, error) {
	if parm == nil {
		return nil, types.ErrInvalidParam
	}
	commitment, err := common.FromHex(parm.Commitment)
	if err != nil {
		tlog.Error("CreateRawRpsCommitTx", "commitment", parm.Commitment, "err", err)
		return nil, types.ErrInvalidParam
	}
	action := &RpsAction{
		Ty:     RpsActionCommit,
		Commit: &RpsCommit{GameID: parm.GameID, Commitment: commitment},
	}
	return types.NewTransaction(RpsX, types.Encode(action), 0), nil
}

// CreateRawRpsRevealTx 构造未签名的揭示交易, secret 为 hex
func CreateRawRpsRevealTx(parm *RpsRevealTxReq) (*types.Transaction, error) {
	if parm == nil {
		return nil, types.ErrInvalidParam
	}
	secret, err := common.FromHex(parm.Secret)
	if err != nil {
		tlog.Error("CreateRawRpsRevealTx", "secret", parm.Secret, "err", err)
		return nil, types.ErrInvalidParam
	}
	action := &RpsAction{
		Ty:     RpsActionReveal,
		Reveal: &RpsReveal{GameID: parm.GameID, Move: parm.Move, Secret: secret},
	}
	return types.NewTransaction(RpsX, types.Encode(action), 0), nil
}

// CreateRawRpsMoveTx 构造未签名的出拳交易
func CreateRawRpsMoveTx(parm *RpsMoveTxReq) (*types.Transaction, error) {
	if parm == nil {
		return nil, types.ErrInvalidParam
	}
	action := &RpsAction{
		Ty:   RpsActionMove,
		Move: &RpsMove{GameID: parm.GameID, Move: parm.Move},
	}
	return types.NewTransaction(RpsX, types.Encode(action), 0), nil
}
