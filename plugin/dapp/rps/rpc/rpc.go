// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rpc rps 的 jsonrpc 接口, 构造未签名的交易
package rpc

import (
	"context"

	"github.com/33cn/rpschain/common"
	"github.com/33cn/rpschain/common/log"
	"github.com/33cn/rpschain/plugin/dapp/rps/commit"
	rt "github.com/33cn/rpschain/plugin/dapp/rps/types"
	"github.com/33cn/rpschain/queue"
	rpctypes "github.com/33cn/rpschain/rpc/types"
	"github.com/33cn/rpschain/types"
)

var rlog = log.New("module", "rps.rpc")

// Jrpc 注册为 Rps
type Jrpc struct {
	cli *channelClient
}

type channelClient struct {
	queue.Client
}

// Init 注册 rps 的 rpc
func Init(name string, s rpctypes.RPCServer) {
	cli := &channelClient{Client: s.GetQueueClient()}
	if err := s.JRPC().RegisterName("Rps", &Jrpc{cli: cli}); err != nil {
		rlog.Error("register rps rpc", "name", name, "err", err)
		panic(err)
	}
}

// ReqCommitment 计算承诺
type ReqCommitment struct {
	Move   int32  `json:"move"`
	Secret string `json:"secret"`
	Addr   string `json:"addr"`
}

// ReplyCommitment secret 为空时随机生成
type ReplyCommitment struct {
	Secret     string `json:"secret"`
	Commitment string `json:"commitment"`
}

func (c *channelClient) create(ctx context.Context, req *rt.RpsCreateTxReq) (*types.Transaction, error) {
	return rt.CreateRawRpsCreateTx(req)
}

func (c *channelClient) join(ctx context.Context, req *rt.RpsJoinTxReq) (*types.Transaction, error) {
	return rt.CreateRawRpsJoinTx(req)
}

func (c *channelClient) commit(ctx context.Context, req *rt.RpsCommitTxReq) (*types.Transaction, error) {
	return rt.CreateRawRpsCommitTx(req)
}

func (c *channelClient) reveal(ctx context.Context, req *rt.RpsRevealTxReq) (*types.Transaction, error) {
	return rt.CreateRawRpsRevealTx(req)
}

func (c *channelClient) move(ctx context.Context, req *rt.RpsMoveTxReq) (*types.Transaction, error) {
	return rt.CreateRawRpsMoveTx(req)
}

func (c *channelClient) commitment(ctx context.Context, req *ReqCommitment) (*ReplyCommitment, error) {
	var secret []byte
	var err error
	if req.Secret == "" {
		secret, err = commit.NewSecret()
	} else {
		secret, err = common.FromHex(req.Secret)
	}
	if err != nil {
		return nil, err
	}
	if !rt.IsValidMove(req.Move) {
		return nil, rt.ErrInvalidMove
	}
	c1, err := commit.Binding(req.Move, secret, req.Addr)
	if err != nil {
		return nil, err
	}
	return &ReplyCommitment{Secret: common.ToHex(secret), Commitment: common.ToHex(c1)}, nil
}

func hexTx(tx *types.Transaction, err error, result *interface{}) error {
	if err != nil {
		return err
	}
	*result = tx.HexTx()
	return nil
}
