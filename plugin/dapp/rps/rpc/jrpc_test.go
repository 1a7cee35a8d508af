// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rpc_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/33cn/rpschain/common/crypto"
	commonlog "github.com/33cn/rpschain/common/log"
	"github.com/33cn/rpschain/plugin/dapp/rps/commands"
	rpsrpc "github.com/33cn/rpschain/plugin/dapp/rps/rpc"
	rt "github.com/33cn/rpschain/plugin/dapp/rps/types"
	"github.com/33cn/rpschain/rpc/jsonclient"
	rpctypes "github.com/33cn/rpschain/rpc/types"
	"github.com/33cn/rpschain/types"
	"github.com/33cn/rpschain/util"
	"github.com/33cn/rpschain/util/testnode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	commonlog.SetLogLevel("error")
}

type rpcEnv struct {
	t     *testing.T
	mock  *testnode.RpsMock
	jsonc *jsonclient.JSONClient
}

func (e *rpcEnv) rawTx(method string, req interface{}) *types.Transaction {
	var data string
	require.Nil(e.t, e.jsonc.Call("Rps."+method, req, &data))
	tx, err := types.DecodeHexTx(data)
	require.Nil(e.t, err)
	return tx
}

func (e *rpcEnv) send(tx *types.Transaction, priv crypto.PrivKey) (string, error) {
	var hash string
	err := e.jsonc.Call("Chain33.SendTransaction", rpctypes.RawParm{Data: util.SignTx(tx, priv).HexTx()}, &hash)
	return hash, err
}

func (e *rpcEnv) mustSend(tx *types.Transaction, priv crypto.PrivKey) string {
	hash, err := e.send(tx, priv)
	require.Nil(e.t, err)
	return hash
}

func (e *rpcEnv) query(funcName string, param, reply interface{}) error {
	req := rpctypes.Query4Jrpc{
		Execer:   rt.RpsX,
		FuncName: funcName,
		Payload:  types.Encode(param),
	}
	return e.jsonc.Call("Chain33.Query", req, reply)
}

func (e *rpcEnv) game(id uint64) *rt.Game {
	var reply rt.ReplyGame
	require.Nil(e.t, e.query(rt.FuncNameQueryGameByID, &rt.QueryGameInfo{GameID: id}, &reply))
	return reply.Game
}

func (e *rpcEnv) balance(addr, execer string) *rpctypes.Account {
	var accs []*rpctypes.Account
	req := rpctypes.ReqBalance{Addresses: []string{addr}, Execer: execer}
	require.Nil(e.t, e.jsonc.Call("Chain33.GetBalance", req, &accs))
	require.Len(e.t, accs, 1)
	return accs[0]
}

func (e *rpcEnv) commitment(move int32, addr string) *rpsrpc.ReplyCommitment {
	var reply rpsrpc.ReplyCommitment
	require.Nil(e.t, e.jsonc.Call("Rps.CalcCommitment", &rpsrpc.ReqCommitment{Move: move, Addr: addr}, &reply))
	return &reply
}

func TestJRPCGame(t *testing.T) {
	mock := testnode.New("")
	defer mock.Close()
	jsonc := mock.GetJSONC()
	require.NotNil(t, jsonc)
	e := &rpcEnv{t: t, mock: mock, jsonc: jsonc}
	addr1, priv1 := mock.GetAccount(0)
	addr2, priv2 := mock.GetAccount(1)
	var base rpctypes.ReplyMetrics
	require.Nil(t, jsonc.Call("Chain33.GetMetrics", types.ReqNil{}, &base))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	var out bytes.Buffer
	subscribed := make(chan struct{})
	w := &commands.Watcher{
		URL:           commands.WSURL(mock.GetURL()),
		GameID:        0,
		UntilComplete: true,
		MaxRetry:      3,
		Out:           &out,
		OnSubscribed:  func() { close(subscribed) },
	}
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	select {
	case <-subscribed:
	case err := <-done:
		t.Fatal("watcher exit", err)
	case <-ctx.Done():
		t.Fatal("subscribe timeout")
	}

	bet := types.Coin
	e.mustSend(e.rawTx("CreateRawGameCreateTx", &rt.RpsCreateTxReq{BetAmount: bet, Mode: rt.ModeCommitReveal}), priv1)
	game := e.game(0)
	assert.Equal(t, rt.StateAwaitingOpponent, game.State)
	assert.Equal(t, addr1, game.Player1)

	e.mustSend(e.rawTx("CreateRawGameJoinTx", &rt.RpsJoinTxReq{GameID: 0, Amount: game.BetAmount}), priv2)
	var escrow rt.ReplyEscrow
	require.Nil(t, e.query(rt.FuncNameQueryEscrow, &rt.QueryGameInfo{GameID: 0}, &escrow))
	assert.Equal(t, 2*bet, escrow.Escrow)
	assert.Equal(t, bet, escrow.Player1Frozen)
	assert.Equal(t, bet, escrow.Player2Frozen)
	assert.Equal(t, bet, e.balance(addr2, rt.RpsX).Frozen)

	c1 := e.commitment(rt.MoveRock, addr1)
	c2 := e.commitment(rt.MoveScissors, addr2)
	e.mustSend(e.rawTx("CreateRawGameCommitTx", &rt.RpsCommitTxReq{GameID: 0, Commitment: c1.Commitment}), priv1)
	e.mustSend(e.rawTx("CreateRawGameCommitTx", &rt.RpsCommitTxReq{GameID: 0, Commitment: c2.Commitment}), priv2)
	assert.Equal(t, rt.StateReveal, e.game(0).State)

	//用对方的 secret 揭示会失败
	_, err := e.send(e.rawTx("CreateRawGameRevealTx", &rt.RpsRevealTxReq{GameID: 0, Move: rt.MoveRock, Secret: c2.Secret}), priv1)
	require.NotNil(t, err)
	assert.Equal(t, rt.ErrInvalidCommitment.Error(), err.Error())

	e.mustSend(e.rawTx("CreateRawGameRevealTx", &rt.RpsRevealTxReq{GameID: 0, Move: rt.MoveRock, Secret: c1.Secret}), priv1)
	hash := e.mustSend(e.rawTx("CreateRawGameRevealTx", &rt.RpsRevealTxReq{GameID: 0, Move: rt.MoveScissors, Secret: c2.Secret}), priv2)

	game = e.game(0)
	assert.Equal(t, rt.StateComplete, game.State)
	assert.Equal(t, rt.ResultPlayer1Win, game.Result)
	assert.Equal(t, addr1, game.Winner)
	acc1 := e.balance(addr1, "")
	assert.Equal(t, testnode.TestBalance+bet, acc1.Balance)
	assert.Equal(t, types.FormatAmount(testnode.TestBalance+bet), acc1.BalanceFmt)
	assert.Equal(t, testnode.TestBalance-bet, e.balance(addr2, "").Balance)
	assert.Equal(t, int64(0), e.balance(addr2, rt.RpsX).Frozen)

	var detail rpctypes.TransactionDetail
	require.Nil(t, jsonc.Call("Chain33.QueryTransaction", rpctypes.QueryParm{Hash: hash}, &detail))
	assert.Equal(t, addr2, detail.From)
	assert.Equal(t, rt.RpsX, detail.Execer)
	require.NotNil(t, detail.Receipt)
	assert.Equal(t, "ExecOk", detail.Receipt.TyName)
	var names []string
	for _, l := range detail.Receipt.Logs {
		names = append(names, l.TyName)
	}
	assert.Contains(t, names, rt.EventMoveRevealed)
	assert.Contains(t, names, rt.EventGameCompleted)
	assert.Contains(t, names, "LogExecActive")
	assert.NotContains(t, names, "unkownType")

	var metrics rpctypes.ReplyMetrics
	require.Nil(t, jsonc.Call("Chain33.GetMetrics", types.ReqNil{}, &metrics))
	assert.Equal(t, mock.GetExec().Height(), metrics.Height)
	//create, join, 两次 commit, 两次 reveal 成功, 一次 reveal 失败
	assert.Equal(t, base.Metrics["rpschain.exec.tx.ok"]+6, metrics.Metrics["rpschain.exec.tx.ok"])
	assert.Equal(t, base.Metrics["rpschain.exec.tx.fail"]+1, metrics.Metrics["rpschain.exec.tx.fail"])

	select {
	case err := <-done:
		require.Nil(t, err)
	case <-ctx.Done():
		t.Fatal("watch timeout")
	}
	var events []string
	scanner := bufio.NewScanner(&out)
	for scanner.Scan() {
		var ev commands.GameEvent
		require.Nil(t, json.Unmarshal(scanner.Bytes(), &ev))
		assert.Equal(t, rt.RpsX, ev.Execer)
		events = append(events, ev.Name)
	}
	assert.Equal(t, []string{
		rt.EventGameCreated,
		rt.EventOpponentJoined,
		rt.EventMoveCommitted,
		rt.EventMoveCommitted,
		rt.EventMoveRevealed,
		rt.EventMoveRevealed,
		rt.EventGameCompleted,
	}, events)
}

func TestJRPCErrors(t *testing.T) {
	mock := testnode.New("")
	defer mock.Close()
	jsonc := mock.GetJSONC()
	e := &rpcEnv{t: t, mock: mock, jsonc: jsonc}
	_, priv := mock.GetAccount(2)

	var res string
	err := jsonc.Call("Rps.NoSuchMethod", &rt.RpsCreateTxReq{}, &res)
	require.NotNil(t, err)
	assert.True(t, strings.Contains(err.Error(), "can't find method"), err.Error())

	err = jsonc.Call("Rps.CreateRawGameCommitTx", &rt.RpsCommitTxReq{Commitment: "0xzz"}, &res)
	require.NotNil(t, err)
	assert.Equal(t, types.ErrInvalidParam.Error(), err.Error())

	var reply rpsrpc.ReplyCommitment
	err = jsonc.Call("Rps.CalcCommitment", &rpsrpc.ReqCommitment{Move: 9, Addr: mock.GetGenesisAddress()}, &reply)
	require.NotNil(t, err)
	assert.Equal(t, rt.ErrInvalidMove.Error(), err.Error())

	_, err = e.send(e.rawTx("CreateRawGameCreateTx", &rt.RpsCreateTxReq{BetAmount: 1}), priv)
	require.NotNil(t, err)
	assert.Equal(t, rt.ErrInvalidStake.Error(), err.Error())
	_, err = e.send(e.rawTx("CreateRawGameJoinTx", &rt.RpsJoinTxReq{GameID: 5, Amount: types.Coin}), priv)
	require.NotNil(t, err)
	assert.Equal(t, rt.ErrGameNotFound.Error(), err.Error())

	var game rt.ReplyGame
	err = e.query(rt.FuncNameQueryGameByID, &rt.QueryGameInfo{GameID: 0}, &game)
	require.NotNil(t, err)
	assert.Equal(t, rt.ErrGameNotFound.Error(), err.Error())

	var count rt.ReplyGameCount
	require.Nil(t, e.query(rt.FuncNameQueryGameCount, &types.ReqNil{}, &count))
	assert.Equal(t, uint64(0), count.Count)
}

func TestWSURL(t *testing.T) {
	assert.Equal(t, "ws://localhost:8801/ws?execer=rps", commands.WSURL("http://localhost:8801"))
	assert.Equal(t, "wss://example.com/ws?execer=rps", commands.WSURL("https://example.com/"))
	assert.Equal(t, "ws://127.0.0.1:8801/ws?execer=rps", commands.WSURL("127.0.0.1:8801"))
}
