// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rpc

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	dbm "github.com/33cn/rpschain/common/db"
	"github.com/33cn/rpschain/executor"
	"github.com/33cn/rpschain/queue"
	"github.com/33cn/rpschain/rpc/jsonclient"
	rpctypes "github.com/33cn/rpschain/rpc/types"
	"github.com/33cn/rpschain/types"
	"github.com/33cn/rpschain/util"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckIPWhitelist(t *testing.T) {
	InitCfg(&types.RPC{})
	assert.True(t, checkIPWhitelist("127.0.0.1"))
	assert.True(t, checkIPWhitelist("::1"))
	assert.False(t, checkIPWhitelist("192.168.1.2"))

	InitCfg(&types.RPC{Whitelist: []string{"192.168.1.2"}})
	assert.True(t, checkIPWhitelist("192.168.1.2"))
	assert.True(t, checkIPWhitelist("::ffff:192.168.1.2"))
	assert.False(t, checkIPWhitelist("192.168.1.3"))

	InitCfg(&types.RPC{Whitelist: []string{"*"}})
	assert.True(t, checkIPWhitelist("10.0.0.1"))
	assert.True(t, checkIPWhitelist("0.0.0.0"))
}

func TestCheckJrpcFuncList(t *testing.T) {
	InitCfg(&types.RPC{})
	assert.True(t, checkJrpcFuncWhitelist("GetBalance"))
	assert.False(t, checkJrpcFuncBlacklist("GetBalance"))

	InitCfg(&types.RPC{
		JrpcFuncWhitelist: []string{"GetBalance", "Query"},
		JrpcFuncBlacklist: []string{"SendTransaction"},
	})
	assert.True(t, checkJrpcFuncWhitelist("Query"))
	assert.False(t, checkJrpcFuncWhitelist("SendTransaction"))
	assert.True(t, checkJrpcFuncBlacklist("SendTransaction"))
}

func TestCheckBasicAuth(t *testing.T) {
	InitCfg(&types.RPC{})
	r := httptest.NewRequest("POST", "/", nil)
	assert.True(t, checkBasicAuth(r))

	InitCfg(&types.RPC{JrpcUserName: "user", JrpcUserPasswd: "passwd"})
	assert.False(t, checkBasicAuth(r))
	r.SetBasicAuth("user", "wrong")
	assert.False(t, checkBasicAuth(r))
	r.SetBasicAuth("user", "passwd")
	assert.True(t, checkBasicAuth(r))
}

type serverEnv struct {
	rpc  *RPC
	exec *executor.Executor
	ts   *httptest.Server
	addr string
}

func newServerEnv(t *testing.T, cfg *types.RPC) *serverEnv {
	db, err := dbm.NewGoMemDB("rpc", "", 0)
	require.Nil(t, err)
	q := queue.New("channel")
	exec := executor.New(db, q.Client())
	addr, _ := util.Genaddress()
	require.Nil(t, exec.Genesis([]*types.GenesisAlloc{{Addr: addr, Amount: 10 * types.Coin}}))
	r := New(cfg, exec)
	r.SetQueueClientNoListen(q.Client())
	ts := httptest.NewServer(r.Handler())
	t.Cleanup(func() {
		ts.Close()
		r.Close()
		exec.Close()
		q.Close()
		db.Close()
	})
	return &serverEnv{rpc: r, exec: exec, ts: ts, addr: addr}
}

func TestJSONRPCGetBalance(t *testing.T) {
	env := newServerEnv(t, &types.RPC{})
	jsonc, err := jsonclient.NewJSONClient(env.ts.URL)
	require.Nil(t, err)

	var accs []*rpctypes.Account
	err = jsonc.Call("Chain33.GetBalance", rpctypes.ReqBalance{Addresses: []string{env.addr}}, &accs)
	require.Nil(t, err)
	require.Len(t, accs, 1)
	assert.Equal(t, 10*types.Coin, accs[0].Balance)
	assert.Equal(t, "10", accs[0].BalanceFmt)
	assert.Equal(t, "0", accs[0].FrozenFmt)

	var metrics rpctypes.ReplyMetrics
	require.Nil(t, jsonc.Call("Chain33.GetMetrics", types.ReqNil{}, &metrics))
	assert.Equal(t, int64(0), metrics.Height)

	var hash string
	err = jsonc.Call("Chain33.SendTransaction", rpctypes.RawParm{Data: "0x1234"}, &hash)
	assert.NotNil(t, err)

	var detail rpctypes.TransactionDetail
	err = jsonc.Call("Chain33.QueryTransaction", rpctypes.QueryParm{Hash: "0x00"}, &detail)
	require.NotNil(t, err)
	assert.Equal(t, types.ErrHashNotFound.Error(), err.Error())
}

func TestJSONRPCAuth(t *testing.T) {
	env := newServerEnv(t, &types.RPC{
		JrpcUserName:      "user",
		JrpcUserPasswd:    "passwd",
		JrpcFuncBlacklist: []string{"GetMetrics"},
		EnableWS:          true,
	})
	jsonc, err := jsonclient.NewJSONClient(env.ts.URL)
	require.Nil(t, err)

	var accs []*rpctypes.Account
	req := rpctypes.ReqBalance{Addresses: []string{env.addr}}
	err = jsonc.Call("Chain33.GetBalance", req, &accs)
	require.NotNil(t, err)
	assert.Equal(t, types.ErrRPCAuth.Error(), err.Error())

	jsonc.SetBasicAuth("user", "passwd")
	require.Nil(t, jsonc.Call("Chain33.GetBalance", req, &accs))

	var metrics rpctypes.ReplyMetrics
	err = jsonc.Call("Chain33.GetMetrics", types.ReqNil{}, &metrics)
	require.NotNil(t, err)
	assert.Equal(t, "The GetMetrics method is not authorized!", err.Error())

	//websocket 同样需要认证
	wsURL := "ws" + env.ts.URL[len("http"):] + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NotNil(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestWSEvents(t *testing.T) {
	env := newServerEnv(t, &types.RPC{EnableWS: true})
	wsURL := "ws" + env.ts.URL[len("http"):] + "/ws?execer=rps"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Nil(t, err)
	defer conn.Close()

	var ev types.Event
	require.Nil(t, conn.ReadJSON(&ev))
	assert.Equal(t, types.EventNameSubscribed, ev.Name)
	assert.Equal(t, 1, env.rpc.japi.hub.Count())

	//其他执行器的事件被过滤
	env.rpc.japi.hub.Publish(&types.Event{Name: "other", Execer: "coins"})
	env.rpc.japi.hub.Publish(&types.Event{Name: "game-created", Execer: "rps", Height: 3})
	require.Nil(t, conn.ReadJSON(&ev))
	assert.Equal(t, "game-created", ev.Name)
	assert.Equal(t, int64(3), ev.Height)
}

func TestWSSlowListener(t *testing.T) {
	env := newServerEnv(t, &types.RPC{EnableWS: true})
	hub := env.rpc.japi.hub
	wsURL := "ws" + env.ts.URL[len("http"):] + "/ws?execer=rps"
	slow, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Nil(t, err)
	defer slow.Close()
	var ev types.Event
	require.Nil(t, slow.ReadJSON(&ev))
	require.Equal(t, 1, hub.Count())

	//slow 之后不再读取, Publish 不能被它卡住
	big := strings.Repeat("a", 64<<10)
	begin := time.Now()
	for i := 0; hub.Count() > 0 && time.Since(begin) < 5*time.Second; i++ {
		hub.Publish(&types.Event{Name: "game-created", Execer: "rps", Height: int64(i), Data: big})
	}
	assert.Equal(t, 0, hub.Count())
	assert.True(t, time.Since(begin) < writeWait)

	fast, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Nil(t, err)
	defer fast.Close()
	require.Nil(t, fast.ReadJSON(&ev))
	assert.Equal(t, types.EventNameSubscribed, ev.Name)
	for i := 0; i < 10; i++ {
		hub.Publish(&types.Event{Name: "move-made", Execer: "rps", Height: int64(i)})
	}
	for i := 0; i < 10; i++ {
		require.Nil(t, fast.ReadJSON(&ev))
		assert.Equal(t, "move-made", ev.Name)
		assert.Equal(t, int64(i), ev.Height)
	}
	assert.Equal(t, 1, hub.Count())
}
