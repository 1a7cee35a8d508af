// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package testnode 提供一个通用的测试节点，用于单元测试和集成测试。
package testnode

import (
	"io/ioutil"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/33cn/rpschain/common/crypto"
	dbm "github.com/33cn/rpschain/common/db"
	"github.com/33cn/rpschain/common/log"
	"github.com/33cn/rpschain/executor"
	"github.com/33cn/rpschain/pluginmgr"
	"github.com/33cn/rpschain/queue"
	"github.com/33cn/rpschain/rpc"
	"github.com/33cn/rpschain/rpc/jsonclient"
	"github.com/33cn/rpschain/types"
	"github.com/33cn/rpschain/util"

	_ "github.com/33cn/rpschain/plugin" //load plugins
)

var tlog = log.New("module", "testnode")

//测试账户的初始金额
const (
	TestAccountNum = 4
	TestBalance    = 1000 * types.Coin
	GenesisBalance = 1e6 * types.Coin
)

// GenesisPrivkeyHex 创世账户的私钥
var GenesisPrivkeyHex = "0xcc38546e9e659d15e6b4893f0ab32a06d103931a8230b0bde71459d2b27d6944"

var cfgstring = `
Title="local"

[log]
loglevel = "error"
logConsoleLevel = "error"

[store]
driver="memdb"

[rpc]
jrpcBindAddr="localhost:0"
whitelist=["127.0.0.1"]
enableWS=true

[metrics]
enableMetrics=false

[exec.sub.rps]
minBet=100000
maxBet=0
allowDirectMode=true
defaultCount=20
maxCount=100
`

// RpsMock 单节点: 数据库, 执行器, 消息队列以及 rpc
type RpsMock struct {
	q        queue.Queue
	db       dbm.DB
	dir      string
	exec     *executor.Executor
	rpc      *rpc.RPC
	ts       *httptest.Server
	cfg      *types.Config
	genesis  crypto.PrivKey
	accounts []crypto.PrivKey
}

// GetDefaultConfig 默认的测试配置
func GetDefaultConfig() *types.Config {
	cfg, err := types.InitCfgString(cfgstring)
	if err != nil {
		panic(err)
	}
	return cfg
}

// New cfgpath 为空时使用默认配置
func New(cfgpath string) *RpsMock {
	var cfg *types.Config
	var err error
	if cfgpath == "" {
		cfg, err = types.InitCfgString(cfgstring)
	} else {
		cfg, err = types.InitCfg(cfgpath)
	}
	if err != nil {
		panic(err)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig 创建节点, 创世账户以及测试账户在 genesis 中分配资金
func NewWithConfig(cfg *types.Config) *RpsMock {
	log.SetFileLog(cfg.Log)
	mock := &RpsMock{cfg: cfg}
	pluginmgr.InitExec(cfg.Exec)

	dir := ""
	if cfg.Store.Driver != dbm.MemDBBackendStr {
		var err error
		dir, err = ioutil.TempDir("", "rpschain")
		if err != nil {
			panic(err)
		}
	}
	db, err := dbm.NewDB("testnode", cfg.Store.Driver, dir, cfg.Store.DbCache)
	if err != nil {
		panic(err)
	}
	mock.db, mock.dir = db, dir
	mock.q = queue.New("channel")
	mock.exec = executor.New(db, mock.q.Client())

	mock.genesis, err = util.HexToPrivkey(GenesisPrivkeyHex)
	if err != nil {
		panic(err)
	}
	allocs := append([]*types.GenesisAlloc{}, cfg.Genesis...)
	allocs = append(allocs, &types.GenesisAlloc{Addr: mock.GetGenesisAddress(), Amount: GenesisBalance})
	for i := 0; i < TestAccountNum; i++ {
		addr, priv := util.Genaddress()
		mock.accounts = append(mock.accounts, priv)
		allocs = append(allocs, &types.GenesisAlloc{Addr: addr, Amount: TestBalance})
	}
	if err := mock.exec.Genesis(allocs); err != nil {
		panic(err)
	}

	mock.rpc = rpc.New(cfg.RPC, mock.exec)
	mock.rpc.SetQueueClientNoListen(mock.q.Client())
	mock.ts = httptest.NewServer(mock.rpc.Handler())
	tlog.Info("testnode start", "url", mock.ts.URL)
	return mock
}

// GetExec 执行器
func (mock *RpsMock) GetExec() *executor.Executor {
	return mock.exec
}

// GetRPC rpc
func (mock *RpsMock) GetRPC() *rpc.RPC {
	return mock.rpc
}

// GetCfg 配置
func (mock *RpsMock) GetCfg() *types.Config {
	return mock.cfg
}

// GetClient 新的消息队列 client, 可以用来订阅事件
func (mock *RpsMock) GetClient() queue.Client {
	return mock.q.Client()
}

// GetURL rpc 地址
func (mock *RpsMock) GetURL() string {
	return mock.ts.URL
}

// GetWSURL websocket 地址
func (mock *RpsMock) GetWSURL() string {
	return "ws" + strings.TrimPrefix(mock.ts.URL, "http") + "/ws"
}

// GetJSONC json rpc client
func (mock *RpsMock) GetJSONC() *jsonclient.JSONClient {
	jsonc, err := jsonclient.NewJSONClient(mock.ts.URL)
	if err != nil {
		return nil
	}
	return jsonc
}

// GetGenesisKey 创世账户私钥
func (mock *RpsMock) GetGenesisKey() crypto.PrivKey {
	return mock.genesis
}

// GetGenesisAddress 创世地址
func (mock *RpsMock) GetGenesisAddress() string {
	return util.PrivkeyToAddr(mock.genesis)
}

// GetAccount 第 i 个测试账户, 初始余额为 TestBalance
func (mock *RpsMock) GetAccount(i int) (string, crypto.PrivKey) {
	priv := mock.accounts[i]
	return util.PrivkeyToAddr(priv), priv
}

// SendTx 直接执行交易
func (mock *RpsMock) SendTx(tx *types.Transaction) (*types.TxResult, error) {
	return mock.exec.ExecTx(tx)
}

// GetBalance coins 账户余额
func (mock *RpsMock) GetBalance(addr string) int64 {
	accs, err := mock.exec.GetBalance(&types.ReqBalance{Addresses: []string{addr}})
	if err != nil {
		panic(err)
	}
	return accs[0].Balance
}

// Close 关闭所有模块
func (mock *RpsMock) Close() {
	mock.ts.Close()
	mock.rpc.Close()
	mock.exec.Close()
	mock.q.Close()
	mock.db.Close()
	if mock.dir != "" {
		if err := os.RemoveAll(mock.dir); err != nil {
			tlog.Error("RemoveAll", "dir", mock.dir, "err", err)
		}
	}
}
