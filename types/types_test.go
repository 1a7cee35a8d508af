// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"testing"
	"time"

	"github.com/33cn/rpschain/common/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	v, err := ParseAmount("0.001")
	require.NoError(t, err)
	assert.Equal(t, Coin/1000, v)

	v, err = ParseAmount("12")
	require.NoError(t, err)
	assert.Equal(t, 12*Coin, v)

	_, err = ParseAmount("0.000000001")
	assert.Equal(t, ErrAmount, err)
	_, err = ParseAmount("-1")
	assert.Equal(t, ErrAmount, err)
	_, err = ParseAmount("abc")
	assert.Equal(t, ErrAmount, err)

	assert.Equal(t, "0.001", FormatAmount(Coin/1000))
	assert.Equal(t, "2", FormatAmount(2*Coin))
}

func TestTxSignAndFrom(t *testing.T) {
	c, err := crypto.New(crypto.SignNameSecp256k1)
	require.NoError(t, err)
	priv, err := c.GenKey()
	require.NoError(t, err)

	tx := NewTransaction("rps", []byte(`{"ty":1}`), Coin)
	assert.False(t, tx.CheckSign())
	hash := tx.Hash()
	require.NoError(t, tx.Sign(priv))
	assert.True(t, tx.CheckSign())
	assert.Equal(t, hash, tx.Hash())
	assert.Len(t, tx.From(), 42)

	tx2, err := DecodeHexTx(tx.HexTx())
	require.NoError(t, err)
	assert.True(t, tx2.CheckSign())
	assert.Equal(t, tx.From(), tx2.From())

	// 修改金额之后签名失效
	tx2.Amount++
	assert.False(t, tx2.CheckSign())
}

func TestTxExpire(t *testing.T) {
	tx := NewTransaction("rps", nil, 0)
	assert.False(t, tx.IsExpire(1<<40, 1<<40))

	tx.SetExpire(10)
	assert.False(t, tx.IsExpire(9, 0))
	assert.True(t, tx.IsExpire(10, 0))

	now := time.Now().Unix()
	tx.SetExpire(time.Second * 5)
	//时间过期至少 120 秒
	assert.True(t, tx.Expire >= now+120)
	assert.False(t, tx.IsExpire(1<<20, now))
	assert.True(t, tx.IsExpire(0, tx.Expire))

	//过期时间参与签名
	hash := tx.Hash()
	tx.Expire++
	assert.NotEqual(t, hash, tx.Hash())
}

func TestConfigString(t *testing.T) {
	cfg, err := InitCfgString(`
Title="local"
[store]
driver="goleveldb"
[rpc]
jrpcBindAddr=":9801"
[exec.sub.rps]
minBet=200000
allowDirectMode=false
[[genesis]]
addr="0x1111111111111111111111111111111111111111"
amount=1000000000
`)
	require.NoError(t, err)
	assert.Equal(t, "local", cfg.Title)
	assert.Equal(t, "goleveldb", cfg.Store.Driver)
	assert.Equal(t, ":9801", cfg.RPC.JrpcBindAddr)
	assert.Equal(t, []string{"127.0.0.1"}, cfg.RPC.Whitelist)
	require.Len(t, cfg.Genesis, 1)
	assert.Equal(t, int64(1000000000), cfg.Genesis[0].Amount)

	var sub struct {
		MinBet          int64 `json:"minBet"`
		AllowDirectMode bool  `json:"allowDirectMode"`
	}
	sub.AllowDirectMode = true
	require.NoError(t, cfg.Exec.SubConfig("rps", &sub))
	assert.Equal(t, int64(200000), sub.MinBet)
	assert.False(t, sub.AllowDirectMode)
	assert.Equal(t, ErrConfigNotFound, cfg.Exec.SubConfig("none", &sub))
}

func TestDecodeSystemLog(t *testing.T) {
	data := Encode(&ReceiptExecAccountTransfer{
		ExecAddr: "0x1111111111111111111111111111111111111111",
		Prev:     &Account{Balance: 1, Frozen: 0},
		Current:  &Account{Balance: 0, Frozen: 1},
	})
	name, v, err := DecodeSystemLog(TyLogExecFrozen, data)
	require.NoError(t, err)
	assert.Equal(t, "LogExecFrozen", name)
	r, ok := v.(*ReceiptExecAccountTransfer)
	require.True(t, ok)
	assert.Equal(t, int64(1), r.Current.GetFrozen())

	_, _, err = DecodeSystemLog(801, data)
	assert.Equal(t, ErrLogType, err)
	_, _, err = DecodeSystemLog(TyLogTransfer, nil)
	assert.Equal(t, ErrDecode, err)

	assert.Equal(t, "ExecOk", ExecResultName(ExecOk))
	assert.Equal(t, "Unknown", ExecResultName(100))
	assert.Equal(t, "EventTx", GetEventName(EventTx))
	assert.Equal(t, "unknow-event", GetEventName(100))
}

func TestCheckAmount(t *testing.T) {
	assert.False(t, CheckAmount(0))
	assert.False(t, CheckAmount(-1))
	assert.False(t, CheckAmount(MaxCoin))
	assert.True(t, CheckAmount(Coin))
}

func TestInitCfgFile(t *testing.T) {
	cfg, err := InitCfg("../cmd/rpsd/rpschain.toml")
	require.NoError(t, err)
	assert.Equal(t, "rpschain", cfg.Title)
	assert.Equal(t, "leveldb", cfg.Store.Driver)
	assert.True(t, cfg.RPC.EnableWS)
	assert.Equal(t, []string{"*"}, cfg.RPC.CorsOrigins)
	assert.Equal(t, int64(60), cfg.Metrics.Duration)
	require.Len(t, cfg.Genesis, 1)

	var sub struct {
		MinBet   int64 `json:"minBet"`
		MaxCount int32 `json:"maxCount"`
	}
	require.NoError(t, cfg.Exec.SubConfig("rps", &sub))
	assert.Equal(t, Coin/100, sub.MinBet)
	assert.Equal(t, int32(100), sub.MaxCount)

	_, err = InitCfg("nofile.toml")
	assert.NotNil(t, err)
}
