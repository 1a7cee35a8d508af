// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"testing"

	dbm "github.com/33cn/rpschain/common/db"
	"github.com/33cn/rpschain/types"
	"github.com/33cn/rpschain/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateDB(t *testing.T) {
	db, err := dbm.NewGoMemDB("state", "", 0)
	require.Nil(t, err)
	defer db.Close()
	require.Nil(t, db.Set([]byte("mavl-rps-a"), []byte("1")))

	s := NewStateDB(db)
	v, err := s.Get([]byte("mavl-rps-a"))
	require.Nil(t, err)
	assert.Equal(t, []byte("1"), v)

	s.Begin()
	s.Set([]byte("mavl-rps-a"), []byte("2"))
	s.Set([]byte("mavl-rps-b"), []byte("3"))
	v, _ = s.Get([]byte("mavl-rps-a"))
	assert.Equal(t, []byte("2"), v)
	s.Rollback()
	v, _ = s.Get([]byte("mavl-rps-a"))
	assert.Equal(t, []byte("1"), v)
	_, err = s.Get([]byte("mavl-rps-b"))
	assert.Equal(t, types.ErrNotFound, err)
	assert.Len(t, s.Dirty(), 0)

	s.Begin()
	s.Set([]byte("mavl-rps-b"), []byte("3"))
	s.Set([]byte("mavl-rps-a"), nil)
	require.Nil(t, s.Commit())
	_, err = s.Get([]byte("mavl-rps-a"))
	assert.Equal(t, types.ErrNotFound, err)
	dirty := s.Dirty()
	require.Len(t, dirty, 2)
	assert.Equal(t, "mavl-rps-a", string(dirty[0].Key))
	assert.Nil(t, dirty[0].Value)
	assert.Equal(t, "mavl-rps-b", string(dirty[1].Key))

	//没有写入之前后端数据库不变
	v, err = db.Get([]byte("mavl-rps-a"))
	require.Nil(t, err)
	assert.Equal(t, []byte("1"), v)
	s.Reset()
	v, _ = s.Get([]byte("mavl-rps-a"))
	assert.Equal(t, []byte("1"), v)
}

func TestCheckPrefix(t *testing.T) {
	exec := &Executor{}
	execer := []byte("rps")
	ok := []*types.KeyValue{
		{Key: []byte("mavl-rps-game:1")},
		{Key: []byte("mavl-coins-bty-0x01")},
	}
	assert.Nil(t, exec.checkPrefix(execer, ok))
	assert.Equal(t, errBadExecKey, exec.checkPrefix(execer, []*types.KeyValue{{Key: []byte("mavl-token-x")}}))
	assert.Equal(t, errBadExecKey, exec.checkPrefix(execer, []*types.KeyValue{{Key: []byte("LODB-rps-x")}}))
	assert.Equal(t, errBadExecKey, exec.checkPrefix(execer, []*types.KeyValue{{Key: []byte("mavl-rps")}}))

	e, err := findExecer([]byte("mavl-rps-game"))
	require.Nil(t, err)
	assert.Equal(t, "rps", string(e))
}

func TestGenesisAndBalance(t *testing.T) {
	db, err := dbm.NewGoMemDB("genesis", "", 0)
	require.Nil(t, err)
	exec := New(db, nil)
	defer exec.Close()
	addr, priv := util.Genaddress()

	err = exec.Genesis([]*types.GenesisAlloc{{Addr: "bad", Amount: types.Coin}})
	assert.NotNil(t, err)
	require.Nil(t, exec.Genesis([]*types.GenesisAlloc{{Addr: addr, Amount: 5 * types.Coin}}))
	assert.Equal(t, types.ErrGenesisAlreadyInit, exec.Genesis(nil))

	accs, err := exec.GetBalance(&types.ReqBalance{Addresses: []string{addr}})
	require.Nil(t, err)
	require.Len(t, accs, 1)
	assert.Equal(t, 5*types.Coin, accs[0].Balance)
	_, err = exec.GetBalance(&types.ReqBalance{Addresses: []string{"0x12"}})
	assert.NotNil(t, err)
	_, err = exec.GetBalance(&types.ReqBalance{Addresses: []string{addr}, Execer: "none"})
	assert.Equal(t, types.ErrExecNotFound, err)

	//没有注册的执行器
	tx := util.CreateTxWithExecer(priv, "none", &types.ReqNil{}, 0)
	_, err = exec.ExecTx(tx)
	assert.Equal(t, types.ErrExecNotFound, err)
	assert.Equal(t, int64(0), exec.Height())
	_, err = exec.GetTx(tx.Hash())
	assert.Equal(t, types.ErrHashNotFound, err)
	//签名有效的失败交易不能重放
	_, err = exec.ExecTx(tx)
	assert.Equal(t, types.ErrTxDup, err)

	expired := types.NewTransaction("none", types.Encode(&types.ReqNil{}), 0)
	expired.SetExpire(1)
	_, err = exec.ExecTx(util.SignTx(expired, priv))
	assert.Equal(t, types.ErrTxExpire, err)
	assert.Equal(t, int64(0), exec.Height())
	_, err = exec.Query("none", "GetGame", nil)
	assert.Equal(t, types.ErrExecNotFound, err)

	//重新打开之后创世状态保留
	exec2 := New(db, nil)
	assert.Equal(t, types.ErrGenesisAlreadyInit, exec2.Genesis(nil))
}
