// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package account

import (
	"testing"

	"github.com/33cn/rpschain/common/address"
	"github.com/33cn/rpschain/common/db"
	"github.com/33cn/rpschain/types"
	"github.com/stretchr/testify/require"
)

var (
	addr1 = "0x6e0c5c1a2e4d7a6d5e4bfa7d0f6a6c3f0c2f5b11"
	addr2 = "0x9a3b3c2d1e0f1a2b3c4d5e6f7a8b9c0d1e2f3a22"
	addr3 = "0x1f2e3d4c5b6a79880796a5b4c3d2e1f0a1b2c333"
)

// memKV 直接读写内存数据库, 不支持事务
type memKV struct {
	db.DB
}

func (m *memKV) Begin()        {}
func (m *memKV) Rollback()     {}
func (m *memKV) Commit() error { return nil }

func GenerAccDb() *DB {
	stroedb, _ := db.NewGoMemDB("gomemdb", "test", 128)
	return NewCoinsAccount(&memKV{stroedb})
}

func (acc *DB) GenerAccData() {
	account := &types.Account{
		Balance: 1000 * 1e8,
		Addr:    addr1,
	}
	acc.SaveAccount(account)

	account.Balance = 900 * 1e8
	account.Addr = addr2
	acc.SaveAccount(account)
}

func TestNewAccountDB(t *testing.T) {
	_, err := NewAccountDB("co-ins", "bty", nil)
	require.Equal(t, types.ErrExecNameNotAllow, err)
	_, err = NewAccountDB("coins", "b-ty", nil)
	require.Equal(t, types.ErrSymbolNameNotAllow, err)
	acc, err := NewAccountDB("coins", "bty", nil)
	require.NoError(t, err)
	require.Equal(t, "mavl-coins-bty-"+addr1, string(acc.AccountKey(addr1)))
}

func TestTransfer(t *testing.T) {
	accCoin := GenerAccDb()
	accCoin.GenerAccData()

	receipt, err := accCoin.Transfer(addr1, addr2, 10*1e8)
	require.NoError(t, err)
	require.Len(t, receipt.Logs, 2)
	require.Len(t, receipt.KV, 2)
	require.Equal(t, int64(1000*1e8-10*1e8), accCoin.LoadAccount(addr1).Balance)
	require.Equal(t, int64(900*1e8+10*1e8), accCoin.LoadAccount(addr2).Balance)

	_, err = accCoin.Transfer(addr3, addr1, 1)
	require.Equal(t, types.ErrNoBalance, err)
	_, err = accCoin.Transfer(addr1, addr1, 1)
	require.Equal(t, types.ErrSendSameToRecv, err)
	_, err = accCoin.Transfer(addr1, addr2, 0)
	require.Equal(t, types.ErrAmount, err)
}

func TestExecFrozenAndSettle(t *testing.T) {
	accCoin := GenerAccDb()
	accCoin.GenerAccData()
	execaddr := address.ExecAddress("rps")

	_, err := accCoin.TransferToExec(addr1, execaddr, 5*1e8)
	require.NoError(t, err)
	_, err = accCoin.TransferToExec(addr2, execaddr, 5*1e8)
	require.NoError(t, err)
	require.Equal(t, int64(10*1e8), accCoin.LoadAccount(execaddr).Balance)

	_, err = accCoin.ExecFrozen(addr1, execaddr, 5*1e8)
	require.NoError(t, err)
	_, err = accCoin.ExecFrozen(addr2, execaddr, 5*1e8)
	require.NoError(t, err)
	_, err = accCoin.ExecFrozen(addr2, execaddr, 1)
	require.Equal(t, types.ErrNoBalance, err)

	acc1 := accCoin.LoadExecAccount(addr1, execaddr)
	require.Equal(t, int64(0), acc1.Balance)
	require.Equal(t, int64(5*1e8), acc1.Frozen)

	// addr1 赢得全部冻结资金
	_, err = accCoin.ExecActive(addr1, execaddr, 5*1e8)
	require.NoError(t, err)
	_, err = accCoin.ExecTransferFrozen(addr2, addr1, execaddr, 5*1e8)
	require.NoError(t, err)
	_, err = accCoin.TransferWithdraw(addr1, execaddr, 10*1e8)
	require.NoError(t, err)

	require.Equal(t, int64(1005*1e8), accCoin.LoadAccount(addr1).Balance)
	require.Equal(t, int64(895*1e8), accCoin.LoadAccount(addr2).Balance)
	require.Equal(t, int64(0), accCoin.LoadAccount(execaddr).Balance)
	require.Equal(t, &types.Account{Addr: addr2}, accCoin.LoadExecAccount(addr2, execaddr))

	_, err = accCoin.TransferWithdraw(addr1, execaddr, 1)
	require.Equal(t, types.ErrNoBalance, err)
}

func TestExecAccountGuards(t *testing.T) {
	accCoin := GenerAccDb()
	accCoin.GenerAccData()
	execaddr := address.ExecAddress("rps")
	_, err := accCoin.TransferToExec(addr1, execaddr, 2*1e8)
	require.NoError(t, err)
	_, err = accCoin.ExecFrozen(addr1, execaddr, 1e8)
	require.NoError(t, err)

	_, err = accCoin.ExecActive(addr1, execaddr, 2*1e8)
	require.Equal(t, types.ErrNoBalance, err)
	_, err = accCoin.ExecTransferFrozen(addr1, execaddr, execaddr, 1e8)
	require.Equal(t, types.ErrSendSameToRecv, err)
	_, err = accCoin.ExecTransferFrozen(addr1, addr1, execaddr, 1e8)
	require.Equal(t, types.ErrSendSameToRecv, err)
	_, err = accCoin.ExecFrozen(execaddr, execaddr, 1)
	require.Equal(t, types.ErrSendSameToRecv, err)
	//失败的操作不修改子账户
	require.Equal(t, &types.Account{Addr: addr1, Balance: 1e8, Frozen: 1e8}, accCoin.LoadExecAccount(addr1, execaddr))

	receipt, err := accCoin.ExecTransferFrozen(addr1, addr2, execaddr, 1e8)
	require.NoError(t, err)
	require.Len(t, receipt.KV, 2)
	require.Len(t, receipt.Logs, 2)
	require.Equal(t, int32(types.TyLogExecTransfer), receipt.Logs[0].Ty)
	require.Equal(t, int64(1e8), accCoin.LoadExecAccount(addr2, execaddr).Balance)
}

func TestGenesisInit(t *testing.T) {
	accCoin := GenerAccDb()
	receipt, err := accCoin.GenesisInit(addr3, 100*1e8)
	require.NoError(t, err)
	require.Equal(t, int32(types.TyLogGenesisTransfer), receipt.Logs[0].Ty)
	require.Equal(t, int64(100*1e8), accCoin.LoadAccount(addr3).Balance)
	_, err = accCoin.GenesisInit(addr3, types.MaxTokenBalance)
	require.Equal(t, types.ErrAmount, err)
}
