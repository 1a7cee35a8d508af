// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package account

import (
	"github.com/33cn/rpschain/types"
)

// 执行器子账户: 资金转入执行器地址之后, 记录在 (addr, execaddr) 子账户中,
// Balance 为可用部分, Frozen 为托管冻结的部分

// LoadExecAccount 不存在的子账户返回空账户
func (acc *DB) LoadExecAccount(addr, execaddr string) *types.Account {
	value, err := acc.db.Get(acc.execAccountKey(addr, execaddr))
	if err != nil {
		return &types.Account{Addr: addr}
	}
	var acc1 types.Account
	err = types.Decode(value, &acc1)
	if err != nil {
		panic(err) //数据库已经损坏
	}
	return &acc1
}

// LoadExecAccounts 批量载入子账户
func (acc *DB) LoadExecAccounts(addrs []string, execaddr string) []*types.Account {
	accs := make([]*types.Account, 0, len(addrs))
	for _, addr := range addrs {
		accs = append(accs, acc.LoadExecAccount(addr, execaddr))
	}
	return accs
}

func (acc *DB) execAccountKey(address, execaddr string) (key []byte) {
	key = make([]byte, 0, len(acc.execAccountKeyPerfix)+len(execaddr)+len(address)+1)
	key = append(key, acc.execAccountKeyPerfix...)
	key = append(key, []byte(execaddr)...)
	key = append(key, ':')
	key = append(key, []byte(address)...)
	return key
}

// execChange 修改一个子账户, change 返回错误时不保存
// 返回的 receipt 只包含这个子账户的 kv 以及 log
func (acc *DB) execChange(ty int32, addr, execaddr string, amount int64, change func(a *types.Account) error) (*types.Receipt, error) {
	if addr == execaddr {
		return nil, types.ErrSendSameToRecv
	}
	if !types.CheckAmount(amount) {
		return nil, types.ErrAmount
	}
	cur := acc.LoadExecAccount(addr, execaddr)
	prev := *cur
	if err := change(cur); err != nil {
		return nil, err
	}
	return acc.saveExec(ty, execaddr, &prev, cur), nil
}

func (acc *DB) saveExec(ty int32, execaddr string, prev, cur *types.Account) *types.Receipt {
	kv := &types.KeyValue{Key: acc.execAccountKey(cur.Addr, execaddr), Value: types.Encode(cur)}
	if err := acc.db.Set(kv.Key, kv.Value); err != nil {
		panic(err)
	}
	r := &types.ReceiptExecAccountTransfer{ExecAddr: execaddr, Prev: prev, Current: cur}
	return &types.Receipt{
		Ty:   types.ExecOk,
		KV:   []*types.KeyValue{kv},
		Logs: []*types.ReceiptLog{{Ty: ty, Log: types.Encode(r)}},
	}
}

// TransferToExec coins 转入执行器地址, 同时记入 from 的子账户
func (acc *DB) TransferToExec(from, execaddr string, amount int64) (*types.Receipt, error) {
	receipt, err := acc.Transfer(from, execaddr, amount)
	if err != nil {
		return nil, err
	}
	deposit, err := acc.execChange(types.TyLogExecDeposit, from, execaddr, amount, func(a *types.Account) error {
		a.Balance += amount
		return nil
	})
	if err != nil {
		//Transfer 成功之后存款不会失败
		panic(err)
	}
	return acc.mergeReceipt(receipt, deposit), nil
}

// TransferWithdraw 子账户的可用余额取回到 from 的 coins 账户
func (acc *DB) TransferWithdraw(from, execaddr string, amount int64) (*types.Receipt, error) {
	//执行器地址上的 coins 不够时直接失败
	if err := acc.CheckTransfer(execaddr, from, amount); err != nil {
		return nil, err
	}
	withdraw, err := acc.execChange(types.TyLogExecWithdraw, from, execaddr, amount, func(a *types.Account) error {
		if a.Balance < amount {
			return types.ErrNoBalance
		}
		a.Balance -= amount
		return nil
	})
	if err != nil {
		return nil, err
	}
	receipt, err := acc.Transfer(execaddr, from, amount)
	if err != nil {
		panic(err)
	}
	return acc.mergeReceipt(withdraw, receipt), nil
}

// ExecFrozen 可用余额转为冻结, 托管押注
func (acc *DB) ExecFrozen(addr, execaddr string, amount int64) (*types.Receipt, error) {
	return acc.execChange(types.TyLogExecFrozen, addr, execaddr, amount, func(a *types.Account) error {
		if a.Balance < amount {
			alog.Error("ExecFrozen", "addr", addr, "balance", a.Balance, "amount", amount)
			return types.ErrNoBalance
		}
		a.Balance -= amount
		a.Frozen += amount
		return nil
	})
}

// ExecActive 冻结部分解冻为可用
func (acc *DB) ExecActive(addr, execaddr string, amount int64) (*types.Receipt, error) {
	return acc.execChange(types.TyLogExecActive, addr, execaddr, amount, func(a *types.Account) error {
		if a.Frozen < amount {
			return types.ErrNoBalance
		}
		a.Frozen -= amount
		a.Balance += amount
		return nil
	})
}

// ExecTransferFrozen from 冻结的资金转到 to 的可用余额, 输家押注转给赢家
func (acc *DB) ExecTransferFrozen(from, to, execaddr string, amount int64) (*types.Receipt, error) {
	if from == to || to == execaddr {
		return nil, types.ErrSendSameToRecv
	}
	receipt, err := acc.execChange(types.TyLogExecTransfer, from, execaddr, amount, func(a *types.Account) error {
		if a.Frozen < amount {
			return types.ErrNoBalance
		}
		a.Frozen -= amount
		return nil
	})
	if err != nil {
		return nil, err
	}
	credit, err := acc.execChange(types.TyLogExecTransfer, to, execaddr, amount, func(a *types.Account) error {
		a.Balance += amount
		return nil
	})
	if err != nil {
		return nil, err
	}
	return acc.mergeReceipt(receipt, credit), nil
}
