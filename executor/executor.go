// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package executor 交易执行: 验签, 去重, 调用执行器驱动, 保存状态, 本地索引以及收据
package executor

import (
	"bytes"
	"errors"
	"sync"
	"time"

	"github.com/33cn/rpschain/account"
	"github.com/33cn/rpschain/common"
	"github.com/33cn/rpschain/common/address"
	dbm "github.com/33cn/rpschain/common/db"
	"github.com/33cn/rpschain/common/log"
	"github.com/33cn/rpschain/metrics"
	"github.com/33cn/rpschain/queue"
	"github.com/33cn/rpschain/system/dapp"
	"github.com/33cn/rpschain/types"
	go_metrics "github.com/rcrowley/go-metrics"
)

var elog = log.New("module", "execs")

// EventTopic 执行器事件推送的 topic
const EventTopic = "event"

var (
	commonPrefix  = []byte("mavl-")
	txPrefix      = []byte("TX:")
	rejectPrefix  = []byte("TXRejected:")
	heightKey     = []byte("Executor:Height")
	genesisKey    = []byte("Executor:Genesis")
	execerCoins   = []byte(types.CoinsX)
	errBadExecKey = errors.New("ErrBadExecKey")
)

// Executor 按顺序执行交易, 每个交易要么全部生效要么全部失败
type Executor struct {
	mu      sync.Mutex
	db      dbm.DB
	stateDB *StateDB
	localDB *LocalDB
	client  queue.Client
	height  int64
	now     func() int64

	txOk    go_metrics.Counter
	txFail  go_metrics.Counter
	execDur go_metrics.Timer
}

// New 创建执行器, client 为 nil 时不推送事件
func New(db dbm.DB, client queue.Client) *Executor {
	exec := &Executor{
		db:      db,
		stateDB: NewStateDB(db),
		localDB: NewLocalDB(db),
		client:  client,
		now:     func() int64 { return time.Now().Unix() },
		txOk:    metrics.NewCounter("exec.tx.ok"),
		txFail:  metrics.NewCounter("exec.tx.fail"),
		execDur: metrics.NewTimer("exec.tx.duration"),
	}
	if value, err := db.Get(heightKey); err == nil {
		var h types.ReqInt64
		types.MustDecode(value, &h)
		exec.height = h.Data
	}
	elog.Info("executor start", "height", exec.height, "drivers", dapp.ListDrivers())
	return exec
}

// Height 已经执行成功的交易数量
func (exec *Executor) Height() int64 {
	exec.mu.Lock()
	defer exec.mu.Unlock()
	return exec.height
}

// Genesis 初始化创世账户, 只能执行一次
func (exec *Executor) Genesis(allocs []*types.GenesisAlloc) error {
	exec.mu.Lock()
	defer exec.mu.Unlock()
	if _, err := exec.db.Get(genesisKey); err == nil {
		return types.ErrGenesisAlreadyInit
	}
	coins := account.NewCoinsAccount(exec.stateDB)
	exec.stateDB.Begin()
	for _, alloc := range allocs {
		addr := address.FormatEthAddress(alloc.Addr)
		if err := address.CheckAddress(addr); err != nil {
			exec.stateDB.Rollback()
			return err
		}
		if _, err := coins.GenesisInit(addr, alloc.Amount); err != nil {
			exec.stateDB.Rollback()
			elog.Error("genesis", "addr", addr, "amount", alloc.Amount, "err", err)
			return err
		}
	}
	if err := exec.stateDB.Commit(); err != nil {
		exec.stateDB.Reset()
		return err
	}
	batch := exec.db.NewBatch(true)
	writeKVs(batch, exec.stateDB.Dirty())
	batch.Set(genesisKey, types.Encode(&types.ReqInt64{Data: exec.now()}))
	err := batch.Write()
	exec.stateDB.Reset()
	if err != nil {
		return err
	}
	elog.Info("genesis init", "accounts", len(allocs))
	return nil
}

// ExecTx 执行一个已经签名的交易
func (exec *Executor) ExecTx(tx *types.Transaction) (*types.TxResult, error) {
	exec.mu.Lock()
	defer exec.mu.Unlock()
	begin := time.Now()
	result, events, err := exec.execTx(tx)
	exec.execDur.UpdateSince(begin)
	if err != nil {
		exec.txFail.Inc(1)
		elog.Debug("ExecTx", "execer", tx.Execer, "err", err)
		return nil, err
	}
	exec.txOk.Inc(1)
	exec.publish(events)
	return result, nil
}

// checkTx 签名之前的检查, 失败的交易不会被记录
func (exec *Executor) checkTx(tx *types.Transaction) error {
	if tx.Size() > types.MaxTxSize {
		return types.ErrTxMsgSizeTooBig
	}
	if tx.Signature == nil {
		return types.ErrNoSignature
	}
	if !tx.CheckSign() {
		return types.ErrSign
	}
	return nil
}

func (exec *Executor) checkTxDup(hash []byte) error {
	if _, err := exec.db.Get(txKey(hash)); err == nil {
		return types.ErrTxDup
	}
	if _, err := exec.db.Get(rejectKey(hash)); err == nil {
		return types.ErrTxDup
	}
	return nil
}

// rejectTx 签名有效但是执行失败的交易同样消耗掉, 不能被再次发送
func (exec *Executor) rejectTx(hash []byte, height int64) {
	if err := exec.db.Set(rejectKey(hash), types.Encode(&types.ReqInt64{Data: height})); err != nil {
		elog.Error("rejectTx", "hash", common.ToHex(hash), "err", err)
	}
}

func (exec *Executor) execTx(tx *types.Transaction) (result *types.TxResult, events []*types.Event, err error) {
	if err := exec.checkTx(tx); err != nil {
		return nil, nil, err
	}
	hash := tx.Hash()
	if err := exec.checkTxDup(hash); err != nil {
		return nil, nil, err
	}
	defer func() {
		if err != nil {
			exec.rejectTx(hash, exec.height)
		}
	}()
	if tx.Amount < 0 || tx.Amount >= types.MaxCoin {
		return nil, nil, types.ErrAmount
	}
	if tx.IsExpire(exec.height+1, exec.now()) {
		return nil, nil, types.ErrTxExpire
	}
	driver, err := dapp.LoadDriver(tx.Execer, exec.height)
	if err != nil {
		return nil, nil, err
	}
	height := exec.height + 1
	blocktime := exec.now()
	driver.SetStateDB(exec.stateDB)
	driver.SetLocalDB(exec.localDB)
	driver.SetEnv(height, blocktime)

	exec.stateDB.Begin()
	receipt, err := driver.Exec(tx, 0)
	if err == nil {
		err = exec.checkPrefix([]byte(tx.Execer), receipt.KV)
	}
	if err != nil {
		exec.stateDB.Rollback()
		return nil, nil, err
	}
	for _, kv := range receipt.KV {
		exec.stateDB.Set(kv.Key, kv.Value)
	}
	if err := exec.stateDB.Commit(); err != nil {
		exec.stateDB.Reset()
		return nil, nil, err
	}
	data := &types.ReceiptData{Ty: receipt.Ty, Logs: receipt.Logs}

	exec.localDB.Begin()
	set, err := driver.ExecLocal(tx, data, 0)
	if err != nil {
		exec.localDB.Rollback()
		exec.stateDB.Reset()
		return nil, nil, err
	}
	for _, kv := range set.KV {
		exec.localDB.Set(kv.Key, kv.Value)
	}
	exec.localDB.Commit()

	result = &types.TxResult{
		Hash:      common.ToHex(hash),
		Height:    height,
		BlockTime: blocktime,
		From:      tx.From(),
		Tx:        tx,
		Receipt:   data,
	}
	batch := exec.db.NewBatch(true)
	writeKVs(batch, exec.stateDB.Dirty())
	writeKVs(batch, exec.localDB.Dirty())
	batch.Set(txKey(hash), types.Encode(result))
	batch.Set(heightKey, types.Encode(&types.ReqInt64{Data: height}))
	err = batch.Write()
	exec.stateDB.Reset()
	exec.localDB.Reset()
	if err != nil {
		elog.Error("execTx write batch", "hash", result.Hash, "err", err)
		return nil, nil, err
	}
	exec.height = height
	return result, exec.decodeEvents(driver, result), nil
}

func (exec *Executor) decodeEvents(driver dapp.Driver, result *types.TxResult) []*types.Event {
	var events []*types.Event
	for _, l := range result.Receipt.Logs {
		name, value, err := driver.DecodeLog(l.Ty, l.Log)
		if err != nil {
			continue
		}
		events = append(events, &types.Event{
			Name:   name,
			Execer: driver.GetName(),
			TxHash: result.Hash,
			Height: result.Height,
			Data:   value,
		})
	}
	return events
}

func (exec *Executor) publish(events []*types.Event) {
	if exec.client == nil {
		return
	}
	for _, ev := range events {
		msg := exec.client.NewMessage(EventTopic, types.EventReceiptLogs, ev)
		if _, err := exec.client.Send(msg); err != nil {
			elog.Error("publish event", "name", ev.Name, "err", err)
		}
	}
}

// checkPrefix 执行器只能修改自己的 key 以及 coins 账户
func (exec *Executor) checkPrefix(execer []byte, kvs []*types.KeyValue) error {
	for _, kv := range kvs {
		keyexecer, err := findExecer(kv.Key)
		if err != nil {
			return err
		}
		if !bytes.Equal(keyexecer, execer) && !bytes.Equal(keyexecer, execerCoins) {
			elog.Error("checkPrefix", "execer", string(execer), "key", string(kv.Key))
			return errBadExecKey
		}
	}
	return nil
}

func findExecer(key []byte) (execer []byte, err error) {
	if !bytes.HasPrefix(key, commonPrefix) {
		return nil, errBadExecKey
	}
	for i := len(commonPrefix); i < len(key); i++ {
		if key[i] == '-' {
			return key[len(commonPrefix):i], nil
		}
	}
	return nil, errBadExecKey
}

// Query 调用执行器的查询函数, 只读
func (exec *Executor) Query(driverName, funcName string, param []byte) (interface{}, error) {
	driver, err := dapp.LoadDriver(driverName, -1)
	if err != nil {
		return nil, err
	}
	exec.mu.Lock()
	defer exec.mu.Unlock()
	driver.SetStateDB(NewStateDB(exec.db))
	driver.SetLocalDB(NewLocalDB(exec.db))
	driver.SetEnv(exec.height, exec.now())
	return driver.Query(funcName, param)
}

// GetTx 根据交易hash查询执行结果
func (exec *Executor) GetTx(hash []byte) (*types.TxResult, error) {
	value, err := exec.db.Get(txKey(hash))
	if err != nil {
		return nil, types.ErrHashNotFound
	}
	var result types.TxResult
	if err := types.Decode(value, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetBalance 查询 coins 账户, execer 不为空时查询该执行器下的子账户
func (exec *Executor) GetBalance(req *types.ReqBalance) ([]*types.Account, error) {
	addrs := make([]string, 0, len(req.Addresses))
	for _, addr := range req.Addresses {
		addr = address.FormatEthAddress(addr)
		if err := address.CheckAddress(addr); err != nil {
			return nil, err
		}
		addrs = append(addrs, addr)
	}
	exec.mu.Lock()
	defer exec.mu.Unlock()
	coins := account.NewCoinsAccount(NewStateDB(exec.db))
	if req.Execer == "" || req.Execer == types.CoinsX {
		return coins.LoadAccounts(addrs), nil
	}
	if _, err := dapp.LoadDriver(req.Execer, -1); err != nil {
		return nil, err
	}
	return coins.LoadExecAccounts(addrs, dapp.ExecAddress(req.Execer)), nil
}

// Close 关闭
func (exec *Executor) Close() {
	if exec.client != nil {
		exec.client.Close()
	}
	elog.Info("executor closed")
}

func txKey(hash []byte) []byte {
	return append(append([]byte{}, txPrefix...), hash...)
}

func rejectKey(hash []byte) []byte {
	return append(append([]byte{}, rejectPrefix...), hash...)
}

func writeKVs(batch dbm.Batch, kvs []*types.KeyValue) {
	for _, kv := range kvs {
		if kv.Value == nil {
			batch.Delete(kv.Key)
		} else {
			batch.Set(kv.Key, kv.Value)
		}
	}
}
