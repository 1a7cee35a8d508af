// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rpc

import (
	"encoding/json"

	"github.com/33cn/rpschain/common"
	"github.com/33cn/rpschain/common/version"
	"github.com/33cn/rpschain/metrics"
	rpctypes "github.com/33cn/rpschain/rpc/types"
	"github.com/33cn/rpschain/system/dapp"
	"github.com/33cn/rpschain/types"
	go_metrics "github.com/rcrowley/go-metrics"
)

// SendTransaction 发送签名之后的交易, 返回交易 hash
func (c *Chain33) SendTransaction(in rpctypes.RawParm, result *interface{}) error {
	tx, err := types.DecodeHexTx(in.Data)
	if err != nil {
		return err
	}
	reply, err := c.exec.ExecTx(tx)
	if err != nil {
		return err
	}
	*result = reply.Hash
	return nil
}

// QueryTransaction 查询交易以及收据
func (c *Chain33) QueryTransaction(in rpctypes.QueryParm, result *interface{}) error {
	hash, err := common.FromHex(in.Hash)
	if err != nil {
		return err
	}
	reply, err := c.exec.GetTx(hash)
	if err != nil {
		return err
	}
	*result = fmtTxDetail(reply)
	return nil
}

// Query 执行器查询, payload 为查询参数的 json
func (c *Chain33) Query(in rpctypes.Query4Jrpc, result *interface{}) error {
	reply, err := c.exec.Query(in.Execer, in.FuncName, in.Payload)
	if err != nil {
		return err
	}
	*result = reply
	return nil
}

// GetBalance 查询余额
func (c *Chain33) GetBalance(in rpctypes.ReqBalance, result *interface{}) error {
	accounts, err := c.exec.GetBalance(&types.ReqBalance{Addresses: in.Addresses, Execer: in.Execer})
	if err != nil {
		return err
	}
	var accs []*rpctypes.Account
	for _, acc := range accounts {
		accs = append(accs, &rpctypes.Account{
			Addr:       acc.Addr,
			Balance:    acc.Balance,
			Frozen:     acc.Frozen,
			BalanceFmt: types.FormatAmount(acc.Balance),
			FrozenFmt:  types.FormatAmount(acc.Frozen),
		})
	}
	*result = accs
	return nil
}

// GetMetrics 当前高度以及执行统计
func (c *Chain33) GetMetrics(in types.ReqNil, result *interface{}) error {
	*result = &rpctypes.ReplyMetrics{
		Height:  c.exec.Height(),
		Metrics: metrics.Snapshot(go_metrics.DefaultRegistry),
	}
	return nil
}

// Version 节点版本
func (c *Chain33) Version(in types.ReqNil, result *interface{}) error {
	*result = &rpctypes.VersionInfo{App: version.GetVersion()}
	return nil
}

func fmtTxDetail(res *types.TxResult) *rpctypes.TransactionDetail {
	detail := &rpctypes.TransactionDetail{
		Hash:      res.Hash,
		Height:    res.Height,
		BlockTime: res.BlockTime,
		From:      res.From,
		Execer:    res.Tx.Execer,
		Amount:    res.Tx.Amount,
		AmountFmt: types.FormatAmount(res.Tx.Amount),
		Receipt:   decodeReceipt(res.Tx.Execer, res.Receipt),
	}
	if json.Valid(res.Tx.Payload) {
		detail.Payload = json.RawMessage(res.Tx.Payload)
	}
	return detail
}

// decodeReceipt 系统 log 由 types 解析, 其他的交给执行器
func decodeReceipt(execer string, r *types.ReceiptData) *rpctypes.ReceiptData {
	if r == nil {
		return nil
	}
	rd := &rpctypes.ReceiptData{Ty: r.Ty, TyName: types.ExecResultName(r.Ty)}
	driver, err := dapp.LoadDriver(execer, -1)
	if err != nil {
		driver = nil
	}
	for _, l := range r.Logs {
		name, v, err := types.DecodeSystemLog(l.Ty, l.Log)
		if err == types.ErrLogType && driver != nil {
			name, v, err = driver.DecodeLog(l.Ty, l.Log)
		}
		if err != nil {
			name, v = "unkownType", nil
		}
		rd.Logs = append(rd.Logs, &rpctypes.ReceiptLog{Ty: l.Ty, TyName: name, Log: v, RawLog: common.ToHex(l.Log)})
	}
	return rd
}
