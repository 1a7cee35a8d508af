// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"sync"

	"github.com/33cn/rpschain/common/log"
	rt "github.com/33cn/rpschain/plugin/dapp/rps/types"
	drivers "github.com/33cn/rpschain/system/dapp"
	"github.com/33cn/rpschain/types"
)

var glog = log.New("module", "execs.rps")

var (
	confMu   sync.RWMutex
	conf     = rt.DefaultConfig()
	initOnce sync.Once
)

// Init 注册执行器, sub 中 [exec.sub.rps] 覆盖默认配置
func Init(name string, sub *types.Exec) {
	c := rt.DefaultConfig()
	if err := sub.SubConfig(name, c); err != nil && err != types.ErrConfigNotFound {
		panic(err)
	}
	SetConfig(c)
	initOnce.Do(func() {
		drivers.Register(name, newRps, 0)
	})
}

// SetConfig 更新配置
func SetConfig(c *rt.Config) {
	if c.MinBet <= 0 {
		c.MinBet = rt.DefaultMinBet
	}
	if c.MaxCount <= 0 {
		c.MaxCount = rt.MaxCount
	}
	if c.DefaultCount <= 0 || c.DefaultCount > c.MaxCount {
		c.DefaultCount = rt.DefaultCount
	}
	confMu.Lock()
	conf = c
	confMu.Unlock()
	glog.Info("rps config", "minBet", c.MinBet, "maxBet", c.MaxBet, "allowDirectMode", c.AllowDirectMode)
}

func getConfig() *rt.Config {
	confMu.RLock()
	defer confMu.RUnlock()
	return conf
}

// Rps 石头剪刀布执行器
type Rps struct {
	drivers.DriverBase
}

func newRps() drivers.Driver {
	r := &Rps{}
	r.SetChild(r)
	return r
}

// GetName 执行器名称
func GetName() string {
	return newRps().GetName()
}

// GetDriverName 驱动名称
func (r *Rps) GetDriverName() string {
	return rt.RpsX
}

// Exec 执行交易
func (r *Rps) Exec(tx *types.Transaction, index int) (*types.Receipt, error) {
	var action rt.RpsAction
	err := types.Decode(tx.Payload, &action)
	if err != nil {
		return nil, types.ErrDecode
	}
	glog.Debug("exec rps tx", "ty", action.Ty)
	actiondb := NewAction(r, tx, index)
	if action.Ty == rt.RpsActionCreate && action.GetCreate() != nil {
		return actiondb.GameCreate(action.GetCreate())
	} else if action.Ty == rt.RpsActionJoin && action.GetJoin() != nil {
		return actiondb.GameJoin(action.GetJoin())
	} else if action.Ty == rt.RpsActionCommit && action.GetCommit() != nil {
		return actiondb.GameCommit(action.GetCommit())
	} else if action.Ty == rt.RpsActionReveal && action.GetReveal() != nil {
		return actiondb.GameReveal(action.GetReveal())
	} else if action.Ty == rt.RpsActionMove && action.GetMove() != nil {
		return actiondb.GameMove(action.GetMove())
	}
	return nil, types.ErrActionNotSupport
}

// ExecLocal 状态变化时更新本地索引
func (r *Rps) ExecLocal(tx *types.Transaction, receipt *types.ReceiptData, index int) (*types.LocalDBSet, error) {
	set, err := r.DriverBase.ExecLocal(tx, receipt, index)
	if err != nil {
		return nil, err
	}
	if receipt.GetTy() != types.ExecOk {
		return set, nil
	}
	for i := 0; i < len(receipt.Logs); i++ {
		item := receipt.Logs[i]
		if !isActionLog(item.Ty) {
			continue
		}
		var rlog rt.ReceiptRps
		err := types.Decode(item.Log, &rlog)
		if err != nil {
			panic(err) //数据错误了，已经被修改了
		}
		if rlog.State == rlog.PrevState {
			continue
		}
		set.KV = append(set.KV, updateIndex(&rlog)...)
	}
	return set, nil
}

// DecodeLog 把 log 转换为事件
func (r *Rps) DecodeLog(ty int32, data []byte) (string, interface{}, error) {
	name, ok := logEventName[ty]
	if !ok {
		return "", nil, types.ErrActionNotSupport
	}
	var rlog rt.ReceiptRps
	if err := types.Decode(data, &rlog); err != nil {
		return "", nil, err
	}
	return name, &rlog, nil
}

var logEventName = map[int32]string{
	rt.TyLogRpsCreate:   rt.EventGameCreated,
	rt.TyLogRpsJoin:     rt.EventOpponentJoined,
	rt.TyLogRpsCommit:   rt.EventMoveCommitted,
	rt.TyLogRpsReveal:   rt.EventMoveRevealed,
	rt.TyLogRpsMove:     rt.EventMoveMade,
	rt.TyLogRpsComplete: rt.EventGameCompleted,
}

//每个交易只有一个 action log, complete log 不参与索引
func isActionLog(ty int32) bool {
	return ty >= rt.TyLogRpsCreate && ty <= rt.TyLogRpsMove
}
