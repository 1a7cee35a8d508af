// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

// coin conversation
const (
	Coin            int64 = 1e8
	MaxCoin         int64 = 1e17
	MaxTxSize             = 100000 //100K
	MaxTxsPerBlock        = 100000
	TokenPrecision  int64 = 1e8
	MaxTokenBalance int64 = 900 * 1e8 * TokenPrecision //900亿
)

// ExecOk 和 ExecErr 为交易执行结果
const (
	ExecErr  = 0
	ExecPack = 1
	ExecOk   = 2
)

// 账户相关的 log 类型
const (
	TyLogFee = 2
	// TyLogTransfer coins转账log
	TyLogTransfer = 3
	// TyLogGenesis 创世资金
	TyLogGenesis         = 4
	TyLogDeposit         = 5
	TyLogExecTransfer    = 6
	TyLogExecWithdraw    = 7
	TyLogExecDeposit     = 8
	TyLogExecFrozen      = 9
	TyLogExecActive      = 10
	TyLogGenesisTransfer = 11
	TyLogGenesisDeposit  = 12
)

// list 方向
const (
	ListDESC = int32(0)
	ListASC  = int32(1)
)

var (
	// CoinsX 系统币执行器名称
	CoinsX = "coins"
	// CoinSymbol 系统币符号
	CoinSymbol = "bty"
)

// CheckAmount 检查金额是否合法
func CheckAmount(amount int64) bool {
	if amount <= 0 || amount >= MaxCoin {
		return false
	}
	return true
}
