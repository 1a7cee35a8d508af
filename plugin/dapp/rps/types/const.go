// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"strings"

	"github.com/33cn/rpschain/types"
)

// RpsX 执行器名称
const RpsX = "rps"

var (
	// ExecerRps 执行器名称
	ExecerRps = []byte(RpsX)
)

//rps action ty
const (
	RpsActionCreate = iota + 1
	RpsActionJoin
	RpsActionCommit
	RpsActionReveal
	RpsActionMove
)

// log ty
const (
	TyLogRpsCreate   = 801
	TyLogRpsJoin     = 802
	TyLogRpsCommit   = 803
	TyLogRpsReveal   = 804
	TyLogRpsMove     = 805
	TyLogRpsComplete = 806
)

//游戏状态, 取值和合约版本保持一致
const (
	StateAwaitingOpponent = int32(0)
	StateCommit           = int32(1)
	StateReveal           = int32(2)
	StateComplete         = int32(3)
	//direct 模式下加入之后的状态
	StateInProgress = int32(4)
)

// 出拳
const (
	MoveNone     = int32(0)
	MoveRock     = int32(1)
	MovePaper    = int32(2)
	MoveScissors = int32(3)
)

// 游戏结果
const (
	ResultNone       = int32(0)
	ResultPlayer1Win = int32(1)
	ResultPlayer2Win = int32(2)
	ResultDraw       = int32(3)
)

// 出拳方式
const (
	//先提交承诺再揭示
	ModeCommitReveal = int32(0)
	//直接出拳, 后出拳的一方可以看到先出拳的一方
	ModeDirect = int32(1)
)

// 事件名称
const (
	EventGameCreated    = "game-created"
	EventOpponentJoined = "opponent-joined"
	EventMoveCommitted  = "move-committed"
	EventMoveRevealed   = "move-revealed"
	EventMoveMade       = "move-made"
	EventGameCompleted  = "game-completed"
)

// 查询函数
const (
	FuncNameQueryGameByID                = "QueryGameById"
	FuncNameQueryGameCount               = "QueryGameCount"
	FuncNameQueryGameListByStatusAndAddr = "QueryGameListByStatusAndAddr"
	FuncNameQueryGameListCount           = "QueryGameListCount"
	FuncNameQueryEscrow                  = "QueryEscrow"
)

const (
	// DefaultMinBet 默认最小押注 0.001
	DefaultMinBet = types.Coin / 1000
	// DefaultCount 默认一次取多少条记录
	DefaultCount = int32(20)
	// MaxCount 最多取100条
	MaxCount = int32(100)
)

var stateName = map[int32]string{
	StateAwaitingOpponent: "AWAITING_OPPONENT",
	StateCommit:           "COMMIT",
	StateReveal:           "REVEAL",
	StateComplete:         "COMPLETE",
	StateInProgress:       "IN_PROGRESS",
}

var moveName = map[int32]string{
	MoveNone:     "NONE",
	MoveRock:     "ROCK",
	MovePaper:    "PAPER",
	MoveScissors: "SCISSORS",
}

var resultName = map[int32]string{
	ResultNone:       "NONE",
	ResultPlayer1Win: "PLAYER1_WIN",
	ResultPlayer2Win: "PLAYER2_WIN",
	ResultDraw:       "DRAW",
}

// StateName 状态名称
func StateName(state int32) string {
	if name, ok := stateName[state]; ok {
		return name
	}
	return "UNKNOWN"
}

// MoveName 出拳名称
func MoveName(move int32) string {
	if name, ok := moveName[move]; ok {
		return name
	}
	return "UNKNOWN"
}

// ResultName 结果名称
func ResultName(result int32) string {
	if name, ok := resultName[result]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseMove 支持名称(不区分大小写)或者数字
func ParseMove(s string) (int32, error) {
	switch strings.ToLower(s) {
	case "1", "rock":
		return MoveRock, nil
	case "2", "paper":
		return MovePaper, nil
	case "3", "scissors":
		return MoveScissors, nil
	}
	return MoveNone, ErrInvalidMove
}

// IsValidMove 只有 ROCK, PAPER, SCISSORS 是有效的出拳
func IsValidMove(move int32) bool {
	return move == MoveRock || move == MovePaper || move == MoveScissors
}

// IsValidState 状态是否存在
func IsValidState(state int32) bool {
	_, ok := stateName[state]
	return ok
}
