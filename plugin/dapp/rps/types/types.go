// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package types rps 执行器的数据结构, 常量以及交易构造
package types

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Game 一局游戏的状态数据
type Game struct {
	GameID    uint64 `json:"gameId"`
	Mode      int32  `json:"mode"`
	State     int32  `json:"state"`
	Player1   string `json:"player1"`
	Player2   string `json:"player2,omitempty"`
	BetAmount int64  `json:"betAmount"`
	//当前托管的金额
	Escrow            int64         `json:"escrow"`
	Player1Commitment hexutil.Bytes `json:"player1Commitment,omitempty"`
	Player2Commitment hexutil.Bytes `json:"player2Commitment,omitempty"`
	Player1Move       int32         `json:"player1Move"`
	Player2Move       int32         `json:"player2Move"`
	Result            int32         `json:"result"`
	Winner            string        `json:"winner,omitempty"`
	CreateTime        int64         `json:"createTime"`
	JoinTime          int64         `json:"joinTime,omitempty"`
	CloseTime         int64         `json:"closeTime,omitempty"`
	CreateTxHash      string        `json:"createTxHash"`
	JoinTxHash        string        `json:"joinTxHash,omitempty"`
	CloseTxHash       string        `json:"closeTxHash,omitempty"`
	//最后一次状态变化时的执行序号, 本地索引使用
	Index     int64 `json:"index"`
	PrevIndex int64 `json:"prevIndex"`
}

// IsParticipant 是否是参与者
func (g *Game) IsParticipant(addr string) bool {
	return addr != "" && (addr == g.Player1 || addr == g.Player2)
}

// RpsAction 交易的 payload, 根据 Ty 选择其中一个动作
type RpsAction struct {
	Ty     int32      `json:"ty"`
	Create *RpsCreate `json:"create,omitempty"`
	Join   *RpsJoin   `json:"join,omitempty"`
	Commit *RpsCommit `json:"commit,omitempty"`
	Reveal *RpsReveal `json:"reveal,omitempty"`
	Move   *RpsMove   `json:"move,omitempty"`
}

// GetCreate get create
func (m *RpsAction) GetCreate() *RpsCreate {
	if m != nil {
		return m.Create
	}
	return nil
}

// GetJoin get join
func (m *RpsAction) GetJoin() *RpsJoin {
	if m != nil {
		return m.Join
	}
	return nil
}

// GetCommit get commit
func (m *RpsAction) GetCommit() *RpsCommit {
	if m != nil {
		return m.Commit
	}
	return nil
}

// GetReveal get reveal
func (m *RpsAction) GetReveal() *RpsReveal {
	if m != nil {
		return m.Reveal
	}
	return nil
}

// GetMove get move
func (m *RpsAction) GetMove() *RpsMove {
	if m != nil {
		return m.Move
	}
	return nil
}

// RpsCreate 创建游戏, 交易的 Amount 必须等于 BetAmount
type RpsCreate struct {
	BetAmount int64 `json:"betAmount"`
	Mode      int32 `json:"mode"`
}

// GetBetAmount get bet amount
func (m *RpsCreate) GetBetAmount() int64 {
	if m != nil {
		return m.BetAmount
	}
	return 0
}

// GetMode get mode
func (m *RpsCreate) GetMode() int32 {
	if m != nil {
		return m.Mode
	}
	return 0
}

// RpsJoin 加入游戏, 交易的 Amount 必须等于游戏的押注
type RpsJoin struct {
	GameID uint64 `json:"gameId"`
}

// GetGameID get game id
func (m *RpsJoin) GetGameID() uint64 {
	if m != nil {
		return m.GameID
	}
	return 0
}

// RpsCommit 提交承诺
type RpsCommit struct {
	GameID     uint64        `json:"gameId"`
	Commitment hexutil.Bytes `json:"commitment"`
}

// GetGameID get game id
func (m *RpsCommit) GetGameID() uint64 {
	if m != nil {
		return m.GameID
	}
	return 0
}

// GetCommitment get commitment
func (m *RpsCommit) GetCommitment() []byte {
	if m != nil {
		return m.Commitment
	}
	return nil
}

// RpsReveal 揭示出拳
type RpsReveal struct {
	GameID uint64        `json:"gameId"`
	Move   int32         `json:"move"`
	Secret hexutil.Bytes `json:"secret"`
}

// GetGameID get game id
func (m *RpsReveal) GetGameID() uint64 {
	if m != nil {
		return m.GameID
	}
	return 0
}

// GetMove get move
func (m *RpsReveal) GetMove() int32 {
	if m != nil {
		return m.Move
	}
	return 0
}

// GetSecret get secret
func (m *RpsReveal) GetSecret() []byte {
	if m != nil {
		return m.Secret
	}
	return nil
}

// RpsMove direct 模式直接出拳
type RpsMove struct {
	GameID uint64 `json:"gameId"`
	Move   int32  `json:"move"`
}

// GetGameID get game id
func (m *RpsMove) GetGameID() uint64 {
	if m != nil {
		return m.GameID
	}
	return 0
}

// GetMove get move
func (m *RpsMove) GetMove() int32 {
	if m != nil {
		return m.Move
	}
	return 0
}

// ReceiptRps 每次状态变化产生的 log
type ReceiptRps struct {
	GameID    uint64 `json:"gameId"`
	State     int32  `json:"state"`
	PrevState int32  `json:"prevState"`
	//触发本次操作的地址
	Addr      string `json:"addr"`
	Player1   string `json:"player1"`
	Player2   string `json:"player2,omitempty"`
	BetAmount int64  `json:"betAmount"`
	Move      int32  `json:"move,omitempty"`
	Result    int32  `json:"result,omitempty"`
	Winner    string `json:"winner,omitempty"`
	Payout1   int64  `json:"payout1,omitempty"`
	Payout2   int64  `json:"payout2,omitempty"`
	Index     int64  `json:"index"`
	PrevIndex int64  `json:"prevIndex"`
}

// GameRecord 本地索引的内容
type GameRecord struct {
	GameID uint64 `json:"gameId"`
	Index  int64  `json:"index"`
}

// QueryGameInfo 根据 id 查询
type QueryGameInfo struct {
	GameID uint64 `json:"gameId"`
}

// QueryGameListByStatusAndAddr 分页查询, Index 为上一页最后一条的 index
type QueryGameListByStatusAndAddr struct {
	Status    int32  `json:"status"`
	Address   string `json:"address"`
	Index     int64  `json:"index"`
	Count     int32  `json:"count"`
	Direction int32  `json:"direction"`
}

// QueryGameListCount 统计
type QueryGameListCount struct {
	Status  int32  `json:"status"`
	Address string `json:"address"`
}

// ReplyGame 单个游戏
type ReplyGame struct {
	Game *Game `json:"game"`
}

// ReplyGameList 游戏列表
type ReplyGameList struct {
	Games []*Game `json:"games"`
}

// ReplyGameListCount 统计结果
type ReplyGameListCount struct {
	Count int64 `json:"count"`
}

// ReplyGameCount 游戏总数, 下一个游戏的 id
type ReplyGameCount struct {
	Count uint64 `json:"count"`
}

// ReplyEscrow 托管金额
type ReplyEscrow struct {
	GameID    uint64 `json:"gameId"`
	State     int32  `json:"state"`
	BetAmount int64  `json:"betAmount"`
	Escrow    int64  `json:"escrow"`
	//玩家在执行器账户中的冻结总额, 包含其他游戏
	Player1Frozen int64 `json:"player1Frozen"`
	Player2Frozen int64 `json:"player2Frozen"`
}

// RpsCreateTxReq 构造创建交易
type RpsCreateTxReq struct {
	BetAmount int64 `json:"betAmount"`
	Mode      int32 `json:"mode"`
}

// RpsJoinTxReq 构造加入交易
type RpsJoinTxReq struct {
	GameID uint64 `json:"gameId"`
	Amount int64  `json:"amount"`
}

// RpsCommitTxReq 构造提交承诺交易
type RpsCommitTxReq struct {
	GameID     uint64 `json:"gameId"`
	Commitment string `json:"commitment"`
}

// RpsRevealTxReq 构造揭示交易
type RpsRevealTxReq struct {
	GameID uint64 `json:"gameId"`
	Move   int32  `json:"move"`
	Secret string `json:"secret"`
}

// RpsMoveTxReq 构造出拳交易
type RpsMoveTxReq struct {
	GameID uint64 `json:"gameId"`
	Move   int32  `json:"move"`
}

// Config 执行器配置 [exec.sub.rps]
type Config struct {
	MinBet int64 `json:"minBet"`
	//0 表示不限制
	MaxBet          int64 `json:"maxBet"`
	AllowDirectMode bool  `json:"allowDirectMode"`
	DefaultCount    int32 `json:"defaultCount"`
	MaxCount        int32 `json:"maxCount"`
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{
		MinBet:          DefaultMinBet,
		AllowDirectMode: true,
		DefaultCount:    DefaultCount,
		MaxCount:        MaxCount,
	}
}
