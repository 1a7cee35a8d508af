// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

//database opeartion for executor rps
import (
	"fmt"
	"strconv"

	"github.com/33cn/rpschain/account"
	"github.com/33cn/rpschain/common"
	dbm "github.com/33cn/rpschain/common/db"
	"github.com/33cn/rpschain/plugin/dapp/rps/commit"
	rt "github.com/33cn/rpschain/plugin/dapp/rps/types"
	"github.com/33cn/rpschain/system/dapp"
	"github.com/33cn/rpschain/types"
)

//game 的状态变化：
// commit-reveal: AWAITING_OPPONENT(0) -> COMMIT(1) -> REVEAL(2) -> COMPLETE(3)
// direct:        AWAITING_OPPONENT(0) -> IN_PROGRESS(4) -> COMPLETE(3)
//
//每个修改状态的操作的检查顺序:
// 游戏存在 -> 状态 -> 参与者 -> 是否已经操作过 -> 参数
//任何检查失败都直接返回错误, 不修改任何数据

const (
	gameCountKey = "GameCount"
	//根据状态, 地址统计当前处于该状态的游戏数
	statusCountKey = "StatusCount"
)

//Key gameID to save key
func Key(id uint64) (key []byte) {
	key = append(key, []byte("mavl-"+rt.RpsX+"-")...)
	key = append(key, []byte(fmt.Sprintf("game:%020d", id))...)
	return key
}

func calcGameCountKey() []byte {
	return []byte("mavl-" + rt.RpsX + "-" + gameCountKey)
}

// CalcCountKey 状态统计的 key, addr 为空时统计所有地址
func CalcCountKey(status int32, addr string) (key []byte) {
	key = append(key, []byte("mavl-"+rt.RpsX+"-")...)
	key = append(key, []byte(fmt.Sprintf("%s:%d:%s", statusCountKey, status, addr))...)
	return key
}

// Action 一次交易的执行上下文
type Action struct {
	coinsAccount *account.DB
	db           dbm.KV
	txhash       []byte
	fromaddr     string
	amount       int64
	blocktime    int64
	height       int64
	execaddr     string
	index        int
}

// NewAction new action
func NewAction(r *Rps, tx *types.Transaction, index int) *Action {
	hash := tx.Hash()
	fromaddr := tx.From()
	return &Action{
		coinsAccount: r.GetCoinsAccount(),
		db:           r.GetStateDB(),
		txhash:       hash,
		fromaddr:     fromaddr,
		amount:       tx.Amount,
		blocktime:    r.GetBlockTime(),
		height:       r.GetHeight(),
		execaddr:     dapp.ExecAddress(tx.Execer),
		index:        index,
	}
}

// GetIndex fmt.Sprintf("%018d", action.height*types.MaxTxsPerBlock+int64(action.index))
func (action *Action) GetIndex() int64 {
	return action.height*types.MaxTxsPerBlock + int64(action.index)
}

// GetKVSet game 的 kv
func (action *Action) GetKVSet(game *rt.Game) (kvset []*types.KeyValue) {
	value := types.Encode(game)
	kvset = append(kvset, &types.KeyValue{Key: Key(game.GameID), Value: value})
	return kvset
}

func (action *Action) saveStateDB(game *rt.Game) {
	action.db.Set(Key(game.GameID), types.Encode(game))
}

// GetReceiptLog 本次操作的 log, 记录操作之后的状态
func (action *Action) GetReceiptLog(ty int32, game *rt.Game, prevState int32) *types.ReceiptLog {
	return receiptLog(ty, action.newReceipt(game, prevState))
}

func (action *Action) newReceipt(game *rt.Game, prevState int32) *rt.ReceiptRps {
	return &rt.ReceiptRps{
		GameID:    game.GameID,
		State:     game.State,
		PrevState: prevState,
		Addr:      action.fromaddr,
		Player1:   game.Player1,
		Player2:   game.Player2,
		BetAmount: game.BetAmount,
		Result:    game.Result,
		Winner:    game.Winner,
		Index:     game.Index,
		PrevIndex: game.PrevIndex,
	}
}

func receiptLog(ty int32, r *rt.ReceiptRps) *types.ReceiptLog {
	return &types.ReceiptLog{Ty: ty, Log: types.Encode(r)}
}

//状态发生变化, 更新 index 以及统计
func (action *Action) changeState(game *rt.Game, state int32) (kvs []*types.KeyValue) {
	prev := game.State
	game.State = state
	game.PrevIndex = game.Index
	game.Index = action.GetIndex()
	kvs = append(kvs, action.updateCount(prev, "", -1)...)
	kvs = append(kvs, action.updateCount(prev, game.Player1, -1)...)
	if game.Player2 != "" && prev != rt.StateAwaitingOpponent {
		kvs = append(kvs, action.updateCount(prev, game.Player2, -1)...)
	}
	kvs = append(kvs, action.updateCount(state, "", 1)...)
	kvs = append(kvs, action.updateCount(state, game.Player1, 1)...)
	if game.Player2 != "" {
		kvs = append(kvs, action.updateCount(state, game.Player2, 1)...)
	}
	return kvs
}

func (action *Action) updateCount(status int32, addr string, delta int64) (kvset []*types.KeyValue) {
	count, err := queryCountByStatusAndAddr(action.db, status, addr)
	if err != nil && err != types.ErrNotFound {
		glog.Error("updateCount", "status", status, "addr", addr, "err", err)
	}
	count += delta
	if count < 0 {
		count = 0
	}
	key := CalcCountKey(status, addr)
	value := []byte(strconv.FormatInt(count, 10))
	action.db.Set(key, value)
	kvset = append(kvset, &types.KeyValue{Key: key, Value: value})
	return kvset
}

//分配连续的 gameID
func (action *Action) nextGameID() (uint64, []*types.KeyValue) {
	id := queryGameCount(action.db)
	value := types.Encode(&rt.ReplyGameCount{Count: id + 1})
	action.db.Set(calcGameCountKey(), value)
	return id, []*types.KeyValue{{Key: calcGameCountKey(), Value: value}}
}

//把押注转入执行器并冻结
func (action *Action) escrowIn(amount int64) (*types.Receipt, error) {
	receipt, err := action.coinsAccount.TransferToExec(action.fromaddr, action.execaddr, amount)
	if err != nil {
		glog.Error("escrowIn.TransferToExec", "addr", action.fromaddr, "execaddr", action.execaddr, "amount", amount, "err", err)
		return nil, err
	}
	receipt2, err := action.coinsAccount.ExecFrozen(action.fromaddr, action.execaddr, amount)
	if err != nil {
		glog.Error("escrowIn.ExecFrozen", "addr", action.fromaddr, "execaddr", action.execaddr, "amount", amount, "err", err)
		return nil, err
	}
	receipt.KV = append(receipt.KV, receipt2.KV...)
	receipt.Logs = append(receipt.Logs, receipt2.Logs...)
	return receipt, nil
}

func (action *Action) readGame(id uint64) (*rt.Game, error) {
	game, err := readGame(action.db, id)
	if err != nil {
		glog.Error("readGame", "addr", action.fromaddr, "id", id, "err", err)
		return nil, err
	}
	return game, nil
}

// GameCreate 创建游戏, 押注进入托管
func (action *Action) GameCreate(create *rt.RpsCreate) (*types.Receipt, error) {
	cfg := getConfig()
	if create.GetMode() != rt.ModeCommitReveal && create.GetMode() != rt.ModeDirect {
		return nil, rt.ErrInvalidMode
	}
	if create.GetMode() == rt.ModeDirect && !cfg.AllowDirectMode {
		glog.Error("GameCreate", "addr", action.fromaddr, "err", rt.ErrModeDisabled)
		return nil, rt.ErrModeDisabled
	}
	if create.GetBetAmount() < cfg.MinBet || (cfg.MaxBet > 0 && create.GetBetAmount() > cfg.MaxBet) {
		glog.Error("GameCreate", "addr", action.fromaddr, "betAmount", create.GetBetAmount(), "minBet", cfg.MinBet, "err", rt.ErrInvalidStake)
		return nil, rt.ErrInvalidStake
	}
	if action.amount != create.GetBetAmount() {
		glog.Error("GameCreate", "addr", action.fromaddr, "betAmount", create.GetBetAmount(), "amount", action.amount, "err", rt.ErrStakeMismatch)
		return nil, rt.ErrStakeMismatch
	}
	receipt, err := action.escrowIn(create.GetBetAmount())
	if err != nil {
		return nil, err
	}
	var logs []*types.ReceiptLog
	var kv []*types.KeyValue
	id, idkv := action.nextGameID()
	game := &rt.Game{
		GameID:       id,
		Mode:         create.GetMode(),
		State:        rt.StateAwaitingOpponent,
		Player1:      action.fromaddr,
		BetAmount:    create.GetBetAmount(),
		Escrow:       create.GetBetAmount(),
		CreateTime:   action.blocktime,
		CreateTxHash: common.ToHex(action.txhash),
		Index:        action.GetIndex(),
	}
	action.saveStateDB(game)
	kv = append(kv, idkv...)
	kv = append(kv, action.updateCount(game.State, "", 1)...)
	kv = append(kv, action.updateCount(game.State, game.Player1, 1)...)
	kv = append(kv, action.GetKVSet(game)...)
	kv = append(kv, receipt.KV...)
	logs = append(logs, receipt.Logs...)
	logs = append(logs, action.GetReceiptLog(rt.TyLogRpsCreate, game, -1))
	glog.Debug("GameCreate", "id", id, "addr", action.fromaddr, "betAmount", game.BetAmount, "mode", game.Mode)
	return &types.Receipt{Ty: types.ExecOk, KV: kv, Logs: logs}, nil
}

// GameJoin 加入游戏, 押注进入托管
func (action *Action) GameJoin(join *rt.RpsJoin) (*types.Receipt, error) {
	game, err := action.readGame(join.GetGameID())
	if err != nil {
		return nil, err
	}
	if game.State != rt.StateAwaitingOpponent {
		glog.Error("GameJoin", "addr", action.fromaddr, "execaddr", action.execaddr, "id",
			game.GameID, "state", game.State, "err", rt.ErrGameUnavailable)
		return nil, rt.ErrGameUnavailable
	}
	if action.amount != game.BetAmount {
		glog.Error("GameJoin", "addr", action.fromaddr, "id", game.GameID, "betAmount", game.BetAmount,
			"amount", action.amount, "err", rt.ErrStakeMismatch)
		return nil, rt.ErrStakeMismatch
	}
	if game.Player1 == action.fromaddr {
		glog.Error("GameJoin", "addr", action.fromaddr, "execaddr", action.execaddr, "id",
			game.GameID, "err", rt.ErrSelfPlay)
		return nil, rt.ErrSelfPlay
	}
	receipt, err := action.escrowIn(game.BetAmount)
	if err != nil {
		return nil, err
	}
	next := rt.StateCommit
	if game.Mode == rt.ModeDirect {
		next = rt.StateInProgress
	}
	prev := game.State
	game.Player2 = action.fromaddr
	game.Escrow = game.BetAmount * 2
	game.JoinTime = action.blocktime
	game.JoinTxHash = common.ToHex(action.txhash)
	var logs []*types.ReceiptLog
	var kv []*types.KeyValue
	kv = append(kv, action.changeState(game, next)...)
	action.saveStateDB(game)
	kv = append(kv, action.GetKVSet(game)...)
	kv = append(kv, receipt.KV...)
	logs = append(logs, receipt.Logs...)
	logs = append(logs, action.GetReceiptLog(rt.TyLogRpsJoin, game, prev))
	return &types.Receipt{Ty: types.ExecOk, KV: kv, Logs: logs}, nil
}

// GameCommit 提交出拳承诺, 双方都提交之后进入 REVEAL
func (action *Action) GameCommit(c *rt.RpsCommit) (*types.Receipt, error) {
	game, err := action.readGame(c.GetGameID())
	if err != nil {
		return nil, err
	}
	if action.amount != 0 {
		return nil, rt.ErrNonPayable
	}
	if game.State != rt.StateCommit {
		glog.Error("GameCommit", "addr", action.fromaddr, "id", game.GameID, "state", game.State, "err", rt.ErrWrongPhase)
		return nil, rt.ErrWrongPhase
	}
	if !game.IsParticipant(action.fromaddr) {
		glog.Error("GameCommit", "addr", action.fromaddr, "id", game.GameID, "err", rt.ErrNotAParticipant)
		return nil, rt.ErrNotAParticipant
	}
	isPlayer1 := action.fromaddr == game.Player1
	if (isPlayer1 && len(game.Player1Commitment) > 0) || (!isPlayer1 && len(game.Player2Commitment) > 0) {
		glog.Error("GameCommit", "addr", action.fromaddr, "id", game.GameID, "err", rt.ErrAlreadyCommitted)
		return nil, rt.ErrAlreadyCommitted
	}
	if !commit.IsValid(c.GetCommitment()) {
		glog.Error("GameCommit", "addr", action.fromaddr, "id", game.GameID, "len", len(c.GetCommitment()), "err", rt.ErrInvalidCommitment)
		return nil, rt.ErrInvalidCommitment
	}
	if isPlayer1 {
		game.Player1Commitment = common.CopyBytes(c.GetCommitment())
	} else {
		game.Player2Commitment = common.CopyBytes(c.GetCommitment())
	}
	prev := game.State
	var kv []*types.KeyValue
	if len(game.Player1Commitment) > 0 && len(game.Player2Commitment) > 0 {
		kv = append(kv, action.changeState(game, rt.StateReveal)...)
	}
	action.saveStateDB(game)
	kv = append(kv, action.GetKVSet(game)...)
	logs := []*types.ReceiptLog{action.GetReceiptLog(rt.TyLogRpsCommit, game, prev)}
	return &types.Receipt{Ty: types.ExecOk, KV: kv, Logs: logs}, nil
}

// GameReveal 揭示出拳, 双方都揭示之后结算
func (action *Action) GameReveal(reveal *rt.RpsReveal) (*types.Receipt, error) {
	game, err := action.readGame(reveal.GetGameID())
	if err != nil {
		return nil, err
	}
	if action.amount != 0 {
		return nil, rt.ErrNonPayable
	}
	if game.State != rt.StateReveal {
		glog.Error("GameReveal", "addr", action.fromaddr, "id", game.GameID, "state", game.State, "err", rt.ErrWrongPhase)
		return nil, rt.ErrWrongPhase
	}
	if !game.IsParticipant(action.fromaddr) {
		glog.Error("GameReveal", "addr", action.fromaddr, "id", game.GameID, "err", rt.ErrNotAParticipant)
		return nil, rt.ErrNotAParticipant
	}
	isPlayer1 := action.fromaddr == game.Player1
	if (isPlayer1 && game.Player1Move != rt.MoveNone) || (!isPlayer1 && game.Player2Move != rt.MoveNone) {
		glog.Error("GameReveal", "addr", action.fromaddr, "id", game.GameID, "err", rt.ErrAlreadyRevealed)
		return nil, rt.ErrAlreadyRevealed
	}
	if !rt.IsValidMove(reveal.GetMove()) {
		glog.Error("GameReveal", "addr", action.fromaddr, "id", game.GameID, "move", reveal.GetMove(), "err", rt.ErrInvalidMove)
		return nil, rt.ErrInvalidMove
	}
	stored := game.Player2Commitment
	if isPlayer1 {
		stored = game.Player1Commitment
	}
	if !commit.Verify(stored, reveal.GetMove(), reveal.GetSecret(), action.fromaddr) {
		glog.Error("GameReveal", "addr", action.fromaddr, "id", game.GameID, "err", rt.ErrInvalidCommitment)
		return nil, rt.ErrInvalidCommitment
	}
	return action.setMove(game, isPlayer1, reveal.GetMove(), rt.TyLogRpsReveal)
}

// GameMove direct 模式直接出拳, 双方都出拳之后结算
func (action *Action) GameMove(move *rt.RpsMove) (*types.Receipt, error) {
	game, err := action.readGame(move.GetGameID())
	if err != nil {
		return nil, err
	}
	if action.amount != 0 {
		return nil, rt.ErrNonPayable
	}
	if game.State != rt.StateInProgress {
		glog.Error("GameMove", "addr", action.fromaddr, "id", game.GameID, "state", game.State, "err", rt.ErrWrongPhase)
		return nil, rt.ErrWrongPhase
	}
	if !game.IsParticipant(action.fromaddr) {
		glog.Error("GameMove", "addr", action.fromaddr, "id", game.GameID, "err", rt.ErrNotAParticipant)
		return nil, rt.ErrNotAParticipant
	}
	isPlayer1 := action.fromaddr == game.Player1
	//和 reveal 使用相同的错误
	if (isPlayer1 && game.Player1Move != rt.MoveNone) || (!isPlayer1 && game.Player2Move != rt.MoveNone) {
		glog.Error("GameMove", "addr", action.fromaddr, "id", game.GameID, "err", rt.ErrAlreadyRevealed)
		return nil, rt.ErrAlreadyRevealed
	}
	if !rt.IsValidMove(move.GetMove()) {
		glog.Error("GameMove", "addr", action.fromaddr, "id", game.GameID, "move", move.GetMove(), "err", rt.ErrInvalidMove)
		return nil, rt.ErrInvalidMove
	}
	return action.setMove(game, isPlayer1, move.GetMove(), rt.TyLogRpsMove)
}

func (action *Action) setMove(game *rt.Game, isPlayer1 bool, move int32, ty int32) (*types.Receipt, error) {
	if isPlayer1 {
		game.Player1Move = move
	} else {
		game.Player2Move = move
	}
	prev := game.State
	var kv []*types.KeyValue
	var logs []*types.ReceiptLog
	var payout1, payout2 int64
	if game.Player1Move != rt.MoveNone && game.Player2Move != rt.MoveNone {
		receipt, p1, p2, err := action.settle(game)
		if err != nil {
			return nil, err
		}
		payout1, payout2 = p1, p2
		game.CloseTime = action.blocktime
		game.CloseTxHash = common.ToHex(action.txhash)
		kv = append(kv, receipt.KV...)
		logs = append(logs, receipt.Logs...)
		kv = append(kv, action.changeState(game, rt.StateComplete)...)
	}
	action.saveStateDB(game)
	kv = append(kv, action.GetKVSet(game)...)
	r := action.newReceipt(game, prev)
	r.Move = move
	logs = append(logs, receiptLog(ty, r))
	if game.State == rt.StateComplete {
		done := action.newReceipt(game, prev)
		done.Payout1, done.Payout2 = payout1, payout2
		logs = append(logs, receiptLog(rt.TyLogRpsComplete, done))
	}
	return &types.Receipt{Ty: types.ExecOk, KV: kv, Logs: logs}, nil
}

//settle 计算结果并支付, 只会在进入 COMPLETE 时调用一次
//赢家得到 2*betAmount, 平局各自取回 betAmount
func (action *Action) settle(game *rt.Game) (*types.Receipt, int64, int64, error) {
	result := Resolve(game.Player1Move, game.Player2Move)
	bet := game.BetAmount
	receipt := &types.Receipt{Ty: types.ExecOk}
	merge := func(r *types.Receipt, err error) error {
		if err != nil {
			return err
		}
		receipt.KV = append(receipt.KV, r.KV...)
		receipt.Logs = append(receipt.Logs, r.Logs...)
		return nil
	}
	var payout1, payout2 int64
	var err error
	switch result {
	case rt.ResultPlayer1Win:
		err = action.payWinner(game.Player1, game.Player2, bet, merge)
		payout1 = 2 * bet
		game.Winner = game.Player1
	case rt.ResultPlayer2Win:
		err = action.payWinner(game.Player2, game.Player1, bet, merge)
		payout2 = 2 * bet
		game.Winner = game.Player2
	case rt.ResultDraw:
		for _, addr := range []string{game.Player1, game.Player2} {
			if err = merge(action.coinsAccount.ExecActive(addr, action.execaddr, bet)); err != nil {
				break
			}
			if err = merge(action.coinsAccount.TransferWithdraw(addr, action.execaddr, bet)); err != nil {
				break
			}
		}
		payout1, payout2 = bet, bet
	default:
		err = rt.ErrInvalidMove
	}
	if err != nil {
		glog.Error("settle", "id", game.GameID, "result", result, "err", err)
		return nil, 0, 0, err
	}
	game.Result = result
	game.Escrow = 0
	return receipt, payout1, payout2, nil
}

//赢家解冻自己的押注, 得到输家冻结的押注, 然后全部取回到 coins 账户
func (action *Action) payWinner(winner, loser string, bet int64, merge func(*types.Receipt, error) error) error {
	if err := merge(action.coinsAccount.ExecActive(winner, action.execaddr, bet)); err != nil {
		return err
	}
	if err := merge(action.coinsAccount.ExecTransferFrozen(loser, winner, action.execaddr, bet)); err != nil {
		return err
	}
	return merge(action.coinsAccount.TransferWithdraw(winner, action.execaddr, 2*bet))
}

func readGame(db dbm.KV, id uint64) (*rt.Game, error) {
	data, err := db.Get(Key(id))
	if err != nil {
		return nil, rt.ErrGameNotFound
	}
	var game rt.Game
	//decode
	err = types.Decode(data, &game)
	if err != nil {
		glog.Error("decode game have err:", "err", err.Error())
		return nil, err
	}
	return &game, nil
}

func queryGameCount(db dbm.KV) uint64 {
	data, err := db.Get(calcGameCountKey())
	if err != nil {
		return 0
	}
	var count rt.ReplyGameCount
	if err := types.Decode(data, &count); err != nil {
		panic(err) //数据库已经损坏
	}
	return count.Count
}

func queryCountByStatusAndAddr(stateDB dbm.KV, status int32, addr string) (int64, error) {
	data, err := stateDB.Get(CalcCountKey(status, addr))
	if err != nil {
		return 0, err
	}
	count, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		glog.Error("Type conversion error:", "err", err.Error())
		return 0, err
	}
	return count, nil
}
