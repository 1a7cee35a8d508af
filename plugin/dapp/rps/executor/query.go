// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	dbm "github.com/33cn/rpschain/common/db"
	rt "github.com/33cn/rpschain/plugin/dapp/rps/types"
	"github.com/33cn/rpschain/system/dapp"
	"github.com/33cn/rpschain/types"
)

// Query_QueryGameById 查询单个游戏
func (r *Rps) Query_QueryGameById(in *rt.QueryGameInfo) (interface{}, error) {
	game, err := readGame(r.GetStateDB(), in.GameID)
	if err != nil {
		return nil, err
	}
	return &rt.ReplyGame{Game: game}, nil
}

// Query_QueryGameCount 游戏总数
func (r *Rps) Query_QueryGameCount(in *types.ReqNil) (interface{}, error) {
	return &rt.ReplyGameCount{Count: queryGameCount(r.GetStateDB())}, nil
}

// Query_QueryGameListByStatusAndAddr 分页查询
func (r *Rps) Query_QueryGameListByStatusAndAddr(in *rt.QueryGameListByStatusAndAddr) (interface{}, error) {
	return queryGameListByStatusAndAddr(r.GetLocalDB(), r.GetStateDB(), in)
}

// Query_QueryGameListCount 当前处于某个状态的游戏数
func (r *Rps) Query_QueryGameListCount(in *rt.QueryGameListCount) (interface{}, error) {
	if !rt.IsValidState(in.Status) {
		return nil, rt.ErrInvalidStatus
	}
	count, err := queryCountByStatusAndAddr(r.GetStateDB(), in.Status, in.Address)
	if err != nil && err != types.ErrNotFound {
		return nil, err
	}
	return &rt.ReplyGameListCount{Count: count}, nil
}

// Query_QueryEscrow 托管金额
func (r *Rps) Query_QueryEscrow(in *rt.QueryGameInfo) (interface{}, error) {
	game, err := readGame(r.GetStateDB(), in.GameID)
	if err != nil {
		return nil, err
	}
	reply := &rt.ReplyEscrow{
		GameID:    game.GameID,
		State:     game.State,
		BetAmount: game.BetAmount,
		Escrow:    game.Escrow,
	}
	execaddr := dapp.ExecAddress(rt.RpsX)
	reply.Player1Frozen = r.GetCoinsAccount().LoadExecAccount(game.Player1, execaddr).GetFrozen()
	if game.Player2 != "" {
		reply.Player2Frozen = r.GetCoinsAccount().LoadExecAccount(game.Player2, execaddr).GetFrozen()
	}
	return reply, nil
}

func queryGameListByStatusAndAddr(db dbm.Lister, stateDB dbm.KV, param *rt.QueryGameListByStatusAndAddr) (interface{}, error) {
	if !rt.IsValidState(param.Status) {
		return nil, rt.ErrInvalidStatus
	}
	direction := types.ListDESC
	if param.Direction == types.ListASC {
		direction = types.ListASC
	}
	cfg := getConfig()
	count := cfg.DefaultCount
	if 0 < param.Count && param.Count <= cfg.MaxCount {
		count = param.Count
	}
	var prefix []byte
	var key []byte
	if param.Address == "" {
		prefix = calcGameStatusIndexPrefix(param.Status)
		key = calcGameStatusIndexKey(param.Status, param.Index)
	} else {
		prefix = calcGameAddrIndexPrefix(param.Status, param.Address)
		key = calcGameAddrIndexKey(param.Status, param.Address, param.Index)
	}
	var values [][]byte
	var err error
	if param.Index == 0 { //第一次查询
		values, err = db.List(prefix, nil, count, direction)
	} else {
		values, err = db.List(prefix, key, count, direction)
	}
	if err != nil {
		if err == types.ErrNotFound {
			return &rt.ReplyGameList{}, nil
		}
		return nil, err
	}
	var gameIDs []uint64
	for _, value := range values {
		var record rt.GameRecord
		err := types.Decode(value, &record)
		if err != nil {
			continue
		}
		gameIDs = append(gameIDs, record.GameID)
	}
	return &rt.ReplyGameList{Games: GetGameList(stateDB, gameIDs)}, nil
}

//GetGameList 安全批量查询方式,防止因为脏数据导致查询接口奔溃
func GetGameList(db dbm.KV, ids []uint64) []*rt.Game {
	var games []*rt.Game
	for _, id := range ids {
		game, err := readGame(db, id)
		if err != nil {
			continue
		}
		games = append(games, game)
	}
	return games
}
