// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"fmt"

	rt "github.com/33cn/rpschain/plugin/dapp/rps/types"
	"github.com/33cn/rpschain/types"
)

/*
  一局游戏每次状态变化时, 建立新状态的索引并删除旧状态的索引:
     状态索引:     key = rps-status:status:HeightIndex
     状态地址索引: key = rps-addr:status:addr:HeightIndex
     value = GameRecord{gameId, index}
  HeightIndex = fmt.Sprintf("%018d", height*types.MaxTxsPerBlock+index)
  game 中保存了上一次状态变化的 index (PrevIndex), 用来删除旧的索引
*/

//更新索引
func updateIndex(log *rt.ReceiptRps) (kvs []*types.KeyValue) {
	kvs = append(kvs, addGameStatusIndex(log.State, log.GameID, log.Index))
	kvs = append(kvs, addGameAddrIndex(log.State, log.GameID, log.Player1, log.Index))
	if log.Player2 != "" {
		kvs = append(kvs, addGameAddrIndex(log.State, log.GameID, log.Player2, log.Index))
	}
	if log.PrevState < 0 {
		return kvs
	}
	kvs = append(kvs, delGameStatusIndex(log.PrevState, log.PrevIndex))
	kvs = append(kvs, delGameAddrIndex(log.PrevState, log.Player1, log.PrevIndex))
	//加入之前 player2 没有索引
	if log.Player2 != "" && log.PrevState != rt.StateAwaitingOpponent {
		kvs = append(kvs, delGameAddrIndex(log.PrevState, log.Player2, log.PrevIndex))
	}
	return kvs
}

func calcGameStatusIndexKey(status int32, index int64) []byte {
	key := fmt.Sprintf("rps-status:%d:%018d", status, index)
	return []byte(key)
}

func calcGameStatusIndexPrefix(status int32) []byte {
	key := fmt.Sprintf("rps-status:%d:", status)
	return []byte(key)
}

func calcGameAddrIndexKey(status int32, addr string, index int64) []byte {
	key := fmt.Sprintf("rps-addr:%d:%s:%018d", status, addr, index)
	return []byte(key)
}

func calcGameAddrIndexPrefix(status int32, addr string) []byte {
	key := fmt.Sprintf("rps-addr:%d:%s:", status, addr)
	return []byte(key)
}

func addGameStatusIndex(status int32, gameID uint64, index int64) *types.KeyValue {
	kv := &types.KeyValue{}
	kv.Key = calcGameStatusIndexKey(status, index)
	record := &rt.GameRecord{
		GameID: gameID,
		Index:  index,
	}
	kv.Value = types.Encode(record)
	return kv
}

func addGameAddrIndex(status int32, gameID uint64, addr string, index int64) *types.KeyValue {
	kv := &types.KeyValue{}
	kv.Key = calcGameAddrIndexKey(status, addr, index)
	record := &rt.GameRecord{
		GameID: gameID,
		Index:  index,
	}
	kv.Value = types.Encode(record)
	return kv
}

func delGameStatusIndex(status int32, index int64) *types.KeyValue {
	kv := &types.KeyValue{}
	kv.Key = calcGameStatusIndexKey(status, index)
	kv.Value = nil
	return kv
}

func delGameAddrIndex(status int32, addr string, index int64) *types.KeyValue {
	kv := &types.KeyValue{}
	kv.Key = calcGameAddrIndexKey(status, addr, index)
	//value置nil,提交时，会自动执行删除操作
	kv.Value = nil
	return kv
}
