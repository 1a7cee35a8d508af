// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	rt "github.com/33cn/rpschain/plugin/dapp/rps/types"
)

//胜负表 outcome[move1][move2], 下标为 MoveRock, MovePaper, MoveScissors
var outcome = [4][4]int32{
	rt.MoveRock: {
		rt.MoveRock:     rt.ResultDraw,
		rt.MovePaper:    rt.ResultPlayer2Win,
		rt.MoveScissors: rt.ResultPlayer1Win,
	},
	rt.MovePaper: {
		rt.MoveRock:     rt.ResultPlayer1Win,
		rt.MovePaper:    rt.ResultDraw,
		rt.MoveScissors: rt.ResultPlayer2Win,
	},
	rt.MoveScissors: {
		rt.MoveRock:     rt.ResultPlayer2Win,
		rt.MovePaper:    rt.ResultPlayer1Win,
		rt.MoveScissors: rt.ResultDraw,
	},
}

// Resolve 根据双方出拳计算结果, 无效的出拳返回 ResultNone
func Resolve(move1, move2 int32) int32 {
	if !rt.IsValidMove(move1) || !rt.IsValidMove(move2) {
		return rt.ResultNone
	}
	return outcome[move1][move2]
}
