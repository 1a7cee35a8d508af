// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/33cn/rpschain/common"
	"github.com/33cn/rpschain/plugin/dapp/rps/commit"
	rt "github.com/33cn/rpschain/plugin/dapp/rps/types"
	"github.com/33cn/rpschain/rpc/jsonclient"
	rpctypes "github.com/33cn/rpschain/rpc/types"
	"github.com/33cn/rpschain/system/dapp/commands"
	"github.com/33cn/rpschain/types"
	"github.com/33cn/rpschain/util"
	"github.com/spf13/cobra"
)

// Cmd rps 子命令
func Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rps",
		Short: "rock paper scissors game management",
		Args:  cobra.MinimumNArgs(1),
	}
	cmd.AddCommand(
		RpsCreateRawTxCmd(),
		RpsJoinRawTxCmd(),
		RpsCommitRawTxCmd(),
		RpsRevealRawTxCmd(),
		RpsMoveRawTxCmd(),
		RpsSecretCmd(),
		RpsQueryGameCmd(),
		RpsQueryGameCountCmd(),
		RpsQueryGameListCmd(),
		RpsQueryListCountCmd(),
		RpsQueryEscrowCmd(),
		RpsWatchCmd(),
	)
	return cmd
}

func addKeyFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("key", "k", "", "private key, sign and send the tx; print the raw tx if empty")
}

// RpsCreateRawTxCmd 创建游戏
func RpsCreateRawTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a game and escrow the bet",
		Run:   rpsCreate,
	}
	addRpsCreateFlags(cmd)
	return cmd
}

func addRpsCreateFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("amount", "a", "", "bet amount in coins, e.g. 1.5")
	cmd.MarkFlagRequired("amount")
	cmd.Flags().StringP("mode", "m", "commit", "game mode, commit or direct")
	addKeyFlag(cmd)
}

func parseMode(s string) (int32, error) {
	switch strings.ToLower(s) {
	case "0", "commit", "commit-reveal":
		return rt.ModeCommitReveal, nil
	case "1", "direct":
		return rt.ModeDirect, nil
	}
	return 0, rt.ErrInvalidMode
}

func rpsCreate(cmd *cobra.Command, args []string) {
	rpcLaddr, _ := cmd.Flags().GetString("rpc_laddr")
	amount, _ := cmd.Flags().GetString("amount")
	mode, _ := cmd.Flags().GetString("mode")
	key, _ := cmd.Flags().GetString("key")
	bet, err := types.ParseAmount(amount)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	m, err := parseMode(mode)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	tx, err := rt.CreateRawRpsCreateTx(&rt.RpsCreateTxReq{BetAmount: bet, Mode: m})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	commands.SendTx(rpcLaddr, key, tx)
}

// RpsJoinRawTxCmd 加入游戏
func RpsJoinRawTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "join",
		Short: "Join a game and escrow the same bet",
		Run:   rpsJoin,
	}
	addRpsJoinFlags(cmd)
	return cmd
}

func addRpsJoinFlags(cmd *cobra.Command) {
	cmd.Flags().Uint64P("gameID", "g", 0, "game ID")
	cmd.MarkFlagRequired("gameID")
	cmd.Flags().StringP("amount", "a", "", "bet amount, read from the game if empty")
	addKeyFlag(cmd)
}

func rpsJoin(cmd *cobra.Command, args []string) {
	rpcLaddr, _ := cmd.Flags().GetString("rpc_laddr")
	gameID, _ := cmd.Flags().GetUint64("gameID")
	amount, _ := cmd.Flags().GetString("amount")
	key, _ := cmd.Flags().GetString("key")
	var bet int64
	var err error
	if amount == "" {
		game, err := queryGame(rpcLaddr, gameID)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return
		}
		bet = game.BetAmount
	} else if bet, err = types.ParseAmount(amount); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	tx, err := rt.CreateRawRpsJoinTx(&rt.RpsJoinTxReq{GameID: gameID, Amount: bet})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	commands.SendTx(rpcLaddr, key, tx)
}

// RpsCommitRawTxCmd 提交承诺
func RpsCommitRawTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Commit a hidden move",
		Long: "Commit a hidden move. The commitment binds move, secret and the sender address.\n" +
			"Keep the secret (or the password) to reveal the move later.",
		Run: rpsCommit,
	}
	addRpsCommitFlags(cmd)
	return cmd
}

func addRpsCommitFlags(cmd *cobra.Command) {
	cmd.Flags().Uint64P("gameID", "g", 0, "game ID")
	cmd.MarkFlagRequired("gameID")
	cmd.Flags().StringP("move", "v", "", "rock, paper or scissors")
	cmd.Flags().StringP("secret", "s", "", "32 bytes secret (hex), random if empty")
	cmd.Flags().StringP("password", "p", "", "derive the secret from password")
	cmd.Flags().StringP("commitment", "c", "", "commitment (hex) computed offline, move and secret are ignored")
	cmd.Flags().StringP("key", "k", "", "private key")
	cmd.MarkFlagRequired("key")
}

func rpsCommit(cmd *cobra.Command, args []string) {
	rpcLaddr, _ := cmd.Flags().GetString("rpc_laddr")
	gameID, _ := cmd.Flags().GetUint64("gameID")
	commitment, _ := cmd.Flags().GetString("commitment")
	key, _ := cmd.Flags().GetString("key")
	priv, err := util.HexToPrivkey(key)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	if commitment == "" {
		addr := util.PrivkeyToAddr(priv)
		move, secret, err := moveAndSecret(cmd, gameID, addr, true)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return
		}
		c, err := commit.Binding(move, secret, addr)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return
		}
		commitment = common.ToHex(c)
		//secret 只在本地, 丢失之后无法揭示
		fmt.Fprintln(os.Stderr, "secret:", common.ToHex(secret))
	}
	tx, err := rt.CreateRawRpsCommitTx(&rt.RpsCommitTxReq{GameID: gameID, Commitment: commitment})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	commands.SendTx(rpcLaddr, key, tx)
}

//moveAndSecret 从参数中读取 move 以及 secret, gen 为 true 时可以随机生成 secret
func moveAndSecret(cmd *cobra.Command, gameID uint64, addr string, gen bool) (int32, []byte, error) {
	moveStr, _ := cmd.Flags().GetString("move")
	secretHex, _ := cmd.Flags().GetString("secret")
	password, _ := cmd.Flags().GetString("password")
	move, err := rt.ParseMove(moveStr)
	if err != nil {
		return 0, nil, err
	}
	var secret []byte
	switch {
	case secretHex != "":
		secret, err = common.FromHex(secretHex)
	case password != "":
		secret, err = commit.SecretFromPassword(password, gameID, addr)
	case gen:
		secret, err = commit.NewSecret()
	default:
		err = commit.ErrSecretLen
	}
	if err != nil {
		return 0, nil, err
	}
	return move, secret, nil
}

// RpsRevealRawTxCmd 揭示出拳
func RpsRevealRawTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reveal",
		Short: "Reveal the committed move",
		Run:   rpsReveal,
	}
	addRpsRevealFlags(cmd)
	return cmd
}

func addRpsRevealFlags(cmd *cobra.Command) {
	cmd.Flags().Uint64P("gameID", "g", 0, "game ID")
	cmd.MarkFlagRequired("gameID")
	cmd.Flags().StringP("move", "v", "", "rock, paper or scissors")
	cmd.MarkFlagRequired("move")
	cmd.Flags().StringP("secret", "s", "", "secret (hex) used in commit")
	cmd.Flags().StringP("password", "p", "", "password used in commit")
	cmd.Flags().StringP("key", "k", "", "private key")
	cmd.MarkFlagRequired("key")
}

func rpsReveal(cmd *cobra.Command, args []string) {
	rpcLaddr, _ := cmd.Flags().GetString("rpc_laddr")
	gameID, _ := cmd.Flags().GetUint64("gameID")
	key, _ := cmd.Flags().GetString("key")
	priv, err := util.HexToPrivkey(key)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	move, secret, err := moveAndSecret(cmd, gameID, util.PrivkeyToAddr(priv), false)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	req := &rt.RpsRevealTxReq{GameID: gameID, Move: move, Secret: common.ToHex(secret)}
	tx, err := rt.CreateRawRpsRevealTx(req)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	commands.SendTx(rpcLaddr, key, tx)
}

// RpsMoveRawTxCmd direct 模式出拳
func RpsMoveRawTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move",
		Short: "Make a move in a direct mode game",
		Run:   rpsMove,
	}
	cmd.Flags().Uint64P("gameID", "g", 0, "game ID")
	cmd.MarkFlagRequired("gameID")
	cmd.Flags().StringP("move", "v", "", "rock, paper or scissors")
	cmd.MarkFlagRequired("move")
	addKeyFlag(cmd)
	return cmd
}

func rpsMove(cmd *cobra.Command, args []string) {
	rpcLaddr, _ := cmd.Flags().GetString("rpc_laddr")
	gameID, _ := cmd.Flags().GetUint64("gameID")
	moveStr, _ := cmd.Flags().GetString("move")
	key, _ := cmd.Flags().GetString("key")
	move, err := rt.ParseMove(moveStr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	tx, err := rt.CreateRawRpsMoveTx(&rt.RpsMoveTxReq{GameID: gameID, Move: move})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	commands.SendTx(rpcLaddr, key, tx)
}

// RpsSecretCmd 离线计算承诺
func RpsSecretCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Generate a secret and the commitment offline",
		Run:   rpsSecret,
	}
	cmd.Flags().Uint64P("gameID", "g", 0, "game ID, used with password")
	cmd.Flags().StringP("move", "v", "", "rock, paper or scissors")
	cmd.MarkFlagRequired("move")
	cmd.Flags().StringP("addr", "a", "", "address of the player")
	cmd.MarkFlagRequired("addr")
	cmd.Flags().StringP("secret", "s", "", "secret (hex), random if empty")
	cmd.Flags().StringP("password", "p", "", "derive the secret from password")
	return cmd
}

func rpsSecret(cmd *cobra.Command, args []string) {
	gameID, _ := cmd.Flags().GetUint64("gameID")
	addr, _ := cmd.Flags().GetString("addr")
	move, secret, err := moveAndSecret(cmd, gameID, addr, true)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	c, err := commit.Binding(move, secret, addr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	printJSON(map[string]string{
		"move":       rt.MoveName(move),
		"secret":     common.ToHex(secret),
		"commitment": common.ToHex(c),
	})
}

// RpsQueryGameCmd 查询游戏
func RpsQueryGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query game info by id",
		Run:   rpsQueryGame,
	}
	cmd.Flags().Uint64P("gameID", "g", 0, "game ID")
	cmd.MarkFlagRequired("gameID")
	return cmd
}

func rpsQueryGame(cmd *cobra.Command, args []string) {
	rpcLaddr, _ := cmd.Flags().GetString("rpc_laddr")
	gameID, _ := cmd.Flags().GetUint64("gameID")
	var res rt.ReplyGame
	ctx := jsonclient.NewRPCCtx(rpcLaddr, "Chain33.Query", query4Jrpc(rt.FuncNameQueryGameByID, &rt.QueryGameInfo{GameID: gameID}), &res)
	ctx.SetResultCb(parseGameRes)
	ctx.Run()
}

// GameResult 格式化之后的游戏
type GameResult struct {
	*rt.Game
	StateName  string `json:"stateName"`
	ModeName   string `json:"modeName"`
	ResultName string `json:"resultName"`
	Bet        string `json:"bet"`
	EscrowFmt  string `json:"escrowFmt"`
}

func fmtGame(g *rt.Game) *GameResult {
	mode := "commit-reveal"
	if g.Mode == rt.ModeDirect {
		mode = "direct"
	}
	return &GameResult{
		Game:       g,
		StateName:  rt.StateName(g.State),
		ModeName:   mode,
		ResultName: rt.ResultName(g.Result),
		Bet:        types.FormatAmount(g.BetAmount),
		EscrowFmt:  types.FormatAmount(g.Escrow),
	}
}

func parseGameRes(arg interface{}) (interface{}, error) {
	res := arg.(*rt.ReplyGame)
	if res.Game == nil {
		return nil, rt.ErrGameNotFound
	}
	return fmtGame(res.Game), nil
}

func parseGameListRes(arg interface{}) (interface{}, error) {
	res := arg.(*rt.ReplyGameList)
	var games []*GameResult
	for _, g := range res.Games {
		games = append(games, fmtGame(g))
	}
	return games, nil
}

// RpsQueryGameCountCmd 游戏总数
func RpsQueryGameCountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "count",
		Short: "Query the number of created games",
		Run:   rpsQueryGameCount,
	}
	return cmd
}

func rpsQueryGameCount(cmd *cobra.Command, args []string) {
	rpcLaddr, _ := cmd.Flags().GetString("rpc_laddr")
	var res rt.ReplyGameCount
	ctx := jsonclient.NewRPCCtx(rpcLaddr, "Chain33.Query", query4Jrpc(rt.FuncNameQueryGameCount, &types.ReqNil{}), &res)
	ctx.Run()
}

// RpsQueryGameListCmd 按状态以及地址查询
func RpsQueryGameListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List games by status and address",
		Run:   rpsQueryGameList,
	}
	addStatusFlags(cmd)
	cmd.Flags().Int64P("index", "i", 0, "index of the last game in previous page")
	cmd.Flags().Int32P("count", "n", 0, "page size")
	cmd.Flags().Int32P("direction", "d", types.ListDESC, "0: desc, 1: asc")
	return cmd
}

func addStatusFlags(cmd *cobra.Command) {
	cmd.Flags().Int32P("status", "t", 0, "0: awaiting opponent, 1: commit, 2: reveal, 3: complete, 4: in progress")
	cmd.Flags().StringP("addr", "a", "", "player address")
}

func rpsQueryGameList(cmd *cobra.Command, args []string) {
	rpcLaddr, _ := cmd.Flags().GetString("rpc_laddr")
	status, _ := cmd.Flags().GetInt32("status")
	addr, _ := cmd.Flags().GetString("addr")
	index, _ := cmd.Flags().GetInt64("index")
	count, _ := cmd.Flags().GetInt32("count")
	direction, _ := cmd.Flags().GetInt32("direction")
	req := &rt.QueryGameListByStatusAndAddr{
		Status:    status,
		Address:   addr,
		Index:     index,
		Count:     count,
		Direction: direction,
	}
	var res rt.ReplyGameList
	ctx := jsonclient.NewRPCCtx(rpcLaddr, "Chain33.Query", query4Jrpc(rt.FuncNameQueryGameListByStatusAndAddr, req), &res)
	ctx.SetResultCb(parseGameListRes)
	ctx.Run()
}

// RpsQueryListCountCmd 处于某个状态的游戏数
func RpsQueryListCountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status_count",
		Short: "Count games by status and address",
		Run:   rpsQueryListCount,
	}
	addStatusFlags(cmd)
	return cmd
}

func rpsQueryListCount(cmd *cobra.Command, args []string) {
	rpcLaddr, _ := cmd.Flags().GetString("rpc_laddr")
	status, _ := cmd.Flags().GetInt32("status")
	addr, _ := cmd.Flags().GetString("addr")
	req := &rt.QueryGameListCount{Status: status, Address: addr}
	var res rt.ReplyGameListCount
	ctx := jsonclient.NewRPCCtx(rpcLaddr, "Chain33.Query", query4Jrpc(rt.FuncNameQueryGameListCount, req), &res)
	ctx.Run()
}

// RpsQueryEscrowCmd 托管金额
func RpsQueryEscrowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "escrow",
		Short: "Query escrowed amount of a game",
		Run:   rpsQueryEscrow,
	}
	cmd.Flags().Uint64P("gameID", "g", 0, "game ID")
	cmd.MarkFlagRequired("gameID")
	return cmd
}

func rpsQueryEscrow(cmd *cobra.Command, args []string) {
	rpcLaddr, _ := cmd.Flags().GetString("rpc_laddr")
	gameID, _ := cmd.Flags().GetUint64("gameID")
	var res rt.ReplyEscrow
	ctx := jsonclient.NewRPCCtx(rpcLaddr, "Chain33.Query", query4Jrpc(rt.FuncNameQueryEscrow, &rt.QueryGameInfo{GameID: gameID}), &res)
	ctx.SetResultCb(func(arg interface{}) (interface{}, error) {
		r := arg.(*rt.ReplyEscrow)
		return map[string]interface{}{
			"gameId":        r.GameID,
			"state":         rt.StateName(r.State),
			"bet":           types.FormatAmount(r.BetAmount),
			"escrow":        types.FormatAmount(r.Escrow),
			"player1Frozen": types.FormatAmount(r.Player1Frozen),
			"player2Frozen": types.FormatAmount(r.Player2Frozen),
		}, nil
	})
	ctx.Run()
}

func query4Jrpc(funcName string, param interface{}) rpctypes.Query4Jrpc {
	return rpctypes.Query4Jrpc{
		Execer:   rt.RpsX,
		FuncName: funcName,
		Payload:  types.Encode(param),
	}
}

func queryGame(rpcLaddr string, gameID uint64) (*rt.Game, error) {
	jsonc, err := jsonclient.NewJSONClient(rpcLaddr)
	if err != nil {
		return nil, err
	}
	var res rt.ReplyGame
	err = jsonc.Call("Chain33.Query", query4Jrpc(rt.FuncNameQueryGameByID, &rt.QueryGameInfo{GameID: gameID}), &res)
	if err != nil {
		return nil, err
	}
	if res.Game == nil {
		return nil, rt.ErrGameNotFound
	}
	return res.Game, nil
}

func printJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	fmt.Println(string(data))
}
