// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/33cn/rpschain/rpc/jsonclient"
	rpctypes "github.com/33cn/rpschain/rpc/types"
	"github.com/33cn/rpschain/types"
	"github.com/33cn/rpschain/util"
	"github.com/spf13/cobra"
)

// TxCmd transaction command
func TxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Transaction management",
		Args:  cobra.MinimumNArgs(1),
	}
	cmd.AddCommand(
		QueryTxCmd(),
		SignRawTxCmd(),
		SendRawTxCmd(),
		DecodeTxCmd(),
	)
	return cmd
}

// QueryTxCmd get tx by hash
func QueryTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query transaction by hash",
		Run:   queryTx,
	}
	cmd.Flags().StringP("hash", "s", "", "transaction hash")
	cmd.MarkFlagRequired("hash")
	return cmd
}

func queryTx(cmd *cobra.Command, args []string) {
	rpcLaddr, _ := cmd.Flags().GetString("rpc_laddr")
	hash, _ := cmd.Flags().GetString("hash")
	params := rpctypes.QueryParm{Hash: hash}
	var res rpctypes.TransactionDetail
	ctx := jsonclient.NewRPCCtx(rpcLaddr, "Chain33.QueryTransaction", params, &res)
	ctx.Run()
}

// SignRawTxCmd 本地签名
func SignRawTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign a raw transaction with private key",
		Run:   signRawTx,
	}
	cmd.Flags().StringP("data", "d", "", "raw transaction (hex)")
	cmd.MarkFlagRequired("data")
	cmd.Flags().StringP("key", "k", "", "private key (hex)")
	cmd.MarkFlagRequired("key")
	cmd.Flags().StringP("expire", "e", "120s", "expire time, duration like 120s or block height, 0 for never")
	return cmd
}

// CheckExpireOpt 整数表示高度, 否则按照时间解析
func CheckExpireOpt(expire string) (time.Duration, error) {
	if h, err := strconv.ParseInt(expire, 10, 64); err == nil {
		if h < 0 || h > types.ExpireBound {
			return 0, types.ErrInvalidParam
		}
		return time.Duration(h), nil
	}
	d, err := time.ParseDuration(expire)
	if err != nil || d < 0 {
		return 0, types.ErrInvalidParam
	}
	return d, nil
}

func signRawTx(cmd *cobra.Command, args []string) {
	data, _ := cmd.Flags().GetString("data")
	key, _ := cmd.Flags().GetString("key")
	expire, _ := cmd.Flags().GetString("expire")
	tx, err := types.DecodeHexTx(data)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	d, err := CheckExpireOpt(expire)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	tx.SetExpire(d)
	priv, err := util.HexToPrivkey(key)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	fmt.Println(util.SignTx(tx, priv).HexTx())
}

// SendRawTxCmd 发送已经签名的交易
func SendRawTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a signed transaction",
		Run:   sendRawTx,
	}
	cmd.Flags().StringP("data", "d", "", "signed transaction (hex)")
	cmd.MarkFlagRequired("data")
	return cmd
}

func sendRawTx(cmd *cobra.Command, args []string) {
	rpcLaddr, _ := cmd.Flags().GetString("rpc_laddr")
	data, _ := cmd.Flags().GetString("data")
	params := rpctypes.RawParm{Data: data}
	ctx := jsonclient.NewRPCCtx(rpcLaddr, "Chain33.SendTransaction", params, nil)
	ctx.RunWithoutMarshal()
}

// DecodeTxCmd decode raw hex to transaction
func DecodeTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode a hex format transaction",
		Run:   decodeTx,
	}
	cmd.Flags().StringP("data", "d", "", "transaction content (hex)")
	cmd.MarkFlagRequired("data")
	return cmd
}

func decodeTx(cmd *cobra.Command, args []string) {
	data, _ := cmd.Flags().GetString("data")
	tx, err := types.DecodeHexTx(data)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	result := map[string]interface{}{
		"execer":    tx.Execer,
		"amount":    types.FormatAmount(tx.Amount),
		"nonce":     tx.Nonce,
		"hash":      fmt.Sprintf("%x", tx.Hash()),
		"signed":    tx.Signature != nil,
		"from":      tx.From(),
		"payload":   json.RawMessage(tx.Payload),
		"checkSign": tx.CheckSign(),
	}
	if !json.Valid(tx.Payload) {
		result["payload"] = tx.Payload
	}
	printJSON(result)
}

// SendTx 有私钥时签名并发送, 否则输出未签名的交易
func SendTx(rpcLaddr, key string, tx *types.Transaction) {
	if key == "" {
		fmt.Println(tx.HexTx())
		return
	}
	priv, err := util.HexToPrivkey(key)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	params := rpctypes.RawParm{Data: util.SignTx(tx, priv).HexTx()}
	ctx := jsonclient.NewRPCCtx(rpcLaddr, "Chain33.SendTransaction", params, nil)
	ctx.RunWithoutMarshal()
}

func printJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	fmt.Println(string(data))
}
