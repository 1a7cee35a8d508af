// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package commands 命令行的通用子命令: 账户, 交易
package commands

import (
	"fmt"
	"os"

	"github.com/33cn/rpschain/common"
	"github.com/33cn/rpschain/common/address"
	"github.com/33cn/rpschain/rpc/jsonclient"
	rpctypes "github.com/33cn/rpschain/rpc/types"
	"github.com/33cn/rpschain/util"
	"github.com/spf13/cobra"
)

// AccountCmd account command
func AccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Account management",
		Args:  cobra.MinimumNArgs(1),
	}
	cmd.AddCommand(
		NewRandAccountCmd(),
		PrivkeyToAddrCmd(),
		GetBalanceCmd(),
	)
	return cmd
}

// NewRandAccountCmd 生成随机私钥, 不经过节点
func NewRandAccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rand",
		Short: "Generate a random private key and address",
		Run:   randAccount,
	}
	return cmd
}

func randAccount(cmd *cobra.Command, args []string) {
	addr, priv := util.Genaddress()
	result := map[string]string{
		"addr":    addr,
		"privkey": common.ToHex(priv.Bytes()),
	}
	printJSON(result)
}

// PrivkeyToAddrCmd 私钥对应的地址
func PrivkeyToAddrCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "addr",
		Short: "Get address of a private key",
		Run:   privkeyToAddr,
	}
	cmd.Flags().StringP("key", "k", "", "private key (hex)")
	cmd.MarkFlagRequired("key")
	return cmd
}

func privkeyToAddr(cmd *cobra.Command, args []string) {
	key, _ := cmd.Flags().GetString("key")
	priv, err := util.HexToPrivkey(key)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	fmt.Println(util.PrivkeyToAddr(priv))
}

// GetBalanceCmd get balance of an execer
func GetBalanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Get balance of a account address",
		Run:   balance,
	}
	addBalanceFlags(cmd)
	return cmd
}

func addBalanceFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("addr", "a", "", "account addr")
	cmd.MarkFlagRequired("addr")
	cmd.Flags().StringP("exec", "e", "", `executor name, empty for coins account, "rps" for escrow`)
}

func balance(cmd *cobra.Command, args []string) {
	rpcLaddr, _ := cmd.Flags().GetString("rpc_laddr")
	addr, _ := cmd.Flags().GetString("addr")
	execer, _ := cmd.Flags().GetString("exec")
	if err := address.CheckAddress(addr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	params := rpctypes.ReqBalance{
		Addresses: []string{addr},
		Execer:    execer,
	}
	var res []*rpctypes.Account
	ctx := jsonclient.NewRPCCtx(rpcLaddr, "Chain33.GetBalance", params, &res)
	ctx.Run()
}
