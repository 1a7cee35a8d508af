// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"fmt"
	"os"

	clog "github.com/33cn/rpschain/common/log"
	"github.com/33cn/rpschain/pluginmgr"
	"github.com/33cn/rpschain/system/dapp/commands"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rps-cli",
	Short: "rpschain client tools",
}

func init() {
	rootCmd.AddCommand(
		commands.AccountCmd(),
		commands.TxCmd(),
		commands.VersionCmd(),
	)
}

//Run :
func Run(RPCAddr string) {
	if RPCAddr == "" {
		RPCAddr = "http://localhost:8801"
	}
	pluginmgr.AddCmd(rootCmd)
	clog.SetLogLevel("error")
	rootCmd.PersistentFlags().String("rpc_laddr", RPCAddr, "http url")
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
