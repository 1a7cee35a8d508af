// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	rt "github.com/33cn/rpschain/plugin/dapp/rps/types"
	"github.com/33cn/rpschain/types"
	"github.com/gorilla/websocket"
	"github.com/jpillora/backoff"
	"github.com/spf13/cobra"
)

// RpsWatchCmd 通过 websocket 订阅游戏事件
func RpsWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch game events over websocket",
		Run:   rpsWatch,
	}
	cmd.Flags().Int64P("gameID", "g", -1, "only print events of this game, -1 for all games")
	cmd.Flags().BoolP("until_complete", "u", false, "exit after the game completed, used with gameID")
	cmd.Flags().IntP("retry", "r", 0, "max reconnect attempts, 0 for unlimited")
	return cmd
}

func rpsWatch(cmd *cobra.Command, args []string) {
	rpcLaddr, _ := cmd.Flags().GetString("rpc_laddr")
	gameID, _ := cmd.Flags().GetInt64("gameID")
	until, _ := cmd.Flags().GetBool("until_complete")
	retry, _ := cmd.Flags().GetInt("retry")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		cancel()
	}()
	w := &Watcher{
		URL:           WSURL(rpcLaddr),
		GameID:        gameID,
		UntilComplete: until && gameID >= 0,
		MaxRetry:      retry,
		Out:           os.Stdout,
	}
	if err := w.Run(ctx); err != nil && err != context.Canceled {
		fmt.Fprintln(os.Stderr, err)
	}
}

// WSURL 把 rpc 地址转换为 websocket 地址
func WSURL(rpcLaddr string) string {
	u := strings.TrimSuffix(rpcLaddr, "/")
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	case !strings.HasPrefix(u, "ws://") && !strings.HasPrefix(u, "wss://"):
		u = "ws://" + u
	}
	if !strings.HasSuffix(u, "/ws") {
		u += "/ws"
	}
	return u + "?execer=" + rt.RpsX
}

// GameEvent websocket 推送的事件, Data 为 ReceiptRps
type GameEvent struct {
	Name   string          `json:"name"`
	Execer string          `json:"execer"`
	TxHash string          `json:"txHash"`
	Height int64           `json:"height"`
	Data   json.RawMessage `json:"data"`
}

// Watcher 断线之后按照 backoff 重连
type Watcher struct {
	URL           string
	GameID        int64
	UntilComplete bool
	MaxRetry      int
	Out           io.Writer
	//每次订阅成功之后调用
	OnSubscribed  func()
}

// Run 阻塞直到 ctx 取消, 重连次数用完, 或者游戏结束(UntilComplete)
func (w *Watcher) Run(ctx context.Context) error {
	b := &backoff.Backoff{
		Min:    100 * time.Millisecond,
		Max:    30 * time.Second,
		Factor: 2,
		Jitter: true,
	}
	for {
		done, err := w.watch(ctx, b)
		if done {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if w.MaxRetry > 0 && int(b.Attempt()) >= w.MaxRetry {
			return err
		}
		d := b.Duration()
		fmt.Fprintf(os.Stderr, "watch: %v, reconnect in %v\n", err, d)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(d):
		}
	}
}

func (w *Watcher) watch(ctx context.Context, b *backoff.Backoff) (bool, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, w.URL, nil)
	if err != nil {
		return false, err
	}
	defer conn.Close()
	//连接成功之后重新计算重连间隔
	b.Reset()
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stop:
		}
	}()
	for {
		var ev GameEvent
		if err := conn.ReadJSON(&ev); err != nil {
			return false, err
		}
		if ev.Name == types.EventNameSubscribed {
			if w.OnSubscribed != nil {
				w.OnSubscribed()
			}
			continue
		}
		var r rt.ReceiptRps
		if err := json.Unmarshal(ev.Data, &r); err != nil {
			continue
		}
		if w.GameID >= 0 && r.GameID != uint64(w.GameID) {
			continue
		}
		if err := json.NewEncoder(w.Out).Encode(&ev); err != nil {
			return false, err
		}
		if w.UntilComplete && ev.Name == rt.EventGameCompleted {
			return true, nil
		}
	}
}
