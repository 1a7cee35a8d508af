// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// +build go1.8

// package cli RunRpsd 加载各个模块: 数据库, 执行器, 消息队列, rpc
// 事件由执行器通过消息队列推送给 rpc 的 websocket 订阅者

package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	dbm "github.com/33cn/rpschain/common/db"
	clog "github.com/33cn/rpschain/common/log"
	"github.com/33cn/rpschain/common/version"
	"github.com/33cn/rpschain/executor"
	"github.com/33cn/rpschain/metrics"
	"github.com/33cn/rpschain/pluginmgr"
	"github.com/33cn/rpschain/queue"
	"github.com/33cn/rpschain/rpc"
	"github.com/33cn/rpschain/types"
	"github.com/33cn/rpschain/util"
)

var (
	configPath = flag.String("f", "", "configfile")
	datadir    = flag.String("datadir", "", "data dir of rpsd, include logs and datas")
	versionCmd = flag.Bool("v", false, "version")
	log        = clog.New("module", "main")
)

//RunRpsd : run rpsd
func RunRpsd(name string) {
	flag.Parse()
	if *versionCmd {
		fmt.Println(version.GetVersion())
		return
	}
	if *configPath == "" {
		if name == "" {
			*configPath = "rpschain.toml"
		} else {
			*configPath = name + ".toml"
		}
	}
	cfg, err := types.InitCfg(*configPath)
	if err != nil {
		panic(err)
	}
	if *datadir != "" {
		resetDatadir(cfg, *datadir)
	}
	//set file log
	clog.SetFileLog(cfg.Log)
	log.Info(cfg.Title+"-app:"+version.GetVersion(), "config", *configPath)
	//set watching
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		t := time.NewTicker(10 * time.Minute)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				watching()
			}
		}
	}()
	metrics.StartMetrics(ctx, cfg.Metrics)

	log.Info("loading execs module")
	pluginmgr.InitExec(cfg.Exec)
	if cfg.Store.Driver != dbm.MemDBBackendStr {
		if err := util.MakeDir(filepath.Join(cfg.Store.DbPath, "placeholder")); err != nil {
			panic(err)
		}
	}
	db, err := dbm.NewDB("rpschain", cfg.Store.Driver, cfg.Store.DbPath, cfg.Store.DbCache)
	if err != nil {
		panic(err)
	}
	q := queue.New("channel")
	exec := executor.New(db, q.Client())
	err = exec.Genesis(cfg.Genesis)
	if err != nil && err != types.ErrGenesisAlreadyInit {
		panic(err)
	}

	log.Info("loading rpc module")
	rpcapi := rpc.New(cfg.RPC, exec)
	port, err := rpcapi.SetQueueClient(q.Client())
	if err != nil {
		panic(err)
	}
	log.Info("rpc listen", "addr", cfg.RPC.JrpcBindAddr, "port", port)
	defer func() {
		//close all module,clean some resource
		log.Info("begin close rpc module")
		rpcapi.Close()
		log.Info("begin close execs module")
		exec.Close()
		log.Info("begin close queue module")
		q.Close()
		log.Info("begin close db")
		db.Close()
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigs
	log.Info("receive signal", "signal", sig)
}

func resetDatadir(cfg *types.Config, datadir string) {
	datadir, err := filepath.Abs(datadir)
	if err != nil {
		panic(err)
	}
	if cfg.Log.LogFile != "" && !filepath.IsAbs(cfg.Log.LogFile) {
		cfg.Log.LogFile = filepath.Join(datadir, cfg.Log.LogFile)
	}
	if !filepath.IsAbs(cfg.Store.DbPath) {
		cfg.Store.DbPath = filepath.Join(datadir, cfg.Store.DbPath)
	}
}

func watching() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	log.Info("info:", "NumGoroutine:", runtime.NumGoroutine())
	log.Info("info:", "Mem:", m.Sys/(1024*1024))
	log.Info("info:", "HeapAlloc:", m.HeapAlloc/(1024*1024))
}
