// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"encoding/json"

	tml "github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// Config 节点配置
type Config struct {
	Title   string          `toml:"Title"`
	Log     *Log            `toml:"log"`
	Store   *Store          `toml:"store"`
	RPC     *RPC            `toml:"rpc"`
	Metrics *Metrics        `toml:"metrics"`
	Exec    *Exec           `toml:"exec"`
	Genesis []*GenesisAlloc `toml:"genesis"`
}

// Log 日志配置
type Log struct {
	// 日志级别，支持debug(dbug)/info/warn/error(eror)/crit
	Loglevel        string `toml:"loglevel"`
	LogConsoleLevel string `toml:"logConsoleLevel"`
	// 日志文件名，可带目录，所有生成的日志文件都放到此目录下
	LogFile string `toml:"logFile"`
	// 单个日志文件的最大值（单位：兆）
	MaxFileSize uint32 `toml:"maxFileSize"`
	// 最多保存的历史日志文件个数
	MaxBackups uint32 `toml:"maxBackups"`
	// 最多保存的历史日志消息（单位：天）
	MaxAge         uint32 `toml:"maxAge"`
	LocalTime      bool   `toml:"localTime"`
	Compress       bool   `toml:"compress"`
	CallerFile     bool   `toml:"callerFile"`
	CallerFunction bool   `toml:"callerFunction"`
}

// Store 数据库配置
type Store struct {
	// 数据存储格式名称，目前支持memdb,leveldb,goleveldb,gobadgerdb
	Driver  string `toml:"driver"`
	DbPath  string `toml:"dbPath"`
	DbCache int32  `toml:"dbCache"`
}

// RPC rpc配置
type RPC struct {
	JrpcBindAddr      string   `toml:"jrpcBindAddr"`
	Whitelist         []string `toml:"whitelist"`
	JrpcFuncWhitelist []string `toml:"jrpcFuncWhitelist"`
	JrpcFuncBlacklist []string `toml:"jrpcFuncBlacklist"`
	JrpcUserName      string   `toml:"jrpcUserName"`
	JrpcUserPasswd    string   `toml:"jrpcUserPasswd"`
	CorsOrigins       []string `toml:"corsOrigins"`
	EnableWS          bool     `toml:"enableWS"`
}

// Metrics 度量配置
type Metrics struct {
	EnableMetrics bool `toml:"enableMetrics"`
	// 日志输出周期, 单位秒
	Duration int64 `toml:"duration"`
}

// Exec 执行器配置, Sub 为各个执行器自己的配置
type Exec struct {
	Sub map[string]interface{} `toml:"sub"`
}

// GenesisAlloc 创世资金分配
type GenesisAlloc struct {
	Addr   string `toml:"addr"`
	Amount int64  `toml:"amount"`
}

// InitCfg 从文件读取配置
func InitCfg(path string) (*Config, error) {
	var cfg Config
	if _, err := tml.DecodeFile(path, &cfg); err != nil {
		return nil, errors.Wrapf(err, "decode config %s", path)
	}
	cfg.fillDefault()
	return &cfg, nil
}

// InitCfgString 从字符串读取配置
func InitCfgString(cfgstring string) (*Config, error) {
	var cfg Config
	if _, err := tml.Decode(cfgstring, &cfg); err != nil {
		return nil, errors.Wrap(err, "decode config string")
	}
	cfg.fillDefault()
	return &cfg, nil
}

func (cfg *Config) fillDefault() {
	if cfg.Title == "" {
		cfg.Title = "rpschain"
	}
	if cfg.Log == nil {
		cfg.Log = &Log{}
	}
	if cfg.Store == nil {
		cfg.Store = &Store{}
	}
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = "memdb"
	}
	if cfg.Store.DbPath == "" {
		cfg.Store.DbPath = "datadir"
	}
	if cfg.Store.DbCache == 0 {
		cfg.Store.DbCache = 128
	}
	if cfg.RPC == nil {
		cfg.RPC = &RPC{}
	}
	if cfg.RPC.JrpcBindAddr == "" {
		cfg.RPC.JrpcBindAddr = "localhost:8801"
	}
	if len(cfg.RPC.Whitelist) == 0 {
		cfg.RPC.Whitelist = []string{"127.0.0.1"}
	}
	if len(cfg.RPC.JrpcFuncWhitelist) == 0 {
		cfg.RPC.JrpcFuncWhitelist = []string{"*"}
	}
	if cfg.Metrics == nil {
		cfg.Metrics = &Metrics{}
	}
	if cfg.Metrics.Duration <= 0 {
		cfg.Metrics.Duration = 60
	}
	if cfg.Exec == nil {
		cfg.Exec = &Exec{}
	}
}

// SubConfig 读取执行器的子配置, 不存在时返回 ErrConfigNotFound
func (e *Exec) SubConfig(name string, v interface{}) error {
	if e == nil || e.Sub == nil {
		return ErrConfigNotFound
	}
	sub, ok := e.Sub[name]
	if !ok {
		return ErrConfigNotFound
	}
	data, err := json.Marshal(sub)
	if err != nil {
		return errors.Wrapf(err, "encode sub config %s", name)
	}
	return errors.Wrapf(json.Unmarshal(data, v), "decode sub config %s", name)
}
