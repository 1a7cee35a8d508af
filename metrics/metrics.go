// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package metrics 基于 go-metrics 的度量, 定时输出到日志
package metrics

import (
	"context"
	"sort"
	"time"

	"github.com/33cn/rpschain/common/log"
	"github.com/33cn/rpschain/types"
	go_metrics "github.com/rcrowley/go-metrics"
)

var mlog = log.New("module", "metrics")

// Namespace 所有度量名称的前缀
var Namespace = "rpschain"

// Name 加上命名空间
func Name(name string) string {
	return Namespace + "." + name
}

// NewCounter 注册或者获取一个计数器
func NewCounter(name string) go_metrics.Counter {
	return go_metrics.GetOrRegisterCounter(Name(name), go_metrics.DefaultRegistry)
}

// NewTimer 注册或者获取一个计时器
func NewTimer(name string) go_metrics.Timer {
	return go_metrics.GetOrRegisterTimer(Name(name), go_metrics.DefaultRegistry)
}

// NewGauge 注册或者获取一个 gauge
func NewGauge(name string) go_metrics.Gauge {
	return go_metrics.GetOrRegisterGauge(Name(name), go_metrics.DefaultRegistry)
}

//StartMetrics 根据配置文件相关参数启动, ctx 结束时退出
func StartMetrics(ctx context.Context, cfg *types.Metrics) {
	if cfg == nil || !cfg.EnableMetrics {
		mlog.Info("Metrics data is not enabled to emit")
		return
	}
	duration := time.Duration(cfg.Duration) * time.Second
	if duration <= 0 {
		duration = time.Minute
	}
	mlog.Info("StartMetrics", "duration", duration)
	go func() {
		ticker := time.NewTicker(duration)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				emit(go_metrics.DefaultRegistry)
			}
		}
	}()
}

func emit(r go_metrics.Registry) {
	snap := Snapshot(r)
	names := make([]string, 0, len(snap))
	for name := range snap {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		mlog.Info("metrics", "name", name, "value", snap[name])
	}
}

// Snapshot 当前所有度量的值, timer 输出次数以及平均耗时(纳秒)
func Snapshot(r go_metrics.Registry) map[string]int64 {
	if r == nil {
		r = go_metrics.DefaultRegistry
	}
	data := make(map[string]int64)
	r.Each(func(name string, i interface{}) {
		switch m := i.(type) {
		case go_metrics.Counter:
			data[name] = m.Count()
		case go_metrics.Gauge:
			data[name] = m.Value()
		case go_metrics.Timer:
			t := m.Snapshot()
			data[name+".count"] = t.Count()
			data[name+".mean"] = int64(t.Mean())
		case go_metrics.Meter:
			data[name+".count"] = m.Snapshot().Count()
		}
	})
	return data
}
