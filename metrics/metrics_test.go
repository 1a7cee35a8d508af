// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package metrics

import (
	"testing"
	"time"

	go_metrics "github.com/rcrowley/go-metrics"
	"github.com/stretchr/testify/assert"
)

func TestSnapshot(t *testing.T) {
	r := go_metrics.NewRegistry()
	c := go_metrics.GetOrRegisterCounter(Name("tx.ok"), r)
	c.Inc(3)
	g := go_metrics.GetOrRegisterGauge(Name("games"), r)
	g.Update(7)
	tm := go_metrics.GetOrRegisterTimer(Name("exec"), r)
	tm.Update(time.Millisecond)
	tm.Update(3 * time.Millisecond)

	snap := Snapshot(r)
	assert.Equal(t, int64(3), snap["rpschain.tx.ok"])
	assert.Equal(t, int64(7), snap["rpschain.games"])
	assert.Equal(t, int64(2), snap["rpschain.exec.count"])
	assert.Equal(t, int64(2*time.Millisecond), snap["rpschain.exec.mean"])
	emit(r)
}
