// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package log

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/33cn/rpschain/types"
	"github.com/stretchr/testify/require"
)

func TestSetFileLog(t *testing.T) {
	dir, err := ioutil.TempDir("", "logtest")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	file := filepath.Join(dir, "rps.log")
	SetFileLog(&types.Log{Loglevel: "info", LogConsoleLevel: "crit", LogFile: file})
	defer SetLogLevel("error")

	l := New("module", "logtest")
	l.Info("hello", "gameId", 1)
	l.Debug("hidden")

	data, err := ioutil.ReadFile(file)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(data), "gameId=1"))
	require.False(t, strings.Contains(string(data), "hidden"))
}

func TestGetLevel(t *testing.T) {
	require.Equal(t, "dbug", getLevel("debug").String())
	require.Equal(t, "eror", getLevel("nonsense").String())
}
