// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dapp

import (
	"sort"
	"sync"

	"github.com/33cn/rpschain/common/address"
	"github.com/33cn/rpschain/common/log"
	"github.com/33cn/rpschain/types"
)

var elog = log.New("module", "execs")

// DriverCreate defines a drivercreate function
type DriverCreate func() Driver

type driverWithHeight struct {
	create DriverCreate
	height int64
}

var (
	mu                 sync.RWMutex
	execAddressNameMap = make(map[string]string)
	registedExecDriver = make(map[string]*driverWithHeight)
)

// Register 注册执行器, height 之后的交易才能使用该执行器
func Register(name string, create DriverCreate, height int64) {
	mu.Lock()
	defer mu.Unlock()
	if create == nil {
		panic("Execute: Register driver is nil")
	}
	if _, dup := registedExecDriver[name]; dup {
		panic("Execute: Register called twice for driver " + name)
	}
	registedExecDriver[name] = &driverWithHeight{
		create: create,
		height: height,
	}
	execAddressNameMap[ExecAddress(name)] = name
}

// LoadDriver load driver
func LoadDriver(name string, height int64) (driver Driver, err error) {
	mu.RLock()
	defer mu.RUnlock()
	c, ok := registedExecDriver[name]
	if !ok {
		elog.Debug("LoadDriver", "driver", name)
		return nil, types.ErrExecNotFound
	}
	if height >= c.height || height == -1 {
		return c.create(), nil
	}
	return nil, types.ErrExecNotFound
}

// ListDrivers 已注册的执行器
func ListDrivers() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registedExecDriver))
	for name := range registedExecDriver {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsDriverAddress 是否是执行器地址
func IsDriverAddress(addr string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := execAddressNameMap[addr]
	return ok
}

// ExecAddress 执行器地址
func ExecAddress(name string) string {
	return address.ExecAddress(name)
}
