// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"sort"

	"github.com/33cn/rpschain/common/db"
	"github.com/33cn/rpschain/types"
)

// StateDB 状态数据库, 交易执行期间的修改都在内存中
// Begin 之后的修改进入 txcache, Commit 合并到 cache, Rollback 丢弃
// cache 中的数据由 executor 在交易执行成功后一次性写入底层数据库
type StateDB struct {
	cache   map[string][]byte
	txcache map[string][]byte
	keys    []string
	intx    bool
	db      db.DB
}

// NewStateDB new state db
func NewStateDB(backend db.DB) *StateDB {
	return &StateDB{
		cache: make(map[string][]byte),
		db:    backend,
	}
}

// Begin 开启内存事务处理
func (s *StateDB) Begin() {
	s.intx = true
	s.keys = nil
	s.txcache = nil
}

// Rollback reset tx
func (s *StateDB) Rollback() {
	s.resetTx()
}

// Commit 把 txcache 合并到 cache
func (s *StateDB) Commit() error {
	for k, v := range s.txcache {
		s.cache[k] = v
	}
	s.resetTx()
	return nil
}

func (s *StateDB) resetTx() {
	s.intx = false
	s.txcache = nil
	s.keys = nil
}

// Get get value from state db
func (s *StateDB) Get(key []byte) ([]byte, error) {
	skey := string(key)
	if s.intx && s.txcache != nil {
		if value, ok := s.txcache[skey]; ok {
			if value == nil {
				return nil, types.ErrNotFound
			}
			return value, nil
		}
	}
	if value, ok := s.cache[skey]; ok {
		if value == nil {
			return nil, types.ErrNotFound
		}
		return value, nil
	}
	value, err := s.db.Get(key)
	if err != nil {
		return nil, types.ErrNotFound
	}
	return value, nil
}

// Set set key value, value 为 nil 表示删除
func (s *StateDB) Set(key []byte, value []byte) error {
	skey := string(key)
	if s.intx {
		if s.txcache == nil {
			s.txcache = make(map[string][]byte)
		}
		s.keys = append(s.keys, skey)
		setmap(s.txcache, skey, value)
	} else {
		setmap(s.cache, skey, value)
	}
	return nil
}

// Dirty 已经提交但还没有写入数据库的修改, 按 key 排序
func (s *StateDB) Dirty() []*types.KeyValue {
	keys := make([]string, 0, len(s.cache))
	for k := range s.cache {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	kvs := make([]*types.KeyValue, 0, len(keys))
	for _, k := range keys {
		kvs = append(kvs, &types.KeyValue{Key: []byte(k), Value: s.cache[k]})
	}
	return kvs
}

// Reset 清空 cache, 写入数据库之后或者放弃本次修改时调用
func (s *StateDB) Reset() {
	s.cache = make(map[string][]byte)
	s.resetTx()
}

func setmap(data map[string][]byte, key string, value []byte) {
	if value == nil {
		data[key] = nil
		return
	}
	data[key] = db.CopyBytes(value)
}
