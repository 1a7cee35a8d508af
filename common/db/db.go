// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package db 数据库接口以及 memdb, goleveldb, gobadgerdb 的实现
package db

import (
	"bytes"
	"errors"

	"github.com/33cn/rpschain/common/log"
)

var dlog = log.New("module", "db")

// ErrNotFoundInDb 数据库中不存在
var ErrNotFoundInDb = errors.New("ErrNotFoundInDb")

// KV 带内存事务的状态读写接口, 执行器使用
type KV interface {
	Get(key []byte) ([]byte, error)
	Set(key []byte, value []byte) error
	Begin()
	Rollback()
	Commit() error
}

// Lister 列表查询接口
type Lister interface {
	List(prefix, key []byte, count, direction int32) ([][]byte, error)
}

// KVDB 可以列表查询的 KV
type KVDB interface {
	KV
	Lister
}

// DB 底层数据库接口
type DB interface {
	Get([]byte) ([]byte, error)
	Set([]byte, []byte) error
	SetSync([]byte, []byte) error
	Delete([]byte) error
	DeleteSync([]byte) error
	Close()
	NewBatch(sync bool) Batch
	// Iterator 遍历所有以 prefix 开头的 key, reverse 时从大到小
	Iterator(prefix []byte, reverse bool) Iterator
	Stats() map[string]string
}

// Batch 批量写, Write 成功之后所有修改同时生效
type Batch interface {
	Set(key, value []byte)
	Delete(key []byte)
	Write() error
	ValueSize() int
	Reset()
}

// Iterator 迭代器
type Iterator interface {
	Rewind() bool
	Next() bool
	Valid() bool
	// Seek 正向时定位到第一个 >= key 的位置, 反向时定位到最后一个 <= key 的位置
	Seek(key []byte) bool
	Key() []byte
	Value() []byte
	ValueCopy() []byte
	Error() error
	Close()
}

// backend
const (
	LevelDBBackendStr    = "leveldb" // legacy, defaults to goleveldb.
	GoLevelDBBackendStr  = "goleveldb"
	MemDBBackendStr      = "memdb"
	GoBadgerDBBackendStr = "gobadgerdb"
)

type dbCreator func(name string, dir string, cache int) (DB, error)

var backends = map[string]dbCreator{}

func registerDBCreator(backend string, creator dbCreator, force bool) {
	_, ok := backends[backend]
	if !force && ok {
		return
	}
	backends[backend] = creator
}

// ErrUnknownBackend 不支持的数据库类型
var ErrUnknownBackend = errors.New("ErrUnknownBackend")

// NewDB 根据 backend 创建数据库
func NewDB(name string, backend string, dir string, cache int32) (DB, error) {
	creator, ok := backends[backend]
	if !ok {
		dlog.Error("NewDB", "backend", backend, "err", ErrUnknownBackend)
		return nil, ErrUnknownBackend
	}
	db, err := creator(name, dir, int(cache))
	if err != nil {
		dlog.Error("NewDB", "backend", backend, "dir", dir, "err", err)
		return nil, err
	}
	return db, nil
}

// CopyBytes copy
func CopyBytes(b []byte) (copiedBytes []byte) {
	if b == nil {
		return nil
	}
	copiedBytes = make([]byte, len(b))
	copy(copiedBytes, b)
	return copiedBytes
}

// prefixEnd 返回大于所有以 prefix 开头的 key 的最小 key, prefix 全为 0xff 时返回 nil
func prefixEnd(prefix []byte) []byte {
	end := CopyBytes(prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}

func hasPrefix(key, prefix []byte) bool {
	return bytes.HasPrefix(key, prefix)
}
