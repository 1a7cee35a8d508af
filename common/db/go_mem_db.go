// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package db

import (
	"sort"
	"strconv"
	"sync"
)

// memdb 应该无需区分同步与异步操作

func init() {
	dbCreator := func(name string, dir string, cache int) (DB, error) {
		return NewGoMemDB(name, dir, cache)
	}
	registerDBCreator(MemDBBackendStr, dbCreator, false)
}

// GoMemDB 内存数据库, 主要用于测试
type GoMemDB struct {
	db   map[string][]byte
	lock sync.RWMutex
}

// NewGoMemDB new
func NewGoMemDB(name string, dir string, cache int) (*GoMemDB, error) {
	return &GoMemDB{
		db: make(map[string][]byte),
	}, nil
}

// Get get
func (db *GoMemDB) Get(key []byte) ([]byte, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if entry, ok := db.db[string(key)]; ok {
		return CopyBytes(entry), nil
	}
	return nil, ErrNotFoundInDb
}

// Set set
func (db *GoMemDB) Set(key []byte, value []byte) error {
	db.lock.Lock()
	defer db.lock.Unlock()
	db.set(key, value)
	return nil
}

func (db *GoMemDB) set(key []byte, value []byte) {
	if value == nil {
		value = []byte{}
	}
	db.db[string(key)] = CopyBytes(value)
}

// SetSync set
func (db *GoMemDB) SetSync(key []byte, value []byte) error {
	return db.Set(key, value)
}

// Delete delete
func (db *GoMemDB) Delete(key []byte) error {
	db.lock.Lock()
	defer db.lock.Unlock()
	delete(db.db, string(key))
	return nil
}

// DeleteSync delete
func (db *GoMemDB) DeleteSync(key []byte) error {
	return db.Delete(key)
}

// Close close
func (db *GoMemDB) Close() {}

// Stats stats
func (db *GoMemDB) Stats() map[string]string {
	db.lock.RLock()
	defer db.lock.RUnlock()
	return map[string]string{"memdb.keys": strconv.Itoa(len(db.db))}
}

// Iterator 创建时做一次快照, 之后的修改对迭代器不可见
func (db *GoMemDB) Iterator(prefix []byte, reverse bool) Iterator {
	db.lock.RLock()
	defer db.lock.RUnlock()

	var keys []string
	for k := range db.db {
		if hasPrefix([]byte(k), prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	values := make([][]byte, len(keys))
	for i, k := range keys {
		values[i] = db.db[k]
	}
	it := &goMemDBIt{keys: keys, values: values, reverse: reverse}
	it.Rewind()
	return it
}

type goMemDBIt struct {
	index   int
	keys    []string
	values  [][]byte
	reverse bool
}

func (dbit *goMemDBIt) Rewind() bool {
	if dbit.reverse {
		dbit.index = len(dbit.keys) - 1
	} else {
		dbit.index = 0
	}
	return dbit.Valid()
}

func (dbit *goMemDBIt) Seek(key []byte) bool {
	skey := string(key)
	i := sort.SearchStrings(dbit.keys, skey)
	if dbit.reverse {
		// 最后一个 <= key
		if i < len(dbit.keys) && dbit.keys[i] == skey {
			dbit.index = i
		} else {
			dbit.index = i - 1
		}
	} else {
		dbit.index = i
	}
	return dbit.Valid()
}

func (dbit *goMemDBIt) Next() bool {
	if dbit.reverse {
		dbit.index--
	} else {
		dbit.index++
	}
	return dbit.Valid()
}

func (dbit *goMemDBIt) Valid() bool {
	return dbit.index >= 0 && dbit.index < len(dbit.keys)
}

func (dbit *goMemDBIt) Key() []byte {
	return []byte(dbit.keys[dbit.index])
}

func (dbit *goMemDBIt) Value() []byte {
	return dbit.values[dbit.index]
}

func (dbit *goMemDBIt) ValueCopy() []byte {
	return CopyBytes(dbit.values[dbit.index])
}

func (dbit *goMemDBIt) Error() error {
	return nil
}

func (dbit *goMemDBIt) Close() {}

type kv struct{ k, v []byte }

type memBatch struct {
	db     *GoMemDB
	writes []kv
	size   int
}

// NewBatch new
func (db *GoMemDB) NewBatch(sync bool) Batch {
	return &memBatch{db: db}
}

func (b *memBatch) Set(key, value []byte) {
	if value == nil {
		value = []byte{}
	}
	b.writes = append(b.writes, kv{CopyBytes(key), CopyBytes(value)})
	b.size += len(value)
}

func (b *memBatch) Delete(key []byte) {
	b.writes = append(b.writes, kv{CopyBytes(key), nil})
	b.size++
}

func (b *memBatch) Write() error {
	b.db.lock.Lock()
	defer b.db.lock.Unlock()

	for _, kv := range b.writes {
		if kv.v == nil {
			delete(b.db.db, string(kv.k))
		} else {
			b.db.set(kv.k, kv.v)
		}
	}
	return nil
}

func (b *memBatch) ValueSize() int {
	return b.size
}

func (b *memBatch) Reset() {
	b.writes = b.writes[:0]
	b.size = 0
}

