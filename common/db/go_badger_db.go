// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package db

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/33cn/rpschain/common/log"
	"github.com/dgraph-io/badger"
)

var blog = log.New("module", "db.gobadgerdb")

func init() {
	dbCreator := func(name string, dir string, cache int) (DB, error) {
		return NewGoBadgerDB(name, dir, cache)
	}
	registerDBCreator(GoBadgerDBBackendStr, dbCreator, false)
}

// GoBadgerDB db
type GoBadgerDB struct {
	db *badger.DB
}

// NewGoBadgerDB new
func NewGoBadgerDB(name string, dir string, cache int) (*GoBadgerDB, error) {
	opts := badger.DefaultOptions(dir + "/" + name + ".badger")
	opts.Logger = &badgerLogger{}
	db, err := badger.Open(opts)
	if err != nil {
		blog.Error("NewGoBadgerDB", "error", err)
		return nil, err
	}
	return &GoBadgerDB{db: db}, nil
}

// Get get
func (db *GoBadgerDB) Get(key []byte) ([]byte, error) {
	var val []byte
	err := db.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return nil, ErrNotFoundInDb
	}
	if err != nil {
		blog.Error("Get", "error", err)
		return nil, err
	}
	if val == nil {
		val = []byte{}
	}
	return val, nil
}

// Set set
func (db *GoBadgerDB) Set(key []byte, value []byte) error {
	err := db.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
	if err != nil {
		blog.Error("Set", "error", err)
	}
	return err
}

// SetSync badger 的同步由 SyncWrites 选项控制
func (db *GoBadgerDB) SetSync(key []byte, value []byte) error {
	return db.Set(key, value)
}

// Delete delete
func (db *GoBadgerDB) Delete(key []byte) error {
	err := db.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
	if err != nil {
		blog.Error("Delete", "error", err)
	}
	return err
}

// DeleteSync delete
func (db *GoBadgerDB) DeleteSync(key []byte) error {
	return db.Delete(key)
}

// DB db
func (db *GoBadgerDB) DB() *badger.DB {
	return db.db
}

// Close close
func (db *GoBadgerDB) Close() {
	if err := db.db.Close(); err != nil {
		blog.Error("Close", "error", err)
	}
}

// Stats stats
func (db *GoBadgerDB) Stats() map[string]string {
	lsm, vlog := db.db.Size()
	return map[string]string{
		"badger.lsm.size":  fmt.Sprintf("%d", lsm),
		"badger.vlog.size": fmt.Sprintf("%d", vlog),
	}
}

// Iterator 迭代器持有一个只读事务, 使用完之后必须 Close
func (db *GoBadgerDB) Iterator(prefix []byte, reverse bool) Iterator {
	txn := db.db.NewTransaction(false)
	opts := badger.DefaultIteratorOptions
	opts.Reverse = reverse
	it := txn.NewIterator(opts)
	dbit := &goBadgerDBIt{txn: txn, it: it, prefix: CopyBytes(prefix), reverse: reverse}
	dbit.Rewind()
	return dbit
}

type goBadgerDBIt struct {
	txn     *badger.Txn
	it      *badger.Iterator
	prefix  []byte
	reverse bool
	err     error
}

func (dbit *goBadgerDBIt) Rewind() bool {
	if !dbit.reverse {
		dbit.it.Seek(dbit.prefix)
		return dbit.Valid()
	}
	end := prefixEnd(dbit.prefix)
	if end == nil {
		dbit.it.Rewind()
		return dbit.Valid()
	}
	dbit.it.Seek(end)
	if dbit.it.Valid() && bytes.Equal(dbit.it.Item().Key(), end) {
		dbit.it.Next()
	}
	return dbit.Valid()
}

// Seek badger 反向迭代时 Seek 本身就是定位到 <= key 的位置
func (dbit *goBadgerDBIt) Seek(key []byte) bool {
	dbit.it.Seek(key)
	return dbit.Valid()
}

func (dbit *goBadgerDBIt) Next() bool {
	dbit.it.Next()
	return dbit.Valid()
}

func (dbit *goBadgerDBIt) Valid() bool {
	return dbit.it.ValidForPrefix(dbit.prefix)
}

func (dbit *goBadgerDBIt) Key() []byte {
	return dbit.it.Item().Key()
}

func (dbit *goBadgerDBIt) Value() []byte {
	value, err := dbit.it.Item().ValueCopy(nil)
	if err != nil {
		dbit.err = err
	}
	return value
}

func (dbit *goBadgerDBIt) ValueCopy() []byte {
	return dbit.Value()
}

func (dbit *goBadgerDBIt) Error() error {
	return dbit.err
}

func (dbit *goBadgerDBIt) Close() {
	dbit.it.Close()
	dbit.txn.Discard()
}

type goBadgerDBBatch struct {
	db     *GoBadgerDB
	writes []kv
	size   int
}

// NewBatch new
func (db *GoBadgerDB) NewBatch(sync bool) Batch {
	return &goBadgerDBBatch{db: db}
}

func (mBatch *goBadgerDBBatch) Set(key, value []byte) {
	mBatch.writes = append(mBatch.writes, kv{CopyBytes(key), CopyBytes(value)})
	mBatch.size += len(value)
}

func (mBatch *goBadgerDBBatch) Delete(key []byte) {
	mBatch.writes = append(mBatch.writes, kv{CopyBytes(key), nil})
	mBatch.size++
}

// Write 在一个读写事务中提交所有修改
func (mBatch *goBadgerDBBatch) Write() error {
	txn := mBatch.db.db.NewTransaction(true)
	defer txn.Discard()
	for _, kv := range mBatch.writes {
		var err error
		if kv.v == nil {
			err = txn.Delete(kv.k)
		} else {
			err = txn.Set(kv.k, kv.v)
		}
		if err != nil {
			blog.Error("Write", "error", err)
			return err
		}
	}
	if err := txn.Commit(); err != nil {
		blog.Error("Write", "error", err)
		return err
	}
	return nil
}

func (mBatch *goBadgerDBBatch) ValueSize() int {
	return mBatch.size
}

func (mBatch *goBadgerDBBatch) Reset() {
	mBatch.writes = mBatch.writes[:0]
	mBatch.size = 0
}

// badgerLogger 将 badger 的日志转到 log15
type badgerLogger struct{}

func (l *badgerLogger) Errorf(f string, v ...interface{}) {
	blog.Error(strings.TrimSpace(fmt.Sprintf(f, v...)))
}

func (l *badgerLogger) Warningf(f string, v ...interface{}) {
	blog.Warn(strings.TrimSpace(fmt.Sprintf(f, v...)))
}

func (l *badgerLogger) Infof(f string, v ...interface{}) {
	blog.Debug(strings.TrimSpace(fmt.Sprintf(f, v...)))
}

func (l *badgerLogger) Debugf(f string, v ...interface{}) {
	blog.Debug(strings.TrimSpace(fmt.Sprintf(f, v...)))
}
