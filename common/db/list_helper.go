// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package db

import (
	"bytes"
)

//ListHelper 在 DB 的迭代器之上实现前缀分页查询
type ListHelper struct {
	db DB
}

//NewListHelper new
func NewListHelper(db DB) *ListHelper {
	return &ListHelper{db}
}

//const
const (
	ListDESC = int32(0)
	ListASC  = int32(1)
)

//PrefixScan 前缀
func (db *ListHelper) PrefixScan(prefix []byte) (values [][]byte) {
	return db.IteratorScanFromFirst(prefix, 0)
}

//List 列表, key 为空时从头(ASC)或者尾(DESC)开始, 否则从 key 之后开始(不包含 key), count <= 0 表示不限制
func (db *ListHelper) List(prefix, key []byte, count, direction int32) ([][]byte, error) {
	var values [][]byte
	if len(key) == 0 {
		if direction == ListASC {
			values = db.IteratorScanFromFirst(prefix, count)
		} else {
			values = db.IteratorScanFromLast(prefix, count)
		}
	} else {
		values = db.IteratorScan(prefix, key, count, direction)
	}
	if len(values) == 0 {
		return nil, ErrNotFoundInDb
	}
	return values, nil
}

//IteratorScan 从 key 之后开始迭代
func (db *ListHelper) IteratorScan(prefix []byte, key []byte, count int32, direction int32) (values [][]byte) {
	it := db.db.Iterator(prefix, direction == ListDESC)
	defer it.Close()

	if !it.Seek(key) {
		return nil
	}
	if bytes.Equal(it.Key(), key) {
		it.Next()
	}
	return scan(it, count)
}

//IteratorScanFromFirst 从头迭代
func (db *ListHelper) IteratorScanFromFirst(prefix []byte, count int32) (values [][]byte) {
	it := db.db.Iterator(prefix, false)
	defer it.Close()
	it.Rewind()
	return scan(it, count)
}

//IteratorScanFromLast 从尾迭代
func (db *ListHelper) IteratorScanFromLast(prefix []byte, count int32) (values [][]byte) {
	it := db.db.Iterator(prefix, true)
	defer it.Close()
	it.Rewind()
	return scan(it, count)
}

func scan(it Iterator, count int32) (values [][]byte) {
	var i int32
	for ; it.Valid(); it.Next() {
		value := it.ValueCopy()
		if it.Error() != nil {
			dlog.Error("ListHelper scan", "error", it.Error())
			return nil
		}
		values = append(values, value)
		i++
		if count > 0 && i == count {
			break
		}
	}
	return values
}

//PrefixCount 前缀计数
func (db *ListHelper) PrefixCount(prefix []byte) (count int64) {
	it := db.db.Iterator(prefix, false)
	defer it.Close()
	for it.Rewind(); it.Valid(); it.Next() {
		count++
	}
	return count
}
