// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"github.com/33cn/rpschain/common/db"
	"github.com/33cn/rpschain/types"
)

//LocalDB 本地数据库，不加入状态。
//数据的get set 主要经过 cache
//List 只查询已经写入后端数据库的内容
type LocalDB struct {
	*StateDB
	list *db.ListHelper
}

//NewLocalDB 创建一个新的LocalDB
func NewLocalDB(backend db.DB) *LocalDB {
	return &LocalDB{
		StateDB: NewStateDB(backend),
		list:    db.NewListHelper(backend),
	}
}

// List 从数据库中查询数据列表
func (l *LocalDB) List(prefix, key []byte, count, direction int32) ([][]byte, error) {
	values, err := l.list.List(prefix, key, count, direction)
	if err != nil {
		return nil, types.ErrNotFound
	}
	return values, nil
}

// PrefixCount 从数据库中查询指定前缀的key的数量
func (l *LocalDB) PrefixCount(prefix []byte) int64 {
	return l.list.PrefixCount(prefix)
}
