// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package util 测试以及命令行使用的工具函数
package util

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"testing"

	"github.com/33cn/rpschain/common"
	"github.com/33cn/rpschain/common/address"
	"github.com/33cn/rpschain/common/crypto"
	"github.com/33cn/rpschain/common/db"
	"github.com/33cn/rpschain/common/log"
	"github.com/33cn/rpschain/types"
)

var ulog = log.New("module", "util")

//Genaddress : generate a address
func Genaddress() (string, crypto.PrivKey) {
	cr, err := crypto.New(crypto.SignNameSecp256k1)
	if err != nil {
		panic(err)
	}
	privto, err := cr.GenKey()
	if err != nil {
		panic(err)
	}
	return address.PubKeyToAddr(privto.PubKey().Bytes()), privto
}

// PrivkeyToAddr : 私钥对应的地址
func PrivkeyToAddr(priv crypto.PrivKey) string {
	return address.PubKeyToAddr(priv.PubKey().Bytes())
}

// HexToPrivkey : convert hex string to private key
func HexToPrivkey(key string) (crypto.PrivKey, error) {
	cr, err := crypto.New(crypto.SignNameSecp256k1)
	if err != nil {
		return nil, err
	}
	bkey, err := common.FromHex(key)
	if err != nil {
		return nil, err
	}
	if len(bkey) != 32 {
		return nil, types.ErrPrivateKeyLen
	}
	return cr.PrivKeyFromBytes(bkey)
}

// SignTx : 签名之后返回, priv 为空时不签名
func SignTx(tx *types.Transaction, priv crypto.PrivKey) *types.Transaction {
	if priv == nil {
		return tx
	}
	if err := tx.Sign(priv); err != nil {
		panic(err)
	}
	return tx
}

// CreateTxWithExecer ： Create Tx With Execer, payload 为 json 编码
func CreateTxWithExecer(priv crypto.PrivKey, execer string, payload interface{}, amount int64) *types.Transaction {
	tx := types.NewTransaction(execer, types.Encode(payload), amount)
	return SignTx(tx, priv)
}

// JSONPrint : print in json format
func JSONPrint(t *testing.T, input interface{}) {
	data, err := json.MarshalIndent(input, "", "\t")
	if err != nil {
		t.Error(err)
		return
	}
	if t == nil {
		fmt.Println(string(data))
	} else {
		t.Log(string(data))
	}
}

//CreateTestDB 创建一个测试数据库
func CreateTestDB() (string, db.DB) {
	dir, err := ioutil.TempDir("", "goleveldb")
	if err != nil {
		panic(err)
	}
	leveldb, err := db.NewGoLevelDB("goleveldb", dir, 128)
	if err != nil {
		panic(err)
	}
	return dir, leveldb
}

//CloseTestDB 关闭并删除测试数据库
func CloseTestDB(dir string, dbm db.DB) {
	dbm.Close()
	err := os.RemoveAll(dir)
	if err != nil {
		ulog.Info("RemoveAll ", "dir", dir, "err", err)
	}
}

//SaveKVList 保存kvs to database
func SaveKVList(kvdb db.DB, kvs []*types.KeyValue) {
	batch := kvdb.NewBatch(true)
	for i := 0; i < len(kvs); i++ {
		if kvs[i].Value == nil {
			batch.Delete(kvs[i].Key)
			continue
		}
		batch.Set(kvs[i].Key, kvs[i].Value)
	}
	err := batch.Write()
	if err != nil {
		panic(err)
	}
}

//PrintKV 打印KVList
func PrintKV(kvs []*types.KeyValue) {
	for i := 0; i < len(kvs); i++ {
		fmt.Printf("KV %d %s(%s)\n", i, string(kvs[i].Key), common.ToHex(kvs[i].Value))
	}
}
