// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package util

import (
	"path/filepath"
	"testing"

	"github.com/33cn/rpschain/common"
	"github.com/33cn/rpschain/common/address"
	"github.com/33cn/rpschain/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenaddress(t *testing.T) {
	addr, priv := Genaddress()
	assert.Nil(t, address.CheckAddress(addr))
	assert.Equal(t, addr, PrivkeyToAddr(priv))

	priv2, err := HexToPrivkey(common.ToHex(priv.Bytes()))
	require.Nil(t, err)
	assert.Equal(t, addr, PrivkeyToAddr(priv2))

	_, err = HexToPrivkey("0x1234")
	assert.Equal(t, types.ErrPrivateKeyLen, err)
}

func TestCreateTxWithExecer(t *testing.T) {
	addr, priv := Genaddress()
	tx := CreateTxWithExecer(priv, "rps", &types.ReqNil{}, types.Coin)
	assert.True(t, tx.CheckSign())
	assert.Equal(t, addr, tx.From())
	assert.Equal(t, types.Coin, tx.Amount)

	unsigned := CreateTxWithExecer(nil, "rps", &types.ReqNil{}, 0)
	assert.Nil(t, unsigned.Signature)
}

func TestWriteStringToFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "keys", "priv.txt")
	assert.False(t, CheckFileIsExist(file))
	n, err := WriteStringToFile(file, "hello world")
	require.Nil(t, err)
	assert.Equal(t, 11, n)
	_, err = WriteStringToFile(file, "short")
	require.Nil(t, err)
	data, err := ReadFile(file)
	require.Nil(t, err)
	assert.Equal(t, "short", string(data))

	_, err = ReadFile(filepath.Join(t.TempDir(), "none"))
	assert.NotNil(t, err)
}

func TestSaveKVList(t *testing.T) {
	dir, db := CreateTestDB()
	defer CloseTestDB(dir, db)
	SaveKVList(db, []*types.KeyValue{
		{Key: []byte("a"), Value: []byte("1")},
		{Key: []byte("b"), Value: []byte("2")},
	})
	SaveKVList(db, []*types.KeyValue{{Key: []byte("a"), Value: nil}})
	_, err := db.Get([]byte("a"))
	assert.NotNil(t, err)
	v, err := db.Get([]byte("b"))
	require.Nil(t, err)
	assert.Equal(t, []byte("2"), v)
}
