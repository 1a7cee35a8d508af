// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package db

import (
	"encoding/hex"
	"io/ioutil"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBackends(t *testing.T) {
	dir, err := ioutil.TempDir("", "backends")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	for _, backend := range []string{MemDBBackendStr, GoLevelDBBackendStr, GoBadgerDBBackendStr} {
		db, err := NewDB("test"+backend, backend, dir, 16)
		require.NoError(t, err, backend)
		testDBGetSet(t, db)
		testDBBatch(t, db)
		testDBIterator(t, db)
		db.Close()
	}
	_, err = NewDB("test", "cleveldb", dir, 16)
	require.Equal(t, ErrUnknownBackend, err)
}

func testDBGetSet(t *testing.T, db DB) {
	_, err := db.Get([]byte("nokey"))
	require.Equal(t, ErrNotFoundInDb, err)

	require.NoError(t, db.Set([]byte("a"), []byte("1")))
	v, err := db.Get([]byte("a"))
	require.NoError(t, err)
	require.Equal(t, []byte("1"), v)

	require.NoError(t, db.Delete([]byte("a")))
	_, err = db.Get([]byte("a"))
	require.Equal(t, ErrNotFoundInDb, err)
}

func testDBBatch(t *testing.T, db DB) {
	require.NoError(t, db.Set([]byte("batch-del"), []byte("x")))
	batch := db.NewBatch(true)
	batch.Set([]byte("batch-1"), []byte("v1"))
	batch.Set([]byte("batch-2"), []byte("v2"))
	batch.Delete([]byte("batch-del"))
	require.True(t, batch.ValueSize() > 0)

	// Write 之前不可见
	_, err := db.Get([]byte("batch-1"))
	require.Equal(t, ErrNotFoundInDb, err)

	require.NoError(t, batch.Write())
	v, err := db.Get([]byte("batch-2"))
	require.NoError(t, err)
	require.Equal(t, []byte("v2"), v)
	_, err = db.Get([]byte("batch-del"))
	require.Equal(t, ErrNotFoundInDb, err)

	batch.Reset()
	require.Equal(t, 0, batch.ValueSize())
}

func testDBIterator(t *testing.T, db DB) {
	for _, k := range []string{"aaaaaa/1", "my_key/1", "my_key/2", "my_key/3", "my_key/4", "my", "my_", "zzzzzz/1"} {
		require.NoError(t, db.Set([]byte(k), []byte(k)))
	}
	b, err := hex.DecodeString("ff")
	require.NoError(t, err)
	require.NoError(t, db.Set(b, []byte("0xff")))

	it := NewListHelper(db)
	require.Equal(t, [][]byte{[]byte("my"), []byte("my_")}, it.IteratorScanFromFirst([]byte("my"), 2))
	require.Equal(t, [][]byte{[]byte("my_key/4"), []byte("my_key/3"), []byte("my_key/2"), []byte("my_key/1"), []byte("my_"), []byte("my")},
		it.IteratorScanFromLast([]byte("my"), 100))
	require.Equal(t, [][]byte{[]byte("my_key/4")}, it.IteratorScan([]byte("my"), []byte("my_key/3"), 100, ListASC))
	require.Equal(t, [][]byte{[]byte("my_key/2"), []byte("my_key/1"), []byte("my_"), []byte("my")},
		it.IteratorScan([]byte("my"), []byte("my_key/3"), 100, ListDESC))
	require.Equal(t, [][]byte{[]byte("0xff")}, it.IteratorScanFromLast(b, 10))
}

func TestPrefixEnd(t *testing.T) {
	require.Equal(t, []byte("b"), prefixEnd([]byte("a")))
	require.Equal(t, []byte{0x01}, prefixEnd([]byte{0x00, 0xff}))
	require.Nil(t, prefixEnd([]byte{0xff, 0xff}))
	require.Nil(t, prefixEnd(nil))
}
