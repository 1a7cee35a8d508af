// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHex(t *testing.T) {
	assert.Equal(t, "", ToHex(nil))
	assert.Equal(t, "0x0102ff", ToHex([]byte{1, 2, 255}))

	b, err := FromHex("0x0102ff")
	require.Nil(t, err)
	assert.Equal(t, []byte{1, 2, 255}, b)
	b, err = FromHex("0X102ff")
	require.Nil(t, err)
	assert.Equal(t, []byte{1, 2, 255}, b)
	b, err = FromHex("")
	require.Nil(t, err)
	assert.Equal(t, 0, len(b))
	_, err = FromHex("0xzz")
	assert.NotNil(t, err)

	assert.True(t, HasHexPrefix("0x"))
	assert.False(t, HasHexPrefix("x0"))
}

func TestHash(t *testing.T) {
	assert.Equal(t, "0xe3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", ToHex(Sha256(nil)))
	assert.Equal(t, "0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470", ToHex(ShaKeccak256()))
	//分段写入与整体一致
	assert.Equal(t, ShaKeccak256([]byte("rock")), ShaKeccak256([]byte("ro"), []byte("ck")))
}

func TestGetRandBytes(t *testing.T) {
	b1, err := GetRandBytes(32)
	require.Nil(t, err)
	b2, err := GetRandBytes(32)
	require.Nil(t, err)
	assert.Len(t, b1, 32)
	assert.NotEqual(t, b1, b2)
	c := CopyBytes(b1)
	c[0]++
	assert.NotEqual(t, b1[0], c[0])
}
