// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commit

import (
	"testing"

	"github.com/33cn/rpschain/common"
	rpstypes "github.com/33cn/rpschain/plugin/dapp/rps/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	addr1 = "0x1111111111111111111111111111111111111111"
	addr2 = "0xabababababababababababababababababababab"
)

func TestBindingMatchesPackedKeccak(t *testing.T) {
	secret := make([]byte, 32)
	secret[31] = 7
	hash, err := Binding(rpstypes.MoveRock, secret, addr1)
	require.Nil(t, err)

	packed := []byte{1}
	packed = append(packed, secret...)
	a, _ := common.FromHex(addr1)
	packed = append(packed, a...)
	assert.Equal(t, crypto.Keccak256(packed), hash)
	assert.Len(t, hash, 32)

	//地址大小写不影响结果
	lower, err := Binding(rpstypes.MoveRock, secret, addr2)
	require.Nil(t, err)
	upper, err := Binding(rpstypes.MoveRock, secret, "0xABABABABABABABABABABABABABABABABABABABAB")
	require.Nil(t, err)
	assert.Equal(t, lower, upper)
}

func TestVerify(t *testing.T) {
	secret, err := NewSecret()
	require.Nil(t, err)
	require.Len(t, secret, 32)
	c, err := Binding(rpstypes.MovePaper, secret, addr1)
	require.Nil(t, err)

	assert.True(t, Verify(c, rpstypes.MovePaper, secret, addr1))
	assert.False(t, Verify(c, rpstypes.MoveRock, secret, addr1))
	assert.False(t, Verify(c, rpstypes.MovePaper, secret, addr2))

	//secret 任意一位变化都会校验失败
	for i := 0; i < len(secret); i++ {
		for bit := uint(0); bit < 8; bit++ {
			flipped := common.CopyBytes(secret)
			flipped[i] ^= 1 << bit
			assert.False(t, Verify(c, rpstypes.MovePaper, flipped, addr1))
		}
	}
	//commitment 的变化同样
	bad := common.CopyBytes(c)
	bad[0] ^= 0x80
	assert.False(t, Verify(bad, rpstypes.MovePaper, secret, addr1))
}

func TestBindingErrors(t *testing.T) {
	_, err := Binding(rpstypes.MoveRock, []byte("short"), addr1)
	assert.Equal(t, ErrSecretLen, err)
	_, err = Binding(rpstypes.MoveRock, make([]byte, 32), "not-an-address")
	assert.NotNil(t, err)
	_, err = Binding(256, make([]byte, 32), addr1)
	assert.Equal(t, rpstypes.ErrInvalidMove, err)
}

func TestIsValid(t *testing.T) {
	assert.False(t, IsValid(nil))
	assert.False(t, IsValid(make([]byte, 31)))
	assert.False(t, IsValid(make([]byte, 32)))
	c := make([]byte, 32)
	c[5] = 1
	assert.True(t, IsValid(c))
	assert.False(t, IsValid(append(c, 0)))
}

func TestSecretFromPassword(t *testing.T) {
	s1, err := SecretFromPassword("hunter2", 0, addr1)
	require.Nil(t, err)
	assert.Len(t, s1, 32)
	s2, err := SecretFromPassword("hunter2", 0, addr1)
	require.Nil(t, err)
	assert.Equal(t, s1, s2)

	s3, _ := SecretFromPassword("hunter2", 1, addr1)
	assert.NotEqual(t, s1, s3)
	s4, _ := SecretFromPassword("hunter2", 0, addr2)
	assert.NotEqual(t, s1, s4)

	id := make([]byte, 32)
	a, _ := common.FromHex(addr1)
	assert.Equal(t, crypto.Keccak256([]byte("hunter2"), id, a), s1)
}
