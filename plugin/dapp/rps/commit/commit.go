// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package commit 出拳承诺的计算与校验
//
// commitment = keccak256(uint8(move) || secret[32] || address[20])
// 与 solidity 中 keccak256(abi.encodePacked(uint8, bytes32, address)) 的结果相同
package commit

import (
	"bytes"
	"errors"
	"math/big"

	"github.com/33cn/rpschain/common"
	"github.com/33cn/rpschain/common/address"
	rpstypes "github.com/33cn/rpschain/plugin/dapp/rps/types"
)

// SecretLen secret 固定32字节
const SecretLen = 32

// CommitmentLen commitment 固定32字节
const CommitmentLen = 32

// ErrSecretLen secret 长度错误
var ErrSecretLen = errors.New("ErrSecretLen")

// Binding 计算承诺值
func Binding(move int32, secret []byte, addr string) ([]byte, error) {
	if move < 0 || move > 255 {
		return nil, rpstypes.ErrInvalidMove
	}
	if len(secret) != SecretLen {
		return nil, ErrSecretLen
	}
	addrBytes, err := address.ToBytes(address.FormatEthAddress(addr))
	if err != nil {
		return nil, err
	}
	return common.ShaKeccak256([]byte{byte(move)}, secret, addrBytes), nil
}

// Verify 校验 move, secret, addr 是否和承诺值匹配
func Verify(commitment []byte, move int32, secret []byte, addr string) bool {
	if !IsValid(commitment) {
		return false
	}
	hash, err := Binding(move, secret, addr)
	if err != nil {
		return false
	}
	return bytes.Equal(hash, commitment)
}

// IsValid 承诺必须是32字节并且不能全为0
func IsValid(commitment []byte) bool {
	if len(commitment) != CommitmentLen {
		return false
	}
	for _, b := range commitment {
		if b != 0 {
			return true
		}
	}
	return false
}

// NewSecret 生成随机 secret
func NewSecret() ([]byte, error) {
	return common.GetRandBytes(SecretLen)
}

// SecretFromPassword 根据密码生成 secret, 同一个密码在不同游戏中得到不同的 secret
// secret = keccak256(password || uint256(gameID) || address[20])
func SecretFromPassword(password string, gameID uint64, addr string) ([]byte, error) {
	addrBytes, err := address.ToBytes(address.FormatEthAddress(addr))
	if err != nil {
		return nil, err
	}
	id := make([]byte, 32)
	new(big.Int).SetUint64(gameID).FillBytes(id)
	return common.ShaKeccak256([]byte(password), id, addrBytes), nil
}
