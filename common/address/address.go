// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package address 地址相关, 统一采用以太坊格式的小写地址
package address

import (
	"errors"
	"strings"

	"github.com/33cn/rpschain/common"
	ecommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	lru "github.com/hashicorp/golang-lru"
)

var (
	addrSeed     = []byte("address seed bytes for public key")
	addressCache *lru.Cache
	pubKeyCache  *lru.Cache
	// ErrInvalidEthAddr invalid ethereum address
	ErrInvalidEthAddr = errors.New("ErrInvalidEthAddr")
)

//MaxExecNameLength 执行器名最大长度
const MaxExecNameLength = 100

func init() {
	var err error
	addressCache, err = lru.New(10240)
	if err != nil {
		panic(err)
	}
	pubKeyCache, err = lru.New(10240)
	if err != nil {
		panic(err)
	}
}

// FormatEthAddress 转换为小写格式
func FormatEthAddress(addr string) string {
	return strings.ToLower(addr)
}

// CheckAddress 检查地址格式, 要求0x前缀
func CheckAddress(addr string) error {
	if !common.HasHexPrefix(addr) || !ecommon.IsHexAddress(addr) {
		return ErrInvalidEthAddr
	}
	return nil
}

// ToBytes 地址转换为20字节
func ToBytes(addr string) ([]byte, error) {
	if err := CheckAddress(addr); err != nil {
		return nil, err
	}
	return ecommon.HexToAddress(addr).Bytes(), nil
}

// PubKeyToAddr 公钥转地址, 支持压缩和非压缩格式
func PubKeyToAddr(pubKey []byte) string {
	pubStr := string(pubKey)
	if value, ok := pubKeyCache.Get(pubStr); ok {
		return value.(string)
	}
	addr := pubKey2EthAddr(pubKey)
	pubKeyCache.Add(pubStr, addr)
	return addr
}

func pubKey2EthAddr(pubKey []byte) string {
	if len(pubKey) == 33 {
		pub, err := crypto.DecompressPubkey(pubKey)
		if err == nil {
			return FormatEthAddress(crypto.PubkeyToAddress(*pub).String())
		}
	}
	if len(pubKey) == 65 {
		pub, err := crypto.UnmarshalPubkey(pubKey)
		if err == nil {
			return FormatEthAddress(crypto.PubkeyToAddress(*pub).String())
		}
	}
	// 非ecdsa公钥, 直接按照以太坊规则截取
	var a ecommon.Address
	a.SetBytes(crypto.Keccak256(pubKey)[12:])
	return FormatEthAddress(a.String())
}

//ExecAddress 执行器地址, 执行器本身没有私钥
func ExecAddress(name string) string {
	if value, ok := addressCache.Get(name); ok {
		return value.(string)
	}
	if len(name) > MaxExecNameLength {
		panic("name too long")
	}
	var a ecommon.Address
	a.SetBytes(crypto.Keccak256(addrSeed, []byte(name))[12:])
	addr := FormatEthAddress(a.String())
	addressCache.Add(name, addr)
	return addr
}
