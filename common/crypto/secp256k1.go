// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package crypto

import (
	"bytes"
	"crypto/ecdsa"
	"errors"

	"github.com/33cn/rpschain/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// secp256k1 签名类型, 与以太坊兼容的65字节可恢复签名
const (
	SignNameSecp256k1 = "secp256k1"
	SignTypeSecp256k1 = int32(1)
	// SignatureLength r,s,v
	SignatureLength = 65
)

// ErrSignatureLen 签名长度错误
var ErrSignatureLen = errors.New("ErrSignatureLen")

func init() {
	Register(SignNameSecp256k1, SignTypeSecp256k1, &Driver{})
}

// Driver secp256k1 驱动
type Driver struct{}

// GenKey 生成私钥
func (d Driver) GenKey() (PrivKey, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, err
	}
	return &PrivKeySecp256k1{key: key}, nil
}

// PrivKeyFromBytes 32字节私钥
func (d Driver) PrivKeyFromBytes(b []byte) (PrivKey, error) {
	key, err := crypto.ToECDSA(b)
	if err != nil {
		return nil, err
	}
	return &PrivKeySecp256k1{key: key}, nil
}

// PubKeyFromBytes 支持33字节压缩公钥
func (d Driver) PubKeyFromBytes(b []byte) (PubKey, error) {
	if _, err := crypto.DecompressPubkey(b); err != nil {
		return nil, err
	}
	return PubKeySecp256k1(common.CopyBytes(b)), nil
}

// SignatureFromBytes 65字节签名
func (d Driver) SignatureFromBytes(b []byte) (Signature, error) {
	if len(b) != SignatureLength {
		return nil, ErrSignatureLen
	}
	return SignatureSecp256k1(common.CopyBytes(b)), nil
}

// PrivKeySecp256k1 私钥
type PrivKeySecp256k1 struct {
	key *ecdsa.PrivateKey
}

// Bytes 32字节
func (p *PrivKeySecp256k1) Bytes() []byte {
	return crypto.FromECDSA(p.key)
}

// Sign msg 必须是32字节hash
func (p *PrivKeySecp256k1) Sign(msg []byte) (Signature, error) {
	sig, err := crypto.Sign(msg, p.key)
	if err != nil {
		return nil, err
	}
	return SignatureSecp256k1(sig), nil
}

// PubKey 压缩公钥
func (p *PrivKeySecp256k1) PubKey() PubKey {
	return PubKeySecp256k1(crypto.CompressPubkey(&p.key.PublicKey))
}

// PubKeySecp256k1 压缩格式公钥
type PubKeySecp256k1 []byte

// Bytes bytes
func (pub PubKeySecp256k1) Bytes() []byte {
	return []byte(pub)
}

// KeyString hex
func (pub PubKeySecp256k1) KeyString() string {
	return common.ToHex(pub)
}

// VerifyBytes 通过签名恢复公钥并比较
func (pub PubKeySecp256k1) VerifyBytes(msg []byte, sig Signature) bool {
	raw := sig.Bytes()
	if len(raw) != SignatureLength {
		return false
	}
	recovered, err := crypto.SigToPub(msg, raw)
	if err != nil {
		return false
	}
	if !bytes.Equal(crypto.CompressPubkey(recovered), pub) {
		return false
	}
	return crypto.VerifySignature(pub, msg, raw[:64])
}

// SignatureSecp256k1 签名
type SignatureSecp256k1 []byte

// Bytes bytes
func (sig SignatureSecp256k1) Bytes() []byte {
	return []byte(sig)
}

func (sig SignatureSecp256k1) String() string {
	return common.ToHex(sig)
}
