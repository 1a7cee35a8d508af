// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"encoding/json"
	"math/rand"
	"time"

	"github.com/33cn/rpschain/common"
	"github.com/33cn/rpschain/common/address"
	"github.com/33cn/rpschain/common/crypto"
	"github.com/ethereum/go-ethereum/common/hexutil"
	lru "github.com/hashicorp/golang-lru"
)

var txCache *lru.Cache

func init() {
	var err error
	txCache, err = lru.New(10240)
	if err != nil {
		panic(err)
	}
}

// Signature 交易签名
type Signature struct {
	Ty        int32         `json:"ty"`
	Pubkey    hexutil.Bytes `json:"pubkey"`
	Signature hexutil.Bytes `json:"signature"`
}

// Transaction 交易, Amount 为交易附带的资金
type Transaction struct {
	Execer    string        `json:"execer"`
	Payload   hexutil.Bytes `json:"payload"`
	Amount    int64         `json:"amount"`
	Nonce     int64         `json:"nonce"`
	Expire    int64         `json:"expire,omitempty"`
	Signature *Signature    `json:"signature,omitempty"`
}

// NewTransaction 创建未签名交易, nonce 随机
func NewTransaction(execer string, payload []byte, amount int64) *Transaction {
	return &Transaction{
		Execer:  execer,
		Payload: payload,
		Amount:  amount,
		Nonce:   rand.Int63(),
	}
}

//ExpireBound 交易过期边界值
var ExpireBound int64 = 1000000000 // 交易过期分界线，小于expireBound比较height，大于expireBound比较blockTime

//SetExpire 设置交易过期时间, 小于 ExpireBound 的值表示高度
func (tx *Transaction) SetExpire(expire time.Duration) {
	if int64(expire) > ExpireBound {
		if expire < time.Second*120 {
			expire = time.Second * 120
		}
		//用秒数来表示的时间
		tx.Expire = time.Now().Unix() + int64(expire/time.Second)
	} else {
		tx.Expire = int64(expire)
	}
}

//IsExpire 交易是否过期, height 和 blocktime 为交易将要被执行时的值
func (tx *Transaction) IsExpire(height, blocktime int64) bool {
	valid := tx.Expire
	// Expire为0，返回false
	if valid == 0 {
		return false
	}
	if valid <= ExpireBound {
		return valid <= height
	}
	return valid <= blocktime
}

// Hash 交易hash, 不包含签名
func (tx *Transaction) Hash() []byte {
	copytx := *tx
	copytx.Signature = nil
	return common.ShaKeccak256(Encode(&copytx))
}

// Size 交易大小
func (tx *Transaction) Size() int {
	return len(Encode(tx))
}

// Sign 使用私钥签名
func (tx *Transaction) Sign(priv crypto.PrivKey) error {
	tx.Signature = nil
	sig, err := priv.Sign(tx.Hash())
	if err != nil {
		return err
	}
	tx.Signature = &Signature{
		Ty:        crypto.SignTypeSecp256k1,
		Pubkey:    priv.PubKey().Bytes(),
		Signature: sig.Bytes(),
	}
	return nil
}

// CheckSign 检查签名
func (tx *Transaction) CheckSign() bool {
	if tx.Signature == nil {
		return false
	}
	c, err := crypto.New(crypto.GetName(tx.Signature.Ty))
	if err != nil {
		return false
	}
	pub, err := c.PubKeyFromBytes(tx.Signature.Pubkey)
	if err != nil {
		return false
	}
	sig, err := c.SignatureFromBytes(tx.Signature.Signature)
	if err != nil {
		return false
	}
	return pub.VerifyBytes(tx.Hash(), sig)
}

// From 交易发送者地址, 只有签名检查通过之后才有意义
func (tx *Transaction) From() string {
	if tx.Signature == nil {
		return ""
	}
	key := string(tx.Signature.Pubkey)
	if addr, ok := txCache.Get(key); ok {
		return addr.(string)
	}
	addr := address.PubKeyToAddr(tx.Signature.Pubkey)
	txCache.Add(key, addr)
	return addr
}

// HexTx 交易的hex编码, rpc传输使用
func (tx *Transaction) HexTx() string {
	return common.ToHex(Encode(tx))
}

// DecodeHexTx 解析hex编码的交易
func DecodeHexTx(data string) (*Transaction, error) {
	b, err := common.FromHex(data)
	if err != nil {
		return nil, err
	}
	if len(b) > MaxTxSize {
		return nil, ErrTxMsgSizeTooBig
	}
	var tx Transaction
	if err := json.Unmarshal(b, &tx); err != nil {
		return nil, ErrDecode
	}
	return &tx, nil
}
