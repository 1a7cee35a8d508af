// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package crypto_test

import (
	"testing"

	"github.com/33cn/rpschain/common"
	"github.com/33cn/rpschain/common/crypto"
	"github.com/stretchr/testify/require"
)

func TestSecp256k1(t *testing.T) {
	require := require.New(t)
	c, err := crypto.New(crypto.SignNameSecp256k1)
	require.Nil(err)
	require.Equal(crypto.SignNameSecp256k1, crypto.GetName(crypto.SignTypeSecp256k1))
	require.Equal(crypto.SignTypeSecp256k1, crypto.GetType(crypto.SignNameSecp256k1))
	require.Equal("unknown", crypto.GetName(100))

	priv, err := c.GenKey()
	require.Nil(err)
	priv2, err := c.PrivKeyFromBytes(priv.Bytes())
	require.Nil(err)
	require.Equal(priv.Bytes(), priv2.Bytes())

	pub := priv.PubKey()
	require.Len(pub.Bytes(), 33)
	pub2, err := c.PubKeyFromBytes(pub.Bytes())
	require.Nil(err)
	require.Equal(pub.KeyString(), pub2.KeyString())

	msg := common.Sha256([]byte("hello"))
	sig, err := priv.Sign(msg)
	require.Nil(err)
	require.Len(sig.Bytes(), crypto.SignatureLength)
	require.True(pub.VerifyBytes(msg, sig))

	sig2, err := c.SignatureFromBytes(sig.Bytes())
	require.Nil(err)
	require.True(pub2.VerifyBytes(msg, sig2))
	require.False(pub.VerifyBytes(common.Sha256([]byte("other")), sig2))

	//其他私钥的签名
	other, err := c.GenKey()
	require.Nil(err)
	sig3, err := other.Sign(msg)
	require.Nil(err)
	require.False(pub.VerifyBytes(msg, sig3))

	_, err = c.SignatureFromBytes(sig.Bytes()[:64])
	require.Equal(crypto.ErrSignatureLen, err)
	_, err = c.PubKeyFromBytes([]byte{1, 2, 3})
	require.NotNil(err)
}

func TestNewUnknown(t *testing.T) {
	_, err := crypto.New("ed25519")
	require.NotNil(t, err)
}
