// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commands

import (
	"testing"
	"time"

	"github.com/33cn/rpschain/types"
	"github.com/stretchr/testify/assert"
)

func TestCheckExpireOpt(t *testing.T) {
	d, err := CheckExpireOpt("120s")
	assert.Nil(t, err)
	assert.Equal(t, 120*time.Second, d)

	d, err = CheckExpireOpt("100")
	assert.Nil(t, err)
	assert.Equal(t, time.Duration(100), d)

	d, err = CheckExpireOpt("0")
	assert.Nil(t, err)
	assert.Equal(t, time.Duration(0), d)

	_, err = CheckExpireOpt("-1")
	assert.Equal(t, types.ErrInvalidParam, err)
	_, err = CheckExpireOpt("abc")
	assert.Equal(t, types.ErrInvalidParam, err)
}
