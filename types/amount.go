// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"github.com/shopspring/decimal"
)

var coinPrecision = decimal.New(Coin, 0)

// FormatAmount 将整数金额转换为以 coin 为单位的字符串
func FormatAmount(amount int64) string {
	return decimal.New(amount, 0).Div(coinPrecision).String()
}

// ParseAmount 解析以 coin 为单位的金额, 精度超出 1e-8 时返回错误
func ParseAmount(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrAmount
	}
	v := d.Mul(coinPrecision)
	if !v.Equal(v.Truncate(0)) {
		return 0, ErrAmount
	}
	if v.Sign() < 0 || v.GreaterThanOrEqual(decimal.New(MaxCoin, 0)) {
		return 0, ErrAmount
	}
	return v.IntPart(), nil
}
