// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dapp

import (
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"
)

var typeOfError = reflect.TypeOf((*error)(nil)).Elem()

// Is this an exported - upper case - name?
func isExported(name string) bool {
	rune, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(rune)
}

// ListMethod 列出形如 Query_Xxx(*T) (interface{}, error) 的方法
func ListMethod(action interface{}) map[string]reflect.Method {
	typ := reflect.TypeOf(action)
	methods := make(map[string]reflect.Method)
	for m := 0; m < typ.NumMethod(); m++ {
		method := typ.Method(m)
		mname := method.Name
		// Method must be exported.
		if method.PkgPath != "" || !isExported(mname) {
			continue
		}
		if !strings.HasPrefix(mname, "Query_") {
			continue
		}
		mtype := method.Type
		if mtype.NumIn() != 2 || mtype.In(1).Kind() != reflect.Ptr {
			continue
		}
		if mtype.NumOut() != 2 || mtype.Out(1) != typeOfError {
			continue
		}
		methods[mname] = method
	}
	return methods
}
