// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

// queue 中使用的消息类型
const (
	EventTx          = 1
	EventReply       = 2
	EventTxResult    = 3
	EventQuery       = 4
	EventReceiptLogs = 5
)

var eventName = map[int]string{
	EventTx:          "EventTx",
	EventReply:       "EventReply",
	EventTxResult:    "EventTxResult",
	EventQuery:       "EventQuery",
	EventReceiptLogs: "EventReceiptLogs",
}

// GetEventName 获取消息名称
func GetEventName(ty int) string {
	name, ok := eventName[ty]
	if ok {
		return name
	}
	return "unknow-event"
}

// Event 执行器 receipt log 解析后推送给订阅者的事件
type Event struct {
	Name   string      `json:"name"`
	Execer string      `json:"execer"`
	TxHash string      `json:"txHash"`
	Height int64       `json:"height"`
	Data   interface{} `json:"data"`
}

// EventNameSubscribed websocket 注册成功之后推送的第一个事件, Data 为连接 id
const EventNameSubscribed = "subscribed"
