// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package queue 模块之间的消息队列
package queue

import (
	"sync"
	"sync/atomic"

	"github.com/33cn/rpschain/common/log"
	"github.com/33cn/rpschain/types"
)

//消息队列：
//多对多消息队列
//消息：topic
//一个 topic 可以有多个订阅者, 每个订阅者都会收到全部消息

var qlog = log.New("module", "queue")

// DefaultChanBuffer 每个订阅者的缓存大小
const DefaultChanBuffer = 1024

// Queue 消息队列
type Queue interface {
	Close()
	Name() string
	Client() Client
}

type queue struct {
	mu     sync.RWMutex
	subs   map[string]map[*client]struct{}
	name   string
	closed int32
}

// New new queue struct
func New(name string) Queue {
	return &queue{
		subs: make(map[string]map[*client]struct{}),
		name: name,
	}
}

// Name 队列名称
func (q *queue) Name() string {
	return q.name
}

// Close 关闭所有订阅
func (q *queue) Close() {
	if !atomic.CompareAndSwapInt32(&q.closed, 0, 1) {
		return
	}
	q.mu.Lock()
	subs := q.subs
	q.subs = make(map[string]map[*client]struct{})
	q.mu.Unlock()
	for topic, clients := range subs {
		for c := range clients {
			c.closeRecv()
		}
		qlog.Debug("queue closed", "topic", topic)
	}
}

func (q *queue) isClosed() bool {
	return atomic.LoadInt32(&q.closed) == 1
}

// Client 创建一个新的 client
func (q *queue) Client() Client {
	return newClient(q)
}

func (q *queue) sub(topic string, c *client) error {
	if q.isClosed() {
		return types.ErrIsClosed
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	clients, ok := q.subs[topic]
	if !ok {
		clients = make(map[*client]struct{})
		q.subs[topic] = clients
	}
	clients[c] = struct{}{}
	return nil
}

func (q *queue) unsub(topic string, c *client) {
	q.mu.Lock()
	defer q.mu.Unlock()
	clients, ok := q.subs[topic]
	if !ok {
		return
	}
	if _, ok := clients[c]; ok {
		delete(clients, c)
		c.closeRecv()
	}
	if len(clients) == 0 {
		delete(q.subs, topic)
	}
}

// send 发送给所有订阅者, 订阅者缓存满的时候丢弃这条消息
func (q *queue) send(msg *Message) (int, error) {
	if q.isClosed() {
		return 0, types.ErrIsClosed
	}
	q.mu.RLock()
	defer q.mu.RUnlock()
	n := 0
	for c := range q.subs[msg.Topic] {
		select {
		case c.recv <- msg:
			n++
		default:
			qlog.Error("queue full, message dropped", "topic", msg.Topic, "ty", types.GetEventName(int(msg.Ty)), "id", msg.ID)
		}
	}
	return n, nil
}

// Message message struct
type Message struct {
	Topic string
	Ty    int64
	ID    int64
	Data  interface{}
}

// NewMessage new message
func NewMessage(id int64, topic string, ty int64, data interface{}) *Message {
	return &Message{
		ID:    id,
		Topic: topic,
		Ty:    ty,
		Data:  data,
	}
}

// GetData get message data
func (msg *Message) GetData() interface{} {
	return msg.Data
}
