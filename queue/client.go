// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package queue

import (
	"sync"
	"sync/atomic"
)

//每个模块都会有一个client 对象
//主要的操作大致如下：
// client := q.Client()
// client.Sub("topicname")
// for msg := range client.Recv() {
//     process(msg)
// }

var gid int64

// Client 消息队列的接口
type Client interface {
	Send(msg *Message) (int, error)
	Recv() chan *Message
	Sub(topic string) error //订阅消息
	Close()
	NewMessage(topic string, ty int64, data interface{}) *Message
}

type client struct {
	q      *queue
	recv   chan *Message
	mu     sync.Mutex
	topics []string
	once   sync.Once
	closed int32
}

func newClient(q *queue) *client {
	return &client{
		q:    q,
		recv: make(chan *Message, DefaultChanBuffer),
	}
}

// Send 发送消息, 返回收到消息的订阅者数量
func (c *client) Send(msg *Message) (int, error) {
	return c.q.send(msg)
}

func (c *client) NewMessage(topic string, ty int64, data interface{}) *Message {
	id := atomic.AddInt64(&gid, 1)
	return NewMessage(id, topic, ty, data)
}

func (c *client) Recv() chan *Message {
	return c.recv
}

// Sub 订阅 topic, 同一个 client 可以订阅多个 topic
func (c *client) Sub(topic string) error {
	if err := c.q.sub(topic, c); err != nil {
		return err
	}
	c.mu.Lock()
	c.topics = append(c.topics, topic)
	c.mu.Unlock()
	return nil
}

// Close 取消所有订阅, Recv 的 channel 会被关闭
func (c *client) Close() {
	c.mu.Lock()
	topics := c.topics
	c.topics = nil
	c.mu.Unlock()
	for _, topic := range topics {
		c.q.unsub(topic, c)
	}
	c.closeRecv()
}

func (c *client) closeRecv() {
	c.once.Do(func() {
		atomic.StoreInt32(&c.closed, 1)
		close(c.recv)
	})
}
