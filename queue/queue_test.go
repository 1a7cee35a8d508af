// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package queue

import (
	"testing"

	"github.com/33cn/rpschain/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiSubscriber(t *testing.T) {
	q := New("channel")
	defer q.Close()

	c1 := q.Client()
	c2 := q.Client()
	require.Nil(t, c1.Sub("rps"))
	require.Nil(t, c2.Sub("rps"))

	sender := q.Client()
	n, err := sender.Send(sender.NewMessage("rps", types.EventReceiptLogs, "hello"))
	require.Nil(t, err)
	assert.Equal(t, 2, n)

	msg := <-c1.Recv()
	assert.Equal(t, "hello", msg.GetData())
	msg = <-c2.Recv()
	assert.Equal(t, int64(types.EventReceiptLogs), msg.Ty)

	n, err = sender.Send(sender.NewMessage("other", types.EventReceiptLogs, nil))
	require.Nil(t, err)
	assert.Equal(t, 0, n)
}

func TestClientClose(t *testing.T) {
	q := New("channel")
	c := q.Client()
	require.Nil(t, c.Sub("rps"))
	c.Close()
	_, ok := <-c.Recv()
	assert.False(t, ok)

	sender := q.Client()
	n, err := sender.Send(sender.NewMessage("rps", types.EventReceiptLogs, nil))
	require.Nil(t, err)
	assert.Equal(t, 0, n)
	//重复关闭
	c.Close()
}

func TestQueueClose(t *testing.T) {
	q := New("channel")
	c := q.Client()
	require.Nil(t, c.Sub("rps"))
	q.Close()
	_, ok := <-c.Recv()
	assert.False(t, ok)
	assert.Equal(t, types.ErrIsClosed, c.Sub("rps"))
	_, err := c.Send(c.NewMessage("rps", 0, nil))
	assert.Equal(t, types.ErrIsClosed, err)
	c.Close()
}
