// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rpc

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/33cn/rpschain/queue"
	"github.com/33cn/rpschain/types"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait = 10 * time.Second
	//每个连接缓存的事件数, 写不过来的连接会被断开
	sendBuffer = 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	//跨域由 cors 控制
	CheckOrigin: func(r *http.Request) bool { return true },
}

type wsListener struct {
	id     string
	execer string
	conn   *websocket.Conn
	send   chan *types.Event
	done   chan struct{}
	once   sync.Once
}

func newWsListener(execer string, conn *websocket.Conn) *wsListener {
	return &wsListener{
		id:     uuid.New().String(),
		execer: execer,
		conn:   conn,
		send:   make(chan *types.Event, sendBuffer),
		done:   make(chan struct{}),
	}
}

func (l *wsListener) close() {
	l.once.Do(func() {
		close(l.done)
		l.conn.Close()
	})
}

// writePump 每个连接一个写协程, 慢的连接不影响其他连接
func (l *wsListener) writePump(hub *eventHub) {
	defer hub.UnregisterListener(l.id)
	for {
		select {
		case <-l.done:
			return
		case ev := <-l.send:
			l.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := l.conn.WriteJSON(ev); err != nil {
				rlog.Debug("ws write", "id", l.id, "err", err)
				return
			}
		}
	}
}

// eventHub 把执行器事件推送给 websocket 订阅者
type eventHub struct {
	mu        sync.Mutex
	listeners map[string]*wsListener
}

func newEventHub() *eventHub {
	return &eventHub{listeners: make(map[string]*wsListener)}
}

// RegisterListener subscribed 事件排在最前面, 注册之后的事件不会丢失
func (hub *eventHub) RegisterListener(l *wsListener) {
	l.send <- &types.Event{Name: types.EventNameSubscribed, Execer: l.execer, Data: l.id}
	hub.mu.Lock()
	hub.listeners[l.id] = l
	hub.mu.Unlock()
	go l.writePump(hub)
}

func (hub *eventHub) UnregisterListener(id string) {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	if l, ok := hub.listeners[id]; ok {
		l.close()
		delete(hub.listeners, id)
	}
}

// Publish 不会阻塞, 缓存满的连接直接移除
func (hub *eventHub) Publish(ev *types.Event) {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	for id, l := range hub.listeners {
		if l.execer != "" && l.execer != ev.Execer {
			continue
		}
		select {
		case l.send <- ev:
		default:
			rlog.Error("ws listener too slow, disconnect", "id", id, "event", ev.Name)
			l.close()
			delete(hub.listeners, id)
		}
	}
}

// Count 当前连接数
func (hub *eventHub) Count() int {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	return len(hub.listeners)
}

func (hub *eventHub) Close() {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	for id, l := range hub.listeners {
		l.close()
		delete(hub.listeners, id)
	}
}

func (hub *eventHub) run(cli queue.Client) {
	for msg := range cli.Recv() {
		ev, ok := msg.GetData().(*types.Event)
		if !ok {
			rlog.Error("eventHub", "ty", types.GetEventName(int(msg.Ty)), "err", types.ErrInvalidParam)
			continue
		}
		hub.Publish(ev)
	}
}

// serveWs ws://host/ws?execer=rps, execer 为空时推送所有事件
func (hub *eventHub) serveWs(w http.ResponseWriter, r *http.Request) {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil || !checkIPWhitelist(ip) {
		http.Error(w, "address is not authorized", http.StatusForbidden)
		return
	}
	if !checkBasicAuth(r) {
		http.Error(w, types.ErrRPCAuth.Error(), http.StatusUnauthorized)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		rlog.Error("ws upgrade", "err", err)
		return
	}
	l := newWsListener(r.URL.Query().Get("execer"), conn)
	hub.RegisterListener(l)
	defer hub.UnregisterListener(l.id)
	rlog.Info("ws listener", "id", l.id, "execer", l.execer, "remote", r.RemoteAddr)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			rlog.Debug("ws read", "id", l.id, "err", err)
			return
		}
	}
}
