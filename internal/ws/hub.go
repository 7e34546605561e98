package ws

import (
	"sync"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"chatrelay/internal/presence"
)

// Hub tracks every live connection and keeps member sets per room. Room
// names are folded the same way the presence registry folds them, so
// "General" and "general" land in the same set. Hub implements the chat
// service's Transport port.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]*clientConn // connID -> conn, populated at accept time
	rooms map[string]*room       // normalized room name -> room
}

func NewHub() *Hub {
	return &Hub{
		conns: make(map[string]*clientConn),
		rooms: make(map[string]*room),
	}
}

// add makes the connection addressable before it joins any room, so acks
// and the welcome message can reach it.
func (h *Hub) add(c *clientConn) {
	h.mu.Lock()
	h.conns[c.id] = c
	h.mu.Unlock()
}

// drop forgets the connection entirely, including any room membership.
func (h *Hub) drop(connID string) {
	h.mu.Lock()
	delete(h.conns, connID)
	for name, r := range h.rooms {
		if r.remove(connID) {
			delete(h.rooms, name)
		}
	}
	h.mu.Unlock()
}

func (h *Hub) JoinRoom(roomName, connID string) {
	key := presence.Normalize(roomName)

	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.conns[connID]
	if !ok {
		return
	}
	r, ok := h.rooms[key]
	if !ok {
		r = newRoom()
		h.rooms[key] = r
	}
	r.add(c)
}

func (h *Hub) LeaveRoom(roomName, connID string) {
	key := presence.Normalize(roomName)

	h.mu.Lock()
	defer h.mu.Unlock()

	if r, ok := h.rooms[key]; ok && r.remove(connID) {
		delete(h.rooms, key)
	}
}

func (h *Hub) SendToConn(connID, event string, body any) {
	h.mu.RLock()
	c, ok := h.conns[connID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	if err := c.writeJSON(outEnvelope{Event: event, Body: body}); err != nil {
		h.dropFailed(c)
	}
}

func (h *Hub) SendToRoom(roomName, event string, body any) {
	h.broadcast(roomName, "", event, body)
}

func (h *Hub) SendToRoomExcept(roomName, exceptConnID, event string, body any) {
	h.broadcast(roomName, exceptConnID, event, body)
}

func (h *Hub) broadcast(roomName, exceptConnID, event string, body any) {
	h.mu.RLock()
	r, ok := h.rooms[presence.Normalize(roomName)]
	h.mu.RUnlock()
	if !ok {
		return
	}

	// Audience fixed up front; the I/O happens outside any lock.
	env := outEnvelope{Event: event, Body: body}
	var failed []*clientConn
	for _, c := range r.snapshot(exceptConnID) {
		if err := c.writeJSON(env); err != nil {
			failed = append(failed, c)
		}
	}
	for _, c := range failed {
		h.dropFailed(c)
	}
}

func (h *Hub) dropFailed(c *clientConn) {
	zap.L().Debug("ws.send_failed", zap.String("conn_id", c.id))
	h.drop(c.id)
	c.close(websocket.StatusAbnormalClosure, "write failed")
}
