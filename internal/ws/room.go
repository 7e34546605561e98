package ws

import "sync"

type room struct {
	mu      sync.RWMutex
	members map[string]*clientConn // connID -> conn
}

func newRoom() *room { return &room{members: map[string]*clientConn{}} }

func (r *room) add(c *clientConn) {
	r.mu.Lock()
	r.members[c.id] = c
	r.mu.Unlock()
}

// remove reports whether the room is empty afterwards.
func (r *room) remove(connID string) bool {
	r.mu.Lock()
	delete(r.members, connID)
	empty := len(r.members) == 0
	r.mu.Unlock()
	return empty
}

// snapshot fixes the audience before any write starts; sends happen outside
// the lock.
func (r *room) snapshot(exceptID string) []*clientConn {
	r.mu.RLock()
	conns := make([]*clientConn, 0, len(r.members))
	for id, c := range r.members {
		if id == exceptID {
			continue
		}
		conns = append(conns, c)
	}
	r.mu.RUnlock()
	return conns
}
