package ws

import (
	"context"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// clientConn pairs a live websocket with the opaque id everything else keys
// on. The mutex keeps frames whole when the reader goroutine and a room
// broadcast write concurrently.
type clientConn struct {
	id      string
	rawConn *websocket.Conn
	mu      sync.Mutex
}

func (c *clientConn) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), writeWait)
	defer cancel()
	return wsjson.Write(ctx, c.rawConn, v)
}

func (c *clientConn) close(code websocket.StatusCode, reason string) {
	_ = c.rawConn.Close(code, reason)
}
