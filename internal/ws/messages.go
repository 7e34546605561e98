package ws

import "encoding/json"

// Envelope wraps every inbound WS frame.
type Envelope struct {
	Event string          `json:"event"`          // e.g. "join"
	Body  json.RawMessage `json:"body,omitempty"` // arbitrary JSON value
}

// outEnvelope wraps every server-to-client frame.
type outEnvelope struct {
	Event string `json:"event"`
	Body  any    `json:"body,omitempty"`
}

// ──────────────────────────── Request / Response DTOs ─────────────────────────

// JoinRequest is the body for "join".
type JoinRequest struct {
	Username string `json:"username"`
	Room     string `json:"room"`
}

// SendLocationRequest is the body for "sendLocation".
// The body for "sendMessage" is a bare JSON string and needs no struct.
type SendLocationRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Empty ACK body.
type AckBody struct{}

// ErrorBody rides in the ack of a failed request.
type ErrorBody struct {
	Error string `json:"error"`
}
