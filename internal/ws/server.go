package ws

import (
	"context"
	"errors"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"chatrelay/internal/presence"
	"chatrelay/internal/services/chat"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 3 * time.Second
	readLimit  = 4096

	dispatchTimeout = 1900 * time.Millisecond
)

type WsServer struct {
	hub      *Hub
	router   *Router
	chatSvc  chat.IChatService
	msgRate  rate.Limit
	msgBurst int
}

func NewWsServer(h *Hub, chatSvc chat.IChatService, msgRate float64, msgBurst int) *WsServer {
	srv := &WsServer{
		hub:      h,
		router:   NewRouter(),
		chatSvc:  chatSvc,
		msgRate:  rate.Limit(msgRate),
		msgBurst: msgBurst,
	}
	srv.registerHandlers() // ← all WS endpoints configured here
	return srv
}

// ---------------------------------------------------------------------------
//  Public: Gin entry-point
// ---------------------------------------------------------------------------

func (s *WsServer) Handle(ginCtx *gin.Context) {
	rawConn, err := websocket.Accept(
		ginCtx.Writer, ginCtx.Request,
		&websocket.AcceptOptions{InsecureSkipVerify: true}, // dev-only
	)
	if err != nil {
		zap.L().Warn("ws.accept", zap.Error(err))
		return
	}
	rawConn.SetReadLimit(readLimit)

	// The transport identity for this connection. The session starts
	// unjoined; the hub only needs to be able to address it for acks.
	conn := &clientConn{id: uuid.NewString(), rawConn: rawConn}
	s.hub.add(conn)

	go s.reader(conn)
	go s.pinger(conn)
}

// ---------------------------------------------------------------------------
//  Private helpers
// ---------------------------------------------------------------------------

func (s *WsServer) registerHandlers() {
	// 🔹 join -----------------------------------------------------------------
	Register(
		s.router,
		"join",
		func(_ context.Context, cc *ConnContext, req JoinRequest) (AckBody, error) {
			return AckBody{}, s.chatSvc.Join(cc.ConnID, req.Username, req.Room)
		},
	)

	// 🔹 sendMessage (body is a bare JSON string) -----------------------------
	Register(
		s.router,
		"sendMessage",
		func(_ context.Context, cc *ConnContext, text string) (AckBody, error) {
			return AckBody{}, s.chatSvc.SendMessage(cc.ConnID, text)
		},
	)

	// 🔹 sendLocation ---------------------------------------------------------
	Register(
		s.router,
		"sendLocation",
		func(_ context.Context, cc *ConnContext, req SendLocationRequest) (AckBody, error) {
			return AckBody{}, s.chatSvc.SendLocation(cc.ConnID, req.Latitude, req.Longitude)
		},
	)
}

func (s *WsServer) reader(conn *clientConn) {
	defer func() {
		// Disconnect first so the leave notice reaches the remaining room
		// members before the hub forgets this connection.
		s.chatSvc.Disconnect(conn.id)
		s.hub.drop(conn.id)
		conn.close(websocket.StatusNormalClosure, "")
	}()

	cc := &ConnContext{ConnID: conn.id, Server: s}
	limiter := rate.NewLimiter(s.msgRate, s.msgBurst)

	for {
		var env Envelope
		if err := wsjson.Read(context.Background(), conn.rawConn, &env); err != nil {
			return // client closed or errored
		}

		if !limiter.Allow() {
			_ = conn.writeJSON(outEnvelope{
				Event: env.Event + "-ack",
				Body:  ErrorBody{Error: "rate limit exceeded"},
			})
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		res, err := s.router.dispatch(ctx, cc, env)
		cancel()

		// ---- error -> {"event":"<evt>-ack","body":{"error":...}} ----
		if err != nil {
			_ = conn.writeJSON(outEnvelope{
				Event: env.Event + "-ack",
				Body:  ErrorBody{Error: err.Error()},
			})
			// A rejected duplicate name is kicked so the name frees up
			// immediately; the client redirects itself on the error ack.
			if errors.Is(err, presence.ErrUsernameTaken) {
				conn.close(websocket.StatusPolicyViolation, "duplicate username")
				return
			}
			continue
		}

		// ---- success -> {"event":"<evt>-ack","body":{...}} ----------
		reply := outEnvelope{Event: env.Event + "-ack"}
		if res != nil {
			reply.Body = res
		}
		_ = conn.writeJSON(reply)
	}
}

func (s *WsServer) pinger(conn *clientConn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), writeWait)
		err := conn.rawConn.Ping(ctx)
		cancel()
		if err != nil {
			_ = conn.rawConn.Close(websocket.StatusNormalClosure, "ping timeout")
			return
		}
	}
}
