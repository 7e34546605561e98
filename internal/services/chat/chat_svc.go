// Package chat orchestrates the room lifecycle: join, message fan-out,
// location sharing, and disconnect. It owns no connections itself; the
// transport is driven through the Transport port.
package chat

import (
	"errors"
	"strconv"

	"chatrelay/internal/message"
	"chatrelay/internal/presence"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

// Client-facing event names. The transport wraps each payload in its
// envelope under one of these.
const (
	EventMessage         = "message"
	EventSystemMessage   = "systemMessage"
	EventLocationMessage = "locationMessage"
	EventRoomData        = "roomData"
)

var (
	// ErrProfanity is a client-visible contract string, hence the casing.
	ErrProfanity = errors.New("Profanity is not allowed")
	ErrNotJoined = errors.New("you must join a room first")
)

// Transport is the connection-facing port the broadcaster drives. The ws
// package implements it; tests substitute a recorder.
type Transport interface {
	JoinRoom(room, connID string)
	LeaveRoom(room, connID string)
	SendToConn(connID, event string, body any)
	SendToRoom(room, event string, body any)
	SendToRoomExcept(room, exceptConnID, event string, body any)
}

// RoomData refreshes the client roster sidebar.
type RoomData struct {
	Room  string              `json:"room"`
	Users []presence.RoomUser `json:"users"`
}

type IChatService interface {
	Join(connID, username, room string) error
	SendMessage(connID, text string) error
	SendLocation(connID string, latitude, longitude float64) error
	Disconnect(connID string)
}

type chatService struct {
	registry  presence.IRegistry
	transport Transport
	isProfane func(string) bool
	sanitizer *bluemonday.Policy
}

func NewChatService(registry presence.IRegistry, transport Transport, isProfane func(string) bool) IChatService {
	return &chatService{
		registry:  registry,
		transport: transport,
		isProfane: isProfane,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// Join registers the connection and announces it. On a registry failure
// nothing is broadcast and the error goes back to the caller; the transport
// decides whether to keep the connection.
func (s *chatService) Join(connID, username, room string) error {
	user, err := s.registry.Add(connID, username, room)
	if err != nil {
		return err
	}

	s.transport.JoinRoom(user.Room, connID)
	s.transport.SendToConn(connID, EventSystemMessage, message.NewSystem("Welcome!"))
	s.transport.SendToRoomExcept(user.Room, connID, EventSystemMessage,
		message.NewSystem(user.Username+" has joined!"))
	s.transport.SendToRoom(user.Room, EventRoomData, RoomData{
		Room:  user.Room,
		Users: s.registry.UsersInRoom(user.Room),
	})

	zap.L().Info("user_joined",
		zap.String("room", user.Room), zap.String("username", user.Username))
	return nil
}

// SendMessage broadcasts a chat message to the sender's whole room, sender
// included. A connection that never joined gets an explicit error instead
// of an unguarded lookup.
func (s *chatService) SendMessage(connID, text string) error {
	user, ok := s.registry.Get(connID)
	if !ok {
		return ErrNotJoined
	}
	if s.isProfane(text) {
		return ErrProfanity
	}

	s.transport.SendToRoom(user.Room, EventMessage,
		message.NewChat(user.Username, s.sanitizer.Sanitize(text)))
	return nil
}

// SendLocation broadcasts a map link for the given coordinates to the
// sender's whole room.
func (s *chatService) SendLocation(connID string, latitude, longitude float64) error {
	user, ok := s.registry.Get(connID)
	if !ok {
		return ErrNotJoined
	}

	url := "https://google.com/maps?q=" +
		strconv.FormatFloat(latitude, 'f', -1, 64) + "," +
		strconv.FormatFloat(longitude, 'f', -1, 64)
	s.transport.SendToRoom(user.Room, EventLocationMessage,
		message.NewLocation(user.Username, url))
	return nil
}

// Disconnect removes the connection from its room and tells the remaining
// members. Safe to call for connections that never joined or were already
// removed; those cases broadcast nothing.
func (s *chatService) Disconnect(connID string) {
	user, ok := s.registry.Remove(connID)
	if !ok {
		return
	}

	s.transport.LeaveRoom(user.Room, connID)
	s.transport.SendToRoom(user.Room, EventSystemMessage,
		message.NewSystem(user.Username+" has left the room."))
	s.transport.SendToRoom(user.Room, EventRoomData, RoomData{
		Room:  user.Room,
		Users: s.registry.UsersInRoom(user.Room),
	})

	zap.L().Info("user_left",
		zap.String("room", user.Room), zap.String("username", user.Username))
}
