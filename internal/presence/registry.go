// Package presence tracks which connection is in which room under which
// name. It is the only shared mutable state in the relay; a single mutex
// serializes every operation. Nothing here survives a restart.
package presence

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	ErrEmptyField    = errors.New("must not be empty")
	ErrUsernameTaken = errors.New("username is in use")
	ErrAlreadyJoined = errors.New("already joined a room")
)

// User ties a live connection to its room. Username and Room are immutable
// for the life of the connection; there is no rename or room switch.
type User struct {
	ConnID   string
	Username string
	Room     string
}

// RoomUser is the roster entry sent to clients.
type RoomUser struct {
	Username string `json:"username"`
}

// RoomInfo summarises an active room for the REST surface.
type RoomInfo struct {
	Name  string `json:"name"`
	Users int    `json:"users"`
}

type IRegistry interface {
	Add(connID, username, room string) (User, error)
	Remove(connID string) (User, bool)
	Get(connID string) (User, bool)
	UsersInRoom(room string) []RoomUser
	Rooms() []RoomInfo
}

type registry struct {
	mu    sync.Mutex
	users map[string]User
	order []string // connIDs in registration order, drives roster order
}

func NewRegistry() IRegistry {
	return &registry{users: make(map[string]User)}
}

// Normalize folds a username or room for comparisons: trimmed, lowercased.
// Stored values keep their original case after trimming.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Add registers a connection under a username and room. The registry is
// mutated only on success: an empty field, a rejoin, or a name collision
// (case-insensitive, room-scoped) leaves it untouched.
func (r *registry) Add(connID, username, room string) (User, error) {
	username = strings.TrimSpace(username)
	room = strings.TrimSpace(room)
	if username == "" {
		return User{}, fmt.Errorf("username %w", ErrEmptyField)
	}
	if room == "" {
		return User{}, fmt.Errorf("room %w", ErrEmptyField)
	}

	normUser := Normalize(username)
	normRoom := Normalize(room)

	r.mu.Lock()
	defer r.mu.Unlock()

	// A connection maps to at most one User; there is no rename or room
	// switch, so a second join from the same connection is rejected.
	if _, ok := r.users[connID]; ok {
		return User{}, ErrAlreadyJoined
	}

	for _, u := range r.users {
		if Normalize(u.Room) == normRoom && Normalize(u.Username) == normUser {
			return User{}, ErrUsernameTaken
		}
	}

	user := User{ConnID: connID, Username: username, Room: room}
	r.users[connID] = user
	r.order = append(r.order, connID)
	return user, nil
}

// Remove deletes and returns the record for connID. Removing an unknown
// connection is a silent no-op; disconnects must stay idempotent.
func (r *registry) Remove(connID string) (User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[connID]
	if !ok {
		return User{}, false
	}
	delete(r.users, connID)
	for i, id := range r.order {
		if id == connID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return user, true
}

func (r *registry) Get(connID string) (User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[connID]
	return user, ok
}

// UsersInRoom returns the roster for a room in registration order. The
// snapshot is taken under the lock, so callers never see a torn read.
func (r *registry) UsersInRoom(room string) []RoomUser {
	normRoom := Normalize(room)

	r.mu.Lock()
	defer r.mu.Unlock()

	roster := []RoomUser{}
	for _, id := range r.order {
		if u := r.users[id]; Normalize(u.Room) == normRoom {
			roster = append(roster, RoomUser{Username: u.Username})
		}
	}
	return roster
}

// Rooms lists the active rooms with occupant counts, ordered by first
// registration. A room exists only while at least one user references it.
func (r *registry) Rooms() []RoomInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	index := make(map[string]int)
	rooms := []RoomInfo{}
	for _, id := range r.order {
		u := r.users[id]
		key := Normalize(u.Room)
		if i, ok := index[key]; ok {
			rooms[i].Users++
			continue
		}
		index[key] = len(rooms)
		rooms = append(rooms, RoomInfo{Name: u.Room, Users: 1})
	}
	return rooms
}
