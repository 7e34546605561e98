package roomhandler

import "chatrelay/internal/presence"

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
} // @name HealthResponse

type RosterResponse struct {
	Room  string              `json:"room"  example:"general"`
	Users []presence.RoomUser `json:"users"`
} // @name RosterResponse

type ErrorResponse struct {
	Error string `json:"error"`
} // @name ErrorResponse
