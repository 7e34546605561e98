package roomhandler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chatrelay/internal/presence"
)

type Handler struct {
	registry presence.IRegistry
}

func New(registry presence.IRegistry) *Handler { return &Handler{registry: registry} }

func (h *Handler) Register(r gin.IRoutes) {
	r.GET("/health", h.health)
	r.GET("/rooms", h.list)
	r.GET("/rooms/:name", h.roster)
}

// @Summary		Health check
// @Description	Reports whether the relay is up.
// @Tags			Rooms
// @Success		200	{object}	HealthResponse
// @Router			/health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// @Summary		List active rooms
// @Description	Returns every room with at least one occupant, in first-join order.
// @Tags			Rooms
// @Success		200	{array}	presence.RoomInfo
// @Router			/rooms [get]
func (h *Handler) list(c *gin.Context) {
	c.JSON(http.StatusOK, h.registry.Rooms())
}

// @Summary		Room roster
// @Description	Returns the ordered username list for one room.
// @Tags			Rooms
// @Param			name	path		string	true	"Room name"	default(general)
// @Success		200		{object}	RosterResponse
// @Failure		404		{object}	ErrorResponse
// @Router			/rooms/{name} [get]
func (h *Handler) roster(c *gin.Context) {
	name := c.Param("name")
	users := h.registry.UsersInRoom(name)
	// A room exists only while someone is in it.
	if len(users) == 0 {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "room not found"})
		return
	}
	c.JSON(http.StatusOK, RosterResponse{Room: name, Users: users})
}
