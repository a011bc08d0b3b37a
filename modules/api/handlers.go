package api

import (
	"errors"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jstihl01/pokervitoria/modules/room"
)

// setupRoutes configures all HTTP routes.
func (m *APIModule) setupRoutes(app *fiber.App) {
	// Health check and metrics
	app.Get("/health", m.healthHandler)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// WebSocket endpoint
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(m.handleWebSocket))

	// REST API v1
	api := app.Group("/api/v1")

	api.Get("/rooms", m.listRooms)
	api.Post("/rooms", m.createRoom)
	api.Get("/rooms/:id", m.getRoom)
	api.Delete("/rooms/:id", m.deleteRoom)
	api.Get("/rooms/:id/players", m.listPlayers)
	api.Post("/rooms/:id/players", m.addPlayer)
}

// healthHandler handles GET /health.
func (m *APIModule) healthHandler(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status:  "healthy",
		Details: m.healthDetails(),
	})
}

// listRooms handles GET /api/v1/rooms.
func (m *APIModule) listRooms(c *fiber.Ctx) error {
	rooms, err := m.roomPort.ListRooms(c.UserContext())
	if err != nil {
		return m.sendError(c, err)
	}

	response := RoomListResponse{
		Rooms: make([]RoomSummaryResponse, 0, len(rooms)),
		Total: len(rooms),
	}
	for _, r := range rooms {
		response.Rooms = append(response.Rooms, toSummaryResponse(r))
	}
	return c.JSON(response)
}

// createRoom handles POST /api/v1/rooms.
func (m *APIModule) createRoom(c *fiber.Ctx) error {
	var req CreateRoomRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidRequest(c)
	}

	r, err := m.roomPort.CreateRoom(c.UserContext(), req.Name)
	if err != nil {
		return m.sendError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toRoomResponse(r))
}

// getRoom handles GET /api/v1/rooms/:id.
func (m *APIModule) getRoom(c *fiber.Ctx) error {
	r, err := m.roomPort.GetRoom(c.UserContext(), c.Params("id"))
	if err != nil {
		return m.sendError(c, err)
	}
	return c.JSON(toRoomResponse(r))
}

// deleteRoom handles DELETE /api/v1/rooms/:id.
func (m *APIModule) deleteRoom(c *fiber.Ctx) error {
	if err := m.roomPort.DeleteRoom(c.UserContext(), c.Params("id")); err != nil {
		return m.sendError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// addPlayer handles POST /api/v1/rooms/:id/players.
// Players added here have no realtime connection; nothing is broadcast.
func (m *APIModule) addPlayer(c *fiber.Ctx) error {
	var req AddPlayerRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidRequest(c)
	}

	summary, player, err := m.roomPort.AddPlayer(c.UserContext(), c.Params("id"), req.Name)
	if err != nil {
		return m.sendError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(AddPlayerResponse{
		Room:   toSummaryResponse(summary),
		Player: toPlayerResponse(player),
	})
}

// listPlayers handles GET /api/v1/rooms/:id/players.
func (m *APIModule) listPlayers(c *fiber.Ctx) error {
	summary, players, err := m.roomPort.ListPlayers(c.UserContext(), c.Params("id"))
	if err != nil {
		return m.sendError(c, err)
	}
	return c.JSON(PlayerListResponse{
		Room:    toSummaryResponse(summary),
		Players: toPlayerResponses(players),
	})
}

func invalidRequest(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "invalid_request",
		Message: "Invalid request body",
	})
}

// sendError maps membership errors to HTTP responses.
func (m *APIModule) sendError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, room.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   room.CodeValidation,
			Message: err.Error(),
		})
	case errors.Is(err, room.ErrRoomNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   room.CodeRoomNotFound,
			Message: "Room not found",
		})
	case errors.Is(err, room.ErrNameTaken):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Error:   room.CodeNameTaken,
			Message: "Name taken",
		})
	default:
		m.logger.Error("Room service call failed", "path", c.Path(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   room.CodeInternal,
			Message: "Internal Server Error",
		})
	}
}
