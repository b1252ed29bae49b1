package controllers

import (
	"eduglobal_go/middleware"
	"eduglobal_go/services/websocket"

	"github.com/gofiber/fiber/v2"
	fiberws "github.com/gofiber/websocket/v2"
)

// WebSocketController upgrades authenticated dashboard sessions and reports
// connection stats.
type WebSocketController struct {
	hub *websocket.Hub
}

func NewWebSocketController(hub *websocket.Hub) *WebSocketController {
	return &WebSocketController{hub: hub}
}

// UpgradeGuard rejects non-websocket requests before the upgrade handler
func (wc *WebSocketController) UpgradeGuard(c *fiber.Ctx) error {
	if fiberws.IsWebSocketUpgrade(c) {
		user, err := middleware.GetCurrentUser(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "User not authenticated",
			})
		}
		c.Locals("ws_user_id", user.ID)
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Handler runs the websocket session for one dashboard connection
func (wc *WebSocketController) Handler() fiber.Handler {
	return fiberws.New(func(conn *fiberws.Conn) {
		userID, _ := conn.Locals("ws_user_id").(uint)
		wc.hub.ServeFiberWS(conn, userID)
	})
}

// Stats returns the number of connected dashboard clients
func (wc *WebSocketController) Stats(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"connected_clients": wc.hub.ClientCount(),
	})
}
