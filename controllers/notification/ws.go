package controllers

import (
	"lms/middleware"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WebSocketUpgrade gates the upgrade request and authenticates the token
// query parameter. The browser WebSocket API cannot set an Authorization
// header, so the JWT rides in the query string.
func WebSocketUpgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	token := c.Query("token")
	if token == "" {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	userID, err := middleware.ParseJWT(token)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	c.Locals("wsUserID", userID)
	return c.Next()
}

// NotificationSocket holds the connection open so the server can push
// notifications as they happen. Inbound frames are read and discarded, the
// read loop just keeps the connection alive until the client goes away.
var NotificationSocket = websocket.New(func(conn *websocket.Conn) {
	userID := conn.Locals("wsUserID").(uint)

	utils.RegisterConn(userID, conn)
	defer func() {
		utils.UnregisterConn(userID, conn)
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
})
