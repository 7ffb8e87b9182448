package stream

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// RegisterRoutes serves GET /tours/:id as a websocket streaming the log
// events of that tour. Messages sent by the client are ignored.
func RegisterRoutes(r fiber.Router, hub *Hub) {
	r.Get("/tours/:id", websocket.New(func(c *websocket.Conn) {
		client := hub.Register(c.Params("id"))
		defer hub.Unregister(client)

		done := make(chan struct{})
		go func() {
			defer close(done)
			for msg := range client.Send {
				if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
					return
				}
			}
		}()

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
		hub.Unregister(client)
		<-done
	}))
}
