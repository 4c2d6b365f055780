package ws

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// NewUpgrader builds the websocket upgrader with the configured origin
// policy. A "*" entry allows every origin.
func NewUpgrader(allowedOrigins []string) websocket.Upgrader {
	allowAll := false
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = struct{}{}
	}

	return websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if allowAll {
				return true
			}
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			_, ok := allowed[origin]
			return ok
		},
	}
}

// Handler upgrades HTTP requests to websocket connections and hands
// them to the hub
func Handler(hub *Hub, upgrader websocket.Upgrader, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Debug("websocket upgrade failed", zap.Error(err))
			return
		}

		client := newClient(hub, conn, logger)
		hub.register <- client

		go client.writePump()
		go client.readPump()
	}
}
