package realtime

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gobwas/ws"
	"go.uber.org/zap"
)

// Handler upgrades the request to a websocket and hands it to a session.
// Identity is not required at upgrade time; the client announces itself
// with a userOnline event.
func Handler(hub *Hub, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, _, _, err := ws.UpgradeHTTP(c.Request, c.Writer)
		if err != nil {
			logger.Warn("websocket upgrade failed", zap.Error(err))
			c.Status(http.StatusBadRequest)
			return
		}
		sess := NewSession(hub, newWSConn(conn), logger)
		go sess.Run()
	}
}
