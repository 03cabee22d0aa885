package router

import (
	"github.com/AdventureDe/PinLink/message/handler"

	"github.com/gin-gonic/gin"
)

func SetMessageRouter(r *gin.Engine, m *handler.MessageHandler, auth gin.HandlerFunc) {
	g := r.Group("/api/message", auth)
	g.POST("/send", m.SendMessage)
	g.GET("/conversations", m.GetConversations)
	g.GET("/:userId", m.GetConversation)
	g.PUT("/read/:messageId", m.MarkMessageRead)
	g.DELETE("/:messageId", m.DeleteMessage)
}
