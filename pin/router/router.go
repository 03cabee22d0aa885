package router

import (
	"github.com/AdventureDe/PinLink/pin/handler"

	"github.com/gin-gonic/gin"
)

func SetPinRouter(r *gin.Engine, p *handler.PinHandler, auth gin.HandlerFunc) {
	g := r.Group("/api/pin", auth)
	g.POST("/new", p.CreatePin)
	g.GET("/all", p.GetAllPins)
	g.GET("/:id", p.GetPin)
	g.PUT("/:id", p.UpdatePin)
	g.DELETE("/:id", p.DeletePin)
	g.POST("/comment/:id", p.CommentOnPin)
	g.DELETE("/comment/:id", p.DeleteComment)
	g.POST("/like/:id", p.LikePin)
	g.GET("/likes/:id", p.GetLikes)
}
