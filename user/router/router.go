package router

import (
	"github.com/AdventureDe/PinLink/user/handler"

	"github.com/gin-gonic/gin"
)

func SetUserRouter(r *gin.Engine, u *handler.UserHandler, auth gin.HandlerFunc) {
	g := r.Group("/api/user", auth)
	g.GET("/me", u.GetMe)
	g.GET("/:id", u.GetUserInfo)
	g.POST("/logout", u.Logout)
}
