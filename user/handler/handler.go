package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/AdventureDe/PinLink/user/repo"
	"github.com/AdventureDe/PinLink/user/service"

	"github.com/gin-gonic/gin"
)

const userIDKey = "userID"

// UserHandler 处理用户相关的 HTTP 请求
type UserHandler struct {
	service *service.UserService
}

func NewUserHandler(s *service.UserService) *UserHandler {
	return &UserHandler{service: s}
}

// AuthRequired resolves the authenticated requester from a Bearer token
// (or the "token" cookie) and stores the user id in the gin context.
func AuthRequired(s *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": 1, "error": "missing token"})
			return
		}
		userID, err := s.Authenticate(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": 1, "error": "unauthorized"})
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// CurrentUserID returns the requester set by AuthRequired.
func CurrentUserID(c *gin.Context) int64 {
	v, ok := c.Get(userIDKey)
	if !ok {
		return 0
	}
	userID, _ := v.(int64)
	return userID
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := c.Cookie("token"); err == nil {
		return cookie
	}
	return ""
}

func (h *UserHandler) GetMe(c *gin.Context) {
	user, err := h.service.GetUserInfo(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 1, "error": "failed to load profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "detail": user})
}

func (h *UserHandler) GetUserInfo(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 1, "error": "invalid user id"})
		return
	}
	user, err := h.service.GetUserInfo(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": 1, "error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"code": 1, "error": "failed to load profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "detail": user})
}

func (h *UserHandler) Logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context(), CurrentUserID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 1, "error": "failed to logout"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "logout ok"})
}
