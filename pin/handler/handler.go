package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/AdventureDe/PinLink/pin/service"
	userhandler "github.com/AdventureDe/PinLink/user/handler"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PinHandler struct {
	service *service.PinService
	logger  *zap.Logger
}

func NewPinHandler(s *service.PinService, logger *zap.Logger) *PinHandler {
	return &PinHandler{
		service: s,
		logger:  logger,
	}
}

func (h *PinHandler) CreatePin(c *gin.Context) {
	var input struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		ImageID     string `json:"image_id"`
		ImageURL    string `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 1, "error": err.Error()})
		return
	}

	pin, err := h.service.Create(c.Request.Context(), userhandler.CurrentUserID(c),
		input.Title, input.Description, input.ImageID, input.ImageURL)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"code": 0, "message": "pin created", "detail": pin})
}

func (h *PinHandler) GetAllPins(c *gin.Context) {
	pins, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "detail": pins})
}

func (h *PinHandler) GetPin(c *gin.Context) {
	pinID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 1, "error": "invalid pin id"})
		return
	}
	pin, comments, err := h.service.Get(c.Request.Context(), pinID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "detail": gin.H{"pin": pin, "comments": comments}})
}

func (h *PinHandler) UpdatePin(c *gin.Context) {
	pinID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 1, "error": "invalid pin id"})
		return
	}
	var input struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 1, "error": err.Error()})
		return
	}

	if err := h.service.Update(c.Request.Context(), userhandler.CurrentUserID(c), pinID,
		input.Title, input.Description); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "pin updated"})
}

func (h *PinHandler) DeletePin(c *gin.Context) {
	pinID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 1, "error": "invalid pin id"})
		return
	}
	if err := h.service.Delete(c.Request.Context(), userhandler.CurrentUserID(c), pinID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "pin deleted"})
}

func (h *PinHandler) CommentOnPin(c *gin.Context) {
	pinID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 1, "error": "invalid pin id"})
		return
	}
	var input struct {
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 1, "error": err.Error()})
		return
	}

	if err := h.service.Comment(c.Request.Context(), userhandler.CurrentUserID(c), pinID, input.Comment); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "comment added"})
}

func (h *PinHandler) DeleteComment(c *gin.Context) {
	commentID, err := strconv.ParseInt(c.Query("commentId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 1, "error": "invalid comment id"})
		return
	}
	if err := h.service.DeleteComment(c.Request.Context(), userhandler.CurrentUserID(c), commentID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "comment deleted"})
}

func (h *PinHandler) LikePin(c *gin.Context) {
	pinID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 1, "error": "invalid pin id"})
		return
	}
	liked, err := h.service.ToggleLike(c.Request.Context(), userhandler.CurrentUserID(c), pinID)
	if err != nil {
		h.fail(c, err)
		return
	}
	msg := "pin unliked"
	if liked {
		msg = "pin liked"
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": msg, "liked": liked})
}

func (h *PinHandler) GetLikes(c *gin.Context) {
	pinID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 1, "error": "invalid pin id"})
		return
	}
	users, err := h.service.ListLikers(c.Request.Context(), pinID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "detail": users})
}

func (h *PinHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"code": 1, "error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"code": 1, "error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"code": 1, "error": err.Error()})
	default:
		h.logger.Error("pin request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"code": 1, "error": "server error"})
	}
}
