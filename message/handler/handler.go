package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/AdventureDe/PinLink/message/service"
	userhandler "github.com/AdventureDe/PinLink/user/handler"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type MessageHandler struct {
	service *service.MessageService
	logger  *zap.Logger
}

func NewMessageHandler(s *service.MessageService, logger *zap.Logger) *MessageHandler {
	return &MessageHandler{
		service: s,
		logger:  logger,
	}
}

func (h *MessageHandler) SendMessage(c *gin.Context) {
	var input struct {
		ReceiverID int64  `json:"receiver_id"`
		Content    string `json:"content"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 1, "error": err.Error()})
		return
	}

	msg, err := h.service.Send(c.Request.Context(), userhandler.CurrentUserID(c), input.ReceiverID, input.Content)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"code": 0, "message": "send message ok", "detail": msg})
}

func (h *MessageHandler) GetConversations(c *gin.Context) {
	conversations, err := h.service.ListConversations(c.Request.Context(), userhandler.CurrentUserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "get conversations ok", "detail": conversations})
}

func (h *MessageHandler) GetConversation(c *gin.Context) {
	otherID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 1, "error": "invalid user id"})
		return
	}

	messages, err := h.service.GetConversation(c.Request.Context(), userhandler.CurrentUserID(c), otherID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "load messages ok", "detail": messages})
}

func (h *MessageHandler) MarkMessageRead(c *gin.Context) {
	messageID, err := strconv.ParseInt(c.Param("messageId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 1, "error": "invalid message id"})
		return
	}

	if err := h.service.MarkMessageRead(c.Request.Context(), userhandler.CurrentUserID(c), messageID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "mark read ok"})
}

func (h *MessageHandler) DeleteMessage(c *gin.Context) {
	messageID, err := strconv.ParseInt(c.Param("messageId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 1, "error": "invalid message id"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), userhandler.CurrentUserID(c), messageID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "delete message ok"})
}

// fail maps service errors onto the REST taxonomy: validation 400,
// authorization 403, missing referents 404, everything else a logged 500.
func (h *MessageHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"code": 1, "error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"code": 1, "error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"code": 1, "error": err.Error()})
	default:
		h.logger.Error("message request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"code": 1, "error": "server error"})
	}
}
