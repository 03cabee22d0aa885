package dto

import "time"

// UserInfo is the profile projection joined into message payloads.
type UserInfo struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}

// MessageDTO is a message with sender/receiver resolved to profiles.
// It is both the REST response body and the realtime receiveMessage payload.
type MessageDTO struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
	Sender    *UserInfo `json:"sender"`
	Receiver  *UserInfo `json:"receiver"`
}

// ConversationDTO is a derived per-counterpart summary; it is never stored.
type ConversationDTO struct {
	User         *UserInfo   `json:"user"`
	LastMessage  *MessageDTO `json:"last_message"`
	UnreadCount  int         `json:"unread_count"`
	LastActivity time.Time   `json:"last_activity"`
}
