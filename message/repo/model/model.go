package model

import "time"

// Message is the durable direct-message record. Read-state lives on the
// row itself: a message is either unread (default) or read, flipped once
// by the receiver's fetch or explicit mark-as-read.
type Message struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	SenderID   int64     `gorm:"not null;index:idx_messages_sender_receiver"`
	ReceiverID int64     `gorm:"not null;index:idx_messages_sender_receiver"`
	Content    string    `gorm:"type:text;not null"`
	Read       bool      `gorm:"not null;default:false"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index"`
}
