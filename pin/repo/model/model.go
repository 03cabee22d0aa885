package model

import "time"

// Pin is an image post. The image bytes live in the external object store;
// the row only keeps the store's id and the serving URL.
type Pin struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	Title       string `gorm:"not null"`
	Description string `gorm:"type:text"`
	ImageID     string `gorm:"not null"`
	ImageURL    string `gorm:"not null"`
	OwnerID     int64  `gorm:"not null;index"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index"`
}

type PinComment struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	PinID     int64  `gorm:"not null;index"`
	UserID    int64  `gorm:"not null"`
	Name      string `gorm:"not null"`
	Comment   string `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

type PinLike struct {
	PinID  int64 `gorm:"primaryKey"`
	UserID int64 `gorm:"primaryKey"`
}
