package model

import "time"

// User is the profile record joined into message payloads. Credential
// management lives in an external service; this table only carries the
// projection the messaging core needs.
type User struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"not null"`
	Email     string `gorm:"uniqueIndex;not null"`
	Avatar    string
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
