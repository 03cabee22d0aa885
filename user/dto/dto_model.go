package dto

import "time"

// UserSession is the redis-backed session attached to an issued token.
// A token is only accepted while its session is still present.
type UserSession struct {
	UserID    int64     `json:"user_id"`
	Token     string    `json:"token"`
	LoginTime time.Time `json:"login_time"`
}
