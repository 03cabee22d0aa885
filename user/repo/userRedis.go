package repo

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/AdventureDe/PinLink/user/dto"

	"github.com/go-redis/redis/v8"
)

var ErrSessionNotFound = errors.New("session not found")

type UserRedis interface {
	SetSession(ctx context.Context, session *dto.UserSession) error
	GetSession(ctx context.Context, userID int64) (*dto.UserSession, error)
	DelSession(ctx context.Context, userID int64) error
}

type userRedis struct {
	rdb *redis.Client
}

func NewUserRedis(rdb *redis.Client) UserRedis {
	return &userRedis{rdb: rdb}
}

func (r *userRedis) SetSession(ctx context.Context, session *dto.UserSession) error {
	key := "session:" + strconv.FormatInt(session.UserID, 10)
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, key, data, 24*time.Hour).Err()
}

func (r *userRedis) GetSession(ctx context.Context, userID int64) (*dto.UserSession, error) {
	key := "session:" + strconv.FormatInt(userID, 10)
	res, err := r.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	var session dto.UserSession
	if err := json.Unmarshal([]byte(res), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *userRedis) DelSession(ctx context.Context, userID int64) error {
	key := "session:" + strconv.FormatInt(userID, 10)
	return r.rdb.Del(ctx, key).Err()
}
