package repo

import (
	"context"
	"log"

	"github.com/go-redis/redis/v8"
)

var RDB *redis.Client

// InitRedis 初始化 Redis 客户端
func InitRedis(addr, password string, db int) (*redis.Client, error) {
	RDB = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if _, err := RDB.Ping(context.Background()).Result(); err != nil {
		return nil, err
	}
	return RDB, nil
}

// CloseRedis 关闭 Redis 客户端连接
func CloseRedis() {
	if RDB == nil {
		return
	}
	if err := RDB.Close(); err != nil {
		log.Println("failed to close redis connection:", err)
	}
}
