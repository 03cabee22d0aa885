package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/gin-contrib/cors"
)

type Config struct {
	Port          int
	Env           string
	PostgresDSN   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	JWTSecret     string
	CORSOrigins   []string
}

// Load reads configuration from environment variables, falling back to
// local-development defaults.
func Load() *Config {
	return &Config{
		Port:          getenvInt("PORT", 10010),
		Env:           getenv("APP_ENV", "development"),
		PostgresDSN:   getenv("POSTGRES_DSN", "host=localhost user=pinlink password=pinlink dbname=pinlink sslmode=disable"),
		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       getenvInt("REDIS_DB", 0),
		JWTSecret:     getenv("JWT_SECRET", "qwertyuiop"),
		CORSOrigins:   strings.Split(getenv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173"), ","),
	}
}

// Addr 返回监听地址
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// CorsConfig builds the CORS policy for the REST surface.
func CorsConfig(c *Config) cors.Config {
	return cors.Config{
		AllowOrigins:     c.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"*"},
		AllowCredentials: true,
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
