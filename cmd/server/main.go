package main

import (
	"log"

	"github.com/AdventureDe/PinLink/config"
	messagehandler "github.com/AdventureDe/PinLink/message/handler"
	messagerepo "github.com/AdventureDe/PinLink/message/repo"
	messagerouter "github.com/AdventureDe/PinLink/message/router"
	messageservice "github.com/AdventureDe/PinLink/message/service"
	pinhandler "github.com/AdventureDe/PinLink/pin/handler"
	pinrepo "github.com/AdventureDe/PinLink/pin/repo"
	pinrouter "github.com/AdventureDe/PinLink/pin/router"
	pinservice "github.com/AdventureDe/PinLink/pin/service"
	"github.com/AdventureDe/PinLink/realtime"
	userhandler "github.com/AdventureDe/PinLink/user/handler"
	userrepo "github.com/AdventureDe/PinLink/user/repo"
	userrouter "github.com/AdventureDe/PinLink/user/router"
	userservice "github.com/AdventureDe/PinLink/user/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Missing .env is fine; the environment may already be set.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := userrepo.InitDB(cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("Fail to initialize Database:%v", err)
	}
	defer userrepo.CloseDB()
	if err := messagerepo.AutoMigrate(db); err != nil {
		log.Fatalf("Fail to migrate message models:%v", err)
	}
	if err := pinrepo.AutoMigrate(db); err != nil {
		log.Fatalf("Fail to migrate pin models:%v", err)
	}

	rdb, err := userrepo.InitRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatalf("Fail to initialize Redis:%v", err)
	}
	defer userrepo.CloseRedis()

	var logger *zap.Logger
	if cfg.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(cors.New(config.CorsConfig(cfg)))

	// One hub for the whole process: REST mirrors durable writes through it,
	// the websocket endpoint feeds client events into it.
	hub := realtime.NewHub(logger)

	users := userrepo.NewUserRepo(db)
	sessions := userrepo.NewUserRedis(rdb)
	userService := userservice.NewUserService(users, sessions, cfg.JWTSecret)
	auth := userhandler.AuthRequired(userService)
	userrouter.SetUserRouter(r, userhandler.NewUserHandler(userService), auth)

	messageRepo := messagerepo.NewMessageRepo(db)
	messageService := messageservice.NewMessageService(messageRepo, users, hub, logger)
	messagerouter.SetMessageRouter(r, messagehandler.NewMessageHandler(messageService, logger), auth)

	pinRepo := pinrepo.NewPinRepo(db)
	pinService := pinservice.NewPinService(pinRepo, users, pinservice.UnmanagedImageStore{Logger: logger}, logger)
	pinrouter.SetPinRouter(r, pinhandler.NewPinHandler(pinService, logger), auth)

	r.GET("/ws", realtime.Handler(hub, logger))

	log.Printf("PinLink server started at http://localhost:%d", cfg.Port)
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
