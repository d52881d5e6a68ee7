package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/benbeisheim/simplechess-backend/internal/config"
	"github.com/benbeisheim/simplechess-backend/internal/controller"
	"github.com/benbeisheim/simplechess-backend/internal/middleware"
	"github.com/benbeisheim/simplechess-backend/internal/service"
	"github.com/benbeisheim/simplechess-backend/internal/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
)

func main() {
	cfg, err := config.Load(os.Args[1:], os.Getenv)
	if err != nil {
		log.Fatal(err)
	}

	store, err := storage.Open(cfg.DataDir)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()
	if cfg.DataDir == "" {
		log.Info("no data dir configured, games are kept in memory")
	}

	// Initialize services
	gameManager := service.NewGameManager(store, cfg.MatchmakingInterval)
	gameService := service.NewGameService(gameManager)
	defer gameService.Close()

	// Initialize controllers
	gameController := controller.NewGameController(gameService)
	wsController := controller.NewWebSocketController(gameService)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods:     "GET, POST, OPTIONS",
		AllowCredentials: cfg.AllowOrigins != "*",
	}))

	// WebSocket routes
	wsConfig := websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	app.Use("/ws", middleware.EnsurePlayerID(), middleware.WebSocketUpgrade())
	app.Get("/ws/game/:gameId", websocket.New(wsController.HandleConnection, wsConfig))
	app.Get("/ws/matchmaking", websocket.New(wsController.HandleMatchmaking, wsConfig))

	// REST routes
	api := app.Group("/api", middleware.EnsurePlayerID())
	gameController.Register(api.Group("/game"))

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		log.Info("shutting down")
		if err := app.Shutdown(); err != nil {
			log.Errorf("shutdown: %v", err)
		}
	}()

	log.Infof("listening on %s", cfg.Addr)
	if err := app.Listen(cfg.Addr); err != nil {
		log.Errorf("listen: %v", err)
	}
}
