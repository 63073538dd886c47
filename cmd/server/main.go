package main

import (
	"log"
	"os"

	"github.com/benbeisheim/dame-backend/internal/config"
	"github.com/benbeisheim/dame-backend/internal/controller"
	"github.com/benbeisheim/dame-backend/internal/middleware"
	"github.com/benbeisheim/dame-backend/internal/model"
	"github.com/benbeisheim/dame-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
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
	level, _ := cfg.Level()
	fiberlog.SetLevel(level)

	app := fiber.New(fiber.Config{
		AppName: "dame-backend",
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods:     "GET, POST, OPTIONS",
		AllowCredentials: true,
	}))

	// Initialize services
	gameManager := service.NewGameManager()
	gameService := service.NewGameService(gameManager, model.Rules{
		InsufficientMaterialDraw: cfg.InsufficientMaterialDraw,
	})

	// Initialize controllers
	gameController := controller.NewGameController(gameService)
	wsController := controller.NewWebSocketController(gameService)

	// Set up WebSocket routes
	app.Use("/ws", middleware.EnsurePlayerID())
	gameExists := func(gameID string) error {
		_, err := gameService.GetGame(gameID)
		return err
	}
	app.Get("/ws/game/:gameId", middleware.WebSocketUpgrade(gameExists), websocket.New(wsController.HandleConnection, websocket.Config{
		ReadBufferSize:  cfg.WSReadBuffer,
		WriteBufferSize: cfg.WSWriteBuffer,
		Origins:         cfg.Origins(),
	}))

	// Set up REST routes
	api := app.Group("/api", middleware.EnsurePlayerID())

	gameRoutes := api.Group("/game")
	gameRoutes.Post("/create", gameController.CreateGame)
	gameRoutes.Post("/join/:gameId", gameController.JoinGame)
	gameRoutes.Get("/:gameId", gameController.GetGameState)
	gameRoutes.Get("/:gameId/moves/:row/:col", gameController.GetValidMoves)
	gameRoutes.Post("/:gameId/move", gameController.MakeMove)

	fiberlog.Infof("listening on %s", cfg.Addr)
	log.Fatal(app.Listen(cfg.Addr))
}
