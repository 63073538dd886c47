package controller

import (
	"errors"

	"github.com/benbeisheim/dame-backend/internal/model"
	"github.com/benbeisheim/dame-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	var req service.CreateGameRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
	}

	gameID, err := gc.gameService.CreateGame(req)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)

	side, err := gc.gameService.JoinGame(gameID, playerID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Game joined",
		"side":    side,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameState, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(gameState)
}

func (gc *GameController) GetValidMoves(c *fiber.Ctx) error {
	row, errRow := c.ParamsInt("row")
	col, errCol := c.ParamsInt("col")
	if errRow != nil || errCol != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "row and col must be integers",
		})
	}

	moves, err := gc.gameService.ValidMoves(c.Params("gameId"), model.Position{Row: row, Col: col})
	if err != nil {
		return errorResponse(c, err)
	}
	if moves == nil {
		moves = []model.Move{}
	}
	return c.JSON(fiber.Map{
		"moves": moves,
	})
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)

	var req model.MoveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid move",
		})
	}
	if err := gc.gameService.HandleMove(gameID, playerID, req); err != nil {
		return errorResponse(c, err)
	}

	gameState, err := gc.gameService.GetGameState(gameID)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(gameState)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, model.ErrGameFull), errors.Is(err, model.ErrGameOver):
		return fiber.StatusConflict
	case errors.Is(err, model.ErrNotYourTurn), errors.Is(err, model.ErrNotAPlayer):
		return fiber.StatusForbidden
	case errors.Is(err, model.ErrIllegalMove), errors.Is(err, model.ErrInvalidLayout):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

func errorResponse(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Errorf("%s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
