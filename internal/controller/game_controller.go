package controller

import (
	"github.com/benbeisheim/simplechess-backend/internal/model"
	"github.com/benbeisheim/simplechess-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

// Register mounts the game routes on r.
func (gc *GameController) Register(r fiber.Router) {
	r.Post("/matchmaking/join", gc.JoinMatchmaking)
	r.Post("/matchmaking/leave", gc.LeaveMatchmaking)
	r.Get("/matchmaking/status", gc.MatchmakingStatus)
	r.Post("/create", gc.CreateGame)
	r.Post("/join/:gameId", gc.JoinGame)
	r.Get("/:gameId", gc.GetGameState)
	r.Post("/:gameId/move", gc.MakeMove)
	r.Get("/:gameId/pieces", gc.GetPieces)
	r.Get("/:gameId/board", gc.GetBoard)
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

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	gameID, err := gc.gameService.CreateGame()
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

	color, err := gc.gameService.JoinGame(gameID, playerID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameState, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(gameState)
}

// MakeMove answers 200 for every move the board judged, with "moved"
// telling whether it was applied.
func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)

	var move model.WSMove
	if err := c.BodyParser(&move); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid move body",
		})
	}

	result, err := gc.gameService.HandleMove(gameID, playerID, move)
	if err != nil && !isMoveRejection(err) {
		return errorResponse(c, err)
	}

	state, stateErr := gc.gameService.GetGameState(gameID)
	if stateErr != nil {
		return errorResponse(c, stateErr)
	}

	if err != nil {
		return c.JSON(fiber.Map{
			"moved":  false,
			"reason": err.Error(),
			"state":  state,
		})
	}
	return c.JSON(fiber.Map{
		"moved":  true,
		"result": result,
		"state":  state,
	})
}

func (gc *GameController) GetPieces(c *fiber.Ctx) error {
	pieces, err := gc.gameService.GetPieces(c.Params("gameId"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"count":  len(pieces),
		"pieces": pieces,
	})
}

func (gc *GameController) GetBoard(c *fiber.Ctx) error {
	board, err := gc.gameService.RenderBoard(c.Params("gameId"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.SendString(board)
}

func (gc *GameController) JoinMatchmaking(c *fiber.Ctx) error {
	playerID := c.Locals("playerID").(string)

	if err := gc.gameService.JoinMatchmaking(playerID); err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"status": "queued",
	})
}

func (gc *GameController) LeaveMatchmaking(c *fiber.Ctx) error {
	playerID := c.Locals("playerID").(string)

	if !gc.gameService.LeaveMatchmaking(playerID) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "player not in queue",
		})
	}
	return c.JSON(fiber.Map{
		"status": "left",
	})
}

// MatchmakingStatus lets a player who queued over REST, without a
// /ws/matchmaking listener, poll for the game they were matched into.
func (gc *GameController) MatchmakingStatus(c *fiber.Ctx) error {
	playerID := c.Locals("playerID").(string)
	return c.JSON(gc.gameService.MatchmakingStatus(playerID))
}
