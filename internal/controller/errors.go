package controller

import (
	"errors"

	"github.com/benbeisheim/simplechess-backend/internal/model"
	"github.com/benbeisheim/simplechess-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, model.ErrNotInGame):
		return fiber.StatusForbidden
	case errors.Is(err, model.ErrGameFull), errors.Is(err, model.ErrAlreadyQueue), errors.Is(err, service.ErrGameExists):
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

// isMoveRejection reports whether err is the board refusing a move, as
// opposed to a failure to reach the board at all.
func isMoveRejection(err error) bool {
	return errors.Is(err, model.ErrOutOfBounds) ||
		errors.Is(err, model.ErrNoPiece) ||
		errors.Is(err, model.ErrIllegalMove) ||
		errors.Is(err, model.ErrPathBlocked) ||
		errors.Is(err, model.ErrOwnPiece)
}
