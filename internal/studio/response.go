package studio

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Rana718/acctgen/internal/grid"
)

// Response is the envelope of every JSON API reply.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func JSON(c *fiber.Ctx, data any) error {
	return c.JSON(Response{Success: true, Data: data})
}

func JSONMessage(c *fiber.Ctx, message string) error {
	return c.JSON(Response{Success: true, Message: message})
}

func JSONError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(Response{Success: false, Message: message})
}

// gridError maps editor errors to HTTP statuses.
func gridError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, grid.ErrUnknownRole), errors.Is(err, grid.ErrUnknownColumn):
		return JSONError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, grid.ErrRowNotFound):
		return JSONError(c, fiber.StatusNotFound, err.Error())
	}
	return JSONError(c, fiber.StatusInternalServerError, err.Error())
}
