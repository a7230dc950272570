package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"libris/internal/services"
)

type StatsHandler struct {
	Stats *services.StatsService
}

func (h *StatsHandler) Summary(c *fiber.Ctx) error {
	s, err := h.Stats.Summary(time.Now())
	if err != nil {
		return fail(c, "stats.summary", err)
	}
	return c.JSON(s)
}
