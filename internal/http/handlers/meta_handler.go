package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"libris/internal/services"
)

type MetaHandler struct {
	Stats *services.StatsService
}

// Dashboard renders a small ops page with the aggregate counters.
func (h *MetaHandler) Dashboard(c *fiber.Ctx) error {
	s, err := h.Stats.Summary(time.Now())
	if err != nil {
		return fail(c, "dashboard", err)
	}
	return c.Render("dashboard", fiber.Map{"Stats": s})
}

// Schema lists collections and their fields, useful for tooling.
func (h *MetaHandler) Schema(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"collections": []fiber.Map{
			{"name": "books", "fields": []string{
				"id", "title", "author", "isbn", "category", "description",
				"total_copies", "copies_available", "tags", "created_at", "updated_at",
			}},
			{"name": "members", "fields": []string{
				"id", "name", "email", "phone", "address", "is_active", "created_at", "updated_at",
			}},
			{"name": "loans", "fields": []string{
				"id", "member_id", "book_id", "borrowed_at", "due_at", "returned_at", "status", "updated_at",
			}},
		},
	})
}
