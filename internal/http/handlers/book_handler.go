package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	applog "libris/internal/log"
	"libris/internal/services"
	"libris/internal/validate"
)

type BookHandler struct {
	Catalog *services.CatalogService
	Inv     *services.InventoryService
}

func (h *BookHandler) List(c *fiber.Ctx) error {
	q := strings.TrimSpace(c.Query("q"))
	if q != "" {
		var ok bool
		if q, ok = validate.Q(q); !ok {
			applog.Security(c, "validation.fail", map[string]any{"field": "q"})
			return jsonError(c, fiber.StatusBadRequest, "enter a valid search keyword")
		}
	}
	category := strings.TrimSpace(c.Query("category"))

	books, err := h.Catalog.Search(q, category)
	if err != nil {
		return fail(c, "books.list", err)
	}
	return c.JSON(books)
}

type createBookReq struct {
	Title           string   `json:"title"`
	Author          string   `json:"author"`
	ISBN            string   `json:"isbn"`
	Category        string   `json:"category"`
	Description     string   `json:"description"`
	TotalCopies     *int     `json:"total_copies"`
	CopiesAvailable *int     `json:"copies_available"`
	Tags            []string `json:"tags"`
}

func (h *BookHandler) Create(c *fiber.Ctx) error {
	var req createBookReq
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "invalid request body")
	}

	b, err := h.Catalog.Create(services.BookInput{
		Title:           req.Title,
		Author:          req.Author,
		ISBN:            req.ISBN,
		Category:        req.Category,
		Description:     req.Description,
		TotalCopies:     req.TotalCopies,
		CopiesAvailable: req.CopiesAvailable,
		Tags:            req.Tags,
	}, time.Now())
	if err != nil {
		return fail(c, "book.create", err)
	}
	applog.Audit(c, "book.create", map[string]any{"id": b.ID, "isbn": b.ISBN})
	return c.Status(fiber.StatusCreated).JSON(b)
}

type updateBookReq struct {
	Title           *string   `json:"title"`
	Author          *string   `json:"author"`
	ISBN            *string   `json:"isbn"`
	Category        *string   `json:"category"`
	Description     *string   `json:"description"`
	TotalCopies     *int      `json:"total_copies"`
	CopiesAvailable *int      `json:"copies_available"`
	Tags            *[]string `json:"tags"`
}

func (h *BookHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid book id")
	}
	var req updateBookReq
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "invalid request body")
	}
	patch := services.BookPatch{
		Title:           req.Title,
		Author:          req.Author,
		ISBN:            req.ISBN,
		Category:        req.Category,
		Description:     req.Description,
		TotalCopies:     req.TotalCopies,
		CopiesAvailable: req.CopiesAvailable,
		Tags:            req.Tags,
	}
	if patch.Empty() {
		return jsonError(c, fiber.StatusBadRequest, "no fields to update")
	}

	b, err := h.Catalog.Update(id, patch, time.Now())
	if err != nil {
		return fail(c, "book.update", err)
	}
	applog.Audit(c, "book.update", map[string]any{"id": id})
	return c.JSON(b)
}

func (h *BookHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid book id")
	}
	if err := h.Catalog.Delete(id); err != nil {
		return fail(c, "book.delete", err)
	}
	applog.Audit(c, "book.delete", map[string]any{"id": id})
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *BookHandler) Availability(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid book id")
	}
	avail, err := h.Inv.CheckAvailability(id)
	if err != nil {
		return fail(c, "book.availability", err)
	}
	return c.JSON(avail)
}
