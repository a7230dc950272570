package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	applog "libris/internal/log"
	"libris/internal/services"
	"libris/internal/validate"
)

type LoanHandler struct {
	Lending *services.LendingService
}

func (h *LoanHandler) List(c *fiber.Ctx) error {
	status := strings.TrimSpace(c.Query("status"))
	if status != "" {
		var ok bool
		if status, ok = validate.LoanStatus(status); !ok {
			applog.Security(c, "validation.fail", map[string]any{"field": "status"})
			return jsonError(c, fiber.StatusBadRequest, "invalid status filter")
		}
	}

	loans, err := h.Lending.List(status, time.Now())
	if err != nil {
		return fail(c, "loans.list", err)
	}
	return c.JSON(loans)
}

type borrowReq struct {
	MemberID string `json:"member_id"`
	BookID   string `json:"book_id"`
	Days     *int   `json:"days"`
}

func (h *LoanHandler) Borrow(c *fiber.Ctx) error {
	var req borrowReq
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "invalid request body")
	}
	memberID, okM := validate.ID(req.MemberID)
	bookID, okB := validate.ID(req.BookID)
	if !okM || !okB {
		return jsonError(c, fiber.StatusBadRequest, "invalid member or book id")
	}
	days := 0
	if req.Days != nil {
		days = *req.Days
	}

	l, err := h.Lending.Borrow(memberID, bookID, days, time.Now())
	if err != nil {
		return fail(c, "loan.borrow", err)
	}
	applog.Audit(c, "loan.borrow", map[string]any{"loan": l.ID, "member": memberID, "book": bookID})
	return c.Status(fiber.StatusCreated).JSON(l)
}

func (h *LoanHandler) Return(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid loan id")
	}

	l, restocked, err := h.Lending.Return(id, time.Now())
	if err != nil {
		return fail(c, "loan.return", err)
	}
	applog.Audit(c, "loan.return", map[string]any{"loan": id, "restocked": restocked})
	return c.JSON(l)
}
