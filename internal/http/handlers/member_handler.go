package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	applog "libris/internal/log"
	"libris/internal/services"
	"libris/internal/validate"
)

type MemberHandler struct {
	Membership *services.MembershipService
}

func (h *MemberHandler) List(c *fiber.Ctx) error {
	q := strings.TrimSpace(c.Query("q"))
	if q != "" {
		var ok bool
		if q, ok = validate.Q(q); !ok {
			applog.Security(c, "validation.fail", map[string]any{"field": "q"})
			return jsonError(c, fiber.StatusBadRequest, "enter a valid search keyword")
		}
	}

	members, err := h.Membership.List(q)
	if err != nil {
		return fail(c, "members.list", err)
	}
	return c.JSON(members)
}

type createMemberReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	IsActive *bool  `json:"is_active"`
}

func (h *MemberHandler) Create(c *fiber.Ctx) error {
	var req createMemberReq
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "invalid request body")
	}

	m, err := h.Membership.Create(services.MemberInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		IsActive: req.IsActive,
	}, time.Now())
	if err != nil {
		return fail(c, "member.create", err)
	}
	applog.Audit(c, "member.create", map[string]any{"id": m.ID})
	return c.Status(fiber.StatusCreated).JSON(m)
}

type updateMemberReq struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
	IsActive *bool   `json:"is_active"`
}

func (h *MemberHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid member id")
	}
	var req updateMemberReq
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "invalid request body")
	}
	patch := services.MemberPatch{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		IsActive: req.IsActive,
	}
	if patch.Empty() {
		return jsonError(c, fiber.StatusBadRequest, "no fields to update")
	}

	m, err := h.Membership.Update(id, patch, time.Now())
	if err != nil {
		return fail(c, "member.update", err)
	}
	applog.Audit(c, "member.update", map[string]any{"id": id})
	return c.JSON(m)
}

func (h *MemberHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid member id")
	}
	if err := h.Membership.Delete(id); err != nil {
		return fail(c, "member.delete", err)
	}
	applog.Audit(c, "member.delete", map[string]any{"id": id})
	return c.SendStatus(fiber.StatusNoContent)
}
