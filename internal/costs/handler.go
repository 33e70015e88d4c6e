package costs

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ahazfernando/aussie-ops-financials/internal/audit"
	"github.com/ahazfernando/aussie-ops-financials/internal/auth"
)

type Handler struct {
	Repo    *Repo
	AuditDB *pgxpool.Pool
}

func NewHandler(repo *Repo, auditDB *pgxpool.Pool) *Handler {
	return &Handler{Repo: repo, AuditDB: auditDB}
}

type createCostRequest struct {
	Name         string           `json:"name"`
	Type         CostType         `json:"type"`
	Amount       *decimal.Decimal `json:"amount"`
	ActualVolume *decimal.Decimal `json:"actualVolume"`
}

func (h *Handler) List(c *fiber.Ctx) error {
	list, err := h.Repo.List(auth.Context(c))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch costs: "+err.Error())
	}
	return c.JSON(fiber.Map{"costs": list})
}

func (h *Handler) Create(c *fiber.Ctx) error {
	var req createCostRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name required")
	}
	if !req.Type.Valid() {
		return fiber.NewError(fiber.StatusBadRequest, "type must be fixed or variable")
	}
	if req.Amount == nil || req.Amount.Sign() <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "amount must be greater than zero")
	}
	if req.ActualVolume != nil && req.ActualVolume.Sign() < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "actualVolume cannot be negative")
	}

	createdBy, ok := auth.UserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	cost := Cost{
		Name:         req.Name,
		Type:         req.Type,
		Amount:       *req.Amount,
		ActualVolume: req.ActualVolume,
		CreatedBy:    createdBy,
	}

	ctx := auth.Context(c)
	id, err := h.Repo.Create(ctx, &cost)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to create cost: "+err.Error())
	}

	_ = audit.Write(ctx, h.AuditDB, audit.Entry{
		ActorID:    &createdBy,
		Action:     "cost.create",
		EntityType: "cost",
		EntityID:   &id,
	})

	return c.JSON(fiber.Map{"id": id, "success": true})
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return fiber.NewError(fiber.StatusBadRequest, "id required")
	}
	if _, err := uuid.Parse(id); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	ctx := auth.Context(c)
	if err := h.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "cost not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to delete cost: "+err.Error())
	}

	if actor, ok := auth.UserID(c); ok {
		_ = audit.Write(ctx, h.AuditDB, audit.Entry{
			ActorID:    &actor,
			Action:     "cost.delete",
			EntityType: "cost",
			EntityID:   &id,
		})
	}

	return c.JSON(fiber.Map{"success": true})
}
