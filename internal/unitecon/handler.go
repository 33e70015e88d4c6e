package unitecon

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ahazfernando/aussie-ops-financials/internal/auth"
	"github.com/ahazfernando/aussie-ops-financials/internal/clients"
	"github.com/ahazfernando/aussie-ops-financials/internal/costs"
	"github.com/ahazfernando/aussie-ops-financials/internal/finance"
)

// Handler composes the three input sets and runs the derivation per request.
type Handler struct {
	Transactions *finance.Repo
	Costs        *costs.Repo
	Clients      *clients.Repo
}

func NewHandler(transactions *finance.Repo, costRepo *costs.Repo, clientRepo *clients.Repo) *Handler {
	return &Handler{Transactions: transactions, Costs: costRepo, Clients: clientRepo}
}

func (h *Handler) Get(c *fiber.Ctx) error {
	ctx := auth.Context(c)

	transactions, err := h.Transactions.ListAll(ctx)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch transactions: "+err.Error())
	}

	costRecords, err := h.Costs.List(ctx)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch costs: "+err.Error())
	}

	clientCount, err := h.Clients.Count(ctx)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to count clients: "+err.Error())
	}

	return c.JSON(Derive(transactions, costRecords, clientCount))
}
