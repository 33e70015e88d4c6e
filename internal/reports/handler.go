package reports

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ahazfernando/aussie-ops-financials/internal/auth"
	"github.com/ahazfernando/aussie-ops-financials/internal/finance"
)

type Handler struct {
	Transactions *finance.Repo
}

func NewHandler(transactions *finance.Repo) *Handler {
	return &Handler{Transactions: transactions}
}

// Statement serves the financial statement PDF for a date range. Missing
// bounds default to the last 30 days.
func (h *Handler) Statement(c *fiber.Ctx) error {
	from := c.Query("startDate")
	to := c.Query("endDate")
	if from == "" || to == "" {
		end := time.Now()
		start := end.AddDate(0, 0, -29)
		from = start.Format("2006-01-02")
		to = end.Format("2006-01-02")
	}

	start, err := time.Parse("2006-01-02", from)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "startDate must be YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", to)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "endDate must be YYYY-MM-DD")
	}

	transactions, err := h.Transactions.List(auth.Context(c), finance.Filters{
		StartDate: &start,
		EndDate:   &end,
	})
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch transactions: "+err.Error())
	}

	statement := BuildStatement(from+" to "+to, transactions)
	pdf, err := BuildStatementPDF(statement)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to render statement: "+err.Error())
	}

	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `attachment; filename="financial-statement.pdf"`)
	return c.Send(pdf)
}
