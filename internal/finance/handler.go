package finance

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ahazfernando/aussie-ops-financials/internal/audit"
	"github.com/ahazfernando/aussie-ops-financials/internal/auth"
	"github.com/ahazfernando/aussie-ops-financials/internal/feed"
	"github.com/ahazfernando/aussie-ops-financials/internal/gst"
)

type Handler struct {
	Repo    *Repo
	Feed    *feed.Feed[Transaction]
	AuditDB *pgxpool.Pool
}

func NewHandler(repo *Repo, f *feed.Feed[Transaction], auditDB *pgxpool.Pool) *Handler {
	return &Handler{Repo: repo, Feed: f, AuditDB: auditDB}
}

type createTransactionRequest struct {
	Type           TransactionType    `json:"type"`
	Category       Category           `json:"category"`
	CustomCategory *string            `json:"customCategory"`
	AmountNet      *decimal.Decimal   `json:"amountNet"`
	PaymentMethod  gst.PaymentMethod  `json:"paymentMethod"`
	GSTApplied     *bool              `json:"gstApplied"`
	Description    *string            `json:"description"`
	ClientID       *string            `json:"clientId"`
	ClientName     *string            `json:"clientName"`
	Date           string             `json:"date"`
	CreatedBy      string             `json:"createdBy"`
	CreatedByName  *string            `json:"createdByName"`
}

type updateTransactionRequest struct {
	Type           *TransactionType   `json:"type"`
	Category       *Category          `json:"category"`
	CustomCategory *string            `json:"customCategory"`
	AmountNet      *decimal.Decimal   `json:"amountNet"`
	PaymentMethod  *gst.PaymentMethod `json:"paymentMethod"`
	GSTApplied     *bool              `json:"gstApplied"`
	Description    *string            `json:"description"`
	ClientID       *string            `json:"clientId"`
	ClientName     *string            `json:"clientName"`
	Date           *string            `json:"date"`
	UpdatedBy      string             `json:"updatedBy"`
	UpdatedByName  *string            `json:"updatedByName"`
}

// parseDate accepts RFC 3339 or a bare YYYY-MM-DD business date.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func parseFilters(c *fiber.Ctx) (Filters, error) {
	var f Filters

	if v := c.Query("startDate"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return f, fiber.NewError(fiber.StatusBadRequest, "startDate must be YYYY-MM-DD or RFC3339")
		}
		f.StartDate = &t
	}
	if v := c.Query("endDate"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return f, fiber.NewError(fiber.StatusBadRequest, "endDate must be YYYY-MM-DD or RFC3339")
		}
		f.EndDate = &t
	}
	if v := c.Query("type"); v != "" {
		typ := TransactionType(v)
		if !typ.Valid() {
			return f, fiber.NewError(fiber.StatusBadRequest, "type must be INFLOW or OUTFLOW")
		}
		f.Type = typ
	}
	if v := c.Query("category"); v != "" {
		f.Category = Category(v)
	}
	if v := c.Query("paymentMethod"); v != "" {
		pm := gst.PaymentMethod(v)
		if !pm.Valid() {
			return f, fiber.NewError(fiber.StatusBadRequest, "unknown paymentMethod")
		}
		f.PaymentMethod = pm
	}
	f.Search = c.Query("search")

	return f, nil
}

func (h *Handler) List(c *fiber.Ctx) error {
	f, err := parseFilters(c)
	if err != nil {
		return err
	}

	ctx := auth.Context(c)
	transactions, err := h.Repo.List(ctx, f)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch transactions: "+err.Error())
	}

	return c.JSON(fiber.Map{"transactions": transactions})
}

func (h *Handler) Get(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	t, err := h.Repo.GetByID(auth.Context(c), id)
	if errors.Is(err, ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "transaction not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch transaction: "+err.Error())
	}

	return c.JSON(fiber.Map{"transaction": t})
}

func (h *Handler) Create(c *fiber.Ctx) error {
	var req createTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	if !req.Type.Valid() {
		return fiber.NewError(fiber.StatusBadRequest, "type must be INFLOW or OUTFLOW")
	}
	if !req.Category.ValidFor(req.Type) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid category for transaction type")
	}
	if req.Category == CategoryOther && (req.CustomCategory == nil || *req.CustomCategory == "") {
		return fiber.NewError(fiber.StatusBadRequest, "customCategory required when category is OTHER")
	}
	if req.AmountNet == nil {
		return fiber.NewError(fiber.StatusBadRequest, "amountNet required")
	}
	if req.AmountNet.Sign() <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "amountNet must be greater than zero")
	}
	if !req.PaymentMethod.Valid() {
		return fiber.NewError(fiber.StatusBadRequest, "unknown paymentMethod")
	}
	if req.Date == "" {
		return fiber.NewError(fiber.StatusBadRequest, "date required")
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "date must be YYYY-MM-DD or RFC3339")
	}

	createdBy := req.CreatedBy
	if createdBy == "" {
		createdBy, _ = auth.UserID(c)
	}
	if createdBy == "" {
		return fiber.NewError(fiber.StatusBadRequest, "createdBy required")
	}
	if req.CreatedByName == nil {
		if name, ok := auth.UserName(c); ok {
			req.CreatedByName = &name
		}
	}

	// An explicit gstApplied in the body overrides the payment-method policy.
	decision := gst.DeriveOnCreate(*req.AmountNet, req.PaymentMethod, req.GSTApplied)

	t := Transaction{
		Type:           req.Type,
		Category:       req.Category,
		CustomCategory: req.CustomCategory,
		AmountNet:      *req.AmountNet,
		GSTAmount:      decision.Amount,
		AmountGross:    gst.GrossAmount(*req.AmountNet, decision.Amount),
		PaymentMethod:  req.PaymentMethod,
		GSTApplied:     decision.Applied,
		Description:    req.Description,
		ClientID:       req.ClientID,
		ClientName:     req.ClientName,
		Date:           date,
		CreatedBy:      createdBy,
		CreatedByName:  req.CreatedByName,
	}

	ctx := auth.Context(c)
	id, err := h.Repo.Create(ctx, &t)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to create transaction: "+err.Error())
	}

	_ = audit.Write(ctx, h.AuditDB, audit.Entry{
		ActorID:    &createdBy,
		ActorName:  req.CreatedByName,
		Action:     "transaction.create",
		EntityType: "transaction",
		EntityID:   &id,
	})
	h.publishSnapshot(c)

	return c.JSON(fiber.Map{"id": id, "success": true})
}

func (h *Handler) Update(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req updateTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	ctx := auth.Context(c)
	t, err := h.Repo.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "transaction not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch transaction: "+err.Error())
	}

	if req.Type != nil {
		if !req.Type.Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "type must be INFLOW or OUTFLOW")
		}
		t.Type = *req.Type
	}
	if req.Category != nil {
		t.Category = *req.Category
	}
	if !t.Category.ValidFor(t.Type) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid category for transaction type")
	}
	if req.CustomCategory != nil {
		t.CustomCategory = req.CustomCategory
	}
	if t.Category == CategoryOther && (t.CustomCategory == nil || *t.CustomCategory == "") {
		return fiber.NewError(fiber.StatusBadRequest, "customCategory required when category is OTHER")
	}
	if req.AmountNet != nil {
		if req.AmountNet.Sign() <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "amountNet must be greater than zero")
		}
		t.AmountNet = *req.AmountNet
	}
	if req.PaymentMethod != nil {
		if !req.PaymentMethod.Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "unknown paymentMethod")
		}
		t.PaymentMethod = *req.PaymentMethod
	}
	if req.Description != nil {
		t.Description = req.Description
	}
	if req.ClientID != nil {
		t.ClientID = nilIfEmpty(req.ClientID)
	}
	if req.ClientName != nil {
		t.ClientName = nilIfEmpty(req.ClientName)
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date must be YYYY-MM-DD or RFC3339")
		}
		t.Date = date
	}

	// GST fields are only recomputed when the patch touches amountNet or
	// paymentMethod; otherwise the stored values stand entirely.
	if req.AmountNet != nil || req.PaymentMethod != nil {
		prev := gst.Decision{Amount: t.GSTAmount, Applied: t.GSTApplied}
		decision := gst.DeriveOnUpdate(prev, t.AmountNet, req.PaymentMethod != nil, t.PaymentMethod, req.GSTApplied)
		t.GSTAmount = decision.Amount
		t.GSTApplied = decision.Applied
		t.AmountGross = gst.GrossAmount(t.AmountNet, t.GSTAmount)
	}

	updatedBy := req.UpdatedBy
	if updatedBy == "" {
		updatedBy, _ = auth.UserID(c)
	}
	if updatedBy == "" {
		return fiber.NewError(fiber.StatusBadRequest, "updatedBy required")
	}
	t.UpdatedBy = &updatedBy
	if req.UpdatedByName != nil {
		t.UpdatedByName = req.UpdatedByName
	} else if name, ok := auth.UserName(c); ok {
		t.UpdatedByName = &name
	}

	if err := h.Repo.Update(ctx, t); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "transaction not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to update transaction: "+err.Error())
	}

	_ = audit.Write(ctx, h.AuditDB, audit.Entry{
		ActorID:    &updatedBy,
		ActorName:  t.UpdatedByName,
		Action:     "transaction.update",
		EntityType: "transaction",
		EntityID:   &id,
	})
	h.publishSnapshot(c)

	return c.JSON(fiber.Map{"success": true})
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	ctx := auth.Context(c)
	if err := h.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "transaction not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to delete transaction: "+err.Error())
	}

	if actor, ok := auth.UserID(c); ok {
		_ = audit.Write(ctx, h.AuditDB, audit.Entry{
			ActorID:    &actor,
			Action:     "transaction.delete",
			EntityType: "transaction",
			EntityID:   &id,
		})
	}
	h.publishSnapshot(c)

	return c.JSON(fiber.Map{"success": true})
}

// Summary folds the (filtered) transaction set on demand. Nothing is cached;
// every read recomputes from the current records.
func (h *Handler) Summary(c *fiber.Ctx) error {
	f, err := parseFilters(c)
	if err != nil {
		return err
	}

	transactions, err := h.Repo.List(auth.Context(c), f)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch transactions: "+err.Error())
	}

	return c.JSON(Summarize(transactions))
}

// publishSnapshot pushes the full current record set to subscribers after a
// write. Best-effort: a failed read only costs listeners one refresh.
func (h *Handler) publishSnapshot(c *fiber.Ctx) {
	if h.Feed == nil {
		return
	}
	all, err := h.Repo.ListAll(auth.Context(c))
	if err != nil {
		log.Printf("transactions snapshot publish skipped: %v", err)
		return
	}
	h.Feed.Publish(all)
}

func pathID(c *fiber.Ctx) (string, error) {
	id := c.Params("id")
	if id == "" {
		return "", fiber.NewError(fiber.StatusBadRequest, "id required")
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	return id, nil
}

func nilIfEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
