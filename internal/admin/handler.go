package admin

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Handler serves the back-office operator views: record totals and the
// recent audit trail. Guarded by a server-side admin key, separate from the
// normal JWT flow.
type Handler struct {
	Pool     *pgxpool.Pool
	AdminKey string
}

func NewHandler(pool *pgxpool.Pool, adminKey string) *Handler {
	return &Handler{Pool: pool, AdminKey: adminKey}
}

type userRow struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt"`
}

type auditRow struct {
	Action     string  `json:"action"`
	EntityType string  `json:"entityType"`
	EntityID   *string `json:"entityId,omitempty"`
	ActorID    *string `json:"actorId,omitempty"`
	CreatedAt  string  `json:"createdAt"`
}

type statsResponse struct {
	UsersTotal        int64 `json:"usersTotal"`
	ClientsTotal      int64 `json:"clientsTotal"`
	TransactionsTotal int64 `json:"transactionsTotal"`
	CostsTotal        int64 `json:"costsTotal"`
}

func (h *Handler) requireKey(c *fiber.Ctx) error {
	key := strings.TrimSpace(h.AdminKey)
	if key == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "ADMIN_KEY not set on server")
	}
	if strings.TrimSpace(c.Get("X-Admin-Key")) != key {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	return nil
}

func (h *Handler) Stats(c *fiber.Ctx) error {
	if err := h.requireKey(c); err != nil {
		return err
	}

	ctx := c.UserContext()
	var resp statsResponse

	for _, q := range []struct {
		sql  string
		dest *int64
	}{
		{`SELECT COUNT(*) FROM users`, &resp.UsersTotal},
		{`SELECT COUNT(*) FROM clients`, &resp.ClientsTotal},
		{`SELECT COUNT(*) FROM transactions`, &resp.TransactionsTotal},
		{`SELECT COUNT(*) FROM costs`, &resp.CostsTotal},
	} {
		if err := h.Pool.QueryRow(ctx, q.sql).Scan(q.dest); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed stats: "+err.Error())
		}
	}

	return c.JSON(resp)
}

func (h *Handler) ListUsers(c *fiber.Ctx) error {
	if err := h.requireKey(c); err != nil {
		return err
	}

	rows, err := h.Pool.Query(c.UserContext(), `
		SELECT id::text, email, role, created_at::text
		FROM users
		ORDER BY created_at DESC
		LIMIT 100`)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed users: "+err.Error())
	}
	defer rows.Close()

	users := make([]userRow, 0)
	for rows.Next() {
		var u userRow
		if err := rows.Scan(&u.ID, &u.Email, &u.Role, &u.CreatedAt); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed scan users: "+err.Error())
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed users rows: "+err.Error())
	}

	return c.JSON(fiber.Map{"users": users})
}

func (h *Handler) AuditTrail(c *fiber.Ctx) error {
	if err := h.requireKey(c); err != nil {
		return err
	}

	rows, err := h.Pool.Query(c.UserContext(), `
		SELECT action, entity_type, entity_id::text, actor_id, created_at::text
		FROM audit_logs
		ORDER BY created_at DESC
		LIMIT 100`)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed audit trail: "+err.Error())
	}
	defer rows.Close()

	entries := make([]auditRow, 0)
	for rows.Next() {
		var e auditRow
		if err := rows.Scan(&e.Action, &e.EntityType, &e.EntityID, &e.ActorID, &e.CreatedAt); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed scan audit trail: "+err.Error())
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed audit rows: "+err.Error())
	}

	return c.JSON(fiber.Map{"entries": entries})
}
