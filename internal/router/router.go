package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ahazfernando/aussie-ops-financials/internal/admin"
	"github.com/ahazfernando/aussie-ops-financials/internal/auth"
	"github.com/ahazfernando/aussie-ops-financials/internal/clients"
	"github.com/ahazfernando/aussie-ops-financials/internal/costs"
	"github.com/ahazfernando/aussie-ops-financials/internal/finance"
	"github.com/ahazfernando/aussie-ops-financials/internal/reports"
	"github.com/ahazfernando/aussie-ops-financials/internal/unitecon"
)

type Router struct {
	AuthHandler     *auth.Handler
	ClientsHandler  *clients.Handler
	FinanceHandler  *finance.Handler
	SummaryTracker  *finance.SummaryTracker
	CostsHandler    *costs.Handler
	UniteconHandler *unitecon.Handler
	ReportsHandler  *reports.Handler
	AdminHandler    *admin.Handler
	AuthMW          fiber.Handler
	WriteLimit      fiber.Handler
}

func (r *Router) writeLimit() fiber.Handler {
	if r.WriteLimit != nil {
		return r.WriteLimit
	}
	return func(c *fiber.Ctx) error { return c.Next() }
}

func (r *Router) RegisterRoutes(app *fiber.App) {
	if r.AuthHandler != nil {
		authLimit := RateLimitAuth()
		app.Post("/api/auth/signup", authLimit, r.AuthHandler.Signup)
		app.Post("/api/auth/login", authLimit, r.AuthHandler.Login)
		app.Post("/api/auth/create-admin", authLimit, r.AuthHandler.CreateAdmin)
		app.Get("/api/me", r.AuthMW, r.AuthHandler.Me)
	}

	writeLimit := r.writeLimit()

	if r.ClientsHandler != nil {
		app.Get("/api/clients", r.AuthMW, r.ClientsHandler.List)
		app.Post("/api/clients", r.AuthMW, writeLimit, r.ClientsHandler.Create)
		app.Get("/api/clients/:id", r.AuthMW, r.ClientsHandler.Get)
		app.Put("/api/clients/:id", r.AuthMW, writeLimit, r.ClientsHandler.Update)
		app.Delete("/api/clients/:id", r.AuthMW, writeLimit, r.ClientsHandler.Delete)
	}

	if r.FinanceHandler != nil {
		app.Get("/api/financials/transactions", r.AuthMW, r.FinanceHandler.List)
		app.Post("/api/financials/transactions", r.AuthMW, writeLimit, r.FinanceHandler.Create)
		app.Get("/api/financials/summary", r.AuthMW, r.FinanceHandler.Summary)
		if r.SummaryTracker != nil {
			app.Get("/api/financials/summary/live", r.AuthMW, r.SummaryTracker.LiveSummary)
		}
		app.Get("/api/financials/transactions/:id", r.AuthMW, r.FinanceHandler.Get)
		app.Put("/api/financials/transactions/:id", r.AuthMW, writeLimit, r.FinanceHandler.Update)
		app.Delete("/api/financials/transactions/:id", r.AuthMW, writeLimit, r.FinanceHandler.Delete)
	}

	if r.CostsHandler != nil {
		app.Get("/api/costs", r.AuthMW, r.CostsHandler.List)
		app.Post("/api/costs", r.AuthMW, writeLimit, r.CostsHandler.Create)
		app.Delete("/api/costs/:id", r.AuthMW, writeLimit, r.CostsHandler.Delete)
	}

	if r.UniteconHandler != nil {
		app.Get("/api/unit-economics", r.AuthMW, r.UniteconHandler.Get)
	}

	if r.ReportsHandler != nil {
		app.Get("/api/reports/financials.pdf", r.AuthMW, r.ReportsHandler.Statement)
	}

	if r.AdminHandler != nil {
		app.Get("/api/admin/stats", r.AdminHandler.Stats)
		app.Get("/api/admin/users", r.AdminHandler.ListUsers)
		app.Get("/api/admin/audit", r.AdminHandler.AuditTrail)
	}
}
