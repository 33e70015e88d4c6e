package clients

import (
	"errors"
	"net/mail"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

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

type createClientRequest struct {
	FirstName         string      `json:"firstName"`
	LastName          string      `json:"lastName"`
	Email             string      `json:"email"`
	PhoneNumber       string      `json:"phoneNumber"`
	Suburb            string      `json:"suburb"`
	PostCode          string      `json:"postCode"`
	State             State       `json:"state"`
	ServicesPurchased ServiceList `json:"servicesPurchased"`
	CreatedBy         string      `json:"createdBy"`
	CreatedByName     *string     `json:"createdByName"`
}

type updateClientRequest struct {
	FirstName         *string      `json:"firstName"`
	LastName          *string      `json:"lastName"`
	Email             *string      `json:"email"`
	PhoneNumber       *string      `json:"phoneNumber"`
	Suburb            *string      `json:"suburb"`
	PostCode          *string      `json:"postCode"`
	State             *State       `json:"state"`
	ServicesPurchased *ServiceList `json:"servicesPurchased"`
	UpdatedBy         string       `json:"updatedBy"`
	UpdatedByName     *string      `json:"updatedByName"`
}

func (h *Handler) List(c *fiber.Ctx) error {
	var f Filters
	if v := c.Query("state"); v != "" {
		st := State(v)
		if !st.Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "unknown state")
		}
		f.State = st
	}
	f.Service = c.Query("service")
	f.Search = c.Query("search")

	list, err := h.Repo.List(auth.Context(c), f)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch clients: "+err.Error())
	}

	return c.JSON(fiber.Map{"clients": list})
}

func (h *Handler) Get(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	cl, err := h.Repo.GetByID(auth.Context(c), id)
	if errors.Is(err, ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "client not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch client: "+err.Error())
	}

	return c.JSON(fiber.Map{"client": cl})
}

func (h *Handler) Create(c *fiber.Ctx) error {
	var req createClientRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.TrimSpace(req.Email)
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	req.Suburb = strings.TrimSpace(req.Suburb)
	req.PostCode = strings.TrimSpace(req.PostCode)

	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.PhoneNumber == "" ||
		req.Suburb == "" || req.PostCode == "" || req.State == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing required fields")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid email")
	}
	if !req.State.Valid() {
		return fiber.NewError(fiber.StatusBadRequest, "unknown state")
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

	cl := Client{
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Email:             req.Email,
		PhoneNumber:       req.PhoneNumber,
		Suburb:            req.Suburb,
		PostCode:          req.PostCode,
		State:             req.State,
		ServicesPurchased: req.ServicesPurchased,
		CreatedBy:         createdBy,
		CreatedByName:     req.CreatedByName,
	}
	if cl.ServicesPurchased == nil {
		cl.ServicesPurchased = ServiceList{}
	}

	ctx := auth.Context(c)
	id, err := h.Repo.Create(ctx, &cl)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to create client: "+err.Error())
	}

	_ = audit.Write(ctx, h.AuditDB, audit.Entry{
		ActorID:    &createdBy,
		ActorName:  req.CreatedByName,
		Action:     "client.create",
		EntityType: "client",
		EntityID:   &id,
	})

	return c.JSON(fiber.Map{"id": id, "success": true})
}

func (h *Handler) Update(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req updateClientRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	ctx := auth.Context(c)
	cl, err := h.Repo.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "client not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch client: "+err.Error())
	}

	if req.FirstName != nil {
		cl.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		cl.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if _, err := mail.ParseAddress(email); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid email")
		}
		cl.Email = email
	}
	if req.PhoneNumber != nil {
		cl.PhoneNumber = strings.TrimSpace(*req.PhoneNumber)
	}
	if req.Suburb != nil {
		cl.Suburb = strings.TrimSpace(*req.Suburb)
	}
	if req.PostCode != nil {
		cl.PostCode = strings.TrimSpace(*req.PostCode)
	}
	if req.State != nil {
		if !req.State.Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "unknown state")
		}
		cl.State = *req.State
	}
	if req.ServicesPurchased != nil {
		cl.ServicesPurchased = *req.ServicesPurchased
	}
	if cl.FirstName == "" || cl.LastName == "" || cl.Email == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing required fields")
	}

	updatedBy := req.UpdatedBy
	if updatedBy == "" {
		updatedBy, _ = auth.UserID(c)
	}
	if updatedBy == "" {
		return fiber.NewError(fiber.StatusBadRequest, "updatedBy required")
	}
	cl.UpdatedBy = &updatedBy
	if req.UpdatedByName != nil {
		cl.UpdatedByName = req.UpdatedByName
	} else if name, ok := auth.UserName(c); ok {
		cl.UpdatedByName = &name
	}

	if err := h.Repo.Update(ctx, cl); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "client not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to update client: "+err.Error())
	}

	_ = audit.Write(ctx, h.AuditDB, audit.Entry{
		ActorID:    &updatedBy,
		ActorName:  cl.UpdatedByName,
		Action:     "client.update",
		EntityType: "client",
		EntityID:   &id,
	})

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
			return fiber.NewError(fiber.StatusNotFound, "client not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to delete client: "+err.Error())
	}

	if actor, ok := auth.UserID(c); ok {
		_ = audit.Write(ctx, h.AuditDB, audit.Entry{
			ActorID:    &actor,
			Action:     "client.delete",
			EntityType: "client",
			EntityID:   &id,
		})
	}

	return c.JSON(fiber.Map{"success": true})
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
