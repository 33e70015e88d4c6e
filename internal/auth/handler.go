package auth

import (
	"net/mail"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

// User is a persisted back-office user.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  *string   `json:"fullName,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type Handler struct {
	DB       *pgxpool.Pool
	Secret   []byte
	TokenTTL time.Duration
	// SetupKey guards the one-off admin bootstrap endpoint. Empty disables it.
	SetupKey string
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string `json:"token"`
}

func (h *Handler) generateToken(userID, fullName string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"name":    fullName,
		"exp":     time.Now().Add(h.TokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.Secret)
}

func (h *Handler) Signup(c *fiber.Ctx) error {
	var body signupRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	body.Email = strings.TrimSpace(strings.ToLower(body.Email))
	if body.Email == "" || body.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email and password required")
	}
	if _, err := mail.ParseAddress(body.Email); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid email")
	}
	if len(body.Password) < 8 {
		return fiber.NewError(fiber.StatusBadRequest, "password must be at least 8 characters")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}

	ctx := Context(c)
	var userID string
	err = h.DB.QueryRow(ctx,
		`INSERT INTO users (email, password_hash, full_name, role)
		 VALUES ($1, $2, $3, 'staff')
		 RETURNING id`,
		body.Email, string(hashed), body.FullName,
	).Scan(&userID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not create user")
	}

	token, err := h.generateToken(userID, body.FullName)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not create token")
	}

	return c.JSON(authResponse{Token: token})
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var body loginRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	var (
		userID       string
		passwordHash string
		fullName     *string
	)

	ctx := Context(c)
	err := h.DB.QueryRow(ctx,
		`SELECT id, password_hash, full_name FROM users WHERE email = $1`,
		strings.TrimSpace(strings.ToLower(body.Email)),
	).Scan(&userID, &passwordHash, &fullName)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(body.Password)); err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	name := ""
	if fullName != nil {
		name = *fullName
	}
	token, err := h.generateToken(userID, name)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not create token")
	}

	return c.JSON(authResponse{Token: token})
}

func (h *Handler) Me(c *fiber.Ctx) error {
	userID, ok := UserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var u User
	err := h.DB.QueryRow(Context(c),
		`SELECT id::text, email, full_name, role, created_at FROM users WHERE id = $1::uuid`,
		userID,
	).Scan(&u.ID, &u.Email, &u.FullName, &u.Role, &u.CreatedAt)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "user not found")
	}

	return c.JSON(fiber.Map{"user": u})
}

// CreateAdmin bootstraps the first admin account. It requires the setup key
// and refuses to run once an admin exists.
func (h *Handler) CreateAdmin(c *fiber.Ctx) error {
	if h.SetupKey == "" {
		return fiber.NewError(fiber.StatusForbidden, "admin setup disabled")
	}
	if c.Get("X-Setup-Key") != h.SetupKey {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid setup key")
	}

	var body signupRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	body.Email = strings.TrimSpace(strings.ToLower(body.Email))
	if body.Email == "" || len(body.Password) < 8 {
		return fiber.NewError(fiber.StatusBadRequest, "email and a password of at least 8 characters required")
	}

	ctx := Context(c)
	var existing int
	if err := h.DB.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = 'admin'`).Scan(&existing); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not check admins")
	}
	if existing > 0 {
		return fiber.NewError(fiber.StatusConflict, "admin already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}

	var userID string
	err = h.DB.QueryRow(ctx,
		`INSERT INTO users (email, password_hash, full_name, role)
		 VALUES ($1, $2, $3, 'admin')
		 RETURNING id`,
		body.Email, string(hashed), body.FullName,
	).Scan(&userID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not create admin")
	}

	return c.JSON(fiber.Map{"id": userID, "success": true})
}
