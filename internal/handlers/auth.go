package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/agridata/farmtrack/internal/auth"
	"github.com/agridata/farmtrack/internal/config"
	"github.com/agridata/farmtrack/internal/middleware"
	"github.com/agridata/farmtrack/internal/models"
	"github.com/agridata/farmtrack/internal/services"
	"github.com/agridata/farmtrack/internal/types"
)

// AuthHandler handles signup, login, and the current-user lookup
type AuthHandler struct {
	DB  *gorm.DB
	Cfg *config.Config
}

// SignupRequest is the signup body. FarmID is optional; owners always get
// a fresh farm, managers must name one.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	FarmID   *uint  `json:"farm_id"`
}

// LoginRequest is the login body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup handles POST /api/auth/signup
// @Summary Register a user
// @Description Create a user; owners get a freshly created farm, managers must name an existing one
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body SignupRequest true "Signup fields"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return types.NewValidationError("Invalid request body")
	}

	if req.Name == "" || req.Email == "" || req.Password == "" || req.Role == "" {
		return types.NewValidationError("Fields name, email, password, and role are required")
	}

	user, err := services.Signup(h.DB, services.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     models.Role(req.Role),
		FarmID:   req.FarmID,
	})
	if err != nil {
		return mapAuthServiceError("during signup", err)
	}

	token, err := auth.IssueToken(h.Cfg.JWTSecret, user)
	if err != nil {
		return serverError("issuing token", err)
	}

	return c.JSON(AuthResponse{Token: token, User: newUserPayload(user)})
}

// Login handles POST /api/auth/login
// @Summary Log in
// @Description Authenticate by email and password. Unknown emails and wrong passwords are indistinguishable.
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return types.NewValidationError("Invalid request body")
	}

	if req.Email == "" || req.Password == "" {
		return types.NewValidationError("Email and password are required")
	}

	user, err := services.Login(h.DB, req.Email, req.Password)
	if err != nil {
		return mapAuthServiceError("during login", err)
	}

	token, err := auth.IssueToken(h.Cfg.JWTSecret, user)
	if err != nil {
		return serverError("issuing token", err)
	}

	return c.JSON(AuthResponse{Token: token, User: newUserPayload(user)})
}

// Me handles GET /api/auth/me
// @Summary Current user
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	identity, err := middleware.IdentityFromCtx(c)
	if err != nil {
		return err
	}

	user, err := services.GetUser(h.DB, identity.UserID)
	if err != nil {
		return mapAuthServiceError("fetching current user", err)
	}

	return c.JSON(user)
}
