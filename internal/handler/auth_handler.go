package handler

import (
	"go-commerce-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	if req.Email == "" || req.Password == "" {
		return badRequest(c, "Email and password are required")
	}

	response, err := h.authService.Register(req.Email, req.Password, req.FullName)
	if err != nil {
		return fail(c, err)
	}
	return created(c, "Account created", response)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	if req.Email == "" || req.Password == "" {
		return badRequest(c, "Email and password are required")
	}

	response, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, response)
}

// Profile handles GET /api/users/me
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	userID, authed := getUserID(c)
	if !authed {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Unauthorized"})
	}

	profile, err := h.authService.GetProfile(userID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, profile)
}
