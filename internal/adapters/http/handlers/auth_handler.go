package handlers

import (
	"limpay/internal/adapters/http/middleware"
	"limpay/internal/core/services"
	"limpay/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles authentication and self-profile endpoints
type AuthHandler struct {
	authService *services.AuthService
	userService *services.UserService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, userService *services.UserService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
	}
}

// Register handles student registration
// @Summary Register new student
// @Description Create a student account with the default fee set
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.RegisterInput true "Registration data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req services.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	if _, err := h.authService.Register(c.UserContext(), &req); err != nil {
		return respondError(c, err)
	}

	return response.Created(c, "User registered successfully", nil)
}

// Login handles login by student ID or email
// @Summary Login
// @Description Authenticate and return a bearer token valid for 24 hours
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.LoginInput true "Login credentials"
// @Success 200 {object} services.AuthResponse
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req services.LoginInput
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	result, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "", fiber.Map{
		"token": result.Token,
		"user":  result.User,
	})
}

// Me returns the caller's profile
// @Summary Current user profile
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.UserResponse
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := h.userService.GetProfile(c.UserContext(), middleware.CurrentUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "", fiber.Map{"user": user})
}

// UpdateMe updates the caller's own profile
// @Summary Update current user profile
// @Description Only supplied fields change; a new password is re-hashed
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.UpdateProfileInput true "Fields to change"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /auth/me [put]
func (h *AuthHandler) UpdateMe(c *fiber.Ctx) error {
	var req services.UpdateProfileInput
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	changed, err := h.userService.UpdateProfile(c.UserContext(), middleware.CurrentUserID(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	if !changed {
		return response.Success(c, "No changes made", nil)
	}

	return response.Success(c, "Profile updated successfully", nil)
}
