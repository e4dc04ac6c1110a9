package controllers

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"smartshala_go/database"
	"smartshala_go/middleware"
	"smartshala_go/services"
	"smartshala_go/utils"
)

type AuthController struct {
	users *services.UserService
}

func NewAuthController() *AuthController {
	return &AuthController{users: services.NewUserService(database.Docs())}
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest represents the self-registration request body
type RegisterRequest struct {
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=6"`
	Name           string `json:"name" validate:"required"`
	Role           string `json:"role" validate:"required,oneof=student teacher parent"`
	ChildEmail     string `json:"childEmail" validate:"omitempty,email"`
	ChildStudentID string `json:"childStudentId"`
}

// Register creates an account for a student, teacher or parent. The role
// identifier (STU-/TEA-/PAR-) is allocated server-side; the response tells
// the caller which id to keep for later logins.
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to hash password",
		})
	}

	user, err := ac.users.Create(c.UserContext(), services.CreateUserInput{
		Email:          strings.TrimSpace(req.Email),
		Name:           utils.SanitizeString(req.Name),
		Role:           req.Role,
		PasswordHash:   hashedPassword,
		ChildEmail:     strings.TrimSpace(req.ChildEmail),
		ChildStudentID: strings.TrimSpace(req.ChildStudentID),
	})
	if err != nil {
		return serviceError(c, err)
	}

	token, err := middleware.GenerateToken(&user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate token",
		})
	}

	middleware.LogActivity(c, "REGISTER", "users", user.ID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Registration successful",
		"token":   token,
		"user":    user,
		"roleId":  user.RoleID(),
	})
}

// Login authenticates a user and returns a JWT token
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	user, err := ac.users.FindByEmail(c.UserContext(), strings.TrimSpace(req.Email))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	hash, err := ac.users.PasswordHash(c.UserContext(), user.ID)
	if err != nil || hash == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}
	if err := utils.CheckPassword(req.Password, hash); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	token, err := middleware.GenerateToken(&user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate token",
		})
	}

	middleware.LogActivity(c, "LOGIN", "auth", user.ID)

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

// GetProfile returns the authenticated user's record.
func (ac *AuthController) GetProfile(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Not authenticated",
		})
	}
	return c.JSON(fiber.Map{
		"user": user,
	})
}

// Logout invalidates the current JWT by storing it in Redis blacklist for 24 hours
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing authorization header"})
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid authorization header format"})
	}

	if rc := database.GetRedisClient(); rc != nil {
		ctx := context.Background()
		key := "blacklist:jwt:" + tokenString
		if err := rc.Set(ctx, key, "1", 24*time.Hour).Err(); err != nil {
			// Don't block logout on a Redis failure
			middleware.LogActivity(c, "LOGOUT", "auth", "")
		}
	}

	if user, err := middleware.GetCurrentUser(c); err == nil {
		middleware.LogActivity(c, "LOGOUT", "auth", user.ID)
	}

	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}
