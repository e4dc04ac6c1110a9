package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"smartshala_go/database"
	"smartshala_go/middleware"
	"smartshala_go/services"
	"smartshala_go/utils"
)

type UserController struct {
	users *services.UserService
}

func NewUserController() *UserController {
	return &UserController{users: services.NewUserService(database.Docs())}
}

// GetUsers returns all users, optionally filtered by role
func (uc *UserController) GetUsers(c *fiber.Ctx) error {
	users, err := uc.users.List(c.UserContext(), c.Query("role"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"users": users,
		"total": len(users),
	})
}

// GetUser returns a specific user by ID
func (uc *UserController) GetUser(c *fiber.Ctx) error {
	user, err := uc.users.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"user": user,
	})
}

// NextRoleID previews the identifier the next registration for a role would
// receive. Best effort: the value is only claimed once the user is created.
func (uc *UserController) NextRoleID(c *fiber.Ctx) error {
	role := c.Query("role")
	id, err := uc.users.Allocator().NextIDForRole(c.UserContext(), role)
	if err != nil {
		return serviceError(c, err)
	}
	field, err := services.IDFieldForRole(role)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"role":  role,
		"field": field,
		"id":    id,
	})
}

// CreateUserRequest represents the admin provisioning request body
type CreateUserRequest struct {
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"omitempty,min=6"`
	Name           string `json:"name" validate:"required"`
	Role           string `json:"role" validate:"required,oneof=admin student teacher parent"`
	RoleID         string `json:"roleId"`
	ClassID        string `json:"classId"`
	ChildEmail     string `json:"childEmail" validate:"omitempty,email"`
	ChildStudentID string `json:"childStudentId"`
}

// CreateUser provisions a new user (admin only). A roleId may be supplied
// to override the generated one; it must be free and well-formed.
func (uc *UserController) CreateUser(c *fiber.Ctx) error {
	var req CreateUserRequest
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

	var hashedPassword string
	if req.Password != "" {
		var err error
		hashedPassword, err = utils.HashPassword(req.Password)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to hash password",
			})
		}
	}

	user, err := uc.users.Create(c.UserContext(), services.CreateUserInput{
		Email:          strings.TrimSpace(req.Email),
		Name:           utils.SanitizeString(req.Name),
		Role:           req.Role,
		PasswordHash:   hashedPassword,
		RoleID:         strings.TrimSpace(req.RoleID),
		ClassID:        req.ClassID,
		ChildEmail:     strings.TrimSpace(req.ChildEmail),
		ChildStudentID: strings.TrimSpace(req.ChildStudentID),
	})
	if err != nil {
		return serviceError(c, err)
	}

	middleware.LogActivity(c, "CREATE", "users", user.ID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created successfully",
		"user":    user,
		"roleId":  user.RoleID(),
	})
}

// DeleteUser deletes a user
func (uc *UserController) DeleteUser(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := uc.users.Delete(c.UserContext(), id); err != nil {
		return serviceError(c, err)
	}

	middleware.LogActivity(c, "DELETE", "users", id)

	return c.JSON(fiber.Map{
		"message": "User deleted successfully",
	})
}
