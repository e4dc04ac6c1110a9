package controllers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"smartshala_go/database"
	"smartshala_go/middleware"
	"smartshala_go/models"
	"smartshala_go/services"
	"smartshala_go/store"
	"smartshala_go/utils"
)

type ClassController struct {
	st    store.Store
	users *services.UserService
}

func NewClassController() *ClassController {
	return &ClassController{st: database.Docs(), users: services.NewUserService(database.Docs())}
}

// ClassRequest represents class create/update bodies
type ClassRequest struct {
	Standard string `json:"standard" validate:"required"`
	Section  string `json:"section" validate:"required"`
}

// GetClasses returns all classes
func (cc *ClassController) GetClasses(c *fiber.Ctx) error {
	docs, err := cc.st.ListAll(c.UserContext(), store.Classes)
	if err != nil {
		return serviceError(c, err)
	}
	classes, err := store.DecodeAll[models.SchoolClass](docs)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"classes": classes,
		"total":   len(classes),
	})
}

// CreateClass creates a new class; its name is derived from standard and
// section.
func (cc *ClassController) CreateClass(c *fiber.Ctx) error {
	var req ClassRequest
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

	class := models.SchoolClass{
		Standard:  req.Standard,
		Section:   req.Section,
		Name:      models.ClassName(req.Standard, req.Section),
		CreatedAt: utils.NowISO(),
	}
	fields, err := store.Fields(class)
	if err != nil {
		return serviceError(c, err)
	}
	id, err := cc.st.Create(c.UserContext(), store.Classes, fields)
	if err != nil {
		return serviceError(c, err)
	}
	class.ID = id

	middleware.LogActivity(c, "CREATE", "classes", id)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Class created successfully",
		"class":   class,
	})
}

// UpdateClass edits a class's standard/section and recomputes its name.
func (cc *ClassController) UpdateClass(c *fiber.Ctx) error {
	id := c.Params("id")

	var req ClassRequest
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

	if _, err := cc.st.GetByID(c.UserContext(), store.Classes, id); err != nil {
		return serviceError(c, err)
	}

	fields := map[string]interface{}{
		"standard":  req.Standard,
		"section":   req.Section,
		"name":      models.ClassName(req.Standard, req.Section),
		"updatedAt": utils.NowISO(),
	}
	if err := cc.st.SetMerge(c.UserContext(), store.Classes, id, fields); err != nil {
		return serviceError(c, err)
	}

	middleware.LogActivity(c, "UPDATE", "classes", id)

	return c.JSON(fiber.Map{
		"message": "Class updated successfully",
	})
}

// DeleteClass deletes a class. Students still referencing the class keep
// their classId; views surface the orphan as "N/A".
func (cc *ClassController) DeleteClass(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := cc.st.GetByID(c.UserContext(), store.Classes, id); err != nil {
		return serviceError(c, err)
	}
	if err := cc.st.DeleteByID(c.UserContext(), store.Classes, id); err != nil {
		return serviceError(c, err)
	}

	middleware.LogActivity(c, "DELETE", "classes", id)

	return c.JSON(fiber.Map{
		"message": "Class deleted successfully",
	})
}

// AssignStudentsRequest lists the user ids to place in a class
type AssignStudentsRequest struct {
	StudentIDs []string `json:"studentIds" validate:"required,min=1"`
}

// AssignStudents sets the class on each listed student record.
func (cc *ClassController) AssignStudents(c *fiber.Ctx) error {
	classID := c.Params("id")
	if _, err := cc.st.GetByID(c.UserContext(), store.Classes, classID); err != nil {
		return serviceError(c, err)
	}

	var req AssignStudentsRequest
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

	if err := cc.users.AssignClass(c.UserContext(), req.StudentIDs, classID); err != nil {
		return serviceError(c, err)
	}

	middleware.LogActivity(c, "UPDATE", "classes", classID)

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("%d student(s) assigned successfully", len(req.StudentIDs)),
	})
}
