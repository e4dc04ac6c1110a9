package controllers

import (
	"sort"

	"github.com/gofiber/fiber/v2"

	"smartshala_go/database"
	"smartshala_go/middleware"
	"smartshala_go/models"
	"smartshala_go/store"
	"smartshala_go/utils"
)

type MarkController struct {
	st store.Store
}

func NewMarkController() *MarkController {
	return &MarkController{st: database.Docs()}
}

// markView is a mark record decorated with the derived percentage and
// letter grade used by the portals.
type markView struct {
	models.Mark
	Percentage float64 `json:"percentage"`
	Grade      string  `json:"grade"`
}

func toMarkView(m models.Mark) markView {
	pct := 0.0
	if m.TotalMarks > 0 {
		pct = m.Marks / m.TotalMarks * 100
	}
	return markView{Mark: m, Percentage: pct, Grade: utils.GradeForPercentage(pct)}
}

// GetMarks lists marks, optionally filtered by studentId, classId and
// examType, newest first, each decorated with percentage and grade.
func (mc *MarkController) GetMarks(c *fiber.Ctx) error {
	docs, err := mc.st.ListAll(c.UserContext(), store.Marks)
	if err != nil {
		return serviceError(c, err)
	}
	marks, err := store.DecodeAll[models.Mark](docs)
	if err != nil {
		return serviceError(c, err)
	}

	studentID := c.Query("studentId")
	classID := c.Query("classId")
	examType := c.Query("examType")

	views := make([]markView, 0, len(marks))
	for _, m := range marks {
		if studentID != "" && m.StudentID != studentID {
			continue
		}
		if classID != "" && m.ClassID != classID {
			continue
		}
		if examType != "" && m.ExamType != examType {
			continue
		}
		views = append(views, toMarkView(m))
	}
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].CreatedAt > views[j].CreatedAt
	})

	return c.JSON(fiber.Map{
		"marks": views,
		"total": len(views),
	})
}

type MarkRequest struct {
	StudentID  string  `json:"studentId" validate:"required"`
	ClassID    string  `json:"classId" validate:"required"`
	Subject    string  `json:"subject" validate:"required"`
	ExamType   string  `json:"examType" validate:"required"`
	Marks      float64 `json:"marks" validate:"min=0"`
	TotalMarks float64 `json:"totalMarks" validate:"required,gt=0"`
}

// CreateMark records one exam result for a student.
func (mc *MarkController) CreateMark(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Not authenticated",
		})
	}

	var req MarkRequest
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
	if req.Marks > req.TotalMarks {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "marks cannot exceed totalMarks",
		})
	}

	mark := models.Mark{
		StudentID:  req.StudentID,
		ClassID:    req.ClassID,
		TeacherID:  user.TeacherID,
		Subject:    utils.SanitizeString(req.Subject),
		ExamType:   utils.SanitizeString(req.ExamType),
		Marks:      req.Marks,
		TotalMarks: req.TotalMarks,
		CreatedAt:  utils.NowISO(),
	}

	fields, err := store.Fields(mark)
	if err != nil {
		return serviceError(c, err)
	}
	id, err := mc.st.Create(c.UserContext(), store.Marks, fields)
	if err != nil {
		return serviceError(c, err)
	}
	mark.ID = id

	middleware.LogActivity(c, "CREATE", "marks", id)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Mark recorded successfully",
		"mark":    toMarkView(mark),
	})
}

// DeleteMark removes one exam result.
func (mc *MarkController) DeleteMark(c *fiber.Ctx) error {
	id := c.Params("id")

	if _, err := mc.st.GetByID(c.UserContext(), store.Marks, id); err != nil {
		return serviceError(c, err)
	}
	if err := mc.st.DeleteByID(c.UserContext(), store.Marks, id); err != nil {
		return serviceError(c, err)
	}

	middleware.LogActivity(c, "DELETE", "marks", id)

	return c.JSON(fiber.Map{
		"message": "Mark deleted successfully",
	})
}
