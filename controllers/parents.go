package controllers

import (
	"errors"
	"sort"

	"github.com/gofiber/fiber/v2"

	"smartshala_go/database"
	"smartshala_go/middleware"
	"smartshala_go/models"
	"smartshala_go/services"
	"smartshala_go/store"
	"smartshala_go/utils"
)

type ParentController struct {
	st     store.Store
	linker *services.LinkerService
}

func NewParentController() *ParentController {
	return &ParentController{
		st:     database.Docs(),
		linker: services.NewLinkerService(database.Docs()),
	}
}

// GetChild resolves the parent's linked student and returns the child's
// profile together with attendance and marks summaries. A parent whose link
// resolves to no student gets a 404 with "linked": false so the portal can
// render its empty state.
func (pc *ParentController) GetChild(c *fiber.Ctx) error {
	parent, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Not authenticated",
		})
	}

	child, err := pc.linker.LinkedStudent(c.UserContext(), *parent)
	if errors.Is(err, services.ErrNoLinkedStudent) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"linked": false,
			"error":  "No linked student found for this account",
		})
	}
	if err != nil {
		return serviceError(c, err)
	}

	attendance, err := pc.attendanceSummary(c, child.ID)
	if err != nil {
		return serviceError(c, err)
	}
	marks, err := pc.marksSummary(c, child.ID)
	if err != nil {
		return serviceError(c, err)
	}

	var className string
	if child.ClassID != "" {
		if doc, err := pc.st.GetByID(c.UserContext(), store.Classes, child.ClassID); err == nil {
			className = store.StringField(doc, "name")
		}
	}

	return c.JSON(fiber.Map{
		"linked":     true,
		"child":      child,
		"className":  className,
		"attendance": attendance,
		"marks":      marks,
	})
}

// attendanceSummary condenses the child's attendance into counts and an
// attendance percentage.
func (pc *ParentController) attendanceSummary(c *fiber.Ctx, studentDocID string) (fiber.Map, error) {
	docs, err := pc.st.ListAll(c.UserContext(), store.Attendance)
	if err != nil {
		return nil, err
	}
	records, err := store.DecodeAll[models.Attendance](docs)
	if err != nil {
		return nil, err
	}

	total, present := 0, 0
	recent := make([]models.Attendance, 0)
	for _, r := range records {
		if r.StudentID != studentDocID {
			continue
		}
		total++
		if r.Present {
			present++
		}
		recent = append(recent, r)
	}
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Date > recent[j].Date
	})
	if len(recent) > 10 {
		recent = recent[:10]
	}

	percentage := 0.0
	if total > 0 {
		percentage = float64(present) / float64(total) * 100
	}
	return fiber.Map{
		"total":      total,
		"present":    present,
		"absent":     total - present,
		"percentage": percentage,
		"recent":     recent,
	}, nil
}

// marksSummary lists the child's marks with grades plus an overall average
// percentage.
func (pc *ParentController) marksSummary(c *fiber.Ctx, studentDocID string) (fiber.Map, error) {
	docs, err := pc.st.ListAll(c.UserContext(), store.Marks)
	if err != nil {
		return nil, err
	}
	marks, err := store.DecodeAll[models.Mark](docs)
	if err != nil {
		return nil, err
	}

	views := make([]markView, 0)
	sum := 0.0
	for _, m := range marks {
		if m.StudentID != studentDocID {
			continue
		}
		v := toMarkView(m)
		views = append(views, v)
		sum += v.Percentage
	}
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].CreatedAt > views[j].CreatedAt
	})

	average := 0.0
	if len(views) > 0 {
		average = sum / float64(len(views))
	}
	return fiber.Map{
		"records":           views,
		"total":             len(views),
		"averagePercentage": average,
		"averageGrade":      utils.GradeForPercentage(average),
	}, nil
}
