package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"smartshala_go/database"
	"smartshala_go/middleware"
	"smartshala_go/models"
	"smartshala_go/services"
	"smartshala_go/store"
	"smartshala_go/utils"
)

type TimetableController struct {
	st         store.Store
	timetables *services.TimetableService
}

func NewTimetableController() *TimetableController {
	return &TimetableController{
		st:         database.Docs(),
		timetables: services.NewTimetableService(database.Docs()),
	}
}

// GetTimetable returns a class's weekly schedule. A class whose timetable
// was never written gets an empty schedule, not a 404: lazy creation means
// absence is a valid state.
func (tc *TimetableController) GetTimetable(c *fiber.Ctx) error {
	classID := c.Params("classId")

	timetable, err := tc.timetables.Get(c.UserContext(), classID)
	if errors.Is(err, store.ErrNotFound) {
		class, cerr := tc.loadClass(c, classID)
		if cerr != nil {
			return serviceError(c, cerr)
		}
		timetable = models.Timetable{
			ID:        classID,
			ClassID:   classID,
			ClassName: class.Name,
			Schedule:  make(map[string][]models.LessonSlot),
		}
	} else if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"timetable": timetable,
	})
}

// SaveEntryRequest carries one lesson-slot upsert. A non-empty id edits the
// existing entry; an empty id appends a new one.
type SaveEntryRequest struct {
	Day       string `json:"day" validate:"required"`
	ID        string `json:"id"`
	StartTime string `json:"startTime" validate:"required"`
	EndTime   string `json:"endTime" validate:"required"`
	Subject   string `json:"subject" validate:"required"`
	TeacherID string `json:"teacherId" validate:"required"`
}

// SaveEntry adds or edits one lesson slot in a class's schedule.
func (tc *TimetableController) SaveEntry(c *fiber.Ctx) error {
	classID := c.Params("classId")
	class, err := tc.loadClass(c, classID)
	if err != nil {
		return serviceError(c, err)
	}

	var req SaveEntryRequest
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

	slot := models.LessonSlot{
		ID:        req.ID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Subject:   utils.SanitizeString(req.Subject),
		TeacherID: req.TeacherID,
	}
	isEdit := req.ID != ""

	timetable, err := tc.timetables.SaveEntry(c.UserContext(), class, req.Day, slot, isEdit)
	if err != nil {
		return serviceError(c, err)
	}

	middleware.LogActivity(c, "UPDATE", "timetables", classID)

	return c.JSON(fiber.Map{
		"message":   "Timetable updated successfully",
		"timetable": timetable,
	})
}

// DeleteEntry removes one lesson slot from a day's schedule.
func (tc *TimetableController) DeleteEntry(c *fiber.Ctx) error {
	classID := c.Params("classId")
	day := c.Params("day")
	entryID := c.Params("entryId")

	timetable, err := tc.timetables.RemoveEntry(c.UserContext(), classID, day, entryID)
	if err != nil {
		return serviceError(c, err)
	}

	middleware.LogActivity(c, "DELETE", "timetables", classID)

	return c.JSON(fiber.Map{
		"message":   "Entry removed successfully",
		"timetable": timetable,
	})
}

func (tc *TimetableController) loadClass(c *fiber.Ctx, classID string) (models.SchoolClass, error) {
	doc, err := tc.st.GetByID(c.UserContext(), store.Classes, classID)
	if err != nil {
		return models.SchoolClass{}, err
	}
	var class models.SchoolClass
	if err := store.Decode(doc, &class); err != nil {
		return models.SchoolClass{}, err
	}
	return class, nil
}
