package controllers

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"

	"smartshala_go/database"
	"smartshala_go/middleware"
	"smartshala_go/models"
	"smartshala_go/services"
	"smartshala_go/store"
	"smartshala_go/utils"
)

type AttendanceController struct {
	st      store.Store
	reports *services.ReportService
}

func NewAttendanceController() *AttendanceController {
	return &AttendanceController{
		st:      database.Docs(),
		reports: services.NewReportService(database.Docs()),
	}
}

// GetAttendance lists attendance records, optionally filtered by studentId,
// classId and date.
func (ac *AttendanceController) GetAttendance(c *fiber.Ctx) error {
	docs, err := ac.st.ListAll(c.UserContext(), store.Attendance)
	if err != nil {
		return serviceError(c, err)
	}
	records, err := store.DecodeAll[models.Attendance](docs)
	if err != nil {
		return serviceError(c, err)
	}

	studentID := c.Query("studentId")
	classID := c.Query("classId")
	date := c.Query("date")

	filtered := make([]models.Attendance, 0, len(records))
	for _, r := range records {
		if studentID != "" && r.StudentID != studentID {
			continue
		}
		if classID != "" && r.ClassID != classID {
			continue
		}
		if date != "" && r.Date != date {
			continue
		}
		filtered = append(filtered, r)
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Date > filtered[j].Date
	})

	return c.JSON(fiber.Map{
		"attendance": filtered,
		"total":      len(filtered),
	})
}

type AttendanceEntry struct {
	StudentID string `json:"studentId" validate:"required"`
	Present   bool   `json:"present"`
}

type MarkAttendanceRequest struct {
	ClassID string            `json:"classId" validate:"required"`
	Date    string            `json:"date" validate:"required"`
	Records []AttendanceEntry `json:"records" validate:"required,min=1,dive"`
}

// MarkAttendance records one day's attendance for a class in bulk. A class
// whose attendance is already marked for the date gets a 409; there is no
// partial overwrite.
func (ac *AttendanceController) MarkAttendance(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Not authenticated",
		})
	}

	var req MarkAttendanceRequest
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
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "date must be YYYY-MM-DD",
		})
	}

	if _, err := ac.st.GetByID(c.UserContext(), store.Classes, req.ClassID); err != nil {
		return serviceError(c, err)
	}

	existing, err := ac.st.ListAll(c.UserContext(), store.Attendance)
	if err != nil {
		return serviceError(c, err)
	}
	for _, doc := range existing {
		if store.StringField(doc, "classId") == req.ClassID &&
			store.StringField(doc, "date") == req.Date {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Attendance already marked for this class and date",
			})
		}
	}

	now := utils.NowISO()
	created := make([]models.Attendance, 0, len(req.Records))
	for _, entry := range req.Records {
		record := models.Attendance{
			StudentID: entry.StudentID,
			ClassID:   req.ClassID,
			TeacherID: user.TeacherID,
			Date:      req.Date,
			Present:   entry.Present,
			CreatedAt: now,
		}
		fields, err := store.Fields(record)
		if err != nil {
			return serviceError(c, err)
		}
		id, err := ac.st.Create(c.UserContext(), store.Attendance, fields)
		if err != nil {
			return serviceError(c, err)
		}
		record.ID = id
		created = append(created, record)
	}

	middleware.LogActivity(c, "CREATE", "attendance", req.ClassID+"/"+req.Date)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Attendance marked successfully",
		"attendance": created,
		"total":      len(created),
	})
}

// ExportAttendance streams attendance records (optionally filtered by
// classId and date) as an XLSX workbook.
func (ac *AttendanceController) ExportAttendance(c *fiber.Ctx) error {
	classID := c.Query("classId")
	date := c.Query("date")

	workbook, err := ac.reports.AttendanceWorkbook(c.UserContext(), classID, date)
	if err != nil {
		return serviceError(c, err)
	}
	defer workbook.Close()

	var buf bytes.Buffer
	if err := workbook.Write(&buf); err != nil {
		return serviceError(c, err)
	}

	filename := fmt.Sprintf("attendance_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return c.Send(buf.Bytes())
}
