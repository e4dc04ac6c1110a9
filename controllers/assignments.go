package controllers

import (
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"

	"smartshala_go/config"
	"smartshala_go/database"
	"smartshala_go/middleware"
	"smartshala_go/models"
	"smartshala_go/store"
	"smartshala_go/utils"
)

type AssignmentController struct {
	st store.Store
}

func NewAssignmentController() *AssignmentController {
	return &AssignmentController{st: database.Docs()}
}

// GetAssignments lists assignments, optionally filtered by classId or
// teacherId, newest first.
func (ac *AssignmentController) GetAssignments(c *fiber.Ctx) error {
	docs, err := ac.st.ListAll(c.UserContext(), store.Assignments)
	if err != nil {
		return serviceError(c, err)
	}
	assignments, err := store.DecodeAll[models.Assignment](docs)
	if err != nil {
		return serviceError(c, err)
	}

	classID := c.Query("classId")
	teacherID := c.Query("teacherId")
	if classID != "" || teacherID != "" {
		filtered := make([]models.Assignment, 0, len(assignments))
		for _, a := range assignments {
			if classID != "" && a.ClassID != classID {
				continue
			}
			if teacherID != "" && a.TeacherID != teacherID {
				continue
			}
			filtered = append(filtered, a)
		}
		assignments = filtered
	}

	sort.SliceStable(assignments, func(i, j int) bool {
		return assignments[i].CreatedAt > assignments[j].CreatedAt
	})

	return c.JSON(fiber.Map{
		"assignments": assignments,
		"total":       len(assignments),
	})
}

type AssignmentRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate" validate:"required"`
	ClassID     string `json:"classId" validate:"required"`
	FileName    string `json:"fileName"`
	FileType    string `json:"fileType"`
	FileData    string `json:"fileData"`
}

// CreateAssignment publishes an assignment for a class. An attached file is
// carried inline as base64 inside the document, capped by MAX_FILE_SIZE and
// restricted to the allowed extensions.
func (ac *AssignmentController) CreateAssignment(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Not authenticated",
		})
	}

	var req AssignmentRequest
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

	if req.FileData != "" {
		if err := validateInlineFile(req.FileName, req.FileData); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
	}

	if _, err := ac.st.GetByID(c.UserContext(), store.Classes, req.ClassID); err != nil {
		return serviceError(c, err)
	}

	assignment := models.Assignment{
		Title:       utils.SanitizeString(req.Title),
		Description: utils.SanitizeString(req.Description),
		DueDate:     req.DueDate,
		ClassID:     req.ClassID,
		TeacherID:   user.TeacherID,
		FileName:    req.FileName,
		FileType:    req.FileType,
		FileData:    req.FileData,
		IsBase64:    req.FileData != "",
		CreatedAt:   utils.NowISO(),
	}

	fields, err := store.Fields(assignment)
	if err != nil {
		return serviceError(c, err)
	}
	id, err := ac.st.Create(c.UserContext(), store.Assignments, fields)
	if err != nil {
		return serviceError(c, err)
	}
	assignment.ID = id

	middleware.LogActivity(c, "CREATE", "assignments", id)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Assignment created successfully",
		"assignment": assignment,
	})
}

// DeleteAssignment removes an assignment and its submissions.
func (ac *AssignmentController) DeleteAssignment(c *fiber.Ctx) error {
	id := c.Params("id")

	if _, err := ac.st.GetByID(c.UserContext(), store.Assignments, id); err != nil {
		return serviceError(c, err)
	}
	if err := ac.st.DeleteByID(c.UserContext(), store.Assignments, id); err != nil {
		return serviceError(c, err)
	}

	docs, err := ac.st.ListAll(c.UserContext(), store.Submissions)
	if err != nil {
		return serviceError(c, err)
	}
	for _, doc := range docs {
		if store.StringField(doc, "assignmentId") == id {
			if err := ac.st.DeleteByID(c.UserContext(), store.Submissions, doc.ID); err != nil {
				return serviceError(c, err)
			}
		}
	}

	middleware.LogActivity(c, "DELETE", "assignments", id)

	return c.JSON(fiber.Map{
		"message": "Assignment deleted successfully",
	})
}

type SubmissionRequest struct {
	FileName string `json:"fileName" validate:"required"`
	FileType string `json:"fileType"`
	FileData string `json:"fileData" validate:"required"`
}

// SubmitAssignment records a student's submission. A second submission for
// the same assignment replaces the first.
func (ac *AssignmentController) SubmitAssignment(c *fiber.Ctx) error {
	assignmentID := c.Params("id")
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Not authenticated",
		})
	}

	var req SubmissionRequest
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
	if err := validateInlineFile(req.FileName, req.FileData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if _, err := ac.st.GetByID(c.UserContext(), store.Assignments, assignmentID); err != nil {
		return serviceError(c, err)
	}

	submission := models.Submission{
		AssignmentID: assignmentID,
		StudentID:    user.StudentID,
		FileName:     req.FileName,
		FileType:     req.FileType,
		FileData:     req.FileData,
		IsBase64:     true,
		Status:       "submitted",
		SubmittedAt:  utils.NowISO(),
	}

	existingID, err := ac.findSubmission(c, assignmentID, user.StudentID)
	if err != nil {
		return serviceError(c, err)
	}
	fields, err := store.Fields(submission)
	if err != nil {
		return serviceError(c, err)
	}
	if existingID != "" {
		if err := ac.st.SetMerge(c.UserContext(), store.Submissions, existingID, fields); err != nil {
			return serviceError(c, err)
		}
		submission.ID = existingID
	} else {
		id, err := ac.st.Create(c.UserContext(), store.Submissions, fields)
		if err != nil {
			return serviceError(c, err)
		}
		submission.ID = id
	}

	middleware.LogActivity(c, "CREATE", "submissions", submission.ID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Assignment submitted successfully",
		"submission": submission,
	})
}

// GetSubmissions lists submissions for one assignment.
func (ac *AssignmentController) GetSubmissions(c *fiber.Ctx) error {
	assignmentID := c.Params("id")

	docs, err := ac.st.ListAll(c.UserContext(), store.Submissions)
	if err != nil {
		return serviceError(c, err)
	}
	all, err := store.DecodeAll[models.Submission](docs)
	if err != nil {
		return serviceError(c, err)
	}

	submissions := make([]models.Submission, 0, len(all))
	for _, s := range all {
		if s.AssignmentID == assignmentID {
			submissions = append(submissions, s)
		}
	}
	sort.SliceStable(submissions, func(i, j int) bool {
		return submissions[i].SubmittedAt > submissions[j].SubmittedAt
	})

	return c.JSON(fiber.Map{
		"submissions": submissions,
		"total":       len(submissions),
	})
}

func (ac *AssignmentController) findSubmission(c *fiber.Ctx, assignmentID, studentID string) (string, error) {
	docs, err := ac.st.ListAll(c.UserContext(), store.Submissions)
	if err != nil {
		return "", err
	}
	for _, doc := range docs {
		if store.StringField(doc, "assignmentId") == assignmentID &&
			store.StringField(doc, "studentId") == studentID {
			return doc.ID, nil
		}
	}
	return "", nil
}

func validateInlineFile(fileName, fileData string) error {
	allowed := strings.Split(config.AppConfig.AllowedExtensions, ",")
	if !utils.IsValidFileExtension(fileName, allowed) {
		return fiber.NewError(fiber.StatusBadRequest, "File type not allowed")
	}
	if int64(utils.InlineFileSize(fileData)) > config.AppConfig.MaxFileSize {
		return fiber.NewError(fiber.StatusBadRequest, "File exceeds maximum allowed size")
	}
	return nil
}
