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

type AnnouncementController struct {
	st store.Store
}

func NewAnnouncementController() *AnnouncementController {
	return &AnnouncementController{st: database.Docs()}
}

// GetAnnouncements lists announcements, newest first. An optional audience
// query narrows the list to one audience plus the "all" broadcasts.
func (ac *AnnouncementController) GetAnnouncements(c *fiber.Ctx) error {
	docs, err := ac.st.ListAll(c.UserContext(), store.Announcements)
	if err != nil {
		return serviceError(c, err)
	}
	announcements, err := store.DecodeAll[models.Announcement](docs)
	if err != nil {
		return serviceError(c, err)
	}

	if audience := c.Query("audience"); audience != "" {
		filtered := make([]models.Announcement, 0, len(announcements))
		for _, a := range announcements {
			if a.Audience == audience || a.Audience == "all" {
				filtered = append(filtered, a)
			}
		}
		announcements = filtered
	}

	sort.SliceStable(announcements, func(i, j int) bool {
		return announcements[i].CreatedAt > announcements[j].CreatedAt
	})

	return c.JSON(fiber.Map{
		"announcements": announcements,
		"total":         len(announcements),
	})
}

type AnnouncementRequest struct {
	Title    string `json:"title" validate:"required"`
	Message  string `json:"message" validate:"required"`
	Audience string `json:"audience" validate:"required,oneof=all students teachers parents"`
}

// CreateAnnouncement publishes an announcement authored by the current user.
func (ac *AnnouncementController) CreateAnnouncement(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Not authenticated",
		})
	}

	var req AnnouncementRequest
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

	announcement := models.Announcement{
		Title:      utils.SanitizeString(req.Title),
		Message:    utils.SanitizeString(req.Message),
		Audience:   req.Audience,
		AuthorID:   user.ID,
		AuthorName: user.Name,
		CreatedAt:  utils.NowISO(),
	}

	fields, err := store.Fields(announcement)
	if err != nil {
		return serviceError(c, err)
	}
	id, err := ac.st.Create(c.UserContext(), store.Announcements, fields)
	if err != nil {
		return serviceError(c, err)
	}
	announcement.ID = id

	middleware.LogActivity(c, "CREATE", "announcements", id)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":      "Announcement created successfully",
		"announcement": announcement,
	})
}

// DeleteAnnouncement removes an announcement.
func (ac *AnnouncementController) DeleteAnnouncement(c *fiber.Ctx) error {
	id := c.Params("id")

	if _, err := ac.st.GetByID(c.UserContext(), store.Announcements, id); err != nil {
		return serviceError(c, err)
	}
	if err := ac.st.DeleteByID(c.UserContext(), store.Announcements, id); err != nil {
		return serviceError(c, err)
	}

	middleware.LogActivity(c, "DELETE", "announcements", id)

	return c.JSON(fiber.Map{
		"message": "Announcement deleted successfully",
	})
}
