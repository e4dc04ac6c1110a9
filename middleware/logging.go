package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"smartshala_go/models"
)

// ActivityRecorder is implemented by services.ActivityLogger; the
// indirection keeps middleware free of the services package.
type ActivityRecorder interface {
	Record(entry models.ActivityLog)
}

var activityRecorder ActivityRecorder

// SetActivityRecorder wires the audit sink used by LogActivity.
func SetActivityRecorder(r ActivityRecorder) {
	activityRecorder = r
}

// LoggerMiddleware logs HTTP requests
func LoggerMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		logrus.WithFields(logrus.Fields{
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     status,
			"duration":   duration.String(),
			"ip":         c.IP(),
			"user_agent": c.Get("User-Agent"),
		}).Info("HTTP Request")

		return err
	}
}

// LogActivity records one audit entry for the current request. Anonymous
// requests (registration, login) are recorded with an empty user id.
func LogActivity(c *fiber.Ctx, action, resource, resourceID string) {
	if activityRecorder == nil {
		return
	}

	userID := ""
	if user, err := GetCurrentUser(c); err == nil {
		userID = user.ID
	}

	activityRecorder.Record(models.ActivityLog{
		UserID:     userID,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		IPAddress:  c.IP(),
		UserAgent:  c.Get("User-Agent"),
	})
}

// LogActivityMiddleware automatically logs mutating operations.
func LogActivityMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Skip logging for GET requests and auth endpoints
		if c.Method() == "GET" || strings.Contains(c.Path(), "/auth/") {
			return c.Next()
		}

		err := c.Next()

		var action string
		switch c.Method() {
		case "POST":
			action = "CREATE"
		case "PUT", "PATCH":
			action = "UPDATE"
		case "DELETE":
			action = "DELETE"
		default:
			return err
		}

		// Extract resource from path (assumes /api/resource format)
		pathParts := strings.Split(strings.Trim(c.Path(), "/"), "/")
		var resource string
		if len(pathParts) >= 2 {
			resource = pathParts[1]
		}

		// Log only if request was successful
		if c.Response().StatusCode() < 400 {
			LogActivity(c, action, resource, c.Params("id"))
		}

		return err
	}
}
