package routes

import (
	"smartshala_go/controllers"
	"smartshala_go/middleware"
	"smartshala_go/models"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures all application routes
func SetupRoutes(app *fiber.App) {
	authController := controllers.NewAuthController()
	userController := controllers.NewUserController()
	classController := controllers.NewClassController()
	timetableController := controllers.NewTimetableController()
	announcementController := controllers.NewAnnouncementController()
	assignmentController := controllers.NewAssignmentController()
	attendanceController := controllers.NewAttendanceController()
	markController := controllers.NewMarkController()
	parentController := controllers.NewParentController()

	api := app.Group("/api")

	// Authentication routes (no middleware)
	auth := api.Group("/auth")
	auth.Post("/register", authController.Register)
	auth.Post("/login", authController.Login)

	// Protected routes (require authentication)
	protected := api.Group("/", middleware.JWTMiddleware(), middleware.LogActivityMiddleware())

	protected.Get("/profile", authController.GetProfile)
	protected.Post("/auth/logout", authController.Logout)

	// User management (admin only, except listing for teachers)
	users := protected.Group("/users")
	users.Get("/", middleware.RequireTeacherOrAdmin(), userController.GetUsers)
	users.Get("/next-id", middleware.RequireAdmin(), userController.NextRoleID)
	users.Get("/:id", middleware.RequireTeacherOrAdmin(), userController.GetUser)
	users.Post("/", middleware.RequireAdmin(), userController.CreateUser)
	users.Delete("/:id", middleware.RequireAdmin(), userController.DeleteUser)

	// Class management
	classes := protected.Group("/classes")
	classes.Get("/", classController.GetClasses)
	classes.Post("/", middleware.RequireAdmin(), classController.CreateClass)
	classes.Put("/:id", middleware.RequireAdmin(), classController.UpdateClass)
	classes.Delete("/:id", middleware.RequireAdmin(), classController.DeleteClass)
	classes.Post("/:id/students", middleware.RequireAdmin(), classController.AssignStudents)

	// Timetables
	timetables := protected.Group("/timetables")
	timetables.Get("/:classId", timetableController.GetTimetable)
	timetables.Put("/:classId/entries", middleware.RequireAdmin(), timetableController.SaveEntry)
	timetables.Delete("/:classId/entries/:day/:entryId", middleware.RequireAdmin(), timetableController.DeleteEntry)

	// Announcements
	announcements := protected.Group("/announcements")
	announcements.Get("/", announcementController.GetAnnouncements)
	announcements.Post("/", middleware.RequireTeacherOrAdmin(), announcementController.CreateAnnouncement)
	announcements.Delete("/:id", middleware.RequireTeacherOrAdmin(), announcementController.DeleteAnnouncement)

	// Assignments and submissions
	assignments := protected.Group("/assignments")
	assignments.Get("/", assignmentController.GetAssignments)
	assignments.Post("/", middleware.RequireRole(models.RoleTeacher), assignmentController.CreateAssignment)
	assignments.Delete("/:id", middleware.RequireTeacherOrAdmin(), assignmentController.DeleteAssignment)
	assignments.Post("/:id/submissions", middleware.RequireRole(models.RoleStudent), assignmentController.SubmitAssignment)
	assignments.Get("/:id/submissions", middleware.RequireTeacherOrAdmin(), assignmentController.GetSubmissions)

	// Attendance
	attendance := protected.Group("/attendance")
	attendance.Get("/", attendanceController.GetAttendance)
	attendance.Get("/export", middleware.RequireTeacherOrAdmin(), attendanceController.ExportAttendance)
	attendance.Post("/", middleware.RequireRole(models.RoleTeacher), attendanceController.MarkAttendance)

	// Marks
	marks := protected.Group("/marks")
	marks.Get("/", markController.GetMarks)
	marks.Post("/", middleware.RequireRole(models.RoleTeacher), markController.CreateMark)
	marks.Delete("/:id", middleware.RequireTeacherOrAdmin(), markController.DeleteMark)

	// Parent portal
	parent := protected.Group("/parent", middleware.RequireRole(models.RoleParent))
	parent.Get("/child", parentController.GetChild)
}
