package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/edudesk-api/internal/config"
	"github.com/noah-isme/edudesk-api/internal/handler"
	"github.com/noah-isme/edudesk-api/internal/middleware"
	"github.com/noah-isme/edudesk-api/internal/models"
	"github.com/noah-isme/edudesk-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler         *handler.AuthHandler
	StudentHandler      *handler.StudentHandler
	CatalogHandler      *handler.CatalogHandler
	EnrollmentHandler   *handler.EnrollmentHandler
	AttendanceHandler   *handler.AttendanceHandler
	CompensationHandler *handler.CompensationHandler
	PaymentHandler      *handler.PaymentHandler
	EmployeeHandler     *handler.EmployeeHandler
	MessageHandler      *handler.MessageHandler
	DashboardHandler    *handler.DashboardHandler
	NotificationHandler *handler.NotificationHandler
	SeedHandler         *handler.SeedHandler
	JWTMiddleware       fiber.Handler
	SessionResolver     middleware.SessionResolver
}

// Register wires the HTTP routes into the fiber application. The route table
// is fixed at startup: each protected group carries its allowed role set, and
// the gate middleware enforces it per navigation.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	protect := func(roles ...models.Role) []fiber.Handler {
		return []fiber.Handler{jwtMiddleware, middleware.Protect(deps.SessionResolver, roles...)}
	}

	// Authentication
	if deps.AuthHandler != nil {
		auth := api.Group("/auth")
		auth.Use("/login", middleware.RateLimit("login", 10, time.Minute))
		deps.AuthHandler.RegisterPublic(auth)

		authed := api.Group("/auth", protect()...)
		deps.AuthHandler.RegisterProtected(authed)

		adminAuth := api.Group("/admin/auth", protect(models.RoleAdmin)...)
		deps.AuthHandler.RegisterAdmin(adminAuth)
	}

	// Student registry: staff can read, admins mutate.
	if deps.StudentHandler != nil {
		students := api.Group("/students", protect(models.RoleAdmin, models.RoleTeacher)...)
		deps.StudentHandler.Register(students)

		adminStudents := api.Group("/admin/students", protect(models.RoleAdmin)...)
		deps.StudentHandler.RegisterAdmin(adminStudents)
	}

	// Catalog: every authenticated role may browse, admins mutate.
	if deps.CatalogHandler != nil {
		catalog := api.Group("/catalog", protect()...)
		deps.CatalogHandler.Register(catalog)

		adminCatalog := api.Group("/admin/catalog", protect(models.RoleAdmin)...)
		deps.CatalogHandler.RegisterAdmin(adminCatalog)
	}

	// Enrollments
	if deps.EnrollmentHandler != nil {
		enrollments := api.Group("/enrollments", protect(models.RoleAdmin, models.RoleTeacher)...)
		deps.EnrollmentHandler.Register(enrollments)

		adminEnrollments := api.Group("/admin/enrollments", protect(models.RoleAdmin)...)
		deps.EnrollmentHandler.RegisterAdmin(adminEnrollments)
	}

	// Attendance: parents and students may read, teachers and admins record.
	if deps.AttendanceHandler != nil {
		attendance := api.Group("/attendance", protect()...)
		deps.AttendanceHandler.Register(attendance)

		teacherAttendance := api.Group("/teacher/attendance", protect(models.RoleAdmin, models.RoleTeacher)...)
		deps.AttendanceHandler.RegisterTeacher(teacherAttendance)
	}

	// Compensation workflow
	if deps.CompensationHandler != nil {
		compensations := api.Group("/compensations", protect()...)
		compensations.Use(middleware.RateLimit("compensation", 20, time.Minute))
		deps.CompensationHandler.Register(compensations)

		adminCompensations := api.Group("/admin/compensations", protect(models.RoleAdmin)...)
		deps.CompensationHandler.RegisterAdmin(adminCompensations)
	}

	// Payments: parents see their invoices, admins manage them.
	if deps.PaymentHandler != nil {
		payments := api.Group("/payments", protect(models.RoleAdmin, models.RoleParent)...)
		deps.PaymentHandler.Register(payments)

		adminPayments := api.Group("/admin/payments", protect(models.RoleAdmin)...)
		deps.PaymentHandler.RegisterAdmin(adminPayments)
	}

	// Staff & payroll, admin only.
	if deps.EmployeeHandler != nil {
		employees := api.Group("/admin/employees", protect(models.RoleAdmin)...)
		deps.EmployeeHandler.Register(employees)
	}

	// Messaging, any authenticated role.
	if deps.MessageHandler != nil {
		messages := api.Group("/messages", protect()...)
		deps.MessageHandler.Register(messages)
	}

	// Dashboards
	if deps.DashboardHandler != nil {
		admin := api.Group("/admin", protect(models.RoleAdmin)...)
		deps.DashboardHandler.RegisterAdmin(admin)

		parent := api.Group("/parent", protect(models.RoleParent)...)
		deps.DashboardHandler.RegisterParent(parent)
	}

	// Realtime notifications
	if deps.NotificationHandler != nil {
		notifications := api.Group("/notifications", protect()...)
		deps.NotificationHandler.Register(notifications)
	}

	// Provisioning tooling
	if deps.SeedHandler != nil {
		seed := api.Group("/seed")
		deps.SeedHandler.Register(seed)
	}
}
