package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mediccare/platform/internal/api/http/handlers"
	"github.com/mediccare/platform/internal/auth"
	"github.com/mediccare/platform/internal/domain"
)

func registerHealthRoutes(app *fiber.App, health *handlers.HealthHandler) {
	app.Get("/health/live", health.Live)
	app.Get("/health/ready", health.Ready)
	app.Get("/health/metrics", health.Metrics)
}

// IdentityRoutes bundles handlers of the identity service.
type IdentityRoutes struct {
	Health *handlers.HealthHandler
	Auth   *handlers.AuthHandler
	Admin  *handlers.AdminHandler
}

// RegisterIdentityRoutes wires the identity service routes.
func RegisterIdentityRoutes(app *fiber.App, cfg IdentityRoutes) {
	registerHealthRoutes(app, cfg.Health)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/profile", auth.RequireIdentity(), cfg.Auth.GetProfile)
	authGroup.Put("/profile", auth.RequireIdentity(), cfg.Auth.UpdateProfile)

	admin := app.Group("/api/admin", auth.RequireIdentity(), auth.RequireRole(domain.RoleAdmin))
	admin.Get("/accounts", cfg.Admin.ListAccounts)
	admin.Put("/accounts/:id", cfg.Admin.UpdateAccount)
	admin.Delete("/accounts/:id", cfg.Admin.DeleteAccount)
	admin.Post("/accounts/:id/suspend", cfg.Admin.Suspend)
	admin.Post("/accounts/:id/unsuspend", cfg.Admin.Unsuspend)
	admin.Post("/accounts/:id/approve", cfg.Admin.Approve)
	admin.Get("/stats", cfg.Admin.Stats)

	app.Get("/internal/accounts/roster", cfg.Admin.Roster)
}

// DoctorRoutes bundles handlers of the doctor service.
type DoctorRoutes struct {
	Health  *handlers.HealthHandler
	Doctors *handlers.DoctorHandler
}

// RegisterDoctorRoutes wires the doctor service routes.
func RegisterDoctorRoutes(app *fiber.App, cfg DoctorRoutes) {
	registerHealthRoutes(app, cfg.Health)

	// Called by the identity service only; the gateway does not route /internal.
	internal := app.Group("/internal/doctors")
	internal.Post("/stub", cfg.Doctors.CreateStub)
	internal.Get("/username/:username", cfg.Doctors.GetByUsername)
	internal.Put("/username/:username", cfg.Doctors.UpdateByUsername)
	internal.Get("/count", cfg.Doctors.Count)

	doctors := app.Group("/doctors")
	doctors.Get("/all", cfg.Doctors.List)
	doctors.Get("/active", cfg.Doctors.ListActive)

	adminOnly := []fiber.Handler{auth.RequireIdentity(), auth.RequireRole(domain.RoleAdmin)}
	doctors.Post("/add", append(adminOnly, cfg.Doctors.Add)...)
	doctors.Put("/update/:id", append(adminOnly, cfg.Doctors.Update)...)
	doctors.Delete("/delete/:id", append(adminOnly, cfg.Doctors.Delete)...)
}

// PatientRoutes bundles handlers of the patient service.
type PatientRoutes struct {
	Health   *handlers.HealthHandler
	Patients *handlers.PatientHandler
}

// RegisterPatientRoutes wires the patient service routes.
func RegisterPatientRoutes(app *fiber.App, cfg PatientRoutes) {
	registerHealthRoutes(app, cfg.Health)

	internal := app.Group("/internal/patients")
	internal.Post("/stub", cfg.Patients.CreateStub)
	internal.Get("/username/:username", cfg.Patients.GetByUsername)
	internal.Put("/username/:username", cfg.Patients.UpdateByUsername)
	internal.Get("/count", cfg.Patients.Count)

	own := app.Group("/api/patients/profile", auth.RequireIdentity(), auth.RequireRole(domain.RolePatient))
	own.Get("", cfg.Patients.GetOwnProfile)
	own.Put("", cfg.Patients.SaveOwnProfile)
}

// GatewayRoutes bundles the gateway's handlers.
type GatewayRoutes struct {
	Health *handlers.HealthHandler
	Filter fiber.Handler
	Proxy  fiber.Handler
}

// RegisterGatewayRoutes serves health locally and proxies everything else
// through the filter.
func RegisterGatewayRoutes(app *fiber.App, cfg GatewayRoutes) {
	registerHealthRoutes(app, cfg.Health)
	app.Use(cfg.Filter)
	app.All("/*", cfg.Proxy)
}
