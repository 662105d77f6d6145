package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campushire/platform/internal/api/http/handlers"
	"github.com/campushire/platform/internal/auth"
	"github.com/campushire/platform/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Accounts       *handlers.AccountsHandler
	Jobs           *handlers.JobsHandler
	Courses        *handlers.CoursesHandler
	Blogs          *handlers.BlogsHandler
	Discussions    *handlers.DiscussionsHandler
	Events         *handlers.EventsHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes. Read endpoints on jobs, courses, blogs,
// discussions and events are public; everything else authenticates per
// route so the public reads under the same prefixes stay open.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Post("/verify", cfg.Auth.Verify)
	authGroup.Post("/verify/resend", cfg.Auth.ResendVerification)
	authGroup.Post("/password/reset-request", cfg.Auth.RequestPasswordReset)
	authGroup.Post("/password/reset", cfg.Auth.ConfirmPasswordReset)

	authed := cfg.AuthMiddleware.Handle
	member := auth.RequireAccount()
	recruiter := auth.RequireRole(domain.RoleRecruiter)
	author := auth.RequireRole(domain.RoleRecruiter, domain.RoleAdmin)
	admin := auth.RequireRole(domain.RoleAdmin)

	app.Get("/accounts/me", authed, member, cfg.Accounts.Me)
	app.Patch("/accounts/me", authed, member, cfg.Accounts.UpdateProfile)
	app.Post("/accounts/me/password", authed, member, cfg.Accounts.ChangePassword)

	// The saved route precedes :id so "saved" never resolves as a job id.
	app.Get("/jobs", cfg.Jobs.ListJobs)
	app.Get("/jobs/saved", authed, member, cfg.Jobs.ListSavedJobs)
	app.Get("/jobs/:id", cfg.Jobs.GetJob)
	app.Post("/jobs", authed, recruiter, cfg.Jobs.CreateJob)
	app.Patch("/jobs/:id", authed, recruiter, cfg.Jobs.UpdateJob)
	app.Post("/jobs/:id/close", authed, recruiter, cfg.Jobs.CloseJob)
	app.Get("/jobs/:id/applications", authed, recruiter, cfg.Jobs.ListJobApplications)
	app.Post("/jobs/:id/apply", authed, member, cfg.Jobs.Apply)
	app.Post("/jobs/:id/save", authed, member, cfg.Jobs.SaveJob)
	app.Delete("/jobs/:id/save", authed, member, cfg.Jobs.UnsaveJob)

	app.Get("/applications", authed, member, cfg.Jobs.ListMyApplications)
	app.Post("/applications/:id/status", authed, recruiter, cfg.Jobs.UpdateApplicationStatus)

	app.Get("/courses", cfg.Courses.ListCourses)
	app.Get("/courses/:id", cfg.Courses.GetCourse)
	app.Post("/courses", authed, author, cfg.Courses.CreateCourse)
	app.Patch("/courses/:id", authed, author, cfg.Courses.UpdateCourse)
	app.Post("/courses/:id/lessons", authed, author, cfg.Courses.AddLesson)
	app.Post("/courses/:id/enroll", authed, member, cfg.Courses.Enroll)
	app.Get("/enrollments", authed, member, cfg.Courses.ListMyEnrollments)

	app.Get("/blogs", cfg.Blogs.ListPosts)
	app.Get("/blogs/:id", cfg.Blogs.GetPost)
	app.Post("/blogs", authed, member, cfg.Blogs.CreatePost)
	app.Patch("/blogs/:id", authed, member, cfg.Blogs.UpdatePost)
	app.Delete("/blogs/:id", authed, member, cfg.Blogs.DeletePost)

	app.Get("/discussions", cfg.Discussions.ListThreads)
	app.Get("/discussions/:id", cfg.Discussions.GetThread)
	app.Post("/discussions", authed, member, cfg.Discussions.CreateThread)
	app.Post("/discussions/:id/replies", authed, member, cfg.Discussions.Reply)
	app.Delete("/discussions/replies/:id", authed, member, cfg.Discussions.DeleteReply)
	app.Delete("/discussions/:id", authed, member, cfg.Discussions.DeleteThread)

	app.Get("/events", cfg.Events.ListEvents)
	app.Get("/events/:id", cfg.Events.GetEvent)
	app.Post("/events", authed, author, cfg.Events.CreateEvent)
	app.Patch("/events/:id", authed, author, cfg.Events.UpdateEvent)
	app.Post("/events/:id/register", authed, member, cfg.Events.Register)
	app.Delete("/events/:id/register", authed, member, cfg.Events.CancelRegistration)
	app.Get("/registrations", authed, member, cfg.Events.ListMyRegistrations)

	adminGroup := app.Group("/admin", authed, admin)
	adminGroup.Get("/accounts", cfg.Admin.ListAccounts)
	adminGroup.Post("/accounts", cfg.Admin.CreateAccount)
	adminGroup.Patch("/accounts/:id/role", cfg.Admin.UpdateRole)
	adminGroup.Delete("/accounts/:id", cfg.Admin.DeleteAccount)
	adminGroup.Get("/activity", cfg.Admin.ActivityFeed)
}
