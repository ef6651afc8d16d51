// router.go
//
// Multi-tenant practice management service for chartered accountant firms
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of practice-portal.
// practice-portal is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// practice-portal is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with practice-portal.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

// Package server assembles the HTTP application shared by cmd/server and the handler tests.
package server

import (
	"strings"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	swagger "github.com/gofiber/swagger"
	"github.com/localnerve/practice-portal/internal/access"
	"github.com/localnerve/practice-portal/internal/config"
	"github.com/localnerve/practice-portal/internal/handlers"
	"github.com/localnerve/practice-portal/internal/middleware"
	"github.com/localnerve/practice-portal/internal/models"
	"github.com/localnerve/practice-portal/internal/services"
	"github.com/localnerve/practice-portal/internal/storage"
	"github.com/localnerve/practice-portal/internal/utils"
	"gorm.io/gorm"
)

// multipartOverhead is the room left above the upload cap for form fields and boundaries
const multipartOverhead = 1 << 20

// Options tunes parts of the app that tests need to switch off
type Options struct {
	// AccessLog enables the per-request access log
	AccessLog bool
	// Metrics registers the prometheus collector. It can only be registered once per process.
	Metrics bool
}

// New builds the fiber app with every route mounted under /api
func New(cfg *config.Config, db *gorm.DB, store *storage.Store, auth *services.Auth, opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "practice-portal",
		ErrorHandler:          handlers.ErrorHandler,
		BodyLimit:             int(cfg.UploadMaxBytes) + multipartOverhead,
		DisableStartupMessage: true,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	if opts.AccessLog {
		app.Use(logger.New(logger.Config{
			Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
		}))
	}
	app.Use(compress.New())
	app.Use(corsMiddleware(cfg))

	// Prometheus metrics
	if opts.Metrics {
		prometheus := fiberprometheus.New("practice_portal")
		prometheus.RegisterAt(app, "/metrics")
		app.Use(prometheus.Middleware)
	}

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api", middleware.VersionMiddleware())
	mountRoutes(api, cfg, db, store, auth)

	app.Use(handlers.NotFound)

	return app
}

func corsMiddleware(cfg *config.Config) fiber.Handler {
	if strings.TrimSpace(cfg.CORSOrigins) == "" {
		return cors.New()
	}
	return cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Api-Version",
	})
}

func loginLimiter(cfg *config.Config) fiber.Handler {
	if cfg.LoginRateLimit <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:        cfg.LoginRateLimit,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return utils.ErrorResponse(c, "Too many login attempts, try again later", fiber.StatusTooManyRequests, "rateLimit")
		},
	})
}

func mountRoutes(api fiber.Router, cfg *config.Config, db *gorm.DB, store *storage.Store, auth *services.Auth) {
	authenticate := middleware.Authenticate(auth, db)
	firm := middleware.RequireFirm()
	anyFirmRole := middleware.RequireRoles(models.RoleCAAdmin, models.RoleCAStaff, models.RoleClient)
	caRoles := middleware.RequireRoles(models.RoleCAAdmin, models.RoleCAStaff)
	caAdmin := middleware.RequireRoles(models.RoleCAAdmin)
	can := middleware.RequireCapability

	api.Get("/health", handlers.Health)

	// Auth
	authHandler := &handlers.AuthHandler{DB: db, Auth: auth}
	authRoutes := api.Group("/auth")
	authRoutes.Post("/login", loginLimiter(cfg), authHandler.Login)
	authRoutes.Post("/refresh", authHandler.Refresh)
	authRoutes.Get("/me", authenticate, authHandler.Me)
	authRoutes.Post("/change-password", authenticate, authHandler.ChangePassword)

	// Clients
	clientHandler := &handlers.ClientHandler{DB: db}
	clients := api.Group("/clients", authenticate, firm)
	clients.Get("/", anyFirmRole, can(access.CapViewClients), clientHandler.List)
	clients.Get("/:id", anyFirmRole, can(access.CapViewClients), clientHandler.Get)
	clients.Post("/", caRoles, can(access.CapEditClients), clientHandler.Create)
	clients.Put("/:id", caRoles, can(access.CapEditClients), clientHandler.Update)

	// Tasks
	taskHandler := &handlers.TaskHandler{DB: db, Options: services.TaskOptions{StrictTransitions: cfg.TaskStrictTransitions}}
	api.Get("/tasks/compliance-types", authenticate, taskHandler.ComplianceTypes)
	tasks := api.Group("/tasks", authenticate, firm, can(access.CapTasks))
	tasks.Get("/", anyFirmRole, taskHandler.List)
	tasks.Get("/:id", anyFirmRole, taskHandler.Get)
	tasks.Post("/", caRoles, taskHandler.Create)
	tasks.Patch("/:id/status", caRoles, taskHandler.UpdateStatus)
	tasks.Patch("/:id/assign", caRoles, taskHandler.Assign)
	tasks.Post("/:id/comments", anyFirmRole, taskHandler.AddComment)

	// Documents
	documentHandler := &handlers.DocumentHandler{DB: db, Store: store}
	documents := api.Group("/documents", authenticate, firm, can(access.CapDocuments))
	documents.Get("/folders", anyFirmRole, documentHandler.ListFolders)
	documents.Post("/folders", anyFirmRole, documentHandler.EnsureFolder)
	documents.Get("/", anyFirmRole, documentHandler.List)
	documents.Post("/", anyFirmRole, documentHandler.Upload)
	documents.Get("/:id/download", anyFirmRole, documentHandler.Download)
	documents.Patch("/:id/status", caRoles, documentHandler.UpdateStatus)
	documents.Delete("/:id", caRoles, documentHandler.Delete)

	// Calendar
	calendarHandler := &handlers.CalendarHandler{DB: db}
	calendar := api.Group("/calendar", authenticate, firm, can(access.CapCalendar))
	calendar.Get("/events", anyFirmRole, calendarHandler.ListEvents)
	calendar.Post("/events", caRoles, calendarHandler.CreateEvent)
	calendar.Delete("/events/:id", caRoles, calendarHandler.DeleteEvent)

	// Chat
	chatHandler := &handlers.ChatHandler{DB: db}
	chat := api.Group("/chat", authenticate, firm, anyFirmRole, can(access.CapChat))
	chat.Get("/conversations", chatHandler.ListConversations)
	chat.Post("/conversations", chatHandler.EnsureConversation)
	chat.Get("/conversations/:id/messages", chatHandler.ListMessages)
	chat.Post("/conversations/:id/messages", chatHandler.SendMessage)
	chat.Post("/messages/:id/read", chatHandler.MarkRead)

	// Notifications
	notificationHandler := &handlers.NotificationHandler{DB: db}
	notifications := api.Group("/notifications", authenticate)
	notifications.Get("/", notificationHandler.List)
	notifications.Post("/read-all", notificationHandler.MarkAllRead)
	notifications.Post("/:id/read", notificationHandler.MarkRead)

	// Users
	userHandler := &handlers.UserHandler{DB: db}
	users := api.Group("/users", authenticate)
	users.Get("/", firm, caRoles, userHandler.List)
	users.Post("/", firm, caAdmin, userHandler.Create)
	users.Patch("/:id/permissions", firm, caAdmin, userHandler.UpdatePermissions)
	users.Put("/:id", userHandler.UpdateProfile)

	// Dashboard
	dashboardHandler := &handlers.DashboardHandler{DB: db}
	dashboard := api.Group("/dashboard", authenticate, firm)
	dashboard.Get("/", caRoles, dashboardHandler.Firm)
	dashboard.Get("/client", middleware.RequireRoles(models.RoleClient), dashboardHandler.Client)

	// Platform administration
	adminHandler := &handlers.AdminHandler{DB: db}
	admin := api.Group("/admin", authenticate, middleware.RequireRoles(models.RoleSuperAdmin))
	admin.Get("/firms", adminHandler.ListFirms)
	admin.Post("/firms", adminHandler.CreateFirm)
	admin.Get("/firms/:firmId/users", adminHandler.ListUsers)
	admin.Post("/firms/:firmId/users", adminHandler.CreateUser)
	admin.Patch("/users/:id/permissions", adminHandler.UpdatePermissions)
	admin.Patch("/users/:id/password", adminHandler.ResetPassword)
	admin.Patch("/users/:id/status", adminHandler.SetStatus)
}
