package routes

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"

	controller "orgst/controllers"
	"orgst/middleware"
)

func SetupAuthRoutes(app *fiber.App, db *gorm.DB) {
	invitationController := controller.NewInvitationController(db, log.New(os.Stdout, "INVITE: ", log.LstdFlags))

	// Auth routes group with logging middleware
	auth := app.Group("/auth", logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Public auth endpoints
	auth.Post("/token", middleware.InviteRateLimiter(), controller.Login)
	auth.Post("/refresh", controller.RefreshToken)

	// Protected auth endpoints (require valid JWT)
	protectedAuth := auth.Group("", middleware.Protected())
	protectedAuth.Post("/logout", controller.Logout)
	protectedAuth.Post("/change-password", controller.ChangePassword)

	// Public invitation endpoints: the invitee has no account yet
	invitations := app.Group("/invitations", middleware.InviteRateLimiter())
	invitations.Get("/validate", invitationController.ValidateInvitation)
	invitations.Post("/accept", invitationController.AcceptInvitation)

	log.Println("Auth routes initialized successfully")
}

func SetupAPIRoutes(app *fiber.App, db *gorm.DB) {
	invitationController := controller.NewInvitationController(db, log.New(os.Stdout, "INVITE: ", log.LstdFlags))
	projectController := controller.NewProjectController(db, log.New(os.Stdout, "PROJECT: ", log.LstdFlags))
	kanbanController := controller.NewKanbanController(db, log.New(os.Stdout, "KANBAN: ", log.LstdFlags))
	memberController := controller.NewMemberController(db, log.New(os.Stdout, "MEMBER: ", log.LstdFlags))
	docController := controller.NewDocController(db, log.New(os.Stdout, "DOCS: ", log.LstdFlags))

	// API group with versioning and protection
	api := app.Group("/api/v1", middleware.Protected(), middleware.ForcePasswordChange(), logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	api.Get("/me", controller.GetCurrentUser)

	// Invitation management
	invitation := api.Group("/invitations")
	invitation.Post("/", invitationController.CreateInvitation)
	invitation.Get("/", invitationController.ListInvitations)
	invitation.Post("/:id/provision", invitationController.ProvisionInvitation)
	invitation.Post("/:id/revoke", invitationController.RevokeInvitation)

	// Project and board routes
	project := api.Group("/projects")
	project.Post("/", projectController.CreateProject)
	project.Get("/", projectController.ListProjects)
	project.Get("/:id/board", projectController.GetBoard)
	project.Put("/:id/board/columns/reorder", kanbanController.ReorderColumns)
	project.Post("/:id/tasks", kanbanController.CreateTask)

	api.Post("/tasks/:id/move", kanbanController.MoveTask)

	// Member directory
	api.Get("/skills", memberController.ListSkills)
	member := api.Group("/members")
	member.Get("/", memberController.ListMembers)
	member.Get("/:id", memberController.GetMember)
	api.Put("/me/skills", memberController.UpdateMySkills)

	// Wiki documents
	docs := api.Group("/docs")
	docs.Post("/", docController.CreateDocument)
	docs.Get("/", docController.ListDocuments)
	docs.Get("/:slug", docController.GetDocument)
	docs.Post("/:slug/versions", docController.AddVersion)

	log.Println("API routes initialized successfully")
}

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	SetupAuthRoutes(app, db)
	SetupAPIRoutes(app, db)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "Not Found",
			"message": "The requested resource was not found",
		})
	})
}
