package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"

	"github.com/hudumalink/hudumalink-backend/internal/config"
	"github.com/hudumalink/hudumalink-backend/internal/db"
	"github.com/hudumalink/hudumalink-backend/internal/handlers"
	"github.com/hudumalink/hudumalink-backend/internal/identity"
	"github.com/hudumalink/hudumalink-backend/internal/middleware"
	"github.com/hudumalink/hudumalink-backend/internal/models"
	"github.com/hudumalink/hudumalink-backend/internal/realtime"
	"github.com/hudumalink/hudumalink-backend/internal/services/lifecycle"
	"github.com/hudumalink/hudumalink-backend/internal/services/media"
	"github.com/hudumalink/hudumalink-backend/internal/services/rating"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	gdb, err := db.Connect(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	if err := gdb.AutoMigrate(
		&models.User{},
		&models.DesignerProfile{},
		&models.Project{},
		&models.Proposal{},
		&models.Review{},
		&models.Message{},
	); err != nil {
		log.Fatal(err)
	}

	rdb := realtime.NewRedis(cfg.RedisAddr, cfg.RedisPassword)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatal("redis not reachable:", err)
	}

	hub := realtime.NewHub()
	go hub.Run()

	provider, err := identity.New(identity.Config{
		PublicKeyPEM: cfg.IdentityPublicKeyPEM,
		APIBase:      cfg.IdentityAPIBase,
		TokenURL:     cfg.IdentityTokenURL,
		ClientID:     cfg.IdentityClientID,
		ClientSecret: cfg.IdentityClientSecret,
	})
	if err != nil {
		log.Fatal(err)
	}

	mediaSvc, err := media.New(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		log.Fatal(err)
	}

	lifecycleSvc := lifecycle.New(gdb)
	ratingSvc := rating.New(gdb)

	projectH := handlers.NewProjectHandler(gdb, lifecycleSvc)
	proposalH := handlers.NewProposalHandler(gdb, lifecycleSvc)
	reviewH := handlers.NewReviewHandler(gdb, ratingSvc)
	designerH := handlers.NewDesignerHandler(gdb)
	adminH := handlers.NewAdminHandler(gdb)
	userH := handlers.NewUserHandler(gdb)
	uploadH := handlers.NewUploadHandler(mediaSvc)
	chatH := handlers.NewChatHandler(gdb, hub, rdb)

	app := fiber.New(fiber.Config{
		BodyLimit: 15 * 1024 * 1024,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	api := app.Group("/api")

	// public
	api.Get("/designers", designerH.List)
	api.Get("/designers/:id", designerH.Get)
	api.Get("/projects/open", projectH.ListOpen)
	api.Get("/reviews/designer/:designerId", reviewH.ListForDesigner)
	api.Get("/users/:subjectId", userH.GetBySubject)

	// protected (identity-provider session token)
	protected := api.Group("/", middleware.RequireAuth(gdb, provider))

	// projects
	protected.Get("/projects/my-projects", projectH.ListMine)
	protected.Get("/projects/my-active",
		middleware.RequireRole(models.RoleDesigner),
		projectH.ListActive,
	)
	protected.Post("/projects", projectH.Create)
	protected.Get("/projects/:id", projectH.Get)
	protected.Put("/projects/:id", projectH.Update)
	protected.Patch("/projects/:id/complete", projectH.Complete)
	protected.Delete("/projects/:id",
		middleware.RequireRole(models.RoleAdmin),
		projectH.Delete,
	)
	protected.Get("/projects/:id/messages", chatH.History)

	// proposals
	protected.Post("/proposals",
		middleware.RequireRole(models.RoleDesigner),
		proposalH.Create,
	)
	protected.Get("/proposals/my",
		middleware.RequireRole(models.RoleDesigner),
		proposalH.ListMine,
	)
	protected.Get("/proposals/project/:projectId", proposalH.ListForProject)
	protected.Patch("/proposals/:id/accept", proposalH.Accept)
	protected.Patch("/proposals/:id/reject", proposalH.Reject)

	// reviews
	protected.Post("/reviews", reviewH.Create)
	protected.Get("/reviews/project/:projectId", reviewH.GetForProject)

	// designer onboarding
	protected.Post("/designers/apply", designerH.Apply)

	// uploads
	protected.Post("/upload/project-images", uploadH.ProjectImages)
	protected.Post("/upload/portfolio-images", uploadH.PortfolioImages)
	protected.Post("/upload/profile-image", uploadH.ProfileImage)
	protected.Delete("/upload", uploadH.Delete)

	// admin only
	admin := protected.Group("/admin", middleware.RequireRole(models.RoleAdmin))
	admin.Get("/stats", adminH.Stats)
	admin.Get("/designers", adminH.ListDesigners)
	admin.Get("/designers/pending", adminH.PendingDesigners)
	admin.Patch("/designers/:id/approve", adminH.Approve)
	admin.Patch("/designers/:id/reject", adminH.Reject)
	admin.Patch("/designers/:id/suspend", adminH.Suspend)
	admin.Patch("/designers/:id/verify", adminH.Verify)
	admin.Patch("/designers/:id/super-verify", adminH.SuperVerify)
	admin.Get("/users", adminH.ListUsers)
	admin.Patch("/users/:id/ban", adminH.Ban)
	admin.Get("/projects", adminH.ListProjects)

	// WebSocket endpoint, authenticated via query param
	app.Get("/ws/chat", websocket.New(chatH.WebSocketHandler))

	log.Fatal(app.Listen(":" + cfg.AppPort))
}
