package main

import (
	"context"
	"law_office_app_go/config"
	"law_office_app_go/db"
	"law_office_app_go/handlers"
	"law_office_app_go/middleware"
	"law_office_app_go/models"
	"law_office_app_go/services"
	"law_office_app_go/services/i18n"
	"law_office_app_go/services/jobs"
	"law_office_app_go/services/realtime"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(db.Options{
		Path:        cfg.DBPath,
		TursoURL:    cfg.TursoDatabaseURL,
		TursoToken:  cfg.TursoAuthToken,
		Environment: cfg.Environment,
	}); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if err := i18n.Load(); err != nil {
		log.Fatalf("Failed to load translations: %v", err)
	}
	i18n.SetDefaultLanguage(cfg.DefaultLanguage)

	services.InitializeStorage(cfg)
	middleware.InitAssetVersions()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Chat fan-out: Redis when configured so several instances share inserts
	var broker realtime.Broker = realtime.NewLocalBroker()
	if cfg.RedisAddr != "" {
		rb := realtime.NewRedisBroker(realtime.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword))
		if err := rb.Start(ctx); err != nil {
			log.Printf("[WARNING] Redis broker unavailable (%v), falling back to in-process delivery", err)
		} else {
			broker = rb
			log.Printf("Realtime broker connected (Redis - %s)", cfg.RedisAddr)
		}
	}
	defer broker.Close()
	handlers.InitRealtime(broker)

	scheduler, err := jobs.StartScheduler(db.DB, cfg)
	if err != nil {
		log.Fatalf("[CRON] Failed to schedule jobs: %v", err)
	}
	defer scheduler.Stop()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(echomiddleware.RequestLogger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		HSTSMaxAge:         hstsMaxAge(cfg),
		ReferrerPolicy:     "same-origin",
	}))
	e.Use(echomiddleware.BodyLimit("12M"))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: !containsWildcard(cfg.AllowedOrigins),
	}))

	// Make config available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			return next(c)
		}
	})
	e.Use(middleware.CSPNonce())
	e.Use(middleware.Locale(cfg))
	e.Use(middleware.CSRF(cfg))

	// Static files
	e.Static("/static", "static")

	// Public routes (no authentication required)
	e.GET("/", handlers.RootHandler)
	e.GET("/login", handlers.LoginHandler)
	e.POST("/login", handlers.LoginPostHandler, middleware.LoginRateLimiter.Middleware())
	e.GET("/signup", handlers.SignupHandler)
	e.POST("/signup", handlers.SignupPostHandler, middleware.SignupRateLimiter.Middleware())

	// Authenticated, may not have an office yet
	authed := e.Group("")
	authed.Use(middleware.RequireAuth())
	authed.Use(middleware.AuditContext())
	{
		authed.POST("/logout", handlers.LogoutHandler)
		authed.GET("/logout", handlers.LogoutHandler)
		authed.GET("/api/me", handlers.GetCurrentUserHandler)
	}

	// Protected routes (authentication + office required)
	protected := e.Group("")
	protected.Use(middleware.RequireAuth())
	protected.Use(middleware.RequireOffice())
	protected.Use(middleware.AuditContext())
	{
		protected.GET("/app", handlers.AppHandler)
		protected.GET("/ws", handlers.LiveHandler)
	}

	api := protected.Group("/api")
	api.Use(middleware.APIRateLimiter.Middleware())
	{
		api.GET("/cases", handlers.ListCasesHandler)
		api.POST("/cases", handlers.CreateCaseHandler)
		api.GET("/cases/next-number", handlers.NextCaseNumberHandler)
		api.GET("/cases/export", handlers.ExportCasesHandler)
		api.GET("/cases/:id", handlers.GetCaseHandler)
		api.PUT("/cases/:id", handlers.UpdateCaseHandler)
		api.GET("/cases/:id/history", handlers.CaseHistoryHandler)
		api.GET("/cases/:id/booklet.pdf", handlers.CaseBookletHandler)

		api.GET("/cases/:id/documents", handlers.ListDocumentsHandler)
		api.POST("/cases/:id/documents", handlers.CreateDocumentHandler)
		api.PUT("/cases/:id/documents/:docID", handlers.UpdateDocumentHandler)
		api.DELETE("/cases/:id/documents/:docID", handlers.DeleteDocumentHandler)

		api.GET("/cases/:id/tasks", handlers.ListTasksHandler)
		api.POST("/cases/:id/tasks", handlers.CreateTaskHandler)
		api.PUT("/cases/:id/tasks/:taskID", handlers.UpdateTaskHandler)
		api.POST("/cases/:id/tasks/:taskID/toggle", handlers.ToggleTaskHandler)
		api.DELETE("/cases/:id/tasks/:taskID", handlers.DeleteTaskHandler)

		api.GET("/cases/:id/calls", handlers.ListCallsHandler)
		api.POST("/cases/:id/calls", handlers.CreateCallHandler)
		api.PUT("/cases/:id/calls/:callID", handlers.UpdateCallHandler)
		api.DELETE("/cases/:id/calls/:callID", handlers.DeleteCallHandler)

		api.GET("/cases/:id/timeline", handlers.ListEventsHandler)
		api.POST("/cases/:id/timeline", handlers.CreateEventHandler)
		api.PUT("/cases/:id/timeline/:eventID", handlers.UpdateEventHandler)
		api.DELETE("/cases/:id/timeline/:eventID", handlers.DeleteEventHandler)
		api.POST("/cases/:id/timeline/:eventID/files", handlers.UploadEventFileHandler)
		api.GET("/cases/:id/files/:fileID", handlers.DownloadEventFileHandler)
		api.PUT("/cases/:id/files/:fileID", handlers.RenameEventFileHandler)
		api.DELETE("/cases/:id/files/:fileID", handlers.DeleteEventFileHandler)

		api.GET("/cases/:id/messages", handlers.ListMessagesHandler)
		api.POST("/cases/:id/messages", handlers.SendMessageHandler)

		api.GET("/lawyers", handlers.ListLawyersHandler)
		api.POST("/lawyers", handlers.CreateLawyerHandler)
		api.PUT("/lawyers/:id", handlers.UpdateLawyerHandler)
		api.DELETE("/lawyers/:id", handlers.DeleteLawyerHandler)

		api.GET("/case-types", handlers.ListCaseTypesHandler)
		api.POST("/case-types", handlers.CreateCaseTypeHandler)
		api.DELETE("/case-types/:id", handlers.DeleteCaseTypeHandler)

		api.GET("/templates", handlers.ListTemplatesHandler)
		api.POST("/templates", handlers.CreateTemplateHandler)
		api.GET("/templates/:id", handlers.GetTemplateHandler)
		api.PUT("/templates/:id", handlers.UpdateTemplateHandler)
		api.DELETE("/templates/:id", handlers.DeleteTemplateHandler)
		api.POST("/templates/:id/apply", handlers.ApplyTemplateHandler)

		// Admin-only routes
		adminRoutes := api.Group("/office")
		adminRoutes.Use(middleware.RequireRole(models.RoleAdmin))
		{
			adminRoutes.GET("", handlers.GetOfficeHandler)
			adminRoutes.PUT("", handlers.UpdateOfficeHandler)
			adminRoutes.GET("/members", handlers.ListMembersHandler)
			adminRoutes.POST("/members", handlers.AddMemberHandler)
			adminRoutes.DELETE("/members/:lawyerID", handlers.RemoveMemberHandler)
			adminRoutes.GET("/audit", handlers.OfficeAuditLogsHandler)
		}
	}

	// Start server
	go func() {
		log.Printf("Server starting on port %s", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
}

func hstsMaxAge(cfg *config.Config) int {
	if cfg.IsProduction() {
		return 31536000
	}
	return 0
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
