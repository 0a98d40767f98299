package router

import (
	"time"

	"github.com/rushilbhatia3/FMS/internal/config"
	"github.com/rushilbhatia3/FMS/internal/handler"
	"github.com/rushilbhatia3/FMS/internal/middleware"
	"github.com/rushilbhatia3/FMS/internal/model"
	"github.com/rushilbhatia3/FMS/internal/repository"
	"github.com/rushilbhatia3/FMS/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	systemRepo := repository.NewSystemRepository(db)
	shelfRepo := repository.NewShelfRepository(db)
	itemRepo := repository.NewItemRepository(db)
	movementRepo := repository.NewMovementRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	userSvc := service.NewUserService(userRepo)
	locationSvc := service.NewLocationService(systemRepo, shelfRepo)
	itemSvc := service.NewItemService(itemRepo, shelfRepo, movementRepo)
	movementSvc := service.NewMovementService(movementRepo, itemRepo, shelfRepo)
	statusSvc := service.NewStatusService(movementRepo, itemRepo)
	exportSvc := service.NewExportService(itemRepo, movementRepo)
	importSvc := service.NewImportService(itemRepo, systemRepo, shelfRepo, movementRepo)
	settingsSvc := service.NewSettingsService(settingRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc, userSvc)
	usersH := handler.NewUsersHandler(userSvc)
	locationsH := handler.NewLocationsHandler(locationSvc)
	itemsH := handler.NewItemsHandler(itemSvc)
	movementsH := handler.NewMovementsHandler(movementSvc)
	statusH := handler.NewStatusHandler(statusSvc)
	maintenanceH := handler.NewMaintenanceHandler(exportSvc, importSvc)
	settingsH := handler.NewSettingsHandler(settingsSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/api/health", handler.Health(db, rdb))

	session := r.Group("/api/session")
	{
		session.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		session.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	adminOnly := middleware.RequireRole(model.RoleAdmin)
	api := r.Group("/api", jwtMW)
	{
		api.POST("/session/logout", authH.Logout)
		api.GET("/session/me", authH.Me)

		users := api.Group("/users", adminOnly)
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
			users.GET("/:id", usersH.Get)
			users.PUT("/:id", usersH.Update)
			users.DELETE("/:id", usersH.Deactivate)
			users.PATCH("/:id/reactivate", usersH.Reactivate)
			users.POST("/:id/reset-password", usersH.ResetPassword)
		}

		// Location hierarchy — reads for everyone, writes admin-only
		api.GET("/systems", locationsH.ListSystems)
		api.GET("/systems/:id", locationsH.GetSystem)
		systems := api.Group("/systems", adminOnly)
		{
			systems.POST("", locationsH.CreateSystem)
			systems.PUT("/:id", locationsH.UpdateSystem)
			systems.DELETE("/:id", locationsH.ArchiveSystem)
			systems.PATCH("/:id/restore", locationsH.RestoreSystem)
		}

		api.GET("/shelves", locationsH.ListShelves)
		api.GET("/shelves/:id", locationsH.GetShelf)
		shelves := api.Group("/shelves", adminOnly)
		{
			shelves.POST("", locationsH.CreateShelf)
			shelves.PUT("/:id", locationsH.UpdateShelf)
			shelves.DELETE("/:id", locationsH.ArchiveShelf)
			shelves.PATCH("/:id/restore", locationsH.RestoreShelf)
		}

		api.GET("/items", itemsH.List)
		api.GET("/items/stats", itemsH.Stats)
		api.GET("/items/:id", itemsH.Get)
		api.POST("/items", itemsH.Create)
		api.PUT("/items/:id", itemsH.Update)
		api.DELETE("/items/:id", itemsH.Archive)
		api.PATCH("/items/:id/restore", itemsH.Restore)

		movements := api.Group("/movements")
		{
			movements.GET("", movementsH.List)
			movements.GET("/:id", movementsH.Get)
			movements.POST("/receive", movementsH.Receive)
			movements.POST("/issue", movementsH.Issue)
			movements.POST("/return", movementsH.Return)
			movements.POST("/transfer", movementsH.Transfer)
			movements.POST("/adjust", adminOnly, movementsH.Adjust)
			movements.PATCH("/:id", adminOnly, movementsH.Correct)
			movements.DELETE("/:id", adminOnly, movementsH.Remove)
		}

		status := api.Group("/status")
		{
			status.GET("/item_status/:id", statusH.ItemStatus)
			status.GET("/current_out_by_holder", statusH.CurrentOutByHolder)
			status.GET("/overdue", statusH.Overdue)
		}
		api.GET("/stats/summary", statusH.StatsSummary)

		api.GET("/export", adminOnly, maintenanceH.Export)
		api.POST("/import", adminOnly, maintenanceH.Import)

		settings := api.Group("/settings", adminOnly)
		{
			settings.GET("", settingsH.Get)
			settings.PUT("", settingsH.Update)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
