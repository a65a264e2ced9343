package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"hotel-broker/config"
	auditController "hotel-broker/controllers/audit"
	bookingController "hotel-broker/controllers/booking"
	pricingController "hotel-broker/controllers/pricing"
	searchController "hotel-broker/controllers/search"
	syncController "hotel-broker/controllers/sync"
	userController "hotel-broker/controllers/user"
	provider "hotel-broker/httpServices/provider"
	"hotel-broker/logger"
	"hotel-broker/middleware"
	userModel "hotel-broker/models/user"
	"hotel-broker/quotecache"
	"hotel-broker/repository"
	bookingService "hotel-broker/services/booking"
	syncService "hotel-broker/services/sync"
	"hotel-broker/types"
)

// SetupRoutes wires every dependency and registers the HTTP surface.
func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) error {
	feedID, err := cfg.FeedID()
	if err != nil {
		return err
	}

	providerClient := provider.NewClient(cfg.ProviderBaseURL, cfg.ProviderAPIKey, cfg.ProviderAPISecret, cfg.ProviderTimeout)

	var quoteStore quotecache.Store
	if cfg.RedisAddr != "" {
		quoteStore = quotecache.NewRedisStore(redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}))
		logger.Info("Quote cache backed by Redis at " + cfg.RedisAddr)
	} else {
		quoteStore = quotecache.NewMemoryStore()
		logger.Info("Quote cache backed by in-process memory store")
	}
	quotes := quotecache.NewService(providerClient, quoteStore, feedID)

	reservations := repository.NewReservationRepository(db)
	users := repository.NewUserRepository(db)
	pricingRepo := repository.NewPricingRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)

	auditRecorder := logger.NewAuditRecorder(auditRepo)
	go auditRecorder.Process()

	coordinator := bookingService.NewCoordinator(quotes, providerClient, reservations, pricingRepo, auditRecorder, feedID)
	syncEngine := syncService.NewEngine(providerClient, catalogRepo)

	searchCtl := searchController.NewSearchController(quotes)
	bookingCtl := bookingController.NewBookingController(coordinator, reservations)
	pricingCtl := pricingController.NewPricingController(pricingRepo)
	auditCtl := auditController.NewAuditController(auditRepo)
	syncCtl := syncController.NewSyncController(syncEngine, cfg)
	userCtl := userController.NewUserController(users)

	// Index route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
			Status:  fiber.StatusOK,
			Message: "hotel-broker is up",
		})
	})

	api := app.Group("/api").Use(middleware.IsAuthenticated(cfg.JWTSecret))

	/*=============================================================================
	| Search Routes
	===============================================================================*/
	api.Get("/profile", userCtl.Profile)

	api.Post("/search", searchCtl.Search)
	api.Get("/search/session/:id", searchCtl.GetSession)

	/*=============================================================================
	| Booking Routes
	===============================================================================*/
	bookingGroup := api.Group("/booking")
	bookingGroup.Post("/create", bookingCtl.Store)
	bookingGroup.Post("/cancel", bookingCtl.Cancel)
	bookingGroup.Get("/list", bookingCtl.Index)
	bookingGroup.Get("/:id", bookingCtl.Show)
	bookingGroup.Get("/:id/upstream", middleware.RequireRoles(userModel.RoleAdmin), bookingCtl.ShowUpstream)
	bookingGroup.Post("/reconcile", middleware.RequireRoles(userModel.RoleAdmin), bookingCtl.Reconcile)

	/*=============================================================================
	| Pricing Administration Routes
	===============================================================================*/
	pricingGroup := api.Group("/pricing").Use(middleware.RequireRoles(userModel.RoleAdmin))
	pricingGroup.Post("/rules", pricingCtl.CreateRule)
	pricingGroup.Put("/rules/:id", pricingCtl.UpdateRule)
	pricingGroup.Get("/rules", pricingCtl.ListRules)
	pricingGroup.Post("/commissions", pricingCtl.CreateCommission)
	pricingGroup.Put("/commissions/:id", pricingCtl.UpdateCommission)
	pricingGroup.Get("/commissions", pricingCtl.ListCommissions)

	/*=============================================================================
	| Audit and Catalog Routes
	===============================================================================*/
	api.Get("/audit", middleware.RequireRoles(userModel.RoleAdmin), auditCtl.Index)
	api.Post("/sync", middleware.RequireRoles(userModel.RoleAdmin), syncCtl.Run)
	api.Get("/hotels/:code", syncCtl.HotelDetail)

	return nil
}
