package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
	"github.com/workpulse/workpulse/internal/api/handler"
	customMiddleware "github.com/workpulse/workpulse/internal/api/middleware"
	"github.com/workpulse/workpulse/internal/config"
	"github.com/workpulse/workpulse/internal/repository/mongodb"
	"github.com/workpulse/workpulse/internal/repository/redis"
	"github.com/workpulse/workpulse/internal/security"
	"github.com/workpulse/workpulse/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, db *mongodb.DB, redisClient *redis.Client) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize security components
	jwtManager := security.NewJWTManager(
		cfg.Auth.JWTSecret,
		cfg.Auth.AccessTokenTTL,
		cfg.Auth.RefreshTokenTTL,
	)

	// Initialize repositories
	userRepo := mongodb.NewUserRepository(db)
	workspaceRepo := mongodb.NewWorkspaceRepository(db)
	shiftRepo := mongodb.NewShiftRepository(db)
	attendanceRepo := mongodb.NewAttendanceRepository(db)
	permissionRepo := mongodb.NewPermissionRepository(db)

	// Initialize rate limiter and summary cache
	rateLimiter := redis.NewRateLimiter(
		redisClient,
		cfg.Security.RateLimit.RequestsPerMinute,
		cfg.Security.RateLimit.Burst,
	)
	summaryCache := redis.NewSummaryCache(redisClient, cfg.Attendance.SummaryCacheTTL)

	// The attendance timezone decides which calendar day a clock event
	// belongs to.
	loc, err := time.LoadLocation(cfg.Attendance.Timezone)
	if err != nil {
		log.Warn().Str("timezone", cfg.Attendance.Timezone).Msg("unknown attendance timezone, falling back to UTC")
		loc = time.UTC
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager)
	workspaceService := service.NewWorkspaceService(workspaceRepo)
	shiftService := service.NewShiftService(shiftRepo, workspaceRepo)
	attendanceService := service.NewAttendanceService(attendanceRepo, shiftRepo, workspaceRepo, loc)
	summaryService := service.NewSummaryService(attendanceRepo, workspaceRepo, summaryCache)
	permissionService := service.NewPermissionService(permissionRepo)

	wallpaperService, err := service.NewWallpaperService(context.Background(), cfg.Wallpaper)
	if err != nil {
		log.Warn().Err(err).Msg("wallpaper search disabled")
		wallpaperService = nil
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	workspaceHandler := handler.NewWorkspaceHandler(workspaceService)
	shiftHandler := handler.NewShiftHandler(shiftService)
	attendanceHandler := handler.NewAttendanceHandler(attendanceService, summaryService)
	permissionHandler := handler.NewPermissionHandler(permissionService)
	wallpaperHandler := handler.NewWallpaperHandler(wallpaperService)

	// Auth middleware
	authMiddleware := customMiddleware.NewAuthMiddleware(jwtManager)
	rateLimitMiddleware := customMiddleware.NewRateLimitMiddleware(rateLimiter)

	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(db))

		// Auth routes (public)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Use(rateLimitMiddleware.Limit)

			// Permission catalog
			r.Get("/permissions", permissionHandler.List)

			// Wallpaper search proxy
			r.Get("/wallpapers", wallpaperHandler.Search)

			// Workspace routes
			r.Route("/workspaces", func(r chi.Router) {
				r.Get("/", workspaceHandler.List)
				r.Post("/", workspaceHandler.Create)

				r.Route("/{workspaceID}", func(r chi.Router) {
					r.Use(customMiddleware.WorkspaceContext)

					r.Get("/", workspaceHandler.Get)
					r.Patch("/", workspaceHandler.Update)
					r.Delete("/", workspaceHandler.Delete)

					// Membership
					r.Post("/members", workspaceHandler.AddMember)
					r.Delete("/members/{memberID}", workspaceHandler.RemoveMember)

					// Shift routes
					r.Route("/shifts", func(r chi.Router) {
						r.Get("/", shiftHandler.List)
						r.Post("/", shiftHandler.Create)

						r.Route("/{shiftID}", func(r chi.Router) {
							r.Get("/", shiftHandler.Get)
							r.Patch("/", shiftHandler.Update)
							r.Delete("/", shiftHandler.Delete)
						})
					})

					// Attendance routes
					r.Route("/attendance", func(r chi.Router) {
						r.Get("/today", attendanceHandler.Today)
						r.Post("/clock-in", attendanceHandler.ClockIn)
						r.Post("/break/start", attendanceHandler.StartBreak)
						r.Post("/break/end", attendanceHandler.EndBreak)
						r.Post("/clock-out", attendanceHandler.ClockOut)
						r.Get("/summary", attendanceHandler.Summary)
					})
				})
			})
		})
	})

	return r
}
