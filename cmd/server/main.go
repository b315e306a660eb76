package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/skillforge/skillforge-backend/internal/clients/insight"
	"github.com/skillforge/skillforge-backend/internal/clients/progresscache"
	"github.com/skillforge/skillforge-backend/internal/data/db"
	"github.com/skillforge/skillforge-backend/internal/data/repos"
	httpServer "github.com/skillforge/skillforge-backend/internal/http"
	"github.com/skillforge/skillforge-backend/internal/http/handlers"
	"github.com/skillforge/skillforge-backend/internal/http/middleware"
	"github.com/skillforge/skillforge-backend/internal/modules/progression"
	"github.com/skillforge/skillforge-backend/internal/observability"
	"github.com/skillforge/skillforge-backend/internal/platform/envutil"
	"github.com/skillforge/skillforge-backend/internal/platform/logger"
	"github.com/skillforge/skillforge-backend/internal/services"
)

func main() {
	log, err := logger.New(envutil.Str("LOG_MODE", "development"))
	if err != nil {
		fmt.Printf("failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()

	shutdownTracing := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "skillforge",
		Environment: envutil.Str("APP_ENV", "development"),
		Version:     envutil.Str("APP_VERSION", "dev"),
	})
	if shutdownTracing != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdownTracing(shutdownCtx)
		}()
	}

	jwtSecretKey := envutil.Str("JWT_SECRET_KEY", "")
	if jwtSecretKey == "" {
		log.Fatal("JWT_SECRET_KEY is required")
	}
	accessTTL := time.Duration(envutil.Int("ACCESS_TOKEN_TTL", 3600)) * time.Second
	refreshTTL := time.Duration(envutil.Int("REFRESH_TOKEN_TTL", 86400)) * time.Second

	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("postgres init failed", "error", err)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Fatal("postgres automigration failed", "error", err)
	}
	handle := postgresService.DB()

	// Repos
	userRepo := repos.NewUserRepo(handle, log)
	userTokenRepo := repos.NewUserTokenRepo(handle, log)
	courseRepo := repos.NewCourseRepo(handle, log)
	enrollmentRepo := repos.NewEnrollmentRepo(handle, log)
	completionRepo := repos.NewLessonCompletionRepo(handle, log)
	summaryRepo := repos.NewQuizSummaryRepo(handle, log)
	certificateRepo := repos.NewCertificateRepo(handle, log)

	// Services
	authService := services.NewAuthService(handle, log, userRepo, userTokenRepo, jwtSecretKey, accessTTL, refreshTTL)
	userService := services.NewUserService(handle, log, userRepo)
	catalogService := services.NewCatalogService(handle, log, courseRepo)

	if seedDir := envutil.Str("COURSE_SEED_DIR", ""); seedDir != "" {
		created, err := catalogService.SeedFromDir(ctx, seedDir)
		if err != nil {
			log.Fatal("course seed failed", "dir", seedDir, "error", err)
		}
		log.Info("course catalog seeded", "dir", seedDir, "created", created)
	}

	// Optional collaborators: the engine works without any of them.
	deps := progression.UsecasesDeps{
		DB:           handle,
		Log:          log,
		Users:        userRepo,
		Courses:      courseRepo,
		Enrollments:  enrollmentRepo,
		Completions:  completionRepo,
		Summaries:    summaryRepo,
		Certificates: certificateRepo,
	}
	if cache, err := progresscache.New(log); err != nil {
		log.Warn("progress cache disabled", "error", err)
	} else {
		defer cache.Close()
		deps.Cache = cache
	}
	if client, err := insight.New(log); err != nil {
		log.Warn("insight client disabled", "error", err)
	} else {
		deps.Insight = client
	}
	if renderer, err := services.NewCertificateService(log); err != nil {
		log.Warn("certificate rendering disabled", "error", err)
	} else {
		deps.Renderer = renderer
	}
	progressionUsecases := progression.NewUsecases(deps)

	server := httpServer.NewServer(httpServer.RouterConfig{
		Log:             log,
		AuthMiddleware:  middleware.NewAuthMiddleware(log, authService),
		AuthHandler:     handlers.NewAuthHandler(log, authService),
		UserHandler:     handlers.NewUserHandler(log, userService),
		CourseHandler:   handlers.NewCourseHandler(log, catalogService),
		ProgressHandler: handlers.NewProgressHandler(log, progressionUsecases),
		QuizHandler:     handlers.NewQuizHandler(log, progressionUsecases),
		HealthHandler:   handlers.NewHealthHandler(),
	})

	addr := ":" + envutil.Str("PORT", "8080")
	log.Info("starting http server", "addr", addr)
	if err := server.Run(addr); err != nil {
		log.Fatal("http server exited", "error", err)
	}
}
