package main

import (
	"context"
	crypto_rand "crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mediclinic/mediclinic/internal/config"
	"github.com/mediclinic/mediclinic/internal/domain/analysis"
	"github.com/mediclinic/mediclinic/internal/domain/charts"
	"github.com/mediclinic/mediclinic/internal/domain/documents"
	"github.com/mediclinic/mediclinic/internal/domain/patient"
	"github.com/mediclinic/mediclinic/internal/platform/ai"
	"github.com/mediclinic/mediclinic/internal/platform/auth"
	"github.com/mediclinic/mediclinic/internal/platform/db"
	"github.com/mediclinic/mediclinic/internal/platform/middleware"
)

const version = "1.0.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "mediclinic-server",
		Short: "Medical dashboard API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is required to run migrations")
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is required to check migration status")
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" || os.Getenv("ENV") == "" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// Database. Absence of DATABASE_URL selects the in-memory demo store.
	ctx := context.Background()
	var pool *pgxpool.Pool
	if !cfg.DemoMode() {
		pool, err = db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		logger.Info().Msg("connected to database")
	} else {
		logger.Warn().Msg("running with in-memory demo storage, data is lost on restart")
	}

	// Repositories
	var (
		patientRepo patient.PatientRepository
		labRepo     patient.LabResultRepository
		medRepo     patient.MedicationRepository
		apptRepo    patient.AppointmentRepository
		docRepo     documents.Repository
	)
	if cfg.DemoMode() {
		patientRepo = patient.NewPatientRepoMem()
		labRepo = patient.NewLabResultRepoMem()
		medRepo = patient.NewMedicationRepoMem()
		apptRepo = patient.NewAppointmentRepoMem()
		docRepo = documents.NewRepoMem()
	} else {
		patientRepo = patient.NewPatientRepoPG(pool)
		labRepo = patient.NewLabResultRepoPG(pool)
		medRepo = patient.NewMedicationRepoPG(pool)
		apptRepo = patient.NewAppointmentRepoPG(pool)
		docRepo = documents.NewRepoPG(pool)
	}

	// Services
	analyzer := analysis.NewAnalyzer()
	docSvc := documents.NewService(docRepo, cfg.UploadDir, logger)
	var sessions patient.SessionScoper
	if pool != nil {
		sessions = db.NewSessionScoper(pool)
	}
	patientSvc := patient.NewService(patientRepo, labRepo, medRepo, apptRepo,
		&documentSourceAdapter{svc: docSvc}, analyzer, sessions)
	chartSvc := charts.NewService(analyzer)

	var aiClient *ai.Client
	if cfg.LLMEnabled() {
		aiClient = ai.NewClient(ai.ClientConfig{
			Endpoint:    cfg.LLMEndpoint,
			APIKey:      cfg.LLMAPIKey,
			Model:       cfg.LLMModel,
			MaxTokens:   cfg.LLMMaxTokens,
			Temperature: cfg.LLMTemperature,
		})
		logger.Info().Str("model", cfg.LLMModel).Msg("language model configured")
	} else {
		logger.Warn().Msg("language model not configured, explanations use fallback text")
	}
	aiSvc := ai.NewService(aiClient, logger)

	// Auth
	secret := cfg.JWTSecret
	if secret == "" {
		// Development only; Validate rejects an empty secret elsewhere.
		buf := make([]byte, 32)
		if _, err := crypto_rand.Read(buf); err != nil {
			logger.Fatal().Err(err).Msg("failed to generate dev JWT secret")
		}
		secret = hex.EncodeToString(buf)
		logger.Warn().Msg("JWT_SECRET not set, generated an ephemeral dev secret")
	}
	issuer := auth.NewIssuer(secret, time.Duration(cfg.AccessTokenTTL)*time.Minute)
	userStore := auth.NewDemoStore()
	authHandler := auth.NewHandler(userStore, issuer)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.BodyLimit(cfg.MaxUploadMB))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// API group with rate limiting
	api := e.Group("/api/v1")
	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	api.Use(middleware.RateLimit(rateLimitCfg))

	// Public routes, then everything else behind JWT
	authHandler.RegisterPublicRoutes(api)

	var authMW echo.MiddlewareFunc
	if cfg.IsDev() && cfg.JWTSecret == "" {
		authMW = auth.DevMiddleware()
	} else {
		authMW = auth.Middleware(issuer)
	}
	protected := api.Group("", authMW)

	authHandler.RegisterProtectedRoutes(protected)
	analysis.NewHandler(analyzer, aiSvc).RegisterRoutes(protected)
	patient.NewHandler(patientSvc).RegisterRoutes(protected)
	documents.NewHandler(docSvc).RegisterRoutes(protected)
	charts.NewHandler(chartSvc).RegisterRoutes(protected)
	ai.NewHandler(aiSvc).RegisterRoutes(protected)

	// Root endpoints
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"app":         cfg.AppName,
			"version":     version,
			"environment": cfg.Env,
			"status":      "operational",
			"api_endpoints": map[string]string{
				"auth":      "/api/v1/auth",
				"patients":  "/api/v1/patients",
				"analysis":  "/api/v1/analysis",
				"documents": "/api/v1/documents",
				"charts":    "/api/v1/charts",
				"ai":        "/api/v1/ai",
			},
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})
	e.GET("/health", healthHandler(cfg, pool, aiClient))
	if pool != nil {
		e.GET("/health/db", db.HealthHandler(pool))
	}
	e.GET("/demo/data", demoDataHandler)
	e.POST("/demo/analyze", demoAnalyzeHandler(aiSvc))

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Bool("demo_mode", cfg.DemoMode()).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}

func healthHandler(cfg *config.Config, pool *pgxpool.Pool, aiClient *ai.Client) echo.HandlerFunc {
	return func(c echo.Context) error {
		database := "demo"
		if pool != nil {
			database = "connected"
			if err := pool.Ping(c.Request().Context()); err != nil {
				database = "unreachable"
			}
		}
		model := "not_configured"
		if aiClient.Enabled() {
			model = "configured"
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"services": map[string]string{
				"language_model": model,
				"database":       database,
				"environment":    cfg.Env,
			},
			"version": version,
		})
	}
}

var demoLabResults = map[string]float64{
	"glucose":       145,
	"hba1c":         6.8,
	"cholesterol":   220,
	"ldl":           140,
	"hdl":           42,
	"triglycerides": 185,
	"creatinine":    1.1,
	"sodium":        140,
}

func demoDataHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"patient": map[string]interface{}{
			"id":         "demo-patient-001",
			"name":       "John Doe",
			"age":        45,
			"gender":     "male",
			"conditions": []string{"Type 2 Diabetes", "Hypertension"},
			"blood_type": "O+",
		},
		"lab_results": demoLabResults,
		"medications": []map[string]string{
			{"name": "Metformin", "dosage": "500mg", "frequency": "Twice daily", "status": "active"},
			{"name": "Lisinopril", "dosage": "10mg", "frequency": "Once daily", "status": "active"},
		},
		"vitals": map[string]interface{}{
			"blood_pressure": map[string]int{"systolic": 135, "diastolic": 85},
			"heart_rate":     72,
			"temperature":    98.6,
			"weight_kg":      85.5,
			"height_cm":      175,
		},
	})
}

func demoAnalyzeHandler(aiSvc *ai.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		summary, err := aiSvc.SummarizeLabs(c.Request().Context(), demoLabResults)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"success":   true,
			"demo_data": demoLabResults,
			"analysis":  summary,
			"note":      "This is demo analysis using sample data",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// documentSourceAdapter exposes the documents service to the patient summary
// without coupling the two domains.
type documentSourceAdapter struct {
	svc *documents.Service
}

func (a *documentSourceAdapter) RecentForPatient(ctx context.Context, patientID uuid.UUID, limit int) ([]patient.DocumentInfo, int, error) {
	docs, total, err := a.svc.ListByPatient(ctx, patientID, limit, 0)
	if err != nil {
		return nil, 0, err
	}
	infos := make([]patient.DocumentInfo, 0, len(docs))
	for _, d := range docs {
		infos = append(infos, patient.DocumentInfo{
			Filename:   d.Filename,
			UploadedAt: d.UploadedAt,
		})
	}
	return infos, total, nil
}
