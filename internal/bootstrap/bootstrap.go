package bootstrap

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/rueidis"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/internhub/internal/app/controllers"
	appMigrations "github.com/yigit/internhub/internal/app/migrations"
	appRepos "github.com/yigit/internhub/internal/app/repositories"
	"github.com/yigit/internhub/internal/app/repositories/gormstore"
	appRoutes "github.com/yigit/internhub/internal/app/routes"
	appServices "github.com/yigit/internhub/internal/app/services"
	"github.com/yigit/internhub/internal/config"
	"github.com/yigit/internhub/internal/db"
	appMiddleware "github.com/yigit/internhub/internal/middleware"
	pkgAuth "github.com/yigit/internhub/internal/pkg/auth"
	"github.com/yigit/internhub/internal/pkg/email"
	"github.com/yigit/internhub/internal/pkg/filestorage"
	"github.com/yigit/internhub/internal/pkg/helpers"
	"github.com/yigit/internhub/internal/pkg/logger"
	"github.com/yigit/internhub/internal/pkg/notify"
	"github.com/yigit/internhub/internal/pkg/ratelimit"
	"github.com/yigit/internhub/internal/pkg/websocket"
	"github.com/yigit/internhub/internal/seed"
)

// Database is an opened store behind the repository interfaces
type Database struct {
	Repos *appRepos.Repositories
	// Postgres is nil for the sqlite driver
	Postgres *db.PostgresDB
	SQLite   *db.SQLiteDB
}

// Ping checks whichever driver is open
func (d *Database) Ping(ctx context.Context) error {
	if d.Postgres != nil {
		return d.Postgres.Ping(ctx)
	}
	return d.SQLite.Ping(ctx)
}

// Close releases the connection
func (d *Database) Close() {
	if d.Postgres != nil {
		d.Postgres.Close()
	}
	if d.SQLite != nil {
		d.SQLite.Close()
	}
}

// Dependencies holds all the application dependencies
type Dependencies struct {
	Services       *appServices.Services
	Controllers    appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	JWTService     *pkgAuth.JWTService
	FileStorage    *filestorage.LocalStorage
	Limiter        ratelimit.Limiter
	Dispatcher     *notify.Dispatcher
	Hub            *websocket.Hub
	Redis          rueidis.Client
	Logger         zerolog.Logger
}

// Close stops background workers and releases clients
func (d *Dependencies) Close() {
	if d.Dispatcher != nil {
		d.Dispatcher.Close()
	}
	if d.Hub != nil {
		d.Hub.Stop()
	}
	if d.Redis != nil {
		d.Redis.Close()
	}
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	level := logger.ParseLevel(cfg.Logging.Level)
	logger.Configure(logger.Config{
		Level:  level,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})

	lgr := logger.Default()
	lgr.Info().Str("logLevel", string(level)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// OpenDatabase connects the configured driver. PostgreSQL schemas come from
// the SQL migrations directory, SQLite schemas from gorm auto-migration.
func OpenDatabase(cfg *config.Config, lgr zerolog.Logger) (*Database, error) {
	switch cfg.Database.Driver {
	case "sqlite":
		lgr.Info().Str("path", cfg.Database.SQLitePath).Msg("Opening SQLite database...")
		sqlite, err := db.NewSQLiteDB(cfg.Database.SQLitePath)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to open SQLite database")
			return nil, err
		}
		return &Database{Repos: gormstore.NewRepositories(sqlite.Gorm), SQLite: sqlite}, nil
	default:
		lgr.Info().Msg("Establishing database connection...")
		pg, err := db.NewPostgresDB(cfg)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to database")
			return nil, err
		}
		lgr.Info().Msg("Database connection successfully established.")
		return &Database{Repos: appRepos.NewRepositories(pg.Pool), Postgres: pg}, nil
	}
}

// RunMigrations applies pending SQL migrations on PostgreSQL
func RunMigrations(ctx context.Context, cfg *config.Config, database *Database, lgr zerolog.Logger) error {
	if database.Postgres == nil {
		return nil
	}
	dir := cfg.Database.MigrationsDir
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		lgr.Error().Str("path", dir).Msg("Migrations directory not found")
		return fmt.Errorf("migrations directory not found at %s: %w", dir, err)
	}

	lgr.Info().Msg("Running database migrations...")
	n, err := appMigrations.NewMigrator(database.Postgres.Pool).MigrateFromDirectory(ctx, dir)
	if err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Int("applied", n).Msg("Database migrations successfully applied.")
	return nil
}

// BuildDependencies initializes storage, notification sinks, services and
// controllers.
func BuildDependencies(ctx context.Context, cfg *config.Config, database *Database, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, cfg.Server.BaseURL, int64(cfg.Server.MaxUploadMB)<<20)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	deps.Limiter = ratelimit.NewMemoryLimiter()
	if cfg.Redis.Enabled {
		deps.Redis, err = db.NewRedisClient(ctx, cfg.Redis.Addr)
		if err != nil {
			lgr.Error().Err(err).Str("addr", cfg.Redis.Addr).Msg("Failed to connect to Redis")
			return nil, err
		}
		deps.Limiter = ratelimit.NewRedisLimiter(deps.Redis, "internhub:ratelimit:")
		lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Redis connected, using shared rate limiter")
	}

	mailer := email.NewSender(email.Config{
		SendgridAPIKey: cfg.Email.SendgridAPIKey,
		FromEmail:      cfg.Email.FromEmail,
		FromName:       cfg.Email.FromName,
	}, logger.WithComponent("email"))

	deps.Hub = websocket.NewHub(logger.WithComponent("websocket"))
	go deps.Hub.Run()

	deps.Dispatcher = notify.NewDispatcher(256, notify.LogSink(), deps.Hub, notify.NewEmailSink(mailer, database.Repos.Users))
	if deps.Redis != nil {
		deps.Dispatcher.AddSink(notify.NewRedisSink(deps.Redis, cfg.Redis.Channel))
	}
	deps.Dispatcher.Start()

	deps.Services = appServices.NewServices(appServices.Deps{
		Repos:     database.Repos,
		JWT:       deps.JWTService,
		Files:     deps.FileStorage,
		Publisher: deps.Dispatcher,
		Mailer:    mailer,
		Logger:    lgr,
		DevMode:   !cfg.IsProduction(),
	})

	if err := seed.CreateDefaultData(ctx, deps.Services.Auth, cfg, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	fileURL := deps.FileStorage.URL
	svc := deps.Services
	checks := map[string]appControllers.Pinger{"database": database.Ping}
	if deps.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return deps.Redis.Do(ctx, deps.Redis.B().Ping().Build()).Error()
		}
	}
	deps.Controllers = appRoutes.Controllers{
		Auth:          appControllers.NewAuthController(svc.Auth, fileURL, lgr),
		Admin:         appControllers.NewAdminController(svc.Applications, svc.Supervisors, svc.Stats, fileURL, lgr),
		Student:       appControllers.NewStudentController(svc.Applications, svc.Tasks, svc.Stats, fileURL, lgr),
		Supervisor:    appControllers.NewSupervisorController(svc.Applications, svc.Tasks, svc.Stats, fileURL, lgr),
		Users:         appControllers.NewUserController(svc.Users, lgr),
		Files:         appControllers.NewFileController(deps.FileStorage, appControllers.FileAuthorizerFunc(svc.Applications.AuthorizeDocument), svc.Tasks, lgr),
		Health:        appControllers.NewHealthController(checks),
		Notifications: websocket.NewHandler(deps.Hub, deps.JWTService, lgr).HandleConnection,
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}
	appMiddleware.InstallValidator()

	router := gin.New()
	router.MaxMultipartMemory = int64(cfg.Server.MaxUploadMB) << 20
	router.Use(appMiddleware.Recovery(), appMiddleware.RequestLogger(), appMiddleware.CORS())

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware, appRoutes.RateLimit{
		Limiter:  deps.Limiter,
		Requests: cfg.RateLimit.Requests,
		Window:   cfg.RateLimitWindow(),
	})

	return router
}
