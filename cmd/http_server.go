package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/wishlist-management/internal"
	"github.com/frahmantamala/wishlist-management/internal/audit"
	"github.com/frahmantamala/wishlist-management/internal/auth"
	authPostgres "github.com/frahmantamala/wishlist-management/internal/auth/postgres"
	"github.com/frahmantamala/wishlist-management/internal/core/events"
	"github.com/frahmantamala/wishlist-management/internal/group"
	groupPostgres "github.com/frahmantamala/wishlist-management/internal/group/postgres"
	"github.com/frahmantamala/wishlist-management/internal/invitation"
	invitationPostgres "github.com/frahmantamala/wishlist-management/internal/invitation/postgres"
	"github.com/frahmantamala/wishlist-management/internal/list"
	listPostgres "github.com/frahmantamala/wishlist-management/internal/list/postgres"
	"github.com/frahmantamala/wishlist-management/internal/mailer"
	"github.com/frahmantamala/wishlist-management/internal/permission"
	permissionPostgres "github.com/frahmantamala/wishlist-management/internal/permission/postgres"
	"github.com/frahmantamala/wishlist-management/internal/reservation"
	reservationPostgres "github.com/frahmantamala/wishlist-management/internal/reservation/postgres"
	"github.com/frahmantamala/wishlist-management/internal/transport/middleware"
	"github.com/frahmantamala/wishlist-management/internal/transport/rest"
	"github.com/frahmantamala/wishlist-management/internal/user"
	userPostgres "github.com/frahmantamala/wishlist-management/internal/user/postgres"
	"github.com/frahmantamala/wishlist-management/internal/wish"
	wishPostgres "github.com/frahmantamala/wishlist-management/internal/wish/postgres"
	"github.com/frahmantamala/wishlist-management/pkg/logger"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Router *chi.Mux
	Mailer *mailer.Client
	Logger *slog.Logger

	AuthHandler        *auth.Handler
	UserHandler        *user.Handler
	ListHandler        *list.Handler
	WishHandler        *wish.Handler
	GroupHandler       *group.Handler
	ReservationHandler *reservation.Handler
	InvitationHandler  *invitation.Handler
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		// Drain queued invitation mail before the process exits.
		deps.Mailer.Shutdown()
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func setupRoutes(deps *Dependencies) {
	rateCfg := middleware.RateLimitConfig{}
	if deps.Config.RateLimit.Enabled {
		rateCfg.RequestsPerSecond = deps.Config.RateLimit.RequestsPerSecond
		rateCfg.Burst = deps.Config.RateLimit.Burst
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB,
		deps.AuthHandler, deps.UserHandler, deps.ListHandler, deps.WishHandler,
		deps.GroupHandler, deps.ReservationHandler, deps.InvitationHandler,
		rateCfg, deps.Logger)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.InitFromConfig(config.Observability.Logging.Level, config.Observability.Logging.Format)
	log := logger.LoggerWrapper()

	if err := validateOpenAPISpec(config.Server.OpenAPIPath); err != nil {
		// The document is served for readers only, so boot continues.
		log.Warn("openapi document validation failed", "path", config.Server.OpenAPIPath, "error", err)
	}

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm over pgx pool: %w", err)
	}

	eventBus := events.NewEventBus(log)
	audit.NewEventHandler(log).RegisterEventHandlers(eventBus)

	mailClient := mailer.NewClient(mailer.Config{
		APIURL:        config.Mailer.APIURL,
		APIKey:        config.Mailer.APIKey,
		FromAddress:   config.Mailer.FromAddress,
		InviteBaseURL: config.Mailer.InviteBaseURL,
		SendTimeout:   config.Mailer.SendTimeout,
		MaxWorkers:    config.Mailer.MaxWorkers,
		JobQueueSize:  config.Mailer.QueueSize,
	}, log)

	hasher := auth.NewPasswordHasher(config.Security.BCryptCost)
	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)

	permissionService := permission.NewService(permissionPostgres.NewPermissionRepository(gormDB), log)

	authService := auth.NewService(authPostgres.NewRepository(gormDB), tokenGen, config.Security.BCryptCost)
	userService := user.NewService(userPostgres.NewUserRepository(gormDB), hasher, log)
	listService := list.NewService(listPostgres.NewListRepository(gormDB), permissionService, hasher, eventBus, log)
	wishService := wish.NewService(wishPostgres.NewWishRepository(gormDB), permissionService, hasher, log)
	groupService := group.NewService(groupPostgres.NewGroupRepository(gormDB), permissionService, log)
	reservationService := reservation.NewService(reservationPostgres.NewReservationRepository(gormDB), permissionService, eventBus, log)
	invitationService := invitation.NewService(invitationPostgres.NewInvitationRepository(gormDB), permissionService, mailClient, eventBus, log)

	return &Dependencies{
		Config: config,
		DB:     db,
		Router: chi.NewRouter(),
		Mailer: mailClient,
		Logger: log,

		AuthHandler:        auth.NewHandler(authService),
		UserHandler:        user.NewHandler(userService),
		ListHandler:        list.NewHandler(listService),
		WishHandler:        wish.NewHandler(wishService),
		GroupHandler:       group.NewHandler(groupService),
		ReservationHandler: reservation.NewHandler(reservationService),
		InvitationHandler:  invitation.NewHandler(invitationService),
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// validateOpenAPISpec loads and validates the served API document.
func validateOpenAPISpec(path string) error {
	if path == "" {
		path = "api/openapi.yml"
	}
	ctx := context.Background()
	loader := &openapi3.Loader{Context: ctx, IsExternalRefsAllowed: true}
	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return fmt.Errorf("load openapi spec: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return fmt.Errorf("validate openapi spec: %w", err)
	}
	return nil
}
