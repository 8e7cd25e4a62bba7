package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sabyy027/portfolio/internal/auth"
	"github.com/sabyy027/portfolio/internal/config"
	"github.com/sabyy027/portfolio/internal/handlers"
	"github.com/sabyy027/portfolio/internal/logging"
	"github.com/sabyy027/portfolio/internal/service"
	"github.com/sabyy027/portfolio/internal/store"
)

var (
	cfg    config.Config
	logger *zap.Logger
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "portfolio",
		Short:        "Portfolio content API with a password-gated admin area",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if cfg, err = config.Load(); err != nil {
				return err
			}
			if cfg.App.IsDev() {
				gin.SetMode(gin.DebugMode)
			} else {
				gin.SetMode(gin.ReleaseMode)
			}
			logger, err = logging.New(cfg.Log.Level, cfg.App.IsDev())
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP server (default)",
			RunE: func(cmd *cobra.Command, args []string) error {
				return serve(cmd.Context())
			},
		},
		newMigrateCmd(),
		newSeedCmd(),
		newExportCmd(),
		newHashPasswordCmd(),
	)
	return root
}

// app holds everything the HTTP server is wired from.
type app struct {
	cfg      config.Config
	logger   *zap.Logger
	db       *sql.DB
	redis    *redis.Client
	svcs     *service.Services
	sessions auth.SessionStore
	password *auth.Checker
	salt     string
}

func newApp(ctx context.Context, cfg config.Config, logger *zap.Logger) (*app, error) {
	password, err := auth.NewChecker(cfg.Admin.PasswordHash, cfg.Admin.Password, cfg.App.IsDev(), logger)
	if err != nil {
		return nil, err
	}

	db, err := store.Open(ctx, cfg.DB.Path)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger, db: db, password: password}

	if cfg.Redis.Enabled() {
		rdb, err := newRedis(ctx, cfg.Redis)
		if err != nil {
			db.Close()
			return nil, err
		}
		a.redis = rdb
		a.sessions = auth.NewRedisStore(rdb, cfg.Admin.SessionTTL.Duration())
		logger.Info("redis enabled: sessions and list cache")
	} else {
		a.sessions = auth.NewMemoryStore(cfg.Admin.SessionTTL.Duration())
		logger.Info("redis disabled: in-memory sessions, no list cache")
	}

	a.salt = cfg.Admin.HashingSalt
	if a.salt == "" {
		if a.salt, err = generateToken(); err != nil {
			a.Close()
			return nil, err
		}
	}

	a.svcs = service.New(db, a.redis, cfg.Redis.DefaultTTL.Duration(), DefaultProfile, logger)
	return a, nil
}

func newRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func (a *app) Close() error {
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	return errors.Join(errs...)
}

func (a *app) router() *gin.Engine {
	r := gin.New()
	r.Use(logging.Recovery(a.logger), logging.Gin(a.logger))
	r.Use(cors.New(corsConfig(a.cfg.HTTP.CORSOrigins)))
	r.Use(a.visitorTrackingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		if err := a.db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "error": "database unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "env": a.cfg.App.Env})
	})
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"version": a.cfg.App.Version})
	})

	content := handlers.NewContent(a.svcs, a.logger)
	content.RegisterPublic(r.Group("/api"))
	a.setupAdminRoutes(r, content)
	return r
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Cookie"},
		ExposeHeaders: []string{"Content-Length", "Content-Type", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}

func serve(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	go a.retentionLoop(ctx, 24*time.Hour)

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.HTTP.Port,
		Handler:      a.router(),
		ReadTimeout:  cfg.HTTP.ReadTimeout.Duration(),
		WriteTimeout: cfg.HTTP.WriteTimeout.Duration(),
		IdleTimeout:  cfg.HTTP.IdleTimeout.Duration(),
		ErrorLog:     zap.NewStdLog(logger),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", server.Addr), zap.String("env", cfg.App.Env))
		logger.Info("admin access available at /admin/login")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
