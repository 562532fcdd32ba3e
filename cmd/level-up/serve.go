package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/api"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/clock"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/config"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/constants"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/logging"
	"github.com/spf13/cobra"
	ginprometheus "github.com/zsais/go-gin-prometheus"
)

var (
	flagAddr       string
	flagConfigPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveFlags(serveCmd)
}

func serveFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagAddr, "addr", "", "listen address (overrides server.address)")
	cmd.Flags().StringVar(&flagConfigPath, "config", "", "game configuration file (overrides LEVELUP_CONFIG)")
}

func runServe(cmd *cobra.Command, args []string) error {
	env := loadEnvOrExit()
	defer logging.Sync()
	warnMissingEnv([]string{
		constants.EnvSessionSecret,
		constants.EnvGitHubClientID, constants.EnvGitHubClientSecret,
		constants.EnvGoogleClientID, constants.EnvGoogleClientSecret,
	})

	configPath := env.ConfigPath
	if flagConfigPath != "" {
		configPath = flagConfigPath
	}
	cfg := loadConfigOrExit(configPath)
	addr := cfg.ServerAddress
	if flagAddr != "" {
		addr = flagAddr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo := createRepositoryOrExit(env.DBPath)
	board, redisClient := createBoard(ctx, env.RedisAddr, repo)
	if redisClient != nil {
		defer redisClient.Close()
	}

	clk := clock.New()
	handler := api.NewHandler(api.Options{
		Repo:  repo,
		Rules: cfg.Rules,
		Board: board,
		Clock: clk,
		Auth: api.AuthConfig{
			SessionSecret:       env.SessionSecret,
			SessionSecureCookie: env.SessionSecureCookie,
			GitHubClientID:      env.GitHubClientID,
			GitHubClientSecret:  env.GitHubClientSecret,
			GitHubRedirectURL:   env.GitHubRedirectURL,
			GoogleClientID:      env.GoogleClientID,
			GoogleClientSecret:  env.GoogleClientSecret,
			FrontendURL:         env.FrontendURL,
		},
	})

	startStreakScanner(ctx, repo, clk, cfg.Rules.Alliance.StreakScanInterval)

	router := newRouter(env, handler)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		// For logging present a http://localhost:PORT style when address starts with ':'
		displayAddr := addr
		if len(addr) > 0 && addr[0] == ':' {
			displayAddr = "http://localhost" + addr
		}
		logging.Info("Server started", logging.Fields{constants.LogFieldAddr: displayAddr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logging.Info("Shutting down server", nil)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		logging.Error("Failed to start server", err, nil)
		return err
	}
}

func newRouter(env *config.Env, handler *api.Handler) *gin.Engine {
	router := gin.New()
	router.Use(logging.GinMiddleware(), api.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     env.AllowedOrigins(),
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{constants.HeaderContentType, constants.HeaderAuthorization},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Serves /metrics; the domain counters share the default registry.
	p := ginprometheus.NewPrometheus("gin")
	p.Use(router)

	api.RegisterRoutes(router, handler)
	return router
}
