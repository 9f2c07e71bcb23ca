package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	"github.com/Skotchmaster/hugelabz/internal/config"
	"github.com/Skotchmaster/hugelabz/internal/events"
	"github.com/Skotchmaster/hugelabz/internal/httpserver"
	"github.com/Skotchmaster/hugelabz/internal/repo"
	"github.com/Skotchmaster/hugelabz/internal/search"
	"github.com/Skotchmaster/hugelabz/internal/service"
	"github.com/Skotchmaster/hugelabz/pkg/db"
	"github.com/Skotchmaster/hugelabz/pkg/middleware/csrf"
	loggingmw "github.com/Skotchmaster/hugelabz/pkg/middleware/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, gdb, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		if err := config.RequireServe(cfg); err != nil {
			_ = db.Close(gdb)
			return err
		}

		if err := repo.Migrate(gdb); err != nil {
			_ = db.Close(gdb)
			return err
		}

		var publisher events.Publisher = events.Nop{}
		var producer *events.Producer
		if len(cfg.KafkaBrokers) > 0 {
			producer, err = events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopicPrefix)
			if err != nil {
				_ = db.Close(gdb)
				return err
			}
			publisher = producer
		}

		r := &repo.GormRepo{DB: gdb}
		catalog := &service.CatalogService{Repo: r, Events: publisher}
		if cfg.ESURL != "" {
			esClient, err := search.NewClient(search.Options{URL: cfg.ESURL, User: cfg.ESUser, Password: cfg.ESPassword})
			if err != nil {
				logger.Warn("search_disabled", "error", err)
			} else {
				catalog.Index = &search.ProductIndex{Client: esClient, Name: cfg.ESIndex}
			}
		}

		e := echo.New()
		e.HideBanner = true
		e.Pre(middleware.RemoveTrailingSlash())
		e.Use(middleware.Recover(), middleware.RequestID(), loggingmw.RequestLogger(logger), middleware.Secure())
		if len(cfg.CORSOrigins) > 0 {
			e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
				AllowOrigins:     cfg.CORSOrigins,
				AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization, "X-CSRF-Token"},
				ExposeHeaders:    []string{"X-CSRF-Token"},
				AllowCredentials: true,
			}))
		}
		e.Use(csrf.Middleware(csrf.Config{
			Secure:         cfg.CookieSecure,
			TrustedOrigins: cfg.CORSOrigins,
			SkipPaths:      []string{"/api/auth/login", "/api/auth/register", "/api/auth/logout"},
		}))

		httpserver.Register(e, &httpserver.Deps{
			DB:          gdb,
			JWTSecret:   cfg.JWTAccessSecret,
			CatalogHTTP: &httpserver.CatalogHTTP{Svc: catalog},
			AuthHTTP: &httpserver.AuthHTTP{
				Svc: &service.AuthService{
					Repo:      r,
					Events:    publisher,
					JWTSecret: cfg.JWTAccessSecret,
					TokenTTL:  cfg.TokenTTL,
				},
				CookieSecure: cfg.CookieSecure,
			},
			SerialHTTP: &httpserver.SerialHTTP{Svc: &service.SerialService{Repo: r, Events: publisher}},
			LedgerHTTP: &httpserver.LedgerHTTP{Svc: &service.LedgerService{Repo: r}},
		})

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
			Handler:           e,
			ReadHeaderTimeout: 3 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		cleanup := func() {
			if err := db.Close(gdb); err != nil {
				log.Printf("db close error: %v", err)
			}
			if producer != nil {
				if err := producer.Close(); err != nil {
					log.Printf("kafka close error: %v", err)
				}
			}
		}

		serveErr := make(chan error, 1)
		go func() {
			log.Printf("listening on %s", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serveErr <- err
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case err := <-serveErr:
			cleanup()
			return fmt.Errorf("http server: %w", err)
		case <-quit:
		}

		log.Println("shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("server shutdown error: %v", err)
		}
		cleanup()

		log.Println("shutdown complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
