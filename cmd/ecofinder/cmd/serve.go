package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/donaldgifford/ecofinder/api/openapi"
	"github.com/donaldgifford/ecofinder/internal/api/handlers"
	mw "github.com/donaldgifford/ecofinder/internal/api/middleware"
	"github.com/donaldgifford/ecofinder/internal/notify"
	"github.com/donaldgifford/ecofinder/internal/scheduler"
	"github.com/donaldgifford/ecofinder/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server and token keep-alive scheduler",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	log := a.log
	cfg := a.cfg

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	httpLog := logger.Component(log, "http")
	e.Use(
		mw.RequestLog(httpLog),
		mw.Recovery(httpLog),
		mw.Metrics(),
		echomw.ContextTimeoutWithConfig(echomw.ContextTimeoutConfig{
			Timeout: cfg.Server.RequestTimeout,
		}),
	)

	handlers.RegisterHealthRoutes(e, handlers.NewHealthHandler(a.store))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	openapi.New(e, Version, openapi.Handlers{
		Search:   handlers.NewSearchHandler(a.pipeline, log),
		Identity: handlers.NewIdentityHandler(a.client, log),
		Quota:    handlers.NewQuotaHandler(a.limiter),
	})
	handlers.RegisterPageRoutes(e, handlers.NewPageHandler(a.pipeline, a.catalog, log))

	if interval := cfg.Schedule.TokenKeepaliveInterval; interval > 0 {
		sched, err := scheduler.New(
			a.tokens,
			interval,
			newNotifier(a),
			cfg.Meli.Site,
			logger.Component(log, "scheduler"),
		)
		if err != nil {
			return fmt.Errorf("creating scheduler: %w", err)
		}
		sched.Start()
		defer func() { <-sched.Stop().Done() }()
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("starting server", "addr", addr, "site", cfg.Meli.Site, "credentials", cfg.Credentials.Backend)

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	log.Info("server stopped")
	return nil
}

func newNotifier(a *app) notify.Notifier {
	d := a.cfg.Notifications.Discord
	if d.Enabled {
		return notify.NewDiscordNotifier(d.WebhookURL)
	}
	return notify.NewNoOpNotifier(logger.Component(a.log, "notify"))
}
