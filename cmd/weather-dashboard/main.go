package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"weather-dashboard/config"
	"weather-dashboard/internal/cache"
	v1 "weather-dashboard/internal/controllers/http/v1"
	"weather-dashboard/internal/metrics"
	"weather-dashboard/internal/models"
	"weather-dashboard/internal/repositories"
	"weather-dashboard/internal/scheduler"
	"weather-dashboard/internal/services/weather"
	"weather-dashboard/pkg/httpserver"
	"weather-dashboard/pkg/logger"
	"weather-dashboard/pkg/observe"
)

// @title Weather Dashboard API
// @version 1.0
// @description Current conditions and 5-day forecast for up to two cities, normalized for dashboard display.

// @host localhost:8080
// @BasePath /
// @schemes http https

// @tag.name Weather
// @tag.description Current weather and forecast operations
func main() {
	ctx, cancel := context.WithCancel(context.Background())

	cnf := config.NewConfig()

	writers := []io.Writer{os.Stdout}
	if cnf.Log.FilePath != "" {
		file := logger.RotatingFile(cnf.Log.FilePath)
		defer file.Close()
		writers = append(writers, file)
	}

	var hook *observe.SentryHook
	if cnf.Log.SentryDSN != "" {
		hook = observe.NewSentryHook(cnf.App.Env, cnf.App.Name, false, cnf.Log.SentryDSN)
		writers = append(writers, hook)
	}

	l, err := logger.NewZapLogger(cnf.App.Name, cnf.App.Env, cnf.Log.Level, writers...)
	if err != nil {
		fmt.Fprintln(os.Stderr, "cannot init logger:", err)
		os.Exit(1)
	}
	if hook != nil {
		diag, err := logger.NewZapLogger(cnf.App.Name, cnf.App.Env, cnf.Log.Level, os.Stdout)
		if err != nil {
			l.Fatal("cannot init sentry diagnostics logger", map[string]any{"err": err})
		}
		hook.SetLogger(diag)
	}

	m := metrics.New()

	fetcher, err := repositories.InitWeatherFetcher(cnf, l, m)
	if err != nil {
		l.Fatal("cannot init weather provider", map[string]any{"err": err})
	}

	var reportCache weather.ReportCache
	if cnf.Cache.Enabled {
		connectCtx, connectCancel := context.WithTimeout(ctx, 5*time.Second)
		client, err := cache.Connect(connectCtx, cnf.Cache.Addr, cnf.Cache.Password, cnf.Cache.DB)
		connectCancel()
		if err != nil {
			l.Fatal("cannot connect to cache", map[string]any{"err": err})
		}
		defer client.Close()

		reportCache = cache.NewRedisClient[models.CityReport](client, l, cnf.Cache.TTL)
	}

	service := weather.NewWeatherService(fetcher, weather.NewNormalizer(time.Local), reportCache, m, l)

	var refresh *scheduler.Scheduler
	if reportCache != nil && len(cnf.Refresh.Cities) > 0 {
		refresh = scheduler.New(service, cnf.Refresh, l)
		if err := refresh.Start(ctx); err != nil {
			l.Fatal("cannot start refresh scheduler", map[string]any{"err": err})
		}
	}

	app := httpserver.InitFiberServer(cnf.App.Name, httpserver.Timeouts{
		Read:  cnf.Server.ReadTimeout,
		Write: cnf.Server.WriteTimeout,
		Idle:  cnf.Server.IdleTimeout,
	})

	v1.NewRouter(
		app,
		service,
		m,
		l,
	)

	go func() {
		if err := app.Listen(":" + cnf.Server.Port); err != nil {
			l.Fatal("cannot run the server", map[string]any{"err": err})
		}
	}()

	l.Info("application started successfully", map[string]any{
		"port":     cnf.Server.Port,
		"provider": fetcher.Name(),
		"cache":    cnf.Cache.Enabled,
	})

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer func() {
		l.Warning("stopping application services")
		signal.Stop(sigCh)
		close(sigCh)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		_ = app.ShutdownWithContext(shutdownCtx)
		if refresh != nil {
			refresh.Stop()
		}
		if hook != nil {
			hook.Flush()
		}
		_ = l.Stop()
		cancel()
	}()

	select {
	case <-sigCh:
		fmt.Println("received shutdown signal")
	case <-ctx.Done():
		fmt.Println("context cancelled")
	}
}
