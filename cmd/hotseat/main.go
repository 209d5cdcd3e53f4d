package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/park285/hotseat-chess/internal/clock"
	appcfg "github.com/park285/hotseat-chess/internal/config"
	"github.com/park285/hotseat-chess/internal/httpapi"
	"github.com/park285/hotseat-chess/internal/msgcat"
	"github.com/park285/hotseat-chess/internal/obslog"
	"github.com/park285/hotseat-chess/internal/render"
	"github.com/park285/hotseat-chess/internal/rules"
	"github.com/park285/hotseat-chess/internal/session"
)

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(obslog.ServerDefaults()); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer obslog.Sync()
	logger := obslog.L()

	catalog, err := msgcat.New(cfg.MessagesDir)
	if err != nil {
		logger.Fatal("message catalog init failed", zap.String("dir", cfg.MessagesDir), zap.Error(err))
	}

	driver := session.NewDriver(session.Options{
		Adapter:        rules.NewAdapter(),
		Catalog:        catalog,
		Logger:         obslog.Component("session"),
		DefaultMinutes: cfg.DefaultMinutes,
		MinMinutes:     cfg.MinMinutes,
		MaxMinutes:     cfg.MaxMinutes,
		TickInterval:   cfg.TickInterval,
		StartFEN:       cfg.StartFEN,
		NewTicker:      clock.NewWallTicker,
	})

	srv, err := httpapi.NewServer(driver, render.NewPNGRenderer(), catalog, obslog.Component("http"))
	if err != nil {
		logger.Fatal("http server init failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	driverDone := make(chan error, 1)
	go func() { driverDone <- driver.Run(ctx) }()

	serveDone := make(chan error, 1)
	go func() { serveDone <- srv.Listen(cfg.Addr) }()

	var errs error
	select {
	case <-ctx.Done():
		logger.Info("shutdown_signal")
	case err := <-serveDone:
		if err != nil {
			errs = multierror.Append(errs, err)
		}
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Close(shutdownCtx); err != nil {
		errs = multierror.Append(errs, err)
	}
	if err := <-driverDone; err != nil && !errors.Is(err, context.Canceled) {
		errs = multierror.Append(errs, err)
	}
	if errs != nil {
		logger.Error("shutdown_failed", zap.Error(errs))
		obslog.Sync()
		os.Exit(1)
	}
	logger.Info("shutdown_complete")
}
