package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"brk-portal/internal/authapi"
	"brk-portal/internal/cacheapi"
	"brk-portal/internal/config"
	"brk-portal/internal/leads"
	"brk-portal/internal/logger"
	"brk-portal/internal/portal"
	"brk-portal/internal/server"
	"brk-portal/internal/sheets"
	"brk-portal/internal/tgbot"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Error("config: %v", err)
		os.Exit(1)
	}

	cache := cacheapi.New(cfg.CacheAPIURL, cfg.HTTPTimeout)
	api, err := authapi.New(cfg.APIURL, cfg.HTTPTimeout)
	if err != nil {
		logger.Error("auth api: %v", err)
		os.Exit(1)
	}

	// leads are mirrored to the sheet only when it is configured
	var sink leads.Sink
	if cfg.SheetsEnabled() {
		sh, err := sheets.New(cfg.GoogleServiceAccountJSON, cfg.SpreadsheetID)
		if err != nil {
			logger.Warning("sheets disabled: %v", err)
		} else {
			sink = sh
			logger.Success("lead mirror: spreadsheet %s", sh.SpreadsheetID())
		}
	}
	leadSvc := leads.NewService(api, sink, "web")

	svc := portal.New(cache, cfg.Location())
	httpSrv := server.New(cfg, svc, leadSvc).HTTP()

	// Start HTTP server
	go func() {
		logger.Info("HTTP listening on %s", cfg.HTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server: %v", err)
			os.Exit(1)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())

	// Start Telegram
	botDone := make(chan struct{})
	if !cfg.BotEnabled() {
		close(botDone)
	} else {
		botApp, err := tgbot.New(cfg.TelegramToken, svc, leadSvc.WithSource("telegram"))
		if err != nil {
			logger.Error("telegram: %v", err)
			os.Exit(1)
		}
		go func() {
			defer close(botDone)
			if err := botApp.Run(ctx); err != nil && ctx.Err() == nil {
				logger.Warning("bot stopped: %v", err)
			}
		}()
		logger.Success("telegram bot started")
	}

	// Graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("shutting down...")

	cancel()
	ctxTimeout, cancel2 := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel2()
	_ = httpSrv.Shutdown(ctxTimeout)
	if !waitDone(ctxTimeout, botDone) {
		logger.Warning("telegram bot did not stop in time")
	}

	logger.Info("bye")
}

// waitDone blocks until done is closed or ctx ends, reporting which.
func waitDone(ctx context.Context, done <-chan struct{}) bool {
	select {
	case <-done:
		return true
	case <-ctx.Done():
		return false
	}
}
