package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Ansh-jadav/Movie-Review-system/internal/config"
	httpserver "github.com/Ansh-jadav/Movie-Review-system/internal/http"
	"github.com/Ansh-jadav/Movie-Review-system/internal/metadata"
	"github.com/Ansh-jadav/Movie-Review-system/internal/proxy"
	"github.com/Ansh-jadav/Movie-Review-system/internal/repository"
	"github.com/Ansh-jadav/Movie-Review-system/internal/session"
	"github.com/Ansh-jadav/Movie-Review-system/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := log.New(os.Stdout, "[criticscut] ", log.LstdFlags|log.Lshortfile)

	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	storeOpts := store.Options{
		MaxConns:    int32(cfg.DBMaxConns),
		MinConns:    int32(cfg.DBMinConns),
		ConnTimeout: time.Duration(cfg.DBConnTimeoutSecs) * time.Second,
		Logger:      logger,
	}

	st, err := store.New(dbCtx, cfg.DBURL, storeOpts)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer st.Close()

	relay, err := proxy.New(proxy.Options{
		MetadataBaseURL: cfg.OMDBBaseURL,
		MetadataKey:     cfg.OMDBKey,
		ExtendedBaseURL: cfg.TMDBBaseURL,
		ExtendedKey:     cfg.TMDBKey,
		Timeout:         time.Duration(cfg.UpstreamTimeoutSecs) * time.Second,
		Logger:          logger,
	})
	if err != nil {
		log.Fatalf("init relay: %v", err)
	}

	// The metadata client goes through the relay, same as a browser would,
	// so credentials stay in one place.
	meta, err := metadata.NewHTTPClient(cfg.ProxyBaseURL, time.Duration(cfg.UpstreamTimeoutSecs)*time.Second, cfg.UpstreamRetryOnce, logger)
	if err != nil {
		log.Fatalf("init metadata client: %v", err)
	}

	repo := repository.New(st)
	controller := session.New(meta, repo.Reviews, logger)
	defer controller.Close()

	server := httpserver.New(cfg, st, relay, controller, logger)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			serverErrCh <- err
			return
		}
		serverErrCh <- nil
	}()

	select {
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, context.Canceled) {
			log.Printf("server error: %v", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("graceful shutdown error: %v", err)
	}
}
