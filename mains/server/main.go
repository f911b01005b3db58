// HTTP analysis API over the engine's root move evaluation.

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Tomyyy-1337/LichessBot/config"
	"github.com/Tomyyy-1337/LichessBot/engine"
	"github.com/Tomyyy-1337/LichessBot/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := &config.Config{}
	err := cfg.Load(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("bad-config")
	}
	cfg.SetupLogging()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e := engine.NewEngine(cfg.EngineConfig())
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           server.New(e, server.DefaultRequestTimeout),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown-failed")
		}
	}()

	log.Info().Str("addr", cfg.ListenAddr).Dur("think-time", cfg.ThinkTime).Msg("server-listening")
	err = srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server-failed")
	}
	log.Info().Msg("server-stopped")
}
