package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"medtrack/internal/adapters/auth/token"
	"medtrack/internal/config"
	"medtrack/internal/platform/logger"
	"medtrack/internal/ports/auth"
	"medtrack/internal/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.AppName, cfg.LogLevel)

	// Auth propia: con secret => JWT; sin secret => modo dev
	// (X-Debug-User-ID), útil para levantar el servicio a mano.
	var (
		verifier auth.AuthVerifier
		issuer   auth.TokenIssuer
	)
	if strings.TrimSpace(cfg.JWTSecret) != "" {
		mgr := token.NewManager(token.Config{Secret: cfg.JWTSecret, TTL: cfg.JWTTTL})
		verifier = mgr
		issuer = mgr
	} else {
		log.Warn().Msg("sin JWT secret: auth en modo dev")
	}

	r := router.NewRouter(router.Options{
		Cfg:      cfg,
		Log:      log,
		Verifier: verifier,
		Issuer:   issuer,
	})

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Info().Str("addr", addr).Msg("starting server")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server error")
	}
}
