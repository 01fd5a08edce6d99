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

	"mindcompanion/backend/internal/config"
	"mindcompanion/backend/internal/server"
	"mindcompanion/backend/internal/store"
	"mindcompanion/backend/internal/store/memstore"
	"mindcompanion/backend/internal/store/postgres"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	ctx := context.Background()

	var st store.Store
	if cfg.DatabaseURL == "" {
		log.Printf("DATABASE_URL is not set; using in-memory store")
		mem := memstore.New()
		mem.SeedCommunityFixtures(time.Now().UTC())
		st = mem
	} else {
		pg, err := postgres.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("database connect failed: %v", err)
		}
		defer pg.Close()
		// An unreachable database at boot is tolerated; requests fail
		// individually until it comes back. The pool connects lazily, so
		// schema setup is where an outage first shows up.
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Printf("database schema setup failed: %v", err)
		} else if err := pg.Ping(ctx); err != nil {
			log.Printf("database ping failed: %v", err)
		}
		st = pg
	}

	var ai server.AIClient
	if cfg.GrokAPIKey == "" {
		log.Printf("GROK_API_KEY is not set; using mock companion responses")
		ai = server.MockAIClient{Model: cfg.GrokModel}
	} else {
		ai = server.NewGrokClient(cfg)
	}

	var transcriber server.Transcriber
	if cfg.SpeechAPIKey == "" {
		log.Printf("SPEECH_API_KEY is not set; using static transcription")
		transcriber = server.StaticTranscriber{}
	} else {
		speech, err := server.NewGoogleSpeechTranscriber(ctx, cfg.SpeechAPIKey)
		if err != nil {
			log.Fatalf("speech client setup failed: %v", err)
		}
		transcriber = speech
	}

	app := server.New(cfg, st, ai, transcriber)
	httpServer := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           app.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("%s listening on http://localhost:%s", cfg.AppName, cfg.AppPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
