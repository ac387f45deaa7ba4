/*
Package main
File: main.go
Description: Server entry point. Loads the balance, builds the economy engine,
runs the 60 Hz scheduler and serves the REST API plus the real-time WebSocket hub.
*/

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

	"github.com/everforgeworks/wave-idle/internal/api"
	"github.com/everforgeworks/wave-idle/internal/config"
	"github.com/everforgeworks/wave-idle/internal/game"
)

func main() {
	// 1. Runtime configuration (.env + WAVE_* variables)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config Fail: %v", err)
	}

	// 2. Balance tables (embedded default unless WAVE_BALANCE_FILE is set)
	balance, err := game.LoadBalance(cfg.BalanceFile)
	if err != nil {
		log.Fatalf("Balance Fail: %v", err)
	}

	// 3. The engine owns the economy for the lifetime of the process
	engine := game.NewEngine(balance)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Real-Time WebSocket Hub, fed by the news feed
	hub := api.NewHub()
	go hub.Run(ctx)
	go hub.Forward(ctx, engine.News())

	// 5. THE HEARTBEAT
	// Income every tick, achievements and snapshots about once per second.
	go engine.Run(ctx, game.Schedule{
		Tick:       cfg.TickInterval(),
		Scan:       cfg.ScanInterval,
		Snapshot:   cfg.SnapshotInterval,
		OnSnapshot: hub.PublishSnapshot,
	})

	// 6. Router and Handlers
	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: corsMiddleware(api.NewRouter(engine, hub)),
	}

	go func() {
		<-ctx.Done()
		log.Println("SIGNAL: Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	// 7. Start the Server
	log.Printf("WAVE IDLE: Server live on %s", cfg.Addr)
	log.Printf("Real-time Hub: Online")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

// corsMiddleware lets a browser client served from another origin talk to the API.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
