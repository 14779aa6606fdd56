package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/Raghucharan16/Market-Alerts/internal/api"
	"github.com/Raghucharan16/Market-Alerts/internal/config"
	"github.com/Raghucharan16/Market-Alerts/internal/database"
	"github.com/Raghucharan16/Market-Alerts/internal/quote"
)

func main() {
	migrations := flag.String("migrations", "db/migrations", "path to database migrations")
	flag.Parse()

	cfg := config.Load()

	db, err := database.New(cfg.Database.ConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(*migrations); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	resolver := quote.NewYahooResolver(cfg.Job.HTTPTimeout)
	handler := api.NewHandler(db, resolver)
	router := api.SetupRoutes(handler)

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Infof("Dashboard API listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Graceful shutdown failed: %v", err)
	}
	log.Info("Server stopped")
}
