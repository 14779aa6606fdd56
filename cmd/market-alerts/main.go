package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/Raghucharan16/Market-Alerts/internal/alert"
	"github.com/Raghucharan16/Market-Alerts/internal/config"
	"github.com/Raghucharan16/Market-Alerts/internal/database"
	"github.com/Raghucharan16/Market-Alerts/internal/job"
	"github.com/Raghucharan16/Market-Alerts/internal/kafka"
	"github.com/Raghucharan16/Market-Alerts/internal/notify"
	"github.com/Raghucharan16/Market-Alerts/internal/quote"
)

func main() {
	var (
		daemon     = flag.Bool("daemon", false, "keep running and execute a batch pass on a fixed interval")
		interval   = flag.Int("interval", 15, "minutes between batch passes in daemon mode")
		migrations = flag.String("migrations", "db/migrations", "path to database migrations")
		debug      = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	log.SetLevel(log.InfoLevel)
	if *debug {
		log.SetLevel(log.DebugLevel)
	}

	cfg := config.Load()

	db, err := database.New(cfg.Database.ConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(*migrations); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	runner := buildRunner(cfg, db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !*daemon {
		if err := runner.Run(ctx); err != nil {
			log.Fatalf("Batch pass failed: %v", err)
		}
		return
	}

	scheduler := gocron.NewScheduler(time.UTC)
	scheduler.Every(*interval).Minutes().Do(func() {
		if err := runner.Run(ctx); err != nil {
			log.Errorf("Batch pass failed: %v", err)
		}
	})
	scheduler.StartAsync()
	log.Infof("Daemon started, running every %d minutes", *interval)

	<-ctx.Done()
	scheduler.Stop()
	log.Info("Shutting down")
}

// buildRunner wires the fallback chain, cooldown gate, notifiers and the
// alert engine into one batch runner
func buildRunner(cfg *config.Config, db *database.DB) *job.Runner {
	timeout := cfg.Job.HTTPTimeout

	chain := quote.NewChain(
		quote.NewNSESource(timeout),
		quote.NewYahooSource(timeout),
		quote.NewGoogleSource(timeout),
		quote.NewYahooResolver(timeout),
	)

	var gate alert.Gate
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		gate = alert.NewRedisGate(client, cfg.Job.Cooldown)
		log.Info("Using Redis cooldown gate")
	} else {
		gate = alert.NewDBGate(db, cfg.Job.Cooldown)
	}

	var publisher alert.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		log.Infof("Publishing alert events to %s", cfg.Kafka.Topic)
	}

	var mailer alert.EmailNotifier
	if m := notify.NewMailer(cfg.Notify.SMTPHost, cfg.Notify.SMTPPort, cfg.Notify.SMTPUser, cfg.Notify.SMTPPassword); m != nil {
		mailer = m
	}

	webhook := notify.NewDiscord(timeout, cfg.Notify.DashboardBaseURL)
	engine := alert.NewEngine(db, gate, webhook, mailer, publisher, cfg.Notify.DefaultWebhookURL)

	return job.NewRunner(db, chain, engine, cfg.Job.StockDelay)
}
