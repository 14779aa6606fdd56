package config

import (
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

var once sync.Once

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Notify   NotifyConfig
	Job      JobConfig
}

// ServerConfig holds HTTP server configuration for the dashboard API
type ServerConfig struct {
	Port string
	Host string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds the optional Redis cooldown gate configuration.
// The gate falls back to the database check when Addr is empty.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// KafkaConfig holds the optional alert event stream configuration.
// Publishing is disabled when Brokers is empty.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// NotifyConfig holds notification transport configuration
type NotifyConfig struct {
	DefaultWebhookURL string
	DashboardBaseURL  string
	SMTPHost          string
	SMTPPort          int
	SMTPUser          string
	SMTPPassword      string
}

// JobConfig holds batch job tuning knobs
type JobConfig struct {
	Cooldown    time.Duration
	StockDelay  time.Duration
	HTTPTimeout time.Duration
}

func initViper() {
	once.Do(func() {
		viper.AutomaticEnv()

		viper.BindEnv("server_port", "SERVER_PORT")
		viper.BindEnv("server_host", "SERVER_HOST")
		viper.BindEnv("db_host", "DB_HOST")
		viper.BindEnv("db_port", "DB_PORT")
		viper.BindEnv("db_user", "DB_USER")
		viper.BindEnv("db_password", "DB_PASSWORD")
		viper.BindEnv("db_name", "DB_NAME")
		viper.BindEnv("db_sslmode", "DB_SSLMODE")
		viper.BindEnv("redis_addr", "REDIS_ADDR")
		viper.BindEnv("redis_password", "REDIS_PASSWORD")
		viper.BindEnv("redis_db", "REDIS_DB")
		viper.BindEnv("kafka_brokers", "KAFKA_BROKERS")
		viper.BindEnv("kafka_topic", "KAFKA_TOPIC")
		viper.BindEnv("discord_webhook_url", "DISCORD_WEBHOOK_URL")
		viper.BindEnv("dashboard_base_url", "DASHBOARD_BASE_URL")
		viper.BindEnv("smtp_host", "SMTP_HOST")
		viper.BindEnv("smtp_port", "SMTP_PORT")
		viper.BindEnv("smtp_user", "SMTP_USER")
		viper.BindEnv("smtp_password", "SMTP_PASSWORD")
		viper.BindEnv("cooldown_minutes", "COOLDOWN_MINUTES")
		viper.BindEnv("stock_delay_seconds", "STOCK_DELAY_SECONDS")
		viper.BindEnv("http_timeout_seconds", "HTTP_TIMEOUT_SECONDS")

		viper.SetDefault("server_port", "8080")
		viper.SetDefault("server_host", "0.0.0.0")
		viper.SetDefault("db_host", "localhost")
		viper.SetDefault("db_port", "5432")
		viper.SetDefault("db_user", "postgres")
		viper.SetDefault("db_password", "postgres")
		viper.SetDefault("db_name", "marketalerts")
		viper.SetDefault("db_sslmode", "disable")
		viper.SetDefault("redis_db", 0)
		viper.SetDefault("kafka_topic", "alert-events")
		viper.SetDefault("dashboard_base_url", "http://localhost:3000")
		viper.SetDefault("smtp_host", "smtp.gmail.com")
		viper.SetDefault("smtp_port", 465)
		viper.SetDefault("cooldown_minutes", 60)
		viper.SetDefault("stock_delay_seconds", 2)
		viper.SetDefault("http_timeout_seconds", 10)
	})
}

// Load reads configuration from environment variables
func Load() *Config {
	initViper()

	var brokers []string
	if v := viper.GetString("kafka_brokers"); v != "" {
		for _, b := range strings.Split(v, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}

	return &Config{
		Server: ServerConfig{
			Port: viper.GetString("server_port"),
			Host: viper.GetString("server_host"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("db_host"),
			Port:     viper.GetString("db_port"),
			User:     viper.GetString("db_user"),
			Password: viper.GetString("db_password"),
			DBName:   viper.GetString("db_name"),
			SSLMode:  viper.GetString("db_sslmode"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("redis_addr"),
			Password: viper.GetString("redis_password"),
			DB:       viper.GetInt("redis_db"),
		},
		Kafka: KafkaConfig{
			Brokers: brokers,
			Topic:   viper.GetString("kafka_topic"),
		},
		Notify: NotifyConfig{
			DefaultWebhookURL: viper.GetString("discord_webhook_url"),
			DashboardBaseURL:  viper.GetString("dashboard_base_url"),
			SMTPHost:          viper.GetString("smtp_host"),
			SMTPPort:          viper.GetInt("smtp_port"),
			SMTPUser:          viper.GetString("smtp_user"),
			SMTPPassword:      viper.GetString("smtp_password"),
		},
		Job: JobConfig{
			Cooldown:    time.Duration(viper.GetInt("cooldown_minutes")) * time.Minute,
			StockDelay:  time.Duration(viper.GetInt("stock_delay_seconds")) * time.Second,
			HTTPTimeout: time.Duration(viper.GetInt("http_timeout_seconds")) * time.Second,
		},
	}
}

// ConnectionString returns the PostgreSQL connection string
func (d *DatabaseConfig) ConnectionString() string {
	return "postgres://" + d.User + ":" + d.Password + "@" + d.Host + ":" + d.Port + "/" + d.DBName + "?sslmode=" + d.SSLMode
}
