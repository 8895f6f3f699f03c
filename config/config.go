package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Booking    BookingConfig    `yaml:"booking"`
	Lock       LockConfig       `yaml:"lock"`
	Kafka      KafkaConfig      `yaml:"kafka"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// BookingConfig holds reservation policy knobs.
type BookingConfig struct {
	// AllowEarlyCheckIn permits check-in before the scheduled date.
	AllowEarlyCheckIn bool `yaml:"allow_early_check_in"`
}

// LockConfig selects the room-type lock provider. Provider "local" uses the
// in-process locker; "redis" serializes across instances.
type LockConfig struct {
	Provider      string        `yaml:"provider"`
	TTLSeconds    int           `yaml:"ttl_seconds"`
	RetryMillis   int           `yaml:"retry_millis"`
	Redis         RedisConfig   `yaml:"redis"`
	TTL           time.Duration `yaml:"-"`
	RetryInterval time.Duration `yaml:"-"`
}

// RedisConfig holds the Redis connection settings for the lock provider.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// KafkaConfig holds the booking event stream settings. Empty brokers
// disable event publishing.
type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	BookingEventsTopic string   `yaml:"booking_events_topic"`
}

// PushConfig holds the VAPID keys for staff web push notifications.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 30
	}

	if cfg.Lock.Provider == "" {
		cfg.Lock.Provider = "local"
	}
	if cfg.Lock.TTLSeconds <= 0 {
		cfg.Lock.TTLSeconds = 30
	}
	if cfg.Lock.RetryMillis <= 0 {
		cfg.Lock.RetryMillis = 50
	}
	cfg.Lock.TTL = time.Duration(cfg.Lock.TTLSeconds) * time.Second
	cfg.Lock.RetryInterval = time.Duration(cfg.Lock.RetryMillis) * time.Millisecond

	if cfg.Kafka.BookingEventsTopic == "" {
		cfg.Kafka.BookingEventsTopic = "booking-events"
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}

	return &cfg, nil
}
