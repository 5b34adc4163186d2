package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures everything the server needs from the environment so main
// stays lean. Optional backends (postgres, redis, kafka, federated login)
// degrade to in-memory equivalents when unset.
type Config struct {
	Addr string

	// DatabaseURL selects the postgres task/user stores when non-empty;
	// otherwise in-memory stores are used.
	DatabaseURL string

	Redis RedisConfig

	// Kafka audit sink; empty brokers means the in-process audit store.
	KafkaBrokers []string
	AuditTopic   string

	JWTSigningKey string
	TokenTTL      time.Duration

	Federated FederatedConfig
}

// RedisConfig holds connection tuning for the session store.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FederatedConfig holds the OAuth2 client used for federated sign-in.
type FederatedConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	AuthURL      string
	TokenURL     string
	UserInfoURL  string
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	addr := os.Getenv("TASKSHARE_ADDR")
	if addr == "" {
		addr = ":8000"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development default; override in production.
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	tokenTTL := durationEnv("TOKEN_TTL", time.Hour)

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = strings.Split(v, ",")
	}
	auditTopic := os.Getenv("AUDIT_TOPIC")
	if auditTopic == "" {
		auditTopic = "taskshare.audit"
	}

	return Config{
		Addr:        addr,
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     intEnv("REDIS_POOL_SIZE", 10),
			MinIdleConns: intEnv("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  durationEnv("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  durationEnv("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: durationEnv("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		KafkaBrokers:  brokers,
		AuditTopic:    auditTopic,
		JWTSigningKey: jwtSigningKey,
		TokenTTL:      tokenTTL,
		Federated: FederatedConfig{
			ClientID:     os.Getenv("FEDERATED_CLIENT_ID"),
			ClientSecret: os.Getenv("FEDERATED_CLIENT_SECRET"),
			RedirectURL:  os.Getenv("FEDERATED_REDIRECT_URL"),
			AuthURL:      envOr("FEDERATED_AUTH_URL", "https://accounts.google.com/o/oauth2/auth"),
			TokenURL:     envOr("FEDERATED_TOKEN_URL", "https://oauth2.googleapis.com/token"),
			UserInfoURL:  envOr("FEDERATED_USERINFO_URL", "https://openidconnect.googleapis.com/v1/userinfo"),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
