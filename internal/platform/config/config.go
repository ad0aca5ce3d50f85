package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// MinContactsPerReport is the smallest attestation fan-out; consensus needs at
// least two independent contacts.
const MinContactsPerReport = 2

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string
	JWTIssuer     string
	AdminToken    string
	LogFormat     string
	LogLevel      string
	DemoMode      bool

	Database     DatabaseConfig
	Redis        RedisConfig
	Kafka        KafkaConfig
	Verification VerificationConfig
	Sweeps       SweepConfig
	RateLimit    RateLimitConfig
	SMTP         SMTPConfig
	Content      ContentConfig
}

// DatabaseConfig selects the durable store. An empty URL keeps every store in
// memory, which is what demo mode and most tests use.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type KafkaConfig struct {
	Brokers      []string
	AuditTopic   string
	RelayBatch   int
	RelayPoll    time.Duration
	CreateTopics bool
}

// VerificationConfig controls how many contacts are asked to attest and how
// many confirmations close a report.
type VerificationConfig struct {
	ContactsPerReport int
	Threshold         int
	// VerifyURL is the page contacts open from their email; the token is
	// appended as a query parameter.
	VerifyURL string
	// ContactSelector is "first_registered" or "email_first".
	ContactSelector string
}

type SweepConfig struct {
	Dwell              time.Duration
	EscalationInterval time.Duration
	OnDeathInterval    time.Duration
	OnDateInterval     time.Duration
	LeaseTTL           time.Duration
}

type RateLimitConfig struct {
	Disabled        bool
	ReportsPerHour  int
	DecisionsPerMin int
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type ContentConfig struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
// A .env file in the working directory is loaded first when present; real
// environment variables win over it.
func FromEnv() Server {
	_ = godotenv.Load()

	return Server{
		Addr:          envString("MEMENTO_ADDR", ":8080"),
		JWTSigningKey: envString("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		JWTIssuer:     envString("JWT_ISSUER", "memento"),
		AdminToken:    envString("ADMIN_API_TOKEN", "dev-admin-token"),
		LogFormat:     envString("LOG_FORMAT", "json"),
		LogLevel:      envString("LOG_LEVEL", "info"),
		DemoMode:      os.Getenv("DEMO_MODE") == "true",
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:      envList("KAFKA_BROKERS"),
			AuditTopic:   envString("KAFKA_AUDIT_TOPIC", "memento.audit"),
			RelayBatch:   envInt("OUTBOX_RELAY_BATCH", 100),
			RelayPoll:    envDuration("OUTBOX_RELAY_POLL", 2*time.Second),
			CreateTopics: envBool("KAFKA_CREATE_TOPICS", true),
		},
		Verification: VerificationConfig{
			ContactsPerReport: max(envInt("ATTESTATION_CONTACTS", MinContactsPerReport), MinContactsPerReport),
			Threshold:         envInt("ATTESTATION_THRESHOLD", 2),
			VerifyURL:         envString("VERIFY_URL", "http://localhost:8080/verify"),
			ContactSelector:   envString("CONTACT_SELECTOR", "first_registered"),
		},
		Sweeps: SweepConfig{
			Dwell:              envDuration("ESCALATION_DWELL", 72*time.Hour),
			EscalationInterval: envDuration("ESCALATION_INTERVAL", 10*time.Minute),
			OnDeathInterval:    envDuration("RELEASE_ON_DEATH_INTERVAL", 10*time.Minute),
			OnDateInterval:     envDuration("RELEASE_ON_DATE_INTERVAL", 10*time.Minute),
			LeaseTTL:           envDuration("SWEEP_LEASE_TTL", 5*time.Minute),
		},
		RateLimit: RateLimitConfig{
			Disabled:        envBool("RATE_LIMIT_DISABLED", false),
			ReportsPerHour:  envInt("RATE_LIMIT_REPORTS_PER_HOUR", 5),
			DecisionsPerMin: envInt("RATE_LIMIT_DECISIONS_PER_MIN", 20),
		},
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     envInt("SMTP_PORT", 587),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     envString("SMTP_FROM", "Memento <no-reply@memento.local>"),
		},
		Content: ContentConfig{
			Endpoint: os.Getenv("CONTENT_ENDPOINT"),
			APIKey:   os.Getenv("CONTENT_API_KEY"),
			Timeout:  envDuration("CONTENT_TIMEOUT", 10*time.Second),
		},
	}
}

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil && v > 0 {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil && v > 0 {
		return v
	}
	return def
}

func envList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
