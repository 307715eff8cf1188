package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultSiblingURL = "http://localhost:8080"

type Config struct {
	ServiceName string
	ServerPort  int
	LogLevel    string

	DatabaseURL     string
	DatabaseReadURL string
	DBDriver        string
	DBWriteMaxOpen  int
	DBReadMaxOpen   int

	JWTSecret     []byte
	JWTExpiration time.Duration

	AuthorizationSkip         bool
	AuthOnUnexpectedError     string
	GeofenceOnUnexpectedError string

	WorkOrderServiceURL string
	DocumentServiceURL  string
	CommentServiceURL   string
	HTTPClientTimeout   time.Duration

	KafkaBrokers       []string
	EventPublisherType string
	EventsTopic        string
	TopicPartitions    int
	TopicReplicas      int

	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	TenantSettingTTL time.Duration
}

// Load reads .env when present and falls back to the process environment.
func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env file not loaded (%v), using system environment", err)
	}

	dsn := os.Getenv("DATABASE_URL")
	brokers := CSV(os.Getenv("KAFKA_BROKERS"))
	publisher := "NONE"
	if len(brokers) > 0 {
		publisher = "KAFKA"
	}

	return &Config{
		ServiceName: EnvDefault("SERVICE_NAME", "whatsapp-service"),
		ServerPort:  EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),

		DatabaseURL:     dsn,
		DatabaseReadURL: EnvDefault("DATABASE_READ_URL", dsn),
		DBDriver:        EnvDefault("DB_DRIVER", "pgx"),
		DBWriteMaxOpen:  EnvIntDefault("DB_WRITE_MAX_OPEN", 20),
		DBReadMaxOpen:   EnvIntDefault("DB_READ_MAX_OPEN", 15),

		JWTSecret:     []byte(os.Getenv("JWT_SECRET")),
		JWTExpiration: EnvDurationDefault("JWT_EXPIRATION", 24*time.Hour),

		AuthorizationSkip:         EnvBoolDefault("AUTHORIZATION_SKIP", true),
		AuthOnUnexpectedError:     EnvDefault("AUTH_ON_UNEXPECTED_ERROR", "pass_through"),
		GeofenceOnUnexpectedError: EnvDefault("GEOFENCE_ON_UNEXPECTED_ERROR", "pass_through"),

		WorkOrderServiceURL: strings.TrimRight(EnvDefault("WORKORDER_SERVICE_URL", defaultSiblingURL), "/"),
		DocumentServiceURL:  strings.TrimRight(EnvDefault("DOCUMENT_SERVICE_URL", defaultSiblingURL), "/"),
		CommentServiceURL:   strings.TrimRight(EnvDefault("COMMENT_SERVICE_URL", defaultSiblingURL), "/"),
		HTTPClientTimeout:   EnvDurationDefault("HTTP_CLIENT_TIMEOUT", 10*time.Second),

		KafkaBrokers:       brokers,
		EventPublisherType: strings.ToUpper(EnvDefault("EVENT_PUBLISHER_TYPE", publisher)),
		EventsTopic:        EnvDefault("KAFKA_TOPIC_WHATSAPP_EVENTS", "whatsapp.events"),
		TopicPartitions:    EnvIntDefault("KAFKA_TOPIC_PARTITIONS", 3),
		TopicReplicas:      EnvIntDefault("KAFKA_TOPIC_REPLICAS", 1),

		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RedisDB:          EnvIntDefault("REDIS_DB", 0),
		TenantSettingTTL: EnvDurationDefault("TENANT_SETTINGS_CACHE_TTL", 5*time.Minute),
	}
}

func (c *Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("missing required env DATABASE_URL"))
	}
	if len(c.JWTSecret) == 0 {
		errs = append(errs, errors.New("missing required env JWT_SECRET"))
	}
	if c.EventPublisherType == "KAFKA" && len(c.KafkaBrokers) == 0 {
		errs = append(errs, fmt.Errorf("EVENT_PUBLISHER_TYPE=KAFKA requires KAFKA_BROKERS"))
	}
	return errors.Join(errs...)
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// EnvDurationDefault accepts Go durations ("90s") or plain milliseconds ("86400000").
func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
