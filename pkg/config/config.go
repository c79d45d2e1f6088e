package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	CORS      CORSConfig
	Log       LogConfig
	Scheduler SchedulerConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SchedulerConfig carries the scoring policy and optimizer tuning. The
// capacity thresholds and band costs are policy, not physical law, so they
// are configurable; the band ordering they must preserve is enforced in the
// scheduling package.
type SchedulerConfig struct {
	UnplacedPenalty int
	Capacity        CapacityPenaltyConfig

	OptimizerMaxIterations int
	BadnessCacheTTL        time.Duration
	RescoreWorkers         int
}

// CapacityPenaltyConfig defines the four room-fit bands. Thresholds are
// expressed as attendees minus room capacity: positive means the room is
// too small, negative means it is larger than needed.
type CapacityPenaltyConfig struct {
	FarTooSmallThreshold int
	TooSmallThreshold    int
	FarTooBigThreshold   int
	TooBigThreshold      int

	FarTooSmallCost int
	TooSmallCost    int
	FarTooBigCost   int
	TooBigCost      int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Scheduler = SchedulerConfig{
		UnplacedPenalty: v.GetInt("SCHED_UNPLACED_PENALTY"),
		Capacity: CapacityPenaltyConfig{
			FarTooSmallThreshold: v.GetInt("SCHED_CAP_FAR_TOO_SMALL_THRESHOLD"),
			TooSmallThreshold:    v.GetInt("SCHED_CAP_TOO_SMALL_THRESHOLD"),
			FarTooBigThreshold:   v.GetInt("SCHED_CAP_FAR_TOO_BIG_THRESHOLD"),
			TooBigThreshold:      v.GetInt("SCHED_CAP_TOO_BIG_THRESHOLD"),
			FarTooSmallCost:      v.GetInt("SCHED_CAP_FAR_TOO_SMALL_COST"),
			TooSmallCost:         v.GetInt("SCHED_CAP_TOO_SMALL_COST"),
			FarTooBigCost:        v.GetInt("SCHED_CAP_FAR_TOO_BIG_COST"),
			TooBigCost:           v.GetInt("SCHED_CAP_TOO_BIG_COST"),
		},
		OptimizerMaxIterations: v.GetInt("SCHED_OPTIMIZER_MAX_ITERATIONS"),
		BadnessCacheTTL:        parseDuration(v.GetString("SCHED_BADNESS_CACHE_TTL"), 5*time.Minute),
		RescoreWorkers:         v.GetInt("SCHED_RESCORE_WORKERS"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "confsched")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SCHED_UNPLACED_PENALTY", 1000000)
	v.SetDefault("SCHED_CAP_FAR_TOO_SMALL_THRESHOLD", 100)
	v.SetDefault("SCHED_CAP_TOO_SMALL_THRESHOLD", 50)
	v.SetDefault("SCHED_CAP_FAR_TOO_BIG_THRESHOLD", -100)
	v.SetDefault("SCHED_CAP_TOO_BIG_THRESHOLD", -50)
	v.SetDefault("SCHED_CAP_FAR_TOO_SMALL_COST", 50000)
	v.SetDefault("SCHED_CAP_TOO_SMALL_COST", 5000)
	v.SetDefault("SCHED_CAP_FAR_TOO_BIG_COST", 2000)
	v.SetDefault("SCHED_CAP_TOO_BIG_COST", 200)
	v.SetDefault("SCHED_OPTIMIZER_MAX_ITERATIONS", 5000)
	v.SetDefault("SCHED_BADNESS_CACHE_TTL", "5m")
	v.SetDefault("SCHED_RESCORE_WORKERS", 2)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
