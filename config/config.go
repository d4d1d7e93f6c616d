package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Policy blob stores.
const (
	PolicyStoreFile  = "file"
	PolicyStoreRedis = "redis"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	// Scheduling core
	Scheduler SchedulerConfig
	Policy    PolicyConfig

	// Infrastructure
	Redis          RedisConfig
	SQLite         SQLiteConfig
	GoogleCalendar GoogleCalendarConfig

	// Webhooks
	Webhook WebhookConfig
	Metrics MetricsConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port int
	Mode string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

// SchedulerConfig shapes each scheduling pass.
type SchedulerConfig struct {
	Timezone        string
	HorizonHours    int
	SleepStartHour  int
	SleepEndHour    int
	MaxTasksPerPass int
	TopK            int
	PreferSplitting bool
	MaxChunkHours   float64
	MinChunkHours   float64
	// BlockAllDay makes all-day calendar events occupy their day.
	BlockAllDay bool
	// RecurringBlocks are weekly commitments such as classes. Each is
	// followed by ClassBufferHours of blocked time.
	RecurringBlocks  []RecurringBlockConfig
	ClassBufferHours float64
}

// RecurringBlockConfig is one weekly block, e.g. a class on mon and wed
// from 14:00 to 15:30. An empty user_id applies it to every user.
type RecurringBlockConfig struct {
	Name     string   `mapstructure:"name"`
	UserID   string   `mapstructure:"user_id"`
	Weekdays []string `mapstructure:"weekdays"`
	Start    string   `mapstructure:"start"`
	End      string   `mapstructure:"end"`
}

// Location resolves Timezone, falling back to UTC when empty.
func (s SchedulerConfig) Location() (*time.Location, error) {
	if s.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(s.Timezone)
}

// PolicyConfig configures the per-user bandit and where it is persisted.
type PolicyConfig struct {
	Epsilon        float64
	LearningRate   float64
	HashBits       int
	CacheSize      int
	Seed           uint64
	Store          string // file or redis
	Dir            string
	BaselineUserID string
}

type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

type SQLiteConfig struct {
	Path string
}

type GoogleCalendarConfig struct {
	CredentialsPath string
	TokenPath       string
	CalendarID      string
	AttendeeEmail   string
}

// Enabled reports whether calendar credentials are configured.
func (g GoogleCalendarConfig) Enabled() bool {
	return g.CredentialsPath != ""
}

type WebhookConfig struct {
	Enabled         bool
	Secret          string
	AllowedIPs      []string
	RateLimitPerMin int
}

type MetricsConfig struct {
	Enabled bool
}

// Load loads configuration using Viper.
// Config file name: config.yaml, searched in ./config, ., /etc/timely/
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile loads configuration from path, or from the default search paths
// when path is empty. Environment variables override file values.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/timely/")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = v.GetString("environment.name")
	cfg.HTTPServer.Port = v.GetInt("http_server.port")
	cfg.HTTPServer.Mode = v.GetString("http_server.mode")
	cfg.Logger.Level = v.GetString("logger.level")
	cfg.Logger.Mode = v.GetString("logger.mode")
	cfg.Logger.Encoding = v.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = v.GetBool("logger.color_enabled")

	// Scheduler
	cfg.Scheduler.Timezone = v.GetString("scheduler.timezone")
	cfg.Scheduler.HorizonHours = v.GetInt("scheduler.horizon_hours")
	cfg.Scheduler.SleepStartHour = v.GetInt("scheduler.sleep_start_hour")
	cfg.Scheduler.SleepEndHour = v.GetInt("scheduler.sleep_end_hour")
	cfg.Scheduler.MaxTasksPerPass = v.GetInt("scheduler.max_tasks_per_pass")
	cfg.Scheduler.TopK = v.GetInt("scheduler.top_k")
	cfg.Scheduler.PreferSplitting = v.GetBool("scheduler.prefer_splitting")
	cfg.Scheduler.MaxChunkHours = v.GetFloat64("scheduler.max_chunk_hours")
	cfg.Scheduler.MinChunkHours = v.GetFloat64("scheduler.min_chunk_hours")
	cfg.Scheduler.BlockAllDay = v.GetBool("scheduler.block_all_day")
	cfg.Scheduler.ClassBufferHours = v.GetFloat64("scheduler.class_buffer_hours")
	if err := v.UnmarshalKey("scheduler.recurring_blocks", &cfg.Scheduler.RecurringBlocks); err != nil {
		return nil, fmt.Errorf("scheduler.recurring_blocks: %w", err)
	}

	// Policy
	cfg.Policy.Epsilon = v.GetFloat64("policy.epsilon")
	cfg.Policy.LearningRate = v.GetFloat64("policy.learning_rate")
	cfg.Policy.HashBits = v.GetInt("policy.hash_bits")
	cfg.Policy.CacheSize = v.GetInt("policy.cache_size")
	cfg.Policy.Seed = v.GetUint64("policy.seed")
	cfg.Policy.Store = strings.ToLower(v.GetString("policy.store"))
	cfg.Policy.Dir = v.GetString("policy.dir")
	cfg.Policy.BaselineUserID = v.GetString("policy.baseline_user_id")

	// Infrastructure
	cfg.Redis.Addr = v.GetString("redis.addr")
	cfg.Redis.Password = expandEnvVar(v, v.GetString("redis.password"))
	cfg.Redis.DB = v.GetInt("redis.db")
	cfg.Redis.KeyPrefix = v.GetString("redis.key_prefix")
	cfg.SQLite.Path = v.GetString("sqlite.path")

	cfg.GoogleCalendar.CredentialsPath = v.GetString("google_calendar.credentials_path")
	cfg.GoogleCalendar.TokenPath = v.GetString("google_calendar.token_path")
	cfg.GoogleCalendar.CalendarID = v.GetString("google_calendar.calendar_id")
	cfg.GoogleCalendar.AttendeeEmail = v.GetString("google_calendar.attendee_email")
	if googleCreds := v.GetString("google_calendar_credentials"); googleCreds != "" {
		cfg.GoogleCalendar.CredentialsPath = googleCreds
	}

	// Webhooks
	cfg.Webhook.Enabled = v.GetBool("webhook.enabled")
	cfg.Webhook.Secret = expandEnvVar(v, v.GetString("webhook.secret"))
	if webhookSecret := v.GetString("webhook_secret"); webhookSecret != "" {
		cfg.Webhook.Secret = webhookSecret
	}
	cfg.Webhook.RateLimitPerMin = v.GetInt("webhook.rate_limit_per_min")
	cfg.Webhook.AllowedIPs = splitList(v.Get("webhook.allowed_ips"))

	cfg.Metrics.Enabled = v.GetBool("metrics.enabled")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the scheduler cannot run with.
func (c *Config) Validate() error {
	s := c.Scheduler
	switch {
	case s.HorizonHours <= 0 || s.HorizonHours > 720:
		return fmt.Errorf("scheduler.horizon_hours must be within (0, 720], got %d", s.HorizonHours)
	case s.SleepStartHour < 0 || s.SleepStartHour > 23 || s.SleepEndHour < 0 || s.SleepEndHour > 23:
		return fmt.Errorf("scheduler sleep hours must be within [0, 23], got %d-%d", s.SleepStartHour, s.SleepEndHour)
	case s.MaxChunkHours <= 0 || s.MinChunkHours <= 0:
		return fmt.Errorf("scheduler chunk sizes must be positive")
	case s.MinChunkHours > s.MaxChunkHours:
		return fmt.Errorf("scheduler.min_chunk_hours (%v) exceeds max_chunk_hours (%v)", s.MinChunkHours, s.MaxChunkHours)
	case s.MaxTasksPerPass <= 0 || s.TopK <= 0:
		return fmt.Errorf("scheduler.max_tasks_per_pass and top_k must be positive")
	case s.ClassBufferHours < 0:
		return fmt.Errorf("scheduler.class_buffer_hours must not be negative, got %v", s.ClassBufferHours)
	}
	if _, err := s.Location(); err != nil {
		return fmt.Errorf("scheduler.timezone: %w", err)
	}

	p := c.Policy
	switch {
	case p.Epsilon < 0 || p.Epsilon > 1:
		return fmt.Errorf("policy.epsilon must be within [0, 1], got %v", p.Epsilon)
	case p.LearningRate <= 0:
		return fmt.Errorf("policy.learning_rate must be positive")
	case p.HashBits < 1 || p.HashBits > 24:
		return fmt.Errorf("policy.hash_bits must be within [1, 24], got %d", p.HashBits)
	}
	switch p.Store {
	case PolicyStoreFile:
		if p.Dir == "" {
			return fmt.Errorf("policy.dir is required for the file store")
		}
	case PolicyStoreRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis.addr is required for the redis policy store")
		}
	default:
		return fmt.Errorf("unknown policy.store %q", p.Store)
	}

	if c.Webhook.Enabled && c.Webhook.Secret == "" {
		return fmt.Errorf("webhook.secret is required when the webhook is enabled")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment.name", "development")
	v.SetDefault("http_server.port", 8080)
	v.SetDefault("http_server.mode", "debug")
	v.SetDefault("logger.level", "debug")
	v.SetDefault("logger.mode", "debug")
	v.SetDefault("logger.encoding", "console")
	v.SetDefault("logger.color_enabled", true)

	v.SetDefault("scheduler.timezone", "UTC")
	v.SetDefault("scheduler.horizon_hours", 168)
	v.SetDefault("scheduler.sleep_start_hour", 1)
	v.SetDefault("scheduler.sleep_end_hour", 5)
	v.SetDefault("scheduler.max_tasks_per_pass", 5)
	v.SetDefault("scheduler.top_k", 6)
	v.SetDefault("scheduler.prefer_splitting", true)
	v.SetDefault("scheduler.max_chunk_hours", 2.0)
	v.SetDefault("scheduler.min_chunk_hours", 0.5)
	v.SetDefault("scheduler.class_buffer_hours", 1.5)

	v.SetDefault("policy.epsilon", 0.2)
	v.SetDefault("policy.learning_rate", 0.5)
	v.SetDefault("policy.hash_bits", 16)
	v.SetDefault("policy.cache_size", 256)
	v.SetDefault("policy.store", PolicyStoreFile)
	v.SetDefault("policy.dir", "data/policies")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.key_prefix", "timely:policy:")
	v.SetDefault("sqlite.path", "data/timely.db")
	v.SetDefault("google_calendar.token_path", "token.json")
	v.SetDefault("google_calendar.calendar_id", "primary")

	v.SetDefault("webhook.rate_limit_per_min", 60)
	v.SetDefault("webhook.enabled", false)
	v.SetDefault("metrics.enabled", true)
}

// splitList accepts either a YAML list or a comma separated env string.
func splitList(raw any) []string {
	var items []string
	switch t := raw.(type) {
	case string:
		items = strings.Split(t, ",")
	case []any:
		for _, it := range t {
			items = append(items, fmt.Sprint(it))
		}
	case []string:
		items = t
	}

	var out []string
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	return out
}

// expandEnvVar expands values of the form ${VAR_NAME}.
func expandEnvVar(v *viper.Viper, value string) string {
	if !strings.HasPrefix(value, "${") || !strings.HasSuffix(value, "}") {
		return value
	}
	envVar := value[2 : len(value)-1]
	if envValue := v.GetString(strings.ToLower(envVar)); envValue != "" {
		return envValue
	}
	return os.Getenv(envVar)
}
