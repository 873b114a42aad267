package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the typed view of configs/config.yml plus environment overrides.
type Config struct {
	Port        string
	DBPath      string
	LogLevel    string
	CORSOrigins []string
	Scheduler   SchedulerConfig
	Weather     WeatherConfig
	Alerts      AlertsConfig
	AI          AIConfig
	Uploads     UploadsConfig
	Notify      NotifyConfig
}

type SchedulerConfig struct {
	ReminderInterval time.Duration
	WeatherInterval  time.Duration
}

type WeatherConfig struct {
	APIKey          string
	BaseURL         string
	DefaultLocation string
	Timeout         time.Duration
	Concurrency     int
}

type AlertsConfig struct {
	MinLevel string
}

type AIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type UploadsConfig struct {
	Dir     string
	BaseURL string
}

type NotifyConfig struct {
	KafkaBrokers []string
	KafkaTopic   string
}

// Defaults applied before the file and environment are read.
var defaults = map[string]any{
	"port":                        "4000",
	"db.path":                     "plantbuddy.db",
	"log.level":                   "info",
	"http.cors_origins":           "*",
	"scheduler.reminder_interval": "1m",
	"scheduler.weather_interval":  "1h",
	"weather.base_url":            "https://api.openweathermap.org/data/2.5",
	"weather.default_location":    "Delhi,IN",
	"weather.timeout":             "10s",
	"weather.concurrency":         4,
	"alerts.min_level":            "warning",
	"ai.model":                    "gpt-4o-mini",
	"ai.base_url":                 "https://api.openai.com/v1",
	"uploads.dir":                 "uploads",
	"uploads.base_url":            "http://localhost:4000",
	"notify.kafka.topic":          "plant-reminders",
}

// Environment variables that override config keys.
var envBindings = map[string]string{
	"port":                        "PORT",
	"db.path":                     "DB_PATH",
	"log.level":                   "LOG_LEVEL",
	"http.cors_origins":           "CORS_ORIGINS",
	"scheduler.reminder_interval": "REMINDER_INTERVAL",
	"scheduler.weather_interval":  "WEATHER_INTERVAL",
	"weather.api_key":             "OPENWEATHER_KEY",
	"weather.base_url":            "WEATHER_BASE_URL",
	"weather.default_location":    "DEFAULT_LOCATION",
	"weather.timeout":             "WEATHER_TIMEOUT",
	"weather.concurrency":         "WEATHER_CONCURRENCY",
	"alerts.min_level":            "ALERT_MIN_LEVEL",
	"ai.api_key":                  "AI_API_KEY",
	"ai.model":                    "AI_MODEL",
	"ai.base_url":                 "AI_BASE_URL",
	"uploads.dir":                 "UPLOAD_DIR",
	"uploads.base_url":            "BASE_URL",
	"notify.kafka.brokers":        "KAFKA_BROKERS",
	"notify.kafka.topic":          "KAFKA_TOPIC",
}

var errNonPositiveInterval = errors.New("scheduler intervals must be > 0")

// Load reads the config file at path (if non-empty) or configs/config.yml
// (if present), applies environment overrides and validates the result.
func Load(path string) (Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	for k, env := range envBindings {
		if err := v.BindEnv(k, env); err != nil {
			return Config{}, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath("configs")
		v.SetConfigName("config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// an explicit path must exist; the default location is optional
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		Port:        v.GetString("port"),
		DBPath:      v.GetString("db.path"),
		LogLevel:    v.GetString("log.level"),
		CORSOrigins: splitList(v.GetStringSlice("http.cors_origins")),
		Scheduler: SchedulerConfig{
			ReminderInterval: v.GetDuration("scheduler.reminder_interval"),
			WeatherInterval:  v.GetDuration("scheduler.weather_interval"),
		},
		Weather: WeatherConfig{
			APIKey:          v.GetString("weather.api_key"),
			BaseURL:         v.GetString("weather.base_url"),
			DefaultLocation: v.GetString("weather.default_location"),
			Timeout:         v.GetDuration("weather.timeout"),
			Concurrency:     v.GetInt("weather.concurrency"),
		},
		Alerts: AlertsConfig{
			MinLevel: v.GetString("alerts.min_level"),
		},
		AI: AIConfig{
			APIKey:  v.GetString("ai.api_key"),
			Model:   v.GetString("ai.model"),
			BaseURL: v.GetString("ai.base_url"),
		},
		Uploads: UploadsConfig{
			Dir:     v.GetString("uploads.dir"),
			BaseURL: strings.TrimRight(v.GetString("uploads.base_url"), "/"),
		},
		Notify: NotifyConfig{
			KafkaBrokers: splitList(v.GetStringSlice("notify.kafka.brokers")),
			KafkaTopic:   v.GetString("notify.kafka.topic"),
		},
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Scheduler.ReminderInterval <= 0 || c.Scheduler.WeatherInterval <= 0 {
		return errNonPositiveInterval
	}
	if c.Weather.Concurrency < 1 {
		return fmt.Errorf("weather.concurrency must be >= 1, got %d", c.Weather.Concurrency)
	}
	switch strings.ToLower(strings.TrimSpace(c.Alerts.MinLevel)) {
	case "info", "warning", "critical":
	default:
		return fmt.Errorf("alerts.min_level must be info, warning or critical, got %q", c.Alerts.MinLevel)
	}
	return nil
}

// splitList flattens comma-separated entries (env vars arrive as one string).
func splitList(in []string) []string {
	var out []string
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
