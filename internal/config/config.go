package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host string
	Port int
}

type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime string
}

type AuthConfig struct {
	AccessSecret string
}

type ScheduleConfig struct {
	WeeksAhead             int
	DefaultStartTime       string
	DefaultDurationMinutes int
	SweepEnabled           bool
	SweepInterval          time.Duration
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	DB          DBConfig
	Auth        AuthConfig
	Schedule    ScheduleConfig
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")
	v.AutomaticEnv()

	_ = v.ReadInConfig()

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host: v.GetString("HTTP_HOST"),
			Port: v.GetInt("HTTP_PORT"),
		},
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetString("DB_CONN_MAX_LIFETIME"),
		},
		Auth: AuthConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
		},
		Schedule: ScheduleConfig{
			WeeksAhead:             v.GetInt("SCHEDULE_WEEKS_AHEAD"),
			DefaultStartTime:       v.GetString("SCHEDULE_DEFAULT_START"),
			DefaultDurationMinutes: v.GetInt("SCHEDULE_DEFAULT_DURATION"),
			SweepEnabled:           v.GetBool("SCHEDULE_SWEEP_ENABLED"),
			SweepInterval:          v.GetDuration("SCHEDULE_SWEEP_INTERVAL"),
		},
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 7090
	}
	if cfg.Schedule.WeeksAhead <= 0 {
		cfg.Schedule.WeeksAhead = 4
	}
	if cfg.Schedule.DefaultStartTime == "" {
		cfg.Schedule.DefaultStartTime = "09:00"
	}
	if cfg.Schedule.DefaultDurationMinutes <= 0 {
		cfg.Schedule.DefaultDurationMinutes = 120
	}
	if cfg.Schedule.SweepInterval <= 0 {
		cfg.Schedule.SweepInterval = time.Hour
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DB.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if cfg.Auth.AccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if _, err := time.Parse("15:04", cfg.Schedule.DefaultStartTime); err != nil {
		return fmt.Errorf("SCHEDULE_DEFAULT_START must be HH:MM: %w", err)
	}
	return nil
}
