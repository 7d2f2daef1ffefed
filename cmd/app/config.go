package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"wellness_tracker/internal/middleware"
	"wellness_tracker/internal/notify"
	"wellness_tracker/internal/repository"
	"wellness_tracker/internal/service"
	"wellness_tracker/pkg/logger"

	"github.com/spf13/viper"
)

const (
	configPath   = "./"
	configName   = "config"
	configFormat = "yaml"
)

type Config struct {
	Database repository.Config `mapstructure:"database"`
	Server   ServerConfig      `mapstructure:"server"`

	TelegramAuth TelegramAuthConfig `mapstructure:"telegramAuth"`

	Redis         notify.RedisConfig         `mapstructure:"redis"`
	Streak        service.StreakPolicy       `mapstructure:"streak"`
	Notifications NotificationsConfig        `mapstructure:"notifications"`
	RateLimit     middleware.RateLimitConfig `mapstructure:"rateLimit"`

	LogLevel string            `mapstructure:"logLevel"`
	LogFile  logger.FileConfig `mapstructure:"logFile"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type TelegramAuthConfig struct {
	TelegramBotToken string `mapstructure:"telegramBotToken"`
	DebugMode        bool   `mapstructure:"debugMode"`
}

type NotificationsConfig struct {
	PollInterval time.Duration `mapstructure:"pollInterval"`
	Telegram     bool          `mapstructure:"telegram"`
}

func setDefaults(v *viper.Viper) {
	policy := service.DefaultStreakPolicy()

	v.SetDefault("database.driver", repository.DriverPostgres)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "wellness")
	v.SetDefault("database.path", "wellness.db")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")

	v.SetDefault("telegramAuth.telegramBotToken", "")
	v.SetDefault("telegramAuth.debugMode", false)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.channel", notify.DefaultRedisChannel)

	v.SetDefault("streak.duplicateWindow", policy.DuplicateWindow)
	v.SetDefault("streak.continueWindow", policy.ContinueWindow)
	v.SetDefault("streak.graceWindow", policy.GraceWindow)

	v.SetDefault("notifications.pollInterval", 30*time.Second)
	v.SetDefault("notifications.telegram", false)

	v.SetDefault("rateLimit.perMinute", 30)
	v.SetDefault("rateLimit.burst", 5)

	v.SetDefault("logLevel", "info")
	v.SetDefault("logFile.path", "")
	v.SetDefault("logFile.maxSizeMB", 100)
	v.SetDefault("logFile.maxBackups", 3)
	v.SetDefault("logFile.maxAgeDays", 28)
}

// LoadConfig reads path, or ./config.yaml when path is empty. A missing
// default file is not an error: defaults and APP_ variables still apply.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(configPath)
		v.SetConfigType(configFormat)
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Streak.Validate(); err != nil {
		return nil, fmt.Errorf("invalid streak config: %w", err)
	}

	return &cfg, nil
}
