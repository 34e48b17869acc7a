package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// 目錄與排名來源的驅動名稱
const (
	CatalogDriverMemory = "memory"
	CatalogDriverRedis  = "redis"

	RankingDriverHTTP    = "http"
	RankingDriverOverlap = "overlap"
)

// Config 應用配置
type Config struct {
	App         AppConfig       `mapstructure:"app"`
	Server      ServerConfig    `mapstructure:"server"`
	Telegram    TelegramConfig  `mapstructure:"telegram"`
	Catalog     CatalogConfig   `mapstructure:"catalog"`
	Ranking     RankingConfig   `mapstructure:"ranking"`
	Dialogue    DialogueConfig  `mapstructure:"dialogue"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
	DedupWindow time.Duration   `mapstructure:"dedup_window"`
	DedupSize   int             `mapstructure:"dedup_size"`
	LogLevel    string          `mapstructure:"log_level"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`
}

// TelegramConfig Telegram Bot 設定
type TelegramConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Token   string        `mapstructure:"token"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// CatalogConfig 食材目錄設定
type CatalogConfig struct {
	Driver        string `mapstructure:"driver"`
	SeedFile      string `mapstructure:"seed_file"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	KeyPrefix     string `mapstructure:"key_prefix"`
	SeedOnStart   bool   `mapstructure:"seed_on_start"`
}

// RankingConfig 食譜排名設定
type RankingConfig struct {
	Driver  string        `mapstructure:"driver"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	Limit   int           `mapstructure:"limit"`
}

// DialogueConfig 對話設定
type DialogueConfig struct {
	PageSize int `mapstructure:"page_size"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// 加載 .env 文件（不存在時只使用環境變數與預設值）
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()

	// 設定預設值
	setDefaults(v)

	// 設定環境變數前綴
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 綁定環境變量
	_ = v.BindEnv("telegram.token", "TELEGRAM_BOT_TOKEN")
	_ = v.BindEnv("telegram.enabled", "TELEGRAM_ENABLED")
	_ = v.BindEnv("catalog.driver", "CATALOG_DRIVER")
	_ = v.BindEnv("catalog.seed_file", "CATALOG_SEED_FILE")
	_ = v.BindEnv("catalog.redis_addr", "REDIS_ADDR")
	_ = v.BindEnv("catalog.redis_password", "REDIS_PASSWORD")
	_ = v.BindEnv("ranking.driver", "RANKING_DRIVER")
	_ = v.BindEnv("ranking.base_url", "RANKING_BASE_URL")
	_ = v.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	_ = v.BindEnv("rate_limit.requests", "RATE_LIMIT_REQUESTS")
	_ = v.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	_ = v.BindEnv("dedup_window", "DEDUP_WINDOW")
	_ = v.BindEnv("log_level", "LOG_LEVEL")

	// 設定設定檔名稱和路徑
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")

	// 讀取設定檔
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// 解析設定
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 驗證必要設定
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// MaskSecret 遮罩憑證，只顯示前後各 4 個字符
func MaskSecret(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	// 應用程式設定
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", true)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "recipe-finder")

	// 伺服器設定
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.request_timeout", "30s")
	v.SetDefault("server.max_body_bytes", 1<<20) // 1MB

	// Telegram 設定
	v.SetDefault("telegram.enabled", false)
	v.SetDefault("telegram.base_url", "https://api.telegram.org")
	v.SetDefault("telegram.timeout", "10s")

	// 目錄設定
	v.SetDefault("catalog.driver", CatalogDriverMemory)
	v.SetDefault("catalog.seed_file", "configs/catalog.yaml")
	v.SetDefault("catalog.redis_addr", "localhost:6379")
	v.SetDefault("catalog.redis_db", 0)
	v.SetDefault("catalog.key_prefix", "catalog")
	v.SetDefault("catalog.seed_on_start", false)

	// 排名設定
	v.SetDefault("ranking.driver", RankingDriverOverlap)
	v.SetDefault("ranking.timeout", "15s")
	v.SetDefault("ranking.limit", 5)

	// 對話設定
	v.SetDefault("dialogue.page_size", 3)

	// 限流設定
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 100)
	v.SetDefault("rate_limit.window", "1m")

	// 重複訊息過濾
	v.SetDefault("dedup_window", "1m")
	v.SetDefault("dedup_size", 4096)

	v.SetDefault("log_level", "info")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	// 驗證伺服器設定
	if config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}

	// 驗證對話設定：分頁大小錯誤屬於設定錯誤，啟動時即失敗
	if config.Dialogue.PageSize < 1 {
		return fmt.Errorf("invalid dialogue page size %d", config.Dialogue.PageSize)
	}

	// 驗證目錄設定
	switch config.Catalog.Driver {
	case CatalogDriverMemory:
		if config.Catalog.SeedFile == "" {
			return fmt.Errorf("catalog seed file is required for the memory driver")
		}
	case CatalogDriverRedis:
		if config.Catalog.RedisAddr == "" {
			return fmt.Errorf("redis address is required for the redis catalog")
		}
		if config.Catalog.SeedOnStart && config.Catalog.SeedFile == "" {
			return fmt.Errorf("catalog seed file is required to seed redis")
		}
	default:
		return fmt.Errorf("unknown catalog driver %q", config.Catalog.Driver)
	}

	// 驗證排名設定
	switch config.Ranking.Driver {
	case RankingDriverHTTP:
		if config.Ranking.BaseURL == "" {
			return fmt.Errorf("ranking base url is required for the http driver")
		}
	case RankingDriverOverlap:
		if config.Catalog.SeedFile == "" {
			return fmt.Errorf("catalog seed file is required for the overlap ranker")
		}
	default:
		return fmt.Errorf("unknown ranking driver %q", config.Ranking.Driver)
	}
	if config.Ranking.Limit < 1 {
		return fmt.Errorf("invalid ranking limit %d", config.Ranking.Limit)
	}

	if config.Telegram.Enabled && config.Telegram.Token == "" {
		return fmt.Errorf("telegram token is required when telegram is enabled")
	}

	if config.RateLimit.Enabled && (config.RateLimit.Requests <= 0 || config.RateLimit.Window <= 0) {
		return fmt.Errorf("invalid rate limit %d per %s", config.RateLimit.Requests, config.RateLimit.Window)
	}

	if config.DedupSize <= 0 {
		return fmt.Errorf("invalid dedup size")
	}

	return nil
}
