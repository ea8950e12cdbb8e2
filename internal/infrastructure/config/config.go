package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App         AppConfig        `mapstructure:"app"`
	Server      ServerConfig     `mapstructure:"server"`
	Auth        AuthConfig       `mapstructure:"auth"`
	CORS        CORSConfig       `mapstructure:"cors"`
	Vision      VisionConfig     `mapstructure:"vision"`
	Normalizer  NormalizerConfig `mapstructure:"normalizer"`
	Filter      FilterConfig     `mapstructure:"filter"`
	Matcher     MatcherConfig    `mapstructure:"matcher"`
	Fallback    FallbackConfig   `mapstructure:"fallback"`
	Corpus      CorpusConfig     `mapstructure:"corpus"`
	Ranker      RankerConfig     `mapstructure:"ranker"`
	Cache       CacheConfig      `mapstructure:"cache"`
	RateLimit   RateLimitConfig  `mapstructure:"rate_limit"`
	Image       ImageConfig      `mapstructure:"image"`
	DedupWindow time.Duration    `mapstructure:"dedup_window"`
	LogLevel    string           `mapstructure:"log_level"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env      string `mapstructure:"env"`
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
	Version  string `mapstructure:"version"`
	Name     string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// AuthConfig 邊緣共享密鑰驗證配置
type AuthConfig struct {
	HeaderName string `mapstructure:"header_name"`
	Secret     string `mapstructure:"secret"`
}

// CORSConfig CORS 配置：Origin 在允許清單內則回傳該 Origin，否則回傳預設 Origin
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	DefaultOrigin  string   `mapstructure:"default_origin"`
}

// VisionConfig 影像標籤偵測配置
type VisionConfig struct {
	Region        string  `mapstructure:"region"`
	MaxLabels     int32   `mapstructure:"max_labels"`
	MinConfidence float32 `mapstructure:"min_confidence"`
}

// NormalizerConfig 標籤正規化配置
type NormalizerConfig struct {
	MinConfidence  float64 `mapstructure:"min_confidence"`
	MaxLabels      int     `mapstructure:"max_labels"`
	IncludeParents bool    `mapstructure:"include_parents"`
}

// FilterConfig 食材白名單過濾配置
type FilterConfig struct {
	KeepTopN int `mapstructure:"keep_top_n"`
}

// MatcherConfig 語意比對配置
type MatcherConfig struct {
	SimilarityURL        string        `mapstructure:"similarity_url"`
	Token                string        `mapstructure:"token"`
	MinSimilarity        float64       `mapstructure:"min_similarity"`
	DessertMinSimilarity float64       `mapstructure:"dessert_min_similarity"`
	TopPerLabel          int           `mapstructure:"top_per_label"`
	Workers              int           `mapstructure:"workers"`
	Timeout              time.Duration `mapstructure:"timeout"`
}

// FallbackConfig 關鍵字搜尋備援配置
type FallbackConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Limit     int           `mapstructure:"limit"`
	TopLabels int           `mapstructure:"top_labels"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// CorpusConfig 食譜語料配置
type CorpusConfig struct {
	Path string `mapstructure:"path"`
}

// RankerConfig 候選排序配置
type RankerConfig struct {
	CalorieTarget float64 `mapstructure:"calorie_target"`
	ResultSize    int     `mapstructure:"result_size"`
}

// CacheConfig 緩存配置
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	MaxSize         int           `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	RedisEnabled    bool          `mapstructure:"redis_enabled"`
	RedisAddr       string        `mapstructure:"redis_addr"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// ImageConfig 圖片配置
type ImageConfig struct {
	MaxSizeBytes int64 `mapstructure:"max_size_bytes"`
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// 加載 .env 文件，沒有 .env 時直接使用環境變數與預設值
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	// 設定預設值
	setDefaults()

	// 設定環境變數前綴
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// 綁定環境變量
	viper.BindEnv("auth.secret", "EDGE_SECRET")
	viper.BindEnv("matcher.token", "HF_TOKEN")
	viper.BindEnv("vision.region", "AWS_REGION")
	viper.BindEnv("fallback.base_url", "SEARCH_API_BASE")
	viper.BindEnv("corpus.path", "CORPUS_PATH")
	viper.BindEnv("cache.enabled", "CACHE_ENABLED")
	viper.BindEnv("cache.redis_enabled", "CACHE_REDIS_ENABLED")
	viper.BindEnv("cache.redis_addr", "CACHE_REDIS_ADDR")
	viper.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	viper.BindEnv("rate_limit.requests", "RATE_LIMIT_REQUESTS")
	viper.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	viper.BindEnv("dedup_window", "DEDUP_WINDOW")
	viper.BindEnv("log_level", "LOG_LEVEL")

	// 設定設定檔名稱和路徑
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	// 讀取設定檔
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// 添加調試日誌（logger 尚未初始化，改用 fmt.Println）
	fmt.Println("Loading configuration", "similarity_token:", maskSecret(viper.GetString("matcher.token")), "corpus_path:", viper.GetString("corpus.path"))

	// 解析設定
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 驗證必要設定
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// maskSecret 遮罩密鑰，只顯示前後各 4 個字符
func maskSecret(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// setDefaults 設定預設值
func setDefaults() {
	// 應用程式設定
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.debug", true)
	viper.SetDefault("app.log_level", "info")
	viper.SetDefault("app.version", "1.0.0")
	viper.SetDefault("app.name", "recipe-matcher")

	// 伺服器設定
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")

	// 邊緣驗證設定
	viper.SetDefault("auth.header_name", "X-Edge-Auth")

	// CORS 設定
	viper.SetDefault("cors.allowed_origins", []string{"https://www.nexgentech.me", "http://localhost:5173"})
	viper.SetDefault("cors.default_origin", "https://www.nexgentech.me")

	// 影像偵測設定
	viper.SetDefault("vision.region", "us-east-1")
	viper.SetDefault("vision.max_labels", 100)
	viper.SetDefault("vision.min_confidence", 60)

	// 標籤正規化設定
	viper.SetDefault("normalizer.min_confidence", 55)
	viper.SetDefault("normalizer.max_labels", 40)
	viper.SetDefault("normalizer.include_parents", false)

	// 白名單過濾設定
	viper.SetDefault("filter.keep_top_n", 15)

	// 語意比對設定
	viper.SetDefault("matcher.similarity_url", "https://api-inference.huggingface.co/models/sentence-transformers/all-MiniLM-L6-v2")
	viper.SetDefault("matcher.min_similarity", 0.35)
	viper.SetDefault("matcher.dessert_min_similarity", 0.30)
	viper.SetDefault("matcher.top_per_label", 3)
	viper.SetDefault("matcher.workers", 4)
	viper.SetDefault("matcher.timeout", "30s")

	// 備援搜尋設定
	viper.SetDefault("fallback.base_url", "https://nexgentech-api.onrender.com")
	viper.SetDefault("fallback.limit", 24)
	viper.SetDefault("fallback.top_labels", 2)
	viper.SetDefault("fallback.timeout", "10s")

	// 語料設定
	viper.SetDefault("corpus.path", "recipes-embeddings.json")

	// 排序設定
	viper.SetDefault("ranker.calorie_target", 500)
	viper.SetDefault("ranker.result_size", 3)

	// 快取設定
	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.max_size", 1000)
	viper.SetDefault("cache.ttl", "24h")
	viper.SetDefault("cache.cleanup_interval", "10m")
	viper.SetDefault("cache.redis_enabled", false)
	viper.SetDefault("cache.redis_addr", "localhost:6379")

	// 限流設定
	viper.SetDefault("rate_limit.enabled", true)
	viper.SetDefault("rate_limit.requests", 100)
	viper.SetDefault("rate_limit.window", "1m")

	// 圖片設定
	viper.SetDefault("image.max_size_bytes", 5*1024*1024) // 5MB

	// dedup window 預設
	viper.SetDefault("dedup_window", "1s")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	// 驗證伺服器設定
	if config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}

	// 驗證快取設定
	if config.Cache.Enabled {
		if config.Cache.MaxSize <= 0 {
			return fmt.Errorf("invalid cache max size")
		}
		if config.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache ttl")
		}
		if config.Cache.CleanupInterval <= 0 {
			return fmt.Errorf("invalid cache cleanup interval")
		}
	}

	// 驗證比對設定
	if config.Matcher.Workers <= 0 {
		return fmt.Errorf("invalid matcher workers")
	}
	if config.Matcher.TopPerLabel <= 0 {
		return fmt.Errorf("invalid matcher top per label")
	}
	if config.Matcher.MinSimilarity < config.Matcher.DessertMinSimilarity {
		return fmt.Errorf("dessert similarity threshold must not exceed the base threshold")
	}

	// 驗證排序設定
	if config.Ranker.ResultSize <= 0 {
		return fmt.Errorf("invalid ranker result size")
	}

	return nil
}
