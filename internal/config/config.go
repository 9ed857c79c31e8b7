package config

import (
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Server HTTP 服务配置
type Server struct {
	Port         string        `yaml:"port" env:"PORT" env-default:"8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT" env-default:"15s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"WRITE_TIMEOUT" env-default:"60s"`
	LogLevel     string        `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
}

// AI 大模型配置
type AI struct {
	Provider    string        `yaml:"provider" env:"AI_PROVIDER" env-default:"gemini"`
	APIKey      string        `yaml:"api_key" env:"GEMINI_API_KEY"`
	ModelName   string        `yaml:"model_name" env:"AI_MODEL" env-default:"gemini-2.0-flash"`
	BaseURL     string        `yaml:"base_url" env:"AI_BASE_URL"`
	Timeout     time.Duration `yaml:"timeout" env:"AI_TIMEOUT" env-default:"90s"`
	Temperature float32       `yaml:"temperature" env:"AI_TEMPERATURE" env-default:"0.4"`
}

// Market 行情代理配置
type Market struct {
	CacheTTL        time.Duration `yaml:"cache_ttl" env:"MARKET_CACHE_TTL" env-default:"30s"`
	RequestTimeout  time.Duration `yaml:"request_timeout" env:"MARKET_REQUEST_TIMEOUT" env-default:"10s"`
	RateLimit       int           `yaml:"rate_limit" env:"MARKET_RATE_LIMIT" env-default:"5"`
	RateLimitWindow time.Duration `yaml:"rate_limit_window" env:"MARKET_RATE_LIMIT_WINDOW" env-default:"60s"`
}

// Redis 会话存储配置（可选，未配置时使用内存存储）
type Redis struct {
	Endpoint string `yaml:"endpoint" env:"REDIS_ENDPOINT"`
}

// Config 应用配置
type Config struct {
	Server Server `yaml:"server"`
	AI     AI     `yaml:"ai"`
	Market Market `yaml:"market"`
	Redis  Redis  `yaml:"redis"`
}

// Load 加载配置：先读可选的 .env，再按环境变量填充
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
