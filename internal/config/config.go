package config

import (
	"github.com/blues/ams/internal/logger"
	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	ShareTribe  ShareTribeConfig  `mapstructure:"sharetribe"`
	Marketplace MarketplaceConfig `mapstructure:"marketplace"`
	Task        TaskConfig        `mapstructure:"task"`
	Log         LogConfig         `mapstructure:"log"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// ShareTribeConfig 外部市场平台（ShareTribe Integration API）配置
type ShareTribeConfig struct {
	BaseURL      string `mapstructure:"base_url"`      // Integration API 地址
	ClientID     string `mapstructure:"client_id"`     // 客户端ID
	ClientSecret string `mapstructure:"client_secret"` // 客户端密钥
	QueryLimit   int    `mapstructure:"query_limit"`   // 用户目录单次查询上限
	RateDelayMs  int    `mapstructure:"rate_delay_ms"` // 批量校验时相邻外部请求间隔（毫秒）
}

// MarketplaceConfig 运营方市场配置（初始值，之后以settings表为准）
type MarketplaceConfig struct {
	BaseURL           string  `mapstructure:"base_url"`           // 市场站点地址，用于生成推广链接
	Currency          string  `mapstructure:"currency"`           // 结算币种
	DefaultCommission float64 `mapstructure:"default_commission"` // 默认佣金
}

type TaskConfig struct {
	ValidationInterval int `mapstructure:"validation_interval"`  // 秒
	ClickSweepInterval int `mapstructure:"click_sweep_interval"` // 秒
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // 日志级别: debug, info, warn, error, fatal
	Output string `mapstructure:"output"` // 输出目标: stdout, stderr, file
	File   string `mapstructure:"file"`   // 日志文件路径（当output为file时使用）
}

// GetLevel 实现 logger.LogConfig 接口
func (l LogConfig) GetLevel() string {
	return l.Level
}

// GetOutput 实现 logger.LogConfig 接口
func (l LogConfig) GetOutput() string {
	return l.Output
}

// GetFile 实现 logger.LogConfig 接口
func (l LogConfig) GetFile() string {
	return l.File
}

func Load() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/ams")

	// 设置默认值
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.dbname", "affiliate")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("sharetribe.base_url", "https://flex-integ-api.sharetribe.com")
	viper.SetDefault("sharetribe.query_limit", 1000)
	viper.SetDefault("sharetribe.rate_delay_ms", 1000)
	viper.SetDefault("marketplace.base_url", "")
	viper.SetDefault("marketplace.currency", "GBP")
	viper.SetDefault("marketplace.default_commission", 10)
	viper.SetDefault("task.validation_interval", 3600)
	viper.SetDefault("task.click_sweep_interval", 600)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.output", "stdout")
	viper.SetDefault("log.file", "logs/app.log")

	// 自动读取环境变量
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logger.Warn("Warning: Could not read config file: %v", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		logger.Fatal("Unable to decode config into struct: %v", err)
	}

	return &config
}
