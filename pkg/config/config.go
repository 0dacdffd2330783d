package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ==================== 配置结构 ====================

// Config 应用配置
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Webhook  WebhookConfig  `mapstructure:"webhook"`
	Task     TaskConfig     `mapstructure:"task"`
	LogLevel string         `mapstructure:"log_level"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Port string `mapstructure:"port"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// DSN 拼接 Postgres 连接串
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		d.Host, d.User, d.Password, d.DBName, d.Port, d.SSLMode)
}

// JWTConfig 令牌配置
type JWTConfig struct {
	Secret    string        `mapstructure:"secret"`
	AccessTTL time.Duration `mapstructure:"access_ttl"`
	Issuer    string        `mapstructure:"issuer"`
}

// WebhookConfig 订单事件推送配置
type WebhookConfig struct {
	OrderURL string `mapstructure:"order_url"` // 为空时禁用推送
}

// TaskConfig 定时任务配置
type TaskConfig struct {
	LowStockEnabled   bool   `mapstructure:"low_stock_enabled"`
	LowStockSpec      string `mapstructure:"low_stock_spec"` // cron 表达式（带秒）
	LowStockThreshold int    `mapstructure:"low_stock_threshold"`
}

// ==================== 加载 ====================

// Load 读取 config.yaml 并允许 FASHION_ 前缀环境变量覆盖。
// 配置文件缺失不报错，全部取默认值/环境变量。
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)

	v.SetEnvPrefix("FASHION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "fashion_admin")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "fashion_store")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("jwt.secret", "fashion-store-secret-change-in-production")
	v.SetDefault("jwt.access_ttl", "24h")
	v.SetDefault("jwt.issuer", "fashion-store")

	v.SetDefault("webhook.order_url", "")

	v.SetDefault("task.low_stock_enabled", true)
	v.SetDefault("task.low_stock_spec", "0 0 8 * * *")
	v.SetDefault("task.low_stock_threshold", 3)

	v.SetDefault("log_level", "info")
}
