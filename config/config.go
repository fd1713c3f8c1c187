package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // 精简镜像中无系统时区库

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 应用全局配置结构体
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"db"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Log       LogConfig       `mapstructure:"log"`
	Timetable TimetableConfig `mapstructure:"timetable"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port          int           `mapstructure:"port"`
	JSONLimitKB   int64         `mapstructure:"json_limit_kb"`   // JSON 请求体上限
	UploadLimitMB int64         `mapstructure:"upload_limit_mb"` // Excel / ICS 上传上限
	CORS          CORSConfig    `mapstructure:"cors"`
	ReadTimeout   time.Duration `mapstructure:"read_timeout"`
	WriteTimeout  time.Duration `mapstructure:"write_timeout"`
}

// CORSConfig 跨域配置；AllowOrigins 含 "*" 时放行任意来源
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
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
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // 连接最大生命周期（分钟）
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // 空闲连接最大存活时间（分钟）
}

// DSN 生成 PostgreSQL 连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig Redis 配置（用于提交锁与限流）
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TimetableConfig 课表模块配置
type TimetableConfig struct {
	SectionLockTTL    time.Duration `mapstructure:"section_lock_ttl"`  // 同一班级提交锁的过期时间
	SectionLockWait   time.Duration `mapstructure:"section_lock_wait"` // 等待他人释放锁的最长时间
	ImportMaxRows     int           `mapstructure:"import_max_rows"`   // Excel 批量导入最大行数
	Timezone          string        `mapstructure:"timezone"`          // ICS 导入时换算上课时间所用时区
	RateLimitRequests int           `mapstructure:"rate_limit_requests"`
	RateLimitWindow   time.Duration `mapstructure:"rate_limit_window"`
}

// Location 解析 Timezone；Validate 已保证可解析
func (c *TimetableConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load 从配置文件与环境变量加载配置
// 优先级：环境变量 > 配置文件 > 默认值
func Load(path string) (*Config, error) {
	// .env 仅用于本地开发，不存在时忽略
	_ = godotenv.Load()

	v := viper.New()

	// ── 默认值 ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.json_limit_kb", 512)
	v.SetDefault("server.upload_limit_mb", 10)
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "timetable")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)
	v.SetDefault("db.conn_max_idle_time", 30)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("timetable.section_lock_ttl", "10s")
	v.SetDefault("timetable.section_lock_wait", "2s")
	v.SetDefault("timetable.import_max_rows", 500)
	v.SetDefault("timetable.timezone", "UTC")
	v.SetDefault("timetable.rate_limit_requests", 60)
	v.SetDefault("timetable.rate_limit_window", "1m")

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
	v.SetEnvPrefix("TT")
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
	if c.Server.JSONLimitKB <= 0 || c.Server.UploadLimitMB <= 0 {
		return fmt.Errorf("配置校验失败: server.json_limit_kb 与 server.upload_limit_mb 必须大于 0")
	}
	if c.Timetable.SectionLockTTL <= 0 {
		return fmt.Errorf("配置校验失败: timetable.section_lock_ttl 必须大于 0")
	}
	if c.Timetable.SectionLockWait < 0 {
		return fmt.Errorf("配置校验失败: timetable.section_lock_wait 不能为负数")
	}
	if c.Timetable.ImportMaxRows <= 0 {
		return fmt.Errorf("配置校验失败: timetable.import_max_rows 必须大于 0")
	}
	if _, err := time.LoadLocation(c.Timetable.Timezone); err != nil {
		return fmt.Errorf("配置校验失败: timetable.timezone 无效: %w", err)
	}
	if c.Timetable.RateLimitRequests <= 0 || c.Timetable.RateLimitWindow <= 0 {
		return fmt.Errorf("配置校验失败: timetable.rate_limit_* 必须大于 0")
	}
	return nil
}
