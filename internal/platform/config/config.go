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

// Cfg 是一个全局变量，用于存储所有应用程序的配置
var Cfg *Config

// Config 结构体定义了应用程序的所有配置项
// 它与 config.yaml 文件的结构完全对应
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Game      GameConfig      `mapstructure:"game"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	RateLimit RateLimitConfig `mapstructure:"rateLimit"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Backup    BackupConfig    `mapstructure:"backup"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig 定义了服务器相关的配置
type ServerConfig struct {
	Mode    string     `mapstructure:"mode"`
	Address string     `mapstructure:"address"`
	Cors    CorsConfig `mapstructure:"cors"`
}

// CorsConfig 定义了CORS相关的配置
type CorsConfig struct {
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
}

// DatabaseConfig 定义了数据库和缓存相关的配置
type DatabaseConfig struct {
	// Driver 取值 sqlite 或 postgres
	Driver   string         `mapstructure:"driver"`
	LogLevel string         `mapstructure:"logLevel"`
	Sqlite   SqliteConfig   `mapstructure:"sqlite"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

// SqliteConfig 定义了SQLite的配置
type SqliteConfig struct {
	Path string `mapstructure:"path"`
}

// PostgresConfig 定义了PostgreSQL的配置
type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig 定义了Redis的配置，Address为空表示不启用Redis
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Enabled 判断是否配置了Redis
func (c RedisConfig) Enabled() bool {
	return c.Address != ""
}

// GameConfig 定义了比赛本身的配置
type GameConfig struct {
	// Players 的顺序决定平局裁决，第一位是主参赛者
	Players           []string `mapstructure:"players"`
	Timezone          string   `mapstructure:"timezone"`
	DefaultWindowDays int      `mapstructure:"defaultWindowDays"`
	MaxWindowDays     int      `mapstructure:"maxWindowDays"`
}

// Location 解析配置的时区
func (c GameConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("无法加载时区 %s: %w", c.Timezone, err)
	}
	return loc, nil
}

// SchedulerConfig 定义了每日胜者结算任务的配置
type SchedulerConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	ResolveInterval time.Duration `mapstructure:"resolveInterval"`
}

// RateLimitConfig 定义了饮水记录提交频率限制
type RateLimitConfig struct {
	MaxPerWindow int           `mapstructure:"maxPerWindow"`
	Window       time.Duration `mapstructure:"window"`
}

// AuthConfig 定义了登录相关的配置
type AuthConfig struct {
	Required  bool              `mapstructure:"required"`
	JWTSecret string            `mapstructure:"jwtSecret"`
	TokenTTL  time.Duration     `mapstructure:"tokenTTL"`
	Users     map[string]string `mapstructure:"users"`
}

// BackupConfig 定义了SQLite定时快照的配置
type BackupConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
	Dir      string        `mapstructure:"dir"`
	// Keep 是保留的快照数量，<=0 表示全部保留
	Keep int `mapstructure:"keep"`
}

// LogConfig 定义了日志相关的配置
type LogConfig struct {
	Verbose bool `mapstructure:"verbose"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.cors.allowedOrigins", []string{"http://localhost:3000"})

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.logLevel", "silent")
	v.SetDefault("database.sqlite.path", "water_wars.db")

	v.SetDefault("game.players", []string{"safari", "brielle"})
	v.SetDefault("game.timezone", "Local")
	v.SetDefault("game.defaultWindowDays", 30)
	v.SetDefault("game.maxWindowDays", 365)

	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.resolveInterval", 10*time.Minute)

	v.SetDefault("rateLimit.maxPerWindow", 60)
	v.SetDefault("rateLimit.window", time.Hour)

	v.SetDefault("auth.required", false)
	v.SetDefault("auth.jwtSecret", "water-wars-secret-change-me")
	v.SetDefault("auth.tokenTTL", 720*time.Hour)
	v.SetDefault("auth.users", map[string]string{"safari": "water123", "brielle": "water123"})

	v.SetDefault("backup.enabled", false)
	v.SetDefault("backup.interval", 6*time.Hour)
	v.SetDefault("backup.dir", "backups")
	v.SetDefault("backup.keep", 7)

	v.SetDefault("log.verbose", true)
}

// LoadConfig 函数负责查找、加载和解析配置文件
// 它会在 paths 中按顺序查找名为 config.yaml 的文件，paths为空时使用 ./config 和 .
// 找不到配置文件不是错误，此时全部使用默认值与环境变量
func LoadConfig(paths ...string) (*Config, error) {
	// .env 只用于本地开发，不存在时忽略，存在但格式错误时报错
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("无法解析 .env 文件: %w", err)
	}

	v := viper.New()

	// 1. 设置配置文件名和类型
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// 2. 添加配置文件搜索路径
	if len(paths) == 0 {
		paths = []string{"./config", "."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	// 3. 设置环境变量支持，例如 SERVER_ADDRESS=:9090
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// 4. 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("无法读取配置文件: %w", err)
		}
	}

	// 5. 将配置反序列化到结构体中
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("无法解析配置: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// 6. 将加载的配置赋值给全局变量
	Cfg = &cfg

	return Cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Sqlite.Path == "" {
			return errors.New("database.sqlite.path 不能为空")
		}
	case "postgres":
		if c.Database.Postgres.DSN == "" {
			return errors.New("database.postgres.dsn 不能为空")
		}
	default:
		return fmt.Errorf("不支持的数据库驱动: %s", c.Database.Driver)
	}
	if len(c.Game.Players) == 0 {
		return errors.New("game.players 至少需要一位参赛者")
	}
	if c.Game.DefaultWindowDays < 1 {
		return errors.New("game.defaultWindowDays 必须为正数")
	}
	if c.Game.MaxWindowDays > 0 && c.Game.DefaultWindowDays > c.Game.MaxWindowDays {
		return fmt.Errorf("game.defaultWindowDays (%d) 不能超过 game.maxWindowDays (%d)", c.Game.DefaultWindowDays, c.Game.MaxWindowDays)
	}
	if c.Scheduler.Enabled && c.Scheduler.ResolveInterval <= 0 {
		return errors.New("scheduler.resolveInterval 必须为正数")
	}
	if c.Backup.Enabled && c.Backup.Interval <= 0 {
		return errors.New("backup.interval 必须为正数")
	}
	return nil
}
