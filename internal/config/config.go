package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Log        LogConfig        `mapstructure:"log"`
	AI         AIConfig         `mapstructure:"ai"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	Workflow   WorkflowConfig   `mapstructure:"workflow"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port         int    `mapstructure:"port"`
	Mode         string `mapstructure:"mode"` // debug, release, test
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	// 存储驱动: memory(默认), sqlite, postgres
	Driver          string `mapstructure:"driver"`
	Path            string `mapstructure:"path"` // sqlite 文件路径
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"dbname"`
	SSLMode         string `mapstructure:"sslmode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // 秒
	AutoMigrate     bool   `mapstructure:"auto_migrate"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	// 连接模式: standalone(单节点), sentinel(哨兵), cluster(集群)
	Mode string `mapstructure:"mode"`

	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	MasterName    string   `mapstructure:"master_name"`
	SentinelAddrs []string `mapstructure:"sentinel_addrs"`
	ClusterAddrs  []string `mapstructure:"cluster_addrs"`

	PoolSize     int `mapstructure:"pool_size"`
	MinIdleConns int `mapstructure:"min_idle_conns"`
}

// Addr 单节点地址
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, /path/to/log
}

// AIConfig AI 模型配置
type AIConfig struct {
	OpenAI OpenAIConfig `mapstructure:"openai"`
}

// OpenAIConfig OpenAI 兼容接口配置，api_key 为空时分类器只走本地规则
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	OrgID   string `mapstructure:"org_id"`
	Model   string `mapstructure:"model"`
	Timeout int    `mapstructure:"timeout"` // 秒，0 表示使用传输层默认值
}

// ClassifierConfig 意图分类配置
type ClassifierConfig struct {
	CacheEnabled bool `mapstructure:"cache_enabled"`
	// 缓存后端: memory(进程内 LFU) 或 redis
	CacheBackend  string        `mapstructure:"cache_backend"`
	CacheCapacity int           `mapstructure:"cache_capacity"` // 仅 memory 后端
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`
}

// WorkflowConfig 工作流编排配置
type WorkflowConfig struct {
	CompletionDelay time.Duration `mapstructure:"completion_delay"`
	// 完成任务调度器: local(进程内定时器) 或 asynq(Redis 延迟队列)
	Scheduler     string `mapstructure:"scheduler"`
	TemplatesPath string `mapstructure:"templates_path"`
	DefaultUserID string `mapstructure:"default_user_id"`
}

var globalConfig *Config

// setDefaults 设置默认值，保证缺少配置文件时也能启动
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.read_timeout", 30)
	v.SetDefault("server.write_timeout", 30)

	v.SetDefault("database.driver", "memory")
	v.SetDefault("database.path", "genassist.db")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 3600)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("redis.mode", "standalone")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output_path", "stdout")

	v.SetDefault("ai.openai.model", "gpt-4o-mini")

	v.SetDefault("classifier.cache_enabled", false)
	v.SetDefault("classifier.cache_backend", "memory")
	v.SetDefault("classifier.cache_capacity", 1024)
	v.SetDefault("classifier.cache_ttl", "1h")

	v.SetDefault("workflow.completion_delay", "5s")
	v.SetDefault("workflow.scheduler", "local")
	v.SetDefault("workflow.default_user_id", "default-user")
}

// Load 加载配置
// env: 环境名称（dev, prod, test）
// configPath: 配置文件路径（可选）
func Load(env string, configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath == "" {
		v.SetConfigName(env) // dev.yaml, prod.yaml
		v.AddConfigPath("./config")
		v.AddConfigPath("../config")
		v.AddConfigPath("../../config")
	} else {
		v.SetConfigFile(configPath)
	}
	v.SetConfigType("yaml")

	// 读取环境变量（优先级高于配置文件）
	v.SetEnvPrefix("APP") // 环境变量前缀：APP_
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// 未显式指定路径且找不到文件时使用默认值
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	globalConfig = &cfg
	return &cfg, nil
}

// Validate 校验配置取值
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "memory", "sqlite", "postgres":
	default:
		return fmt.Errorf("不支持的存储驱动: %s (可选: memory, sqlite, postgres)", c.Database.Driver)
	}
	switch c.Workflow.Scheduler {
	case "local", "asynq":
	default:
		return fmt.Errorf("不支持的调度器: %s (可选: local, asynq)", c.Workflow.Scheduler)
	}
	switch c.Classifier.CacheBackend {
	case "memory", "redis":
	default:
		return fmt.Errorf("不支持的缓存后端: %s (可选: memory, redis)", c.Classifier.CacheBackend)
	}
	if c.Workflow.CompletionDelay < 0 {
		return fmt.Errorf("workflow.completion_delay 不能为负数")
	}
	if strings.TrimSpace(c.Workflow.DefaultUserID) == "" {
		return fmt.Errorf("workflow.default_user_id 不能为空")
	}
	return nil
}

// Get 获取全局配置
func Get() *Config {
	if globalConfig == nil {
		panic("配置未初始化，请先调用 Load()")
	}
	return globalConfig
}

// GetDSN 获取 postgres 连接字符串
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}
