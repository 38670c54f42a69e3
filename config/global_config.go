package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

type IConfig interface {
	Validate() []error
}

type GlobalConfig struct {
	ServerConfig *ServerConfig `json:"server" yaml:"server"`
	LogConfig    *LogConfig    `json:"log" yaml:"log"`
	StoreConfig  *StoreConfig  `json:"store" yaml:"store"`
	DuckDBConfig *DuckDBConfig `json:"duckdb" yaml:"duckdb"`
	MySQLConfig  *MySQLConfig  `json:"mysql" yaml:"mysql"`
	SQLiteConfig *SQLiteConfig `json:"sqlite" yaml:"sqlite"`
	RedisConfig  *RedisConfig  `json:"redis" yaml:"redis"`
	BadgerConfig *BadgerConfig `json:"badger" yaml:"badger"`
}

func (g *GlobalConfig) Validate() []error {
	var errs = make([]error, 0)
	for _, c := range []IConfig{g.ServerConfig, g.LogConfig, g.StoreConfig} {
		if es := c.Validate(); len(es) > 0 {
			errs = append(errs, es...)
		}
	}
	// 只校验当前选中的存储后端
	if backend := g.backendConfig(); backend != nil {
		if es := backend.Validate(); len(es) > 0 {
			errs = append(errs, es...)
		}
	}
	return errs
}

func (g *GlobalConfig) backendConfig() IConfig {
	if g.StoreConfig == nil {
		return nil
	}
	switch g.StoreConfig.Backend {
	case BackendDuckDB:
		return g.DuckDBConfig
	case BackendMySQL:
		return g.MySQLConfig
	case BackendSQLite:
		return g.SQLiteConfig
	case BackendRedis:
		return g.RedisConfig
	case BackendBadger:
		return g.BadgerConfig
	}
	return nil
}

func NewDefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		ServerConfig: NewDefaultServerConfig(),
		LogConfig:    NewDefaultLogConfig(),
		StoreConfig:  NewDefaultStoreConfig(),
		DuckDBConfig: NewDefaultDuckDBConfig(),
		MySQLConfig:  NewDefaultMySQLConfig(),
		SQLiteConfig: NewDefaultSQLiteConfig(),
		RedisConfig:  NewDefaultRedisConfig(),
		BadgerConfig: NewDefaultBadgerConfig(),
	}
}

// envBindings 除 "." -> "_" 的自动映射外额外绑定的环境变量
var envBindings = map[string]string{
	"store.tableName": "TABLE_NAME",
	"store.backend":   "STORE_BACKEND",
	"server.addr":     "SERVER_ADDR",
	"log.level":       "LOG_LEVEL",
}

// Load 按 默认值 -> 配置文件(可选) -> 环境变量 的顺序加载配置
func Load(configFilePath string) (*GlobalConfig, error) {
	v := viper.New()
	tagName := "yaml"
	if configFilePath != "" {
		if _, err := os.Stat(configFilePath); err != nil {
			return nil, err
		}
		dir, file := filepath.Split(configFilePath)
		fileType := filepath.Ext(file)
		v.AddConfigPath(dir)
		v.SetConfigName(strings.TrimSuffix(file, fileType))
		v.SetConfigType(strings.TrimPrefix(fileType, "."))
		if err := v.ReadInConfig(); err != nil {
			if errors.As(err, &viper.ConfigFileNotFoundError{}) {
				return nil, err
			}
			return nil, errors.Errorf("解析配置文件错误:%s", err.Error())
		}
		if fileType == ".json" {
			tagName = "json"
		}
	}
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := NewDefaultGlobalConfig()
	if err := v.Unmarshal(cfg, func(config *mapstructure.DecoderConfig) {
		config.TagName = tagName
	}); err != nil {
		return nil, err
	}
	applyEnv(cfg)
	return cfg, nil
}

// applyEnv 处理 viper.Unmarshal 不会主动读取的环境变量（未出现在配置文件里的键）
func applyEnv(cfg *GlobalConfig) {
	lookup := func(key string) (string, bool) {
		if name, ok := envBindings[key]; ok {
			if val, ok := os.LookupEnv(name); ok {
				return val, true
			}
		}
		return os.LookupEnv(strings.ToUpper(strings.ReplaceAll(key, ".", "_")))
	}
	if val, ok := lookup("store.tableName"); ok {
		cfg.StoreConfig.TableName = val
	}
	if val, ok := lookup("store.backend"); ok {
		cfg.StoreConfig.Backend = strings.ToLower(val)
	}
	if val, ok := lookup("server.addr"); ok {
		cfg.ServerConfig.Addr = val
	}
	if val, ok := lookup("server.maxBodyBytes"); ok {
		cfg.ServerConfig.MaxBodyBytes = cast.ToInt64(val)
	}
	if val, ok := lookup("log.level"); ok {
		cfg.LogConfig.Level = val
	}
	if val, ok := lookup("log.development"); ok {
		cfg.LogConfig.Development = cast.ToBool(val)
	}
	if val, ok := lookup("redis.db"); ok {
		cfg.RedisConfig.DB = cast.ToInt(val)
	}
}
