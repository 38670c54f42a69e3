package config

import (
	"github.com/pkg/errors"
)

const (
	BackendDuckDB = "duckdb"
	BackendMySQL  = "mysql"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendBadger = "badger"
)

type StoreConfig struct {
	Backend   string `json:"backend" yaml:"backend"`     // 存储后端
	TableName string `json:"tableName" yaml:"tableName"` // 目标表名（必填，环境变量 TABLE_NAME）
}

func (s *StoreConfig) Validate() []error {
	var errs = make([]error, 0)
	if s == nil {
		return append(errs, errors.New("store 配置未设置"))
	}
	if s.TableName == "" {
		errs = append(errs, errors.New("store.tableName 不能为空，请设置 TABLE_NAME"))
	}
	switch s.Backend {
	case BackendDuckDB, BackendMySQL, BackendSQLite, BackendRedis, BackendBadger:
	default:
		errs = append(errs, errors.Errorf("不支持的存储后端: %q", s.Backend))
	}
	return errs
}

func NewDefaultStoreConfig() *StoreConfig {
	return &StoreConfig{
		Backend: BackendDuckDB,
	}
}
