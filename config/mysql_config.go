package config

import (
	"time"

	"github.com/pkg/errors"
)

type MySQLConfig struct {
	DSN             string        `json:"dsn" yaml:"dsn"`                         // 主库 DSN
	Replicas        []string      `json:"replicas" yaml:"replicas"`               // 只读副本 DSN
	MaxIdleConns    int           `json:"maxIdleConns" yaml:"maxIdleConns"`       // 最大空闲连接
	MaxOpenConns    int           `json:"maxOpenConns" yaml:"maxOpenConns"`       // 最大连接数
	ConnMaxLifetime time.Duration `json:"connMaxLifetime" yaml:"connMaxLifetime"` // 连接最长存活时间
}

func (m *MySQLConfig) Validate() []error {
	var errs = make([]error, 0)
	if m == nil {
		return append(errs, errors.New("MySQL 配置未设置"))
	}
	if m.DSN == "" {
		errs = append(errs, errors.New("MySQL DSN 不能为空"))
	}
	return errs
}

func NewDefaultMySQLConfig() *MySQLConfig {
	return &MySQLConfig{
		MaxIdleConns:    5,
		MaxOpenConns:    20,
		ConnMaxLifetime: time.Hour,
	}
}
