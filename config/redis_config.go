package config

import (
	"time"

	"github.com/pkg/errors"
)

type RedisConfig struct {
	Addr         string        `json:"addr" yaml:"addr"`                 // 形如 localhost:6379
	Password     string        `json:"password" yaml:"password"`         // 可选
	DB           int           `json:"db" yaml:"db"`                     // 0-15
	PoolSize     int           `json:"poolSize" yaml:"poolSize"`         // 连接池大小
	DialTimeout  time.Duration `json:"dialTimeout" yaml:"dialTimeout"`   // 连接超时
	WriteTimeout time.Duration `json:"writeTimeout" yaml:"writeTimeout"` // 写超时
}

func (r *RedisConfig) Validate() []error {
	var errs = make([]error, 0)
	if r == nil {
		return append(errs, errors.New("Redis 配置未设置"))
	}
	if r.Addr == "" {
		errs = append(errs, errors.New("Redis 地址不能为空"))
	}
	if r.DB < 0 || r.DB > 15 {
		errs = append(errs, errors.Errorf("Redis DB 编号不合法: %d", r.DB))
	}
	return errs
}

func NewDefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		Addr:         "localhost:6379",
		PoolSize:     10,
		DialTimeout:  5 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}
