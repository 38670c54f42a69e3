package config

import (
	"github.com/pkg/errors"
)

type BadgerConfig struct {
	Dir        string `json:"dir" yaml:"dir"`               // 数据目录
	InMemory   bool   `json:"inMemory" yaml:"inMemory"`     // 纯内存模式，仅用于测试
	SyncWrites bool   `json:"syncWrites" yaml:"syncWrites"` // 每次写入都 fsync
}

func (b *BadgerConfig) Validate() []error {
	var errs = make([]error, 0)
	if b == nil {
		return append(errs, errors.New("Badger 配置未设置"))
	}
	if !b.InMemory && b.Dir == "" {
		errs = append(errs, errors.New("Badger 数据目录不能为空"))
	}
	return errs
}

func NewDefaultBadgerConfig() *BadgerConfig {
	return &BadgerConfig{
		Dir:        "./data/badger",
		SyncWrites: true,
	}
}
