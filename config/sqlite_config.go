package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

type SQLiteConfig struct {
	DBPath string `json:"dbPath" yaml:"dbPath"` // SQLite 数据库文件路径
}

func (s *SQLiteConfig) Validate() []error {
	var errs = make([]error, 0)
	if s == nil {
		return append(errs, errors.New("SQLite 配置未设置"))
	}
	if s.DBPath == "" {
		return append(errs, errors.New("SQLite 数据库路径不能为空"))
	}
	if err := os.MkdirAll(filepath.Dir(s.DBPath), 0755); err != nil {
		errs = append(errs, errors.Errorf("创建 SQLite 目录失败: %v", err))
	}
	return errs
}

func NewDefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		DBPath: "./data/text.db",
	}
}
