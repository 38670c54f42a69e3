package config

import (
	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"
)

type LogConfig struct {
	Level       string `json:"level" yaml:"level"`             // debug/info/warn/error
	Format      string `json:"format" yaml:"format"`           // json 或 console
	Development bool   `json:"development" yaml:"development"` // 开发模式
	FilePath    string `json:"filePath" yaml:"filePath"`       // 为空时只输出到 stderr
	MaxSizeMB   int    `json:"maxSizeMB" yaml:"maxSizeMB"`     // 单个日志文件大小
	MaxBackups  int    `json:"maxBackups" yaml:"maxBackups"`   // 保留的旧文件数
	MaxAgeDays  int    `json:"maxAgeDays" yaml:"maxAgeDays"`   // 旧文件保留天数
	Compress    bool   `json:"compress" yaml:"compress"`       // 是否压缩旧文件
}

func (l *LogConfig) Validate() []error {
	var errs = make([]error, 0)
	if l == nil {
		return append(errs, errors.New("log 配置未设置"))
	}
	if _, err := zapcore.ParseLevel(l.Level); err != nil {
		errs = append(errs, errors.Errorf("日志级别不合法: %s", l.Level))
	}
	if l.Format != "json" && l.Format != "console" {
		errs = append(errs, errors.Errorf("日志格式不合法: %s", l.Format))
	}
	return errs
}

func NewDefaultLogConfig() *LogConfig {
	return &LogConfig{
		Level:      "info",
		Format:     "json",
		MaxSizeMB:  100,
		MaxBackups: 7,
		MaxAgeDays: 30,
		Compress:   true,
	}
}
