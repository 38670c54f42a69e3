package config

import (
	"time"

	"github.com/pkg/errors"
)

type ServerConfig struct {
	Addr            string        `json:"addr" yaml:"addr"`                       // 监听地址
	Path            string        `json:"path" yaml:"path"`                       // 上传接口路径
	MaxBodyBytes    int64         `json:"maxBodyBytes" yaml:"maxBodyBytes"`       // 读取请求体的硬上限
	ReadTimeout     time.Duration `json:"readTimeout" yaml:"readTimeout"`         // 读超时
	WriteTimeout    time.Duration `json:"writeTimeout" yaml:"writeTimeout"`       // 写超时
	ShutdownTimeout time.Duration `json:"shutdownTimeout" yaml:"shutdownTimeout"` // 优雅退出等待时间
	EnableMetrics   bool          `json:"enableMetrics" yaml:"enableMetrics"`     // 是否暴露 /metrics
}

func (s *ServerConfig) Validate() []error {
	var errs = make([]error, 0)
	if s == nil {
		return append(errs, errors.New("server 配置未设置"))
	}
	if s.Addr == "" {
		errs = append(errs, errors.New("server.addr 不能为空"))
	}
	if s.Path == "" || s.Path[0] != '/' {
		errs = append(errs, errors.Errorf("server.path 必须以 / 开头: %q", s.Path))
	}
	// 请求体上限至少要能容纳 1MiB 文本的 base64 编码
	if s.MaxBodyBytes < 1<<20 {
		errs = append(errs, errors.Errorf("server.maxBodyBytes 过小: %d", s.MaxBodyBytes))
	}
	return errs
}

func NewDefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Addr:            ":8080",
		Path:            "/process",
		MaxBodyBytes:    8 << 20,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		EnableMetrics:   true,
	}
}
