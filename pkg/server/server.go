// Package server 提供文本上传的 HTTP 入口
package server

import (
	"context"
	"net/http"

	"text-ingest/config"
	"text-ingest/pkg/db"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	cfg        *config.ServerConfig
	logger     *zap.Logger
}

// NewServer 组装路由，所有依赖由调用方注入
func NewServer(cfg *config.ServerConfig, ingester Ingester, store db.RecordStore, logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), CORS(), AccessLog(logger))

	var metrics *Metrics
	if cfg.EnableMetrics {
		metrics = NewMetrics()
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{})))
	}

	process := NewProcessHandler(ingester, cfg.MaxBodyBytes, metrics, logger)
	if metrics != nil {
		router.POST(cfg.Path, metrics.Middleware(), process.Process)
	} else {
		router.POST(cfg.Path, process.Process)
	}

	health := NewHealthHandler(store)
	router.GET("/healthz", health.Live)
	router.GET("/readyz", health.Ready)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return &Server{
		router:     router,
		httpServer: httpServer,
		cfg:        cfg,
		logger:     logger,
	}
}

// Handler 返回路由，便于测试
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start 阻塞监听，正常关闭时返回 nil
func (s *Server) Start() error {
	s.logger.Info("HTTP 服务启动", zap.String("addr", s.cfg.Addr), zap.String("path", s.cfg.Path))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "HTTP 服务异常退出")
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("HTTP 服务关闭中")
	return s.httpServer.Shutdown(ctx)
}
