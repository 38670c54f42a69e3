package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
	reasonKey       = "reason"
)

// RequestID 复用请求头里的 X-Request-ID，没有则生成 uuid
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(requestIDKey, requestID)
		c.Header(requestIDHeader, requestID)
		c.Next()
	}
}

// GetRequestID 从上下文取请求ID
func GetRequestID(c *gin.Context) string {
	if v, ok := c.Get(requestIDKey); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return c.GetHeader(requestIDHeader)
}

// CORS 放开所有来源、方法和请求头，预检请求直接返回 204
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "*")
		h.Set("Access-Control-Allow-Headers", "*")
		h.Set("Access-Control-Expose-Headers", requestIDHeader)
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// AccessLog 每个请求结束后记录一条结构化日志
func AccessLog(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("request_id", GetRequestID(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.Int64("content_length", c.Request.ContentLength),
		}
		switch {
		case status >= 500:
			logger.Error("HTTP request", fields...)
		case status >= 400:
			logger.Warn("HTTP request", fields...)
		default:
			logger.Info("HTTP request", fields...)
		}
	}
}

// Metrics 上传接口的 Prometheus 指标
type Metrics struct {
	registry        *prometheus.Registry
	requestCounter  *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	wordsProcessed  prometheus.Counter
	bytesProcessed  prometheus.Counter
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	requestCounter := factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "text_ingest",
			Name:      "requests_total",
			Help:      "Total number of upload requests by status and failure reason",
		},
		[]string{"status", "reason"},
	)
	requestDuration := factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "text_ingest",
			Name:      "request_duration_seconds",
			Help:      "Upload request duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"status"},
	)
	wordsProcessed := factory.NewCounter(prometheus.CounterOpts{
		Namespace: "text_ingest",
		Name:      "words_total",
		Help:      "Total number of words in stored records",
	})
	bytesProcessed := factory.NewCounter(prometheus.CounterOpts{
		Namespace: "text_ingest",
		Name:      "request_bytes_total",
		Help:      "Total number of request body bytes read",
	})

	return &Metrics{
		registry:        reg,
		requestCounter:  requestCounter,
		requestDuration: requestDuration,
		wordsProcessed:  wordsProcessed,
		bytesProcessed:  bytesProcessed,
	}
}

// Registry 供 /metrics 暴露
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Middleware 只挂在上传路由上
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		reason := c.GetString(reasonKey)
		m.requestCounter.WithLabelValues(status, reason).Inc()
		m.requestDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) observeWords(n int) {
	m.wordsProcessed.Add(float64(n))
}

// observeBytes 按实际读到的请求体字节数累计，分块上传同样计入
func (m *Metrics) observeBytes(n int) {
	m.bytesProcessed.Add(float64(n))
}
