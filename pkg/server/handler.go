package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"text-ingest/pkg/db"
	"text-ingest/pkg/model"
	"text-ingest/pkg/service"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	successMessage  = "File processed successfully"
	internalMessage = "Internal server error"
	// 失败日志中请求体最多保留的字节数
	logBodyLimit = 200
)

// Ingester 上传处理依赖的业务接口
type Ingester interface {
	Ingest(ctx context.Context, payload model.TextPayload) (*model.ProcessedTextRecord, error)
}

type ProcessHandler struct {
	ingester     Ingester
	maxBodyBytes int64
	metrics      *Metrics
	logger       *zap.Logger
}

func NewProcessHandler(ingester Ingester, maxBodyBytes int64, metrics *Metrics, logger *zap.Logger) *ProcessHandler {
	return &ProcessHandler{
		ingester:     ingester,
		maxBodyBytes: maxBodyBytes,
		metrics:      metrics,
		logger:       logger,
	}
}

// Process POST 上传接口
func (h *ProcessHandler) Process(c *gin.Context) {
	requestID := GetRequestID(c)

	body, err := h.readBody(c)
	if h.metrics != nil {
		h.metrics.observeBytes(len(body))
	}
	if err != nil {
		h.fail(c, requestID, body, err)
		return
	}

	payload := model.TextPayload{
		Body:          body,
		Base64Encoded: isBase64Encoded(c.Request.Header),
		ContentType:   c.GetHeader("Content-Type"),
	}
	record, err := h.ingester.Ingest(c.Request.Context(), payload)
	if err != nil {
		h.fail(c, requestID, body, err)
		return
	}

	if h.metrics != nil {
		h.metrics.observeWords(record.WordCount)
	}
	h.respond(c, requestID, http.StatusOK, model.SuccessResponse{
		Message:      successMessage,
		ProcessingID: record.ID,
		WordCount:    record.WordCount,
		LineCount:    record.LineCount,
	})
}

// readBody 读取请求体，超过硬上限时按超限校验错误处理
func (h *ProcessHandler) readBody(c *gin.Context) ([]byte, error) {
	if c.Request.Body == nil {
		return nil, nil
	}
	reader := http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes)
	body, err := io.ReadAll(reader)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			size := c.Request.ContentLength
			if size <= maxErr.Limit {
				size = maxErr.Limit + 1
			}
			return body, service.RejectOversized(c.GetHeader("Content-Type"), size)
		}
		return body, errors.Wrap(err, "读取请求体失败")
	}
	return body, nil
}

func isBase64Encoded(header http.Header) bool {
	for _, name := range []string{"Content-Transfer-Encoding", "X-Body-Encoding"} {
		if strings.EqualFold(strings.TrimSpace(header.Get(name)), "base64") {
			return true
		}
	}
	return false
}

// fail 记录诊断信息后返回 400 或 500
func (h *ProcessHandler) fail(c *gin.Context, requestID string, body []byte, err error) {
	if ve, ok := service.AsValidationError(err); ok {
		c.Set(reasonKey, string(ve.Reason))
		h.logger.Warn("请求校验失败",
			zap.String("request_id", requestID),
			zap.String("reason", string(ve.Reason)),
			zap.String("error", ve.Message),
			zap.Int64("size", ve.Size),
			zap.String("body", truncateForLog(body)),
		)
		h.respond(c, requestID, http.StatusBadRequest, model.ValidationResponse{Message: ve.Message})
		return
	}

	c.Set(reasonKey, "internal")
	h.logger.Error("请求处理失败",
		zap.String("request_id", requestID),
		zap.String("reason", "internal"),
		zap.Error(err),
		zap.String("body", truncateForLog(body)),
	)
	h.respond(c, requestID, http.StatusInternalServerError, model.InternalErrorResponse{
		Message:   internalMessage,
		Error:     err.Error(),
		RequestID: requestID,
	})
}

// respond 写 JSON 响应并记录状态码与响应体
func (h *ProcessHandler) respond(c *gin.Context, requestID string, status int, body interface{}) {
	encoded, _ := json.Marshal(body)
	h.logger.Info("响应",
		zap.String("request_id", requestID),
		zap.Int("status", status),
		zap.ByteString("body", encoded),
	)
	c.Data(status, "application/json; charset=utf-8", encoded)
}

func truncateForLog(body []byte) string {
	if len(body) <= logBodyLimit {
		return string(body)
	}
	return string(body[:logBodyLimit]) + "..."
}

// HealthHandler 存活与就绪检查
type HealthHandler struct {
	store db.RecordStore
}

func NewHealthHandler(store db.RecordStore) *HealthHandler {
	return &HealthHandler{store: store}
}

func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *HealthHandler) Ready(c *gin.Context) {
	if pinger, ok := h.store.(db.Pinger); ok {
		if err := pinger.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
