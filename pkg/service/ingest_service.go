package service

import (
	"context"
	"time"

	"text-ingest/pkg/db"
	"text-ingest/pkg/model"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type IngestService struct {
	processor *TextProcessor
	store     db.RecordStore
	ids       IDGenerator
	now       func() time.Time
	logger    *zap.Logger
}

type IngestOption func(*IngestService)

// WithIDGenerator 替换默认的 ULID 生成器
func WithIDGenerator(ids IDGenerator) IngestOption {
	return func(s *IngestService) { s.ids = ids }
}

// WithClock 替换时间来源
func WithClock(now func() time.Time) IngestOption {
	return func(s *IngestService) { s.now = now }
}

func NewIngestService(store db.RecordStore, logger *zap.Logger, opts ...IngestOption) *IngestService {
	s := &IngestService{
		processor: NewTextProcessor(),
		store:     store,
		ids:       NewULIDGenerator(),
		now:       time.Now,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ingest 校验、分析并写入一条记录
// 校验失败返回 *ValidationError，此时不会发生任何写入
func (s *IngestService) Ingest(ctx context.Context, payload model.TextPayload) (*model.ProcessedTextRecord, error) {
	analysis, err := s.processor.Process(payload)
	if err != nil {
		return nil, err
	}

	processedAt := s.now().UTC()
	record := &model.ProcessedTextRecord{
		ID:          s.ids.NewID(processedAt),
		TextContent: analysis.Text,
		WordCount:   analysis.WordCount,
		LineCount:   analysis.LineCount,
		ProcessedAt: processedAt,
	}

	if err := s.store.PutRecord(ctx, record); err != nil {
		return nil, errors.Wrap(err, "保存处理结果失败")
	}

	s.logger.Debug("记录已保存",
		zap.String("processing_id", record.ID),
		zap.Int("word_count", record.WordCount),
		zap.Int("line_count", record.LineCount),
		zap.Bool("truncated", analysis.Truncated),
	)
	return record, nil
}

// AsValidationError 判断是否为客户端输入错误
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
