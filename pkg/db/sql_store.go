package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"text-ingest/pkg/model"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// sqlStore 是 database/sql 驱动（DuckDB、SQLite）共用的写入实现
type sqlStore struct {
	db         *sql.DB
	table      string
	timeType   string                        // processed_at 列类型
	timeValue  func(t time.Time) interface{} // processed_at 写入值
	driverName string
	logger     *zap.Logger
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Migrate 创建记录表（已存在则跳过）
func (s *sqlStore) Migrate(ctx context.Context) error {
	createTableSQL := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			text_content TEXT NOT NULL,
			word_count INTEGER NOT NULL,
			line_count INTEGER NOT NULL,
			processed_at %s NOT NULL
		)
	`, quoteIdent(s.table), s.timeType)

	if _, err := s.db.ExecContext(ctx, createTableSQL); err != nil {
		return errors.Wrapf(err, "%s 创建表 %s 失败", s.driverName, s.table)
	}
	s.logger.Debug("记录表已就绪")
	return nil
}

func (s *sqlStore) PutRecord(ctx context.Context, record *model.ProcessedTextRecord) error {
	insertSQL := fmt.Sprintf(`
		INSERT OR REPLACE INTO %s (id, text_content, word_count, line_count, processed_at)
		VALUES (?, ?, ?, ?, ?)
	`, quoteIdent(s.table))

	_, err := s.db.ExecContext(ctx, insertSQL,
		record.ID,
		record.TextContent,
		record.WordCount,
		record.LineCount,
		s.timeValue(record.ProcessedAt),
	)
	if err != nil {
		return errors.Wrapf(err, "%s 写入记录 %s 失败", s.driverName, record.ID)
	}
	return nil
}

func (s *sqlStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlStore) Close() error {
	return s.db.Close()
}
