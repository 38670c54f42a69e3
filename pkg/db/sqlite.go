package db

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"text-ingest/config"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	*sqlStore
}

// NewSQLiteStore 打开或创建 SQLite 数据库（WAL 模式）并建表
func NewSQLiteStore(ctx context.Context, cfg *config.SQLiteConfig, table string, logger *zap.Logger) (*SQLiteStore, error) {
	if cfg == nil {
		return nil, errors.New("SQLite 配置未设置")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return nil, errors.Wrap(err, "创建 SQLite 目录失败")
	}

	sqliteDB, err := sql.Open("sqlite", cfg.DBPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, errors.Wrap(err, "打开 SQLite 失败")
	}

	s := &SQLiteStore{&sqlStore{
		db:         sqliteDB,
		table:      table,
		timeType:   "TEXT",
		timeValue:  func(t time.Time) interface{} { return t.UTC().Format(time.RFC3339Nano) },
		driverName: "sqlite",
		logger:     logger,
	}}
	if err := s.Migrate(ctx); err != nil {
		sqliteDB.Close()
		return nil, err
	}
	logger.Debug("sqlite 初始化完成...")
	return s, nil
}
