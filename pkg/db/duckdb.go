package db

import (
	"context"
	"database/sql"
	"time"

	"text-ingest/config"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type DuckDBStore struct {
	*sqlStore
}

// NewDuckDBStore 打开 duckdb 文件并建表
func NewDuckDBStore(ctx context.Context, cfg *config.DuckDBConfig, table string, logger *zap.Logger) (*DuckDBStore, error) {
	if cfg == nil {
		return nil, errors.New("DuckDB 配置未设置")
	}
	duckDB, err := sql.Open("duckdb", cfg.DSN())
	if err != nil {
		return nil, errors.Wrap(err, "连接 duckdb 失败")
	}

	// 测试连接
	if err = duckDB.PingContext(ctx); err != nil {
		duckDB.Close()
		return nil, errors.Wrap(err, "duckdb 连接测试失败")
	}

	s := &DuckDBStore{&sqlStore{
		db:         duckDB,
		table:      table,
		timeType:   "TIMESTAMP",
		timeValue:  func(t time.Time) interface{} { return t.UTC() },
		driverName: "duckdb",
		logger:     logger,
	}}
	if err := s.Migrate(ctx); err != nil {
		duckDB.Close()
		return nil, err
	}
	logger.Debug("duckdb 初始化完成...")
	return s, nil
}
