package db

import (
	"context"
	"regexp"

	"text-ingest/config"
	"text-ingest/pkg/model"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// RecordStore 处理结果的外部持久化，只负责写入
type RecordStore interface {
	// PutRecord 按 ID 写入一条记录，同 ID 覆盖
	PutRecord(ctx context.Context, record *model.ProcessedTextRecord) error
	Close() error
}

// Migrator 需要预先建表的后端实现此接口
type Migrator interface {
	Migrate(ctx context.Context) error
}

// Pinger 支持连通性检查的后端实现此接口
type Pinger interface {
	Ping(ctx context.Context) error
}

// 不允许 "."，避免 MySQL 后端把表名解析成 schema.table
var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_\-]{0,127}$`)

func validateTableName(name string) error {
	if !tableNamePattern.MatchString(name) {
		return errors.Errorf("表名不合法: %q", name)
	}
	return nil
}

// Open 按配置创建存储后端
func Open(ctx context.Context, cfg *config.GlobalConfig, logger *zap.Logger) (RecordStore, error) {
	if cfg == nil || cfg.StoreConfig == nil {
		return nil, errors.New("store 配置未设置")
	}
	table := cfg.StoreConfig.TableName
	if err := validateTableName(table); err != nil {
		return nil, err
	}
	logger = logger.With(zap.String("backend", cfg.StoreConfig.Backend), zap.String("table", table))

	switch cfg.StoreConfig.Backend {
	case config.BackendDuckDB:
		return NewDuckDBStore(ctx, cfg.DuckDBConfig, table, logger)
	case config.BackendSQLite:
		return NewSQLiteStore(ctx, cfg.SQLiteConfig, table, logger)
	case config.BackendMySQL:
		return NewMySQLStore(ctx, cfg.MySQLConfig, table, logger)
	case config.BackendRedis:
		return NewRedisStore(ctx, cfg.RedisConfig, table, logger)
	case config.BackendBadger:
		return NewBadgerStore(cfg.BadgerConfig, table, logger)
	}
	return nil, errors.Errorf("不支持的存储后端: %q", cfg.StoreConfig.Backend)
}
