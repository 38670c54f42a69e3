package db

import (
	"context"
	"time"

	"text-ingest/config"
	"text-ingest/pkg/model"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

// MySQLStore 通过 gorm 写入 MySQL/TiDB，配置了副本时由 dbresolver 做读写分离
type MySQLStore struct {
	db     *gorm.DB
	table  string
	logger *zap.Logger
}

func NewMySQLStore(ctx context.Context, cfg *config.MySQLConfig, table string, logger *zap.Logger) (*MySQLStore, error) {
	if cfg == nil {
		return nil, errors.New("MySQL 配置未设置")
	}
	gdb, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: newGormLogger(logger),
	})
	if err != nil {
		return nil, errors.Wrap(err, "连接 MySQL 失败")
	}

	if len(cfg.Replicas) > 0 {
		replicas := make([]gorm.Dialector, 0, len(cfg.Replicas))
		for _, dsn := range cfg.Replicas {
			replicas = append(replicas, mysql.Open(dsn))
		}
		if err := gdb.Use(dbresolver.Register(dbresolver.Config{
			Replicas: replicas,
			Policy:   dbresolver.RandomPolicy{},
		})); err != nil {
			return nil, errors.Wrap(err, "注册 dbresolver 失败")
		}
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, errors.Wrap(err, "获取 MySQL 连接池失败")
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	s := &MySQLStore{db: gdb, table: table, logger: logger}
	if err := s.Migrate(ctx); err != nil {
		sqlDB.Close()
		return nil, err
	}
	logger.Debug("mysql 初始化完成...")
	return s, nil
}

func newGormLogger(logger *zap.Logger) gormlogger.Interface {
	return gormlogger.New(zap.NewStdLog(logger.Named("gorm")), gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

// Migrate 按模型自动建表
func (s *MySQLStore) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Table(s.table).AutoMigrate(&model.ProcessedTextRecord{}); err != nil {
		return errors.Wrapf(err, "mysql 创建表 %s 失败", s.table)
	}
	return nil
}

func (s *MySQLStore) PutRecord(ctx context.Context, record *model.ProcessedTextRecord) error {
	err := s.db.WithContext(ctx).
		Table(s.table).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(record).Error
	if err != nil {
		return errors.Wrapf(err, "mysql 写入记录 %s 失败", record.ID)
	}
	return nil
}

// Ping 强制走主库
func (s *MySQLStore) Ping(ctx context.Context) error {
	return s.db.WithContext(ctx).Clauses(dbresolver.Write).Exec("SELECT 1").Error
}

func (s *MySQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
