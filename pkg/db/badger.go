package db

import (
	"context"
	"encoding/json"

	"text-ingest/config"
	"text-ingest/pkg/model"

	badgerdb "github.com/dgraph-io/badger/v3"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// BadgerStore 嵌入式 KV，key 为 <table>:<id>，value 为记录 JSON
type BadgerStore struct {
	db     *badgerdb.DB
	table  string
	logger *zap.Logger
}

func NewBadgerStore(cfg *config.BadgerConfig, table string, logger *zap.Logger) (*BadgerStore, error) {
	if cfg == nil {
		return nil, errors.New("Badger 配置未设置")
	}
	opts := badgerdb.DefaultOptions(cfg.Dir).
		WithSyncWrites(cfg.SyncWrites).
		WithLogger(nil)
	if cfg.InMemory {
		opts = badgerdb.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	}

	bdb, err := badgerdb.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "打开 BadgerDB 失败")
	}
	logger.Debug("badger 初始化完成...", zap.Bool("in_memory", cfg.InMemory))
	return &BadgerStore{db: bdb, table: table, logger: logger}, nil
}

func (s *BadgerStore) key(id string) []byte {
	return []byte(s.table + ":" + id)
}

func (s *BadgerStore) PutRecord(ctx context.Context, record *model.ProcessedTextRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	value, err := json.Marshal(record)
	if err != nil {
		return errors.Wrap(err, "序列化记录失败")
	}
	err = s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set(s.key(record.ID), value)
	})
	if err != nil {
		return errors.Wrapf(err, "badger 写入记录 %s 失败", record.ID)
	}
	return nil
}

func (s *BadgerStore) Ping(ctx context.Context) error {
	if s.db.IsClosed() {
		return errors.New("BadgerDB 已关闭")
	}
	return nil
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}
