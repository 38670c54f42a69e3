package db

import (
	"context"

	"text-ingest/config"
	"text-ingest/pkg/model"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

// redisClient 写入所需的最小 Redis 操作集合，便于测试替换
type redisClient interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	Ping(ctx context.Context) error
	Close() error
}

// RedisStore 每条记录一个 hash，key 为 <table>:<id>
type RedisStore struct {
	client redisClient
	table  string
	logger *zap.Logger
}

func NewRedisStore(ctx context.Context, cfg *config.RedisConfig, table string, logger *zap.Logger) (*RedisStore, error) {
	client, err := newGoRedisClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Debug("redis 初始化完成...", zap.String("addr", cfg.Addr))
	return newRedisStoreWithClient(client, table, logger), nil
}

func newRedisStoreWithClient(client redisClient, table string, logger *zap.Logger) *RedisStore {
	return &RedisStore{client: client, table: table, logger: logger}
}

func (s *RedisStore) key(id string) string {
	return s.table + ":" + id
}

func (s *RedisStore) PutRecord(ctx context.Context, record *model.ProcessedTextRecord) error {
	fields := cast.ToStringMapString(record.Attributes())
	if err := s.client.HSet(ctx, s.key(record.ID), fields); err != nil {
		return errors.Wrapf(err, "redis 写入记录 %s 失败", record.ID)
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

// goRedisClient 基于 go-redis 的 redisClient 实现
type goRedisClient struct {
	client *redis.Client
}

func newGoRedisClient(ctx context.Context, cfg *config.RedisConfig) (*goRedisClient, error) {
	if cfg == nil {
		return nil, errors.New("Redis 配置未设置")
	}
	if cfg.Addr == "" {
		return nil, errors.New("Redis 地址不能为空")
	}
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.DialTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrap(err, "连接 Redis 失败")
	}
	return &goRedisClient{client: client}, nil
}

func (c *goRedisClient) HSet(ctx context.Context, key string, fields map[string]string) error {
	return c.client.HSet(ctx, key, fields).Err()
}

func (c *goRedisClient) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *goRedisClient) Close() error {
	return c.client.Close()
}
