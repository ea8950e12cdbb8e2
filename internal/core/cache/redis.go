package cache

import (
	"context"
	"fmt"

	appconfig "recipe-matcher/internal/infrastructure/config"
	"recipe-matcher/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisStore Redis 快取後端，多副本部署時共用比對結果
type RedisStore struct {
	client *redis.Client
	cfg    appconfig.CacheConfig
}

// NewRedisStore 創建 Redis 快取後端
func NewRedisStore(cfg appconfig.CacheConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})

	// 測試連接
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	common.LogInfo("Redis 快取已初始化",
		zap.String("位址", cfg.RedisAddr),
		zap.Duration("存活時間", cfg.TTL),
	)

	return &RedisStore{
		client: client,
		cfg:    cfg,
	}, nil
}

// generateKey 生成快取鍵
func (s *RedisStore) generateKey(imageHash string) string {
	return fmt.Sprintf("match:result:%s", imageHash)
}

// Get 獲取快取的比對結果
func (s *RedisStore) Get(ctx context.Context, imageHash string) (string, error) {
	if s.client == nil {
		return "", common.ErrCacheDisabled
	}

	data, err := s.client.Get(ctx, s.generateKey(imageHash)).Result()
	if err != nil {
		if err == redis.Nil {
			common.LogCacheMiss("match_result", imageHash)
			return "", common.ErrCacheMiss
		}
		return "", fmt.Errorf("failed to get cache: %w", err)
	}

	common.LogCacheHit("match_result", imageHash)
	return data, nil
}

// Set 寫入比對結果
func (s *RedisStore) Set(ctx context.Context, imageHash string, value string) error {
	if s.client == nil {
		return common.ErrCacheDisabled
	}

	if err := s.client.Set(ctx, s.generateKey(imageHash), value, s.cfg.TTL).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Stats 獲取快取統計信息，命中統計由 Redis 端維護，這裡只回報連線資訊
func (s *RedisStore) Stats() map[string]interface{} {
	stats := map[string]interface{}{
		"backend": "redis",
		"addr":    s.cfg.RedisAddr,
	}
	if s.client != nil {
		if size, err := s.client.DBSize(context.Background()).Result(); err == nil {
			stats["size"] = size
		}
	}
	return stats
}

// Close 關閉 Redis 連接
func (s *RedisStore) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}
