package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	appconfig "recipe-matcher/internal/infrastructure/config"
)

// Store 比對結果快取介面，鍵為圖片位元組的哈希
type Store interface {
	Get(ctx context.Context, imageHash string) (string, error)
	Set(ctx context.Context, imageHash string, value string) error
	Stats() map[string]interface{}
	Close() error
}

// HashImage 計算圖片位元組的 SHA-256 哈希值
func HashImage(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// NewStore 依配置選擇快取後端：Redis 開啟時用 Redis，否則用行程內快取。
// 快取整體關閉時回傳 nil，呼叫端以 nil 判斷略過快取。
func NewStore(cfg *appconfig.Config) (Store, error) {
	if !cfg.Cache.Enabled {
		return nil, nil
	}
	if cfg.Cache.RedisEnabled {
		return NewRedisStore(cfg.Cache)
	}
	return NewManager(cfg.Cache), nil
}
