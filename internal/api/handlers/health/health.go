package health

import (
	"net/http"
	"runtime"
	"time"

	"recipe-matcher/internal/core/cache"
	"recipe-matcher/internal/core/corpus"
	"recipe-matcher/internal/infrastructure/config"
	"recipe-matcher/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime"`
	Corpus    *CorpusStatus          `json:"corpus,omitempty"`
	Cache     map[string]interface{} `json:"cache,omitempty"`
}

// CorpusStatus 語料狀態
type CorpusStatus struct {
	Loaded  bool `json:"loaded"`
	Records int  `json:"records"`
}

// HealthCheck 健康檢查處理器
func HealthCheck(c *gin.Context) {
	// 獲取配置
	cfg, exists := c.Get("config")
	if !exists {
		common.LogError("Configuration not found in context")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Configuration not found",
		})
		return
	}
	config, ok := cfg.(*config.Config)
	if !ok {
		common.LogError("Invalid configuration type in context")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Invalid configuration type",
		})
		return
	}

	// 獲取運行時信息
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	// 構建響應
	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   config.App.Version,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	}

	// 語料狀態
	if idx, exists := c.Get("corpus_index"); exists {
		if index, ok := idx.(*corpus.Index); ok {
			response.Corpus = &CorpusStatus{
				Loaded:  index.IsLoaded(),
				Records: index.Len(),
			}
		}
	}

	// 快取統計
	if s, exists := c.Get("cache_store"); exists {
		if store, ok := s.(cache.Store); ok && store != nil {
			response.Cache = store.Stats()
		}
	}

	// 記錄請求
	common.LogInfo("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 就緒檢查處理器。
// 語料載入失敗時服務仍可運作（語意比對退化為空結果），所以不影響就緒狀態。
func ReadinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// LivenessCheck 存活檢查處理器
func LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
