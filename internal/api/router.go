package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"recipe-matcher/internal/api/handlers/health"
	matchHandler "recipe-matcher/internal/api/handlers/match"
	"recipe-matcher/internal/api/middleware"
	"recipe-matcher/internal/core/cache"
	"recipe-matcher/internal/core/corpus"
	"recipe-matcher/internal/core/image"
	"recipe-matcher/internal/core/match"
	"recipe-matcher/internal/core/vision"
	"recipe-matcher/internal/infrastructure/config"
	"recipe-matcher/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 整條管線的請求超時：偵測、逐標籤比對與備援搜尋都要在這之內完成
const timeoutDuration = 60 * time.Second

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, store cache.Store) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 創建路由引擎
	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New()) // 自動生成請求 ID

	// CORS 設置：允許清單外的 Origin 一律回應預設 Origin
	router.Use(middleware.CORS(&cfg.CORS))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(cfg.Image.MaxSizeBytes))

	// 可選的速率限制與請求去重
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	if cfg.DedupWindow > 0 {
		router.Use(middleware.Deduplication(cfg))
	}

	// 未註冊的方法回 405 而不是 404
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{
			"error": common.ErrMethodNotAllowed.Message,
			"code":  common.ErrMethodNotAllowed.Code,
		})
	})

	common.LogInfo("Initializing services",
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.Int("matcher_workers", cfg.Matcher.Workers),
		zap.String("corpus_path", cfg.Corpus.Path),
	)

	// 初始化語料索引：延遲載入，首個請求才讀檔
	corpusIndex := corpus.NewIndex(cfg.Corpus.Path)

	// 初始化標籤偵測服務
	detector, err := vision.NewRekognitionService(context.Background(), cfg.Vision)
	if err != nil {
		common.LogError("Failed to initialize label detection service", zap.Error(err))
		return nil, fmt.Errorf("failed to initialize label detection service: %w", err)
	}

	// 初始化比對管線
	scorer := match.NewHFSimilarityClient(cfg.Matcher)
	matcher := match.NewSemanticMatcher(cfg.Matcher, corpusIndex, scorer)
	search := match.NewRecipeSearchClient(cfg.Fallback)
	pipeline := match.NewPipeline(cfg, detector, matcher, search)

	// 初始化圖片驗證服務
	validator := image.NewService(cfg.Image.MaxSizeBytes)

	// 全局中間件：設置超時和服務
	router.Use(func(c *gin.Context) {
		// 設置請求超時
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		// 健康檢查需要的依賴
		c.Set("config", cfg)
		c.Set("corpus_index", corpusIndex)
		c.Set("cache_store", store)

		// 處理請求
		c.Next()

		// 檢查是否超時
		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", requestid.Get(c)),
				zap.Duration("timeout", timeoutDuration),
			)
		}
	})

	// 健康檢查路由
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	// API 路由組
	api := router.Group("/api/v1")
	{
		handlerInstance := matchHandler.NewHandler(pipeline, validator, store)

		matchGroup := api.Group("/match")
		matchGroup.Use(middleware.EdgeAuth(&cfg.Auth))
		{
			// 圖片比對：請求體為原始圖片位元組
			matchGroup.POST("/image", handlerInstance.MatchImage)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Bool("cache_store_initialized", store != nil),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", cfg.Image.MaxSizeBytes),
	)

	return router, nil
}
