package match

import (
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"recipe-matcher/internal/core/cache"
	"recipe-matcher/internal/core/image"
	"recipe-matcher/internal/core/match"
	"recipe-matcher/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 圖片比對處理器
type Handler struct {
	pipeline  *match.Pipeline
	validator *image.Service
	store     cache.Store
}

// NewHandler 創建圖片比對處理器，store 為 nil 時不使用快取
func NewHandler(pipeline *match.Pipeline, validator *image.Service, store cache.Store) *Handler {
	return &Handler{
		pipeline:  pipeline,
		validator: validator,
		store:     store,
	}
}

// MatchImage 接收原始圖片位元組並回傳比對結果。
// 請求體就是圖片本身，帶 Content-Transfer-Encoding: base64 時先解碼。
func (h *Handler) MatchImage(c *gin.Context) {
	start := time.Now()
	requestID := requestid.Get(c)
	if requestID == "" {
		requestID = common.GenerateUUID()
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		// MaxBytesReader 超限時讀取會失敗
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": common.ErrPayloadTooLarge.Message,
			"code":  common.ErrPayloadTooLarge.Code,
		})
		return
	}

	if strings.EqualFold(c.GetHeader("Content-Transfer-Encoding"), "base64") {
		decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(body)))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid base64 body",
				"code":  common.ErrCodeInvalidRequest,
			})
			return
		}
		body = decoded
	}

	if err := h.validator.Validate(body, c.ContentType()); err != nil {
		h.writeError(c, err)
		return
	}

	// 相同圖片直接回放快取的結果
	imageHash := ""
	if h.store != nil {
		imageHash = cache.HashImage(body)
		if cached, err := h.store.Get(c.Request.Context(), imageHash); err == nil {
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(cached))
			return
		}
	}

	result, err := h.pipeline.MatchImage(c.Request.Context(), body)
	if err != nil {
		h.writeError(c, err)
		return
	}

	if h.store != nil {
		if payload, err := common.ToJSON(result); err == nil {
			if err := h.store.Set(c.Request.Context(), imageHash, payload); err != nil {
				common.LogWarn("快取寫入失敗",
					zap.String("request_id", requestID),
					zap.Error(err),
				)
			}
		}
	}

	common.LogInfo("比對完成",
		zap.String("request_id", requestID),
		zap.Int("標籤數", len(result.Labels)),
		zap.Int("候選數", len(result.Candidates)),
		zap.Duration("耗時", time.Since(start)),
	)
	c.JSON(http.StatusOK, result)
}

// writeError 將管線錯誤映射為 HTTP 回應，未知錯誤一律回 500 並隱藏細節
func (h *Handler) writeError(c *gin.Context, err error) {
	var customErr *common.CustomError
	if errors.As(err, &customErr) && customErr.Status < http.StatusInternalServerError {
		c.JSON(customErr.Status, gin.H{
			"error": customErr.Message,
			"code":  customErr.Code,
		})
		return
	}

	common.LogError("比對管線失敗",
		zap.String("request_id", requestid.Get(c)),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": "Internal server error",
		"code":  common.ErrCodeInternalError,
	})
}
