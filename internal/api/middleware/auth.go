package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-matcher/internal/infrastructure/config"
	"recipe-matcher/internal/pkg/common"
)

// EdgeAuth 邊緣共享密鑰驗證中間件。
// 伺服器端未配置密鑰或請求標頭不符時一律回 403。
func EdgeAuth(cfg *config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader(cfg.HeaderName)

		if cfg.Secret == "" ||
			subtle.ConstantTimeCompare([]byte(provided), []byte(cfg.Secret)) != 1 {
			common.LogWarn("邊緣驗證失敗",
				zap.String("ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
				zap.Bool("secret_configured", cfg.Secret != ""),
			)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": common.ErrForbidden.Message,
			})
			return
		}

		c.Next()
	}
}
