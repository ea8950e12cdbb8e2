package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"recipe-matcher/internal/infrastructure/config"
)

// CORS 跨來源中間件。
// 請求的 Origin 在允許清單內時回應該 Origin，否則回應預設 Origin；
// 預檢請求直接以 204 結束。
func CORS(cfg *config.CORSConfig) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(cfg.AllowedOrigins))
	for _, origin := range cfg.AllowedOrigins {
		allowed[origin] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := cfg.DefaultOrigin
		if _, ok := allowed[c.GetHeader("Origin")]; ok {
			origin = c.GetHeader("Origin")
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "POST,OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, X-Edge-Auth, X-Request-ID, Content-Transfer-Encoding")
		c.Header("Vary", "Origin")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
