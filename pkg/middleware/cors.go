package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// corsMethods はクロスオリジンで許可するHTTPメソッド。
const corsMethods = "GET, POST, PUT, DELETE, OPTIONS"

// CORSConfig はCORSミドルウェアの設定。
type CORSConfig struct {
	// AllowedOrigins は許可するオリジン。空文字列は無視する。
	AllowedOrigins []string
	// AllowedHeaders はプリフライトで許可するリクエストヘッダー。
	AllowedHeaders []string
	// AllowCredentials はCookieなどの資格情報の送信を許可するか。
	// 管理画面はセッションCookieで認証するため有効にする。
	AllowCredentials bool
	// MaxAge はプリフライト結果をブラウザがキャッシュする時間。
	MaxAge time.Duration
}

// CORS は設定に従ってクロスオリジンリクエストを許可するGinミドルウェアを返す。
// 許可されていないオリジンにはCORSヘッダーを付けず、判断はブラウザに任せる。
// プリフライトリクエストは後続のハンドラに渡さず204で応答する。
func CORS(cfg CORSConfig) gin.HandlerFunc {
	origins := make(map[string]struct{}, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		if o != "" {
			origins[o] = struct{}{}
		}
	}
	headers := strings.Join(cfg.AllowedHeaders, ", ")
	maxAge := strconv.Itoa(int(cfg.MaxAge / time.Second))

	return func(c *gin.Context) {
		c.Header("Vary", "Origin")

		origin := c.GetHeader("Origin")
		_, allowed := origins[origin]
		if allowed {
			c.Header("Access-Control-Allow-Origin", origin)
			if cfg.AllowCredentials {
				c.Header("Access-Control-Allow-Credentials", "true")
			}
		}

		if c.Request.Method != http.MethodOptions || c.GetHeader("Access-Control-Request-Method") == "" {
			c.Next()
			return
		}

		if allowed {
			c.Header("Access-Control-Allow-Methods", corsMethods)
			if headers != "" {
				c.Header("Access-Control-Allow-Headers", headers)
			}
			if cfg.MaxAge > 0 {
				c.Header("Access-Control-Max-Age", maxAge)
			}
		}
		c.AbortWithStatus(http.StatusNoContent)
	}
}
