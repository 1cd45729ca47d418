package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

// TestRecovery はRecoveryミドルウェアを検証する。
func TestRecovery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler gin.HandlerFunc
		want    int
		wantErr bool
	}{
		{
			name:    "文字列のパニックで500が返ること",
			handler: func(*gin.Context) { panic("テスト用パニック") },
			want:    http.StatusInternalServerError,
			wantErr: true,
		},
		{
			name:    "error型のパニックで500が返ること",
			handler: func(*gin.Context) { panic(http.ErrAbortHandler) },
			want:    http.StatusInternalServerError,
			wantErr: true,
		},
		{
			name:    "パニックが無ければ通常のレスポンスが返ること",
			handler: func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) },
			want:    http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := gin.New()
			router.Use(Recovery())
			router.GET("/test", tt.handler)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

			if w.Code != tt.want {
				t.Errorf("ステータスコード = %d, want %d", w.Code, tt.want)
			}
			var body map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("レスポンスボディのパースに失敗: %v", err)
			}
			if tt.wantErr && body["error"] != "内部サーバーエラーが発生しました" {
				t.Errorf("error = %q", body["error"])
			}
		})
	}

	t.Run("書き込み後のパニックではレスポンスを上書きしないこと", func(t *testing.T) {
		t.Parallel()

		router := gin.New()
		router.Use(Recovery())
		router.GET("/partial", func(c *gin.Context) {
			c.String(http.StatusAccepted, "partial")
			panic("書き込み後のパニック")
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/partial", nil))

		if w.Code != http.StatusAccepted {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusAccepted)
		}
		if w.Body.String() != "partial" {
			t.Errorf("body = %q, want %q", w.Body.String(), "partial")
		}
	})
}
