package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testSecret はテスト用のJWTシークレット。
const testSecret = "test-secret-key-for-unit-tests"

// testSubject はテスト用のユーザー情報。
var testSubject = Subject{UserID: "user-123", Email: "admin@example.com", Role: "ADMIN"}

// newAuthRouter はJWTAuthで保護したテスト用ルーターを生成する。
func newAuthRouter() *gin.Engine {
	router := gin.New()
	router.Use(JWTAuth(testSecret))
	router.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": GetUserID(c),
			"email":   c.GetString("email"),
			"role":    c.GetString("role"),
		})
	})
	return router
}

// TestGenerateJWT はGenerateJWT関数を検証する。
func TestGenerateJWT(t *testing.T) {
	t.Parallel()

	t.Run("クレームが正しく設定されること", func(t *testing.T) {
		t.Parallel()

		tokenStr, err := GenerateJWT(testSecret, TokenKindAccess, 15*time.Minute, testSubject)
		if err != nil {
			t.Fatalf("GenerateJWT()でエラーが発生: %v", err)
		}

		claims, err := ParseJWT(testSecret, tokenStr, TokenKindAccess)
		if err != nil {
			t.Fatalf("ParseJWT()でエラーが発生: %v", err)
		}
		if claims.UserID != "user-123" {
			t.Errorf("UserID = %q, want %q", claims.UserID, "user-123")
		}
		if claims.Email != "admin@example.com" {
			t.Errorf("Email = %q, want %q", claims.Email, "admin@example.com")
		}
		if claims.Role != "ADMIN" {
			t.Errorf("Role = %q, want %q", claims.Role, "ADMIN")
		}
		if claims.Issuer != "lingo-backend" {
			t.Errorf("Issuer = %q, want %q", claims.Issuer, "lingo-backend")
		}
		if claims.ID == "" {
			t.Error("jtiが設定されていない")
		}
	})

	t.Run("有効期限が指定した期間後であること", func(t *testing.T) {
		t.Parallel()

		before := time.Now()
		tokenStr, err := GenerateJWT(testSecret, TokenKindRefresh, 7*24*time.Hour, testSubject)
		if err != nil {
			t.Fatalf("GenerateJWT()でエラーが発生: %v", err)
		}
		claims, err := ParseJWT(testSecret, tokenStr, TokenKindRefresh)
		if err != nil {
			t.Fatalf("ParseJWT()でエラーが発生: %v", err)
		}

		expected := before.Add(7 * 24 * time.Hour)
		diff := claims.ExpiresAt.Time.Sub(expected)
		if diff < -time.Minute || diff > time.Minute {
			t.Errorf("ExpiresAt = %v, want 約 %v", claims.ExpiresAt.Time, expected)
		}
	})

	t.Run("同じユーザーに続けて発行しても異なるトークンになること", func(t *testing.T) {
		t.Parallel()

		a, _ := GenerateJWT(testSecret, TokenKindAccess, time.Minute, testSubject)
		b, _ := GenerateJWT(testSecret, TokenKindAccess, time.Minute, testSubject)
		if a == b {
			t.Error("同じトークンが発行された")
		}
	})
}

// TestParseJWT はParseJWT関数を検証する。
func TestParseJWT(t *testing.T) {
	t.Parallel()

	access, refresh, err := GenerateTokenPair(testSecret, testSubject, time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("GenerateTokenPair()でエラーが発生: %v", err)
	}

	t.Run("リフレッシュトークンをアクセストークンとして使えないこと", func(t *testing.T) {
		t.Parallel()

		if _, err := ParseJWT(testSecret, refresh, TokenKindAccess); !errors.Is(err, ErrTokenKind) {
			t.Errorf("err = %v, want ErrTokenKind", err)
		}
	})

	t.Run("アクセストークンで再発行できないこと", func(t *testing.T) {
		t.Parallel()

		if _, err := ParseJWT(testSecret, access, TokenKindRefresh); !errors.Is(err, ErrTokenKind) {
			t.Errorf("err = %v, want ErrTokenKind", err)
		}
	})

	t.Run("異なるシークレットでは検証に失敗すること", func(t *testing.T) {
		t.Parallel()

		if _, err := ParseJWT("wrong-secret", access, TokenKindAccess); err == nil {
			t.Error("ParseJWT()がエラーを返すべきだが、nilが返った")
		}
	})

	t.Run("HS256以外の署名アルゴリズムを拒否すること", func(t *testing.T) {
		t.Parallel()

		claims := JWTClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
				Issuer:    "lingo-backend",
			},
			UserID: "user-123",
			Kind:   TokenKindAccess,
		}
		tokenStr, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
		if err != nil {
			t.Fatalf("トークンの署名に失敗: %v", err)
		}
		if _, err := ParseJWT(testSecret, tokenStr, TokenKindAccess); err == nil {
			t.Error("ParseJWT()がエラーを返すべきだが、nilが返った")
		}
	})

	t.Run("期限切れトークンを拒否すること", func(t *testing.T) {
		t.Parallel()

		expired, err := GenerateJWT(testSecret, TokenKindAccess, -time.Hour, testSubject)
		if err != nil {
			t.Fatalf("GenerateJWT()でエラーが発生: %v", err)
		}
		if _, err := ParseJWT(testSecret, expired, TokenKindAccess); !errors.Is(err, jwt.ErrTokenExpired) {
			t.Errorf("err = %v, want jwt.ErrTokenExpired", err)
		}
	})
}

// TestJWTAuth はJWTAuthミドルウェアを検証する。
func TestJWTAuth(t *testing.T) {
	t.Parallel()

	access, refresh, err := GenerateTokenPair(testSecret, testSubject, time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("GenerateTokenPair()でエラーが発生: %v", err)
	}

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "有効なアクセストークンでリクエストが成功すること", header: "Bearer " + access, want: http.StatusOK},
		{name: "Authorizationヘッダーが無い場合401が返ること", header: "", want: http.StatusUnauthorized},
		{name: "Bearer接頭辞が無い場合401が返ること", header: access, want: http.StatusUnauthorized},
		{name: "空のBearerトークンで401が返ること", header: "Bearer ", want: http.StatusUnauthorized},
		{name: "無効なトークンで401が返ること", header: "Bearer invalid.token.value", want: http.StatusUnauthorized},
		{name: "リフレッシュトークンで401が返ること", header: "Bearer " + refresh, want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			newAuthRouter().ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Errorf("ステータスコード = %d, want %d", w.Code, tt.want)
			}
		})
	}

	t.Run("コンテキストにユーザー情報が設定されること", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+access)
		w := httptest.NewRecorder()
		newAuthRouter().ServeHTTP(w, req)

		var body map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("レスポンスボディのパースに失敗: %v", err)
		}
		if body["user_id"] != "user-123" || body["email"] != "admin@example.com" || body["role"] != "ADMIN" {
			t.Errorf("body = %v", body)
		}
	})
}

// TestRequireRole はRequireRoleミドルウェアを検証する。
func TestRequireRole(t *testing.T) {
	t.Parallel()

	newRouter := func(role string) *gin.Engine {
		router := gin.New()
		router.Use(func(c *gin.Context) {
			c.Set("role", role)
			c.Next()
		})
		router.Use(RequireRole("ADMIN"))
		router.GET("/admin", func(c *gin.Context) { c.Status(http.StatusOK) })
		return router
	}

	t.Run("権限が一致すれば通過すること", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		newRouter("ADMIN").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
		if w.Code != http.StatusOK {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusOK)
		}
	})

	t.Run("権限が異なれば403が返ること", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		newRouter("USER").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
		if w.Code != http.StatusForbidden {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusForbidden)
		}
	})
}

// TestGetUserID はGetUserID関数を検証する。
func TestGetUserID(t *testing.T) {
	t.Parallel()

	t.Run("コンテキストにuser_idが設定されている場合に取得できること", func(t *testing.T) {
		t.Parallel()

		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set("user_id", "user-abc")
		if got := GetUserID(c); got != "user-abc" {
			t.Errorf("GetUserID() = %q, want %q", got, "user-abc")
		}
	})

	t.Run("user_idが無いか文字列以外の場合に空文字列が返ること", func(t *testing.T) {
		t.Parallel()

		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		if got := GetUserID(c); got != "" {
			t.Errorf("GetUserID() = %q, want empty", got)
		}
		c.Set("user_id", 12345)
		if got := GetUserID(c); got != "" {
			t.Errorf("GetUserID() = %q, want empty", got)
		}
	})
}
