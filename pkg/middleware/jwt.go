package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenKind はトークンの用途を表す。
type TokenKind string

const (
	// TokenKindAccess は各APIリクエストに付与するアクセストークン。
	TokenKindAccess TokenKind = "access"
	// TokenKindRefresh はアクセストークンの再発行にのみ使うリフレッシュトークン。
	TokenKindRefresh TokenKind = "refresh"
)

// issuer はトークンの発行者名。
const issuer = "lingo-backend"

// ErrTokenKind はトークンの用途が期待と異なることを表す。
var ErrTokenKind = errors.New("トークンの種類が不正です")

// JWTClaims はJWTトークンのクレーム（ペイロード）を表す。
type JWTClaims struct {
	jwt.RegisteredClaims
	// UserID は認証済みユーザーの一意識別子。
	UserID string `json:"user_id"`
	// Email はユーザーのメールアドレス。
	Email string `json:"email"`
	// Role はユーザーの権限。
	Role string `json:"role"`
	// Kind はトークンの用途。
	Kind TokenKind `json:"kind"`
}

// Subject はトークンに埋め込むユーザー情報。
type Subject struct {
	UserID string
	Email  string
	Role   string
}

// GenerateJWT は指定した用途と有効期間のJWTトークンを生成する。
// 同じ秒に発行しても値が重複しないよう jti にUUIDを設定する。
func GenerateJWT(secret string, kind TokenKind, ttl time.Duration, sub Subject) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   sub.UserID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
		UserID: sub.UserID,
		Email:  sub.Email,
		Role:   sub.Role,
		Kind:   kind,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("JWTトークンの署名に失敗: %w", err)
	}
	return signed, nil
}

// GenerateTokenPair はアクセストークンとリフレッシュトークンの組を生成する。
func GenerateTokenPair(secret string, sub Subject, accessTTL, refreshTTL time.Duration) (access, refresh string, err error) {
	access, err = GenerateJWT(secret, TokenKindAccess, accessTTL, sub)
	if err != nil {
		return "", "", err
	}
	refresh, err = GenerateJWT(secret, TokenKindRefresh, refreshTTL, sub)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// ParseJWT はトークンの署名・有効期限・用途を検証してクレームを返す。
func ParseJWT(secret, tokenString string, kind TokenKind) (*JWTClaims, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer))
	if err != nil {
		return nil, fmt.Errorf("トークンの検証に失敗: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("トークンが無効です")
	}
	if claims.Kind != kind {
		return nil, ErrTokenKind
	}
	return claims, nil
}

// BearerToken はAuthorizationヘッダーからBearerトークンを取り出す。
func BearerToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", errors.New("Authorizationヘッダーが必要です")
	}
	token, found := strings.CutPrefix(authHeader, "Bearer ")
	if !found || token == "" {
		return "", errors.New("Bearer トークン形式が不正です")
	}
	return token, nil
}

// JWTAuth はアクセストークンを検証するGinミドルウェアを返す。
// 検証に成功した場合、コンテキストに "user_id"、"email"、"role" を設定する。
// リフレッシュトークンでのアクセスは拒否する。
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := BearerToken(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		claims, err := ParseJWT(secret, tokenString, TokenKindAccess)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "トークンが無効です"})
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// RequireRole は指定した権限を持つユーザーのみ通すGinミドルウェアを返す。
// JWTAuthミドルウェアが事前に適用されている必要がある。
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("role") != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "この操作を行う権限がありません"})
			return
		}
		c.Next()
	}
}

// GetUserID はGinコンテキストからユーザーIDを取得する。
// JWTAuthミドルウェアが事前に適用されている必要がある。
func GetUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}
