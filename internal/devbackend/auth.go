package devbackend

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/nao1215/lingo/pkg/middleware"
	"github.com/nao1215/lingo/pkg/model"
)

// handleRegister はユーザー登録を処理するハンドラを返す。
// 登録したユーザーでログインした状態のトークンの組を返す。
func (s *Server) handleRegister() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req model.RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("リクエストが不正です: %v", err)})
			return
		}
		role := req.Role
		if role == "" {
			role = model.RoleAdmin
		}
		if role != model.RoleAdmin && role != model.RoleUser {
			c.JSON(http.StatusBadRequest, gin.H{"error": "権限が不正です"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "パスワードのハッシュ化に失敗しました"})
			log.Printf("パスワードハッシュ化エラー: %v", err)
			return
		}

		user := model.User{
			ID:        uuid.New().String(),
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			Role:      role,
			CreatedAt: time.Now().UTC(),
		}
		err = s.store.CreateUser(c.Request.Context(), user, string(hash))
		if errors.Is(err, ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "このメールアドレスは既に登録されています"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ユーザーの作成に失敗しました"})
			log.Printf("ユーザー作成エラー: %v", err)
			return
		}

		s.respondTokenPair(c, http.StatusCreated, user)
	}
}

// handleAuthenticate はログインを処理するハンドラを返す。
func (s *Server) handleAuthenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req model.AuthenticateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("リクエストが不正です: %v", err)})
			return
		}

		row, err := s.store.userByEmail(c.Request.Context(), req.Email)
		if err != nil && !errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ユーザーの取得に失敗しました"})
			log.Printf("ユーザー取得エラー: %v", err)
			return
		}
		// ユーザーの有無とパスワードの誤りは区別しない
		if err != nil || bcrypt.CompareHashAndPassword([]byte(row.passwordHash), []byte(req.Password)) != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "メールアドレスまたはパスワードが正しくありません"})
			return
		}

		s.respondTokenPair(c, http.StatusOK, row.user)
	}
}

// handleRefreshToken はトークンの再発行を処理するハンドラを返す。
// リフレッシュトークンは1回しか使えず、使用済みのトークンは401になる。
func (s *Server) handleRefreshToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := middleware.BearerToken(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		claims, err := middleware.ParseJWT(s.jwtSecret, tokenString, middleware.TokenKindRefresh)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "リフレッシュトークンが無効です"})
			return
		}

		fresh, err := s.store.RevokeToken(c.Request.Context(), claims.ID, claims.ExpiresAt.Time)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "トークンの失効に失敗しました"})
			log.Printf("トークン失効エラー: %v", err)
			return
		}
		if !fresh {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "リフレッシュトークンは使用済みです"})
			log.Printf("[Auth] 使用済みリフレッシュトークンの再利用: user=%s", claims.UserID)
			return
		}

		user, err := s.store.GetUser(c.Request.Context(), claims.UserID)
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "ユーザーが存在しません"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ユーザーの取得に失敗しました"})
			log.Printf("ユーザー取得エラー: %v", err)
			return
		}

		s.respondTokenPair(c, http.StatusOK, user)
	}
}

// respondTokenPair はユーザーにトークンの組を発行して返す。
func (s *Server) respondTokenPair(c *gin.Context, status int, user model.User) {
	access, refresh, err := middleware.GenerateTokenPair(s.jwtSecret, middleware.Subject{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
	}, s.accessTTL, s.refreshTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "トークン生成に失敗しました"})
		log.Printf("JWT生成エラー: %v", err)
		return
	}
	c.JSON(status, model.TokenPair{AccessToken: access, RefreshToken: refresh})
}
