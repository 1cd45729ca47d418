package admin

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nao1215/lingo/pkg/model"
)

// handleIndex は公開のエントリページを返すハンドラを返す。
func (s *Server) handleIndex() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service":       "lingo",
			"authenticated": s.manager.IsAuthenticated(c.Request.Context(), sessionID(c)),
			"links": gin.H{
				"login":    "/login",
				"register": "/register",
				"admin":    "/admin",
			},
		})
	}
}

// handleLogin はログインを処理するハンドラを返す。
// 成功すると新しいセッションCookieを発行して /admin にリダイレクトする。
func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req model.AuthenticateRequest
		if err := c.ShouldBind(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("リクエストが不正です: %v", err)})
			return
		}

		id := newSessionID()
		if _, err := s.manager.Login(c.Request.Context(), id, req.Email, req.Password); err != nil {
			s.respondError(c, err)
			return
		}
		s.replaceSession(c, id)
		c.Redirect(http.StatusSeeOther, "/admin")
	}
}

// handleRegister は管理者ユーザーの登録を処理するハンドラを返す。
func (s *Server) handleRegister() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req model.RegisterRequest
		if err := c.ShouldBind(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("リクエストが不正です: %v", err)})
			return
		}

		id := newSessionID()
		if _, err := s.manager.Register(c.Request.Context(), id, req); err != nil {
			s.respondError(c, err)
			return
		}
		s.replaceSession(c, id)
		c.Redirect(http.StatusSeeOther, "/admin")
	}
}

// handleLogout はログアウトを処理するハンドラを返す。
// 両方のトークンを破棄して "/" にリダイレクトする。
func (s *Server) handleLogout() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := sessionID(c); id != "" {
			if err := s.manager.Logout(c.Request.Context(), id); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "ログアウトに失敗しました"})
				log.Printf("ログアウトエラー: %v", err)
				return
			}
		}
		s.redirectToEntry(c)
	}
}

// replaceSession は以前のセッションを破棄し、新しいセッションCookieを設定する。
func (s *Server) replaceSession(c *gin.Context, id string) {
	if old := sessionID(c); old != "" && old != id {
		if err := s.manager.Logout(c.Request.Context(), old); err != nil {
			log.Printf("以前のセッションの破棄に失敗: %v", err)
		}
	}
	s.setSessionCookie(c, id)
}

// handleDashboard は管理画面トップの集計を返すハンドラを返す。
func (s *Server) handleDashboard() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		languages, err := s.svc.languages.ListAll(ctx)
		if err != nil {
			s.respondError(c, err)
			return
		}
		courses, err := s.svc.courses.ListByLanguage(ctx, "")
		if err != nil {
			s.respondError(c, err)
			return
		}
		users, err := s.svc.users.List(ctx)
		if err != nil {
			s.respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"counts": gin.H{
				"languages": len(languages),
				"courses":   len(courses),
				"users":     len(users),
			},
		})
	}
}
