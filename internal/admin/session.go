package admin

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nao1215/lingo/internal/auth"
	"github.com/nao1215/lingo/pkg/httpclient"
)

// SessionCookie はセッションIDを保持するCookieの名前。
const SessionCookie = "lingo_session"

// sessionMaxAge はセッションCookieの有効期間（秒）。
const sessionMaxAge = 7 * 24 * 60 * 60

// sessionID はCookieからセッションIDを取り出す。
func sessionID(c *gin.Context) string {
	id, err := c.Cookie(SessionCookie)
	if err != nil {
		return ""
	}
	return id
}

// newSessionID は新しいセッションIDを発行する。
// ログインのたびに発行し直し、ログイン前のIDは引き継がない。
func newSessionID() string {
	return uuid.New().String()
}

// setSessionCookie はセッションCookieを設定する。
func (s *Server) setSessionCookie(c *gin.Context, id string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, id, sessionMaxAge, "/", "", s.cookieSecure, true)
}

// clearSessionCookie はセッションCookieを削除する。
func (s *Server) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", s.cookieSecure, true)
}

// requireSession はログイン済みのセッションを要求するミドルウェアを返す。
// 未ログインなら "/" にリダイレクトする。
// ログイン済みなら、以降のバックエンド呼び出しにセッションのトークンを付与する。
func (s *Server) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := s.manager.Session(c.Request.Context(), sessionID(c))
		if errors.Is(err, auth.ErrNotAuthenticated) {
			s.redirectToEntry(c)
			return
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "セッションの取得に失敗しました"})
			log.Printf("セッション取得エラー: %v", err)
			return
		}

		c.Request = c.Request.WithContext(httpclient.WithCredentials(c.Request.Context(), sess))
		c.Next()
	}
}

// redirectToEntry はセッションCookieを削除して "/" にリダイレクトする。
func (s *Server) redirectToEntry(c *gin.Context) {
	s.clearSessionCookie(c)
	c.Redirect(http.StatusSeeOther, "/")
	c.Abort()
}
