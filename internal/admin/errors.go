package admin

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nao1215/lingo/pkg/httpclient"
	"github.com/nao1215/lingo/pkg/model"
)

// respondError はバックエンド呼び出しのエラーをレスポンスに変換する。
// セッションが失効した場合は "/" にリダイレクトする。
func (s *Server) respondError(c *gin.Context, err error) {
	var httpErr *httpclient.HTTPError
	switch {
	case errors.Is(err, httpclient.ErrSessionExpired):
		s.redirectToEntry(c)
	case errors.Is(err, model.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &httpErr):
		c.JSON(httpErr.StatusCode, gin.H{"error": backendMessage(httpErr)})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": "バックエンドとの通信に失敗しました"})
		log.Printf("バックエンド通信エラー: %v", err)
	}
}

// backendMessage はバックエンドのエラーレスポンスから表示用のメッセージを取り出す。
func backendMessage(err *httpclient.HTTPError) string {
	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal([]byte(err.Body), &body) == nil && body.Error != "" {
		return body.Error
	}
	return http.StatusText(err.StatusCode)
}
