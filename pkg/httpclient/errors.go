package httpclient

import (
	"errors"
	"fmt"
)

// ErrSessionExpired はアクセストークンの再発行に失敗し、セッションが破棄されたことを表す。
// 呼び出し元は未認証の入口（"/"）へ遷移させる必要がある。
var ErrSessionExpired = errors.New("セッションの有効期限が切れました")

// HTTPError はバックエンドが2xx以外のステータスを返したことを表す。
// レスポンスボディは解釈せずそのまま保持する。
type HTTPError struct {
	// StatusCode はHTTPステータスコード。
	StatusCode int
	// Body はレスポンスボディ。
	Body string
}

// Error はエラーメッセージを返す。
func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTPエラー: status=%d, body=%s", e.StatusCode, e.Body)
}

// StatusCode はエラーが HTTPError の場合にそのステータスコードを返す。
// それ以外の場合は0を返す。
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}
