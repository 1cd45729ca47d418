// Package httpclient はバックエンドREST APIを呼び出す認証付きHTTPクライアントを提供する。
//
// リクエストごとにコンテキストから認証情報（Credentials）を取り出し、
// アクセストークンをBearerとして付与する。401が返った場合はリフレッシュトークンで
// 一度だけアクセストークンを再発行して元のリクエストを再送する。再発行に失敗した場合は
// 両方のトークンを破棄し、ErrSessionExpired を返す。
//
// 再発行の前に永続化されたトークンを読み込み直す。同じセッションの別リクエストが
// 先に再発行を終えていれば、そのトークンで再送し、使用済みのリフレッシュトークンは送らない。
//
// 1リクエストの処理は次の状態遷移で表される。
//
//	Sending → Success | Unauthorized | Failure
//	Unauthorized → Refreshing
//	Refreshing → Retrying | SessionExpired | Failure
//	Retrying → Success | Failure
//
// Retrying から Refreshing へ戻る遷移は存在しないため、再送は常に1回までとなる。
package httpclient
