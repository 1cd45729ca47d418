package httpclient

import "context"

// Credentials はリクエストに付与する認証情報。
// 実装はトークンを永続化する責務を持ち、複数のリクエストから同時に呼ばれてもよい。
type Credentials interface {
	// AccessToken は現在のアクセストークンを返す。未ログインなら空文字列。
	AccessToken() string
	// RefreshToken は現在のリフレッシュトークンを返す。
	RefreshToken() string
	// Reload は永続化されたトークンを読み込み直す。
	// 永続化先からトークンが消えていればエラーを返す。
	Reload(ctx context.Context) error
	// UpdateTokens は再発行されたトークンを保存する。refresh が空文字列なら据え置く。
	UpdateTokens(ctx context.Context, access, refresh string) error
	// Clear は両方のトークンを破棄する。
	Clear(ctx context.Context) error
}

// contextKey はコンテキストキーの型。
type contextKey string

// contextKeyCredentials はコンテキストに認証情報を格納するためのキー。
const contextKeyCredentials contextKey = "credentials"

// WithCredentials はコンテキストに認証情報を設定する。
// 設定されていないリクエストは匿名として送信され、401でも再発行は行わない。
func WithCredentials(ctx context.Context, creds Credentials) context.Context {
	return context.WithValue(ctx, contextKeyCredentials, creds)
}

// credentialsFrom はコンテキストから認証情報を取り出す。
func credentialsFrom(ctx context.Context) Credentials {
	creds, _ := ctx.Value(contextKeyCredentials).(Credentials)
	return creds
}
