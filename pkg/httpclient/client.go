package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/singleflight"
)

// DefaultRefreshPath はアクセストークン再発行エンドポイントのデフォルトパス。
const DefaultRefreshPath = "/api/v1/auth/refresh-token"

// Client はバックエンドREST API用の認証付きHTTPクライアント。
type Client struct {
	// rest は内部で使用するrestyクライアント。リトライはこのパッケージの状態遷移で制御する。
	rest *resty.Client
	// baseURL は接続先バックエンドのベースURL。
	baseURL string
	// refreshPath はアクセストークン再発行エンドポイントのパス。
	refreshPath string
	// onSessionExpired はセッション破棄時に呼ばれるフック。
	onSessionExpired func(ctx context.Context)
	// refreshGroup は同じリフレッシュトークンによる同時再発行を1回にまとめる。
	refreshGroup singleflight.Group
}

// Option はClientの設定を変更する関数。
type Option func(*Client)

// WithRefreshPath はアクセストークン再発行エンドポイントのパスを設定する。
func WithRefreshPath(path string) Option {
	return func(c *Client) {
		c.refreshPath = path
	}
}

// WithSessionExpiredHook はセッション破棄時に呼ばれるフックを設定する。
// トークンの破棄が終わった後に呼ばれる。
func WithSessionExpiredHook(hook func(ctx context.Context)) Option {
	return func(c *Client) {
		c.onSessionExpired = hook
	}
}

// WithTimeout はリクエスト1回あたりのタイムアウトを設定する。
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.rest.SetTimeout(d)
	}
}

// New は新しい認証付きHTTPクライアントを生成する。
// baseURLには接続先バックエンドのベースURL（例: "http://localhost:8080"）を指定する。
func New(baseURL string, opts ...Option) *Client {
	rest := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30*time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetDisableWarn(true)

	c := &Client{
		rest:        rest,
		baseURL:     baseURL,
		refreshPath: DefaultRefreshPath,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL は接続先バックエンドのベースURLを返す。
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetJSON は指定パスにGETリクエストを送信する。
// レスポンスボディをresultにデシリアライズする。
func (c *Client) GetJSON(ctx context.Context, path string, result any) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, result)
}

// PostJSON は指定パスにJSONボディでPOSTリクエストを送信する。
// レスポンスボディをresultにデシリアライズする。
func (c *Client) PostJSON(ctx context.Context, path string, body any, result any) error {
	return c.doJSON(ctx, http.MethodPost, path, body, result)
}

// PutJSON は指定パスにJSONボディでPUTリクエストを送信する。
func (c *Client) PutJSON(ctx context.Context, path string, body any, result any) error {
	return c.doJSON(ctx, http.MethodPut, path, body, result)
}

// DeleteJSON は指定パスにDELETEリクエストを送信する。
func (c *Client) DeleteJSON(ctx context.Context, path string, result any) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, result)
}

// doJSON は状態遷移表に従ってリクエストを実行する共通処理。
func (c *Client) doJSON(ctx context.Context, method, path string, body any, result any) error {
	creds := credentialsFrom(ctx)
	token := ""
	if creds != nil {
		token = creds.AccessToken()
	}

	var err error
	st := stateSending
	for !st.terminal() {
		var o outcome
		switch st {
		case stateSending, stateRetrying:
			o, err = c.attempt(ctx, method, path, body, token, result)
		case stateUnauthorized:
			o = outcomeProceed
		case stateRefreshing:
			token, err = c.refresh(ctx, creds, token)
			o = refreshOutcome(ctx, err)
		}
		st = transition(st, o)
	}

	if st == stateSessionExpired {
		c.expire(ctx, creds)
		return fmt.Errorf("%w: %w", ErrSessionExpired, err)
	}
	return err
}

// attempt はリクエストを1回送信し、結果を分類する。
func (c *Client) attempt(ctx context.Context, method, path string, body any, token string, result any) (outcome, error) {
	req := c.rest.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	if token != "" {
		req.SetAuthToken(token)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return outcomeError, fmt.Errorf("HTTPリクエストの送信に失敗: %w", err)
	}

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		httpErr := &HTTPError{StatusCode: resp.StatusCode(), Body: string(resp.Body())}
		// 匿名リクエストの401は再発行の対象にしない
		if resp.StatusCode() == http.StatusUnauthorized && token != "" {
			return outcomeUnauthorized, httpErr
		}
		return outcomeError, httpErr
	}

	if result != nil && len(resp.Body()) > 0 {
		if err := json.Unmarshal(resp.Body(), result); err != nil {
			return outcomeError, fmt.Errorf("レスポンスボディのデシリアライズに失敗: %w", err)
		}
	}
	return outcomeOK, nil
}

// refreshResponse は再発行エンドポイントのレスポンス。
type refreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// refresh はリフレッシュトークンでアクセストークンを再発行し、認証情報に保存する。
// rejected は401を受けたアクセストークン。同じセッションの別リクエストが既に
// 再発行を終えていれば、保存済みのトークンをそのまま使って再発行はしない。
// 同じリフレッシュトークンでの再発行はsingleflightで1回の通信にまとめる。
func (c *Client) refresh(ctx context.Context, creds Credentials, rejected string) (string, error) {
	if err := creds.Reload(ctx); err != nil {
		return "", fmt.Errorf("保存済みトークンの読み込みに失敗: %w", err)
	}
	refreshToken := creds.RefreshToken()
	if renewed(creds, refreshToken, rejected) {
		return creds.AccessToken(), nil
	}
	if refreshToken == "" {
		return "", errors.New("リフレッシュトークンがありません")
	}

	ch := c.refreshGroup.DoChan(refreshToken, func() (any, error) {
		// 最初の呼び出し元のキャンセルで他の待機者まで失敗しないようにする
		detached := context.WithoutCancel(ctx)

		// 同じリフレッシュトークンによる直前の再発行は保存まで終わっている
		if err := creds.Reload(detached); err != nil {
			return nil, fmt.Errorf("保存済みトークンの読み込みに失敗: %w", err)
		}
		if renewed(creds, refreshToken, rejected) {
			return refreshResponse{AccessToken: creds.AccessToken(), RefreshToken: creds.RefreshToken()}, nil
		}

		pair, err := c.requestRefresh(detached, refreshToken)
		if err != nil {
			return nil, err
		}
		if err := creds.UpdateTokens(detached, pair.AccessToken, pair.RefreshToken); err != nil {
			return nil, fmt.Errorf("再発行したトークンの保存に失敗: %w", err)
		}
		return pair, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return "", res.Err
	}

	// 待機していた呼び出し元の認証情報にも反映する
	pair := res.Val.(refreshResponse)
	if err := creds.UpdateTokens(ctx, pair.AccessToken, pair.RefreshToken); err != nil {
		return "", fmt.Errorf("再発行したトークンの保存に失敗: %w", err)
	}
	return pair.AccessToken, nil
}

// renewed は読み込み直したトークンが、401を受けた後に再発行されたものかを返す。
func renewed(creds Credentials, refreshToken, rejected string) bool {
	access := creds.AccessToken()
	if access == "" {
		return false
	}
	return access != rejected || creds.RefreshToken() != refreshToken
}

// requestRefresh は再発行エンドポイントを呼び出す。
func (c *Client) requestRefresh(ctx context.Context, refreshToken string) (refreshResponse, error) {
	resp, err := c.rest.R().
		SetContext(ctx).
		SetAuthToken(refreshToken).
		Post(c.refreshPath)
	if err != nil {
		return refreshResponse{}, fmt.Errorf("トークン再発行リクエストの送信に失敗: %w", err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return refreshResponse{}, &HTTPError{StatusCode: resp.StatusCode(), Body: string(resp.Body())}
	}

	var pair refreshResponse
	if err := json.Unmarshal(resp.Body(), &pair); err != nil {
		return refreshResponse{}, fmt.Errorf("トークン再発行レスポンスのデシリアライズに失敗: %w", err)
	}
	if pair.AccessToken == "" {
		return refreshResponse{}, errors.New("トークン再発行レスポンスにアクセストークンが含まれていません")
	}
	return pair, nil
}

// refreshOutcome は再発行の結果を分類する。
// 呼び出し元のキャンセルはセッション破棄ではなく通常の失敗として扱う。
func refreshOutcome(ctx context.Context, err error) outcome {
	switch {
	case err == nil:
		return outcomeRefreshed
	case ctx.Err() != nil:
		return outcomeError
	default:
		return outcomeRefreshFailed
	}
}

// expire は両方のトークンを破棄し、セッション破棄フックを呼び出す。
func (c *Client) expire(ctx context.Context, creds Credentials) {
	if err := creds.Clear(ctx); err != nil {
		log.Printf("[Gateway] トークンの破棄に失敗: %v", err)
	}
	log.Printf("[Gateway] トークンの再発行に失敗したためセッションを破棄しました")
	if c.onSessionExpired != nil {
		c.onSessionExpired(ctx)
	}
}
