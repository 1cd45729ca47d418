// Package auth はログイン状態を管理する。
// トークンの組をセッションストアに保存し、ログイン・登録・ログアウトを提供する。
package auth

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/nao1215/lingo/internal/service"
	"github.com/nao1215/lingo/pkg/model"
	"github.com/nao1215/lingo/pkg/session"
)

// ErrNotAuthenticated はセッションにトークンが無いことを表す。
var ErrNotAuthenticated = errors.New("ログインしていません")

// Manager はセッションIDごとのログイン状態を管理する。
type Manager struct {
	auth  *service.AuthService
	store session.Store
}

// NewManager は新しいManagerを生成する。
func NewManager(auth *service.AuthService, store session.Store) *Manager {
	return &Manager{auth: auth, store: store}
}

// Login はメールアドレスとパスワードで認証し、発行されたトークンを保存する。
func (m *Manager) Login(ctx context.Context, sessionID, email, password string) (*session.Session, error) {
	pair, err := m.auth.Authenticate(ctx, model.AuthenticateRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	return m.start(ctx, sessionID, pair)
}

// Register は管理者ユーザーを登録し、発行されたトークンを保存する。
func (m *Manager) Register(ctx context.Context, sessionID string, req model.RegisterRequest) (*session.Session, error) {
	pair, err := m.auth.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	return m.start(ctx, sessionID, pair)
}

// Logout は両方のトークンを破棄する。ログインしていなくてもエラーにしない。
func (m *Manager) Logout(ctx context.Context, sessionID string) error {
	if err := m.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("トークンの破棄に失敗: %w", err)
	}
	log.Printf("[Auth] ログアウトしました: session=%s", shortID(sessionID))
	return nil
}

// Session は保存済みのトークンを読み込む。
// トークンが無ければ ErrNotAuthenticated を返す。
func (m *Manager) Session(ctx context.Context, sessionID string) (*session.Session, error) {
	if sessionID == "" {
		return nil, ErrNotAuthenticated
	}
	sess, err := session.Open(ctx, m.store, sessionID)
	if errors.Is(err, session.ErrNotFound) {
		return nil, ErrNotAuthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("セッションの読み込みに失敗: %w", err)
	}
	if !sess.Authenticated() {
		return nil, ErrNotAuthenticated
	}
	return sess, nil
}

// IsAuthenticated はセッションがアクセストークンを保持しているかを返す。
func (m *Manager) IsAuthenticated(ctx context.Context, sessionID string) bool {
	_, err := m.Session(ctx, sessionID)
	return err == nil
}

// start はトークンを保存してセッションを開始する。
func (m *Manager) start(ctx context.Context, sessionID string, pair model.TokenPair) (*session.Session, error) {
	sess, err := session.Start(ctx, m.store, sessionID, session.Tokens{
		Access:  pair.AccessToken,
		Refresh: pair.RefreshToken,
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[Auth] ログインしました: session=%s", shortID(sessionID))
	return sess, nil
}

// shortID はログ出力用にセッションIDを短縮する。
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
