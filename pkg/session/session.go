package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nao1215/lingo/pkg/httpclient"
)

// ErrNotFound は指定されたセッションIDにトークンが保存されていないことを表す。
var ErrNotFound = errors.New("セッションが見つかりません")

// Tokens はセッションに保存するトークンの組。
type Tokens struct {
	// Access はアクセストークン。
	Access string `json:"access_token"`
	// Refresh はリフレッシュトークン。
	Refresh string `json:"refresh_token"`
}

// Store はセッションIDごとにトークンを保存する。
// 書き込みは後勝ちで、排他制御は行わない。
type Store interface {
	// Load はトークンを読み込む。存在しなければ ErrNotFound を返す。
	Load(ctx context.Context, id string) (Tokens, error)
	// Save はトークンを上書き保存する。存在しなければ作成する。
	Save(ctx context.Context, id string, tokens Tokens) error
	// Update は保存済みのトークンだけを書き換える。存在しなければ ErrNotFound を返す。
	Update(ctx context.Context, id string, tokens Tokens) error
	// Delete はトークンを削除する。存在しなくてもエラーにしない。
	Delete(ctx context.Context, id string) error
}

// Session は1つのセッションIDに紐づく認証情報。
type Session struct {
	id    string
	store Store

	mu     sync.RWMutex
	tokens Tokens
}

var _ httpclient.Credentials = (*Session)(nil)

// New はトークンを保存せずにSessionを生成する。
func New(id string, store Store, tokens Tokens) *Session {
	return &Session{id: id, store: store, tokens: tokens}
}

// Open は保存済みのトークンを読み込んでSessionを生成する。
func Open(ctx context.Context, store Store, id string) (*Session, error) {
	tokens, err := store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	return New(id, store, tokens), nil
}

// Start はトークンを保存して新しいSessionを開始する。
func Start(ctx context.Context, store Store, id string, tokens Tokens) (*Session, error) {
	if err := store.Save(ctx, id, tokens); err != nil {
		return nil, fmt.Errorf("トークンの保存に失敗: %w", err)
	}
	return New(id, store, tokens), nil
}

// ID はセッションIDを返す。
func (s *Session) ID() string {
	return s.id
}

// AccessToken は現在のアクセストークンを返す。
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens.Access
}

// RefreshToken は現在のリフレッシュトークンを返す。
func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens.Refresh
}

// Authenticated はアクセストークンを保持しているかを返す。
func (s *Session) Authenticated() bool {
	return s.AccessToken() != ""
}

// Reload は保存済みのトークンを読み込み直す。
// 同じセッションの別リクエストが再発行したトークンを取り込むために使う。
func (s *Session) Reload(ctx context.Context) error {
	tokens, err := s.store.Load(ctx, s.id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = tokens
	return nil
}

// UpdateTokens は再発行されたトークンを保存する。refresh が空なら据え置く。
// ログアウトなどで削除済みのセッションは作り直さず ErrNotFound を返す。
func (s *Session) UpdateTokens(ctx context.Context, access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := Tokens{Access: access, Refresh: s.tokens.Refresh}
	if refresh != "" {
		next.Refresh = refresh
	}
	if err := s.store.Update(ctx, s.id, next); err != nil {
		return err
	}
	s.tokens = next
	return nil
}

// Clear は両方のトークンを破棄する。
// ストアからの削除に失敗しても、メモリ上のトークンは必ず破棄する。
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens = Tokens{}
	return s.store.Delete(ctx, s.id)
}
