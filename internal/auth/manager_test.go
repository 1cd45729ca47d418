package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/nao1215/lingo/internal/service"
	"github.com/nao1215/lingo/pkg/httpclient"
	"github.com/nao1215/lingo/pkg/model"
	"github.com/nao1215/lingo/pkg/session"
)

// fakeBackend は認証エンドポイントと保護されたエンドポイントを持つテスト用バックエンド。
type fakeBackend struct {
	mu    sync.Mutex
	auths []string
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/api/v1/auth/authenticate", "/api/v1/auth/register":
		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["password"] != "secret123" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"invalid credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"access-1","refresh_token":"refresh-1"}`))
	case "/api/v1/languages":
		b.mu.Lock()
		b.auths = append(b.auths, r.Header.Get("Authorization"))
		b.mu.Unlock()
		_, _ = w.Write([]byte(`[]`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (b *fakeBackend) lastAuth() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.auths) == 0 {
		return "<none>"
	}
	return b.auths[len(b.auths)-1]
}

func newTestManager(t *testing.T) (*Manager, *fakeBackend, *httpclient.Client, session.Store) {
	t.Helper()

	backend := &fakeBackend{}
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	client := httpclient.New(srv.URL)
	store := session.NewMemoryStore()
	return NewManager(service.NewAuthService(client), store), backend, client, store
}

// TestLogin はログインを検証する。
func TestLogin(t *testing.T) {
	t.Parallel()

	t.Run("ログイン後に両方のトークンが保存され認証済みGETが成功すること", func(t *testing.T) {
		t.Parallel()

		m, backend, client, store := newTestManager(t)
		ctx := context.Background()

		if _, err := m.Login(ctx, "sess-1", "ana@example.com", "secret123"); err != nil {
			t.Fatalf("Login()でエラーが発生: %v", err)
		}
		tokens, err := store.Load(ctx, "sess-1")
		if err != nil {
			t.Fatalf("Load()でエラーが発生: %v", err)
		}
		if tokens.Access != "access-1" || tokens.Refresh != "refresh-1" {
			t.Errorf("tokens = %+v", tokens)
		}
		if !m.IsAuthenticated(ctx, "sess-1") {
			t.Error("IsAuthenticated() = false, want true")
		}

		sess, err := m.Session(ctx, "sess-1")
		if err != nil {
			t.Fatalf("Session()でエラーが発生: %v", err)
		}
		if _, err := service.NewLanguageService(client).ListAll(httpclient.WithCredentials(ctx, sess)); err != nil {
			t.Fatalf("ListAll()でエラーが発生: %v", err)
		}
		if got := backend.lastAuth(); got != "Bearer access-1" {
			t.Errorf("Authorization = %q, want %q", got, "Bearer access-1")
		}
	})

	t.Run("資格情報が誤っていればトークンは保存されないこと", func(t *testing.T) {
		t.Parallel()

		m, _, _, store := newTestManager(t)
		ctx := context.Background()

		_, err := m.Login(ctx, "sess-1", "ana@example.com", "wrong")
		if httpclient.StatusCode(err) != http.StatusUnauthorized {
			t.Errorf("err = %v, want 401", err)
		}
		if _, err := store.Load(ctx, "sess-1"); !errors.Is(err, session.ErrNotFound) {
			t.Errorf("Load() err = %v, want ErrNotFound", err)
		}
	})

	t.Run("入力不備では検証エラーが返ること", func(t *testing.T) {
		t.Parallel()

		m, _, _, _ := newTestManager(t)
		if _, err := m.Login(context.Background(), "sess-1", "not-an-email", "secret123"); !errors.Is(err, model.ErrValidation) {
			t.Errorf("err = %v, want ErrValidation", err)
		}
	})
}

// TestRegister は登録を検証する。
func TestRegister(t *testing.T) {
	t.Parallel()

	m, _, _, _ := newTestManager(t)
	ctx := context.Background()

	sess, err := m.Register(ctx, "sess-2", model.RegisterRequest{
		FirstName: "Ana",
		LastName:  "García",
		Email:     "ana@example.com",
		Password:  "secret123",
	})
	if err != nil {
		t.Fatalf("Register()でエラーが発生: %v", err)
	}
	if sess.ID() != "sess-2" || sess.RefreshToken() != "refresh-1" {
		t.Errorf("session = %s %q", sess.ID(), sess.RefreshToken())
	}
}

// TestLogout はログアウトを検証する。
func TestLogout(t *testing.T) {
	t.Parallel()

	t.Run("ログアウト後は両方のトークンが消えAuthorizationヘッダーが付かないこと", func(t *testing.T) {
		t.Parallel()

		m, backend, client, store := newTestManager(t)
		ctx := context.Background()

		if _, err := m.Login(ctx, "sess-1", "ana@example.com", "secret123"); err != nil {
			t.Fatalf("Login()でエラーが発生: %v", err)
		}
		if err := m.Logout(ctx, "sess-1"); err != nil {
			t.Fatalf("Logout()でエラーが発生: %v", err)
		}
		if _, err := store.Load(ctx, "sess-1"); !errors.Is(err, session.ErrNotFound) {
			t.Errorf("Load() err = %v, want ErrNotFound", err)
		}
		if _, err := m.Session(ctx, "sess-1"); !errors.Is(err, ErrNotAuthenticated) {
			t.Errorf("Session() err = %v, want ErrNotAuthenticated", err)
		}

		// ログアウト後のセッション相当: 保存済みトークンが無い状態で送信する
		anon := session.New("sess-1", store, session.Tokens{})
		if _, err := service.NewLanguageService(client).ListAll(httpclient.WithCredentials(ctx, anon)); err != nil {
			t.Fatalf("ListAll()でエラーが発生: %v", err)
		}
		if got := backend.lastAuth(); got != "" {
			t.Errorf("Authorization = %q, want empty", got)
		}
	})

	t.Run("未ログインでもエラーにならないこと", func(t *testing.T) {
		t.Parallel()

		m, _, _, _ := newTestManager(t)
		if err := m.Logout(context.Background(), "unknown"); err != nil {
			t.Errorf("Logout()でエラーが発生: %v", err)
		}
	})
}

// TestSession はセッションの読み込みを検証する。
func TestSession(t *testing.T) {
	t.Parallel()

	m, _, _, store := newTestManager(t)
	ctx := context.Background()

	if _, err := m.Session(ctx, ""); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("空のID: err = %v, want ErrNotAuthenticated", err)
	}
	if err := store.Save(ctx, "refresh-only", session.Tokens{Refresh: "r"}); err != nil {
		t.Fatalf("Save()でエラーが発生: %v", err)
	}
	if m.IsAuthenticated(ctx, "refresh-only") {
		t.Error("アクセストークンが無いセッションが認証済みと判定された")
	}
}
