package session

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

// newTestSQLiteStore はインメモリSQLiteのStoreを生成する。
func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("インメモリDBの作成に失敗: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	store, err := NewSQLiteStore(context.Background(), db)
	if err != nil {
		t.Fatalf("NewSQLiteStore()でエラーが発生: %v", err)
	}
	return store
}

// newTestBoltStore は一時ディレクトリにBoltStoreを生成する。
func newTestBoltStore(t *testing.T) *BoltStore {
	t.Helper()

	store, err := OpenBolt(filepath.Join(t.TempDir(), "nested", "tokens.db"))
	if err != nil {
		t.Fatalf("OpenBolt()でエラーが発生: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// TestStores はすべてのStore実装が同じ振る舞いをすることを検証する。
func TestStores(t *testing.T) {
	t.Parallel()

	stores := map[string]func(t *testing.T) Store{
		"memory": func(*testing.T) Store { return NewMemoryStore() },
		"sqlite": func(t *testing.T) Store { return newTestSQLiteStore(t) },
		"bolt":   func(t *testing.T) Store { return newTestBoltStore(t) },
	}

	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()

			t.Run("保存していないIDはErrNotFoundになること", func(t *testing.T) {
				store := newStore(t)
				if _, err := store.Load(ctx, "missing"); !errors.Is(err, ErrNotFound) {
					t.Errorf("err = %v, want ErrNotFound", err)
				}
			})

			t.Run("保存したトークンを読み込めること", func(t *testing.T) {
				store := newStore(t)
				want := Tokens{Access: "access-1", Refresh: "refresh-1"}
				if err := store.Save(ctx, "sid", want); err != nil {
					t.Fatalf("Save()でエラーが発生: %v", err)
				}
				got, err := store.Load(ctx, "sid")
				if err != nil {
					t.Fatalf("Load()でエラーが発生: %v", err)
				}
				if got != want {
					t.Errorf("Load() = %+v, want %+v", got, want)
				}
			})

			t.Run("後から保存した値で上書きされること", func(t *testing.T) {
				store := newStore(t)
				_ = store.Save(ctx, "sid", Tokens{Access: "a1", Refresh: "r1"})
				_ = store.Save(ctx, "sid", Tokens{Access: "a2", Refresh: "r1"})
				got, err := store.Load(ctx, "sid")
				if err != nil {
					t.Fatalf("Load()でエラーが発生: %v", err)
				}
				if got.Access != "a2" {
					t.Errorf("Access = %q, want %q", got.Access, "a2")
				}
			})

			t.Run("削除後はErrNotFoundになり二重削除もエラーにならないこと", func(t *testing.T) {
				store := newStore(t)
				_ = store.Save(ctx, "sid", Tokens{Access: "a1", Refresh: "r1"})
				if err := store.Delete(ctx, "sid"); err != nil {
					t.Fatalf("Delete()でエラーが発生: %v", err)
				}
				if err := store.Delete(ctx, "sid"); err != nil {
					t.Fatalf("2回目のDelete()でエラーが発生: %v", err)
				}
				if _, err := store.Load(ctx, "sid"); !errors.Is(err, ErrNotFound) {
					t.Errorf("err = %v, want ErrNotFound", err)
				}
			})

			t.Run("Updateで保存済みのトークンが書き換わること", func(t *testing.T) {
				store := newStore(t)
				_ = store.Save(ctx, "sid", Tokens{Access: "a1", Refresh: "r1"})
				if err := store.Update(ctx, "sid", Tokens{Access: "a2", Refresh: "r2"}); err != nil {
					t.Fatalf("Update()でエラーが発生: %v", err)
				}
				got, err := store.Load(ctx, "sid")
				if err != nil {
					t.Fatalf("Load()でエラーが発生: %v", err)
				}
				if got != (Tokens{Access: "a2", Refresh: "r2"}) {
					t.Errorf("Load() = %+v", got)
				}
			})

			t.Run("削除済みのIDはUpdateで作り直されないこと", func(t *testing.T) {
				store := newStore(t)
				_ = store.Save(ctx, "sid", Tokens{Access: "a1", Refresh: "r1"})
				_ = store.Delete(ctx, "sid")
				if err := store.Update(ctx, "sid", Tokens{Access: "a2", Refresh: "r2"}); !errors.Is(err, ErrNotFound) {
					t.Errorf("Update() err = %v, want ErrNotFound", err)
				}
				if _, err := store.Load(ctx, "sid"); !errors.Is(err, ErrNotFound) {
					t.Errorf("Load() err = %v, want ErrNotFound", err)
				}
			})
		})
	}
}

// TestSQLiteStorePurgeIdle は放置セッションの削除を検証する。
func TestSQLiteStorePurgeIdle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestSQLiteStore(t)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return base }
	_ = store.Save(ctx, "old", Tokens{Access: "a", Refresh: "r"})

	store.now = func() time.Time { return base.Add(6 * 24 * time.Hour) }
	_ = store.Save(ctx, "recent", Tokens{Access: "a", Refresh: "r"})

	store.now = func() time.Time { return base.Add(8 * 24 * time.Hour) }
	n, err := store.PurgeIdle(ctx, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("PurgeIdle()でエラーが発生: %v", err)
	}
	if n != 1 {
		t.Errorf("削除件数 = %d, want 1", n)
	}
	if _, err := store.Load(ctx, "old"); !errors.Is(err, ErrNotFound) {
		t.Errorf("古いセッションが残っている: err=%v", err)
	}
	if _, err := store.Load(ctx, "recent"); err != nil {
		t.Errorf("新しいセッションが削除された: %v", err)
	}
}

// TestBoltStorePersists はファイルを開き直してもトークンが残ることを検証する。
func TestBoltStorePersists(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tokens.db")
	store, err := OpenBolt(path)
	if err != nil {
		t.Fatalf("OpenBolt()でエラーが発生: %v", err)
	}
	if err := store.Save(context.Background(), "default", Tokens{Access: "a", Refresh: "r"}); err != nil {
		t.Fatalf("Save()でエラーが発生: %v", err)
	}
	store.Close()

	reopened, err := OpenBolt(path)
	if err != nil {
		t.Fatalf("再オープンに失敗: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Load(context.Background(), "default")
	if err != nil {
		t.Fatalf("Load()でエラーが発生: %v", err)
	}
	if got.Access != "a" || got.Refresh != "r" {
		t.Errorf("Load() = %+v", got)
	}
}
