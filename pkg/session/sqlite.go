package session

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/nao1215/lingo/pkg/migration"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// SQLiteStore はSQLiteにトークンを保存するStore。
// 管理画面サーバーでCookieのセッションIDごとにトークンを保持する。
type SQLiteStore struct {
	// db はSQLiteデータベース接続。
	db *sql.DB
	// now は現在時刻を返す。テストで差し替える。
	now func() time.Time
}

// OpenSQLite はSQLiteデータベースを開き、スキーマを適用したStoreを返す。
func OpenSQLite(ctx context.Context, dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗: %w", err)
	}
	store, err := NewSQLiteStore(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// NewSQLiteStore は開いているデータベースにスキーマを適用したStoreを返す。
func NewSQLiteStore(ctx context.Context, db *sql.DB) (*SQLiteStore, error) {
	if _, err := migration.Run(ctx, db, migrations, "migrations"); err != nil {
		return nil, fmt.Errorf("スキーマ初期化に失敗: %w", err)
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Load はトークンを読み込み、最終利用日時を更新する。
func (s *SQLiteStore) Load(ctx context.Context, id string) (Tokens, error) {
	var tokens Tokens
	err := s.db.QueryRowContext(ctx, `
		UPDATE sessions SET last_used_at = ?
		WHERE id = ?
		RETURNING access_token, refresh_token`,
		s.now().Unix(), id,
	).Scan(&tokens.Access, &tokens.Refresh)
	if errors.Is(err, sql.ErrNoRows) {
		return Tokens{}, ErrNotFound
	}
	if err != nil {
		return Tokens{}, fmt.Errorf("セッションの取得に失敗: %w", err)
	}
	return tokens, nil
}

// Save はトークンを上書き保存する。
func (s *SQLiteStore) Save(ctx context.Context, id string, tokens Tokens) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, access_token, refresh_token, last_used_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			last_used_at = excluded.last_used_at`,
		id, tokens.Access, tokens.Refresh, s.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("セッションの保存に失敗: %w", err)
	}
	return nil
}

// Update は保存済みのトークンを書き換える。
// 行が無ければ作成せずに ErrNotFound を返す。
func (s *SQLiteStore) Update(ctx context.Context, id string, tokens Tokens) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE sessions SET access_token = ?, refresh_token = ?, last_used_at = ?
		WHERE id = ?`,
		tokens.Access, tokens.Refresh, s.now().Unix(), id,
	)
	if err != nil {
		return fmt.Errorf("セッションの更新に失敗: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("セッションの更新に失敗: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete はトークンを削除する。
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("セッションの削除に失敗: %w", err)
	}
	return nil
}

// PurgeIdle は指定時間以上使われていないセッションを削除し、削除件数を返す。
func (s *SQLiteStore) PurgeIdle(ctx context.Context, idle time.Duration) (int64, error) {
	cutoff := s.now().Add(-idle).Unix()
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE last_used_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("放置セッションの削除に失敗: %w", err)
	}
	return res.RowsAffected()
}

// Close はデータベース接続を閉じる。
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
