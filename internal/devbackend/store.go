package devbackend

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nao1215/lingo/pkg/migration"
	"github.com/nao1215/lingo/pkg/model"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

var (
	// ErrNotFound は対象の行が存在しないことを表す。
	ErrNotFound = errors.New("見つかりません")
	// ErrConflict は一意制約に違反することを表す。
	ErrConflict = errors.New("既に存在します")
)

// Store は開発用バックエンドのSQLiteストア。
type Store struct {
	db *sql.DB
}

// NewStore はスキーマを適用したStoreを返す。
func NewStore(ctx context.Context, db *sql.DB) (*Store, error) {
	if _, err := migration.Run(ctx, db, migrations, "migrations"); err != nil {
		return nil, fmt.Errorf("スキーマ初期化に失敗: %w", err)
	}
	return &Store{db: db}, nil
}

// Close はデータベース接続を閉じる。
func (s *Store) Close() error {
	return s.db.Close()
}

// userRow はusersテーブルの1行。
type userRow struct {
	user         model.User
	passwordHash string
}

const userColumns = "id, first_name, last_name, email, password_hash, role, created_at"

func scanUser(row interface{ Scan(...any) error }) (userRow, error) {
	var (
		u       userRow
		created string
	)
	if err := row.Scan(&u.user.ID, &u.user.FirstName, &u.user.LastName, &u.user.Email, &u.passwordHash, &u.user.Role, &created); err != nil {
		return userRow{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return userRow{}, fmt.Errorf("作成日時の解析に失敗: %w", err)
	}
	u.user.CreatedAt = t
	return u, nil
}

// CreateUser はユーザーを作成する。メールアドレスが重複していれば ErrConflict を返す。
func (s *Store) CreateUser(ctx context.Context, u model.User, passwordHash string) error {
	if _, err := s.userByEmail(ctx, u.Email); err == nil {
		return ErrConflict
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users ("+userColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		u.ID, u.FirstName, u.LastName, u.Email, passwordHash, u.Role, u.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("ユーザーの作成に失敗: %w", err)
	}
	return nil
}

// userByEmail はメールアドレスでユーザーを取得する。
func (s *Store) userByEmail(ctx context.Context, email string) (userRow, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = ?", email))
	if errors.Is(err, sql.ErrNoRows) {
		return userRow{}, ErrNotFound
	}
	if err != nil {
		return userRow{}, fmt.Errorf("ユーザーの取得に失敗: %w", err)
	}
	return u, nil
}

// GetUser はIDでユーザーを取得する。
func (s *Store) GetUser(ctx context.Context, id string) (model.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("ユーザーの取得に失敗: %w", err)
	}
	return u.user, nil
}

// ListUsers は全ユーザーを作成順に取得する。
func (s *Store) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("ユーザー一覧の取得に失敗: %w", err)
	}
	defer func() { _ = rows.Close() }()

	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u.user)
	}
	return users, rows.Err()
}

// UpdateUser はユーザーのプロフィールと権限を更新する。
func (s *Store) UpdateUser(ctx context.Context, id string, req model.UserRequest) (model.User, error) {
	if existing, err := s.userByEmail(ctx, req.Email); err == nil && existing.user.ID != id {
		return model.User{}, ErrConflict
	}
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET first_name = ?, last_name = ?, email = ?, role = ? WHERE id = ?",
		req.FirstName, req.LastName, req.Email, req.Role, id,
	)
	if err != nil {
		return model.User{}, fmt.Errorf("ユーザーの更新に失敗: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.User{}, ErrNotFound
	}
	return s.GetUser(ctx, id)
}

// DeleteUser はユーザーを削除する。
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	return s.deleteOne(ctx, "DELETE FROM users WHERE id = ?", id)
}

// resourceRow はresourcesテーブルの1行。
type resourceRow struct {
	body      json.RawMessage
	createdAt time.Time
}

// CreateResource はリソースを保存する。
func (s *Store) CreateResource(ctx context.Context, kind, id, parentID string, body []byte, now time.Time) error {
	ts := now.Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO resources (kind, id, parent_id, body, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		kind, id, parentID, string(body), ts, ts,
	)
	if err != nil {
		return fmt.Errorf("%sの作成に失敗: %w", kind, err)
	}
	return nil
}

// GetResource はリソースを1件取得する。
func (s *Store) GetResource(ctx context.Context, kind, id string) (resourceRow, error) {
	var body, created string
	err := s.db.QueryRowContext(ctx,
		"SELECT body, created_at FROM resources WHERE kind = ? AND id = ?", kind, id,
	).Scan(&body, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return resourceRow{}, ErrNotFound
	}
	if err != nil {
		return resourceRow{}, fmt.Errorf("%sの取得に失敗: %w", kind, err)
	}
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return resourceRow{}, fmt.Errorf("作成日時の解析に失敗: %w", err)
	}
	return resourceRow{body: json.RawMessage(body), createdAt: t}, nil
}

// ResourceExists はリソースが存在するかを返す。
func (s *Store) ResourceExists(ctx context.Context, kind, id string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM resources WHERE kind = ? AND id = ?", kind, id,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("%sの存在確認に失敗: %w", kind, err)
	}
	return n > 0, nil
}

// ListResources はリソースを作成順に取得する。parentID が空なら全件。
func (s *Store) ListResources(ctx context.Context, kind, parentID string) ([]json.RawMessage, error) {
	query := "SELECT body FROM resources WHERE kind = ?"
	args := []any{kind}
	if parentID != "" {
		query += " AND parent_id = ?"
		args = append(args, parentID)
	}
	query += " ORDER BY rowid"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s一覧の取得に失敗: %w", kind, err)
	}
	defer func() { _ = rows.Close() }()

	items := []json.RawMessage{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		items = append(items, json.RawMessage(body))
	}
	return items, rows.Err()
}

// UpdateResource はリソースを上書きする。
func (s *Store) UpdateResource(ctx context.Context, kind, id, parentID string, body []byte, now time.Time) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE resources SET parent_id = ?, body = ?, updated_at = ? WHERE kind = ? AND id = ?",
		parentID, string(body), now.Format(time.RFC3339Nano), kind, id,
	)
	if err != nil {
		return fmt.Errorf("%sの更新に失敗: %w", kind, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteResource はリソースを削除する。
func (s *Store) DeleteResource(ctx context.Context, kind, id string) error {
	return s.deleteOne(ctx, "DELETE FROM resources WHERE kind = ? AND id = ?", kind, id)
}

// RevokeToken は使用済みのリフレッシュトークンを記録する。
// 既に記録されていれば false を返す。
func (s *Store) RevokeToken(ctx context.Context, jti string, expiresAt time.Time) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO revoked_tokens (jti, expires_at) VALUES (?, ?)",
		jti, expiresAt.Unix(),
	)
	if err != nil {
		return false, fmt.Errorf("トークンの失効に失敗: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// PurgeRevoked は有効期限を過ぎた失効記録を削除する。
func (s *Store) PurgeRevoked(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM revoked_tokens WHERE expires_at < ?", now.Unix())
	if err != nil {
		return 0, fmt.Errorf("失効記録の削除に失敗: %w", err)
	}
	return res.RowsAffected()
}

// deleteOne は1行を削除し、対象が無ければ ErrNotFound を返す。
func (s *Store) deleteOne(ctx context.Context, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("削除に失敗: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
