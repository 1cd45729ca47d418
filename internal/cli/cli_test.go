package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nao1215/lingo/internal/config"
	"github.com/nao1215/lingo/internal/devbackend"
	"github.com/nao1215/lingo/pkg/model"
	"github.com/nao1215/lingo/pkg/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testEnv は開発用バックエンドとトークンファイルを持つテスト環境。
type testEnv struct {
	dir       string
	apiURL    string
	tokenPath string
}

// newTestEnv はテスト環境を生成する。
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	dev, err := devbackend.NewServer(context.Background(), config.Backend{
		DBPath:      filepath.Join(dir, "lingo.db"),
		JWTSecret:   "test-secret-key",
		AccessTTL:   15 * time.Minute,
		RefreshTTL:  time.Hour,
		FrontendURL: "http://localhost:3000",
	})
	if err != nil {
		t.Fatalf("開発用バックエンドの初期化に失敗: %v", err)
	}
	t.Cleanup(func() { dev.Close() })

	srv := httptest.NewServer(dev.Handler())
	t.Cleanup(srv.Close)

	return &testEnv{dir: dir, apiURL: srv.URL, tokenPath: filepath.Join(dir, "tokens.db")}
}

// run はlingoctlを実行し、標準出力と標準エラーを返す。
func (e *testEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cfg := config.CLI{Env: config.EnvLocal, TokenPath: e.tokenPath}
	full := append([]string{"--api-url", e.apiURL}, args...)
	err := Execute(context.Background(), cfg, full, &out, &errOut)
	return out.String(), errOut.String(), err
}

// mustRun はlingoctlを実行し、失敗したらテストを中断する。
func (e *testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()

	out, errOut, err := e.run(t, args...)
	if err != nil {
		t.Fatalf("lingoctl %s に失敗: %v (stderr=%s)", strings.Join(args, " "), err, errOut)
	}
	return out
}

// writeJSON はテスト用の入力ファイルを作成する。
func (e *testEnv) writeJSON(t *testing.T, name string, v any) string {
	t.Helper()

	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("JSONのエンコードに失敗: %v", err)
	}
	path := filepath.Join(e.dir, name)
	if err := os.WriteFile(path, b, 0o600); err != nil {
		t.Fatalf("ファイル作成に失敗: %v", err)
	}
	return path
}

// register は管理者を登録する。
func (e *testEnv) register(t *testing.T) {
	t.Helper()
	e.mustRun(t, "register", "--firstname", "Ana", "--lastname", "García", "--email", "ana@example.com", "--password", "secret123")
}

// TestLoginAndCRUD はログインからCRUDまでの流れを検証する。
func TestLoginAndCRUD(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t)
	e.register(t)
	e.mustRun(t, "logout")

	out := e.mustRun(t, "login", "--email", "ana@example.com", "--password", "secret123")
	if !strings.Contains(out, "ログインしました") {
		t.Errorf("出力 = %q", out)
	}

	var lang model.Language
	out = e.mustRun(t, "create", "languages", "-f", e.writeJSON(t, "lang.json", model.LanguageRequest{Code: "de", Name: "German"}))
	if err := json.Unmarshal([]byte(out), &lang); err != nil {
		t.Fatalf("出力のパースに失敗: %v (out=%s)", err, out)
	}

	var course model.Course
	out = e.mustRun(t, "create", "courses", "-f", e.writeJSON(t, "course.json", model.CourseRequest{LanguageID: lang.ID, Title: "German A1"}))
	if err := json.Unmarshal([]byte(out), &course); err != nil {
		t.Fatalf("出力のパースに失敗: %v (out=%s)", err, out)
	}

	var courses []model.Course
	out = e.mustRun(t, "list", "courses", "--parent", lang.ID)
	if err := json.Unmarshal([]byte(out), &courses); err != nil {
		t.Fatalf("出力のパースに失敗: %v (out=%s)", err, out)
	}
	if len(courses) != 1 || courses[0].ID != course.ID {
		t.Errorf("courses = %+v", courses)
	}

	out = e.mustRun(t, "update", "courses", course.ID, "-f", e.writeJSON(t, "course2.json", model.CourseRequest{LanguageID: lang.ID, Title: "German A2"}))
	if !strings.Contains(out, "German A2") {
		t.Errorf("出力 = %q", out)
	}

	e.mustRun(t, "delete", "courses", course.ID)
	if _, _, err := e.run(t, "get", "courses", course.ID); err == nil {
		t.Error("削除したコースが取得できた")
	}
}

// TestLogout はログアウト後の動作を検証する。
func TestLogout(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t)
	e.register(t)
	e.mustRun(t, "logout")

	store, err := session.OpenBolt(e.tokenPath)
	if err != nil {
		t.Fatalf("OpenBolt()でエラーが発生: %v", err)
	}
	_, err = store.Load(context.Background(), sessionID)
	store.Close()
	if !errors.Is(err, session.ErrNotFound) {
		t.Errorf("Load() err = %v, want ErrNotFound", err)
	}

	if _, _, err := e.run(t, "list", "languages"); err == nil || !strings.Contains(err.Error(), "ログインしていません") {
		t.Errorf("err = %v", err)
	}
}

// TestSessionExpired は再発行に失敗した場合の動作を検証する。
func TestSessionExpired(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t)
	e.register(t)

	store, err := session.OpenBolt(e.tokenPath)
	if err != nil {
		t.Fatalf("OpenBolt()でエラーが発生: %v", err)
	}
	if err := store.Save(context.Background(), sessionID, session.Tokens{Access: "stale", Refresh: "revoked"}); err != nil {
		t.Fatalf("Save()でエラーが発生: %v", err)
	}
	store.Close()

	_, errOut, err := e.run(t, "list", "languages")
	if !errors.Is(err, ErrReLogin) {
		t.Fatalf("err = %v, want ErrReLogin", err)
	}
	if !strings.Contains(errOut, "破棄しました") {
		t.Errorf("stderr = %q", errOut)
	}

	store, err = session.OpenBolt(e.tokenPath)
	if err != nil {
		t.Fatalf("OpenBolt()でエラーが発生: %v", err)
	}
	defer store.Close()
	if _, err := store.Load(context.Background(), sessionID); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("Load() err = %v, want ErrNotFound", err)
	}
}

// TestInvalidUsage は誤った使い方を検証する。
func TestInvalidUsage(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t)
	e.register(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "不明な種別", args: []string{"list", "verbs"}, want: "不明な種別"},
		{name: "ユーザーは作成できない", args: []string{"create", "users", "-f", "x.json"}, want: "作成できません"},
		{name: "言語は親で絞り込めない", args: []string{"list", "languages", "--parent", "x"}, want: "絞り込めません"},
		{name: "入力ファイルが無い", args: []string{"create", "languages"}, want: "-f"},
		{name: "引数が足りない", args: []string{"get", "courses"}, want: "arg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := e.run(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want containing %q", err, tt.want)
			}
		})
	}

	t.Run("未知のフィールドは検証エラーになること", func(t *testing.T) {
		path := e.writeJSON(t, "bad.json", map[string]string{"code": "it", "name": "Italian", "colour": "green"})
		_, _, err := e.run(t, "create", "languages", "-f", path)
		if !errors.Is(err, model.ErrValidation) {
			t.Errorf("err = %v, want ErrValidation", err)
		}
	})
}
