// Package cli はlingoctlのコマンドツリーを提供する。
// 管理画面と同じ認証付きHTTPクライアントでバックエンドを操作し、
// トークンはローカルのbboltファイルに保存する。
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nao1215/lingo/internal/auth"
	"github.com/nao1215/lingo/internal/config"
	"github.com/nao1215/lingo/internal/service"
	"github.com/nao1215/lingo/pkg/httpclient"
	"github.com/nao1215/lingo/pkg/session"
)

// sessionID はトークンファイル内のセッションのキー。
const sessionID = "default"

// ErrReLogin はセッションが失効し、再ログインが必要なことを表す。
var ErrReLogin = errors.New("セッションの有効期限が切れました。lingoctl login で再ログインしてください")

// app はコマンド実行中に共有する状態。
type app struct {
	cfg       config.CLI
	apiURL    string
	tokenPath string

	out    io.Writer
	errOut io.Writer

	store   *session.BoltStore
	client  *httpclient.Client
	manager *auth.Manager
}

// Execute はコマンドを実行する。
// トークンファイルは実行の成否に関わらず閉じる。
func Execute(ctx context.Context, cfg config.CLI, args []string, out, errOut io.Writer) error {
	a := &app{cfg: cfg, out: out, errOut: errOut}
	defer a.close()

	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)

	err := root.ExecuteContext(ctx)
	if errors.Is(err, httpclient.ErrSessionExpired) {
		return ErrReLogin
	}
	return err
}

// rootCommand はコマンドツリーを組み立てる。
func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "lingoctl",
		Short:         "lingo管理APIのコマンドラインクライアント",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open()
		},
	}
	root.PersistentFlags().StringVar(&a.apiURL, "api-url", "", "バックエンドのベースURL（既定: LINGO_API_URL または APP_ENV から決定）")
	root.PersistentFlags().StringVar(&a.tokenPath, "token-file", "", "トークンを保存するファイル（既定: ~/.lingoctl/tokens.db）")

	root.AddCommand(
		a.loginCommand(),
		a.registerCommand(),
		a.logoutCommand(),
		a.listCommand(),
		a.getCommand(),
		a.createCommand(),
		a.updateCommand(),
		a.deleteCommand(),
	)
	return root
}

// open はトークンファイルとHTTPクライアントを準備する。
func (a *app) open() error {
	baseURL := a.cfg.BaseURL()
	if a.apiURL != "" {
		baseURL = a.apiURL
	}
	path := a.cfg.TokenPath
	if a.tokenPath != "" {
		path = a.tokenPath
	}

	store, err := session.OpenBolt(path)
	if err != nil {
		return err
	}
	a.store = store
	a.client = httpclient.New(baseURL, httpclient.WithSessionExpiredHook(func(context.Context) {
		fmt.Fprintln(a.errOut, "保存されていたトークンを破棄しました")
	}))
	a.manager = auth.NewManager(service.NewAuthService(a.client), store)
	return nil
}

// close はトークンファイルを閉じる。
func (a *app) close() {
	if a.store != nil {
		_ = a.store.Close()
		a.store = nil
	}
}

// authenticated は保存済みのトークンを付与したコンテキストを返す。
func (a *app) authenticated(ctx context.Context) (context.Context, error) {
	sess, err := a.manager.Session(ctx, sessionID)
	if errors.Is(err, auth.ErrNotAuthenticated) {
		return nil, errors.New("ログインしていません。lingoctl login でログインしてください")
	}
	if err != nil {
		return nil, err
	}
	return httpclient.WithCredentials(ctx, sess), nil
}

// printJSON は値を整形したJSONで出力する。
func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
