// lingoctlのエントリポイント。
// 管理APIをコマンドラインから操作する。トークンは ~/.lingoctl/tokens.db に保存する。
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/nao1215/lingo/internal/cli"
	"github.com/nao1215/lingo/internal/config"
)

func main() {
	config.LoadDotEnv()

	home, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ホームディレクトリの取得に失敗: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.LoadCLI(home)
	if err != nil {
		fmt.Fprintf(os.Stderr, "設定の読み込みに失敗: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err = cli.Execute(ctx, cfg, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "エラー: %v\n", err)
		os.Exit(1)
	}
}
