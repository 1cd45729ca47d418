// 開発用バックエンドのエントリポイント。
// 管理画面とlingoctlが接続するREST APIをローカルのSQLiteで提供する。
// 本番環境では外部のバックエンドを使うこと。
package main

import (
	"context"
	"log"

	"github.com/nao1215/lingo/internal/config"
	"github.com/nao1215/lingo/internal/devbackend"
)

func main() {
	config.LoadDotEnv()

	cfg, err := config.LoadBackend()
	if err != nil {
		log.Fatalf("設定の読み込みに失敗: %v", err)
	}

	server, err := devbackend.NewServer(context.Background(), cfg)
	if err != nil {
		log.Fatalf("開発用バックエンドの初期化に失敗: %v", err)
	}

	log.Printf("開発用バックエンドを起動します: :%s", cfg.Port)
	if err := server.Run(); err != nil {
		log.Fatalf("開発用バックエンドの起動に失敗: %v", err)
	}
}
