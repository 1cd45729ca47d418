// 管理画面サーバーのエントリポイント。
// ログイン・登録・ログアウトと、セッションCookieで保護された各エンティティのCRUDを提供する。
// バックエンドへの通信はすべて認証付きHTTPクライアントを経由する。
package main

import (
	"context"
	"log"

	"github.com/nao1215/lingo/internal/admin"
	"github.com/nao1215/lingo/internal/config"
)

func main() {
	config.LoadDotEnv()

	cfg, err := config.LoadAdmin()
	if err != nil {
		log.Fatalf("設定の読み込みに失敗: %v", err)
	}

	server, err := admin.NewServer(context.Background(), cfg)
	if err != nil {
		log.Fatalf("管理画面サーバーの初期化に失敗: %v", err)
	}

	log.Printf("管理画面サービスを起動します: :%s", cfg.Port)
	if err := server.Run(); err != nil {
		log.Fatalf("管理画面サービスの起動に失敗: %v", err)
	}
}
