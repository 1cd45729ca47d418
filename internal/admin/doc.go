// Package admin は管理画面のHTTPサーバーを提供する。
//
// 公開ページとログイン・登録・ログアウトのエンドポイント、
// セッションCookieで保護された /admin 配下の各エンティティのCRUDを持つ。
// バックエンドへの通信はすべて認証付きHTTPクライアントを経由し、
// トークンの再発行に失敗したセッションは破棄して "/" にリダイレクトする。
package admin
