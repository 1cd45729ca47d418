// Package session はアクセストークンとリフレッシュトークンの組を永続化する。
//
// Session は1つのセッションIDとStoreを結び付け、httpclient.Credentials として
// リクエストごとにコンテキスト経由で受け渡される。ログインで保存され、
// ログアウトまたはトークン再発行の失敗で破棄される。
// 再発行されたトークンは保存済みのセッションだけを書き換え、破棄済みのセッションは作り直さない。
//
// Store の実装として、テスト用の MemoryStore、管理画面サーバー用の SQLiteStore、
// コマンドラインクライアント用の BoltStore を提供する。
package session
