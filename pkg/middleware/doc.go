// Package middleware はGinベースのHTTPサーバーで使用する共通ミドルウェアを提供する。
//
// アクセストークン/リフレッシュトークンの発行と検証、パニックリカバリ、
// CORS設定を含む。管理画面サーバーと開発用バックエンドの両方で使用する。
package middleware
