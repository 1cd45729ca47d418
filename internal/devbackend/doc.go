// Package devbackend はローカル開発用のREST APIバックエンドを提供する。
//
// 管理画面とlingoctlが接続する /api/v1 のエンドポイント（認証、言語、コース、
// レッスン、クイズ、設問、選択肢、課題、ユーザー）をSQLiteの上に実装する。
// パスワードはbcryptでハッシュ化し、アクセストークンとリフレッシュトークンはJWTで発行する。
// リフレッシュトークンは1回限りで、再発行のたびに新しい組に差し替える。
package devbackend
