// Package config は環境変数からアプリケーション設定を読み込む。
// カレントディレクトリに .env があれば先に読み込み、既存の環境変数を優先する。
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// 接続先バックエンドのベースURL。
const (
	// ProductionAPIURL は本番環境のバックエンド。
	ProductionAPIURL = "https://api.lingo.example.com"
	// LocalAPIURL はローカル開発用バックエンド（cmd/devbackend）。
	LocalAPIURL = "http://localhost:8080"
)

// Env は実行環境。
type Env string

const (
	// EnvLocal はローカル開発環境。
	EnvLocal Env = "local"
	// EnvProduction は本番環境。
	EnvProduction Env = "production"
)

// Admin は管理画面サーバーの設定。
type Admin struct {
	// Port はリッスンポート。
	Port string
	// Env は実行環境。
	Env Env
	// APIURL は LINGO_API_URL で明示されたバックエンドURL。空なら Env から決める。
	APIURL string
	// SessionDBPath はセッションを保存するSQLiteファイルのパス。
	SessionDBPath string
	// FrontendURL はCORSで許可するオリジン。
	FrontendURL string
	// CookieSecure はセッションCookieにSecure属性を付けるか。
	CookieSecure bool
	// SessionIdleTimeout は未使用セッションを削除するまでの時間。
	SessionIdleTimeout time.Duration
}

// BaseURL は接続先バックエンドのベースURLを返す。
func (a Admin) BaseURL() string {
	return resolveBaseURL(a.APIURL, a.Env)
}

// Backend は開発用バックエンドの設定。
type Backend struct {
	// Port はリッスンポート。
	Port string
	// DBPath はSQLiteファイルのパス。
	DBPath string
	// JWTSecret はトークン署名用の秘密鍵。
	JWTSecret string
	// AccessTTL はアクセストークンの有効期間。
	AccessTTL time.Duration
	// RefreshTTL はリフレッシュトークンの有効期間。
	RefreshTTL time.Duration
	// FrontendURL はCORSで許可するオリジン。
	FrontendURL string
}

// CLI はlingoctlの設定。
type CLI struct {
	// Env は実行環境。
	Env Env
	// APIURL は LINGO_API_URL で明示されたバックエンドURL。
	APIURL string
	// TokenPath はトークンを保存するbboltファイルのパス。
	TokenPath string
}

// BaseURL は接続先バックエンドのベースURLを返す。
func (c CLI) BaseURL() string {
	return resolveBaseURL(c.APIURL, c.Env)
}

// LoadDotEnv は .env を読み込む。ファイルが無くてもエラーにしない。
func LoadDotEnv(paths ...string) {
	if err := godotenv.Load(paths...); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("[Config] .envの読み込みに失敗: %v", err)
		}
	}
}

// LoadAdmin は管理画面サーバーの設定を読み込む。
func LoadAdmin() (Admin, error) {
	idle, err := getDurationOr("SESSION_IDLE_TIMEOUT", 24*time.Hour)
	if err != nil {
		return Admin{}, err
	}
	secure, err := getBoolOr("COOKIE_SECURE", false)
	if err != nil {
		return Admin{}, err
	}
	env, err := parseEnv(getEnvOr("APP_ENV", string(EnvLocal)))
	if err != nil {
		return Admin{}, err
	}
	return Admin{
		Port:               getEnvOr("PORT", "3000"),
		Env:                env,
		APIURL:             os.Getenv("LINGO_API_URL"),
		SessionDBPath:      getEnvOr("SESSION_DB_PATH", "data/sessions.db"),
		FrontendURL:        getEnvOr("FRONTEND_URL", "http://localhost:3000"),
		CookieSecure:       secure,
		SessionIdleTimeout: idle,
	}, nil
}

// LoadBackend は開発用バックエンドの設定を読み込む。
func LoadBackend() (Backend, error) {
	accessTTL, err := getDurationOr("ACCESS_TOKEN_TTL", 15*time.Minute)
	if err != nil {
		return Backend{}, err
	}
	refreshTTL, err := getDurationOr("REFRESH_TOKEN_TTL", 7*24*time.Hour)
	if err != nil {
		return Backend{}, err
	}
	return Backend{
		Port:        getEnvOr("PORT", "8080"),
		DBPath:      getEnvOr("DB_PATH", "data/lingo.db"),
		JWTSecret:   getEnvOr("JWT_SECRET", "dev-secret-key"),
		AccessTTL:   accessTTL,
		RefreshTTL:  refreshTTL,
		FrontendURL: getEnvOr("FRONTEND_URL", "http://localhost:3000"),
	}, nil
}

// LoadCLI はlingoctlの設定を読み込む。
// home はトークンファイルの既定の置き場所に使う。
func LoadCLI(home string) (CLI, error) {
	env, err := parseEnv(getEnvOr("APP_ENV", string(EnvLocal)))
	if err != nil {
		return CLI{}, err
	}
	return CLI{
		Env:       env,
		APIURL:    os.Getenv("LINGO_API_URL"),
		TokenPath: getEnvOr("LINGOCTL_TOKEN_PATH", home+"/.lingoctl/tokens.db"),
	}, nil
}

// resolveBaseURL は明示されたURLを優先し、無ければ実行環境から決める。
func resolveBaseURL(explicit string, env Env) string {
	if explicit != "" {
		return explicit
	}
	if env == EnvProduction {
		return ProductionAPIURL
	}
	return LocalAPIURL
}

// parseEnv は APP_ENV の値を検証する。
func parseEnv(v string) (Env, error) {
	switch Env(v) {
	case EnvLocal, EnvProduction:
		return Env(v), nil
	case "prod":
		return EnvProduction, nil
	default:
		return "", fmt.Errorf("APP_ENVの値が不正です: %q", v)
	}
}

// getEnvOr は環境変数を取得し、設定されていない場合はデフォルト値を返す。
func getEnvOr(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

// getDurationOr は環境変数を time.Duration として読み込む。
func getDurationOr(key string, defaultValue time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%sの値が不正です: %w", key, err)
	}
	return d, nil
}

// getBoolOr は環境変数を bool として読み込む。
func getBoolOr(key string, defaultValue bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%sの値が不正です: %w", key, err)
	}
	return b, nil
}
