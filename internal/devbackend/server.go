package devbackend

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	"github.com/nao1215/lingo/internal/config"
	"github.com/nao1215/lingo/pkg/middleware"
	"github.com/nao1215/lingo/pkg/model"
)

// Server は開発用バックエンドのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// store はSQLiteストア。
	store *Store
	// jwtSecret はJWT署名用の秘密鍵。
	jwtSecret string
	// accessTTL はアクセストークンの有効期間。
	accessTTL time.Duration
	// refreshTTL はリフレッシュトークンの有効期間。
	refreshTTL time.Duration
	// scheduler は失効記録の定期削除を行う。
	scheduler *cron.Cron
}

// NewServer は新しい開発用バックエンドを生成する。
// SQLiteデータベースの初期化とスキーマ作成を行う。
func NewServer(ctx context.Context, cfg config.Backend) (*Server, error) {
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("データディレクトリの作成に失敗: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite", cfg.DBPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗: %w", err)
	}

	store, err := NewStore(ctx, sqlDB)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}
	return newServer(store, cfg), nil
}

// newServer はストアを受け取ってサーバーを組み立てる。
func newServer(store *Store, cfg config.Backend) *Server {
	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: []string{cfg.FrontendURL},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         24 * time.Hour,
	}))

	s := &Server{
		router:     router,
		port:       cfg.Port,
		store:      store,
		jwtSecret:  cfg.JWTSecret,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		scheduler:  cron.New(),
	}
	s.setupRoutes()
	return s
}

// Handler はHTTPハンドラを返す。
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run はHTTPサーバーを起動する。
// 失効記録の定期削除もあわせて開始する。
func (s *Server) Run() error {
	if _, err := s.scheduler.AddFunc("@hourly", s.purgeRevoked); err != nil {
		return fmt.Errorf("定期ジョブの登録に失敗: %w", err)
	}
	s.scheduler.Start()
	defer s.scheduler.Stop()

	return s.router.Run(fmt.Sprintf(":%s", s.port))
}

// Close はデータベース接続を閉じる。
func (s *Server) Close() error {
	return s.store.Close()
}

// purgeRevoked は期限切れの失効記録を削除する。
func (s *Server) purgeRevoked() {
	n, err := s.store.PurgeRevoked(context.Background(), time.Now())
	if err != nil {
		log.Printf("[Cron] 失効記録の削除に失敗: %v", err)
		return
	}
	if n > 0 {
		log.Printf("[Cron] 期限切れの失効記録を%d件削除しました", n)
	}
}

// setupRoutes はAPIルーティングを設定する。
func (s *Server) setupRoutes() {
	// 認証エンドポイント（アクセストークン不要）
	auth := s.router.Group("/api/v1/auth")
	{
		auth.POST("/register", s.handleRegister())
		auth.POST("/authenticate", s.handleAuthenticate())
		// リフレッシュトークンをBearerで受け取る
		auth.POST("/refresh-token", s.handleRefreshToken())
	}

	// 管理者のみアクセス可能なAPIエンドポイント
	api := s.router.Group("/api/v1")
	api.Use(middleware.JWTAuth(s.jwtSecret))
	api.Use(middleware.RequireRole(string(model.RoleAdmin)))
	{
		registerResource(api, s.store, languages)
		registerResource(api, s.store, courses)
		registerResource(api, s.store, lessons)
		registerResource(api, s.store, quizzes)
		registerResource(api, s.store, questions)
		registerResource(api, s.store, options)
		registerResource(api, s.store, challenges)

		users := api.Group("/users")
		{
			users.GET("", s.handleListUsers())
			users.GET("/:id", s.handleGetUser())
			users.PUT("/:id", s.handleUpdateUser())
			users.DELETE("/:id", s.handleDeleteUser())
		}
	}

	// ヘルスチェック
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "devbackend"})
	})
}
