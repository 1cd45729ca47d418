package admin

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	"github.com/nao1215/lingo/internal/auth"
	"github.com/nao1215/lingo/internal/config"
	"github.com/nao1215/lingo/internal/service"
	"github.com/nao1215/lingo/pkg/httpclient"
	"github.com/nao1215/lingo/pkg/middleware"
	"github.com/nao1215/lingo/pkg/model"
	"github.com/nao1215/lingo/pkg/session"
)

// SessionStore は管理画面が使うセッションストア。
// *session.SQLiteStore が満たす。
type SessionStore interface {
	session.Store
	PurgeIdle(ctx context.Context, idle time.Duration) (int64, error)
}

// services はバックエンドの各エンティティのサービス。
type services struct {
	languages  *service.LanguageService
	courses    *service.CourseService
	lessons    *service.LessonService
	quizzes    *service.QuizService
	questions  *service.QuestionService
	challenges *service.ChallengeService
	users      *service.UserService
}

// Server は管理画面のHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// store はセッションストア。
	store SessionStore
	// manager はログイン状態を管理する。
	manager *auth.Manager
	// svc はバックエンドの各サービス。
	svc services
	// cookieSecure はセッションCookieにSecure属性を付けるか。
	cookieSecure bool
	// idleTimeout は未使用セッションを削除するまでの時間。
	idleTimeout time.Duration
	// scheduler は未使用セッションの定期削除を行う。
	scheduler *cron.Cron
}

// NewServer は新しい管理画面サーバーを生成する。
// セッション用のSQLiteデータベースの初期化とスキーマ作成を行う。
func NewServer(ctx context.Context, cfg config.Admin) (*Server, error) {
	if dir := filepath.Dir(cfg.SessionDBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("データディレクトリの作成に失敗: %w", err)
		}
	}

	store, err := session.OpenSQLite(ctx, cfg.SessionDBPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}

	log.Printf("[Admin] バックエンド: %s", cfg.BaseURL())
	return newServer(cfg, httpclient.New(cfg.BaseURL()), store), nil
}

// newServer はHTTPクライアントとストアを受け取ってサーバーを組み立てる。
func newServer(cfg config.Admin, client *httpclient.Client, store SessionStore) *Server {
	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(gin.Logger())
	// ブラウザからはセッションCookieで認証するため、資格情報付きのリクエストを許可する
	router.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:   []string{cfg.FrontendURL},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}))

	s := &Server{
		router:  router,
		port:    cfg.Port,
		store:   store,
		manager: auth.NewManager(service.NewAuthService(client), store),
		svc: services{
			languages:  service.NewLanguageService(client),
			courses:    service.NewCourseService(client),
			lessons:    service.NewLessonService(client),
			quizzes:    service.NewQuizService(client),
			questions:  service.NewQuestionService(client),
			challenges: service.NewChallengeService(client),
			users:      service.NewUserService(client),
		},
		cookieSecure: cfg.CookieSecure,
		idleTimeout:  cfg.SessionIdleTimeout,
		scheduler:    cron.New(),
	}
	s.setupRoutes()
	return s
}

// Handler はHTTPハンドラを返す。
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run はHTTPサーバーを起動する。
// 未使用セッションの定期削除もあわせて開始する。
func (s *Server) Run() error {
	if _, err := s.scheduler.AddFunc("@hourly", s.purgeIdleSessions); err != nil {
		return fmt.Errorf("定期ジョブの登録に失敗: %w", err)
	}
	s.scheduler.Start()
	defer s.scheduler.Stop()

	return s.router.Run(fmt.Sprintf(":%s", s.port))
}

// purgeIdleSessions は一定時間使われていないセッションを削除する。
func (s *Server) purgeIdleSessions() {
	if s.idleTimeout <= 0 {
		return
	}
	n, err := s.store.PurgeIdle(context.Background(), s.idleTimeout)
	if err != nil {
		log.Printf("[Cron] セッションの削除に失敗: %v", err)
		return
	}
	if n > 0 {
		log.Printf("[Cron] 未使用のセッションを%d件削除しました", n)
	}
}

// setupRoutes はルーティングを設定する。
func (s *Server) setupRoutes() {
	// 公開ページ
	s.router.GET("/", s.handleIndex())
	s.router.POST("/login", s.handleLogin())
	s.router.POST("/register", s.handleRegister())
	s.router.POST("/logout", s.handleLogout())

	// ログイン必須の管理画面
	admin := s.router.Group("/admin")
	admin.Use(s.requireSession())
	{
		admin.GET("", s.handleDashboard())

		registerCRUD[model.Language, model.LanguageRequest](admin, "languages", "", s.svc.languages, s.respondError)
		registerCRUD[model.Course, model.CourseRequest](admin, "courses", "language_id", s.svc.courses, s.respondError)
		registerCRUD[model.Lesson, model.LessonRequest](admin, "lessons", "course_id", s.svc.lessons, s.respondError)
		registerCRUD[model.Quiz, model.QuizRequest](admin, "quizzes", "lesson_id", s.svc.quizzes, s.respondError)
		registerCRUD[model.Question, model.QuestionRequest](admin, "questions", "quiz_id", s.svc.questions, s.respondError)
		registerCRUD[model.Challenge, model.ChallengeRequest](admin, "challenges", "lesson_id", s.svc.challenges, s.respondError)

		options := admin.Group("/questions/:id/options")
		{
			options.GET("", s.handleListOptions())
			options.POST("", s.handleCreateOption())
			options.GET("/:option_id", s.handleGetOption())
			options.PUT("/:option_id", s.handleUpdateOption())
			options.DELETE("/:option_id", s.handleDeleteOption())
		}

		users := admin.Group("/users")
		{
			users.GET("", s.handleListUsers())
			users.GET("/:id", s.handleGetUser())
			users.PUT("/:id", s.handleUpdateUser())
			users.DELETE("/:id", s.handleDeleteUser())
		}
	}

	// ヘルスチェック
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "admin"})
	})
}
