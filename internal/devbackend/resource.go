package devbackend

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nao1215/lingo/pkg/model"
)

// resourceDef は1種類のリソースのCRUDエンドポイントの定義。
// R は作成・更新リクエスト、T はレスポンスのエンティティ。
type resourceDef[R any, T any] struct {
	// kind はパスと保存時の種別名（例: "courses"）。
	kind string
	// parentKind は親リソースの種別。親を持たなければ空文字列。
	parentKind string
	// parentParam は一覧を親IDで絞り込むクエリパラメータ名。
	parentParam string
	// parentOf はリクエストから親IDを取り出す。
	parentOf func(R) string
	// build はリクエストからエンティティを組み立てる。
	build func(id string, req R, createdAt, updatedAt time.Time) T
}

var languages = resourceDef[model.LanguageRequest, model.Language]{
	kind: "languages",
	build: func(id string, r model.LanguageRequest, created, updated time.Time) model.Language {
		return model.Language{ID: id, Code: r.Code, Name: r.Name, CreatedAt: created, UpdatedAt: updated}
	},
}

var courses = resourceDef[model.CourseRequest, model.Course]{
	kind:        "courses",
	parentKind:  "languages",
	parentParam: "language_id",
	parentOf:    func(r model.CourseRequest) string { return r.LanguageID },
	build: func(id string, r model.CourseRequest, created, updated time.Time) model.Course {
		return model.Course{
			ID: id, LanguageID: r.LanguageID, Title: r.Title, Description: r.Description,
			Level: r.Level, ImageURL: r.ImageURL, Published: r.Published,
			CreatedAt: created, UpdatedAt: updated,
		}
	},
}

var lessons = resourceDef[model.LessonRequest, model.Lesson]{
	kind:        "lessons",
	parentKind:  "courses",
	parentParam: "course_id",
	parentOf:    func(r model.LessonRequest) string { return r.CourseID },
	build: func(id string, r model.LessonRequest, created, updated time.Time) model.Lesson {
		return model.Lesson{
			ID: id, CourseID: r.CourseID, Title: r.Title, Content: r.Content,
			OrderIndex: r.OrderIndex, CreatedAt: created, UpdatedAt: updated,
		}
	},
}

var quizzes = resourceDef[model.QuizRequest, model.Quiz]{
	kind:        "quizzes",
	parentKind:  "lessons",
	parentParam: "lesson_id",
	parentOf:    func(r model.QuizRequest) string { return r.LessonID },
	build: func(id string, r model.QuizRequest, created, updated time.Time) model.Quiz {
		return model.Quiz{
			ID: id, LessonID: r.LessonID, Title: r.Title, Description: r.Description,
			PassingScore: r.PassingScore, CreatedAt: created, UpdatedAt: updated,
		}
	},
}

var questions = resourceDef[model.QuestionRequest, model.Question]{
	kind:        "questions",
	parentKind:  "quizzes",
	parentParam: "quiz_id",
	parentOf:    func(r model.QuestionRequest) string { return r.QuizID },
	build: func(id string, r model.QuestionRequest, created, updated time.Time) model.Question {
		return model.Question{
			ID: id, QuizID: r.QuizID, Text: r.Text, Type: r.Type, Points: r.Points,
			CreatedAt: created, UpdatedAt: updated,
		}
	},
}

var options = resourceDef[model.OptionRequest, model.Option]{
	kind:        "options",
	parentKind:  "questions",
	parentParam: "question_id",
	parentOf:    func(r model.OptionRequest) string { return r.QuestionID },
	build: func(id string, r model.OptionRequest, created, updated time.Time) model.Option {
		return model.Option{
			ID: id, QuestionID: r.QuestionID, Text: r.Text, IsCorrect: r.IsCorrect,
			CreatedAt: created, UpdatedAt: updated,
		}
	},
}

var challenges = resourceDef[model.ChallengeRequest, model.Challenge]{
	kind:        "challenges",
	parentKind:  "lessons",
	parentParam: "lesson_id",
	parentOf:    func(r model.ChallengeRequest) string { return r.LessonID },
	build: func(id string, r model.ChallengeRequest, created, updated time.Time) model.Challenge {
		return model.Challenge{
			ID: id, LessonID: r.LessonID, Title: r.Title, Description: r.Description,
			Difficulty: r.Difficulty, Points: r.Points, CreatedAt: created, UpdatedAt: updated,
		}
	},
}

// registerResource はリソースのCRUDエンドポイントを登録する。
func registerResource[R any, T any](api *gin.RouterGroup, store *Store, def resourceDef[R, T]) {
	g := api.Group("/" + def.kind)
	{
		g.GET("", handleListResources(store, def))
		g.GET("/:id", handleGetResource(store, def))
		g.POST("", handleCreateResource(store, def))
		g.PUT("/:id", handleUpdateResource(store, def))
		g.DELETE("/:id", handleDeleteResource(store, def))
	}
}

// handleListResources は一覧取得を処理するハンドラを返す。
func handleListResources[R any, T any](store *Store, def resourceDef[R, T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		parentID := ""
		if def.parentParam != "" {
			parentID = c.Query(def.parentParam)
		}
		items, err := store.ListResources(c.Request.Context(), def.kind, parentID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "一覧の取得に失敗しました"})
			log.Printf("%s一覧取得エラー: %v", def.kind, err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

// handleGetResource は詳細取得を処理するハンドラを返す。
func handleGetResource[R any, T any](store *Store, def resourceDef[R, T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		row, err := store.GetResource(c.Request.Context(), def.kind, c.Param("id"))
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "リソースが見つかりません"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "リソースの取得に失敗しました"})
			log.Printf("%s取得エラー: %v", def.kind, err)
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", row.body)
	}
}

// handleCreateResource は作成を処理するハンドラを返す。
func handleCreateResource[R any, T any](store *Store, def resourceDef[R, T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, parentID, ok := bindResource(c, store, def)
		if !ok {
			return
		}

		id := uuid.New().String()
		now := time.Now().UTC()
		entity := def.build(id, req, now, now)
		body, err := json.Marshal(entity)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "リソースのシリアライズに失敗しました"})
			return
		}
		if err := store.CreateResource(c.Request.Context(), def.kind, id, parentID, body, now); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "リソースの作成に失敗しました"})
			log.Printf("%s作成エラー: %v", def.kind, err)
			return
		}
		c.JSON(http.StatusCreated, entity)
	}
}

// handleUpdateResource は更新を処理するハンドラを返す。
// 作成日時は保存済みの値を引き継ぐ。
func handleUpdateResource[R any, T any](store *Store, def resourceDef[R, T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		existing, err := store.GetResource(c.Request.Context(), def.kind, id)
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "リソースが見つかりません"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "リソースの取得に失敗しました"})
			log.Printf("%s取得エラー: %v", def.kind, err)
			return
		}

		req, parentID, ok := bindResource(c, store, def)
		if !ok {
			return
		}

		now := time.Now().UTC()
		entity := def.build(id, req, existing.createdAt, now)
		body, err := json.Marshal(entity)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "リソースのシリアライズに失敗しました"})
			return
		}
		if err := store.UpdateResource(c.Request.Context(), def.kind, id, parentID, body, now); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "リソースの更新に失敗しました"})
			log.Printf("%s更新エラー: %v", def.kind, err)
			return
		}
		c.JSON(http.StatusOK, entity)
	}
}

// handleDeleteResource は削除を処理するハンドラを返す。
// 子リソースは削除しない。
func handleDeleteResource[R any, T any](store *Store, def resourceDef[R, T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := store.DeleteResource(c.Request.Context(), def.kind, c.Param("id"))
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "リソースが見つかりません"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "リソースの削除に失敗しました"})
			log.Printf("%s削除エラー: %v", def.kind, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "削除しました"})
	}
}

// bindResource はリクエストボディを検証し、親リソースの存在を確認する。
// 失敗時はレスポンスを書き込み、ok=false を返す。
func bindResource[R any, T any](c *gin.Context, store *Store, def resourceDef[R, T]) (req R, parentID string, ok bool) {
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("リクエストが不正です: %v", err)})
		return req, "", false
	}
	if def.parentOf == nil {
		return req, "", true
	}

	parentID = def.parentOf(req)
	exists, err := store.ResourceExists(c.Request.Context(), def.parentKind, parentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "親リソースの確認に失敗しました"})
		log.Printf("%s存在確認エラー: %v", def.parentKind, err)
		return req, "", false
	}
	if !exists {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": fmt.Sprintf("%sに %s が存在しません", def.parentKind, parentID)})
		return req, "", false
	}
	return req, parentID, true
}
