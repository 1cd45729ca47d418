package service

import (
	"context"

	"github.com/nao1215/lingo/pkg/model"
)

// LanguageService は言語のCRUDを提供する。
type LanguageService struct {
	resource[model.Language, model.LanguageRequest]
}

// NewLanguageService は新しいLanguageServiceを生成する。
func NewLanguageService(client Requester) *LanguageService {
	return &LanguageService{newResource[model.Language, model.LanguageRequest](client, "languages")}
}

// ListAll はすべての言語を取得する。
func (s *LanguageService) ListAll(ctx context.Context) ([]model.Language, error) {
	return s.List(ctx, nil)
}

// CourseService はコースのCRUDを提供する。
type CourseService struct {
	resource[model.Course, model.CourseRequest]
}

// NewCourseService は新しいCourseServiceを生成する。
func NewCourseService(client Requester) *CourseService {
	return &CourseService{newResource[model.Course, model.CourseRequest](client, "courses")}
}

// ListByLanguage は言語で絞り込んだコースを取得する。languageID が空なら全件。
func (s *CourseService) ListByLanguage(ctx context.Context, languageID string) ([]model.Course, error) {
	return s.List(ctx, byParent("language_id", languageID))
}

// LessonService はレッスンのCRUDを提供する。
type LessonService struct {
	resource[model.Lesson, model.LessonRequest]
}

// NewLessonService は新しいLessonServiceを生成する。
func NewLessonService(client Requester) *LessonService {
	return &LessonService{newResource[model.Lesson, model.LessonRequest](client, "lessons")}
}

// ListByCourse はコースに属するレッスンを取得する。
func (s *LessonService) ListByCourse(ctx context.Context, courseID string) ([]model.Lesson, error) {
	return s.List(ctx, byParent("course_id", courseID))
}

// QuizService はクイズのCRUDを提供する。
type QuizService struct {
	resource[model.Quiz, model.QuizRequest]
}

// NewQuizService は新しいQuizServiceを生成する。
func NewQuizService(client Requester) *QuizService {
	return &QuizService{newResource[model.Quiz, model.QuizRequest](client, "quizzes")}
}

// ListByLesson はレッスンに属するクイズを取得する。
func (s *QuizService) ListByLesson(ctx context.Context, lessonID string) ([]model.Quiz, error) {
	return s.List(ctx, byParent("lesson_id", lessonID))
}

// QuestionService は設問とその選択肢のCRUDを提供する。
type QuestionService struct {
	resource[model.Question, model.QuestionRequest]
	options resource[model.Option, model.OptionRequest]
}

// NewQuestionService は新しいQuestionServiceを生成する。
func NewQuestionService(client Requester) *QuestionService {
	return &QuestionService{
		resource: newResource[model.Question, model.QuestionRequest](client, "questions"),
		options:  newResource[model.Option, model.OptionRequest](client, "options"),
	}
}

// ListByQuiz はクイズに属する設問を取得する。
func (s *QuestionService) ListByQuiz(ctx context.Context, quizID string) ([]model.Question, error) {
	return s.List(ctx, byParent("quiz_id", quizID))
}

// ListOptions は設問の選択肢を取得する。
func (s *QuestionService) ListOptions(ctx context.Context, questionID string) ([]model.Option, error) {
	return s.options.List(ctx, byParent("question_id", questionID))
}

// GetOption は選択肢を1件取得する。
func (s *QuestionService) GetOption(ctx context.Context, id string) (*model.Option, error) {
	return s.options.Get(ctx, id)
}

// CreateOption は選択肢を作成する。
func (s *QuestionService) CreateOption(ctx context.Context, req model.OptionRequest) (*model.Option, error) {
	return s.options.Create(ctx, req)
}

// UpdateOption は選択肢を更新する。
func (s *QuestionService) UpdateOption(ctx context.Context, id string, req model.OptionRequest) (*model.Option, error) {
	return s.options.Update(ctx, id, req)
}

// DeleteOption は選択肢を削除する。
func (s *QuestionService) DeleteOption(ctx context.Context, id string) error {
	return s.options.Delete(ctx, id)
}

// ChallengeService は課題のCRUDを提供する。
type ChallengeService struct {
	resource[model.Challenge, model.ChallengeRequest]
}

// NewChallengeService は新しいChallengeServiceを生成する。
func NewChallengeService(client Requester) *ChallengeService {
	return &ChallengeService{newResource[model.Challenge, model.ChallengeRequest](client, "challenges")}
}

// ListByLesson はレッスンに属する課題を取得する。
func (s *ChallengeService) ListByLesson(ctx context.Context, lessonID string) ([]model.Challenge, error) {
	return s.List(ctx, byParent("lesson_id", lessonID))
}

// UserService はユーザーの参照・更新・削除を提供する。
// ユーザーの作成は AuthService.Register で行う。
type UserService struct {
	users resource[model.User, model.UserRequest]
}

// NewUserService は新しいUserServiceを生成する。
func NewUserService(client Requester) *UserService {
	return &UserService{users: newResource[model.User, model.UserRequest](client, "users")}
}

// List はすべてのユーザーを取得する。
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.users.List(ctx, nil)
}

// Get はユーザーを1件取得する。
func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	return s.users.Get(ctx, id)
}

// Update はユーザーを更新する。
func (s *UserService) Update(ctx context.Context, id string, req model.UserRequest) (*model.User, error) {
	return s.users.Update(ctx, id, req)
}

// Delete はユーザーを削除する。
func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.users.Delete(ctx, id)
}
