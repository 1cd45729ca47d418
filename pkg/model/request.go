package model

// LanguageRequest は言語の作成・更新フォーム。
type LanguageRequest struct {
	Code string `json:"code" form:"code" binding:"required,min=2,max=8"`
	Name string `json:"name" form:"name" binding:"required"`
}

// CourseRequest はコースの作成・更新フォーム。
type CourseRequest struct {
	LanguageID  string `json:"language_id" form:"language_id" binding:"required"`
	Title       string `json:"title" form:"title" binding:"required"`
	Description string `json:"description" form:"description"`
	Level       string `json:"level" form:"level" binding:"omitempty,oneof=A1 A2 B1 B2 C1 C2"`
	ImageURL    string `json:"image_url" form:"image_url" binding:"omitempty,url"`
	Published   bool   `json:"published" form:"published"`
}

// LessonRequest はレッスンの作成・更新フォーム。
type LessonRequest struct {
	CourseID   string `json:"course_id" form:"course_id" binding:"required"`
	Title      string `json:"title" form:"title" binding:"required"`
	Content    string `json:"content" form:"content"`
	OrderIndex int    `json:"order_index" form:"order_index" binding:"gte=0"`
}

// QuizRequest はクイズの作成・更新フォーム。
type QuizRequest struct {
	LessonID     string `json:"lesson_id" form:"lesson_id" binding:"required"`
	Title        string `json:"title" form:"title" binding:"required"`
	Description  string `json:"description" form:"description"`
	PassingScore int    `json:"passing_score" form:"passing_score" binding:"gte=0,lte=100"`
}

// QuestionRequest は設問の作成・更新フォーム。
type QuestionRequest struct {
	QuizID string       `json:"quiz_id" form:"quiz_id" binding:"required"`
	Text   string       `json:"text" form:"text" binding:"required"`
	Type   QuestionType `json:"type" form:"type" binding:"required,oneof=SINGLE_CHOICE MULTIPLE_CHOICE TEXT"`
	Points int          `json:"points" form:"points" binding:"gte=0"`
}

// OptionRequest は選択肢の作成・更新フォーム。
type OptionRequest struct {
	QuestionID string `json:"question_id" form:"question_id" binding:"required"`
	Text       string `json:"text" form:"text" binding:"required"`
	IsCorrect  bool   `json:"is_correct" form:"is_correct"`
}

// ChallengeRequest は課題の作成・更新フォーム。
type ChallengeRequest struct {
	LessonID    string `json:"lesson_id" form:"lesson_id" binding:"required"`
	Title       string `json:"title" form:"title" binding:"required"`
	Description string `json:"description" form:"description"`
	Difficulty  string `json:"difficulty" form:"difficulty" binding:"omitempty,oneof=EASY MEDIUM HARD"`
	Points      int    `json:"points" form:"points" binding:"gte=0"`
}

// UserRequest はユーザー情報の更新フォーム。
type UserRequest struct {
	FirstName string `json:"firstname" form:"firstname" binding:"required"`
	LastName  string `json:"lastname" form:"lastname" binding:"required"`
	Email     string `json:"email" form:"email" binding:"required,email"`
	Role      Role   `json:"role" form:"role" binding:"required,oneof=ADMIN USER"`
}

// RegisterRequest はサインアップフォーム。
// Role はフォームからは受け取らず、送信時に常に RoleAdmin が設定される。
type RegisterRequest struct {
	FirstName string `json:"firstname" form:"firstname" binding:"required"`
	LastName  string `json:"lastname" form:"lastname" binding:"required"`
	Email     string `json:"email" form:"email" binding:"required,email"`
	Password  string `json:"password" form:"password" binding:"required,min=6"`
	Role      Role   `json:"role" form:"-"`
}

// AuthenticateRequest はログインフォーム。
type AuthenticateRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}
