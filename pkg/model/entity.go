package model

import "time"

// Role はユーザーの権限を表す。
type Role string

const (
	// RoleAdmin は管理者ユーザーを表す。管理画面からの登録は常にこの権限になる。
	RoleAdmin Role = "ADMIN"
	// RoleUser は一般の学習者を表す。
	RoleUser Role = "USER"
)

// QuestionType は問題の回答形式を表す。
type QuestionType string

const (
	// QuestionTypeSingleChoice は選択肢から1つを選ぶ形式。
	QuestionTypeSingleChoice QuestionType = "SINGLE_CHOICE"
	// QuestionTypeMultipleChoice は選択肢から複数を選ぶ形式。
	QuestionTypeMultipleChoice QuestionType = "MULTIPLE_CHOICE"
	// QuestionTypeText は自由記述形式。
	QuestionTypeText QuestionType = "TEXT"
)

// Language は学習対象の言語。
type Language struct {
	// ID は言語の一意識別子。
	ID string `json:"id"`
	// Code はISO 639-1 の言語コード（例: "es"）。
	Code string `json:"code"`
	// Name は表示名（例: "Spanish"）。
	Name string `json:"name"`
	// CreatedAt は作成日時。
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt は更新日時。
	UpdatedAt time.Time `json:"updated_at"`
}

// Course は言語ごとのコース。
type Course struct {
	ID          string    `json:"id"`
	LanguageID  string    `json:"language_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	// Level はCEFRレベル（A1〜C2）。
	Level     string    `json:"level"`
	ImageURL  string    `json:"image_url"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Lesson はコースに含まれるレッスン。
type Lesson struct {
	ID         string    `json:"id"`
	CourseID   string    `json:"course_id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	OrderIndex int       `json:"order_index"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Quiz はレッスンに紐づく小テスト。
type Quiz struct {
	ID          string `json:"id"`
	LessonID    string `json:"lesson_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	// PassingScore は合格に必要な得点率（0〜100）。
	PassingScore int       `json:"passing_score"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Question はクイズの設問。
type Question struct {
	ID        string       `json:"id"`
	QuizID    string       `json:"quiz_id"`
	Text      string       `json:"text"`
	Type      QuestionType `json:"type"`
	Points    int          `json:"points"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Option は選択式の設問の選択肢。
type Option struct {
	ID         string    `json:"id"`
	QuestionID string    `json:"question_id"`
	Text       string    `json:"text"`
	IsCorrect  bool      `json:"is_correct"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Challenge はレッスンに付随する発展課題（翻訳、発話など）。
type Challenge struct {
	ID          string `json:"id"`
	LessonID    string `json:"lesson_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	// Difficulty は難易度（EASY / MEDIUM / HARD）。
	Difficulty string    `json:"difficulty"`
	Points     int       `json:"points"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// User はバックエンドに登録されたユーザー。
type User struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstname"`
	LastName  string    `json:"lastname"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenPair は認証エンドポイントが返すトークンの組。
type TokenPair struct {
	// AccessToken は各APIリクエストに付与する短命のトークン。
	AccessToken string `json:"access_token"`
	// RefreshToken はアクセストークンの再発行にのみ使用する長命のトークン。
	RefreshToken string `json:"refresh_token"`
}
