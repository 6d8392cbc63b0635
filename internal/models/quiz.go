package models

// OptionsPerQuestion is the number of choices every question offers
const OptionsPerQuestion = 4

// Question is a single multiple choice question. Correct indexes Options.
type Question struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Correct  int      `json:"correct"`
}

// Quiz is an ordered set of questions, optionally attached to a module
type Quiz struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	ModuleID  string     `json:"module_id,omitempty"`
	Questions []Question `json:"questions"`
	CreatedBy string     `json:"created_by,omitempty"`
	CreatedAt Timestamp  `json:"created_at"`
}

// QuizInput is the body for creating or updating a quiz
type QuizInput struct {
	Title     string     `json:"title"`
	ModuleID  string     `json:"module_id,omitempty"`
	Questions []Question `json:"questions"`
}

// AnswerRecord captures how one question was answered.
// UserAnswer is nil when the question was left unanswered.
type AnswerRecord struct {
	Question      string `json:"question"`
	UserAnswer    *int   `json:"user_answer"`
	CorrectAnswer int    `json:"correct_answer"`
	IsCorrect     bool   `json:"is_correct"`
}

// QuizAttempt is a write-once record of a scored quiz submission
type QuizAttempt struct {
	ID             string         `json:"id,omitempty"`
	UserID         string         `json:"user_id,omitempty"`
	QuizID         string         `json:"quiz_id"`
	ModuleID       string         `json:"module_id,omitempty"`
	Score          int            `json:"score"`
	TotalQuestions int            `json:"total_questions"`
	Answers        []AnswerRecord `json:"answers"`
	CompletedAt    *Timestamp     `json:"completed_at,omitempty"`
}
