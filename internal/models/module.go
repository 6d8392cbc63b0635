package models

// Module is an educational unit: one video and at most one quiz
type Module struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	VideoURL      string    `json:"video_url"`
	VideoDuration int       `json:"video_duration"` // minutes
	Order         int       `json:"order"`
	CreatedAt     Timestamp `json:"created_at"`
}

// VideoCompletion is the body of POST /video-completion
type VideoCompletion struct {
	ModuleID        string  `json:"module_id"`
	WatchPercentage float64 `json:"watch_percentage"`
}

// ModuleProgress is the per-user completion record of one module
type ModuleProgress struct {
	ModuleID         string     `json:"module_id"`
	ModuleTitle      string     `json:"module_title"`
	VideoCompleted   bool       `json:"video_completed"`
	VideoCompletedAt *Timestamp `json:"video_completed_at,omitempty"`
	QuizCompleted    bool       `json:"quiz_completed"`
	QuizScore        int        `json:"quiz_score"`
	QuizTotal        int        `json:"quiz_total"`
	QuizCompletedAt  *Timestamp `json:"quiz_completed_at,omitempty"`
}

// DrillParticipation records that a user took part in a drill
type DrillParticipation struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	DrillType      string     `json:"drill_type"`
	Notes          string     `json:"notes,omitempty"`
	ParticipatedAt *Timestamp `json:"participated_at,omitempty"`
}

// DrillInput is the body of POST /drills
type DrillInput struct {
	DrillType string `json:"drill_type"`
	Notes     string `json:"notes"`
}

// UserStats is returned by GET /user-stats/{userId}
type UserStats struct {
	UserID                    string               `json:"user_id"`
	TotalPoints               int                  `json:"total_points"`
	TotalQuizzesCompleted     int                  `json:"total_quizzes_completed"`
	TotalDrillsParticipated   int                  `json:"total_drills_participated"`
	CompletedModules          int                  `json:"completed_modules"`
	TotalModules              int                  `json:"total_modules"`
	ModuleProgress            []ModuleProgress     `json:"module_progress"`
	RecentQuizAttempts        []QuizAttempt        `json:"recent_quiz_attempts"`
	RecentDrillParticipations []DrillParticipation `json:"recent_drill_participations"`
}

// CompletionRate returns completed/total modules as a percentage
func (s UserStats) CompletionRate() float64 {
	if s.TotalModules == 0 {
		return 0
	}
	return float64(s.CompletedModules) / float64(s.TotalModules) * 100
}
