package models

// LeaderboardEntry is one ranked student. Ranking is computed server-side.
type LeaderboardEntry struct {
	StudentID        string  `json:"student_id"`
	Rank             int     `json:"rank"`
	StudentName      string  `json:"student_name"`
	StudentUsername  string  `json:"student_username"`
	TotalPoints      int     `json:"total_points"`
	OverallScore     float64 `json:"overall_score"`
	CompletedModules int     `json:"completed_modules"`
	TotalModules     int     `json:"total_modules"`
	TotalQuizzes     int     `json:"total_quizzes"`
	CompletionSpeed  float64 `json:"completion_speed"`
}

// Leaderboard is returned by GET /leaderboard
type Leaderboard struct {
	Entries         []LeaderboardEntry `json:"leaderboard"`
	CurrentUserRank *int               `json:"current_user_rank"`
	TotalStudents   int                `json:"total_students"`
}

// StudentProgress is one row of the class progress report
type StudentProgress struct {
	LeaderboardEntry
	ModuleProgress []ModuleProgress `json:"module_progress"`
}

// ClassStatistics aggregates the class progress report
type ClassStatistics struct {
	TotalStudents           int     `json:"total_students"`
	AveragePoints           float64 `json:"average_points"`
	AverageModulesCompleted float64 `json:"average_modules_completed"`
	AverageQuizzesCompleted float64 `json:"average_quizzes_completed"`
	AverageOverallScore     float64 `json:"average_overall_score"`
}

// StudentsProgressReport is returned by GET /teacher/students-progress
type StudentsProgressReport struct {
	Students        []StudentProgress `json:"students_progress"`
	ClassStatistics ClassStatistics   `json:"class_statistics"`
}

// ActivityItem is a titled, timestamped item in a teacher's recent activity
type ActivityItem struct {
	Title     string    `json:"title"`
	CreatedAt Timestamp `json:"created_at"`
}

// TeacherActivity lists a teacher's most recent quizzes and alerts
type TeacherActivity struct {
	RecentQuizzes []ActivityItem `json:"recent_quizzes"`
	RecentAlerts  []ActivityItem `json:"recent_alerts"`
}

// TeacherProgress is one teacher's authoring activity
type TeacherProgress struct {
	TeacherID       string          `json:"teacher_id"`
	TeacherName     string          `json:"teacher_name"`
	TeacherUsername string          `json:"teacher_username"`
	CreatedQuizzes  int             `json:"created_quizzes"`
	CreatedAlerts   int             `json:"created_alerts"`
	AccountCreated  Timestamp       `json:"account_created"`
	RecentActivity  TeacherActivity `json:"recent_activity"`
}

// TeachersProgressReport is returned by GET /admin/teachers-progress
type TeachersProgressReport struct {
	Teachers      []TeacherProgress `json:"teachers_progress"`
	TotalTeachers int               `json:"total_teachers"`
}
