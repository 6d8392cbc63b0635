package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"disasterprep/internal/dashboard"
	"disasterprep/internal/models"
	"disasterprep/internal/progress"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func check(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func printUser(w io.Writer, u models.User) {
	fmt.Fprintf(w, "%s (%s)\n", u.FullName, u.Username)
	fmt.Fprintf(w, "Role:  %s\n", u.Role)
	if u.Email != "" {
		fmt.Fprintf(w, "Email: %s\n", u.Email)
	}
}

func printDashboard(w io.Writer, user models.User, snap dashboard.Snapshot) {
	fmt.Fprintf(w, "Welcome, %s (%s)\n\n", user.FullName, user.Role)

	if snap.Stats != nil {
		s := snap.Stats
		fmt.Fprintf(w, "Points: %d  Modules: %d/%d (%.0f%%)  Quizzes: %d  Drills: %d\n\n",
			s.TotalPoints, s.CompletedModules, s.TotalModules, s.CompletionRate(),
			s.TotalQuizzesCompleted, s.TotalDrillsParticipated)
	}
	if snap.StudentsProgress != nil {
		c := snap.StudentsProgress.ClassStatistics
		fmt.Fprintf(w, "Students: %d  Avg points: %.1f  Avg modules: %.1f  Avg score: %.1f%%\n\n",
			c.TotalStudents, c.AveragePoints, c.AverageModulesCompleted, c.AverageOverallScore)
	}
	if snap.TeachersProgress != nil {
		fmt.Fprintf(w, "Teachers: %d\n", snap.TeachersProgress.TotalTeachers)
	}
	if snap.Users != nil {
		fmt.Fprintf(w, "Accounts: %d\n\n", len(snap.Users))
	}
	if snap.TeacherQuizzes != nil {
		fmt.Fprintf(w, "Your quizzes: %d\n\n", len(snap.TeacherQuizzes))
	}

	fmt.Fprintln(w, "Active alerts:")
	printAlerts(w, snap.Alerts)
	if snap.Leaderboard != nil && snap.Leaderboard.CurrentUserRank != nil {
		fmt.Fprintf(w, "\nYour rank: %d of %d\n", *snap.Leaderboard.CurrentUserRank, snap.Leaderboard.TotalStudents)
	}
	if len(snap.Predictions) > 0 {
		fmt.Fprintln(w, "\nLatest risk assessment:")
		printPredictions(w, snap.Predictions[:1])
	}
}

func printModules(w io.Writer, modules []models.Module, tracker *progress.Tracker) {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tTITLE\tVIDEO\tQUIZ\tSCORE")
	for _, m := range modules {
		p, _ := tracker.Module(m.ID)
		score := "-"
		if p.QuizCompleted {
			score = fmt.Sprintf("%d/%d", p.QuizScore, p.QuizTotal)
		}
		quiz := "locked"
		switch {
		case p.QuizCompleted:
			quiz = "completed"
		case tracker.QuizUnlocked(m.ID):
			quiz = "unlocked"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", m.ID, m.Title, check(p.VideoCompleted), quiz, score)
	}
	tw.Flush()
}

func printAttempt(w io.Writer, quiz models.Quiz, attempt models.QuizAttempt) {
	fmt.Fprintf(w, "%s: %d/%d\n", quiz.Title, attempt.Score, attempt.TotalQuestions)
	for i, a := range attempt.Answers {
		mark := "x"
		if a.IsCorrect {
			mark = "ok"
		}
		fmt.Fprintf(w, "  %2s %d. %s\n", mark, i+1, a.Question)
	}
}

func printAlerts(w io.Writer, alerts []models.Alert) {
	if len(alerts) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "SEVERITY\tTYPE\tTITLE\tCREATED")
	for _, a := range alerts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", strings.ToUpper(a.Badge()), a.AlertType, a.Title, formatTime(a.CreatedAt.Time))
	}
	tw.Flush()
}

func printContacts(w io.Writer, contacts []models.EmergencyContact) {
	tw := newTable(w)
	fmt.Fprintln(tw, "NAME\tTYPE\tPHONE\tDESCRIPTION")
	for _, c := range contacts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.Name, c.Type, c.Phone, c.Description)
	}
	tw.Flush()
}

func printPredictions(w io.Writer, predictions []models.DisasterPrediction) {
	if len(predictions) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "CITY\tRISK\tLEVEL\tDISASTERS\tPREDICTED")
	for _, p := range predictions {
		fmt.Fprintf(tw, "%s\t%.0f%%\t%s\t%s\t%s\n", p.City, p.RiskPercentage, p.RiskLevel(),
			strings.Join(p.DisasterTypes, ", "), formatTime(p.PredictedAt.Time))
	}
	tw.Flush()
}

func printLeaderboard(w io.Writer, board *models.Leaderboard) {
	tw := newTable(w)
	fmt.Fprintln(tw, "RANK\tSTUDENT\tPOINTS\tMODULES\tSCORE")
	for _, e := range board.Entries {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d/%d\t%.1f%%\n", e.Rank, e.StudentName, e.TotalPoints,
			e.CompletedModules, e.TotalModules, e.OverallScore)
	}
	tw.Flush()
	if board.CurrentUserRank != nil {
		fmt.Fprintf(w, "\nYour rank: %d of %d\n", *board.CurrentUserRank, board.TotalStudents)
	}
}

func printStudentsProgress(w io.Writer, report *models.StudentsProgressReport) {
	tw := newTable(w)
	fmt.Fprintln(tw, "RANK\tSTUDENT\tPOINTS\tMODULES\tQUIZZES\tSCORE")
	for _, s := range report.Students {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d/%d\t%d\t%.1f%%\n", s.Rank, s.StudentName, s.TotalPoints,
			s.CompletedModules, s.TotalModules, s.TotalQuizzes, s.OverallScore)
	}
	tw.Flush()
	c := report.ClassStatistics
	fmt.Fprintf(w, "\n%d students, %.1f avg points, %.1f avg modules, %.1f avg quizzes\n",
		c.TotalStudents, c.AveragePoints, c.AverageModulesCompleted, c.AverageQuizzesCompleted)
}

func printTeachersProgress(w io.Writer, report *models.TeachersProgressReport) {
	tw := newTable(w)
	fmt.Fprintln(tw, "TEACHER\tUSERNAME\tQUIZZES\tALERTS\tJOINED")
	for _, t := range report.Teachers {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", t.TeacherName, t.TeacherUsername,
			t.CreatedQuizzes, t.CreatedAlerts, formatTime(t.AccountCreated.Time))
	}
	tw.Flush()
}

func printUsers(w io.Writer, users []models.User) {
	tw := newTable(w)
	fmt.Fprintln(tw, "USERNAME\tNAME\tROLE\tEMAIL")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.Username, u.FullName, u.Role, u.Email)
	}
	tw.Flush()
}

func printQuizzes(w io.Writer, quizzes []models.Quiz) {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tTITLE\tMODULE\tQUESTIONS")
	for _, q := range quizzes {
		module := q.ModuleID
		if module == "" {
			module = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", q.ID, q.Title, module, len(q.Questions))
	}
	tw.Flush()
}
