// Package roles maps each user role to the tabs and actions it may use.
package roles

import (
	"slices"

	"disasterprep/internal/models"
)

// Tab is a top-level dashboard view
type Tab string

const (
	TabDashboard       Tab = "Dashboard"
	TabModules         Tab = "Modules"
	TabDrills          Tab = "Drills"
	TabStudentProgress Tab = "Student Progress"
	TabTeacherProgress Tab = "Teacher Progress"
	TabQuizManagement  Tab = "Quiz Management"
	TabLeaderboard     Tab = "Leaderboard"
	TabAlerts          Tab = "Alerts"
	TabContacts        Tab = "Contacts"
	TabRiskAnalysis    Tab = "Risk Analysis"
)

// Action is something a user may do from the dashboard
type Action string

const (
	ActionViewAlerts          Action = "view_alerts"
	ActionCreateAlert         Action = "create_alert"
	ActionMarkDrill           Action = "mark_drill"
	ActionWatchModule         Action = "watch_module"
	ActionTakeQuiz            Action = "take_quiz"
	ActionManageQuizzes       Action = "manage_quizzes"
	ActionViewStudentProgress Action = "view_student_progress"
	ActionViewTeacherProgress Action = "view_teacher_progress"
	ActionViewUsers           Action = "view_users"
	ActionRequestPrediction   Action = "request_prediction"
	ActionViewLeaderboard     Action = "view_leaderboard"
)

// Permissions is the fixed view of the dashboard for one role
type Permissions struct {
	Role    models.Role
	Tabs    []Tab
	Actions []Action
}

var table = map[models.Role]Permissions{
	models.RoleAdmin: {
		Role: models.RoleAdmin,
		Tabs: []Tab{TabDashboard, TabStudentProgress, TabTeacherProgress, TabLeaderboard, TabAlerts, TabContacts, TabRiskAnalysis},
		Actions: []Action{
			ActionViewAlerts, ActionCreateAlert, ActionViewStudentProgress, ActionViewTeacherProgress,
			ActionViewUsers, ActionRequestPrediction, ActionViewLeaderboard,
		},
	},
	models.RoleTeacher: {
		Role: models.RoleTeacher,
		Tabs: []Tab{TabDashboard, TabStudentProgress, TabQuizManagement, TabLeaderboard, TabAlerts, TabContacts, TabRiskAnalysis},
		Actions: []Action{
			ActionViewAlerts, ActionCreateAlert, ActionManageQuizzes, ActionViewStudentProgress,
			ActionRequestPrediction, ActionViewLeaderboard,
		},
	},
	models.RoleStudent: {
		Role: models.RoleStudent,
		Tabs: []Tab{TabDashboard, TabModules, TabDrills, TabLeaderboard, TabAlerts, TabContacts, TabRiskAnalysis},
		Actions: []Action{
			ActionViewAlerts, ActionMarkDrill, ActionWatchModule, ActionTakeQuiz,
			ActionRequestPrediction, ActionViewLeaderboard,
		},
	},
}

// For returns the permissions of role. Unknown roles get nothing.
func For(role models.Role) Permissions {
	p, ok := table[role]
	if !ok {
		return Permissions{Role: role}
	}
	return Permissions{
		Role:    p.Role,
		Tabs:    slices.Clone(p.Tabs),
		Actions: slices.Clone(p.Actions),
	}
}

// Can reports whether the permissions include action
func (p Permissions) Can(action Action) bool {
	return slices.Contains(p.Actions, action)
}

// Shows reports whether the permissions include tab
func (p Permissions) Shows(tab Tab) bool {
	return slices.Contains(p.Tabs, tab)
}

// Roles lists every role in the table
func Roles() []models.Role {
	return []models.Role{models.RoleAdmin, models.RoleTeacher, models.RoleStudent}
}
