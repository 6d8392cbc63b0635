package roles

import (
	"slices"
	"testing"

	"disasterprep/internal/models"
)

func TestTabsPerRole(t *testing.T) {
	tests := []struct {
		role models.Role
		want []Tab
	}{
		{models.RoleAdmin, []Tab{TabDashboard, TabStudentProgress, TabTeacherProgress, TabLeaderboard, TabAlerts, TabContacts, TabRiskAnalysis}},
		{models.RoleTeacher, []Tab{TabDashboard, TabStudentProgress, TabQuizManagement, TabLeaderboard, TabAlerts, TabContacts, TabRiskAnalysis}},
		{models.RoleStudent, []Tab{TabDashboard, TabModules, TabDrills, TabLeaderboard, TabAlerts, TabContacts, TabRiskAnalysis}},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			got := For(tt.role).Tabs
			if !slices.Equal(got, tt.want) {
				t.Errorf("tabs = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAdminHasNoModulesTab(t *testing.T) {
	if For(models.RoleAdmin).Shows(TabModules) {
		t.Error("admin must not see the Modules tab")
	}
}

func TestActions(t *testing.T) {
	tests := []struct {
		role   models.Role
		action Action
		want   bool
	}{
		{models.RoleStudent, ActionTakeQuiz, true},
		{models.RoleStudent, ActionMarkDrill, true},
		{models.RoleStudent, ActionCreateAlert, false},
		{models.RoleStudent, ActionViewStudentProgress, false},
		{models.RoleTeacher, ActionCreateAlert, true},
		{models.RoleTeacher, ActionManageQuizzes, true},
		{models.RoleTeacher, ActionViewTeacherProgress, false},
		{models.RoleTeacher, ActionTakeQuiz, false},
		{models.RoleAdmin, ActionViewUsers, true},
		{models.RoleAdmin, ActionViewTeacherProgress, true},
		{models.RoleAdmin, ActionManageQuizzes, false},
		{models.Role("janitor"), ActionViewAlerts, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.action), func(t *testing.T) {
			if got := For(tt.role).Can(tt.action); got != tt.want {
				t.Errorf("Can(%s) = %v, want %v", tt.action, got, tt.want)
			}
		})
	}
}

func TestEveryRoleSharesCommonActions(t *testing.T) {
	for _, role := range Roles() {
		p := For(role)
		for _, action := range []Action{ActionViewAlerts, ActionRequestPrediction, ActionViewLeaderboard} {
			if !p.Can(action) {
				t.Errorf("%s should be able to %s", role, action)
			}
		}
	}
}

func TestForReturnsCopy(t *testing.T) {
	p := For(models.RoleStudent)
	p.Tabs[0] = "Hacked"
	if For(models.RoleStudent).Tabs[0] != TabDashboard {
		t.Error("For must not expose the shared table")
	}
}
