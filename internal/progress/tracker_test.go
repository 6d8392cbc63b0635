package progress

import (
	"testing"

	"disasterprep/internal/models"
)

func TestQuizUnlockedFollowsVideoCompleted(t *testing.T) {
	tracker := NewTracker()
	tracker.Replace(&models.UserStats{
		ModuleProgress: []models.ModuleProgress{
			{ModuleID: "watched", VideoCompleted: true},
			{ModuleID: "unwatched", VideoCompleted: false},
			{ModuleID: "quiz-only", VideoCompleted: false, QuizCompleted: true},
		},
	})

	tests := []struct {
		moduleID string
		want     bool
	}{
		{"watched", true},
		{"unwatched", false},
		{"quiz-only", false},
		{"unknown", false},
	}

	for _, tt := range tests {
		t.Run(tt.moduleID, func(t *testing.T) {
			if got := tracker.QuizUnlocked(tt.moduleID); got != tt.want {
				t.Errorf("QuizUnlocked(%q) = %v, want %v", tt.moduleID, got, tt.want)
			}
		})
	}
}

func TestReplaceIsWholesale(t *testing.T) {
	tracker := NewTracker()
	if tracker.Loaded() {
		t.Fatal("new tracker should not be loaded")
	}

	tracker.Replace(&models.UserStats{
		TotalDrillsParticipated: 2,
		ModuleProgress:          []models.ModuleProgress{{ModuleID: "m1", VideoCompleted: true}},
	})
	tracker.Replace(&models.UserStats{
		TotalDrillsParticipated: 3,
		ModuleProgress:          []models.ModuleProgress{{ModuleID: "m2", VideoCompleted: true}},
	})

	if _, ok := tracker.Module("m1"); ok {
		t.Error("m1 should be gone after replace")
	}
	if !tracker.VideoCompleted("m2") {
		t.Error("m2 should be completed")
	}
	if tracker.DrillsParticipated() != 3 {
		t.Errorf("DrillsParticipated = %d, want 3", tracker.DrillsParticipated())
	}

	tracker.Reset()
	if tracker.Loaded() || tracker.Stats() != nil || tracker.DrillsParticipated() != 0 {
		t.Error("Reset should clear the tracker")
	}
}
