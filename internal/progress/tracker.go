// Package progress holds the server-reported completion state of the
// current user's modules. It never computes completion itself.
package progress

import (
	"sync"

	"disasterprep/internal/models"
)

// Tracker is a read-through cache of the latest user stats
type Tracker struct {
	mu     sync.RWMutex
	stats  *models.UserStats
	byID   map[string]models.ModuleProgress
	loaded bool
}

// NewTracker creates an empty tracker
func NewTracker() *Tracker {
	return &Tracker{byID: make(map[string]models.ModuleProgress)}
}

// Replace swaps in freshly fetched stats wholesale
func (t *Tracker) Replace(stats *models.UserStats) {
	byID := make(map[string]models.ModuleProgress)
	if stats != nil {
		for _, p := range stats.ModuleProgress {
			byID[p.ModuleID] = p
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.stats = stats
	t.byID = byID
	t.loaded = stats != nil
}

// Reset forgets everything, e.g. on logout
func (t *Tracker) Reset() {
	t.Replace(nil)
}

// Loaded reports whether stats have been fetched at least once
func (t *Tracker) Loaded() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.loaded
}

// Stats returns the last fetched stats, or nil
func (t *Tracker) Stats() *models.UserStats {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.stats == nil {
		return nil
	}
	copied := *t.stats
	return &copied
}

// Module returns the progress record for moduleID
func (t *Tracker) Module(moduleID string) (models.ModuleProgress, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	p, ok := t.byID[moduleID]
	return p, ok
}

// VideoCompleted reports whether the server has recorded the module's video as watched
func (t *Tracker) VideoCompleted(moduleID string) bool {
	p, ok := t.Module(moduleID)
	return ok && p.VideoCompleted
}

// QuizUnlocked reports whether the module's quiz may be taken.
// Access is granted iff the video is completed.
func (t *Tracker) QuizUnlocked(moduleID string) bool {
	return t.VideoCompleted(moduleID)
}

// DrillsParticipated returns the server's drill count for the user
func (t *Tracker) DrillsParticipated() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.stats == nil {
		return 0
	}
	return t.stats.TotalDrillsParticipated
}
