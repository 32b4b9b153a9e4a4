package models

import (
	"sync"
	"time"

	ttlworker "github.com/FloatTech/ttl"

	"github.com/frvega/conversor-go/types"
)

// Progress entries expire on their own so an abandoned stream never pins a
// finished job's state.
var (
	DefaultProgressTTL = 30 * time.Minute
	progressMu         sync.RWMutex
	progressState      = ttlworker.NewCache[string, *types.ProgressEvent](DefaultProgressTTL)
)

// UpdateProgress records the latest job state for a user. One job per user at
// a time, matching the upload contract.
func UpdateProgress(user string, progress int, status string) {
	progressMu.Lock()
	defer progressMu.Unlock()
	progressState.Set(user, &types.ProgressEvent{Progress: progress, Status: status})
}

// GetProgress returns the latest event for a user, or nil when no job has
// reported yet (or the entry has expired).
func GetProgress(user string) *types.ProgressEvent {
	progressMu.RLock()
	defer progressMu.RUnlock()
	ev := progressState.Get(user)
	if ev == nil {
		return nil
	}
	copied := *ev
	return &copied
}

// ClearProgress drops a user's state, used by tests.
func ClearProgress(user string) {
	progressMu.Lock()
	defer progressMu.Unlock()
	progressState.Delete(user)
}
