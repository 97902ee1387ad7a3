// Package history records completed analyses. Each record is a deep,
// immutable snapshot: later edits to the live buffer or result cannot
// change it.
package history

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/coderefine/coderefine/internal/model"
)

// Item wraps one completed review. OriginalCode is the buffer as it was at
// submission time, not at render time.
type Item struct {
	ID           string             `json:"id"`
	Timestamp    time.Time          `json:"timestamp"`
	Language     string             `json:"language"`
	OriginalCode string             `json:"originalCode"`
	Result       model.ReviewResult `json:"result"`
}

// Recorder is an in-memory, append-only sequence of history items. No
// eviction; retention is the host's concern (see Store for persistence).
type Recorder struct {
	mu    sync.Mutex
	items []Item
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record snapshots a completed review under a fresh unique id and returns
// the finalized record.
func (r *Recorder) Record(language, originalCode string, result *model.ReviewResult) Item {
	item := Item{
		ID:           uuid.NewString(),
		Timestamp:    time.Now(),
		Language:     language,
		OriginalCode: strings.Clone(originalCode),
		Result:       result.Clone(),
	}

	r.mu.Lock()
	r.items = append(r.items, item)
	r.mu.Unlock()

	return item
}

// Items returns the recorded items, oldest first.
func (r *Recorder) Items() []Item {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Item, len(r.items))
	copy(out, r.items)
	return out
}

// Len returns how many items have been recorded.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}
