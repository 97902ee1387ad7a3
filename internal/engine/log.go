package engine

import (
	"sync"
	"time"
)

// Level classifies an activity log entry.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// LogEntry is one operational event. Entries are never edited after append.
type LogEntry struct {
	Time    time.Time
	Level   Level
	Message string
}

// LogCapacity bounds the activity log; appending beyond it evicts the
// oldest entry.
const LogCapacity = 25

// ActivityLog is a bounded, append-only ring of the most recent operational
// events, read oldest to newest.
type ActivityLog struct {
	mu      sync.Mutex
	entries [LogCapacity]LogEntry
	start   int
	count   int
}

// NewActivityLog creates an empty log.
func NewActivityLog() *ActivityLog {
	return &ActivityLog{}
}

// Append records an event, evicting the oldest entry when full.
func (l *ActivityLog) Append(message string, level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := (l.start + l.count) % LogCapacity
	l.entries[idx] = LogEntry{Time: time.Now(), Level: level, Message: message}
	if l.count < LogCapacity {
		l.count++
	} else {
		l.start = (l.start + 1) % LogCapacity
	}
}

// Entries returns the retained events, oldest first.
func (l *ActivityLog) Entries() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]LogEntry, l.count)
	for i := 0; i < l.count; i++ {
		out[i] = l.entries[(l.start+i)%LogCapacity]
	}
	return out
}

// Len returns how many entries are retained.
func (l *ActivityLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}
