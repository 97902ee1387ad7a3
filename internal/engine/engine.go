// Package engine owns the analysis request lifecycle: it turns user intent
// into a single in-flight request, tracks idle/requesting/succeeded/failed
// transitions, keeps the rolling activity log, and records bridge
// reachability. All state mutation happens here and nowhere else.
package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/coderefine/coderefine/internal/model"
)

// State is the request lifecycle state. Exactly one is current at a time.
type State int

const (
	StateIdle State = iota
	StateRequesting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRequesting:
		return "requesting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Analyzer is the network capability the engine drives. Transport details
// live behind it.
type Analyzer interface {
	Analyze(ctx context.Context, req model.Request) (*model.ReviewResult, error)
	CheckStatus(ctx context.Context) bool
}

const defaultTimeout = 60 * time.Second

// Config tunes an Engine. The zero value is usable.
type Config struct {
	Timeout time.Duration // per-request deadline, defaults to 60s
	Logger  *zap.Logger   // diagnostics only, defaults to a nop logger
}

// Engine is the analysis orchestrator. Overlapping submissions follow a
// latest-wins policy: each Submit bumps a generation counter and a
// completion belonging to a superseded generation is discarded without
// touching state.
type Engine struct {
	client  Analyzer
	timeout time.Duration
	logger  *zap.Logger

	mu           sync.Mutex
	state        State
	request      model.Request // params of the most recent submission
	lastResult   *model.ReviewResult
	lastErr      string
	seq          uint64
	bridgeOnline bool
	probed       bool
	log          *ActivityLog

	notify chan struct{}
}

// New creates an Engine around the given analyzer.
func New(client Analyzer, cfg Config) *Engine {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		client:  client,
		timeout: timeout,
		logger:  logger,
		state:   StateIdle,
		log:     NewActivityLog(),
		notify:  make(chan struct{}, 1),
	}
}

// Notify returns a channel that receives a signal after every state or log
// change. Signals are coalesced; consumers should re-read Snapshot.
func (e *Engine) Notify() <-chan struct{} {
	return e.notify
}

func (e *Engine) signal() {
	select {
	case e.notify <- struct{}{}:
	default:
	}
}

// Submit starts an analysis pass. Empty or all-whitespace code is a guard
// condition: Submit returns false and nothing changes, not even the log.
// Otherwise the engine transitions to StateRequesting, clears any previous
// error, and completes asynchronously. The previous successful result is
// retained until a newer one replaces it.
func (e *Engine) Submit(req model.Request) bool {
	if strings.TrimSpace(req.Code) == "" {
		return false
	}

	e.mu.Lock()
	e.seq++
	seq := e.seq
	e.state = StateRequesting
	e.request = req
	e.lastErr = ""

	kind := "analysis"
	if req.Alternative {
		kind = "alternative pass"
	}
	e.log.Append(fmt.Sprintf("Requested %s (%s mode, %s)", kind, req.Mode, req.Language), LevelInfo)
	e.mu.Unlock()

	e.signal()
	go e.run(seq, req)
	return true
}

func (e *Engine) run(seq uint64, req model.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	result, err := e.client.Analyze(ctx, req)
	e.complete(seq, result, err)
}

// complete applies the terminal transition for generation seq. A response
// for a superseded generation is stale and must not mutate state.
func (e *Engine) complete(seq uint64, result *model.ReviewResult, err error) {
	e.mu.Lock()
	if seq != e.seq {
		e.mu.Unlock()
		e.logger.Debug("discarding stale analysis response",
			zap.Uint64("seq", seq),
			zap.Uint64("latest", e.seq))
		return
	}

	if err != nil {
		e.state = StateFailed
		e.lastErr = err.Error()
		e.log.Append("Analysis failed: "+err.Error(), LevelError)
	} else {
		e.state = StateSucceeded
		e.lastResult = result
		e.log.Append(fmt.Sprintf("Analysis complete: %d issue(s) found", len(result.Issues)), LevelInfo)
	}
	e.mu.Unlock()

	e.signal()
}

// ProbeBridge asynchronously checks local bridge reachability. The outcome
// only affects the presentation mode label; a failed probe is not an error
// and never blocks Submit.
func (e *Engine) ProbeBridge() {
	go func() {
		ok := e.client.CheckStatus(context.Background())

		e.mu.Lock()
		e.bridgeOnline = ok
		e.probed = true
		if ok {
			e.log.Append("Local bridge online: hybrid mode", LevelInfo)
		} else {
			e.log.Append("Local bridge unreachable: cloud-only mode", LevelWarn)
		}
		e.mu.Unlock()

		e.signal()
	}()
}

// Log appends an operational note to the activity log. Used by hosts for
// events that belong in the user-visible trail (file loads, exports).
func (e *Engine) Log(message string, level Level) {
	e.log.Append(message, level)
	e.signal()
}

// Snapshot is a point-in-time, read-only view for rendering. LastResult is
// the most recent successful result; it survives later failed attempts.
type Snapshot struct {
	State        State
	Request      model.Request
	LastResult   *model.ReviewResult
	LastError    string
	BridgeOnline bool
	Probed       bool
	Log          []LogEntry
}

// Snapshot returns the current engine state for display. Callers must treat
// the contained result as immutable.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Snapshot{
		State:        e.state,
		Request:      e.request,
		LastResult:   e.lastResult,
		LastError:    e.lastErr,
		BridgeOnline: e.bridgeOnline,
		Probed:       e.probed,
		Log:          e.log.Entries(),
	}
}
