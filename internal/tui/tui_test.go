package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/coderefine/coderefine/internal/engine"
	"github.com/coderefine/coderefine/internal/history"
	"github.com/coderefine/coderefine/internal/model"
)

type stubAnalyzer struct {
	result *model.ReviewResult
	err    error
}

func (s stubAnalyzer) Analyze(ctx context.Context, req model.Request) (*model.ReviewResult, error) {
	return s.result, s.err
}

func (s stubAnalyzer) CheckStatus(ctx context.Context) bool { return true }

func newTestModel(t *testing.T, result *model.ReviewResult) (Model, *engine.Engine, *history.Recorder) {
	t.Helper()
	eng := engine.New(stubAnalyzer{result: result}, engine.Config{})
	rec := history.NewRecorder()
	m := New(Options{
		Engine:   eng,
		Recorder: rec,
		Code:     "def f():\n    pass\n",
		Language: "Python",
		Mode:     model.ModeStrict,
		Provider: "gemini",
	})
	return m, eng, rec
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return out
}

func waitSucceeded(t *testing.T, eng *engine.Engine) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if eng.Snapshot().State == engine.StateSucceeded {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("engine never reached succeeded")
}

func TestViewRendersAfterResize(t *testing.T) {
	m, _, _ := newTestModel(t, &model.ReviewResult{})
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	view := m.View()
	if !strings.Contains(view, "CodeRefine") {
		t.Error("view missing title")
	}
	if !strings.Contains(view, "strict") {
		t.Error("status bar missing persona")
	}
}

func TestPersonaAndLanguageCycling(t *testing.T) {
	m, _, _ := newTestModel(t, &model.ReviewResult{})

	if m.mode() != model.ModeStrict {
		t.Fatalf("initial mode = %v", m.mode())
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlP})
	if m.mode() != model.ModeDebugger {
		t.Errorf("after cycle mode = %v, want debugger", m.mode())
	}

	if m.language() != "Python" {
		t.Fatalf("initial language = %q", m.language())
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlG})
	if m.language() != "JavaScript" {
		t.Errorf("after cycle language = %q, want JavaScript", m.language())
	}
}

func TestSubmitRecordsHistoryOnce(t *testing.T) {
	result := &model.ReviewResult{
		Summary: "fine",
		Issues:  []model.Issue{{Line: 1, Severity: model.SeverityLow}},
	}
	m, eng, rec := newTestModel(t, result)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	waitSucceeded(t, eng)

	m = update(t, m, engineMsg{})
	if rec.Len() != 1 {
		t.Fatalf("expected 1 history item, got %d", rec.Len())
	}

	// A second transition notification for the same result must not record
	// a duplicate.
	m = update(t, m, engineMsg{})
	if rec.Len() != 1 {
		t.Errorf("duplicate history record: %d items", rec.Len())
	}

	item := rec.Items()[0]
	if item.Language != "Python" {
		t.Errorf("item language = %q", item.Language)
	}
	if !strings.Contains(item.OriginalCode, "def f()") {
		t.Error("item should snapshot the submitted buffer")
	}
}

func TestAnnotatedSourceMarksIssueLines(t *testing.T) {
	result := &model.ReviewResult{
		Issues: []model.Issue{
			{Line: 2, Severity: model.SeverityCritical},
			{Line: 99, Severity: model.SeverityLow}, // out of range, ignored
		},
	}
	m, eng, _ := newTestModel(t, result)
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	waitSucceeded(t, eng)
	m = update(t, m, engineMsg{})

	out := m.renderAnnotatedSource()
	if !strings.Contains(out, "●") {
		t.Error("annotated source missing issue marker")
	}
	if count := strings.Count(out, "●"); count != 1 {
		t.Errorf("expected exactly 1 marker, got %d", count)
	}
}

func TestApplyOptimizedCode(t *testing.T) {
	result := &model.ReviewResult{OptimizedCode: "# optimized\ndef f():\n    pass\n"}
	m, eng, _ := newTestModel(t, result)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	waitSucceeded(t, eng)
	m = update(t, m, engineMsg{})

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlO})
	if !strings.Contains(m.editor.Value(), "# optimized") {
		t.Error("apply did not replace the buffer with optimized code")
	}
}

func TestEmptyBufferSubmitIsIgnored(t *testing.T) {
	m, eng, rec := newTestModel(t, &model.ReviewResult{})
	m.editor.SetValue("   \n ")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	time.Sleep(20 * time.Millisecond)

	snap := eng.Snapshot()
	if snap.State != engine.StateIdle {
		t.Errorf("state = %v, want idle", snap.State)
	}
	if rec.Len() != 0 {
		t.Errorf("history recorded for an empty submission")
	}
}
