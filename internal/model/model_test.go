package model

import (
	"encoding/json"
	"testing"
)

func TestParseMode(t *testing.T) {
	for _, m := range Modes() {
		got, err := ParseMode(m.String())
		if err != nil {
			t.Fatalf("ParseMode(%q): %v", m.String(), err)
		}
		if got != m {
			t.Errorf("ParseMode(%q) = %v, want %v", m.String(), got, m)
		}
	}
}

func TestParseModeRejectsUnknown(t *testing.T) {
	for _, s := range []string{"", "Strict", "hacker", "mentor "} {
		if _, err := ParseMode(s); err == nil {
			t.Errorf("ParseMode(%q) accepted an unknown mode", s)
		}
	}
}

func TestReviewResultUnmarshal(t *testing.T) {
	payload := `{
		"summary": "Looks fine overall.",
		"languageDetected": "Python",
		"metrics": {"securityScore": 95, "performanceScore": 75, "maintainabilityScore": 90, "overallHealth": 88},
		"issues": [
			{"line": 4, "category": "Performance", "severity": "High",
			 "description": "Nested loops", "suggestion": "Use a hash map"}
		],
		"optimizedCode": "print('ok')"
	}`

	var r ReviewResult
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if len(r.Issues) != 1 {
		t.Fatalf("expected 1 issue, got %d", len(r.Issues))
	}
	if r.Issues[0].Severity != SeverityHigh {
		t.Errorf("severity = %v, want High", r.Issues[0].Severity)
	}
	if r.Issues[0].Category != CategoryPerformance {
		t.Errorf("category = %v, want Performance", r.Issues[0].Category)
	}
	if r.Metrics.OverallHealth != 88 {
		t.Errorf("overallHealth = %d, want 88", r.Metrics.OverallHealth)
	}
}

func TestReviewResultUnmarshalRejectsUnknownSeverity(t *testing.T) {
	payload := `{"issues": [{"line": 1, "category": "Bug", "severity": "Catastrophic"}]}`
	var r ReviewResult
	if err := json.Unmarshal([]byte(payload), &r); err == nil {
		t.Error("expected error for unknown severity")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	orig := ReviewResult{
		Summary: "s",
		Issues:  []Issue{{Line: 1, Severity: SeverityLow}},
	}
	cp := orig.Clone()
	cp.Issues[0].Line = 99

	if orig.Issues[0].Line != 1 {
		t.Error("Clone shares the issue slice with the original")
	}
}

func TestIssuesOnLine(t *testing.T) {
	r := ReviewResult{Issues: []Issue{
		{Line: 3, Description: "a"},
		{Line: 5, Description: "b"},
		{Line: 3, Description: "c"},
	}}

	got := r.IssuesOnLine(3)
	if len(got) != 2 {
		t.Fatalf("expected 2 issues on line 3, got %d", len(got))
	}
	if got[0].Description != "a" || got[1].Description != "c" {
		t.Error("IssuesOnLine reordered issues")
	}
}
