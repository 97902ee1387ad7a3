// Package model defines the core data types shared across coderefine.
package model

import (
	"encoding/json"
	"fmt"
)

// Severity categorizes how urgent an issue is. Lower values sort first.
type Severity int

const (
	SeverityCritical Severity = iota
	SeverityHigh
	SeverityMedium
	SeverityLow
)

func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "Critical"
	case SeverityHigh:
		return "High"
	case SeverityMedium:
		return "Medium"
	case SeverityLow:
		return "Low"
	default:
		return "unknown"
	}
}

// ParseSeverity converts a wire label into a Severity.
func ParseSeverity(s string) (Severity, error) {
	switch s {
	case "Critical":
		return SeverityCritical, nil
	case "High":
		return SeverityHigh, nil
	case "Medium":
		return SeverityMedium, nil
	case "Low":
		return SeverityLow, nil
	default:
		return 0, fmt.Errorf("unknown severity %q", s)
	}
}

func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Severity) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return err
	}
	sev, err := ParseSeverity(label)
	if err != nil {
		return err
	}
	*s = sev
	return nil
}

// Category classifies what kind of problem an issue reports.
type Category int

const (
	CategoryBug Category = iota
	CategorySecurity
	CategoryPerformance
	CategoryStyle
	CategoryBestPractice
)

func (c Category) String() string {
	switch c {
	case CategoryBug:
		return "Bug"
	case CategorySecurity:
		return "Security"
	case CategoryPerformance:
		return "Performance"
	case CategoryStyle:
		return "Style"
	case CategoryBestPractice:
		return "BestPractice"
	default:
		return "unknown"
	}
}

// ParseCategory converts a wire label into a Category.
func ParseCategory(s string) (Category, error) {
	switch s {
	case "Bug":
		return CategoryBug, nil
	case "Security":
		return CategorySecurity, nil
	case "Performance":
		return CategoryPerformance, nil
	case "Style":
		return CategoryStyle, nil
	case "BestPractice":
		return CategoryBestPractice, nil
	default:
		return 0, fmt.Errorf("unknown category %q", s)
	}
}

func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Category) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return err
	}
	cat, err := ParseCategory(label)
	if err != nil {
		return err
	}
	*c = cat
	return nil
}

// Issue is a single finding reported by the analysis service. Line numbers
// are 1-based and refer to the code as it was at submission time; they are
// not re-validated against later edits.
type Issue struct {
	Line        int      `json:"line"`
	Category    Category `json:"category"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
	Suggestion  string   `json:"suggestion"`
}

// Metrics holds the aggregate scores (0-100) produced by the analysis
// service. The scores are opaque; nothing in this client recomputes them.
type Metrics struct {
	SecurityScore        int `json:"securityScore"`
	PerformanceScore     int `json:"performanceScore"`
	MaintainabilityScore int `json:"maintainabilityScore"`
	OverallHealth        int `json:"overallHealth"`
}

// ReviewResult is one complete analysis response. Issues keep the order
// they arrived in. A new analysis always produces a new ReviewResult.
type ReviewResult struct {
	Summary          string  `json:"summary"`
	Issues           []Issue `json:"issues"`
	Metrics          Metrics `json:"metrics"`
	OptimizedCode    string  `json:"optimizedCode"`
	LanguageDetected string  `json:"languageDetected"`
}

// Clone returns an independent copy of the result.
func (r *ReviewResult) Clone() ReviewResult {
	out := *r
	if r.Issues != nil {
		out.Issues = make([]Issue, len(r.Issues))
		copy(out.Issues, r.Issues)
	}
	return out
}

// CountBySeverity returns how many issues carry each severity.
func (r *ReviewResult) CountBySeverity() map[Severity]int {
	m := make(map[Severity]int)
	for _, is := range r.Issues {
		m[is.Severity]++
	}
	return m
}

// IssuesOnLine returns the issues reported against a single line, in
// received order.
func (r *ReviewResult) IssuesOnLine(line int) []Issue {
	var out []Issue
	for _, is := range r.Issues {
		if is.Line == line {
			out = append(out, is)
		}
	}
	return out
}

// Request carries everything the analysis service needs for one pass.
// Alternative asks for a materially different optimized-code candidate for
// the same input.
type Request struct {
	Code        string
	Language    string
	Provider    string
	Mode        Mode
	Alternative bool
}
