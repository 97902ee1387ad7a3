package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/coderefine/coderefine/internal/engine"
	"github.com/coderefine/coderefine/internal/model"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	title := titleStyle.Render("CodeRefine") +
		helpBarStyle.Render("  ctrl+s analyze  ctrl+r regenerate  ctrl+p persona  ctrl+g language  ctrl+l pane  ctrl+o apply  tab focus  ctrl+c quit")

	editorStyle := paneStyle
	resultsStyle := paneFocusedStyle
	if m.editorFocused {
		editorStyle = paneFocusedStyle
		resultsStyle = paneStyle
	}

	editorPane := editorStyle.Render(
		paneTitleStyle.Render(m.editorTitle()) + "\n" + m.editor.View())
	resultsPane := resultsStyle.Render(m.paneTabs() + "\n" + m.results.View())

	main := lipgloss.JoinHorizontal(lipgloss.Top, editorPane, " ", resultsPane)

	return lipgloss.JoinVertical(lipgloss.Left, title, main, m.renderStatusBar())
}

func (m Model) editorTitle() string {
	if m.filePath != "" {
		return m.filePath
	}
	return "scratch buffer"
}

func (m Model) paneTabs() string {
	var b strings.Builder
	for _, p := range []resultPane{paneReport, paneSource, paneLog} {
		if p == m.pane {
			b.WriteString(tabActiveStyle.Render(p.String()))
		} else {
			b.WriteString(tabStyle.Render(p.String()))
		}
	}
	return b.String()
}

// refreshResults rebuilds the right pane content from the latest snapshot.
func (m *Model) refreshResults() {
	var content string
	switch m.pane {
	case paneReport:
		content = m.renderReport()
	case paneSource:
		content = m.renderAnnotatedSource()
	case paneLog:
		content = m.renderLog()
	}
	m.results.SetContent(content)
}

func (m Model) renderReport() string {
	res := m.snap.LastResult
	if res == nil {
		return helpBarStyle.Render("No analysis yet. Press ctrl+s to submit the buffer.")
	}

	var b strings.Builder

	b.WriteString(m.renderMetrics(res.Metrics))
	b.WriteString("\n")
	b.WriteString(paneTitleStyle.Render(fmt.Sprintf("Language: %s", res.LanguageDetected)))
	b.WriteString("\n\n")
	b.WriteString(m.renderSummary(res.Summary))
	b.WriteString("\n")

	if len(res.Issues) == 0 {
		b.WriteString(helpBarStyle.Render("No issues reported."))
		return b.String()
	}

	b.WriteString(paneTitleStyle.Render(fmt.Sprintf("Issues (%d)", len(res.Issues))))
	b.WriteString("\n")
	for _, is := range res.Issues {
		sev := lipgloss.NewStyle().Foreground(severityColor(is.Severity)).Bold(true)
		b.WriteString(fmt.Sprintf("%s %s L%d  %s\n",
			sev.Render(is.Severity.String()),
			helpBarStyle.Render(is.Category.String()),
			is.Line,
			is.Description))
		if is.Suggestion != "" {
			b.WriteString(helpBarStyle.Render("    ↳ " + is.Suggestion))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// renderSummary renders the service's markdown summary; on any rendering
// failure the raw text is shown instead.
func (m Model) renderSummary(summary string) string {
	width := m.results.Width
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(width))
	if err != nil {
		return summary
	}
	out, err := r.Render(summary)
	if err != nil {
		return summary
	}
	return strings.TrimRight(out, "\n")
}

func (m Model) renderMetrics(metrics model.Metrics) string {
	cells := []struct {
		label string
		score int
	}{
		{"security", metrics.SecurityScore},
		{"performance", metrics.PerformanceScore},
		{"maintainability", metrics.MaintainabilityScore},
		{"health", metrics.OverallHealth},
	}

	var parts []string
	for _, c := range cells {
		parts = append(parts, fmt.Sprintf("%s %s",
			helpBarStyle.Render(c.label),
			scoreStyle(c.score).Render(fmt.Sprintf("%d", c.score))))
	}
	return strings.Join(parts, "  ")
}

// renderAnnotatedSource shows the current buffer with a marker on every
// line the last result reported an issue against. Markers derive from the
// current buffer length, so issues stranded by edits simply drop off.
func (m Model) renderAnnotatedSource() string {
	value := m.editor.Value()
	if strings.TrimSpace(value) == "" {
		return helpBarStyle.Render("Buffer is empty.")
	}

	lines := strings.Split(value, "\n")

	var issues []model.Issue
	if m.snap.LastResult != nil {
		issues = m.snap.LastResult.Issues
	}
	marked := engine.Annotate(len(lines), issues)

	highlighted := HighlightLines(m.language(), lines)

	var b strings.Builder
	for i, hl := range highlighted {
		lineNo := i + 1

		marker := " "
		if marked[lineNo] {
			sev := maxSeverityOnLine(issues, lineNo)
			marker = markerStyle.Foreground(severityColor(sev)).Render("●")
		}

		b.WriteString(lineNumberStyle.Render(fmt.Sprintf("%d", lineNo)))
		b.WriteString(" ")
		b.WriteString(marker)
		b.WriteString(" ")
		for _, tok := range hl.Tokens {
			if tok.Color != "" {
				b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(tok.Color)).Render(tok.Text))
			} else {
				b.WriteString(tok.Text)
			}
		}
		if i < len(highlighted)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// maxSeverityOnLine returns the most urgent severity among a line's issues.
func maxSeverityOnLine(issues []model.Issue, line int) model.Severity {
	max := model.SeverityLow
	for _, is := range issues {
		if is.Line == line && is.Severity < max {
			max = is.Severity
		}
	}
	return max
}

func (m Model) renderLog() string {
	if len(m.snap.Log) == 0 {
		return helpBarStyle.Render("No activity yet.")
	}

	var b strings.Builder
	for _, e := range m.snap.Log {
		var style lipgloss.Style
		switch e.Level {
		case engine.LevelError:
			style = logErrorStyle
		case engine.LevelWarn:
			style = logWarnStyle
		default:
			style = logInfoStyle
		}
		b.WriteString(helpBarStyle.Render(e.Time.Format("15:04:05")))
		b.WriteString(" ")
		b.WriteString(style.Render(e.Message))
		b.WriteByte('\n')
	}
	return b.String()
}

func (m Model) renderStatusBar() string {
	left := m.statusLine()

	right := ""
	if m.snap.LastError != "" {
		right = errorStyle.Render(m.snap.LastError) + " "
	}
	right += helpBarStyle.Render(m.provider) + " "

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	return statusBarStyle.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}
