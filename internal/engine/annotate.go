package engine

import "github.com/coderefine/coderefine/internal/model"

// Annotate returns the set of 1-based line numbers in [1, lineCount] that
// carry at least one issue. Issues whose line falls outside the range are
// excluded rather than rejected: the buffer may have been edited after the
// result arrived. Pure function; the issue sequence itself is untouched, so
// callers can re-filter it per line for severity or category breakdowns.
func Annotate(lineCount int, issues []model.Issue) map[int]bool {
	marked := make(map[int]bool)
	for _, is := range issues {
		if is.Line >= 1 && is.Line <= lineCount {
			marked[is.Line] = true
		}
	}
	return marked
}
