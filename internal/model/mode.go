package model

import "fmt"

// Mode is a reviewing persona. It alters how the remote service reviews the
// code; the client only passes it through.
type Mode int

const (
	ModeMentor Mode = iota
	ModeStrict
	ModeDebugger
	ModePerformance
	ModeTester
)

func (m Mode) String() string {
	switch m {
	case ModeMentor:
		return "mentor"
	case ModeStrict:
		return "strict"
	case ModeDebugger:
		return "debugger"
	case ModePerformance:
		return "performance"
	case ModeTester:
		return "tester"
	default:
		return "unknown"
	}
}

// Modes returns every persona in display order.
func Modes() []Mode {
	return []Mode{ModeMentor, ModeStrict, ModeDebugger, ModePerformance, ModeTester}
}

// ParseMode validates a persona label at the boundary. Unrecognized labels
// are an error, never passed through.
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes() {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown mode %q (expected one of mentor, strict, debugger, performance, tester)", s)
}

// AutoDetect is the sentinel language label meaning the remote service
// determines the language itself. It must be passed through unchanged.
const AutoDetect = "Auto-detect"

// Languages returns the language catalog offered by the client, including
// the AutoDetect sentinel.
func Languages() []string {
	return []string{
		AutoDetect,
		"Python",
		"JavaScript",
		"TypeScript",
		"Go",
		"Java",
		"C++",
		"Rust",
	}
}
