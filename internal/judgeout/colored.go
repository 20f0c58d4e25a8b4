package judgeout

import "github.com/nughm3/gojudge/internal/judge"

// ANSI SGR codes for the verdict palette below. No color library is wired
// in for this: it's a single enum-to-escape-code mapping, and nothing
// elsewhere in this codebase's dependency surface is a plain terminal
// styling helper (the one ANSI-capable package in the retrieval pack is a
// full VT100 emulator, built for a different job).
const (
	ansiReset   = "\x1b[0m"
	ansiBold    = "\x1b[1m"
	ansiYellow  = "\x1b[33m"
	ansiRed     = "\x1b[31m"
	ansiMagenta = "\x1b[35m"
	ansiBlue    = "\x1b[34m"
	ansiGreen   = "\x1b[32m"
)

// Colored renders v as its display string wrapped in a bold ANSI color
// chosen by severity: yellow for an execution fault, red for a wrong
// answer, magenta for a limit breach, blue for a partial score, green for
// an outright pass.
func Colored(v judge.Verdict) string {
	var color string
	switch v {
	case judge.CompileError, judge.RuntimeError:
		color = ansiYellow
	case judge.WrongAnswer:
		color = ansiRed
	case judge.TimeLimitExceeded, judge.MemoryLimitExceeded:
		color = ansiMagenta
	case judge.PartialScore:
		color = ansiBlue
	case judge.Accepted:
		color = ansiGreen
	default:
		color = ansiReset
	}
	return ansiBold + color + v.String() + ansiReset
}
