package judge

import (
	"fmt"
	"strings"
)

// Verdict is the outcome of grading a single test, subtask, or task. The
// zero value is CompileError, the lowest-ranked verdict; rank increases
// toward Accepted. Aggregation always takes the element-wise minimum of a
// set of verdicts, so the int order below is load-bearing: do not reorder
// these constants.
type Verdict int

const (
	CompileError Verdict = iota
	RuntimeError
	WrongAnswer
	TimeLimitExceeded
	MemoryLimitExceeded
	PartialScore
	Accepted
)

// String renders the verdict using the same display strings the external
// store persists and that ParseVerdict parses back.
func (v Verdict) String() string {
	switch v {
	case CompileError:
		return "Compile Error"
	case RuntimeError:
		return "Runtime Error"
	case WrongAnswer:
		return "Wrong Answer"
	case TimeLimitExceeded:
		return "Time Limit Exceeded"
	case MemoryLimitExceeded:
		return "Memory Limit Exceeded"
	case PartialScore:
		return "Partial Score"
	case Accepted:
		return "Accepted"
	default:
		return fmt.Sprintf("Verdict(%d)", int(v))
	}
}

// MarshalJSON renders the verdict as its display string, matching the
// persistence schema — exactly the Display strings.
func (v Verdict) MarshalJSON() ([]byte, error) {
	return []byte(`"` + v.String() + `"`), nil
}

// UnmarshalJSON parses the verdict from its display string.
func (v *Verdict) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := ParseVerdict(s)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// InvalidVerdictError reports a string that does not match any verdict's
// display form, case-insensitively.
type InvalidVerdictError struct {
	Input string
}

func (e *InvalidVerdictError) Error() string {
	return fmt.Sprintf("invalid verdict: %s", e.Input)
}

// ParseVerdict parses s against the display strings in String, ignoring
// case.
func ParseVerdict(s string) (Verdict, error) {
	switch strings.ToLower(s) {
	case "compile error":
		return CompileError, nil
	case "runtime error":
		return RuntimeError, nil
	case "wrong answer":
		return WrongAnswer, nil
	case "time limit exceeded":
		return TimeLimitExceeded, nil
	case "memory limit exceeded":
		return MemoryLimitExceeded, nil
	case "partial score":
		return PartialScore, nil
	case "accepted":
		return Accepted, nil
	default:
		return 0, &InvalidVerdictError{Input: s}
	}
}

// minVerdict returns the lower-ranked of two verdicts.
func minVerdict(a, b Verdict) Verdict {
	if a < b {
		return a
	}
	return b
}
