// Package contest defines the contest/task data model and the
// front-matter + Markdown loader that materializes it from disk.
package contest

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ResourceLimits bounds one phase (build or run) of a submission's
// execution: a CPU-time budget and an address-space budget.
type ResourceLimits struct {
	CPUSeconds  uint64 `yaml:"cpu_seconds" toml:"cpu_seconds"`
	MemoryBytes uint64 `yaml:"memory_bytes" toml:"memory_bytes"`
}

// ContestResourceLimits pairs the build-phase and run-phase limits a
// contest applies to every submission.
type ContestResourceLimits struct {
	Build ResourceLimits `yaml:"build"`
	Run   ResourceLimits `yaml:"run"`
}

// Difficulty classifies a task's intended challenge level.
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
)

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "Easy"
	case Medium:
		return "Medium"
	case Hard:
		return "Hard"
	default:
		return fmt.Sprintf("Difficulty(%d)", int(d))
	}
}

// InvalidDifficultyError reports a string that is not a known difficulty.
type InvalidDifficultyError struct{ Input string }

func (e *InvalidDifficultyError) Error() string {
	return fmt.Sprintf("invalid difficulty: %s", e.Input)
}

// ParseDifficulty parses s case-insensitively against {easy, medium, hard}.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(s) {
	case "easy":
		return Easy, nil
	case "medium":
		return Medium, nil
	case "hard":
		return Hard, nil
	default:
		return 0, &InvalidDifficultyError{Input: s}
	}
}

// UnmarshalYAML lets Difficulty be written as a plain scalar in front
// matter ("easy", "Medium", ...).
func (d *Difficulty) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseDifficulty(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Example is one worked input/output pair shown on a task's page.
type Example struct {
	Input   string  `yaml:"input"`
	Output  string  `yaml:"output"`
	Comment *string `yaml:"comment,omitempty"`
}

// Subtask groups a run of tests that share constraints. Tests are assigned
// to subtasks in declaration order by the loader; the subtask
// itself only declares how many tests it owns and its constraint strings.
type Subtask struct {
	Tests       int      `yaml:"tests"`
	Constraints []string `yaml:"constraints,omitempty"`
}

// Test is one materialized test case: an input to feed the submission and
// the expected output as read from disk (the runner trims both sides
// before comparing), plus the 1-based index of its owning subtask.
type Test struct {
	Subtask int
	Input   string
	Output  string
}

// Task is one problem within a contest.
type Task struct {
	Name        string
	Description string // rendered HTML
	Examples    []Example
	Subtasks    []Subtask
	Tests       []Test
	Constraints []string
	Difficulty  *Difficulty
}

// Contest is an immutable, shared value describing one running contest:
// its tasks, timing, and resource limits. Once loaded, a Contest is safe
// to share by value (or by pointer to an immutable value) across
// concurrently-served sessions; nothing here is mutated after Load
// returns.
type Contest struct {
	Name            string
	Path            string
	Description     string // rendered HTML
	Tasks           []Task
	Languages       []string // optional allowlist; nil means "no restriction"
	Duration        time.Duration
	Cooldown        time.Duration
	LeaderboardSize int
	ResourceLimits  ContestResourceLimits
}

// Task looks up a task by name. Tasks are few per contest, so a linear
// scan is simpler and cheaper than building an index map.
func (c *Contest) Task(name string) (*Task, bool) {
	for i := range c.Tasks {
		if c.Tasks[i].Name == name {
			return &c.Tasks[i], true
		}
	}
	return nil, false
}

// LanguageAllowed reports whether name is permitted by this contest's
// optional language allowlist. A nil/empty allowlist permits everything;
// the judge configuration is the second gate a language must pass.
func (c *Contest) LanguageAllowed(name string) bool {
	if len(c.Languages) == 0 {
		return true
	}
	for _, l := range c.Languages {
		if l == name {
			return true
		}
	}
	return false
}
