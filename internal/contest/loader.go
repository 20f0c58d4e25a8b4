package contest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"

	"github.com/nughm3/gojudge/internal/judgelog"
)

var log = judgelog.New("contest")

// LoadErrorKind classifies a failure to load a contest or task, matching
// the loader's own error taxonomy.
type LoadErrorKind int

const (
	ErrIO LoadErrorKind = iota
	ErrYAML
	ErrNoFrontmatter
	ErrNoSubtasks
)

// LoadError wraps a loader failure with its kind, so callers can switch on
// Kind without string-matching messages.
type LoadError struct {
	Kind  LoadErrorKind
	Path  string
	cause error
}

func (e *LoadError) Error() string {
	switch e.Kind {
	case ErrNoFrontmatter:
		return fmt.Sprintf("%s: task description does not have front matter", e.Path)
	case ErrNoSubtasks:
		return fmt.Sprintf("%s: no subtasks in task", e.Path)
	case ErrYAML:
		return fmt.Sprintf("%s: failed to parse YAML front matter: %v", e.Path, e.cause)
	default:
		return fmt.Sprintf("%s: IO error: %v", e.Path, e.cause)
	}
}

func (e *LoadError) Unwrap() error { return e.cause }

const (
	defaultCooldown        = time.Hour
	defaultLeaderboardSize = 100
)

// yamlDuration parses Go duration strings ("1h30m") from YAML scalars,
// since the front matter stores durations as human-readable strings.
type yamlDuration time.Duration

func (d *yamlDuration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = yamlDuration(parsed)
	return nil
}

type contestFrontmatter struct {
	Name            string                `yaml:"name"`
	TaskPaths       []string              `yaml:"tasks"`
	Languages       []string              `yaml:"languages,omitempty"`
	Duration        yamlDuration          `yaml:"duration"`
	Cooldown        *yamlDuration         `yaml:"cooldown,omitempty"`
	LeaderboardSize *int                  `yaml:"leaderboard_size,omitempty"`
	ResourceLimits  ContestResourceLimits `yaml:"rlimits"`
}

type taskFrontmatter struct {
	Name        string      `yaml:"name"`
	Examples    []Example   `yaml:"examples,omitempty"`
	Subtasks    []Subtask   `yaml:"subtasks"`
	Constraints []string    `yaml:"constraints,omitempty"`
	Difficulty  *Difficulty `yaml:"difficulty,omitempty"`
}

// Load reads a contest directory laid out as follows:
// contest.md at the root, one <task-subdir>/task.md per task, and
// <task-subdir>/tests/{n}.in,{n}.out test files.
func Load(path string) (*Contest, error) {
	log.Debug("loading contest at path %s", path)

	raw, err := os.ReadFile(filepath.Join(path, "contest.md"))
	if err != nil {
		return nil, &LoadError{Kind: ErrIO, Path: path, cause: err}
	}

	var fm contestFrontmatter
	body, err := extractFrontmatter(path, raw, &fm)
	if err != nil {
		return nil, err
	}
	page := renderMarkdown(body)

	tasks := make([]Task, 0, len(fm.TaskPaths))
	for _, taskPath := range fm.TaskPaths {
		dir := filepath.Join(path, taskPath)
		info, err := os.Stat(dir)
		if err != nil {
			return nil, &LoadError{Kind: ErrIO, Path: dir, cause: err}
		}
		if !info.IsDir() {
			return nil, &LoadError{Kind: ErrIO, Path: dir, cause: fmt.Errorf("task is not a directory")}
		}
		task, err := loadTask(dir)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}

	cooldown := defaultCooldown
	if fm.Cooldown != nil {
		cooldown = time.Duration(*fm.Cooldown)
	}
	leaderboardSize := defaultLeaderboardSize
	if fm.LeaderboardSize != nil {
		leaderboardSize = *fm.LeaderboardSize
	}

	return &Contest{
		Name:            fm.Name,
		Path:            path,
		Description:     page,
		Tasks:           tasks,
		Languages:       fm.Languages,
		Duration:        time.Duration(fm.Duration),
		Cooldown:        cooldown,
		LeaderboardSize: leaderboardSize,
		ResourceLimits:  fm.ResourceLimits,
	}, nil
}

func loadTask(dir string) (*Task, error) {
	log.Trace("loading task at path %s", dir)

	raw, err := os.ReadFile(filepath.Join(dir, "task.md"))
	if err != nil {
		return nil, &LoadError{Kind: ErrIO, Path: dir, cause: err}
	}

	var fm taskFrontmatter
	body, err := extractFrontmatter(dir, raw, &fm)
	if err != nil {
		return nil, err
	}
	page := renderMarkdown(body)

	if len(fm.Subtasks) == 0 {
		return nil, &LoadError{Kind: ErrNoSubtasks, Path: dir}
	}

	tests := materializeTests(dir, fm.Subtasks)

	return &Task{
		Name:        fm.Name,
		Description: page,
		Examples:    fm.Examples,
		Subtasks:    fm.Subtasks,
		Tests:       tests,
		Constraints: fm.Constraints,
		Difficulty:  fm.Difficulty,
	}, nil
}

// materializeTests reads {n}.in/{n}.out pairs under dir/tests, numbering
// contiguously across subtasks starting at 1. Within a subtask, the first
// missing pair stops that subtask's materialization and moves to the next
// one, permitting partial test sets while keeping numbering contiguous.
func materializeTests(dir string, subtasks []Subtask) []Test {
	testDir := filepath.Join(dir, "tests")

	var tests []Test
	n := 1
	for idx, subtask := range subtasks {
		for i := 0; i < subtask.Tests; i++ {
			input, errIn := os.ReadFile(filepath.Join(testDir, fmt.Sprintf("%d.in", n)))
			output, errOut := os.ReadFile(filepath.Join(testDir, fmt.Sprintf("%d.out", n)))
			if errIn != nil || errOut != nil {
				break
			}
			n++
			tests = append(tests, Test{
				Subtask: idx + 1,
				Input:   string(input),
				Output:  string(output),
			})
		}
	}
	return tests
}

// extractFrontmatter splits a "---\n...yaml...\n---\n...markdown..." file
// into its parsed front matter and the remaining Markdown body. The file
// must begin with the opening sentinel; the second sentinel terminates the
// YAML block.
func extractFrontmatter[T any](path string, raw []byte, out *T) (string, error) {
	const sentinel = "---\n"

	input := string(raw)
	stripped, ok := strings.CutPrefix(input, sentinel)
	if !ok {
		return "", &LoadError{Kind: ErrNoFrontmatter, Path: path}
	}

	end := strings.Index(stripped, sentinel)
	if end == -1 {
		return "", &LoadError{Kind: ErrNoFrontmatter, Path: path}
	}

	dec := yaml.NewDecoder(strings.NewReader(stripped[:end]))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return "", &LoadError{Kind: ErrYAML, Path: path, cause: err}
	}

	return stripped[end+len(sentinel):], nil
}

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM, extension.Footnote, extension.Typographer),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

// renderMarkdown converts body to HTML, warning on and dropping broken
// links (preserving their text) instead of failing the whole render.
func renderMarkdown(body string) string {
	src := []byte(body)
	doc := markdown.Parser().Parse(text.NewReader(src))
	dropBrokenLinks(doc, src)

	var buf strings.Builder
	if err := markdown.Renderer().Render(&buf, src, doc); err != nil {
		log.Warn("failed to render markdown: %v", err)
		return ""
	}
	return buf.String()
}

// dropBrokenLinks walks the parsed AST and unwraps any link whose
// destination is empty, which is how goldmark represents a reference-style
// link with no matching definition.
func dropBrokenLinks(doc ast.Node, src []byte) {
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		link, ok := n.(*ast.Link)
		if !ok || len(link.Destination) > 0 {
			return ast.WalkContinue, nil
		}

		log.Warn("broken link at line containing %q", firstLine(link, src))

		parent := link.Parent()
		if parent == nil {
			return ast.WalkContinue, nil
		}
		for child := link.FirstChild(); child != nil; {
			next := child.NextSibling()
			parent.InsertBefore(parent, link, child)
			child = next
		}
		parent.RemoveChild(parent, link)
		return ast.WalkContinue, nil
	})
}

func firstLine(n ast.Node, src []byte) string {
	if n.Type() == ast.TypeInline {
		if c := n.FirstChild(); c != nil {
			if txt, ok := c.(*ast.Text); ok {
				return string(txt.Segment.Value(src))
			}
		}
	}
	return "<link>"
}
