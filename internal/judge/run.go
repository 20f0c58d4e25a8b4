package judge

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nughm3/gojudge/internal/contest"
	"github.com/nughm3/gojudge/internal/judgelog"
	"github.com/nughm3/gojudge/internal/sandbox"
)

var log = judgelog.New("runner")

// Tolerance margins for classifying a signal-killed child: a
// process landing within these bands of a limit is treated as having hit
// it, even if the kernel's own accounting reports it a hair under.
const (
	epsilonMemory uint64 = 1000 // bytes
	epsilonTime           = 100 * time.Millisecond
)

// Submission is the untrusted source a user submitted, paired with the
// language it claims to be written in.
type Submission struct {
	Source   string
	Language string
}

// TestResult is the outcome of running a submission against one test:
// its verdict, and the resource usage observed. Usage is nil for the
// BrokenPipe path, which never produced meaningful accounting, and for a
// nonzero exit.
type TestResult struct {
	Verdict Verdict
	Usage   *sandbox.ResourceUsage
}

// Run executes submission against every test in task, in parallel and
// bounded by available cores, and returns one TestResult per test in
// task.Tests order regardless of completion order.
func Run(cfg *Config, submission Submission, task *contest.Task, limits contest.ContestResourceLimits) ([]TestResult, error) {
	lang, ok := cfg.Lookup(submission.Language)
	if !ok {
		return nil, &Error{Kind: ErrUnknownLanguage, Language: submission.Language}
	}

	box, err := sandbox.New()
	if err != nil {
		return nil, &Error{Kind: ErrIO, cause: err}
	}
	defer func() {
		if err := box.Close(); err != nil {
			log.Warn("failed to remove sandbox scratch dir: %v", err)
		}
	}()

	if err := box.Write(lang.Filename, []byte(submission.Source)); err != nil {
		return nil, &Error{Kind: ErrIO, cause: err}
	}

	if lang.Build != nil {
		out, err := box.Build(*lang.Build, limits.Build)
		if err != nil {
			return nil, &Error{Kind: ErrIO, cause: err}
		}
		if !out.ExitStatus.Success() {
			return nil, &Error{Kind: ErrCompileError, Stderr: string(out.Stderr)}
		}
		// Logs the build's total CPU time (user+sys), not user_time alone;
		// see DESIGN.md.
		log.Debug("built %s in %s", submission.Language, out.ResourceUsage.TotalTime())
	}

	results := make([]TestResult, len(task.Tests))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, test := range task.Tests {
		i, test := i, test
		g.Go(func() error {
			out, err := box.Run(lang.Run, []byte(test.Input), limits.Run)
			if err != nil {
				if sandbox.IsBrokenPipe(err) {
					results[i] = TestResult{Verdict: RuntimeError}
					return nil
				}
				return &Error{Kind: ErrIO, cause: err}
			}
			results[i] = classify(out, limits.Run, test.Output)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// classify derives a per-test verdict from one exec's output, following
// the decision procedure below.
func classify(out sandbox.Output, limits contest.ResourceLimits, expected string) TestResult {
	usage := out.ResourceUsage

	if code, exited := out.ExitStatus.Code(); exited {
		if code == 0 {
			if strings.TrimSpace(string(out.Stdout)) == strings.TrimSpace(expected) {
				return TestResult{Verdict: Accepted, Usage: &usage}
			}
			return TestResult{Verdict: WrongAnswer, Usage: &usage}
		}
		// Nonzero exit: RuntimeError, usage discarded like the BrokenPipe
		// path. Stays a per-test verdict rather than aborting the whole run —
		// every exec outcome becomes exactly one TestResult.
		return TestResult{Verdict: RuntimeError}
	}

	// No exit code: killed by signal. Classify by which limit the usage
	// falls at or within ε of; anything else is a sandbox bug.
	if usage.MemoryBytes > limits.MemoryBytes || limits.MemoryBytes-usage.MemoryBytes <= epsilonMemory {
		return TestResult{Verdict: MemoryLimitExceeded, Usage: &usage}
	}

	cpuLimit := time.Duration(limits.CPUSeconds) * time.Second
	if usage.TotalTime() > cpuLimit || cpuLimit-usage.TotalTime() <= epsilonTime {
		return TestResult{Verdict: TimeLimitExceeded, Usage: &usage}
	}

	panic(fmt.Sprintf("killed by signal %v but resource usage %+v is under both limits %+v", out.ExitStatus.Signal(), usage, limits))
}
