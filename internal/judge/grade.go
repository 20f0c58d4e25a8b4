package judge

import (
	"github.com/nughm3/gojudge/internal/contest"
	"github.com/nughm3/gojudge/internal/sandbox"
)

// GradedTest pairs a test's verdict with its 0/1 score and the resource
// usage observed running it.
type GradedTest struct {
	Verdict Verdict
	Score   int
	Usage   *sandbox.ResourceUsage
}

// GradedSubtask aggregates a subtask's tests: its verdict is the minimum
// over its tests (Accepted is the identity for an all-Accepted subtask),
// its score is the sum.
type GradedSubtask struct {
	Verdict Verdict
	Score   int
	Tests   []GradedTest
}

// GradedTask aggregates a task's subtasks the same way GradedSubtask
// aggregates tests.
type GradedTask struct {
	Verdict  Verdict
	Score    int
	Subtasks []GradedSubtask
}

// Grade aggregates raw per-test results into subtask and task verdicts and
// scores. Subtasks consume results with a running cursor in
// declaration order; a subtask that runs out of results early is graded on
// the results that remain (none left gives an empty, zero-score
// GradedSubtask) rather than erroring, since that should
// not occur in practice but must not panic if it does — every subtask in
// task.Subtasks always produces exactly one GradedSubtask, so
// graded.Subtasks[i] always corresponds to task.Subtasks[i]. An empty
// results slice therefore yields one empty all-Accepted GradedSubtask per
// subtask; callers facing a CompileError should synthesize a GradedTask
// directly instead of calling Grade.
func Grade(task *contest.Task, results []TestResult) GradedTask {
	graded := GradedTask{Verdict: Accepted}

	cursor := 0
	for _, subtask := range task.Subtasks {
		n := subtask.Tests
		if remaining := len(results) - cursor; n > remaining {
			n = remaining
		}
		if n < 0 {
			n = 0
		}

		gradedSubtask := GradedSubtask{Verdict: Accepted}
		for _, result := range results[cursor : cursor+n] {
			score := 0
			if result.Verdict == Accepted {
				score = 1
			}
			gradedSubtask.Tests = append(gradedSubtask.Tests, GradedTest{
				Verdict: result.Verdict,
				Score:   score,
				Usage:   result.Usage,
			})
			gradedSubtask.Verdict = minVerdict(gradedSubtask.Verdict, result.Verdict)
			gradedSubtask.Score += score
		}
		cursor += n

		graded.Verdict = minVerdict(graded.Verdict, gradedSubtask.Verdict)
		graded.Score += gradedSubtask.Score
		graded.Subtasks = append(graded.Subtasks, gradedSubtask)
	}

	return graded
}
