package judge

import (
	"os/exec"
	"testing"
	"time"

	"github.com/nughm3/gojudge/internal/contest"
	"github.com/nughm3/gojudge/internal/sandbox"
)

// runShell runs sh -c script to completion and returns the exit status and
// resource usage os/exec actually observed, so classify is exercised
// against a real reaped process rather than a hand-built struct.
func runShell(t *testing.T, script string) (sandbox.ExitStatus, sandbox.ResourceUsage) {
	t.Helper()
	cmd := exec.Command("sh", "-c", script)
	_ = cmd.Run() // nonzero exit and signal deaths are expected, not test failures

	if cmd.ProcessState == nil {
		t.Fatalf("process state missing for script %q", script)
	}
	return sandbox.ExitStatusFromProcessState(cmd.ProcessState), sandbox.ResourceUsageFromProcessState(cmd.ProcessState)
}

func TestClassifyAccepted(t *testing.T) {
	status, usage := runShell(t, "echo hello")
	out := sandbox.Output{ExitStatus: status, Stdout: []byte("hello\n"), ResourceUsage: usage}

	result := classify(out, contest.ResourceLimits{CPUSeconds: 10, MemoryBytes: 1 << 30}, "hello")
	if result.Verdict != Accepted {
		t.Errorf("verdict = %v, want Accepted", result.Verdict)
	}
	if result.Usage == nil {
		t.Error("usage should be recorded for a normal exit")
	}
}

func TestClassifyWrongAnswer(t *testing.T) {
	status, usage := runShell(t, "echo goodbye")
	out := sandbox.Output{ExitStatus: status, Stdout: []byte("goodbye\n"), ResourceUsage: usage}

	result := classify(out, contest.ResourceLimits{CPUSeconds: 10, MemoryBytes: 1 << 30}, "hello")
	if result.Verdict != WrongAnswer {
		t.Errorf("verdict = %v, want WrongAnswer", result.Verdict)
	}
}

func TestClassifyIgnoresSurroundingWhitespace(t *testing.T) {
	status, usage := runShell(t, "printf '  hello  \\n\\n'")
	out := sandbox.Output{ExitStatus: status, Stdout: []byte("  hello  \n\n"), ResourceUsage: usage}

	result := classify(out, contest.ResourceLimits{CPUSeconds: 10, MemoryBytes: 1 << 30}, "hello")
	if result.Verdict != Accepted {
		t.Errorf("verdict = %v, want Accepted (whitespace should be trimmed)", result.Verdict)
	}
}

func TestClassifyNonzeroExitIsRuntimeErrorWithNoUsage(t *testing.T) {
	status, usage := runShell(t, "exit 7")
	out := sandbox.Output{ExitStatus: status, ResourceUsage: usage}

	result := classify(out, contest.ResourceLimits{CPUSeconds: 10, MemoryBytes: 1 << 30}, "")
	if result.Verdict != RuntimeError {
		t.Errorf("verdict = %v, want RuntimeError", result.Verdict)
	}
	if result.Usage != nil {
		t.Errorf("usage = %+v, want nil for a nonzero exit", result.Usage)
	}
}

func TestClassifySignalKilledOverMemoryLimitIsMLE(t *testing.T) {
	status, _ := runShell(t, "kill -KILL $$")

	usage := sandbox.ResourceUsage{MemoryBytes: 1 << 30, UserTime: time.Millisecond}
	out := sandbox.Output{ExitStatus: status, ResourceUsage: usage}

	result := classify(out, contest.ResourceLimits{CPUSeconds: 10, MemoryBytes: 1 << 20}, "")
	if result.Verdict != MemoryLimitExceeded {
		t.Errorf("verdict = %v, want MemoryLimitExceeded", result.Verdict)
	}
	if result.Usage == nil {
		t.Error("usage should be recorded for a signal-killed process")
	}
}

func TestClassifySignalKilledWithinEpsilonOfMemoryLimitIsMLE(t *testing.T) {
	status, _ := runShell(t, "kill -KILL $$")

	limit := uint64(1 << 20)
	usage := sandbox.ResourceUsage{MemoryBytes: limit - epsilonMemory, UserTime: time.Millisecond}
	out := sandbox.Output{ExitStatus: status, ResourceUsage: usage}

	result := classify(out, contest.ResourceLimits{CPUSeconds: 10, MemoryBytes: limit}, "")
	if result.Verdict != MemoryLimitExceeded {
		t.Errorf("verdict = %v, want MemoryLimitExceeded (within epsilon of the limit)", result.Verdict)
	}
}

func TestClassifySignalKilledOverCPULimitIsTLE(t *testing.T) {
	status, _ := runShell(t, "kill -KILL $$")

	usage := sandbox.ResourceUsage{MemoryBytes: 1024, UserTime: 20 * time.Second}
	out := sandbox.Output{ExitStatus: status, ResourceUsage: usage}

	result := classify(out, contest.ResourceLimits{CPUSeconds: 10, MemoryBytes: 1 << 30}, "")
	if result.Verdict != TimeLimitExceeded {
		t.Errorf("verdict = %v, want TimeLimitExceeded", result.Verdict)
	}
}

func TestClassifySignalKilledUnderBothLimitsPanics(t *testing.T) {
	status, _ := runShell(t, "kill -KILL $$")

	usage := sandbox.ResourceUsage{MemoryBytes: 1024, UserTime: time.Millisecond}
	out := sandbox.Output{ExitStatus: status, ResourceUsage: usage}

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected classify to panic when a signal-killed process is under both limits")
		}
	}()
	classify(out, contest.ResourceLimits{CPUSeconds: 10, MemoryBytes: 1 << 30}, "")
}
