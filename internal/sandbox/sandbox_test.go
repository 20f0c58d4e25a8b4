package sandbox

import (
	"errors"
	"os/exec"
	"testing"
)

func TestParseCommand(t *testing.T) {
	cmd, err := ParseCommand("python3 -u main.py")
	if err != nil {
		t.Fatalf("ParseCommand: %v", err)
	}
	if cmd.Executable != "python3" {
		t.Errorf("Executable = %q, want python3", cmd.Executable)
	}
	if len(cmd.Args) != 2 || cmd.Args[0] != "-u" || cmd.Args[1] != "main.py" {
		t.Errorf("Args = %v, want [-u main.py]", cmd.Args)
	}
}

func TestParseCommandSingleToken(t *testing.T) {
	cmd, err := ParseCommand("a.out")
	if err != nil {
		t.Fatalf("ParseCommand: %v", err)
	}
	if cmd.Executable != "a.out" || len(cmd.Args) != 0 {
		t.Errorf("cmd = %+v, want {a.out []}", cmd)
	}
}

func TestParseCommandEmptyIsInvalid(t *testing.T) {
	for _, s := range []string{"", "   "} {
		if _, err := ParseCommand(s); err == nil {
			t.Errorf("ParseCommand(%q) should fail", s)
		} else if _, ok := err.(*InvalidCommandError); !ok {
			t.Errorf("ParseCommand(%q) error type = %T, want *InvalidCommandError", s, err)
		}
	}
}

func TestCommandUnmarshalText(t *testing.T) {
	var cmd Command
	if err := cmd.UnmarshalText([]byte("gcc -O2 main.c -o main")); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if cmd.Executable != "gcc" || len(cmd.Args) != 4 {
		t.Errorf("cmd = %+v, want executable gcc with 4 args", cmd)
	}
}

func TestExitStatusFromNormalExit(t *testing.T) {
	cmd := exec.Command("sh", "-c", "exit 3")
	_ = cmd.Run()

	status := ExitStatusFromProcessState(cmd.ProcessState)
	code, exited := status.Code()
	if !exited {
		t.Fatal("expected the process to have exited normally")
	}
	if code != 3 {
		t.Errorf("code = %d, want 3", code)
	}
	if status.Success() {
		t.Error("Success() should be false for a nonzero exit code")
	}
	if status.Signaled() {
		t.Error("Signaled() should be false for a normal exit")
	}
}

func TestExitStatusSuccess(t *testing.T) {
	cmd := exec.Command("true")
	if err := cmd.Run(); err != nil {
		t.Fatalf("running true: %v", err)
	}

	status := ExitStatusFromProcessState(cmd.ProcessState)
	if !status.Success() {
		t.Error("Success() should be true for exit code 0")
	}
}

func TestExitStatusSignaled(t *testing.T) {
	cmd := exec.Command("sh", "-c", "kill -KILL $$")
	_ = cmd.Run()

	status := ExitStatusFromProcessState(cmd.ProcessState)
	if !status.Signaled() {
		t.Fatal("expected the process to have been killed by a signal")
	}
	if _, exited := status.Code(); exited {
		t.Error("Code() should report exited=false for a signal-killed process")
	}
}

func TestResourceUsageTotalTime(t *testing.T) {
	cmd := exec.Command("sh", "-c", "echo hi")
	if err := cmd.Run(); err != nil {
		t.Fatalf("running sh: %v", err)
	}

	usage := ResourceUsageFromProcessState(cmd.ProcessState)
	if usage.TotalTime() != usage.UserTime+usage.SysTime {
		t.Errorf("TotalTime() = %v, want UserTime+SysTime", usage.TotalTime())
	}
}

func TestIsBrokenPipe(t *testing.T) {
	err := &brokenPipeError{cause: errors.New("write: broken pipe")}
	if !IsBrokenPipe(err) {
		t.Error("IsBrokenPipe should report true for a brokenPipeError")
	}
	if IsBrokenPipe(errors.New("some other failure")) {
		t.Error("IsBrokenPipe should report false for an unrelated error")
	}
}

func TestIsBrokenPipeWrapped(t *testing.T) {
	inner := &brokenPipeError{cause: errors.New("epipe")}
	wrapped := errorsJoin(inner)
	if !IsBrokenPipe(wrapped) {
		t.Error("IsBrokenPipe should see through wrapping via errors.As")
	}
}

// errorsJoin wraps err once in a type with an Unwrap method so the test above exercises
// errors.As through a layer of wrapping, not just a bare type assertion.
func errorsJoin(err error) error {
	return &wrappedError{err}
}

type wrappedError struct{ err error }

func (w *wrappedError) Error() string { return "wrapped: " + w.err.Error() }
func (w *wrappedError) Unwrap() error { return w.err }
