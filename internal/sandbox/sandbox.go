//go:build linux

// Package sandbox implements the hardened Linux execution primitives the
// judge runner drives: resource limits and accounting, filesystem
// confinement, a syscall allowlist, and the process host that wires all
// three around a sandboxed child.
package sandbox

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/nughm3/gojudge/internal/contest"
	"github.com/nughm3/gojudge/internal/judgelog"
)

var log = judgelog.New("sandbox")

// Profile selects which confinement layers a child runs under. Build
// needs broad filesystem/network access for the compiler and therefore
// only gets rlimits; Run gets the full defense-in-depth stack.
type Profile int

const (
	Build Profile = iota
	Run
)

// Command is a parsed executable-plus-arguments pair, as found in the
// judge config's build/run fields (space-separated).
type Command struct {
	Executable string
	Args       []string
}

// InvalidCommandError reports a command string that has no executable
// token (empty or all whitespace).
type InvalidCommandError struct{ Input string }

func (e *InvalidCommandError) Error() string {
	return fmt.Sprintf("invalid command: %s", e.Input)
}

// ParseCommand splits s on whitespace; the first token is the executable,
// the rest are arguments. An empty string is invalid.
func ParseCommand(s string) (Command, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Command{}, &InvalidCommandError{Input: s}
	}
	return Command{Executable: fields[0], Args: fields[1:]}, nil
}

// UnmarshalText lets Command be decoded directly from a TOML/YAML scalar.
func (c *Command) UnmarshalText(text []byte) error {
	parsed, err := ParseCommand(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Output is everything the sandbox host observed from one exec: the
// process's raw exit status, its captured stdout/stderr, and resource
// accounting.
type Output struct {
	ExitStatus    ExitStatus
	Stdout        []byte
	Stderr        []byte
	ResourceUsage ResourceUsage
}

// Sandbox owns a scratch directory for the lifetime of one submission.
// All build and test executions for that submission run with this
// directory as their working directory, sharing build artifacts across
// tests.
type Sandbox struct {
	dir string
}

// New allocates a private scratch directory for one submission.
func New() (*Sandbox, error) {
	dir, err := os.MkdirTemp("", "gojudge-*")
	if err != nil {
		return nil, err
	}
	return &Sandbox{dir: dir}, nil
}

// Close removes the scratch directory. Callers should defer this right
// after New succeeds.
func (s *Sandbox) Close() error {
	return os.RemoveAll(s.dir)
}

// Path returns the scratch root.
func (s *Sandbox) Path() string { return s.dir }

// Write writes contents to path, relative to the scratch root.
func (s *Sandbox) Write(path string, contents []byte) error {
	log.Trace("writing code to %s", path)
	return os.WriteFile(filepath.Join(s.dir, path), contents, 0o644)
}

// Build runs command with the Build profile: rlimits only, no filesystem
// confinement or syscall filter, since the compiler needs broad access.
func (s *Sandbox) Build(command Command, limits contest.ResourceLimits) (Output, error) {
	return s.exec(command, nil, limits, Build)
}

// Run runs command with the Run profile against stdin, under the full
// confinement stack.
func (s *Sandbox) Run(command Command, stdin []byte, limits contest.ResourceLimits) (Output, error) {
	return s.exec(command, stdin, limits, Run)
}

// exec re-execs this binary as a sandbox trampoline (see trampoline.go)
// targeting command, feeds stdin if given, drains stdout/stderr, and
// waits for the child to account its resource usage.
func (s *Sandbox) exec(command Command, stdin []byte, limits contest.ResourceLimits, profile Profile) (Output, error) {
	self, err := os.Executable()
	if err != nil {
		return Output{}, fmt.Errorf("resolve own executable: %w", err)
	}

	trampolineArgs := []string{
		trampolineArg,
		s.dir,
		strconv.Itoa(int(profile)),
		strconv.FormatUint(limits.CPUSeconds, 10),
		strconv.FormatUint(limits.MemoryBytes, 10),
		command.Executable,
	}
	trampolineArgs = append(trampolineArgs, command.Args...)

	cmd := exec.Command(self, trampolineArgs...)
	cmd.Dir = s.dir

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	// Setpgid isolates the child (and the real program it execs into)
	// into its own process group, so it cannot signal its way back into
	// the judge's own process group.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true, Pdeathsig: syscall.SIGKILL}

	var stdinWriter io.WriteCloser
	if stdin != nil {
		w, err := cmd.StdinPipe()
		if err != nil {
			return Output{}, err
		}
		stdinWriter = w
	}

	if err := cmd.Start(); err != nil {
		return Output{}, err
	}

	var stdinErr error
	if stdin != nil {
		_, stdinErr = stdinWriter.Write(stdin)
		_ = stdinWriter.Close()
	}

	waitErr := cmd.Wait()

	if stdinErr != nil {
		if isBrokenPipe(stdinErr) {
			return Output{}, &brokenPipeError{cause: stdinErr}
		}
		return Output{}, stdinErr
	}

	if cmd.ProcessState == nil {
		return Output{}, waitErr
	}

	return Output{
		ExitStatus:    ExitStatusFromProcessState(cmd.ProcessState),
		Stdout:        stdoutBuf.Bytes(),
		Stderr:        stderrBuf.Bytes(),
		ResourceUsage: ResourceUsageFromProcessState(cmd.ProcessState),
	}, nil
}

func isBrokenPipe(err error) bool {
	return errors.Is(err, syscall.EPIPE) || errors.Is(err, os.ErrClosed)
}

// applyProfile runs in the freshly re-exec'd trampoline process, before it
// execs into the real target (trampoline.go). Ordering is load-bearing:
// the filesystem lock must precede rlimits (so rlimits don't starve
// landlock's own setup allocations) and seccomp must
// come last (so the filesystem and rlimit setup calls above aren't
// themselves filtered).
func applyProfile(dir string, limits contest.ResourceLimits, profile Profile) error {
	if profile == Run {
		if err := restrictThread(dir); err != nil {
			return err
		}
	}

	if err := applyResourceLimits(limits); err != nil {
		return err
	}

	if profile == Run {
		if err := applyFilters(); err != nil {
			return err
		}
	}

	return nil
}

type brokenPipeError struct{ cause error }

func (e *brokenPipeError) Error() string { return "broken pipe: " + e.cause.Error() }
func (e *brokenPipeError) Unwrap() error { return e.cause }

// IsBrokenPipe reports whether err originated from a stdin write that
// failed because the child had already exited or closed its input.
func IsBrokenPipe(err error) bool {
	var bp *brokenPipeError
	return errors.As(err, &bp)
}
