//go:build linux

package sandbox

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"syscall"

	"github.com/nughm3/gojudge/internal/contest"
)

// trampolineArg is the hidden argv[1] that tells a re-exec'd gojudge
// process "you are the sandboxed child; apply confinement then exec the
// real target" instead of running the CLI.
//
// Go's exec.Cmd has no equivalent of a pre-exec hook that runs arbitrary
// code between fork() and execve() in the child: the Go runtime
// multiplexes goroutines onto OS threads, so calling back into Go code
// right after a raw fork() (before exec) is unsafe — only the forking
// thread survives, and the Go scheduler, GC, and most of the standard
// library assume a full runtime. The standard idiom Go programs reach for
// instead (docker/libcontainer, runc, and Kubernetes' nsenter machinery
// all do this) is to re-exec the same binary via /proc/self/exe with a
// hidden trampoline subcommand: the new process image starts completely
// fresh, applies confinement with ordinary Go code, then calls
// syscall.Exec to become the real target: confine, then rlimit, then
// seccomp, all strictly before the submission's own code can run.
const trampolineArg = "__gojudge_sandbox_trampoline__"

// MaybeRunTrampoline must be the first statement in func main(). If the
// process was re-exec'd as a sandbox trampoline it applies confinement
// and execs the real target, never returning. Otherwise it returns
// immediately so the caller's normal CLI startup proceeds.
func MaybeRunTrampoline() {
	if len(os.Args) < 2 || os.Args[1] != trampolineArg {
		return
	}
	os.Exit(runTrampoline(os.Args[2:]))
}

func runTrampoline(args []string) int {
	// Landlock, no_new_privs and the seccomp filter apply to the calling
	// thread, so pin this goroutine to one OS thread until syscall.Exec.
	runtime.LockOSThread()

	if len(args) < 4 {
		fmt.Fprintln(os.Stderr, "gojudge sandbox trampoline: missing arguments")
		return 1
	}

	dir := args[0]
	profile := Profile(mustAtoi(args[1]))
	cpuSeconds := mustParseUint(args[2])
	memoryBytes := mustParseUint(args[3])
	target := args[4:]

	if len(target) == 0 {
		fmt.Fprintln(os.Stderr, "gojudge sandbox trampoline: missing target command")
		return 1
	}

	limits := contest.ResourceLimits{CPUSeconds: cpuSeconds, MemoryBytes: memoryBytes}
	if err := applyProfile(dir, limits, profile); err != nil {
		fmt.Fprintf(os.Stderr, "gojudge sandbox trampoline: %v\n", err)
		return 1
	}

	path, err := lookPathIn(dir, target[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "gojudge sandbox trampoline: %v\n", err)
		return 1
	}

	// syscall.Exec replaces this process image in place; on success it
	// never returns to this function.
	if err := syscall.Exec(path, target, os.Environ()); err != nil {
		fmt.Fprintf(os.Stderr, "gojudge sandbox trampoline: exec %s: %v\n", path, err)
		return 1
	}
	return 0
}

// lookPathIn resolves the executable to exec: absolute paths are used
// as-is, paths relative to the scratch directory (a freshly built binary)
// are joined against dir, and anything else falls back to a PATH search.
// The confined process can only actually read/execute a path that falls
// under the scratch directory or one of the read-only library/toolchain
// paths landlock allows; a language's run command is expected to
// resolve under one of those, typically a Nix store path for non-scratch
// binaries.
func lookPathIn(dir, name string) (string, error) {
	if filepath.IsAbs(name) {
		return name, nil
	}
	if candidate := filepath.Join(dir, name); fileExists(candidate) {
		return candidate, nil
	}
	return exec.LookPath(name)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func mustAtoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func mustParseUint(s string) uint64 {
	n, _ := strconv.ParseUint(s, 10, 64)
	return n
}
