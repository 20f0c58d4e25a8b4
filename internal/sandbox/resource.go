//go:build linux

package sandbox

import (
	"os"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/nughm3/gojudge/internal/contest"
)

// ExitStatus is a thin wrapper around the raw wait status of a sandboxed
// child, exposing just enough to classify a test result: whether
// the process exited normally and with what code, or was killed by a
// signal.
type ExitStatus struct {
	ws syscall.WaitStatus
}

// Success reports whether the child exited with status 0.
func (s ExitStatus) Success() bool {
	return s.ws.Exited() && s.ws.ExitStatus() == 0
}

// Code returns the exit code and true if the child exited normally
// (as opposed to being killed by a signal).
func (s ExitStatus) Code() (int, bool) {
	if s.ws.Exited() {
		return s.ws.ExitStatus(), true
	}
	return 0, false
}

// Signaled reports whether the child was killed by a signal.
func (s ExitStatus) Signaled() bool {
	return s.ws.Signaled()
}

// Signal returns the signal that killed the child, if Signaled is true.
func (s ExitStatus) Signal() syscall.Signal {
	return s.ws.Signal()
}

// rlimitCPUTolerance and rlimitDataTolerance push the hard rlimit just
// past the soft one, so the kernel delivers SIGKILL at the boundary
// instead of returning EAGAIN/ENOMEM to the child's own code — that gives
// the runner a clean "no exit code" signal to classify as a limit breach
// instead of an ambiguous partial failure inside the submission.
const (
	rlimitCPUTolerance  uint64 = 1
	rlimitDataTolerance uint64 = 1000
)

// ResourceUsage is the resource accounting gathered from a terminated
// child: user and system CPU time, and peak resident memory.
type ResourceUsage struct {
	UserTime    time.Duration
	SysTime     time.Duration
	MemoryBytes uint64
}

// TotalTime is the combined user+system CPU time charged against the
// cpu_seconds rlimit.
func (r ResourceUsage) TotalTime() time.Duration {
	return r.UserTime + r.SysTime
}

// applyResourceLimits sets the CPU-time and address-space rlimits for the
// calling process (meant to run between re-exec and the target exec, in
// the trampoline).
func applyResourceLimits(limits contest.ResourceLimits) error {
	if err := unix.Setrlimit(unix.RLIMIT_CPU, &unix.Rlimit{
		Cur: limits.CPUSeconds,
		Max: limits.CPUSeconds + rlimitCPUTolerance,
	}); err != nil {
		return err
	}
	return unix.Setrlimit(unix.RLIMIT_AS, &unix.Rlimit{
		Cur: limits.MemoryBytes,
		Max: limits.MemoryBytes + rlimitDataTolerance,
	})
}

// ExitStatusFromProcessState extracts the raw wait status from a process
// state reaped by cmd.Wait(). os/exec guarantees Sys() is a
// syscall.WaitStatus on unix.
func ExitStatusFromProcessState(ps *os.ProcessState) ExitStatus {
	return ExitStatus{ws: ps.Sys().(syscall.WaitStatus)}
}

// ResourceUsageFromProcessState extracts CPU time and peak RSS from the
// rusage struct os/exec populates on cmd.Wait(), rather than calling wait4
// directly ourselves — exec.Cmd already owns the wait() call that reaps the
// child (it also joins the goroutines copying stdout/stderr), so
// duplicating it with our own wait4 would race that internal bookkeeping.
func ResourceUsageFromProcessState(ps *os.ProcessState) ResourceUsage {
	ru := ps.SysUsage().(*syscall.Rusage)
	return ResourceUsage{
		UserTime:    timevalToDuration(ru.Utime),
		SysTime:     timevalToDuration(ru.Stime),
		MemoryBytes: uint64(ru.Maxrss) * 1024, // ru_maxrss is reported in KB on Linux
	}
}

func timevalToDuration(tv syscall.Timeval) time.Duration {
	return time.Duration(tv.Sec)*time.Second + time.Duration(tv.Usec)*time.Microsecond
}
