//go:build linux

package sandbox

import (
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/net/bpf"
	"golang.org/x/sys/unix"
)

// seccompData mirrors the kernel's struct seccomp_data, the input the
// installed BPF program evaluates for every syscall the process makes.
//
//	struct seccomp_data {
//	    int    nr;                 // offset 0
//	    __u32  arch;               // offset 4
//	    __u64  instruction_pointer;// offset 8
//	    __u64  args[6];            // offset 16, 8 bytes each
//	}
const (
	offsetNR    = 0
	offsetArch  = 4
	offsetArgs0 = 16
)

// allowedSyscalls is the minimum syscall set a sandboxed child needs: process
// lifecycle, memory, stdio, fs metadata, time, scheduling, signals, and
// identity. openat is handled separately because it is argument-restricted.
var allowedSyscalls = []uintptr{
	unix.SYS_ACCESS, unix.SYS_ARCH_PRCTL, unix.SYS_BRK,
	unix.SYS_CLOCK_GETRES, unix.SYS_CLOCK_GETTIME, unix.SYS_CLONE, unix.SYS_CLONE3,
	unix.SYS_CLOSE, unix.SYS_DUP, unix.SYS_DUP2, unix.SYS_DUP3,
	unix.SYS_EPOLL_CREATE, unix.SYS_EPOLL_CREATE1, unix.SYS_EPOLL_CTL,
	unix.SYS_EPOLL_PWAIT, unix.SYS_EPOLL_WAIT,
	unix.SYS_EXECVE, unix.SYS_EXIT, unix.SYS_EXIT_GROUP,
	unix.SYS_FCNTL, unix.SYS_FSTAT, unix.SYS_FUTEX,
	unix.SYS_GETCWD, unix.SYS_GETDENTS, unix.SYS_GETDENTS64,
	unix.SYS_GETEGID, unix.SYS_GETEUID, unix.SYS_GETGID, unix.SYS_GETPGRP,
	unix.SYS_GETPID, unix.SYS_GETPPID, unix.SYS_GETRANDOM, unix.SYS_GETRLIMIT,
	unix.SYS_GETRUSAGE, unix.SYS_GETTID, unix.SYS_GETTIMEOFDAY, unix.SYS_GETUID,
	unix.SYS_IOCTL, unix.SYS_LSEEK, unix.SYS_MADVISE, unix.SYS_MMAP,
	unix.SYS_MPROTECT, unix.SYS_MREMAP, unix.SYS_MUNMAP, unix.SYS_NEWFSTATAT,
	unix.SYS_NANOSLEEP,
	unix.SYS_PIPE, unix.SYS_PIPE2, unix.SYS_POLL, unix.SYS_PPOLL,
	unix.SYS_PREAD64, unix.SYS_READ, unix.SYS_READLINK, unix.SYS_READLINKAT,
	unix.SYS_RESTART_SYSCALL, unix.SYS_RT_SIGACTION, unix.SYS_RT_SIGPROCMASK,
	unix.SYS_RT_SIGRETURN,
	unix.SYS_SCHED_GETAFFINITY, unix.SYS_SCHED_GETPARAM,
	unix.SYS_SCHED_GET_PRIORITY_MAX, unix.SYS_SCHED_GET_PRIORITY_MIN,
	unix.SYS_SCHED_GETSCHEDULER, unix.SYS_SCHED_SETSCHEDULER, unix.SYS_SCHED_YIELD,
	unix.SYS_SELECT, unix.SYS_SET_ROBUST_LIST, unix.SYS_SET_TID_ADDRESS,
	unix.SYS_SIGALTSTACK, unix.SYS_STATFS, unix.SYS_SYSINFO,
	unix.SYS_TIMER_CREATE, unix.SYS_TIMER_DELETE, unix.SYS_TIMERFD_CREATE,
	unix.SYS_TIMER_SETTIME, unix.SYS_UNAME, unix.SYS_WRITE, unix.SYS_WRITEV,
}

// allowedOpenatFlags are the only openat flag combinations permitted: all
// read-only, with or without O_CLOEXEC, plus the read-only directory-open
// idiom glibc uses internally. Anything else — notably O_WRONLY/O_CREAT —
// is denied.
var allowedOpenatFlags = []uint32{
	unix.O_RDONLY,
	unix.O_RDONLY | unix.O_CLOEXEC,
	unix.O_RDONLY | unix.O_NONBLOCK | unix.O_CLOEXEC | unix.O_DIRECTORY,
}

var (
	compileOnce  sync.Once
	compiledProg []bpf.RawInstruction
	compileErr   error
)

// compileFilter builds and memoizes the BPF program once per process.
// Every call after the first returns the cached program.
func compileFilter() ([]bpf.RawInstruction, error) {
	compileOnce.Do(func() {
		compiledProg, compileErr = assembleFilter()
	})
	return compiledProg, compileErr
}

// assembleFilter builds the classic-BPF program seccomp evaluates against
// struct seccomp_data for every syscall: a mismatched ABI (arch field) is
// killed outright before any syscall-number dispatch, unlisted syscalls
// under the native ABI return EPERM (errno=1), listed ones are allowed,
// and openat additionally checks its flags argument.
func assembleFilter() ([]bpf.RawInstruction, error) {
	var insns []bpf.Instruction

	// Reject any syscall entered through a foreign ABI (e.g. the 32-bit
	// int 0x80 or x32 entry points on amd64) before it ever reaches the
	// native-ABI syscall-number allowlist below — those entry points
	// renumber syscalls, so dispatching against offsetNR without this
	// check first would let a blocked syscall through under a different
	// number.
	insns = append(insns, bpf.LoadAbsolute{Off: offsetArch, Size: 4})
	insns = append(insns, bpf.JumpIf{
		Cond: bpf.JumpEqual, Val: auditArch,
		SkipTrue: 1, SkipFalse: 0,
	}, bpf.RetConstant{Val: seccompRetKillProcess})

	// Load the syscall number once; every comparison below reuses it.
	insns = append(insns, bpf.LoadAbsolute{Off: offsetNR, Size: 4})

	// openat is not in the generic allow-list; it gets its own
	// argument-restricted block, checked after the allow-list and just
	// before the final EPERM return.
	openatBlock := buildOpenatCheck()

	for _, nr := range allowedSyscalls {
		insns = append(insns, bpf.JumpIf{
			Cond: bpf.JumpEqual, Val: uint32(nr),
			SkipTrue: 0, SkipFalse: 1,
		}, bpf.RetConstant{Val: seccompRetAllow})
	}

	insns = append(insns, bpf.JumpIf{
		Cond: bpf.JumpEqual, Val: uint32(unix.SYS_OPENAT),
		SkipFalse: uint8(len(openatBlock)),
	})
	insns = append(insns, openatBlock...)

	insns = append(insns, bpf.RetConstant{Val: seccompRetErrnoEPERM})

	return bpf.Assemble(insns)
}

const (
	seccompRetAllow       = 0x7fff0000 // SECCOMP_RET_ALLOW
	seccompRetErrnoEPERM  = 0x00050000 | 1
	seccompRetKillProcess = 0x80000000 // SECCOMP_RET_KILL_PROCESS
)

// buildOpenatCheck loads openat's flags argument (arg index 2, low 32
// bits of args[2]) and allows it only for the flag combinations in
// allowedOpenatFlags, falling through to the caller's deny path otherwise.
func buildOpenatCheck() []bpf.Instruction {
	const argsFlagsOffset = offsetArgs0 + 2*8 // args[2], low word

	block := []bpf.Instruction{
		bpf.LoadAbsolute{Off: argsFlagsOffset, Size: 4},
	}
	for _, flags := range allowedOpenatFlags {
		block = append(block, bpf.JumpIf{
			Cond: bpf.JumpEqual, Val: flags,
			SkipTrue: 0, SkipFalse: 1,
		}, bpf.RetConstant{Val: seccompRetAllow})
	}
	// None matched: return straight to the outer deny path by falling off
	// the end of this block (caller appends RetConstant{EPERM} right
	// after it).
	return block
}

// applyFilters installs the memoized seccomp-bpf filter on the calling
// thread. Must run last in the pre-exec hook, after
// filesystem confinement and rlimits, so that the syscalls those two steps
// still need to make are not themselves filtered.
func applyFilters() error {
	prog, err := compileFilter()
	if err != nil {
		return fmt.Errorf("compile seccomp filter: %w", err)
	}

	sockFilter := make([]unix.SockFilter, len(prog))
	for i, ins := range prog {
		sockFilter[i] = unix.SockFilter{
			Code: ins.Op,
			Jt:   ins.Jt,
			Jf:   ins.Jf,
			K:    ins.K,
		}
	}
	fprog := unix.SockFprog{
		Len:    uint16(len(sockFilter)),
		Filter: &sockFilter[0],
	}

	// NO_NEW_PRIVS is required before SECCOMP_SET_MODE_FILTER can be
	// installed without CAP_SYS_ADMIN.
	if err := unix.Prctl(unix.PR_SET_NO_NEW_PRIVS, 1, 0, 0, 0); err != nil {
		return fmt.Errorf("set no_new_privs: %w", err)
	}

	if err := unix.Prctl(unix.PR_SET_SECCOMP, unix.SECCOMP_MODE_FILTER, uintptr(unsafe.Pointer(&fprog)), 0, 0); err != nil {
		return fmt.Errorf("install seccomp filter: %w", err)
	}
	return nil
}
