//go:build linux && amd64

package sandbox

// auditArch is AUDIT_ARCH_X86_64 from linux/audit.h: the value the kernel
// places in seccomp_data.arch for a native 64-bit x86 syscall. A process
// entering a syscall through the 32-bit (int 0x80) or x32 ABI reports a
// different value here, which the installed filter must reject outright
// rather than dispatch against the native-ABI syscall-number allowlist.
const auditArch = 0xc000003e
