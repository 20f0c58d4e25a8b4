//go:build linux && arm64

package sandbox

// auditArch is AUDIT_ARCH_AARCH64 from linux/audit.h: the value the
// kernel places in seccomp_data.arch for a native aarch64 syscall.
const auditArch = 0xc00000b7
