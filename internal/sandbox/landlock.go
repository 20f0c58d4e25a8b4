//go:build linux

package sandbox

import (
	"fmt"

	landlock "github.com/shoenig/go-landlock"
)

// libraryPaths are made read-only visible to a sandboxed child so that
// dynamically linked submissions (and interpreters/runtimes invoked by the
// language's run command) can resolve their shared libraries.
var libraryPaths = []string{"/lib", "/usr/lib", "/usr/local/lib", "/nix/store"}

// UnsupportedLandlockError is returned when the running kernel does not
// support landlock at all, since running unconfined would defeat the
// point of the sandbox.
type UnsupportedLandlockError struct{ cause error }

func (e UnsupportedLandlockError) Error() string {
	return fmt.Sprintf("kernel does not support landlock: %v", e.cause)
}

func (e UnsupportedLandlockError) Unwrap() error { return e.cause }

// restrictThread confines the calling thread to full access under dir and
// read-only access under libraryPaths, denying everything else. It must
// run in the sandboxed child between fork and exec, never in the
// parent.
//
// go-landlock's Mandatory mode already implements the "fail if the
// ruleset cannot be enforced" half of the three-way enforcement status
// a landlock caller must account for (partial proceeds with a warning,
// unsupported fails); Locking in
// Mandatory mode returns an error exactly when the kernel could not
// apply the ruleset, and succeeds (silently tolerating a partially
// enforced ABI subset) otherwise, so that single boolean is the signal
// this function surfaces.
func restrictThread(dir string) error {
	locker := landlock.New(
		landlock.RWDirs(dir),
		landlock.RODirs(libraryPaths...),
	)

	if err := locker.Lock(landlock.Mandatory); err != nil {
		return UnsupportedLandlockError{cause: err}
	}
	return nil
}
