// Package assert implements the engine's fatal-invariant checks.
//
// The core is assertion-heavy by design (see the error handling notes in
// SPEC_FULL.md): shape mismatches, arena exhaustion, and unsupported
// backward passes are programming errors, not recoverable conditions, so
// they panic rather than returning an error. The panic value matches the
// "ASSERT: file:line: expr" text callers of this kind of engine expect to
// see on stderr before a crash.
package assert

import (
	"fmt"
	"runtime"
)

// Require panics with a formatted assertion message when cond is false.
func Require(cond bool, format string, args ...any) {
	if cond {
		return
	}
	_, file, line, ok := runtime.Caller(1)
	if !ok {
		file, line = "unknown", 0
	}
	panic(fmt.Sprintf("ASSERT: %s:%d: %s", file, line, fmt.Sprintf(format, args...)))
}
