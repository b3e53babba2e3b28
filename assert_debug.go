//go:build ecsdebug

package ecs

// debugChecks enables the assertions that the release build compiles out:
// the map collision threshold, move bounds and traversal sanity checks.
const debugChecks = true

func assert(cond bool, kind ErrorKind, format string, args ...any) {
	if !cond {
		fatal(kind, format, args...)
	}
}
