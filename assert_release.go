//go:build !ecsdebug

package ecs

const debugChecks = false

func assert(bool, ErrorKind, string, ...any) {}
