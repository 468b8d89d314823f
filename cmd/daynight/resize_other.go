//go:build !unix

package main

// notifyResize is a no-op where terminals do not signal size changes.
func notifyResize(func()) (stop func()) {
	return func() {}
}
