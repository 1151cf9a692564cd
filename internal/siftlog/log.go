// Package siftlog provides the bare DEBUG/TRACE/WARN logging functions
// used throughout the analyzer core, gated by environment variables
// rather than a configured log level. Grounded on pkg/graft/init.go's
// package-level DEBUG/TRACE helpers wrapping a log package, generalized
// here into their own package since the original log package the
// teacher's init.go referenced isn't present in the retrieved tree.
package siftlog

import (
	"fmt"
	"os"
	"sync"

	"github.com/starkandwayne/goutils/ansi"
)

var (
	mu        sync.Mutex
	debugOn   bool
	traceOn   bool
	readOnce  sync.Once
	outWriter = os.Stderr
)

func readEnv() {
	debugOn = os.Getenv("SIFT_DEBUG") != ""
	traceOn = os.Getenv("SIFT_TRACE") != ""
	if traceOn {
		debugOn = true
	}
}

// DEBUG prints a debug-level message to stderr when SIFT_DEBUG (or
// SIFT_TRACE) is set in the environment.
func DEBUG(format string, args ...interface{}) {
	readOnce.Do(readEnv)
	mu.Lock()
	defer mu.Unlock()
	if !debugOn {
		return
	}
	fmt.Fprintf(outWriter, "%s\n", ansi.Sprintf("@y{DEBUG} "+format, args...))
}

// TRACE prints a trace-level message to stderr when SIFT_TRACE is set.
func TRACE(format string, args ...interface{}) {
	readOnce.Do(readEnv)
	mu.Lock()
	defer mu.Unlock()
	if !traceOn {
		return
	}
	fmt.Fprintf(outWriter, "%s\n", ansi.Sprintf("@c{TRACE} "+format, args...))
}

// WARN always prints, regardless of SIFT_DEBUG/SIFT_TRACE - reserved for
// conditions the user should see even in a quiet run.
func WARN(format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(outWriter, "%s\n", ansi.Sprintf("@R{WARN} "+format, args...))
}

// SetOutput redirects log output, used by tests that want to capture
// what would otherwise go to stderr.
func SetOutput(w *os.File) {
	mu.Lock()
	defer mu.Unlock()
	outWriter = w
}

// Reset forces the next DEBUG/TRACE call to re-read SIFT_DEBUG/SIFT_TRACE
// from the environment, used by tests that toggle those variables
// mid-run.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	readOnce = sync.Once{}
}
