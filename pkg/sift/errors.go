package sift

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorKind categorizes an analyzer fault - a bug in the core or its input,
// never a fact about the analyzed program (those are diagnostics.Record
// values, published on the bus; see diagnostics.go). Grounded on
// pkg/graft/errors.go's ErrorType/GraftError taxonomy.
type ErrorKind string

const (
	// LoadError indicates a malformed AST: a missing required field, an
	// unknown node kind, a corrupt node-id reference.
	LoadError ErrorKind = "load_error"
	// InvariantError indicates a core invariant was violated: an empty
	// frame stack where one was required, a dangling address, a cyclic
	// pointer chain.
	InvariantError ErrorKind = "invariant_error"
	// ConfigError indicates invalid analyzer configuration.
	ConfigError ErrorKind = "config_error"
	// InternalError is a catch-all for conditions that should be
	// unreachable given the above.
	InternalError ErrorKind = "internal_error"
)

// SiftError is the analyzer-fault error type (spec.md 7): malformed AST,
// impossible path, corrupt pointer chain. Executors never return these for
// program-under-analysis faults - those become diagnostic records instead.
// Grounded on pkg/graft/errors.go's GraftError.
type SiftError struct {
	Kind    ErrorKind
	Message string
	Path    string
	Cause   error
}

func (e *SiftError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s at %s: %s", e.Kind, e.Path, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the wrapped cause for errors.Is/As.
func (e *SiftError) Unwrap() error {
	return e.Cause
}

// NewLoadError builds a LoadError.
func NewLoadError(message string, cause error) *SiftError {
	return &SiftError{Kind: LoadError, Message: message, Cause: cause}
}

// NewInvariantError builds an InvariantError with path context.
func NewInvariantError(path, message string) *SiftError {
	return &SiftError{Kind: InvariantError, Message: message, Path: path}
}

// NewConfigError builds a ConfigError.
func NewConfigError(message string) *SiftError {
	return &SiftError{Kind: ConfigError, Message: message}
}

// IsSiftError reports whether err is, or wraps, a *SiftError - an
// analyzer fault rather than a plain CLI/IO error - so callers several
// fmt.Errorf("...: %w", err) layers removed can still tell them apart.
func IsSiftError(err error) bool {
	var se *SiftError
	return errors.As(err, &se)
}

// MultiError aggregates independent errors, rendering them sorted for
// deterministic output. Grounded on pkg/graft/errors.go's MultiError.
type MultiError struct {
	Errors []error
}

func (e MultiError) Error() string {
	lines := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		lines = append(lines, fmt.Sprintf(" - %s", err))
	}
	sort.Strings(lines)
	return fmt.Sprintf("%d error(s) detected:\n%s\n", len(e.Errors), strings.Join(lines, "\n"))
}

// Append adds err to the set, flattening a nested MultiError.
func (e *MultiError) Append(err error) {
	if err == nil {
		return
	}
	if m, ok := err.(MultiError); ok {
		e.Errors = append(e.Errors, m.Errors...)
		return
	}
	e.Errors = append(e.Errors, err)
}

// Count returns the number of aggregated errors.
func (e *MultiError) Count() int {
	return len(e.Errors)
}

// OrNil returns e as an error if it has any entries, else nil - the usual
// "return aggregated.OrNil()" idiom at the end of a loading pass.
func (e MultiError) OrNil() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// Unwrap exposes the aggregated errors to errors.Is and errors.As.
func (e MultiError) Unwrap() []error {
	return e.Errors
}
