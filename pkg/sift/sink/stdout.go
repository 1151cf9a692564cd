package sink

import (
	"io"

	"github.com/siftlang/sift/pkg/sift"
	"github.com/siftlang/sift/pkg/sift/render"
)

// Stdout writes the human-readable report to the wrapped writer -
// the default consumer `cmd/sift analyze` installs when no --sink
// flag overrides it (spec.md 4.9).
type Stdout struct {
	W io.Writer
}

func (s Stdout) Write(recs []sift.Record) error {
	render.All(s.W, recs)
	return nil
}
