// Package sink provides consumer implementations for the diagnostics
// bus (pkg/sift.Bus): stdout rendering, JSON-file capture for CI
// artifacts, and an optional NATS publisher for live dashboards. Each
// sink is just another drain over the same single-producer channel the
// core executor already publishes on - grounded on the teacher's own
// reach for NATS-adjacent fan-out, generalized here to diagnostics
// instead of merge events.
package sink

import (
	"github.com/siftlang/sift/pkg/sift"
)

// Sink consumes a finished diagnostics batch. Analyze already drains
// the bus into a []Record before a sink ever sees it, so a Sink is a
// batch consumer, not a streaming one; sink.NATS also exposes
// PublishOne for a single record (see nats.go).
type Sink interface {
	Write(recs []sift.Record) error
}
