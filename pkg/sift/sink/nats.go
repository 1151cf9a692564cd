package sink

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/siftlang/sift/pkg/sift"
)

// NATSConfig configures a streaming sink, the publish-side analogue of
// the teacher's natsConfig (pkg/graft/operators/op_nats.go): URL,
// connect timeout, and reconnect attempts carried straight over, a
// subject added since this sink publishes rather than fetches.
type NATSConfig struct {
	URL     string
	Subject string
	Timeout time.Duration
	Retries int
}

// NATS publishes each diagnostic Record as its own JSON message on
// Subject, for `sift analyze --sink nats` to send results to an external
// dashboard (spec.md 6.3 / 6.8). Connection setup mirrors
// buildConnectionOptions in the teacher's own NATS operator: a timeout
// and a bounded reconnect count, nothing fancier.
type NATS struct {
	cfg  NATSConfig
	conn *nats.Conn
}

// DialNATS connects to cfg.URL, retrying cfg.Retries times before
// giving up - the same retry loop shape as
// createNatsConnectionWithRetry, minus the exponential backoff the
// teacher's fetch path needed for a long-lived read workload.
func DialNATS(cfg NATSConfig) (*NATS, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.Subject == "" {
		cfg.Subject = "sift.diagnostics"
	}

	var conn *nats.Conn
	var err error
	for attempt := 0; attempt <= cfg.Retries; attempt++ {
		conn, err = nats.Connect(cfg.URL, nats.Timeout(cfg.Timeout), nats.MaxReconnects(cfg.Retries))
		if err == nil {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("sink: connecting to NATS at %s: %w", cfg.URL, err)
	}
	return &NATS{cfg: cfg, conn: conn}, nil
}

// Write publishes every record individually, then flushes so Write
// does not return until the server has acknowledged receipt.
func (s *NATS) Write(recs []sift.Record) error {
	for _, r := range recs {
		if err := s.PublishOne(r); err != nil {
			return err
		}
	}
	return s.conn.FlushTimeout(s.cfg.Timeout)
}

// PublishOne publishes a single record without flushing; Write calls it
// once per record.
func (s *NATS) PublishOne(r sift.Record) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return s.conn.Publish(s.cfg.Subject, payload)
}

// Close closes the underlying connection without draining it.
func (s *NATS) Close() {
	s.conn.Close()
}
