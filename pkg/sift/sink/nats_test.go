package sink

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"

	"github.com/siftlang/sift/pkg/sift"
)

// startTestNATSServer boots an embedded, randomly-ported NATS server
// for the duration of one test, the same embedded-server pattern the
// teacher's op_nats_test.go uses (minus JetStream, which this sink
// never needs - plain publish/subscribe is enough for a diagnostics
// stream).
func startTestNATSServer(t *testing.T) string {
	t.Helper()
	opts := &server.Options{Port: -1}
	ns, err := server.NewServer(opts)
	if err != nil {
		t.Fatalf("starting embedded NATS server: %v", err)
	}
	ns.Start()
	if !ns.ReadyForConnections(5 * time.Second) {
		t.Fatal("embedded NATS server never became ready")
	}
	t.Cleanup(ns.Shutdown)
	return ns.ClientURL()
}

func TestNATSWritePublishesEachRecord(t *testing.T) {
	url := startTestNATSServer(t)

	sub, err := nats.Connect(url)
	if err != nil {
		t.Fatalf("subscriber connect: %v", err)
	}
	defer sub.Close()

	received := make(chan *nats.Msg, 4)
	if _, err := sub.ChanSubscribe("sift.diagnostics", received); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	s, err := DialNATS(NATSConfig{URL: url, Subject: "sift.diagnostics", Retries: 2})
	if err != nil {
		t.Fatalf("DialNATS: %v", err)
	}
	defer s.Close()

	recs := []sift.Record{
		{Kind: sift.KindIdentifierUnsafe, Severity: sift.SeverityWarning, Message: "x may be unbound"},
		{Kind: sift.KindTypeUnsafe, Severity: sift.SeverityWarning, Message: "y is polymorphic"},
	}
	if err := s.Write(recs); err != nil {
		t.Fatalf("Write: %v", err)
	}

	for i, want := range recs {
		select {
		case msg := <-received:
			var got struct {
				Kind    string `json:"kind"`
				Message string `json:"message"`
			}
			if err := json.Unmarshal(msg.Data, &got); err != nil {
				t.Fatalf("record %d: unmarshal: %v", i, err)
			}
			if got.Kind != want.Kind || got.Message != want.Message {
				t.Fatalf("record %d: got %+v, want kind=%s message=%s", i, got, want.Kind, want.Message)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("record %d: timed out waiting for publish", i)
		}
	}
}
