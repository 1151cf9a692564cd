package baseline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/siftlang/sift/pkg/sift"
)

func TestEmptyFiltersNothing(t *testing.T) {
	b := Empty()
	recs := []sift.Record{{Fingerprint: "abc"}, {Fingerprint: "def"}}
	got := b.Filter(recs)
	if len(got) != 2 {
		t.Fatalf("expected 2 records through an empty baseline, got %d", len(got))
	}
}

func TestAcceptThenFilterSuppresses(t *testing.T) {
	b := Empty()
	b.Accept("abc")
	recs := []sift.Record{{Fingerprint: "abc"}, {Fingerprint: "def"}}
	got := b.Filter(recs)
	if len(got) != 1 || got[0].Fingerprint != "def" {
		t.Fatalf("expected only \"def\" to survive, got %+v", got)
	}
}

func TestRenderThenLoadRoundTrips(t *testing.T) {
	b := Empty()
	b.Accept("abc123")
	b.Accept("def456")

	path := filepath.Join(t.TempDir(), "baseline.yml")
	if err := Render(path, b); err != nil {
		t.Fatalf("Render: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected baseline file to exist: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	recs := []sift.Record{{Fingerprint: "abc123"}, {Fingerprint: "zzz"}}
	got := loaded.Filter(recs)
	if len(got) != 1 || got[0].Fingerprint != "zzz" {
		t.Fatalf("round trip did not suppress abc123, got %+v", got)
	}
}
