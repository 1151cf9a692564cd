package sink

import (
	"encoding/json"
	"os"

	"github.com/siftlang/sift/pkg/sift"
)

// JSONFile writes the diagnostic stream to Path as a JSON array, one
// object per Record, for CI to archive and for `cmd/sift diff` to load
// back in via ytbx/dyff (spec.md 6.5).
type JSONFile struct {
	Path string
}

func (s JSONFile) Write(recs []sift.Record) error {
	f, err := os.Create(s.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(recs)
}
