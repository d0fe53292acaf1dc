// Package snapshot assembles and writes the exported location document.
package snapshot

import (
	"encoding/json"
	"os"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/locations-cli/internal/model"
)

// timeLayout matches the document's YYYY-MM-DDTHH:MM:SSZ timestamps.
const timeLayout = "2006-01-02T15:04:05Z"

// Document is the snapshot written at the end of a run: provenance,
// generation time, record count, and the full record set sorted by numeric
// id ascending.
type Document struct {
	Source      string           `json:"source"`
	GeneratedAt string           `json:"generated_at"`
	Count       int              `json:"count"`
	Locations   []model.Location `json:"locations"`
}

// Build constructs a Document from the given locations. The input slice is
// not modified; the document holds a numerically sorted copy.
func Build(source string, now time.Time, locs []model.Location) Document {
	sorted := make([]model.Location, 0, len(locs))
	sorted = append(sorted, locs...)
	model.SortByID(sorted)
	return Document{
		Source:      source,
		GeneratedAt: now.UTC().Format(timeLayout),
		Count:       len(sorted),
		Locations:   sorted,
	}
}

// Write serializes the document as indented JSON to path.
func Write(path string, doc Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return eris.Wrap(err, "snapshot: marshal")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "snapshot: write %s", path)
	}
	return nil
}
