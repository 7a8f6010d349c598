package outdir

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"
)

const (
	completeMarker   = ".fixturegen.complete"
	incompleteMarker = ".fixturegen.incomplete"
)

// Marker records the last batch that finished in a directory
type Marker struct {
	Timestamp time.Time `json:"timestamp"`
	RunID     string    `json:"run_id"`
	Files     int       `json:"files"`
	Failed    int       `json:"failed"`
	Bytes     int64     `json:"bytes"`
	Seed      uint64    `json:"seed"`
}

// MarkComplete writes the completion marker, replacing any incomplete one
func MarkComplete(path string, marker Marker) error {
	if marker.Timestamp.IsZero() {
		marker.Timestamp = time.Now().UTC()
	}

	data, err := json.MarshalIndent(marker, "", "  ")
	if err != nil {
		return err
	}

	os.Remove(filepath.Join(path, incompleteMarker))
	return os.WriteFile(filepath.Join(path, completeMarker), data, 0o644)
}

// MarkIncomplete marks a directory whose batch was interrupted or failed
func MarkIncomplete(path, runID, reason string) error {
	marker := map[string]interface{}{
		"timestamp": time.Now().UTC(),
		"run_id":    runID,
		"reason":    reason,
	}

	data, err := json.MarshalIndent(marker, "", "  ")
	if err != nil {
		return err
	}

	os.Remove(filepath.Join(path, completeMarker))
	return os.WriteFile(filepath.Join(path, incompleteMarker), data, 0o644)
}

// ReadMarker returns the completion marker of path, if there is one
func ReadMarker(path string) (*Marker, error) {
	data, err := os.ReadFile(filepath.Join(path, completeMarker))
	if err != nil {
		return nil, err
	}
	var marker Marker
	if err := json.Unmarshal(data, &marker); err != nil {
		return nil, err
	}
	return &marker, nil
}

// IsComplete checks whether the batch runID finished in path. An empty runID matches
// any completed batch.
func IsComplete(path, runID string) bool {
	marker, err := ReadMarker(path)
	if err != nil {
		return false
	}
	return runID == "" || marker.RunID == runID
}

// Clean removes both markers. Generated files are left alone.
func Clean(path string) error {
	var errs []error
	for _, name := range []string{completeMarker, incompleteMarker} {
		if err := os.Remove(filepath.Join(path, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// IsMarker reports whether name is one of the marker files
func IsMarker(name string) bool {
	return name == completeMarker || name == incompleteMarker
}
