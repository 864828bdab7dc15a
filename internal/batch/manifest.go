package batch

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// ManifestEntry represents one input in the output manifest.
type ManifestEntry struct {
	Source   string `json:"source"`
	Target   string `json:"target,omitempty"`
	Sidecar  string `json:"sidecar,omitempty"`
	Objects  int    `json:"objects"`
	Vertices int    `json:"vertices"`
	Faces    int    `json:"faces"`
	Error    string `json:"error,omitempty"`
}

// WriteManifest writes the results of a run as indented JSON to path.
// Failed inputs carry their error and no target.
func WriteManifest(path string, results []Result) error {
	entries := make([]ManifestEntry, len(results))
	for i, r := range results {
		entries[i] = ManifestEntry{
			Source:   r.Source,
			Objects:  r.Objects,
			Vertices: r.Vertices,
			Faces:    r.Faces,
			Error:    r.Error,
		}
		if r.Success {
			entries[i].Target = r.Target
			entries[i].Sidecar = r.Sidecar
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return errors.Wrap(err, "batch: encode manifest")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, "batch: create %s", filepath.Dir(path))
	}
	return errors.Wrapf(os.WriteFile(path, data, 0644), "batch: write %s", path)
}
