// Package assets stages local files as upload payloads: glob-based
// collection for batches, and tar+zstd bundling for directory drops.
package assets

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/docker/go-units"
)

// Payload is one file staged for upload.
type Payload struct {
	// Path is the file's path relative to the collection root.
	Path string
	Data []byte
}

// Collect gathers the files under root matching any of the doublestar
// patterns (e.g. "images/**/*.png") and loads them into memory. Matches are
// deduplicated and returned sorted by path, so the batch order is stable
// across runs.
func Collect(root string, patterns []string, logger log.Logger) ([]Payload, error) {
	if logger == nil {
		logger = log.NewLogger()
	}

	fsys := os.DirFS(root)
	matched := make(map[string]bool)
	for _, pattern := range patterns {
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", pattern, err)
		}
		for _, match := range matches {
			matched[match] = true
		}
	}

	paths := make([]string, 0, len(matched))
	for path := range matched {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var payloads []Payload
	var totalBytes int
	for _, path := range paths {
		info, err := fs.Stat(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		if info.IsDir() {
			continue
		}

		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(path)))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		payloads = append(payloads, Payload{Path: path, Data: data})
		totalBytes += len(data)
	}

	logger.Debugf("Collected %d files (%s) under %s",
		len(payloads), units.HumanSize(float64(totalBytes)), root)
	return payloads, nil
}

// Data returns just the payload bytes, in collection order, ready for
// a batch upload.
func Data(payloads []Payload) [][]byte {
	out := make([][]byte, len(payloads))
	for i, payload := range payloads {
		out[i] = payload.Data
	}
	return out
}
