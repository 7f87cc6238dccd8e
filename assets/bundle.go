package assets

import (
	"archive/tar"
	"bytes"
	"fmt"
	"time"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/klauspost/compress/zstd"
)

// Bundle collects the matching files and packs them into a single
// zstd-compressed tarball payload, for callers that want one pinned object
// per drop instead of one per file. Header timestamps are zeroed so the same
// input always produces the same bytes (and therefore the same CID).
func Bundle(root string, patterns []string, logger log.Logger) (*Payload, error) {
	payloads, err := Collect(root, patterns, logger)
	if err != nil {
		return nil, err
	}
	if len(payloads) == 0 {
		return nil, fmt.Errorf("no files matched under %s", root)
	}

	var buf bytes.Buffer
	zw, err := zstd.NewWriter(&buf)
	if err != nil {
		return nil, fmt.Errorf("create zstd writer: %w", err)
	}
	tw := tar.NewWriter(zw)

	for _, payload := range payloads {
		header := &tar.Header{
			Name:    payload.Path,
			Mode:    0644,
			Size:    int64(len(payload.Data)),
			ModTime: time.Time{},
		}
		if err := tw.WriteHeader(header); err != nil {
			return nil, fmt.Errorf("write tar header for %s: %w", payload.Path, err)
		}
		if _, err := tw.Write(payload.Data); err != nil {
			return nil, fmt.Errorf("write tar entry for %s: %w", payload.Path, err)
		}
	}

	if err := tw.Close(); err != nil {
		return nil, fmt.Errorf("close tar writer: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close zstd writer: %w", err)
	}

	return &Payload{Path: "bundle.tar.zst", Data: buf.Bytes()}, nil
}
