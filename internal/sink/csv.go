package sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"travel-news/internal/article"
)

// CSVSink rewrites the whole file on every Write. The new content is staged in
// a temp file next to the target and renamed over it.
type CSVSink struct {
	path string
}

func NewCSVSink(path string) *CSVSink {
	return &CSVSink{path: path}
}

func (s *CSVSink) Name() string { return "csv:" + s.path }

func (s *CSVSink) Write(_ context.Context, articles []article.Article) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".articles-*.csv")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := encodeCSV(tmp, articles); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("encode csv: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}
