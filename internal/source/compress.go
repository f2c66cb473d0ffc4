package source

import (
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// compressedExt reports the compression suffix of path, if any.
func compressedExt(path string) string {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".zst", ".gz", ".bz2":
		return ext
	}
	return ""
}

// formatExt is the extension that names the frame format, looking through
// one compression suffix: "match.dem.zst" gives ".dem".
func formatExt(path string) string {
	if c := compressedExt(path); c != "" {
		path = strings.TrimSuffix(path, path[len(path)-len(c):])
	}
	return strings.ToLower(filepath.Ext(path))
}

// openFile opens path, transparently decompressing zstd, gzip and bzip2
// files as demo download services ship them.
func openFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	switch compressedExt(path) {
	case ".zst":
		dec, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("zstd: %w", err)
		}
		return &stackedCloser{Reader: dec, close: func() error { dec.Close(); return f.Close() }}, nil
	case ".gz":
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("gzip: %w", err)
		}
		return &stackedCloser{Reader: gz, close: func() error { gz.Close(); return f.Close() }}, nil
	case ".bz2":
		return &stackedCloser{Reader: bzip2.NewReader(f), close: f.Close}, nil
	}
	return f, nil
}

type stackedCloser struct {
	io.Reader
	close func() error
}

func (c *stackedCloser) Close() error { return c.close() }
