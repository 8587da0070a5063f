// Package fs provides file-based storage for classification results.
package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/repscan"
)

// maxSuffix bounds the search for an unused file name.
const maxSuffix = 100000

// BaseName derives the result file name stem for rawURL.
// Example: https://www.example.com/news/1 → example.com
func BaseName(rawURL string) (string, error) {
	host := repscan.HostOf(rawURL)
	host = strings.ReplaceAll(host, "/", "")
	host = strings.ReplaceAll(host, `\`, "")
	if host == "" || host == "." || host == ".." {
		return "", repscan.Errorf(repscan.EINVALID, "cannot derive file name from %q", rawURL)
	}
	return host, nil
}

// FormatResult formats a classification result for storage.
func FormatResult(url, classification string) string {
	return "Link: " + url + "\n\n" + classification
}

// Ensure Sink implements repscan.ResultSink at compile time.
var _ repscan.ResultSink = (*Sink)(nil)

// Sink writes classification results as text files to a directory.
// Each call creates a new file; existing files are never overwritten.
type Sink struct {
	dir string
}

// NewSink creates a new Sink that writes to dir.
func NewSink(dir string) *Sink {
	return &Sink{dir: dir}
}

// Persist writes the result for url to <host>.txt, or to <host>N.txt with
// the smallest N >= 2 that is not taken. The content is written to a
// temporary file first and then linked into place, so a result file is
// either complete or absent.
func (s *Sink) Persist(ctx context.Context, url, classification string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	base, err := BaseName(url)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("create results directory: %w", err)
	}

	tmp, err := s.writeTemp(FormatResult(url, classification))
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp)

	for n := 1; n <= maxSuffix; n++ {
		path := filepath.Join(s.dir, candidate(base, n))
		err := os.Link(tmp, path)
		if err == nil {
			return path, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("write %s: %w", path, err)
		}
	}
	return "", repscan.Errorf(repscan.EINTERNAL, "no free file name for %s", base)
}

func (s *Sink) writeTemp(content string) (path string, err error) {
	f, err := os.CreateTemp(s.dir, ".result-*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			os.Remove(f.Name())
		}
	}()

	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(f.Name(), 0644); err != nil {
		return "", fmt.Errorf("chmod temp file: %w", err)
	}
	return f.Name(), nil
}

func candidate(base string, n int) string {
	if n == 1 {
		return base + ".txt"
	}
	return fmt.Sprintf("%s%d.txt", base, n)
}
