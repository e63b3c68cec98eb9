package export

import (
	"fmt"
	"os"
	"path/filepath"
)

// Writer drops rendered documents into a target directory, creating it
// on first use.
type Writer struct {
	Dir string
}

func NewWriter(dir string) *Writer {
	return &Writer{Dir: dir}
}

func (w *Writer) Write(filename, content string) (string, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir %s: %w", w.Dir, err)
	}

	path := filepath.Join(w.Dir, filename)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
