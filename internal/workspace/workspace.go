// Package workspace provisions the on-disk layout the chatbot server expects
// around itself: its data directories and the static test page.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/perrydahl/skipper/web"
)

// dirs are the relative paths the server writes into. Creation is idempotent.
var dirs = []string{
	filepath.Join("backend", "vector_store"),
	filepath.Join("backend", "history"),
	filepath.Join("data", "uploaded_files"),
}

// Dirs returns the relative data directories, for display.
func Dirs() []string {
	out := make([]string, len(dirs))
	copy(out, dirs)
	return out
}

// EnsureDirs creates the data directories under root. Already-present
// directories are not an error.
func EnsureDirs(root string) error {
	for _, d := range dirs {
		path := filepath.Join(root, d)
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", path, err)
		}
	}
	return nil
}

// EnsureTestPage writes the bundled chatbot test page into root and returns
// true. An existing page is never overwritten and false is returned.
func EnsureTestPage(root string) (bool, error) {
	path := filepath.Join(root, web.TestPageName)
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	page, err := web.TestPage()
	if err != nil {
		return false, fmt.Errorf("load bundled test page: %w", err)
	}
	if err := os.WriteFile(path, page, 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return true, nil
}
