// Package envfile manages the .env configuration file the chatbot server
// reads on startup. Skipper writes a template on first run so the operator
// has something to fill in; an existing file is never touched.
//
// File layout (working directory):
//
//	.env — KEY=VALUE pairs loaded by both skipper and the server
package envfile

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// Name is the configuration file name, relative to the working directory.
	Name = ".env"

	// PlaceholderAPIKey is the sentinel written into the template. The
	// launcher refuses to start the server while the key still equals it.
	PlaceholderAPIKey = "your_gemini_api_key_here"

	// DefaultModel is the model identifier written into the template.
	DefaultModel = "gemini-2.5-flash"
)

// Path returns the .env path inside dir.
func Path(dir string) string {
	return filepath.Join(dir, Name)
}

// Exists reports whether dir already contains a .env file.
func Exists(dir string) bool {
	_, err := os.Stat(Path(dir))
	return err == nil
}

// WriteTemplate creates <dir>/.env with placeholder values and returns true.
// If the file already exists it is left alone and false is returned.
func WriteTemplate(dir string) (bool, error) {
	path := Path(dir)
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	content := buildTemplate()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return true, nil
}

// buildTemplate returns the KEY=VALUE content for a fresh .env.
func buildTemplate() string {
	out := "# Chatbot API configuration — created by skipper\n"
	out += "# Replace the placeholder with your real Gemini API key before starting.\n"
	out += "GOOGLE_API_KEY=" + PlaceholderAPIKey + "\n"
	out += "GEMINI_MODEL=" + DefaultModel + "\n"
	return out
}
