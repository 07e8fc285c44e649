// Package web embeds the static test page skipper drops into the working
// directory on first run. Placing the embed here (next to the static/
// directory) avoids the Go toolchain restriction that //go:embed paths
// cannot use "..".
package web

import (
	"embed"
	"io/fs"
)

//go:embed static
var embedded embed.FS

// TestPageName is the file name the page is written under.
const TestPageName = "chatbot.html"

// StaticFiles is an fs.FS rooted at web/static/.
var StaticFiles, _ = fs.Sub(embedded, "static")

// TestPage returns the raw bytes of the bundled chatbot test page.
func TestPage() ([]byte, error) {
	return fs.ReadFile(StaticFiles, TestPageName)
}
