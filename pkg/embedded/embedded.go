// Package embedded provides embedded static assets for the application.
package embedded

import (
	"embed"
	"io/fs"
)

// Files contains all files embedded in the Go binary:
//   - templates/ - html/template pages rendered by the submission handlers
//   - static/ - stylesheet served under /static/
//
//go:embed templates static
var Files embed.FS

// Static returns the static/ subtree rooted at its own directory.
func Static() fs.FS {
	sub, err := fs.Sub(Files, "static")
	if err != nil {
		// static is embedded at build time, so this is unreachable
		panic(err)
	}
	return sub
}
