// Package web embeds the single-page UI served at the root route.
package web

import (
	"embed"
	"io/fs"
)

//go:embed index.html
var content embed.FS

// GetFS returns the embedded web assets.
func GetFS() fs.FS {
	return content
}
