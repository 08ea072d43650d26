// Package assets embeds the fallback word list and the SQLite migrations.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed words.txt sql/*.sql
var FS embed.FS

// Words returns the embedded fallback word list as raw text.
func Words() ([]byte, error) {
	return FS.ReadFile("words.txt")
}

// Migrations returns the embedded sql directory, rooted so entries are bare file names.
func Migrations() (fs.FS, error) {
	return fs.Sub(FS, "sql")
}
