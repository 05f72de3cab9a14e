// Package migrations holds the goose SQL migrations of the ClickHouse schema.
package migrations

import (
	"embed"
	"io/fs"
	"os"
)

//go:embed *.sql
var embedded embed.FS

// Source returns the filesystem goose reads migrations from. An empty dir
// selects the migrations compiled into the binary; otherwise dir is read from
// disk.
func Source(dir string) fs.FS {
	if dir == "" {
		return embedded
	}
	return os.DirFS(dir)
}
