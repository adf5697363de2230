//go:build cgo

package main

import "github.com/dusk-indust/crategraph/internal/graph"

// openStore returns a file-backed KuzuDB store at dbPath, or an
// in-memory KuzuDB instance when dbPath is empty.
func openStore(dbPath string) (graph.Store, error) {
	if dbPath == "" {
		return graph.NewKuzuStore()
	}
	return graph.NewKuzuFileStore(dbPath)
}
