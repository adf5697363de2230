//go:build !cgo

package main

import (
	"fmt"

	"github.com/dusk-indust/crategraph/internal/graph"
)

// openStore falls back to the in-memory store when the binary is built
// without cgo. Persistent databases need the KuzuDB backend.
func openStore(dbPath string) (graph.Store, error) {
	if dbPath != "" {
		return nil, fmt.Errorf("persistent database %q requires a cgo build", dbPath)
	}
	return graph.NewMemStore(), nil
}
