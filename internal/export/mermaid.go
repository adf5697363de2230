package export

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/dusk-indust/crategraph/internal/graph"
)

// GenerateMermaid produces a Mermaid graph TD diagram from a graph store.
// Functions, structs and traits become nodes; CALLS, INSTANTIATES and
// IMPLEMENTS edges become labeled arrows. Containment edges are omitted to
// keep diagrams readable.
func GenerateMermaid(ctx context.Context, store graph.Store) (string, error) {
	edges, err := store.GetAllEdges(ctx)
	if err != nil {
		return "", fmt.Errorf("get edges: %w", err)
	}

	// Build node → ID mapping for Mermaid (alphanumeric only).
	nodeIDs := make(map[string]string)
	nextID := 0
	getID := func(key string) string {
		if id, ok := nodeIDs[key]; ok {
			return id
		}
		id := fmt.Sprintf("N%d", nextID)
		nextID++
		nodeIDs[key] = id
		return id
	}

	// Sort edges for deterministic output.
	sorted := make([]graph.Edge, len(edges))
	copy(sorted, edges)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Key() < sorted[j].Key() })

	var sb strings.Builder
	sb.WriteString("graph TD\n")

	seen := make(map[string]bool)
	declare := func(n graph.Node) string {
		id := getID(n.Key())
		if !seen[id] {
			seen[id] = true
			sb.WriteString(fmt.Sprintf("  %s[\"%s %s\"]\n", id, n.Kind, n.Name))
		}
		return id
	}

	for _, e := range sorted {
		var arrow string
		switch e.Kind {
		case graph.EdgeKindCalls:
			arrow = "-->|calls|"
		case graph.EdgeKindInstantiates:
			arrow = "-->|instantiates|"
		case graph.EdgeKindImplements:
			arrow = "-.->|implements|"
		default:
			continue
		}
		srcID := declare(e.Source)
		tgtID := declare(e.Target)
		sb.WriteString(fmt.Sprintf("  %s %s %s\n", srcID, arrow, tgtID))
	}

	return sb.String(), nil
}
