//go:build cgo

package graph

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	kuzu "github.com/kuzudb/go-kuzu"
)

// KuzuStore implements the Store interface using KuzuDB as the graph backend.
// All writes use Cypher MERGE, so every upsert is idempotent: rerunning an
// index over an unchanged tree produces no net new nodes or edges.
// It requires CGO because the go-kuzu driver wraps KuzuDB's C library.
type KuzuStore struct {
	db   *kuzu.Database
	conn *kuzu.Connection
}

// Compile-time check that KuzuStore satisfies Store.
var _ Store = (*KuzuStore)(nil)

// NewKuzuStore creates a KuzuStore backed by an in-memory KuzuDB instance.
func NewKuzuStore() (*KuzuStore, error) {
	return openKuzu(":memory:")
}

// NewKuzuFileStore creates a KuzuStore backed by a file-based KuzuDB at the
// given directory path. KuzuDB creates the directory itself for new databases.
// Persistent databases make repeated runs resumable: a rerun merges into the
// existing graph without duplication.
func NewKuzuFileStore(dbPath string) (*KuzuStore, error) {
	// Ensure parent directory exists (KuzuDB creates the leaf directory).
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("kuzu: create parent directory: %w", err)
	}
	return openKuzu(dbPath)
}

func openKuzu(dbPath string) (*KuzuStore, error) {
	cfg := kuzu.DefaultSystemConfig()
	db, err := kuzu.OpenDatabase(dbPath, cfg)
	if err != nil {
		return nil, fmt.Errorf("kuzu: open database: %w", err)
	}
	conn, err := kuzu.OpenConnection(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("kuzu: open connection: %w", err)
	}
	return &KuzuStore{db: db, conn: conn}, nil
}

// Close releases the KuzuDB connection and database.
func (s *KuzuStore) Close() error {
	if s.conn != nil {
		s.conn.Close()
	}
	if s.db != nil {
		s.db.Close()
	}
	return nil
}

// ---------- Schema setup ----------

// ddlStatements defines the Cypher DDL executed by InitSchema.
// Order matters: node tables must precede relationship tables.
// Function, Struct and Trait nodes are keyed by id = project + ":" + name,
// which is what collapses same-named declarations across files.
var ddlStatements = []string{
	`CREATE NODE TABLE IF NOT EXISTS Project(
		name STRING,
		PRIMARY KEY(name)
	)`,
	`CREATE NODE TABLE IF NOT EXISTS File(
		path STRING,
		PRIMARY KEY(path)
	)`,
	`CREATE NODE TABLE IF NOT EXISTS Function(
		id STRING,
		name STRING,
		project STRING,
		PRIMARY KEY(id)
	)`,
	`CREATE NODE TABLE IF NOT EXISTS Struct(
		id STRING,
		name STRING,
		project STRING,
		PRIMARY KEY(id)
	)`,
	`CREATE NODE TABLE IF NOT EXISTS Trait(
		id STRING,
		name STRING,
		project STRING,
		PRIMARY KEY(id)
	)`,
	`CREATE REL TABLE IF NOT EXISTS CONTAINS_FILE(FROM Project TO File)`,
	`CREATE REL TABLE IF NOT EXISTS CONTAINS(
		FROM File TO Function,
		FROM File TO Struct,
		FROM File TO Trait
	)`,
	`CREATE REL TABLE IF NOT EXISTS CALLS(FROM Function TO Function)`,
	`CREATE REL TABLE IF NOT EXISTS INSTANTIATES(FROM Function TO Struct)`,
	`CREATE REL TABLE IF NOT EXISTS IMPLEMENTS(FROM Struct TO Trait)`,
}

// InitSchema creates all node and relationship tables if they do not exist.
func (s *KuzuStore) InitSchema(_ context.Context) error {
	for _, stmt := range ddlStatements {
		res, err := s.conn.Query(stmt)
		if err != nil {
			return fmt.Errorf("kuzu: init schema: %w", err)
		}
		res.Close()
	}
	return nil
}

// ---------- Write operations ----------

// kuzuTable maps a node kind to its Kuzu node table name.
func kuzuTable(kind NodeKind) (string, error) {
	switch kind {
	case NodeKindProject:
		return "Project", nil
	case NodeKindFile:
		return "File", nil
	case NodeKindFunction:
		return "Function", nil
	case NodeKindStruct:
		return "Struct", nil
	case NodeKindTrait:
		return "Trait", nil
	default:
		return "", fmt.Errorf("kuzu: unsupported node kind: %s", kind)
	}
}

// mergePattern returns the MERGE pattern for a node bound to the given
// variable, plus the parameters it references. Parameter names are prefixed
// so two patterns can coexist in one statement.
func mergePattern(v string, node Node) (string, map[string]any, error) {
	table, err := kuzuTable(node.Kind)
	if err != nil {
		return "", nil, err
	}
	switch node.Kind {
	case NodeKindProject:
		return fmt.Sprintf("MERGE (%s:Project {name: $%s_name})", v, v),
			map[string]any{v + "_name": node.Name}, nil
	case NodeKindFile:
		return fmt.Sprintf("MERGE (%s:File {path: $%s_path})", v, v),
			map[string]any{v + "_path": node.Path}, nil
	default:
		return fmt.Sprintf("MERGE (%s:%s {id: $%s_id, name: $%s_name, project: $%s_project})", v, table, v, v, v),
			map[string]any{
				v + "_id":      node.Project + ":" + node.Name,
				v + "_name":    node.Name,
				v + "_project": node.Project,
			}, nil
	}
}

// UpsertNode merges a single node.
func (s *KuzuStore) UpsertNode(_ context.Context, node Node) error {
	cypher, params, err := mergePattern("n", node)
	if err != nil {
		return err
	}
	return s.exec(cypher, params)
}

// UpsertEdge merges both endpoint nodes and the edge between them in one
// statement, so the edge can never dangle.
func (s *KuzuStore) UpsertEdge(_ context.Context, edge Edge) error {
	src, srcParams, err := mergePattern("a", edge.Source)
	if err != nil {
		return err
	}
	dst, dstParams, err := mergePattern("b", edge.Target)
	if err != nil {
		return err
	}

	cypher := src + "\n" + dst + "\n" + fmt.Sprintf("MERGE (a)-[:%s]->(b)", edge.Kind)
	params := make(map[string]any, len(srcParams)+len(dstParams))
	for k, v := range srcParams {
		params[k] = v
	}
	for k, v := range dstParams {
		params[k] = v
	}
	return s.exec(cypher, params)
}

// ---------- Read operations ----------

// QueryNodes returns nodes of the given kind whose name (path, for File
// nodes) contains nameContains, case-insensitive, up to limit results.
func (s *KuzuStore) QueryNodes(_ context.Context, kind NodeKind, nameContains string, limit int) ([]Node, error) {
	table, err := kuzuTable(kind)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 100
	}

	var cypher string
	switch kind {
	case NodeKindProject:
		cypher = `MATCH (n:Project) WHERE lower(n.name) CONTAINS lower($q)
			RETURN n.name LIMIT $lim`
	case NodeKindFile:
		cypher = `MATCH (n:File) WHERE lower(n.path) CONTAINS lower($q)
			RETURN n.path LIMIT $lim`
	default:
		cypher = fmt.Sprintf(`MATCH (n:%s) WHERE lower(n.name) CONTAINS lower($q)
			RETURN n.name, n.project LIMIT $lim`, table)
	}

	rows, err := s.query(cypher, map[string]any{"q": nameContains, "lim": int64(limit)})
	if err != nil {
		return nil, err
	}
	out := make([]Node, 0, len(rows))
	for _, r := range rows {
		out = append(out, rowToNode(kind, r))
	}
	return out, nil
}

// Neighbors returns the opposite endpoints of edges of the given kind
// touching node in the given direction.
func (s *KuzuStore) Neighbors(_ context.Context, node Node, edgeKind EdgeKind, dir Direction) ([]Node, error) {
	srcKind, dstKinds, err := edgeEndpoints(edgeKind)
	if err != nil {
		return nil, err
	}

	var out []Node
	for _, dstKind := range dstKinds {
		var anchor, other NodeKind
		switch dir {
		case DirectionOut:
			anchor, other = srcKind, dstKind
		case DirectionIn:
			anchor, other = dstKind, srcKind
		default:
			return nil, fmt.Errorf("kuzu: unknown direction: %s", dir)
		}
		if node.Kind != anchor {
			continue
		}

		aTable, err := kuzuTable(anchor)
		if err != nil {
			return nil, err
		}
		bTable, err := kuzuTable(other)
		if err != nil {
			return nil, err
		}

		match, params := anchorClause(node)
		var cypher string
		if dir == DirectionOut {
			cypher = fmt.Sprintf("MATCH (a:%s %s)-[:%s]->(b:%s) RETURN %s",
				aTable, match, edgeKind, bTable, returnClause(other))
		} else {
			cypher = fmt.Sprintf("MATCH (b:%s)-[:%s]->(a:%s %s) RETURN %s",
				bTable, edgeKind, aTable, match, returnClause(other))
		}

		rows, err := s.query(cypher, params)
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			out = append(out, rowToNode(other, r))
		}
	}
	return out, nil
}

// edgeEndpoints returns the node kinds an edge kind connects.
// CONTAINS is the only edge with more than one possible target table.
func edgeEndpoints(kind EdgeKind) (NodeKind, []NodeKind, error) {
	switch kind {
	case EdgeKindContainsFile:
		return NodeKindProject, []NodeKind{NodeKindFile}, nil
	case EdgeKindContains:
		return NodeKindFile, []NodeKind{NodeKindFunction, NodeKindStruct, NodeKindTrait}, nil
	case EdgeKindCalls:
		return NodeKindFunction, []NodeKind{NodeKindFunction}, nil
	case EdgeKindInstantiates:
		return NodeKindFunction, []NodeKind{NodeKindStruct}, nil
	case EdgeKindImplements:
		return NodeKindStruct, []NodeKind{NodeKindTrait}, nil
	default:
		return "", nil, fmt.Errorf("kuzu: unsupported edge kind: %s", kind)
	}
}

// anchorClause builds the property-match clause and parameters for the
// anchored node of a Neighbors query.
func anchorClause(node Node) (string, map[string]any) {
	switch node.Kind {
	case NodeKindProject:
		return "{name: $name}", map[string]any{"name": node.Name}
	case NodeKindFile:
		return "{path: $path}", map[string]any{"path": node.Path}
	default:
		return "{id: $id}", map[string]any{"id": node.Project + ":" + node.Name}
	}
}

// returnClause lists the columns needed to rebuild a node of the given kind.
func returnClause(kind NodeKind) string {
	switch kind {
	case NodeKindProject:
		return "b.name"
	case NodeKindFile:
		return "b.path"
	default:
		return "b.name, b.project"
	}
}

// rowToNode rebuilds a Node from a result row shaped by returnClause.
func rowToNode(kind NodeKind, r []any) Node {
	switch kind {
	case NodeKindProject:
		return ProjectNode(toString(r[0]))
	case NodeKindFile:
		return FileNode(toString(r[0]))
	default:
		return Node{Kind: kind, Name: toString(r[0]), Project: toString(r[1])}
	}
}

// GetAllEdges returns all edges across all relationship tables.
func (s *KuzuStore) GetAllEdges(_ context.Context) ([]Edge, error) {
	type relQuery struct {
		cypher  string
		kind    EdgeKind
		srcKind NodeKind
		dstKind NodeKind
	}

	queries := []relQuery{
		{"MATCH (a:Project)-[:CONTAINS_FILE]->(b:File) RETURN a.name, b.path",
			EdgeKindContainsFile, NodeKindProject, NodeKindFile},
		{"MATCH (a:File)-[:CONTAINS]->(b:Function) RETURN a.path, b.name, b.project",
			EdgeKindContains, NodeKindFile, NodeKindFunction},
		{"MATCH (a:File)-[:CONTAINS]->(b:Struct) RETURN a.path, b.name, b.project",
			EdgeKindContains, NodeKindFile, NodeKindStruct},
		{"MATCH (a:File)-[:CONTAINS]->(b:Trait) RETURN a.path, b.name, b.project",
			EdgeKindContains, NodeKindFile, NodeKindTrait},
		{"MATCH (a:Function)-[:CALLS]->(b:Function) RETURN a.name, a.project, b.name, b.project",
			EdgeKindCalls, NodeKindFunction, NodeKindFunction},
		{"MATCH (a:Function)-[:INSTANTIATES]->(b:Struct) RETURN a.name, a.project, b.name, b.project",
			EdgeKindInstantiates, NodeKindFunction, NodeKindStruct},
		{"MATCH (a:Struct)-[:IMPLEMENTS]->(b:Trait) RETURN a.name, a.project, b.name, b.project",
			EdgeKindImplements, NodeKindStruct, NodeKindTrait},
	}

	var edges []Edge
	for _, q := range queries {
		rows, err := s.query(q.cypher, nil)
		if err != nil {
			// Table may not exist yet; skip.
			continue
		}
		for _, r := range rows {
			src, rest := splitRow(q.srcKind, r)
			dst, _ := splitRow(q.dstKind, rest)
			edges = append(edges, Edge{Kind: q.kind, Source: src, Target: dst})
		}
	}
	return edges, nil
}

// splitRow consumes the leading columns of r that describe a node of the
// given kind and returns the node plus the remaining columns.
func splitRow(kind NodeKind, r []any) (Node, []any) {
	switch kind {
	case NodeKindProject:
		return ProjectNode(toString(r[0])), r[1:]
	case NodeKindFile:
		return FileNode(toString(r[0])), r[1:]
	default:
		return Node{Kind: kind, Name: toString(r[0]), Project: toString(r[1])}, r[2:]
	}
}

// ---------- Stats ----------

// Stats returns counts of all node and edge tables.
func (s *KuzuStore) Stats(_ context.Context) (*GraphStats, error) {
	projects, err := s.countTable("Project")
	if err != nil {
		return nil, err
	}
	files, err := s.countTable("File")
	if err != nil {
		return nil, err
	}
	functions, err := s.countTable("Function")
	if err != nil {
		return nil, err
	}
	structs, err := s.countTable("Struct")
	if err != nil {
		return nil, err
	}
	traits, err := s.countTable("Trait")
	if err != nil {
		return nil, err
	}
	edges, err := s.countEdges()
	if err != nil {
		return nil, err
	}
	return &GraphStats{
		ProjectCount:  projects,
		FileCount:     files,
		FunctionCount: functions,
		StructCount:   structs,
		TraitCount:    traits,
		EdgeCount:     edges,
	}, nil
}

// ---------- Internal helpers ----------

// exec runs a parameterized Cypher statement that produces no result rows.
func (s *KuzuStore) exec(cypher string, params map[string]any) error {
	stmt, err := s.conn.Prepare(cypher)
	if err != nil {
		return fmt.Errorf("kuzu: prepare: %w", err)
	}
	defer stmt.Close()

	res, err := s.conn.Execute(stmt, params)
	if err != nil {
		return fmt.Errorf("kuzu: execute: %w", err)
	}
	res.Close()
	return nil
}

// query runs a parameterized Cypher statement and collects all result rows.
// Each row is a []any slice with values in column order.
func (s *KuzuStore) query(cypher string, params map[string]any) ([][]any, error) {
	var res *kuzu.QueryResult
	var err error

	if len(params) == 0 {
		res, err = s.conn.Query(cypher)
	} else {
		var stmt *kuzu.PreparedStatement
		stmt, err = s.conn.Prepare(cypher)
		if err != nil {
			return nil, fmt.Errorf("kuzu: prepare: %w", err)
		}
		defer stmt.Close()
		res, err = s.conn.Execute(stmt, params)
	}
	if err != nil {
		return nil, fmt.Errorf("kuzu: query: %w", err)
	}
	defer res.Close()

	var rows [][]any
	for res.HasNext() {
		tuple, err := res.Next()
		if err != nil {
			return nil, fmt.Errorf("kuzu: next: %w", err)
		}
		vals, err := tuple.GetAsSlice()
		if err != nil {
			return nil, fmt.Errorf("kuzu: row values: %w", err)
		}
		rows = append(rows, vals)
	}
	return rows, nil
}

// countTable returns the number of rows in a node table.
func (s *KuzuStore) countTable(table string) (int, error) {
	// Table name is a fixed internal constant, not user input.
	cypher := fmt.Sprintf("MATCH (n:%s) RETURN count(n)", table)
	rows, err := s.query(cypher, nil)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return 0, nil
	}
	return toInt(rows[0][0]), nil
}

// countEdges returns the total number of edges across all relationship tables.
func (s *KuzuStore) countEdges() (int, error) {
	tables := []string{"CONTAINS_FILE", "CONTAINS", "CALLS", "INSTANTIATES", "IMPLEMENTS"}
	total := 0
	for _, t := range tables {
		cypher := fmt.Sprintf("MATCH ()-[r:%s]->() RETURN count(r)", t)
		rows, err := s.query(cypher, nil)
		if err != nil {
			// Table may not exist yet; treat as zero.
			continue
		}
		if len(rows) > 0 && len(rows[0]) > 0 {
			total += toInt(rows[0][0])
		}
	}
	return total, nil
}

// ---------- Type coercion helpers ----------
// KuzuDB returns typed Go values (int64, float64, bool, string).
// These helpers safely coerce any -> concrete type.

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func toInt(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case int32:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}
