package graph

// --- Enums ---

// NodeKind classifies nodes in the crate graph.
type NodeKind string

const (
	NodeKindProject  NodeKind = "project"
	NodeKindFile     NodeKind = "file"
	NodeKindFunction NodeKind = "function"
	NodeKindStruct   NodeKind = "struct"
	NodeKindTrait    NodeKind = "trait"
)

// EdgeKind classifies relationships between nodes.
type EdgeKind string

const (
	EdgeKindContainsFile EdgeKind = "CONTAINS_FILE" // Project -> File
	EdgeKindContains     EdgeKind = "CONTAINS"      // File -> Function | Struct | Trait
	EdgeKindCalls        EdgeKind = "CALLS"         // Function -> Function
	EdgeKindInstantiates EdgeKind = "INSTANTIATES"  // Function -> Struct
	EdgeKindImplements   EdgeKind = "IMPLEMENTS"    // Struct -> Trait
)

// --- Models ---

// Node is one graph entity together with its identifying key fields.
// Project and File nodes are keyed by Name and Path respectively; Function,
// Struct and Trait nodes are keyed by (Name, Project). Declarations sharing
// a name within a project collapse to a single node regardless of the file
// they appear in.
type Node struct {
	Kind    NodeKind `json:"kind"`
	Name    string   `json:"name,omitempty"`
	Path    string   `json:"path,omitempty"`
	Project string   `json:"project,omitempty"`
}

// Key returns the composite identity of the node. Re-upserting a node with
// the same key is a no-op merge.
func (n Node) Key() string {
	if n.Kind == NodeKindFile {
		return string(n.Kind) + ":" + n.Path
	}
	return string(n.Kind) + ":" + n.Project + ":" + n.Name
}

// ProjectNode builds a Project node.
func ProjectNode(name string) Node {
	return Node{Kind: NodeKindProject, Name: name}
}

// FileNode builds a File node.
func FileNode(path string) Node {
	return Node{Kind: NodeKindFile, Path: path}
}

// FunctionNode builds a Function node scoped to a project.
func FunctionNode(name, project string) Node {
	return Node{Kind: NodeKindFunction, Name: name, Project: project}
}

// StructNode builds a Struct node scoped to a project.
func StructNode(name, project string) Node {
	return Node{Kind: NodeKindStruct, Name: name, Project: project}
}

// TraitNode builds a Trait node scoped to a project.
func TraitNode(name, project string) Node {
	return Node{Kind: NodeKindTrait, Name: name, Project: project}
}

// Edge is a directed relationship between two nodes. Both endpoints carry
// their full key fields so a sink can upsert them together with the edge.
type Edge struct {
	Kind   EdgeKind `json:"kind"`
	Source Node     `json:"source"`
	Target Node     `json:"target"`
}

// Key returns the composite identity of the edge, used by sinks that
// deduplicate edges themselves.
func (e Edge) Key() string {
	return string(e.Kind) + "|" + e.Source.Key() + "|" + e.Target.Key()
}

// GraphStats summarizes an indexed crate graph.
type GraphStats struct {
	ProjectCount  int `json:"projectCount"`
	FileCount     int `json:"fileCount"`
	FunctionCount int `json:"functionCount"`
	StructCount   int `json:"structCount"`
	TraitCount    int `json:"traitCount"`
	EdgeCount     int `json:"edgeCount"`
}
