package graph

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// Extractor turns one parsed file's top-level declarations into graph edge
// records. It performs no I/O and touches no shared state; the indexer
// forwards its output to a Store.
type Extractor struct {
	project string
}

// NewExtractor creates an Extractor scoped to the given project. All named
// entities it emits are keyed (name, project).
func NewExtractor(project string) *Extractor {
	return &Extractor{project: project}
}

// ExtractFile walks the top-level declarations of a parsed file in source
// order and emits one containment edge per handled declaration, plus the
// interaction and implementation edges derived from it. Each edge carries
// full node keys, so upserting the edges also upserts every entity.
//
// Handled declarations: functions, structs, traits and impl blocks. All
// other top-level kinds (modules, enums, constants, type aliases, use
// imports, macro invocations) are deliberately not modeled.
func (e *Extractor) ExtractFile(file *ParsedFile) []Edge {
	fileNode := FileNode(file.Path)
	var edges []Edge

	root := file.Root()
	for i := uint(0); i < root.NamedChildCount(); i++ {
		decl := root.NamedChild(i)
		switch decl.Kind() {
		case "function_item":
			name := declName(decl, file.Source)
			if name == "" {
				continue
			}
			fn := FunctionNode(name, e.project)
			edges = append(edges, Edge{Kind: EdgeKindContains, Source: fileNode, Target: fn})
			edges = append(edges, e.interactionEdges(fn, decl, file.Source)...)

		case "struct_item":
			name := declName(decl, file.Source)
			if name == "" {
				continue
			}
			edges = append(edges, Edge{
				Kind:   EdgeKindContains,
				Source: fileNode,
				Target: StructNode(name, e.project),
			})

		case "trait_item":
			name := declName(decl, file.Source)
			if name == "" {
				continue
			}
			edges = append(edges, Edge{
				Kind:   EdgeKindContains,
				Source: fileNode,
				Target: TraitNode(name, e.project),
			})

		case "impl_item":
			// Impl blocks get no containment edge of their own; they only
			// contribute an IMPLEMENTS edge when the linker accepts them.
			if edge := linkImpl(decl, file.Source, e.project); edge != nil {
				edges = append(edges, *edge)
			}
		}
	}
	return edges
}

// interactionEdges resolves the interactions in a function's body and turns
// them into CALLS and INSTANTIATES edges originating at fn.
func (e *Extractor) interactionEdges(fn Node, decl *tree_sitter.Node, source []byte) []Edge {
	body := decl.ChildByFieldName("body")
	if body == nil {
		return nil
	}

	var edges []Edge
	for _, in := range FindInteractions(body, source) {
		switch in.Kind {
		case InteractionCall:
			edges = append(edges, Edge{
				Kind:   EdgeKindCalls,
				Source: fn,
				Target: FunctionNode(in.Name, e.project),
			})
		case InteractionInstantiate:
			edges = append(edges, Edge{
				Kind:   EdgeKindInstantiates,
				Source: fn,
				Target: StructNode(in.Name, e.project),
			})
		}
	}
	return edges
}

// declName reads the text of a declaration's "name" field child.
func declName(decl *tree_sitter.Node, source []byte) string {
	name := decl.ChildByFieldName("name")
	if name == nil {
		return ""
	}
	return name.Utf8Text(source)
}
