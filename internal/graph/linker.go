package graph

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// linkImpl inspects one impl block and returns a Struct IMPLEMENTS Trait
// edge when the block names a trait and its target type is a bare
// identifier. Inherent impls (no named trait) and targets that are not
// reducible to a bare identifier (generic instantiations, references,
// qualified paths) produce nothing; there is no partial linking.
func linkImpl(impl *tree_sitter.Node, source []byte, project string) *Edge {
	traitRef := impl.ChildByFieldName("trait")
	if traitRef == nil {
		return nil
	}

	typeNode := impl.ChildByFieldName("type")
	if typeNode == nil || typeNode.Kind() != "type_identifier" {
		return nil
	}

	traitName := traitSimpleName(traitRef, source)
	if traitName == "" {
		return nil
	}

	return &Edge{
		Kind:   EdgeKindImplements,
		Source: StructNode(typeNode.Utf8Text(source), project),
		Target: TraitNode(traitName, project),
	}
}

// traitSimpleName reduces a trait reference to its simple name: the last
// path segment, with generic arguments dropped. This collapses qualified
// trait references the same way Function and Struct keys collapse across
// files.
func traitSimpleName(ref *tree_sitter.Node, source []byte) string {
	switch ref.Kind() {
	case "type_identifier":
		return ref.Utf8Text(source)
	case "scoped_type_identifier":
		if name := ref.ChildByFieldName("name"); name != nil {
			return name.Utf8Text(source)
		}
		return ""
	case "generic_type":
		if inner := ref.ChildByFieldName("type"); inner != nil {
			return traitSimpleName(inner, source)
		}
		return ""
	default:
		return ""
	}
}
