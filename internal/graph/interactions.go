package graph

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// InteractionKind tags a detected interaction inside a function body.
type InteractionKind string

const (
	InteractionCall        InteractionKind = "call"
	InteractionInstantiate InteractionKind = "instantiate"
)

// Interaction is a call or instantiation found while walking a function body.
type Interaction struct {
	Kind InteractionKind
	Name string
}

// FindInteractions walks the statements of a function body block and returns
// the detected interactions in pre-order, depth-first traversal order.
//
// The traversal covers a deliberately bounded subset of syntactic forms:
// let bindings and expression statements are descended into; calls and struct
// literals are recorded only when they name a bare, unqualified identifier;
// nested blocks and both branches of an if/else chain are descended into.
// Everything else (loops, match arms, closures, method calls, operators,
// qualified paths) is not traversed, so interactions nested purely inside
// those forms are not discovered.
func FindInteractions(body *tree_sitter.Node, source []byte) []Interaction {
	var interactions []Interaction
	walkStatements(body, source, &interactions)
	return interactions
}

// walkStatements feeds each named child of a block through the statement
// rule. Trailing block expressions appear as direct children and are handled
// by the statement default case.
func walkStatements(block *tree_sitter.Node, source []byte, acc *[]Interaction) {
	for i := uint(0); i < block.NamedChildCount(); i++ {
		statementInteractions(block.NamedChild(i), source, acc)
	}
}

// statementInteractions applies the statement rule: a let binding recurses
// into its initializer, an expression statement recurses into its wrapped
// expression, and a trailing expression (a block's final expression has no
// statement wrapper) is fed to the expression rule directly. Any other
// statement kind, such as a nested item declaration, contributes nothing.
func statementInteractions(stmt *tree_sitter.Node, source []byte, acc *[]Interaction) {
	switch stmt.Kind() {
	case "let_declaration":
		if init := stmt.ChildByFieldName("value"); init != nil {
			expressionInteractions(init, source, acc)
		}
	case "expression_statement":
		if expr := stmt.NamedChild(0); expr != nil {
			expressionInteractions(expr, source, acc)
		}
	default:
		// Covers a block's trailing expression; non-expression nodes fall
		// through the expression rule untouched.
		expressionInteractions(stmt, source, acc)
	}
}

// expressionInteractions applies the expression rule. Unhandled expression
// kinds produce an empty result rather than being descended into.
func expressionInteractions(expr *tree_sitter.Node, source []byte, acc *[]Interaction) {
	switch expr.Kind() {
	case "call_expression":
		// Only calls through a bare identifier are recorded. Calls through
		// qualified paths (a::b::f), field or method access, or computed
		// callables are excluded. Arguments are not descended into.
		if fn := expr.ChildByFieldName("function"); fn != nil && fn.Kind() == "identifier" {
			*acc = append(*acc, Interaction{Kind: InteractionCall, Name: fn.Utf8Text(source)})
		}

	case "struct_expression":
		// Only struct literals whose type path is a bare identifier are
		// recorded; qualified or generic struct literals are excluded.
		if name := expr.ChildByFieldName("name"); name != nil && name.Kind() == "type_identifier" {
			*acc = append(*acc, Interaction{Kind: InteractionInstantiate, Name: name.Utf8Text(source)})
		}

	case "block":
		walkStatements(expr, source, acc)

	case "if_expression":
		if then := expr.ChildByFieldName("consequence"); then != nil {
			walkStatements(then, source, acc)
		}
		// The else clause wraps either a block or a further if expression
		// (an else-if chain), both of which the expression rule handles.
		if alt := expr.ChildByFieldName("alternative"); alt != nil {
			if inner := alt.NamedChild(0); inner != nil {
				expressionInteractions(inner, source, acc)
			}
		}
	}
}
