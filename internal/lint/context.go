package lint

import "github.com/robert-at-pretension-io/paint-lint/internal/ast"

// ContextDepth is how far above a literal its structural container sits.
//
// Both parsers wrap every literal in one value node before it reaches its
// container (map, call, list, declaration), so the container is exactly two
// levels up. This is a property of the host grammar, not a search: a literal
// nested deeper, e.g. inside a list passed to rem(), is not "in" the call.
// A new parser must re-derive this value; paint-tree prints the depth-2
// ancestor of every literal for that purpose.
const ContextDepth = 2

// InMap reports whether node's structural container is a map literal.
func InMap(node *ast.Node) bool {
	container := node.Ancestor(ContextDepth)
	return container != nil && container.Kind == ast.KindMap
}

// EnclosingCall returns the callee name when node's structural container is a
// function call.
func EnclosingCall(node *ast.Node) (string, bool) {
	container := node.Ancestor(ContextDepth)
	if container == nil {
		return "", false
	}
	switch container.Kind {
	case ast.KindFuncall:
		return container.Name, true
	default:
		return "", false
	}
}

// AllowedCall returns the callee name when node is an argument of a call whose
// name is in allowed.
func AllowedCall(node *ast.Node, allowed FuncSet) (string, bool) {
	name, ok := EnclosingCall(node)
	if !ok || !allowed.Has(name) {
		return "", false
	}
	return name, true
}
