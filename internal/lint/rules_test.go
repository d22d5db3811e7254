package lint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-at-pretension-io/paint-lint/internal/ast"
)

func visit(rule Rule, node *ast.Node) *recordingSink {
	sink := &recordingSink{}
	rule.Visit(node, sink)
	return sink
}

func TestClassifier(t *testing.T) {
	t.Run("map container", func(t *testing.T) {
		_, lit := mapEntry("key", "red")
		assert.True(t, InMap(lit))
		_, ok := EnclosingCall(lit)
		assert.False(t, ok)
	})

	t.Run("call container", func(t *testing.T) {
		_, lit := call("rem", "16px")
		assert.False(t, InMap(lit))
		name, ok := EnclosingCall(lit)
		require.True(t, ok)
		assert.Equal(t, "rem", name)

		name, ok = AllowedCall(lit, NewFuncSet("rem"))
		assert.True(t, ok)
		assert.Equal(t, "rem", name)

		_, ok = AllowedCall(lit, NewFuncSet("color"))
		assert.False(t, ok)
	})

	t.Run("short ancestor chain", func(t *testing.T) {
		orphan := &ast.Node{Kind: ast.KindString, Value: "red"}
		assert.False(t, InMap(orphan))
		_, ok := EnclosingCall(orphan)
		assert.False(t, ok)

		parent := ast.New(ast.KindMap, "map", ast.Pos{})
		child := parent.Append(&ast.Node{Kind: ast.KindString, Value: "red"})
		assert.False(t, InMap(child), "direct child of a map is one level short")
	})

	t.Run("depth is fixed", func(t *testing.T) {
		// rem(1px solid): funcall > list > literal > string
		fn := ast.New(ast.KindFuncall, "funcall", ast.Pos{})
		fn.Name = "rem"
		list := fn.Append(ast.New(ast.KindOther, "list", ast.Pos{}))
		lit := literal(list, "16px")

		_, ok := EnclosingCall(lit)
		assert.False(t, ok, "a literal nested in a list is not a direct call argument")
	})
}

func TestColorRule(t *testing.T) {
	rule := NewColorRule(ColorConfig{})

	t.Run("top level keyword", func(t *testing.T) {
		_, lit := declaration("color", "red")
		sink := visit(rule, lit)
		require.Len(t, sink.messages, 1)
		assert.Equal(t, "Use color(red) or an existing palette value.", sink.messages[0])
		assert.Same(t, lit, sink.nodes[0])
	})

	t.Run("preserves original text", func(t *testing.T) {
		_, lit := declaration("color", "#FFF")
		sink := visit(rule, lit)
		require.Len(t, sink.messages, 1)
		assert.Equal(t, "Use color(#FFF) or an existing palette value.", sink.messages[0])
	})

	t.Run("allowed call", func(t *testing.T) {
		for _, fn := range DefaultColorFunctions {
			_, lit := call(fn, "red")
			assert.Empty(t, visit(rule, lit).messages, fn)
		}
	})

	t.Run("other call", func(t *testing.T) {
		_, lit := call("darken", "red")
		assert.Len(t, visit(rule, lit).messages, 1)
	})

	t.Run("map literal", func(t *testing.T) {
		_, lit := mapEntry("key", "red")
		assert.Empty(t, visit(rule, lit).messages)
	})

	t.Run("quoted word inside identifier", func(t *testing.T) {
		_, lit := declaration("--x", "'red' #{$x}")
		assert.Empty(t, visit(rule, lit).messages)
	})

	t.Run("quoted literal skipped", func(t *testing.T) {
		root := ast.New(ast.KindOther, "declaration", ast.Pos{Line: 1, Column: 1})
		lit := quoted(root, "red")
		assert.Empty(t, visit(rule, lit).messages)
	})

	t.Run("invalid hex length", func(t *testing.T) {
		_, lit := declaration("color", "#ffff")
		assert.Empty(t, visit(rule, lit).messages)
	})

	t.Run("one finding per match", func(t *testing.T) {
		_, lit := declaration("--border", "1px solid red 2px dashed #000")
		sink := visit(rule, lit)
		assert.Equal(t, []string{
			"Use color(red) or an existing palette value.",
			"Use color(#000) or an existing palette value.",
		}, sink.messages)
	})

	t.Run("custom allow list", func(t *testing.T) {
		custom := NewColorRule(ColorConfig{AllowedFunctions: []string{"palette"}})
		_, lit := call("palette", "red")
		assert.Empty(t, visit(custom, lit).messages)
		_, lit = call("color", "red")
		assert.Len(t, visit(custom, lit).messages, 1)
		assert.Equal(t, []string{"palette"}, custom.AllowedFunctions())
	})

	t.Run("empty allow list", func(t *testing.T) {
		strict := NewColorRule(ColorConfig{AllowedFunctions: []string{}})
		_, lit := call("color", "red")
		assert.Len(t, visit(strict, lit).messages, 1)
	})

	t.Run("rule properties", func(t *testing.T) {
		assert.Equal(t, "paint-color", rule.Name())
		assert.Contains(t, rule.Description(), "color")
		assert.Equal(t, []string{"color", "map-get", "map-has-key", "map-remove"}, rule.AllowedFunctions())
	})
}

func TestUnitRule(t *testing.T) {
	rule := NewUnitRule(UnitConfig{})

	t.Run("top level length", func(t *testing.T) {
		_, lit := declaration("width", "16px")
		sink := visit(rule, lit)
		require.Len(t, sink.messages, 1)
		assert.Equal(t, "Use rem(16px) or an existing gutter($size) value instead of 16px.", sink.messages[0])
	})

	t.Run("allowed call", func(t *testing.T) {
		for _, fn := range DefaultUnitFunctions {
			_, lit := call(fn, "16px")
			assert.Empty(t, visit(rule, lit).messages, fn)
		}
	})

	t.Run("map literal", func(t *testing.T) {
		_, lit := mapEntry("key", "16px")
		assert.Empty(t, visit(rule, lit).messages)
	})

	t.Run("small values exempt everywhere", func(t *testing.T) {
		for _, v := range []string{"0px", "1px", "9px", "09px"} {
			_, lit := declaration("margin", v)
			assert.Empty(t, visit(rule, lit).messages, v)
			_, lit = call("calc", v)
			assert.Empty(t, visit(rule, lit).messages, v)
		}
	})

	t.Run("threshold is inclusive", func(t *testing.T) {
		_, lit := declaration("margin", "10px")
		assert.Len(t, visit(rule, lit).messages, 1)
	})

	t.Run("custom threshold", func(t *testing.T) {
		strict := NewUnitRule(UnitConfig{MinPixels: 2})
		_, lit := declaration("margin", "4px")
		assert.Len(t, visit(strict, lit).messages, 1)
		assert.Equal(t, 2, strict.MinPixels())
		assert.Equal(t, DefaultMinPixels, NewUnitRule(UnitConfig{MinPixels: -3}).MinPixels())
	})

	t.Run("several lengths in one literal", func(t *testing.T) {
		_, lit := declaration("--pad", "4px 16px 'x 20px' 32px;")
		sink := visit(rule, lit)
		assert.Equal(t, []string{
			"Use rem(16px) or an existing gutter($size) value instead of 16px.",
			"Use rem(32px) or an existing gutter($size) value instead of 32px.",
		}, sink.messages)
	})

	t.Run("rule properties", func(t *testing.T) {
		assert.Equal(t, "paint-units", rule.Name())
		assert.Contains(t, rule.Description(), "10px")
	})
}

func TestRulesIgnoreNonIdentifierNodes(t *testing.T) {
	other := &ast.Node{Kind: ast.KindOther, Value: "red 16px"}
	assert.Empty(t, visit(NewColorRule(ColorConfig{}), other).messages)
	assert.Empty(t, visit(NewUnitRule(UnitConfig{}), other).messages)
}

type fixedScanner []Match

func (s fixedScanner) Scan(string) []Match { return s }

func TestRuleScannerOverride(t *testing.T) {
	rule := NewColorRule(ColorConfig{Scanner: fixedScanner{{Text: "brand", Kind: ColorToken}}})
	_, lit := declaration("color", "anything")
	sink := visit(rule, lit)
	require.Len(t, sink.messages, 1)
	assert.Equal(t, "Use color(brand) or an existing palette value.", sink.messages[0])
}
