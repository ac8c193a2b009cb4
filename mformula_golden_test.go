package mformula

import (
	"fmt"
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/halvorsen/mformula/internal/marena"
)

// dumpTree renders a XOR-node tree as an indented transcript: kind name,
// token range for AST nodes, and raw token data for leaves. Golden tests
// below snapshot this transcript the way CWBudde-go-dws snapshots its
// fixture output, giving the engines' scenario shapes (spec.md §8) a
// regression net beyond the one-assertion-at-a-time tests in
// internal/mparse and internal/mlex.
func dumpTree(arena *marena.Arena, id marena.NodeId, depth int, sb *strings.Builder) {
	node, ok := arena.MaybeXor(id)
	if !ok {
		fmt.Fprintf(sb, "%s<missing %d>\n", strings.Repeat("  ", depth), id)
		return
	}
	indent := strings.Repeat("  ", depth)
	if ast, isAst := node.AsAst(); isAst {
		if ast.Token != nil {
			fmt.Fprintf(sb, "%s%s %q [%d,%d)\n", indent, node.Kind.Name(), ast.Token.Data, ast.TokenRange[0], ast.TokenRange[1])
		} else {
			fmt.Fprintf(sb, "%s%s [%d,%d)\n", indent, node.Kind.Name(), ast.TokenRange[0], ast.TokenRange[1])
		}
		for _, childId := range ast.ChildIds {
			dumpTree(arena, childId, depth+1, sb)
		}
		return
	}
	ctx, _ := node.AsContext()
	fmt.Fprintf(sb, "%s%s (incomplete)\n", indent, node.Kind.Name())
	for _, childId := range ctx.ChildIds {
		dumpTree(arena, childId, depth+1, sb)
	}
}

func transcript(t *testing.T, text string) string {
	t.Helper()
	outcome, err := TryLexAndParse(text, Settings{})
	var sb strings.Builder
	if err != nil {
		fmt.Fprintf(&sb, "error: %v\n", err)
	}
	if outcome != nil && outcome.Arena != nil {
		if outcome.HasRoot {
			dumpTree(outcome.Arena, outcome.RootId, 0, &sb)
		} else if root, ok := outcome.Arena.RootId(); ok {
			dumpTree(outcome.Arena, root, 0, &sb)
		}
	}
	return sb.String()
}

// TestGoldenScenarios snapshots the full parse transcript for each named
// scenario in spec.md §8, including S4's partial tree left behind by an
// unterminated list expression.
func TestGoldenScenarios(t *testing.T) {
	scenarios := []struct {
		name string
		text string
	}{
		{"S1_literal", "1"},
		{"S2_is_chain", "1 is number is number"},
		{"S3_let_scope", "let x = 1, y = x + 1 in y"},
		{"S4_unterminated_list", "{ 1, 2, "},
	}
	for _, sc := range scenarios {
		t.Run(sc.name, func(t *testing.T) {
			snaps.MatchSnapshot(t, transcript(t, sc.text))
		})
	}
}
