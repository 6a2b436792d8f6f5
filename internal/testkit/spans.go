// Package testkit holds checks shared by parser and resolver tests.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"gmlsem/internal/ast"
	"gmlsem/internal/source"
)

// CheckSpans verifies the span invariants of a parsed file:
//  1. the root spans the whole of sf
//  2. every node span points at sf and lies within its content
//  3. every child span lies within its parent's span
//  4. identifiers are never empty
func CheckSpans(root *ast.File, sf *source.File) error {
	if root == nil || sf == nil {
		return fmt.Errorf("nil file")
	}
	size, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("content length: %w", err)
	}
	if sp := root.Span(); sp.File != sf.ID || sp.Start != 0 || sp.End != size {
		return fmt.Errorf("root span %v does not cover %s (%d bytes)", sp, sf.Path, size)
	}
	return checkNode(root, sf.ID, size)
}

func checkNode(n ast.Node, id source.FileID, size uint32) error {
	sp := n.Span()
	if sp.File != id {
		return fmt.Errorf("%v %v points at file %d, want %d", n.Kind(), sp, sp.File, id)
	}
	if sp.Start > sp.End || sp.End > size {
		return fmt.Errorf("%v %v is outside the content (%d bytes)", n.Kind(), sp, size)
	}
	if _, ok := n.(*ast.Ident); ok && sp.Empty() {
		return fmt.Errorf("empty identifier at %v", sp)
	}
	for _, c := range ast.Children(n) {
		cs := c.Span()
		if cs.Start < sp.Start || cs.End > sp.End {
			return fmt.Errorf("%v %v escapes its parent %v %v", c.Kind(), cs, n.Kind(), sp)
		}
		if err := checkNode(c, id, size); err != nil {
			return err
		}
	}
	return nil
}
