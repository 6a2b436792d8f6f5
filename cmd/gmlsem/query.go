package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"gmlsem/internal/project"
	"gmlsem/internal/source"
)

var refsCmd = &cobra.Command{
	Use:   "refs [flags] <file.gml> <line:col>",
	Short: "List every reference to the symbol at a position",
	Args:  cobra.ExactArgs(2),
	RunE:  runRefs,
}

var scopeCmd = &cobra.Command{
	Use:   "scope [flags] <file.gml> <line:col>",
	Short: "List the symbols visible at a position",
	Args:  cobra.ExactArgs(2),
	RunE:  runScope,
}

func init() {
	for _, c := range []*cobra.Command{refsCmd, scopeCmd} {
		c.Flags().String("project", "", "project .yyp or directory (default: found from the file)")
	}
	scopeCmd.Flags().Bool("builtins", false, "include runtime builtins")
}

// parsePosition reads "line:col", both 1-based.
func parsePosition(s string) (source.LineCol, error) {
	l, c, ok := strings.Cut(s, ":")
	line, err1 := strconv.ParseUint(l, 10, 32)
	col, err2 := strconv.ParseUint(c, 10, 32)
	if !ok || err1 != nil || err2 != nil || line == 0 || col == 0 {
		return source.LineCol{}, fmt.Errorf("invalid position %q (expected line:col)", s)
	}
	return source.LineCol{Line: uint32(line), Col: uint32(col)}, nil
}

// offsetOf converts a position to a byte offset, clamped to the line.
func offsetOf(f *source.File, pos source.LineCol) (uint32, error) {
	if int(pos.Line) > len(f.LineIdx)+1 {
		return 0, fmt.Errorf("%s has no line %d", f.Path, pos.Line)
	}
	var start uint32
	if pos.Line > 1 {
		start = f.LineIdx[pos.Line-2] + 1
	}
	end := f.Len()
	if int(pos.Line) <= len(f.LineIdx) {
		end = f.LineIdx[pos.Line-1]
	}
	return min(start+pos.Col-1, end), nil
}

type queryTarget struct {
	proj *project.Project
	code *project.Code
	off  uint32
}

func openQuery(cmd *cobra.Command, args []string) (*queryTarget, error) {
	pos, err := parsePosition(args[1])
	if err != nil {
		return nil, err
	}
	where, err := cmd.Flags().GetString("project")
	if err != nil {
		return nil, fmt.Errorf("failed to get project flag: %w", err)
	}
	if where == "" {
		where = args[0]
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	proj, err := openProject(ctx, cmd, where, openOptions{})
	if err != nil {
		return nil, err
	}
	file, err := filepath.Abs(args[0])
	if err != nil {
		proj.Close()
		return nil, err
	}
	code := proj.Code(file)
	if code == nil {
		proj.Close()
		return nil, fmt.Errorf("%s: %w", args[0], project.ErrUnknownFile)
	}
	off, err := offsetOf(proj.FileSet().Get(code.File), pos)
	if err != nil {
		proj.Close()
		return nil, err
	}
	return &queryTarget{proj: proj, code: code, off: off}, nil
}

func runRefs(cmd *cobra.Command, args []string) error {
	q, err := openQuery(cmd, args)
	if err != nil {
		return err
	}
	defer q.proj.Close()
	ref, ok := q.proj.SymbolAt(q.code.Path, q.off)
	if !ok {
		return fmt.Errorf("no symbol at %s %s", args[0], args[1])
	}
	out := cmd.OutOrStdout()
	fs := q.proj.FileSet()
	sig := ref.Sig
	if typ, ok := q.proj.TypeAt(q.code.Path, q.off); ok {
		fmt.Fprintf(out, "%s %s: %s\n", sig.Kind, sig.Name, typ)
	} else {
		fmt.Fprintf(out, "%s %s\n", sig.Kind, sig.Name)
	}
	if sig.Def.IsValid() {
		fmt.Fprintf(out, "  defined at %s\n", position(fs, sig.Def))
	}
	for _, sp := range q.proj.ReferencesOf(sig) {
		fmt.Fprintf(out, "  %s\n", position(fs, sp))
	}
	return nil
}

func runScope(cmd *cobra.Command, args []string) error {
	builtins, err := cmd.Flags().GetBool("builtins")
	if err != nil {
		return fmt.Errorf("failed to get builtins flag: %w", err)
	}
	q, err := openQuery(cmd, args)
	if err != nil {
		return err
	}
	defer q.proj.Close()
	sigs, err := q.proj.InScopeSymbolsAt(q.code.Path, q.off)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, s := range sigs {
		if s.Native() && !builtins {
			continue
		}
		line := fmt.Sprintf("%-16s %s", s.Kind, s.Name)
		if s.Type != nil {
			line += ": " + s.Type.String()
		}
		fmt.Fprintln(out, line)
	}
	return nil
}

func position(fs *source.FileSet, sp source.Span) string {
	f := fs.Get(sp.File)
	if f == nil {
		return "<unknown>"
	}
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", f.Path, start.Line, start.Col)
}
