package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"gmlsem/internal/project"
)

var watchCmd = &cobra.Command{
	Use:   "watch [flags] [project.yyp|directory]",
	Short: "Keep the project resolved and print diagnostics as files change",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().String("format", "short", "output format (pretty|json|short)")
	watchCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	watchCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	watchCmd.Flags().Bool("no-warnings", false, "ignore warnings in diagnostics")
	watchCmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
	watchCmd.Flags().Int("context", 0, "source lines shown above each diagnostic")
}

func runWatch(cmd *cobra.Command, args []string) error {
	opts, err := readDiagOptions(cmd)
	if err != nil {
		return err
	}
	var arg string
	if len(args) > 0 {
		arg = args[0]
	}
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	var (
		mu   sync.Mutex
		proj *project.Project
	)
	// Events arrive while the project lock is held, so the subscriber
	// only uses the FileSet, which has its own lock.
	onDiag := func(ev project.DiagnosticsEvent) {
		mu.Lock()
		defer mu.Unlock()
		if proj == nil {
			return
		}
		fmt.Fprintf(out, "== %s\n", ev.Path)
		if err := writeDiagnostics(out, filterDiagnostics(ev.Diagnostics, opts), proj.FileSet(), proj.Dir(), opts); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "error:", err)
		}
	}
	p, err := openProject(ctx, cmd, arg, openOptions{
		watch: true,
		extra: []project.Option{project.WithOnDiagnostics(onDiag)},
	})
	if err != nil {
		return err
	}
	defer p.Close()

	diags := filterDiagnostics(p.AllDiagnostics(), opts)
	if err := writeDiagnostics(out, diags, p.FileSet(), p.Dir(), opts); err != nil {
		return err
	}
	if opts.timings {
		printTimings(cmd.ErrOrStderr(), p.Timings())
	}
	mu.Lock()
	proj = p
	mu.Unlock()
	if !opts.quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "watching %s (Ctrl+C to stop)\n", p.Dir())
	}
	<-ctx.Done()
	return nil
}
