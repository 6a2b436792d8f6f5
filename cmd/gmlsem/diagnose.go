package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"gmlsem/internal/diag"
	"gmlsem/internal/diagfmt"
	"gmlsem/internal/source"
)

var diagCmd = &cobra.Command{
	Use:   "diag [flags] [project.yyp|directory]",
	Short: "Report unresolved identifiers and other problems of a project",
	Long:  `Load the project, resolve every GML file and print the diagnostics of the whole project`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDiagnose,
}

func init() {
	diagCmd.Flags().String("format", "pretty", "output format (pretty|json|short)")
	diagCmd.Flags().Bool("no-warnings", false, "ignore warnings in diagnostics")
	diagCmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
	diagCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	diagCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	diagCmd.Flags().Int("context", 0, "source lines shown above each diagnostic")
}

type diagOptions struct {
	format           string
	noWarnings       bool
	warningsAsErrors bool
	withNotes        bool
	fullPath         bool
	context          int
	max              int
	color            bool
	timings          bool
	quiet            bool
}

func readDiagOptions(cmd *cobra.Command) (diagOptions, error) {
	var o diagOptions
	var err error
	if o.format, err = cmd.Flags().GetString("format"); err != nil {
		return o, fmt.Errorf("failed to get format flag: %w", err)
	}
	o.format = strings.ToLower(o.format)
	switch o.format {
	case "pretty", "json", "short":
	default:
		return o, fmt.Errorf("unknown format %q (must be pretty, json or short)", o.format)
	}
	if o.noWarnings, err = cmd.Flags().GetBool("no-warnings"); err != nil {
		return o, fmt.Errorf("failed to get no-warnings flag: %w", err)
	}
	if o.warningsAsErrors, err = cmd.Flags().GetBool("warnings-as-errors"); err != nil {
		return o, fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	if o.noWarnings && o.warningsAsErrors {
		return o, fmt.Errorf("no-warnings and warnings-as-errors flags cannot be used together")
	}
	if o.withNotes, err = cmd.Flags().GetBool("with-notes"); err != nil {
		return o, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	if o.fullPath, err = cmd.Flags().GetBool("fullpath"); err != nil {
		return o, fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	if o.context, err = cmd.Flags().GetInt("context"); err != nil {
		return o, fmt.Errorf("failed to get context flag: %w", err)
	}
	if o.max, err = cmd.Root().PersistentFlags().GetInt("max-diagnostics"); err != nil {
		return o, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if o.timings, err = cmd.Root().PersistentFlags().GetBool("timings"); err != nil {
		return o, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if o.quiet, err = cmd.Root().PersistentFlags().GetBool("quiet"); err != nil {
		return o, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if o.color, err = useColor(cmd, os.Stdout); err != nil {
		return o, err
	}
	return o, nil
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	opts, err := readDiagOptions(cmd)
	if err != nil {
		return err
	}
	var arg string
	if len(args) > 0 {
		arg = args[0]
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	proj, err := openProject(ctx, cmd, arg, openOptions{progress: opts.format == "pretty"})
	if err != nil {
		return err
	}
	defer proj.Close()

	diags := filterDiagnostics(proj.AllDiagnostics(), opts)
	out := cmd.OutOrStdout()
	if err := writeDiagnostics(out, diags, proj.FileSet(), proj.Dir(), opts); err != nil {
		return err
	}
	if opts.timings {
		printTimings(cmd.ErrOrStderr(), proj.Timings())
	}
	if slices.ContainsFunc(diags, func(d diag.Diagnostic) bool { return d.Severity == diag.SevError }) {
		return errFindings
	}
	return nil
}

// filterDiagnostics applies --no-warnings and --warnings-as-errors.
func filterDiagnostics(diags []diag.Diagnostic, opts diagOptions) []diag.Diagnostic {
	out := make([]diag.Diagnostic, 0, len(diags))
	for _, d := range diags {
		if d.Severity == diag.SevWarning {
			if opts.noWarnings {
				continue
			}
			if opts.warningsAsErrors {
				d.Severity = diag.SevError
			}
		}
		out = append(out, d)
	}
	return out
}

func writeDiagnostics(out io.Writer, diags []diag.Diagnostic, fs *source.FileSet, dir string, opts diagOptions) error {
	mode := diagfmt.PathModeAuto
	if opts.fullPath {
		mode = diagfmt.PathModeAbsolute
	}
	switch opts.format {
	case "json":
		return diagfmt.JSON(out, diags, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         mode,
			BaseDir:          dir,
			Max:              opts.max,
			IncludeNotes:     opts.withNotes,
		})
	case "short":
		shown := diags
		if opts.max > 0 && len(shown) > opts.max {
			shown = shown[:opts.max]
		}
		if len(shown) > 0 {
			fmt.Fprintln(out, diag.FormatShort(shown, fs, opts.withNotes))
		}
		return nil
	}
	diagfmt.Pretty(out, diags, fs, diagfmt.PrettyOpts{
		Color:     opts.color,
		Context:   int8(min(max(opts.context, 0), 10)), // #nosec G115 -- clamped
		PathMode:  mode,
		BaseDir:   dir,
		ShowNotes: opts.withNotes,
		Max:       opts.max,
	})
	if !opts.quiet {
		fmt.Fprintln(out, summary(diags))
	}
	return nil
}

func summary(diags []diag.Diagnostic) string {
	var errs, warns, infos int
	for _, d := range diags {
		switch d.Severity {
		case diag.SevError:
			errs++
		case diag.SevWarning:
			warns++
		default:
			infos++
		}
	}
	return fmt.Sprintf("%d error(s), %d warning(s), %d info", errs, warns, infos)
}
