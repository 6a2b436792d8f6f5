package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"gmlsem/internal/project"
)

// projectPath turns the command argument into something project.Open
// accepts: a .yyp file is used as is, a directory is searched upwards for
// the project root.
func projectPath(arg string) (string, error) {
	if arg == "" {
		arg = "."
	}
	if strings.EqualFold(filepath.Ext(arg), ".yyp") {
		return arg, nil
	}
	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		arg = filepath.Dir(arg)
	}
	root, ok, err := project.FindProjectRoot(arg)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%s: %w", arg, project.ErrNoManifest)
	}
	return root, nil
}

type openOptions struct {
	progress bool
	watch    bool
	extra    []project.Option
}

// openProject opens the project named by arg with the global flags
// applied. With progress set and stdout a terminal, the load is shown with
// a progress bar.
func openProject(ctx context.Context, cmd *cobra.Command, arg string, oo openOptions) (*project.Project, error) {
	path, err := projectPath(arg)
	if err != nil {
		return nil, err
	}
	log, err := newLogger(cmd)
	if err != nil {
		return nil, err
	}
	opts := []project.Option{project.WithLogger(log)}
	runtime, err := cmd.Root().PersistentFlags().GetString("runtime")
	if err != nil {
		return nil, fmt.Errorf("failed to get runtime flag: %w", err)
	}
	if runtime != "" {
		opts = append(opts, project.WithRuntimeVersion(runtime))
	}
	if oo.watch {
		opts = append(opts, project.WithWatch())
	}
	opts = append(opts, oo.extra...)

	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if oo.progress && !quiet && isTerminal(os.Stdout) {
		return openWithUI(ctx, "Loading "+filepath.Base(path), path, opts)
	}
	return project.Open(ctx, path, opts...)
}
