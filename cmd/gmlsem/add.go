package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"gmlsem/internal/project"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Create scripts, objects and folders in a project",
}

var addScriptCmd = &cobra.Command{
	Use:     "script <Folder/.../name>",
	Short:   "Create a script with an empty GML file",
	Example: "  gmlsem add script Scripts/Utils/scr_clamp",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAdd(cmd, func(p *project.Project) (string, error) {
			a, err := p.AddScript(args[0])
			if err != nil {
				return "", err
			}
			return "created " + a.YyPath, nil
		})
	},
}

var addObjectCmd = &cobra.Command{
	Use:     "object <Folder/.../name>",
	Short:   "Create an object with a Create event",
	Example: "  gmlsem add object Objects/Enemies/o_bat",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAdd(cmd, func(p *project.Project) (string, error) {
			a, err := p.AddObject(args[0])
			if err != nil {
				return "", err
			}
			return "created " + a.YyPath, nil
		})
	},
}

var addFolderCmd = &cobra.Command{
	Use:   "folder <Folder/.../name>",
	Short: "Create a folder in the asset browser",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAdd(cmd, func(p *project.Project) (string, error) {
			f, err := p.AddFolder(args[0])
			if err != nil {
				return "", err
			}
			return "folder " + f.FolderPath, nil
		})
	},
}

func init() {
	addCmd.PersistentFlags().String("project", ".", "project .yyp or directory")
	addCmd.AddCommand(addScriptCmd, addObjectCmd, addFolderCmd)
}

func runAdd(cmd *cobra.Command, do func(*project.Project) (string, error)) error {
	where, err := cmd.Flags().GetString("project")
	if err != nil {
		return fmt.Errorf("failed to get project flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	proj, err := openProject(ctx, cmd, where, openOptions{})
	if err != nil {
		return err
	}
	defer proj.Close()
	msg, err := do(proj)
	if err != nil {
		return err
	}
	if !quiet {
		fmt.Fprintln(cmd.OutOrStdout(), msg)
	}
	return nil
}
