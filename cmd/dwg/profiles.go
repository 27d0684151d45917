package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/dwg/internal/analyzer"
	"github.com/dshills/dwg/internal/profile"
)

func newProfilesCmd() *cobra.Command {
	var configPath string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "Inspect the resolved profiles",
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default: $DWG_CONFIG or .dwg.yaml)")
	cmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Log processing steps to stderr")

	list := &cobra.Command{
		Use:   "list",
		Short: "List profile names and their globs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadAnalyzer(configPath, newLogger(cmd.ErrOrStderr(), verbose))
			if err != nil {
				return err
			}
			return listProfiles(cmd.OutOrStdout(), a)
		},
	}

	show := &cobra.Command{
		Use:   "show <name>",
		Short: "Print a resolved profile with its inherited rules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadAnalyzer(configPath, newLogger(cmd.ErrOrStderr(), verbose))
			if err != nil {
				return err
			}
			return showProfile(cmd.OutOrStdout(), a, args[0])
		},
	}

	cmd.AddCommand(list, show)
	return cmd
}

func listProfiles(w io.Writer, a *analyzer.Analyzer) error {
	for _, r := range a.Profiles() {
		line := r.Name
		if len(r.Globs) > 0 {
			line += "\t" + strings.Join(r.Globs, ", ")
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func showProfile(w io.Writer, a *analyzer.Analyzer, name string) error {
	r, ok := a.Recipe(name)
	if !ok {
		return exitError(exitUsage, "unknown profile %q", name)
	}
	_, err := io.WriteString(w, profile.Describe(r, builtinDescription(a, name)))
	return err
}

// builtinDescription returns the preset description unless a user profile
// of the same name shadows the preset.
func builtinDescription(a *analyzer.Analyzer, name string) string {
	for _, p := range a.Config().Profiles {
		if p.Name == name {
			return ""
		}
	}
	p, err := profile.LoadBuiltin(name)
	if err != nil {
		return ""
	}
	return p.Description
}
