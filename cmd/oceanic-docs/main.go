package main

import (
	"context"
	"os"

	"github.com/OceanicJS/Bot/internal/app"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	// Version is injected at build time
	Version = "dev"
	// Build is injected at build time
	Build = "unknown"
	// ProgramName is injected at build time
	ProgramName = "oceanic-docs"
)

func main() {
	runMain(os.Args, os.Exit)
}

func runMain(args []string, exit func(int)) {
	if err := Execute(Version, Build, ProgramName, args[1:]); err != nil {
		exit(1)
	}
}

// Execute is the entry point for the CLI, extracted for testing
func Execute(version, build, programName string, args []string) error {
	rootCmd := &cobra.Command{
		Use:     programName,
		Short:   "Oceanic docs MCP server",
		Long:    "Serves Oceanic.js documentation lookups, autocomplete and search over MCP",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithFlags(cmd.Flags(), version)
		},
	}

	rootCmd.SetVersionTemplate(`{{.Version}}
`)

	app.RegisterFlags(rootCmd.Flags())
	rootCmd.AddCommand(newGenerateCmd(), newVersionsCmd())
	rootCmd.SetArgs(args)

	return rootCmd.Execute()
}

func runWithFlags(flags *pflag.FlagSet, version string) error {
	return app.RunWithDeps(context.Background(), app.DefaultRunParams(), flags, version)
}

func newGenerateCmd() *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "generate VERSION...",
		Short: "Generate the docs of one or more versions and exit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := app.LoadCommandSettings(cmd.Flags())
			if err != nil {
				return err
			}
			return app.Generate(cmd.Context(), settings, app.GenerateParams{
				Versions: args,
				Input:    input,
				Out:      cmd.OutOrStdout(),
			})
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "Read the export from this file instead of the docs site ({version} is replaced)")
	app.RegisterDocsFlags(cmd.Flags())
	cmd.Flags().String("storage-path", "", "SQLite database path (default {data-dir}/bot.db)")
	app.RegisterLogFlags(cmd.Flags())
	return cmd
}

func newVersionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "versions",
		Short: "List the supported versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := app.LoadCommandSettings(cmd.Flags())
			if err != nil {
				return err
			}
			return app.ListVersions(cmd.Context(), settings, cmd.OutOrStdout())
		},
	}
	app.RegisterDocsFlags(cmd.Flags())
	app.RegisterLogFlags(cmd.Flags())
	return cmd
}
