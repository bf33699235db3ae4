// Package cli implements the dsm command-line interface.
//
// This package provides commands for computing dependency structure matrices
// from an analysis report, rendering a component's dependency graph, browsing
// computed measures interactively, serving them over HTTP, and managing the
// on-disk edge cache. The CLI is built using cobra and supports verbose
// logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - compute: Run the DSM aggregation over a report and persist measures
//   - render: Draw one component's dependency graph as DOT or SVG
//   - browse: Inspect computed measures in an interactive table
//   - serve: Expose computed measures over a read-only HTTP API
//   - cache: Manage the on-disk edge cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/cszdzs/sonarqube/pkg/buildinfo"
)

// appName is the application name used for directories and display.
const appName = "dsm"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "dsm computes dependency structure matrices for source trees",
		Long: `dsm aggregates extracted file-level dependency edges bottom-up through a
component tree, detects circular dependencies at every level, selects a
minimum-weight feedback edge set, and emits an ordered dependency structure
matrix plus cycle, feedback edge, tangle and edge weight measures.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.computeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// cacheDir returns the edge cache directory using the XDG standard
// (~/.cache/dsm/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
