// Package cli implements the forcefield command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/imran31415/forcefield/pkg/buildinfo"
	"github.com/imran31415/forcefield/pkg/cache"
	"github.com/imran31415/forcefield/pkg/config"
	"github.com/imran31415/forcefield/pkg/layout"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "forcefield"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *config.Config
}

// New creates a new CLI instance with a default logger and the built-in
// configuration. LoadConfig replaces the configuration before commands run.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// LoadConfig reads the configuration file at path and installs it on the
// CLI. An empty path falls back to the default location, and a missing
// default file keeps the built-in configuration.
func (c *CLI) LoadConfig(path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	c.Config = cfg
	return nil
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "forcefield",
		Short:         "Forcefield computes force-directed graph layouts",
		Long:          `Forcefield is a CLI tool and HTTP service for laying out entity graphs with a force simulation, producing deterministic node positions ready for rendering.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.focusCommand())
	root.AddCommand(c.statsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Engine & Cache Factories
// =============================================================================

// newEngine creates a layout engine wired to the CLI logger.
func (c *CLI) newEngine() *layout.Engine {
	return layout.NewEngine(c.Logger)
}

// newCache creates the layout cache. When the cache directory cannot be
// resolved the CLI degrades to a no-op cache rather than failing.
func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/forcefield/).
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

// outputPath derives the output file for input, replacing its extension
// with suffix unless an explicit override is given.
func outputPath(input, override, suffix string) string {
	if override != "" {
		return override
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + suffix
}
