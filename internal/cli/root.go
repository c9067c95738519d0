// Package cli implements the command-line interface for gitsim.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/kilupskalvis/gitsim/internal/config"
	"github.com/kilupskalvis/gitsim/internal/core"
	"github.com/kilupskalvis/gitsim/internal/logging"
	"github.com/kilupskalvis/gitsim/internal/store"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
)

// cmdContext holds common resources for CLI commands
type cmdContext struct {
	Config *config.Config
	Logger *slog.Logger
	Store  *store.Store
}

// Close releases resources held by cmdContext
func (c *cmdContext) Close() {
	if c.Store != nil {
		c.Store.Close()
	}
}

// NewSession creates a simulator session using the configured layout
func (c *cmdContext) NewSession() *core.Session {
	origin := c.Config.Origin()
	return core.NewSession(
		core.WithParams(c.Config.LayoutParams()),
		core.WithOrigin(origin.X, origin.Y),
		core.WithLogger(c.Logger),
	)
}

// initContext loads the config and builds the logger (no store)
func initContext() *cmdContext {
	cfg, err := config.Load(configPath)
	if err != nil {
		exitError("%v", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
		if err := cfg.Validate(); err != nil {
			exitError("%v", err)
		}
	}

	return &cmdContext{
		Config: cfg,
		Logger: logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr),
	}
}

// initContextWithHistory also opens the history store when history is enabled
func initContextWithHistory() *cmdContext {
	c := initContext()
	if !c.Config.History.Enabled {
		return c
	}

	st, err := openHistory(c.Config)
	if err != nil {
		c.Close()
		exitError("%v", err)
	}
	c.Store = st
	return c
}

func openHistory(cfg *config.Config) (*store.Store, error) {
	path, err := cfg.HistoryPath()
	if err != nil {
		return nil, err
	}

	st, err := store.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	if err := st.Initialize(); err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to initialize history: %w", err)
	}
	st.SetLimit(cfg.History.Limit)
	return st, nil
}

var rootCmd = &cobra.Command{
	Use:   "gitsim",
	Short: "Git commit graph simulator",
	Long: `gitsim is an interactive simulator for a small subset of git.
Type git commands (init, commit, branch, checkout, merge) and watch the
commit graph grow, in the terminal or through the playground server.`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: discover "+config.ConfigFile+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(completionCmd)
}

// exitError prints an error and exits
func exitError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}
