// Package cli implements the extractgym command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/extractgym/pkg/buildinfo"
	"github.com/matzehuels/extractgym/pkg/cache"
	"github.com/matzehuels/extractgym/pkg/config"
	"github.com/matzehuels/extractgym/pkg/egraph"
	"github.com/matzehuels/extractgym/pkg/errors"
	graphio "github.com/matzehuels/extractgym/pkg/io"
	"github.com/matzehuels/extractgym/pkg/pipeline"
	"github.com/matzehuels/extractgym/pkg/render"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "extractgym"

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

	// Out receives command results; logs go to the logger's writer.
	Out io.Writer

	configPath string
	config     config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
		config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "extractgym extracts, checks and prints programs from e-graphs",
		Long: `extractgym runs an extractor over a serialized e-graph, validates the
selection it produces, and prints the chosen program as a table, an
S-expression or a sequence of assignments, followed by its tree and DAG cost.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/extractgym/config.toml)")

	// Register all subcommands
	root.AddCommand(c.extractCommand())
	root.AddCommand(c.compareCommand())
	root.AddCommand(c.dotCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file named by --config, or the default one.
func (c *CLI) loadConfig() error {
	path := c.configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			c.Logger.Debug("no config path", "err", err)
			return nil
		}
		path = p
	} else if _, err := os.Stat(path); err != nil {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	c.config = cfg
	c.Logger.Debug("config loaded", "path", path)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, err := c.openCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	// scoped by version: extractor output may change between releases
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.Version+":")
	r := pipeline.NewRunner(store, keyer, c.Logger)
	r.TTL = c.config.Cache.TTL.Duration
	return r, nil
}

// openCache opens the configured cache. A cache that cannot be opened is
// logged and replaced by a NullCache so extraction still works.
func (c *CLI) openCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Warn("caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	store, err := cache.Open(ctx, c.config.CacheOptions(dir))
	if err != nil {
		c.Logger.Warn("caching disabled", "backend", c.config.Cache.Backend, "err", err)
		return cache.NewNullCache(), nil
	}
	return store, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/extractgym/).
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

// =============================================================================
// Options Helpers
// =============================================================================

// pipelineOptions starts from the config file and applies flag overrides.
func (c *CLI) pipelineOptions(cmd *cobra.Command, extractor, mode string) pipeline.Options {
	opts := pipeline.Options{
		Extractor: c.config.Extractor,
		Mode:      render.Mode(c.config.Mode),
		Logger:    c.Logger,
	}
	if cmd.Flags().Changed("extractor") {
		opts.Extractor = extractor
	}
	if cmd.Flags().Changed("mode") {
		opts.Mode = render.Mode(mode)
	}
	return opts
}

// loadGraph reads the graph file named on the command line.
func (c *CLI) loadGraph(path string) (*egraph.Graph, error) {
	prog := newProgress(c.Logger)
	g, err := graphio.ImportGraph(path)
	if err != nil {
		return nil, err
	}
	prog.donef("Loaded %s: %d nodes, %d classes", filepath.Base(path), g.NodeCount(), g.ClassCount())
	return g, nil
}
