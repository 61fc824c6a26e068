package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/treetable/pkg/buildinfo"
	"github.com/matzehuels/treetable/pkg/cache"
	pkgio "github.com/matzehuels/treetable/pkg/io"
	"github.com/matzehuels/treetable/pkg/observability"
	"github.com/matzehuels/treetable/pkg/tree"
	"github.com/matzehuels/treetable/pkg/tree/nodemap"
)

const (
	appName     = "treetable"
	defaultAddr = "127.0.0.1:8420" // serve
)

// Log levels for [New] and [CLI.SetLogLevel].
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI carries the state shared by every command: the logger and the
// loaded config.
type CLI struct {
	Logger *log.Logger

	configPath string
	config     Config
}

// New returns a CLI logging to w at level, with the default config.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		config: DefaultConfig(),
	}
}

// SetLogLevel changes the level after flags are parsed.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand builds the command tree. Its pre-run hook loads the config
// before any subcommand runs.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Treetable reorders hierarchical tables by drag and drop",
		Long: `Treetable loads tree tables from JSON or YAML (flat rows with parent ids, or nested rows),
decides where a dragged row may land, and applies the resulting moves.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/treetable/config.toml)")

	root.AddCommand(c.buildCommand())
	root.AddCommand(c.nodesCommand())
	root.AddCommand(c.dropCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.tuiCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup routes library warnings to the logger and loads the config file.
// A missing default config is fine; a missing --config file is not.
func (c *CLI) setup() error {
	hooks := &logHooks{logger: c.Logger}
	observability.SetTreeHooks(hooks)
	observability.SetGestureHooks(hooks)

	path, explicit := c.configPath, c.configPath != ""
	if !explicit {
		p, err := configPath()
		if err != nil {
			c.Logger.Debug("no config directory", "error", err)
			return nil
		}
		path = p
	}

	cfg, err := loadConfig(path, explicit)
	if err != nil {
		return err
	}
	c.config = cfg
	c.Logger.Debug("config loaded", "path", path)
	return nil
}

// =============================================================================
// Documents
// =============================================================================

// ioOptions returns the document field keys from the config.
func (c *CLI) ioOptions() pkgio.Options {
	return pkgio.Options{
		IDKey:        c.config.IDKey,
		ParentIDKey:  c.config.ParentIDKey,
		ChildrenKey:  c.config.ChildrenKey,
		RootParentID: c.config.RootParentID,
	}
}

// loadDocument reads the document at path and logs its size.
func (c *CLI) loadDocument(path string) (*pkgio.Document, error) {
	done := timed(c.Logger)
	doc, err := pkgio.ImportFile(path, c.ioOptions())
	if err != nil {
		return nil, err
	}
	done("loaded", "file", filepath.Base(path), "rows", tree.Count(doc.Roots), "layout", doc.Layout)
	return doc, nil
}

// expansion returns the expanded set for a command: every parent when all
// is set or the config says so, otherwise the given ids.
func (c *CLI) expansion(roots []tree.Node[pkgio.Row], all bool, ids []string) nodemap.Expanded {
	if all || (c.config.ExpandAll && len(ids) == 0) {
		return nodemap.ExpandAll(roots)
	}
	return nodemap.NewExpanded(ids...)
}

// =============================================================================
// Cache
// =============================================================================

// newCache opens the state cache, falling back to a null cache when
// persistence is off or the cache directory is unknown.
func (c *CLI) newCache(persist bool) (cache.Cache, error) {
	if !persist {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Debug("cache disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return cache.NewPrefixed(fc, "tui:"), nil
}

// cacheDir is $XDG_CACHE_HOME/treetable, or ~/.cache/treetable.
func cacheDir() (string, error) {
	return xdgPath("XDG_CACHE_HOME", ".cache")
}

// configPath is $XDG_CONFIG_HOME/treetable/config.toml, or the same under
// ~/.config.
func configPath() (string, error) {
	return xdgPath("XDG_CONFIG_HOME", ".config", "config.toml")
}

func xdgPath(env, fallback string, elem ...string) (string, error) {
	base := os.Getenv(env)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, fallback)
	}
	return filepath.Join(append([]string{base, appName}, elem...)...), nil
}
