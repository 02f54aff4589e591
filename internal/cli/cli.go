// Package cli implements the pathloom command-line interface.
package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pathloom/internal/config"
	"github.com/matzehuels/pathloom/pkg/buildinfo"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "pathloom"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
	LogError = log.ErrorLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// errOut is where the logger writes before a log file is attached.
	errOut io.Writer

	configPath string
	envFiles   []string
	logFile    string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		errOut: w,
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
		Short: "Pathloom suggests pathway neighbours for a biological entity",
		Long: `Pathloom asks pathway and interaction databases (KEGG, WikiPathways,
Phasar, semantic web endpoints, local stores) for entities related to a hub
and lays the answers out as a radial fragment.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	flags.StringSliceVar(&c.envFiles, "env-file", nil, "dotenv files to load before reading the environment")
	flags.StringVar(&c.logFile, "log-file", "", "also write logs to this file, rotated by size")

	root.AddCommand(c.providersCommand())
	root.AddCommand(c.suggestCommand())
	root.AddCommand(c.tuiCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.interactionsCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig reads the configuration and applies its log settings. Flags
// given on the command line win over the file.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configPath, c.envFiles...)
	if err != nil {
		return nil, err
	}
	if c.logFile != "" {
		cfg.Log.File = c.logFile
	}
	c.applyLogConfig(cfg.Log)
	return cfg, nil
}

// applyLogConfig raises the level named in the config unless --verbose
// already lowered it, and tees output into the rotating log file.
func (c *CLI) applyLogConfig(l config.Log) {
	if l.Level != "" && c.Logger.GetLevel() != LogDebug {
		if level, err := log.ParseLevel(l.Level); err == nil {
			c.Logger.SetLevel(level)
		}
	}
	if l.File != "" {
		c.Logger.SetOutput(io.MultiWriter(c.stderr(), rotatingFile(l)))
	}
}

func (c *CLI) stderr() io.Writer {
	if c.errOut != nil {
		return c.errOut
	}
	return os.Stderr
}
