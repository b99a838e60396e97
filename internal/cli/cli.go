// Package cli implements the dscmigrate command-line interface.
package cli

import (
	stderrors "errors"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/go-git/go-billy/v5"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dscmigrate/pkg/buildinfo"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "dscmigrate"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// ErrConversionFailed is returned after a failure has already been reported
// on the console.
var ErrConversionFailed = stderrors.New("conversion failed")

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Out receives the conversion report.
	Out io.Writer

	// FS overrides the host filesystem. Paths are then used as given.
	FS billy.Filesystem
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command.
func (c *CLI) RootCommand() *cobra.Command {
	var (
		opts    convertOptions
		verbose bool
	)

	root := &cobra.Command{
		Use:   appName + " [filename]",
		Short: "Migrate WinGet configuration documents to DSC v3",
		Long: `dscmigrate rewrites WinGet (DSC v2) configuration documents as DSC v3 documents.

Without arguments every document in the source directory is converted, except
the excluded ones. With a file name only that document is converted.`,
		Args:          cobra.MaximumNArgs(1),
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := LogInfo
			if verbose {
				level = LogDebug
			}
			c.SetLogLevel(level)
			c.Logger.Debug(buildinfo.String())
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConvert(cmd.Context(), opts, args)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.Flags().StringVar(&opts.configPath, "config", "", "TOML configuration file")
	root.Flags().StringVar(&opts.sourceDir, "source", "", "directory holding the WinGet documents")
	root.Flags().StringVar(&opts.destDir, "dest", "", "directory the DSC v3 documents are written to")

	return root
}
