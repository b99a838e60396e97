package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/matzehuels/dscmigrate/pkg/config"
	"github.com/matzehuels/dscmigrate/pkg/convert"
	"github.com/matzehuels/dscmigrate/pkg/errors"
)

type convertOptions struct {
	configPath string
	sourceDir  string
	destDir    string
}

// loadConfig applies the config file, if any, and then the directory flags.
func (o convertOptions) loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		loaded, err := config.Load(o.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if o.sourceDir != "" {
		cfg.SourceDir = o.sourceDir
	}
	if o.destDir != "" {
		cfg.DestDir = o.destDir
	}
	return cfg, cfg.Validate()
}

func (c *CLI) runConvert(ctx context.Context, opts convertOptions, args []string) error {
	logger := loggerFromContext(ctx)

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	fs, err := c.filesystem(cfg)
	if err != nil {
		return err
	}

	d := cfg.Driver(fs, logger)
	if len(args) == 1 {
		return c.convertOne(ctx, d, args[0])
	}
	return c.convertAll(ctx, d)
}

func (c *CLI) convertOne(ctx context.Context, d *convert.Driver, name string) error {
	fr, err := d.ConvertFile(ctx, name)
	if err != nil {
		printError(c.Out, "Error converting %s: %s", name, errors.UserMessage(err))
		return ErrConversionFailed
	}
	c.reportConverted(*fr)
	return nil
}

func (c *CLI) convertAll(ctx context.Context, d *convert.Driver) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	d.OnConverted = c.reportConverted
	d.OnFailed = func(f convert.Failure) {
		printError(c.Out, "Error converting %s: %s", f.Name, errors.UserMessage(f.Err))
	}

	report, err := d.ConvertAll(ctx)
	if err != nil {
		return err
	}
	for _, name := range report.Skipped {
		printDetail(c.Out, "skipped %s", name)
	}
	printSummary(c.Out, len(report.Converted), len(report.Failures), len(report.Skipped))
	prog.done("Batch finished")

	if err := report.Err(); err != nil {
		logger.Debug("batch failures", "err", err)
	}
	return nil
}

func (c *CLI) reportConverted(fr convert.FileResult) {
	printSuccess(c.Out, "Converted %s -> %s", StyleValue.Render(c.display(fr.Source)), StyleValue.Render(c.display(fr.Dest)))
	for _, diag := range fr.Diagnostics {
		printWarning(c.Out, "%s: %s (%s): %s", fr.Name, diag.Resource, diag.Type, diag.Message)
	}
}

// filesystem returns the filesystem conversions run on. The host
// filesystem is unrooted, so the configured directories are made absolute.
func (c *CLI) filesystem(cfg *config.Config) (billy.Filesystem, error) {
	if c.FS != nil {
		return c.FS, nil
	}
	for _, dir := range []*string{&cfg.SourceDir, &cfg.DestDir} {
		abs, err := filepath.Abs(*dir)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "resolve %s", *dir)
		}
		*dir = abs
	}
	return osfs.Default, nil
}

// display shortens host paths under the working directory.
func (c *CLI) display(path string) string {
	if c.FS != nil {
		return path
	}
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(wd, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
