// Package config loads optional dscmigrate settings from a TOML file.
//
// Every key is optional; a missing key keeps the built-in value, so an empty
// file behaves exactly like no file at all. Example:
//
//	source_dir = "configurations-dscv2-backup"
//	dest_dir   = "configurations"
//	suffix     = ".dsc.yaml"
//	exclude    = ["os-configuration.dsc.yaml", "legacy-*.dsc.yaml"]
//	group_suffix = " Development Tools"
//
//	[markers]
//	package = "WinGetPackage"
//	script  = "PSDscResources/Script"
//
//	[[package_defaults]]
//	key   = "UseLatest"
//	value = "true"
package config

import (
	stderrors "errors"
	"io/fs"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/go-git/go-billy/v5"
	"github.com/hashicorp/go-multierror"

	"github.com/matzehuels/dscmigrate/pkg/convert"
	"github.com/matzehuels/dscmigrate/pkg/emit"
	"github.com/matzehuels/dscmigrate/pkg/errors"
	"github.com/matzehuels/dscmigrate/pkg/resource"
	"github.com/matzehuels/dscmigrate/pkg/scan"
)

// Markers are the substrings that classify resource types.
type Markers struct {
	Package string `toml:"package"`
	Script  string `toml:"script"`
}

// Config holds every tunable of a conversion run.
type Config struct {
	SourceDir string   `toml:"source_dir"`
	DestDir   string   `toml:"dest_dir"`
	Suffix    string   `toml:"suffix"`
	Exclude   []string `toml:"exclude"`

	Markers         Markers        `toml:"markers"`
	PackageDefaults []emit.Setting `toml:"package_defaults"`
	GroupSuffix     string         `toml:"group_suffix"`
	HeaderRewrites  []scan.Rewrite `toml:"header_rewrites"`
}

// Default returns the built-in configuration.
func Default() *Config {
	tmpl := emit.DefaultTemplates()
	return &Config{
		SourceDir: convert.DefaultSourceDir,
		DestDir:   convert.DefaultDestDir,
		Suffix:    convert.DefaultSuffix,
		Exclude:   append([]string(nil), convert.DefaultExclude...),
		Markers: Markers{
			Package: resource.DefaultPackageMarker,
			Script:  resource.DefaultScriptMarker,
		},
		PackageDefaults: append([]emit.Setting(nil), tmpl.Kinds[resource.KindPackage].Defaults...),
		GroupSuffix:     tmpl.Group.NameSuffix,
		HeaderRewrites:  scan.DefaultOptions().HeaderRewrites,
	}
}

// Load reads the file at path over the defaults and validates the result.
// Unknown keys are rejected.
func Load(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every problem with c at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	if strings.TrimSpace(c.SourceDir) == "" {
		result = multierror.Append(result, stderrors.New("source_dir cannot be empty"))
	}
	if strings.TrimSpace(c.DestDir) == "" {
		result = multierror.Append(result, stderrors.New("dest_dir cannot be empty"))
	}
	if err := errors.ValidateSuffix(c.Suffix); err != nil {
		result = multierror.Append(result, err)
	}
	for _, pattern := range c.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			result = multierror.Append(result, errors.New(errors.ErrCodeInvalidConfig, "invalid exclude pattern %q", pattern))
		}
	}
	if c.Markers.Package == "" || c.Markers.Script == "" {
		result = multierror.Append(result, stderrors.New("markers.package and markers.script are required"))
	} else if c.Markers.Package == c.Markers.Script {
		result = multierror.Append(result, stderrors.New("markers.package and markers.script must differ"))
	}
	for i, d := range c.PackageDefaults {
		if strings.TrimSpace(d.Key) == "" {
			result = multierror.Append(result, errors.New(errors.ErrCodeInvalidConfig, "package_defaults[%d]: key cannot be empty", i))
		}
	}
	for i, r := range c.HeaderRewrites {
		if r.From == "" {
			result = multierror.Append(result, errors.New(errors.ErrCodeInvalidConfig, "header_rewrites[%d]: from cannot be empty", i))
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid configuration")
	}
	return nil
}

// ScanOptions returns scanner options with the configured header rewrites.
func (c *Config) ScanOptions() scan.Options {
	opts := scan.DefaultOptions()
	opts.HeaderRewrites = append([]scan.Rewrite(nil), c.HeaderRewrites...)
	return opts
}

// Classifier returns a classifier using the configured markers.
func (c *Config) Classifier() resource.Classifier {
	return resource.Classifier{
		PackageMarker: c.Markers.Package,
		ScriptMarker:  c.Markers.Script,
	}
}

// Templates returns the default templates with the configured package
// defaults and group suffix.
func (c *Config) Templates() emit.Templates {
	t := emit.DefaultTemplates()
	t.Group.NameSuffix = c.GroupSuffix

	pkg := t.Kinds[resource.KindPackage]
	pkg.Defaults = append([]emit.Setting(nil), c.PackageDefaults...)
	t.Kinds[resource.KindPackage] = pkg
	return t
}

// Converter returns a converter built from c.
func (c *Config) Converter() *convert.Converter {
	return &convert.Converter{
		Scan:       c.ScanOptions(),
		Classifier: c.Classifier(),
		Emitter:    emit.New(c.Templates()),
	}
}

// Driver returns a driver on fsys configured from c.
func (c *Config) Driver(fsys billy.Filesystem, logger *log.Logger) *convert.Driver {
	d := convert.NewDriver(fsys, logger)
	d.SourceDir = c.SourceDir
	d.DestDir = c.DestDir
	d.Suffix = c.Suffix
	d.Exclude = append([]string(nil), c.Exclude...)
	d.Converter = c.Converter()
	return d
}
