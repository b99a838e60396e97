package convert

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/hashicorp/go-multierror"

	"github.com/matzehuels/dscmigrate/pkg/emit"
	"github.com/matzehuels/dscmigrate/pkg/errors"
	"github.com/matzehuels/dscmigrate/pkg/observability"
	"github.com/matzehuels/dscmigrate/pkg/scan"
)

// Default locations and selection rules.
const (
	DefaultSourceDir = "configurations-dscv2-backup"
	DefaultDestDir   = "configurations"
	DefaultSuffix    = ".dsc.yaml"
)

// DefaultExclude lists documents that batch mode leaves alone.
var DefaultExclude = []string{
	"os-configuration.dsc.yaml",
	"ai-configuration.dsc.yaml",
	"dotnet-configuration.dsc.yaml",
}

// FileResult describes one converted document.
type FileResult struct {
	Name        string
	Source      string
	Dest        string
	Records     int
	Diagnostics []emit.Diagnostic
	Duration    time.Duration
}

// Failure is a document that could not be converted.
type Failure struct {
	Name string
	Err  error
}

// Report summarises a batch run.
type Report struct {
	Converted []FileResult
	Skipped   []string
	Failures  []Failure

	errs *multierror.Error
}

// Err returns every failure combined, or nil.
func (r *Report) Err() error {
	return r.errs.ErrorOrNil()
}

// Driver converts documents from SourceDir into DestDir on FS.
type Driver struct {
	FS        billy.Filesystem
	SourceDir string
	DestDir   string

	// Suffix selects batch inputs.
	Suffix string

	// Exclude holds doublestar patterns of base names batch mode skips.
	// Plain names match themselves.
	Exclude []string

	Converter *Converter
	Logger    *log.Logger

	// OnConverted and OnFailed, when set, are called as each batch file
	// finishes.
	OnConverted func(FileResult)
	OnFailed    func(Failure)
}

// NewDriver returns a driver with the default layout on fs.
func NewDriver(fs billy.Filesystem, logger *log.Logger) *Driver {
	if logger == nil {
		logger = log.Default()
	}
	return &Driver{
		FS:        fs,
		SourceDir: DefaultSourceDir,
		DestDir:   DefaultDestDir,
		Suffix:    DefaultSuffix,
		Exclude:   append([]string(nil), DefaultExclude...),
		Converter: NewConverter(),
		Logger:    logger,
	}
}

// ConvertFile converts the named document. The exclusion list does not
// apply.
func (d *Driver) ConvertFile(ctx context.Context, name string) (*FileResult, error) {
	if err := errors.ValidateDocumentName(name); err != nil {
		return nil, err
	}

	src := d.FS.Join(d.SourceDir, name)
	dst := d.FS.Join(d.DestDir, name)
	start := time.Now()
	observability.Conversion().OnConvertStart(ctx, name)

	res, err := d.convert(src, dst)
	duration := time.Since(start)
	if err != nil {
		observability.Conversion().OnConvertComplete(ctx, name, 0, duration, err)
		return nil, err
	}

	fr := &FileResult{
		Name:        name,
		Source:      src,
		Dest:        dst,
		Records:     res.Buckets.Len(),
		Diagnostics: res.Diagnostics,
		Duration:    duration,
	}
	for _, diag := range res.Diagnostics {
		d.Logger.Debug("reduced fidelity", "file", name, "resource", diag.Resource, "type", diag.Type, "code", diag.Code, "detail", diag.Message)
		observability.Conversion().OnDiagnostic(ctx, name, string(diag.Code), diag.Resource)
	}
	observability.Conversion().OnConvertComplete(ctx, name, fr.Records, duration, nil)
	d.Logger.Debug("converted document",
		"file", name,
		"packages", len(res.Buckets.Packages),
		"scripts", len(res.Buckets.Scripts),
		"unhandled", len(res.Buckets.Unhandled()),
		"duration", duration)
	return fr, nil
}

func (d *Driver) convert(src, dst string) (*Result, error) {
	data, err := util.ReadFile(d.FS, src)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", src)
		}
		return nil, errors.Wrap(errors.ErrCodeReadFailed, err, "read %s", src)
	}

	res, err := d.converter(src).Convert(data, src)
	if err != nil {
		return nil, err
	}

	if err := util.WriteFile(d.FS, dst, res.Output, 0644); err != nil {
		return nil, errors.Wrap(errors.ErrCodeWriteFailed, err, "write %s", dst)
	}
	return res, nil
}

// converter returns the configured converter, tracing scanner zone changes
// for src when debug logging is on.
func (d *Driver) converter(src string) *Converter {
	if d.Converter.Scan.Trace != nil || d.Logger.GetLevel() > log.DebugLevel {
		return d.Converter
	}
	c := *d.Converter
	c.Scan.Trace = func(line int, from, to scan.Zone) {
		d.Logger.Debug("zone change", "file", src, "line", line, "from", from, "to", to)
	}
	return &c
}

// ConvertAll converts every document in SourceDir whose name ends in Suffix
// and matches no Exclude pattern. A failing document is recorded in the
// report and does not stop the run. The returned error is non-nil only when
// the source directory cannot be listed or ctx is done.
func (d *Driver) ConvertAll(ctx context.Context) (*Report, error) {
	entries, err := d.FS.ReadDir(d.SourceDir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeReadFailed, err, "list %s", d.SourceDir)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), d.Suffix) {
			continue
		}
		names = append(names, e.Name())
	}

	report := &Report{}
	start := time.Now()
	observability.Batch().OnBatchStart(ctx, d.SourceDir, len(names))

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if d.excluded(name) {
			d.Logger.Debug("skipping excluded document", "file", name)
			report.Skipped = append(report.Skipped, name)
			continue
		}

		fr, err := d.ConvertFile(ctx, name)
		if err != nil {
			f := Failure{Name: name, Err: err}
			report.Failures = append(report.Failures, f)
			report.errs = multierror.Append(report.errs, fmt.Errorf("%s: %w", name, err))
			d.Logger.Debug("conversion failed", "file", name, "err", errors.UserMessage(err))
			if d.OnFailed != nil {
				d.OnFailed(f)
			}
			continue
		}
		report.Converted = append(report.Converted, *fr)
		if d.OnConverted != nil {
			d.OnConverted(*fr)
		}
	}

	observability.Batch().OnBatchComplete(ctx, d.SourceDir,
		len(report.Converted), len(report.Failures), len(report.Skipped), time.Since(start))
	return report, nil
}

func (d *Driver) excluded(name string) bool {
	for _, pattern := range d.Exclude {
		if pattern == name {
			return true
		}
		if ok, err := doublestar.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}
