// Package convert ties scanning, grouping and emission together and drives
// conversions over a filesystem.
//
// A [Converter] turns the bytes of one WinGet configuration document into the
// bytes of a DSC v3 document. A [Driver] resolves source and destination
// paths, selects batch inputs and reports per-file outcomes. Everything runs
// sequentially: one file is read, converted in memory and written before the
// next one is opened.
package convert

import (
	"github.com/matzehuels/dscmigrate/pkg/emit"
	"github.com/matzehuels/dscmigrate/pkg/errors"
	"github.com/matzehuels/dscmigrate/pkg/resource"
	"github.com/matzehuels/dscmigrate/pkg/scan"
)

// Converter converts single documents.
type Converter struct {
	Scan       scan.Options
	Classifier resource.Classifier
	Emitter    *emit.Emitter
}

// NewConverter returns a converter with the default markers and templates.
func NewConverter() *Converter {
	return &Converter{
		Scan:       scan.DefaultOptions(),
		Classifier: resource.DefaultClassifier(),
		Emitter:    emit.New(emit.DefaultTemplates()),
	}
}

// Result is the outcome of converting one document.
type Result struct {
	Output      []byte
	Document    *scan.Document
	Buckets     resource.Buckets
	Diagnostics []emit.Diagnostic
}

// Convert converts src. name is the source path; its base name titles the
// grouped container.
func (c *Converter) Convert(src []byte, name string) (*Result, error) {
	if c.Emitter == nil {
		return nil, errors.New(errors.ErrCodeInternal, "converter for %s has no emitter", name)
	}
	doc := scan.Scan(scan.SplitLines(src), c.Scan)
	buckets := c.Classifier.Group(doc.Records)

	out, diags, err := c.Emitter.Render(doc.Header, buckets, name)
	if err != nil {
		return nil, err
	}
	return &Result{
		Output:      out,
		Document:    doc,
		Buckets:     buckets,
		Diagnostics: diags,
	}, nil
}
