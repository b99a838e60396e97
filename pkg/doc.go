// Package pkg provides the libraries behind dscmigrate, a converter from
// WinGet (DSC v2) configuration documents to DSC v3 configuration documents.
//
// # Overview
//
// A source document is read as lines, never as YAML, and flows through four
// stages:
//
//	source document bytes
//	         ↓
//	    [scan] header comments + resource records
//	         ↓
//	    [resource] records grouped into packages, scripts and others
//	         ↓
//	    [emit] DSC v3 document written from a template table
//	         ↓
//	    destination document bytes
//
// [convert] ties the stages together and drives them over a filesystem, and
// [config] loads optional TOML settings for every stage.
//
// # Quick Start
//
//	import (
//	    "github.com/go-git/go-billy/v5/osfs"
//
//	    "github.com/matzehuels/dscmigrate/pkg/convert"
//	)
//
//	d := convert.NewDriver(osfs.New("."), nil)
//	report, err := d.ConvertAll(ctx)
//	if err != nil {
//	    return err // source directory unreadable
//	}
//	for _, f := range report.Failures {
//	    fmt.Printf("Error converting %s: %v\n", f.Name, f.Err)
//	}
//
// # Supporting Packages
//
//   - [errors]: coded errors shared by every stage
//   - [observability]: hooks fired around conversions
//   - [buildinfo]: version data for the CLI
//
// [scan]: https://pkg.go.dev/github.com/matzehuels/dscmigrate/pkg/scan
// [resource]: https://pkg.go.dev/github.com/matzehuels/dscmigrate/pkg/resource
// [emit]: https://pkg.go.dev/github.com/matzehuels/dscmigrate/pkg/emit
// [convert]: https://pkg.go.dev/github.com/matzehuels/dscmigrate/pkg/convert
// [config]: https://pkg.go.dev/github.com/matzehuels/dscmigrate/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/dscmigrate/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/dscmigrate/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/dscmigrate/pkg/buildinfo
package pkg
