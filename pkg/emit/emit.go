// Package emit writes DSC v3 configuration documents from scanned resource
// records.
//
// Output is produced line by line from a [Templates] table so that every
// fixed block (schema lines, metadata, the OS assertion, container shapes and
// per-kind defaults) is data rather than code. The emitter does not validate
// its output.
//
// Layout of an emitted document:
//
//	<schema lines>
//
//	<header comments>
//
//	metadata: ...
//
//	resources:
//	  <assertion>
//
//	  <grouped container: packages then others>   (when any exist)
//
//	  <one container per script resource>
package emit

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/matzehuels/dscmigrate/pkg/errors"
	"github.com/matzehuels/dscmigrate/pkg/resource"
)

// Indentation used by the container templates.
const (
	itemIndent     = "        "
	propertyIndent = "            "
)

// Diagnostic reports a resource that could not be translated faithfully.
// The document is still emitted.
type Diagnostic struct {
	Code     errors.Code
	Resource string
	Type     string
	Message  string
}

// String formats the diagnostic for logs.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s (%s): %s", d.Code, d.Resource, d.Type, d.Message)
}

// Emitter writes documents using a template table.
type Emitter struct {
	Templates Templates
}

// New creates an emitter. A zero Templates value is replaced by
// DefaultTemplates.
func New(t Templates) *Emitter {
	if len(t.Schema) == 0 && len(t.Assertion) == 0 {
		t = DefaultTemplates()
	}
	return &Emitter{Templates: t}
}

// Render emits the document into a buffer.
func (e *Emitter) Render(header []string, b resource.Buckets, filename string) ([]byte, []Diagnostic, error) {
	var buf bytes.Buffer
	diags, err := e.Emit(&buf, header, b, filename)
	if err != nil {
		return nil, diags, err
	}
	return buf.Bytes(), diags, nil
}

// Emit writes the document for b to w. filename names the grouped
// container. Diagnostics are returned for unhandled resource kinds and for
// dependencies the grouped container cannot express.
func (e *Emitter) Emit(w io.Writer, header []string, b resource.Buckets, filename string) ([]Diagnostic, error) {
	bw := bufio.NewWriter(w)
	t := e.Templates

	for _, line := range t.Schema {
		writeLine(bw, line)
	}
	writeLine(bw, "")

	for _, line := range header {
		writeLine(bw, line)
	}

	writeLine(bw, "")
	for _, line := range t.Metadata {
		writeLine(bw, line)
	}
	writeLine(bw, "")

	writeLine(bw, "resources:")
	for _, line := range t.Assertion {
		writeLine(bw, line)
	}
	writeLine(bw, "")

	var diags []Diagnostic
	if b.HasGroup() {
		diags = append(diags, e.writeGroup(bw, b, filename)...)
	}
	for _, r := range b.Scripts {
		e.writeScript(bw, r)
	}

	if err := bw.Flush(); err != nil {
		return diags, errors.Wrap(errors.ErrCodeWriteFailed, err, "emit %s", filename)
	}
	return diags, nil
}

func (e *Emitter) writeGroup(w *bufio.Writer, b resource.Buckets, filename string) []Diagnostic {
	t := e.Templates
	var diags []Diagnostic

	writeLine(w, "  - name: "+GroupName(t.Group, filename))
	writeLine(w, "    type: "+t.Group.Type)
	writeLine(w, "    properties:")
	writeLine(w, "      resources:")

	for _, item := range b.Grouped() {
		kt, known := t.Kinds[item.Kind]
		if item.Kind == resource.KindOther {
			diags = append(diags, Diagnostic{
				Code:     errors.ErrCodeUnhandledResource,
				Resource: item.ID,
				Type:     item.Type,
				Message:  "no template for resource type; emitted with settings only",
			})
		}

		writeLine(w, itemIndent+"- name: "+item.ID)
		writeLine(w, itemIndent+"  type: "+item.Type)
		writeLine(w, itemIndent+"  properties:")

		for _, key := range item.Settings.Keys() {
			value, _ := item.Settings.Get(key)
			if renamed, ok := kt.KeyRenames[key]; ok {
				key = renamed
			}
			writeLine(w, propertyIndent+key+": "+value)
		}
		for _, d := range kt.Defaults {
			if !item.Settings.Has(d.Key) {
				writeLine(w, propertyIndent+d.Key+": "+d.Value)
			}
		}

		if len(item.DependsOn) > 0 {
			writeLine(w, itemIndent+"  dependsOn:")
			if known && kt.DependencyRef != "" {
				for _, dep := range item.DependsOn {
					writeLine(w, propertyIndent+"- "+quote(fmt.Sprintf(kt.DependencyRef, dep)))
				}
			} else {
				diags = append(diags, Diagnostic{
					Code:     errors.ErrCodeDroppedDependency,
					Resource: item.ID,
					Type:     item.Type,
					Message:  "dependencies not emitted: " + strings.Join(item.DependsOn, ", "),
				})
			}
		}
		writeLine(w, "")
	}

	writeLine(w, "    dependsOn:")
	writeLine(w, "      - "+quote(t.AssertionRef))
	writeLine(w, "")
	return diags
}

func (e *Emitter) writeScript(w *bufio.Writer, r resource.Record) {
	t := e.Templates.Script

	name := r.Description
	if name == "" {
		name = t.DefaultName
	}

	writeLine(w, "  - name: "+r.ID)
	writeLine(w, "    type: "+t.ContainerType)
	writeLine(w, "    properties:")
	writeLine(w, "      resources:")
	writeLine(w, itemIndent+"- name: "+name)
	writeLine(w, itemIndent+"  type: "+t.ResourceType)
	writeLine(w, itemIndent+"  properties:")
	for _, line := range t.Body {
		writeLine(w, propertyIndent+line)
	}

	writeLine(w, "    dependsOn:")
	writeLine(w, "      - "+quote(e.Templates.AssertionRef))
	for _, dep := range r.DependsOn {
		writeLine(w, "      - "+quote(fmt.Sprintf(t.DependencyRef, dep)))
	}
	writeLine(w, "")
}

// GroupName derives the grouped container name from a document file name.
func GroupName(g GroupTemplate, filename string) string {
	name := filepath.Base(filename)
	for _, s := range g.StripSuffixes {
		name = strings.ReplaceAll(name, s, "")
	}
	return Title(name) + g.NameSuffix
}

// Title upper-cases every letter that follows a non-letter and lower-cases
// the rest, so "dev-tools" becomes "Dev-Tools" and "web3app" "Web3App".
func Title(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				sb.WriteRune(unicode.ToLower(r))
			} else {
				sb.WriteRune(unicode.ToTitle(r))
			}
			prevLetter = true
			continue
		}
		sb.WriteRune(r)
		prevLetter = false
	}
	return sb.String()
}

func quote(s string) string {
	return `"` + s + `"`
}

// writeLine writes line and a newline. bufio.Writer keeps the first error
// and reports it from Flush.
func writeLine(w *bufio.Writer, line string) {
	w.WriteString(line)
	w.WriteByte('\n')
}
