// Package scan reads a WinGet (DSC v2) configuration document line by line
// and extracts its header comments and resource records.
//
// The source format is only approximately YAML, so it is not parsed as YAML.
// Two small state machines walk the lines instead:
//
//   - The header machine copies the leading comment and blank lines and stops
//     at the first line that is neither.
//   - The body machine moves through named zones ([ZonePreamble],
//     [ZoneResources], [ZoneRecord], [ZoneSettings]) driven by marker
//     keywords and indentation widths.
//
// Some transitions are deliberately loose and kept that way because existing
// documents rely on them:
//
//   - once the resources marker is seen the resource list is never left;
//   - the settings zone survives the start of the next resource and is only
//     closed by a dependsOn: marker;
//   - lines read by the dependsOn: lookahead are still visited by the main
//     loop, where they match nothing;
//   - a description: line always sets the record description, even inside
//     the settings block, while an id: line inside the settings block is a
//     setting.
package scan

import (
	"strings"
	"unicode"

	"github.com/matzehuels/dscmigrate/pkg/resource"
)

// Keys recognised inside a resource entry.
const (
	keyID          = "id:"
	keyDescription = "description:"
	keyDirectives  = "directives:"
	keySettings    = "settings:"
	keyDependsOn   = "dependsOn:"
)

// Zone is a state of the body machine.
type Zone int

const (
	// ZonePreamble precedes the resources marker. Nothing is captured.
	ZonePreamble Zone = iota
	// ZoneResources is inside the resource list with no record open.
	ZoneResources
	// ZoneRecord is inside a record, outside its settings block.
	ZoneRecord
	// ZoneSettings captures key/value pairs of the settings block.
	ZoneSettings
)

// String returns the zone name used in trace output.
func (z Zone) String() string {
	switch z {
	case ZonePreamble:
		return "preamble"
	case ZoneResources:
		return "resources"
	case ZoneRecord:
		return "record"
	case ZoneSettings:
		return "settings"
	default:
		return "unknown"
	}
}

// Rewrite is a literal text substitution applied to header comments.
type Rewrite struct {
	From string `toml:"from"`
	To   string `toml:"to"`
}

// Options controls the markers the scanner looks for.
type Options struct {
	// ResourcesMarker enters the resource list when a line contains it.
	// Such lines are consumed and contribute nothing else.
	ResourcesMarker string

	// ResourceStart opens a new record when a trimmed line starts with it.
	// The resource type is the text after its first colon.
	ResourceStart string

	// DependencyPrefix selects dependsOn: items; a line must start with it.
	DependencyPrefix string

	// SettingsDepth is how many spaces deeper than the settings: key a line
	// must be indented to count as a setting.
	SettingsDepth int

	// HeaderTrigger selects the header comments the rewrites apply to.
	HeaderTrigger string

	// HeaderRewrites are applied in order to triggered header comments.
	HeaderRewrites []Rewrite

	// Trace, when set, is called on every zone change with the 1-based
	// line number that caused it.
	Trace func(line int, from, to Zone)
}

// DefaultOptions returns the options for WinGet configuration documents.
func DefaultOptions() Options {
	return Options{
		ResourcesMarker:  "resources:",
		ResourceStart:    "- resource:",
		DependencyPrefix: "        -",
		SettingsDepth:    2,
		HeaderTrigger:    "winget configure",
		HeaderRewrites: []Rewrite{
			{From: "winget configure", To: "dsc config"},
			{From: "--accept-configuration-agreements", To: ""},
		},
	}
}

// Terminator describes how the header ended.
type Terminator int

const (
	// TerminatorEOF means the document holds only comments and blank lines.
	TerminatorEOF Terminator = iota
	// TerminatorDeclaration means a properties: or $schema: line ended it.
	TerminatorDeclaration
	// TerminatorOther means any other line ended it. That line is not
	// copied to the header.
	TerminatorOther
)

// Document is the result of scanning one source document.
type Document struct {
	// Header holds the leading comment and blank lines, rewritten.
	Header []string

	// HeaderEnd records what ended the header.
	HeaderEnd Terminator

	// Records holds the completed resource records in source order.
	Records []resource.Record
}

// SplitLines splits data into lines without their terminators.
// "\r\n" and lone "\r" count as line breaks. A final line break does not
// produce a trailing empty line.
func SplitLines(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}

// Scan extracts the header and resource records from lines.
func Scan(lines []string, opts Options) *Document {
	header, end := scanHeader(lines, opts)
	doc := &Document{Header: header, HeaderEnd: end}

	b := &body{opts: opts, lines: lines}
	for i, line := range lines {
		b.step(i, line)
	}
	b.flush()
	doc.Records = b.records
	return doc
}

// headerState is a state of the header machine.
type headerState int

const (
	headerComments headerState = iota
	headerDone
)

func scanHeader(lines []string, opts Options) ([]string, Terminator) {
	var header []string
	state := headerComments
	end := TerminatorEOF

	for _, line := range lines {
		if state == headerDone {
			break
		}
		stripped := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(stripped, "#"):
			header = append(header, rewriteComment(line, opts))
		case stripped == "":
			header = append(header, line)
		case strings.HasPrefix(stripped, "properties:"), strings.HasPrefix(stripped, "$schema:"):
			state, end = headerDone, TerminatorDeclaration
		default:
			state, end = headerDone, TerminatorOther
		}
	}
	return header, end
}

func rewriteComment(line string, opts Options) string {
	if opts.HeaderTrigger == "" || !strings.Contains(line, opts.HeaderTrigger) {
		return line
	}
	for _, r := range opts.HeaderRewrites {
		line = strings.ReplaceAll(line, r.From, r.To)
	}
	return line
}

// body is the mutable state of the body machine.
type body struct {
	opts  Options
	lines []string

	zone           Zone
	settingsIndent int
	current        *resource.Record
	records        []resource.Record
}

func (b *body) enter(i int, z Zone) {
	if z == b.zone {
		return
	}
	if b.opts.Trace != nil {
		b.opts.Trace(i+1, b.zone, z)
	}
	b.zone = z
}

func (b *body) step(i int, line string) {
	stripped := strings.TrimSpace(line)

	if b.opts.ResourcesMarker != "" && strings.Contains(line, b.opts.ResourcesMarker) {
		if b.zone == ZonePreamble {
			b.enter(i, ZoneResources)
		}
		return
	}
	if b.zone == ZonePreamble {
		return
	}

	if strings.HasPrefix(stripped, b.opts.ResourceStart) {
		b.flush()
		_, resourceType, _ := strings.Cut(stripped, ":")
		b.current = resource.New(strings.TrimSpace(resourceType))
		if b.zone != ZoneSettings {
			b.enter(i, ZoneRecord)
		}
		return
	}
	if b.current == nil {
		return
	}

	switch {
	case strings.HasPrefix(stripped, keySettings):
		b.settingsIndent = indentWidth(line)
		b.enter(i, ZoneSettings)
	case strings.HasPrefix(stripped, keyDependsOn):
		b.enter(i, ZoneRecord)
		b.current.DependsOn = append(b.current.DependsOn, b.dependencies(i+1)...)
	case strings.Contains(stripped, keyDescription) && !strings.Contains(stripped, keyDirectives):
		b.current.Description = valueOf(stripped)
	case b.zone == ZoneSettings && b.inSettings(line):
		if key, value, ok := strings.Cut(stripped, ":"); ok {
			b.current.Settings.Set(strings.TrimSpace(key), strings.TrimSpace(value))
		}
	case strings.HasPrefix(stripped, keyID):
		b.current.ID = valueOf(stripped)
	}
}

// flush completes the open record, if any.
func (b *body) flush() {
	if b.current != nil {
		b.records = append(b.records, *b.current)
		b.current = nil
	}
}

func (b *body) inSettings(line string) bool {
	return strings.HasPrefix(line, strings.Repeat(" ", b.settingsIndent+b.opts.SettingsDepth))
}

// dependencies reads dependsOn: items starting at line from. Blank lines are
// skipped; the first line that is neither blank nor an item stops the read.
func (b *body) dependencies(from int) []string {
	var deps []string
	for _, line := range b.lines[from:] {
		stripped := strings.TrimSpace(line)
		if stripped != "" && !strings.HasPrefix(line, b.opts.DependencyPrefix) {
			break
		}
		if item, ok := strings.CutPrefix(stripped, "-"); ok {
			deps = append(deps, strings.TrimSpace(item))
		}
	}
	return deps
}

func valueOf(stripped string) string {
	_, v, _ := strings.Cut(stripped, ":")
	return strings.TrimSpace(v)
}

func indentWidth(line string) int {
	return len(line) - len(strings.TrimLeftFunc(line, unicode.IsSpace))
}
