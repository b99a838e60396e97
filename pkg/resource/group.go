package resource

import "strings"

// Kind is the output family a record is emitted as.
type Kind int

const (
	// KindOther is any record no marker recognised. It is still emitted
	// inside the grouped container, with settings only.
	KindOther Kind = iota
	// KindPackage is a package-manager resource (WinGet packages).
	KindPackage
	// KindScript is a script resource, emitted as its own container.
	KindScript
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindPackage:
		return "package"
	case KindScript:
		return "script"
	default:
		return "other"
	}
}

// Default resource type markers.
const (
	DefaultPackageMarker = "WinGetPackage"
	DefaultScriptMarker  = "PSDscResources/Script"
)

// Classifier decides a record's Kind by substring tests on its type.
// The package marker is tested first.
type Classifier struct {
	PackageMarker string
	ScriptMarker  string
}

// DefaultClassifier returns the classifier for WinGet configuration documents.
func DefaultClassifier() Classifier {
	return Classifier{
		PackageMarker: DefaultPackageMarker,
		ScriptMarker:  DefaultScriptMarker,
	}
}

// Kind classifies a resource type.
func (c Classifier) Kind(resourceType string) Kind {
	switch {
	case c.PackageMarker != "" && strings.Contains(resourceType, c.PackageMarker):
		return KindPackage
	case c.ScriptMarker != "" && strings.Contains(resourceType, c.ScriptMarker):
		return KindScript
	default:
		return KindOther
	}
}

// Item is a record together with its classification.
type Item struct {
	Record
	Kind Kind
}

// Buckets partitions records by Kind. Each slice keeps source order.
type Buckets struct {
	Packages []Record
	Scripts  []Record
	Others   []Record
}

// Group partitions records into buckets. Every record lands in exactly one.
func (c Classifier) Group(records []Record) Buckets {
	var b Buckets
	for _, r := range records {
		switch c.Kind(r.Type) {
		case KindPackage:
			b.Packages = append(b.Packages, r)
		case KindScript:
			b.Scripts = append(b.Scripts, r)
		default:
			b.Others = append(b.Others, r)
		}
	}
	return b
}

// Grouped returns the items of the grouped container: packages first, then
// others.
func (b Buckets) Grouped() []Item {
	items := make([]Item, 0, len(b.Packages)+len(b.Others))
	for _, r := range b.Packages {
		items = append(items, Item{Record: r, Kind: KindPackage})
	}
	for _, r := range b.Others {
		items = append(items, Item{Record: r, Kind: KindOther})
	}
	return items
}

// HasGroup reports whether a grouped container is emitted.
func (b Buckets) HasGroup() bool {
	return len(b.Packages) > 0 || len(b.Others) > 0
}

// Unhandled returns the records no marker recognised.
func (b Buckets) Unhandled() []Record {
	return b.Others
}

// Len returns the total number of records.
func (b Buckets) Len() int {
	return len(b.Packages) + len(b.Scripts) + len(b.Others)
}
