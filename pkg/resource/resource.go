// Package resource defines the in-memory form of a declared configuration
// resource and the classification used to route it to an output template.
//
// Records are built by package scan from a v2 (WinGet) configuration
// document, partitioned here into [Buckets], and re-emitted by package emit
// under the DSC v3 schema.
package resource

// Record is one resource entry parsed from a source document.
type Record struct {
	// Type is the declared resource type (e.g. "Microsoft.WinGet.DSC/WinGetPackage").
	// It is never empty once a record exists.
	Type string

	// ID is the declared identifier, empty when the source has none.
	ID string

	// Description is the optional free-text description.
	Description string

	// Settings holds the flattened key/value pairs of the settings block.
	Settings Settings

	// DependsOn lists the identifiers this resource depends on, in source order.
	DependsOn []string
}

// New creates a record of the given type with empty fields.
func New(resourceType string) *Record {
	return &Record{Type: resourceType}
}

// Settings is an insertion-ordered string map.
// Setting an existing key replaces its value and keeps its position.
// The zero value is ready to use.
type Settings struct {
	keys   []string
	values map[string]string
}

// Set stores value under key.
func (s *Settings) Set(key, value string) {
	if s.values == nil {
		s.values = make(map[string]string)
	}
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
}

// Get returns the value stored under key.
func (s Settings) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Has reports whether key is present.
func (s Settings) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

// Keys returns the keys in insertion order.
func (s Settings) Keys() []string {
	return append([]string(nil), s.keys...)
}

// Len returns the number of keys.
func (s Settings) Len() int { return len(s.keys) }

// Equal reports whether both maps hold the same pairs in the same order.
func (s Settings) Equal(o Settings) bool {
	if len(s.keys) != len(o.keys) {
		return false
	}
	for i, k := range s.keys {
		if o.keys[i] != k || o.values[k] != s.values[k] {
			return false
		}
	}
	return true
}

// SettingsOf builds Settings from alternating key/value pairs.
// A trailing key without a value is ignored.
func SettingsOf(pairs ...string) Settings {
	var s Settings
	for i := 0; i+1 < len(pairs); i += 2 {
		s.Set(pairs[i], pairs[i+1])
	}
	return s
}
