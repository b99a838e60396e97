package emit

import (
	"github.com/matzehuels/dscmigrate/pkg/resource"
)

// Setting is one key/value pair of a template.
type Setting struct {
	Key   string `toml:"key"`
	Value string `toml:"value"`
}

// KindTemplate controls how grouped items of one kind are written.
type KindTemplate struct {
	// KeyRenames maps a source settings key to the key written out.
	KeyRenames map[string]string

	// Defaults are appended, in order, when the source settings lack the key.
	Defaults []Setting

	// DependencyRef is a resourceId expression with one %s verb for the
	// dependency name. Empty means dependencies are dropped.
	DependencyRef string
}

// GroupTemplate describes the container bundling package and other items.
type GroupTemplate struct {
	// Type is the container resource type.
	Type string

	// NameSuffix is appended to the title-cased document name.
	NameSuffix string

	// StripSuffixes are removed, in order, from the file name before title
	// casing.
	StripSuffixes []string
}

// ScriptTemplate describes the container written for each script resource.
type ScriptTemplate struct {
	// ContainerType is the type of the top-level container.
	ContainerType string

	// ResourceType is the type of the nested script resource.
	ResourceType string

	// DefaultName names the nested resource when the record has no
	// description.
	DefaultName string

	// Body is written verbatim under the nested resource's properties.
	// The source script is never carried over.
	Body []string

	// DependencyRef is the resourceId expression for each dependsOn entry.
	DependencyRef string
}

// Templates is the table of fixed output blocks.
type Templates struct {
	// Schema lines open the document; a blank line follows them.
	Schema []string

	// Metadata is written after the header comments.
	Metadata []string

	// Assertion is written right after the resources: key.
	Assertion []string

	// AssertionRef is the dependency expression every container carries.
	AssertionRef string

	Group  GroupTemplate
	Script ScriptTemplate

	// Kinds holds per-kind rules for grouped items. Kinds without an entry
	// get settings only.
	Kinds map[resource.Kind]KindTemplate
}

// Default expressions for DSC v3 documents.
const (
	schemaURL     = "https://aka.ms/dsc/schemas/v3/bundled/config/document.json"
	wingetRef     = "[resourceId('Microsoft.WinGet.DSC/WinGetPackage','%s')]"
	assertionName = "assert-windows"
)

// DefaultTemplates returns the templates for WinGet to DSC v3 migration.
func DefaultTemplates() Templates {
	return Templates{
		Schema: []string{
			"# yaml-language-server: $schema=https://raw.githubusercontent.com/PowerShell/DSC/main/schemas/2024/04/bundled/config/document.vscode.json",
			"$schema: " + schemaURL,
		},
		Metadata: []string{
			"metadata:",
			"  Microsoft.DSC:",
			"    securityContext: elevated",
		},
		Assertion: []string{
			"  - name: " + assertionName,
			"    type: Microsoft.DSC/Assertion",
			"    properties:",
			"      $schema: " + schemaURL,
			"      resources:",
			"        - name: os",
			"          type: Microsoft/OSInfo",
			"          properties:",
			"            family: Windows",
		},
		AssertionRef: "[resourceId('Microsoft.DSC/Assertion','" + assertionName + "')]",
		Group: GroupTemplate{
			Type:          "Microsoft.DSC/PowerShell",
			NameSuffix:    " Development Tools",
			StripSuffixes: []string{"-configuration.dsc.yaml", ".dsc.yaml"},
		},
		Script: ScriptTemplate{
			ContainerType: "Microsoft.Windows/WindowsPowerShell",
			ResourceType:  "PSDesiredStateConfiguration/Script",
			DefaultName:   "PowerShell Script",
			Body: []string{
				"GetScript: |",
				"  return @{ Result = 'Not implemented' }",
				"TestScript: |",
				"  return $false",
				"SetScript: |",
				"  # Implementation needed",
			},
			DependencyRef: wingetRef,
		},
		Kinds: map[resource.Kind]KindTemplate{
			resource.KindPackage: {
				KeyRenames: map[string]string{"id": "Id"},
				Defaults: []Setting{
					{Key: "UseLatest", Value: "true"},
					{Key: "Ensure", Value: "Present"},
				},
				DependencyRef: wingetRef,
			},
		},
	}
}
