package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/matzehuels/dscmigrate/pkg/errors"
)

const wingetDoc = `# Run: winget configure -f dev-configuration.dsc.yaml
properties:
  resources:
    - resource: Microsoft.WinGet.DSC/WinGetPackage
      id: git
      directives:
        description: Install Git
      settings:
        id: Git.Git
        source: winget
  configurationVersion: 0.2.0
`

const unhandledDoc = `properties:
  resources:
    - resource: Microsoft.Windows.Developer/DeveloperMode
      id: devmode
      settings:
        Ensure: Present
`

func newTestCLI(t *testing.T, files map[string]string) (*CLI, *bytes.Buffer, billy.Filesystem) {
	t.Helper()
	fs := memfs.New()
	for name, content := range files {
		if err := util.WriteFile(fs, name, []byte(content), 0644); err != nil {
			t.Fatalf("seed %s: %v", name, err)
		}
	}
	var out bytes.Buffer
	c := &CLI{Logger: newLogger(io.Discard, LogInfo), Out: &out, FS: fs}
	return c, &out, fs
}

func execute(c *CLI, args ...string) error {
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func readFile(t *testing.T, fs billy.Filesystem, name string) string {
	t.Helper()
	data, err := util.ReadFile(fs, name)
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return string(data)
}

func TestBatch(t *testing.T) {
	c, out, fs := newTestCLI(t, map[string]string{
		"configurations-dscv2-backup/dev-configuration.dsc.yaml": wingetDoc,
		"configurations-dscv2-backup/os-configuration.dsc.yaml":  wingetDoc,
		"configurations-dscv2-backup/notes.txt":                  "notes",
	})

	if err := execute(c); err != nil {
		t.Fatalf("execute: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"Converted configurations-dscv2-backup/dev-configuration.dsc.yaml -> configurations/dev-configuration.dsc.yaml",
		"skipped os-configuration.dsc.yaml",
		"converted",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Converted configurations-dscv2-backup/os-configuration") {
		t.Errorf("excluded document was converted:\n%s", got)
	}

	doc := readFile(t, fs, "configurations/dev-configuration.dsc.yaml")
	if !strings.Contains(doc, "# Run: dsc config -f dev-configuration.dsc.yaml") {
		t.Errorf("header not rewritten:\n%s", doc)
	}
	if _, err := fs.Stat("configurations/os-configuration.dsc.yaml"); err == nil {
		t.Error("excluded document was written")
	}
}

func TestBatchReportsDiagnostics(t *testing.T) {
	c, out, _ := newTestCLI(t, map[string]string{
		"configurations-dscv2-backup/dev-configuration.dsc.yaml": unhandledDoc,
	})

	if err := execute(c); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got := out.String(); !strings.Contains(got, "dev-configuration.dsc.yaml: devmode (Microsoft.Windows.Developer/DeveloperMode)") {
		t.Errorf("output missing diagnostic:\n%s", got)
	}
}

func TestBatchMissingSourceDir(t *testing.T) {
	c, _, _ := newTestCLI(t, nil)

	err := execute(c)
	if !errors.Is(err, errors.ErrCodeReadFailed) {
		t.Errorf("err = %v, want READ_FAILED", err)
	}
}

func TestSingleFile(t *testing.T) {
	c, out, fs := newTestCLI(t, map[string]string{
		"configurations-dscv2-backup/os-configuration.dsc.yaml": wingetDoc,
	})

	if err := execute(c, "os-configuration.dsc.yaml"); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out.String(), "-> configurations/os-configuration.dsc.yaml") {
		t.Errorf("output = %q", out.String())
	}
	readFile(t, fs, "configurations/os-configuration.dsc.yaml")
}

func TestSingleFileMissing(t *testing.T) {
	c, out, _ := newTestCLI(t, nil)

	err := execute(c, "absent.dsc.yaml")
	if err != ErrConversionFailed {
		t.Fatalf("err = %v, want ErrConversionFailed", err)
	}
	if !strings.Contains(out.String(), "Error converting absent.dsc.yaml") {
		t.Errorf("output = %q", out.String())
	}
}

func TestTooManyArgs(t *testing.T) {
	c, _, _ := newTestCLI(t, nil)
	if err := execute(c, "a.dsc.yaml", "b.dsc.yaml"); err == nil {
		t.Error("execute accepted two file names")
	}
}

func TestDirectoryFlags(t *testing.T) {
	c, _, fs := newTestCLI(t, map[string]string{
		"in/dev-configuration.dsc.yaml": wingetDoc,
	})

	if err := execute(c, "--source", "in", "--dest", "out"); err != nil {
		t.Fatalf("execute: %v", err)
	}
	readFile(t, fs, "out/dev-configuration.dsc.yaml")
}

func TestConfigFile(t *testing.T) {
	c, _, fs := newTestCLI(t, map[string]string{
		"configurations-dscv2-backup/dev-configuration.dsc.yaml": wingetDoc,
	})
	path := filepath.Join(t.TempDir(), "dscmigrate.toml")
	if err := os.WriteFile(path, []byte("group_suffix = \" Tools\"\ndest_dir = \"converted\"\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if err := execute(c, "--config", path); err != nil {
		t.Fatalf("execute: %v", err)
	}
	doc := readFile(t, fs, "converted/dev-configuration.dsc.yaml")
	if !strings.Contains(doc, "  - name: Dev Tools\n") {
		t.Errorf("group suffix not applied:\n%s", doc)
	}
}

func TestInvalidConfigFile(t *testing.T) {
	c, _, _ := newTestCLI(t, nil)
	path := filepath.Join(t.TempDir(), "dscmigrate.toml")
	if err := os.WriteFile(path, []byte("suffix = \"a/b\"\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if err := execute(c, "--config", path); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("err = %v, want INVALID_CONFIG", err)
	}
}

func TestVersionFlag(t *testing.T) {
	c, _, _ := newTestCLI(t, nil)
	root := c.RootCommand()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"--version"})

	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(buf.String(), "dscmigrate version") {
		t.Errorf("version output = %q", buf.String())
	}
}

func TestHostFilesystem(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "backup")
	dst := filepath.Join(dir, "converted")
	if err := os.MkdirAll(src, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(src, "dev-configuration.dsc.yaml"), []byte(wingetDoc), 0644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	var out bytes.Buffer
	c := &CLI{Logger: newLogger(io.Discard, LogInfo), Out: &out}
	if err := execute(c, "--source", src, "--dest", dst); err != nil {
		t.Fatalf("execute: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dst, "dev-configuration.dsc.yaml"))
	if err != nil {
		t.Fatalf("read converted document: %v", err)
	}
	if !strings.Contains(string(data), "  - name: Dev Development Tools\n") {
		t.Errorf("converted document lacks group container:\n%s", data)
	}
	if !strings.Contains(out.String(), "Converted ") {
		t.Errorf("output = %q", out.String())
	}

	if err := execute(c, "--source", src, "--dest", dst, "dev-configuration.dsc.yaml"); err != nil {
		t.Fatalf("execute single file: %v", err)
	}
}
