package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

func TestScaffoldAndLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "hello")
	res, err := Scaffold(dir)
	if err != nil {
		t.Fatalf("Scaffold: %v", err)
	}
	be.Equal(t, res.Name, "hello")
	be.True(t, res.CreatedMain)

	main, err := os.ReadFile(filepath.Join(dir, "src", "main.lm"))
	if err != nil {
		t.Fatalf("read main: %v", err)
	}
	be.True(t, strings.Contains(string(main), "fn main()"))

	nested := filepath.Join(dir, "src")
	proj, ok, err := Load(nested)
	if err != nil || !ok {
		t.Fatalf("Load from %s: ok=%v err=%v", nested, ok, err)
	}
	be.Equal(t, proj.Root, dir)
	be.Equal(t, proj.Manifest.Package.Name, "hello")
	be.Equal(t, proj.Manifest.Package.Version, "0.1.0")
	be.Equal(t, proj.OutDir(), filepath.Join(dir, "target"))

	if _, err := Scaffold(dir); err == nil {
		t.Fatalf("second Scaffold must refuse an existing manifest")
	}
}

func TestScaffoldKeepsExistingMain(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "src"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "src", "main.lm"), []byte("fn main() {}\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	res, err := Scaffold(dir)
	if err != nil {
		t.Fatalf("Scaffold: %v", err)
	}
	be.True(t, !res.CreatedMain)
}

func TestLoadManifestErrors(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"no package", "[build]\nout_dir = \"out\"\n", "missing [package]"},
		{"no name", "[package]\nversion = \"1\"\n", "missing [package].name"},
		{"unknown key", "[package]\nname = \"x\"\nedition = 2\n", "unknown key"},
		{"bad toml", "[package\n", "failed to parse TOML"},
	}
	for _, tc := range cases {
		path := filepath.Join(t.TempDir(), ManifestName)
		if err := os.WriteFile(path, []byte(tc.content), 0o600); err != nil {
			t.Fatal(err)
		}
		_, err := LoadManifest(path)
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: got %v, want error containing %q", tc.name, err, tc.want)
		}
	}
}

func TestLoadManifestDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), ManifestName)
	content := "[package]\nname = \"demo\"\n\n[dependencies]\nfoo = \"1.0\"\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	be.Equal(t, m.Build.OutDir, "target")
	be.Equal(t, m.Build.Opt, "0")
	be.Equal(t, m.Dependencies["foo"], "1.0")
}

func TestModuleDigestIsOrderSensitive(t *testing.T) {
	a, b, c := Digest{1}, Digest{2}, Digest{3}
	be.True(t, ModuleDigest("src::m", a, b, c) != ModuleDigest("src::m", a, c, b))
	be.Equal(t, ModuleDigest("src::m", a, b), ModuleDigest("src::m", a, b))
}
