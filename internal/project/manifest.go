package project

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Manifest is the decoded lumen.toml.
type Manifest struct {
	Package      PackageConfig     `toml:"package"`
	Dependencies map[string]string `toml:"dependencies"`
	Build        BuildConfig       `toml:"build"`
}

type PackageConfig struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// BuildConfig - параметры backend-сборки.
type BuildConfig struct {
	OutDir string `toml:"out_dir"`
	Opt    string `toml:"opt"`
}

var (
	// ErrPackageSectionMissing indicates that [package] is missing.
	ErrPackageSectionMissing = errors.New("missing [package]")
	// ErrPackageNameMissing indicates that [package].name is missing or empty.
	ErrPackageNameMissing = errors.New("missing [package].name")
)

// Project is a located and decoded manifest.
type Project struct {
	ManifestPath string
	Root         string
	Manifest     Manifest
}

// OutDir is the absolute build output directory.
func (p *Project) OutDir() string {
	return filepath.Join(p.Root, filepath.FromSlash(p.Manifest.Build.OutDir))
}

// DefaultManifest returns the manifest written by `lumen new`/`lumen init`.
func DefaultManifest(name string) Manifest {
	return Manifest{
		Package:      PackageConfig{Name: name, Version: "0.1.0"},
		Dependencies: map[string]string{},
		Build:        BuildConfig{OutDir: "target", Opt: "0"},
	}
}

// LoadManifest parses lumen.toml and fills defaults.
func LoadManifest(path string) (Manifest, error) {
	var cfg Manifest
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Manifest{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return Manifest{}, fmt.Errorf("%s: %w", path, ErrPackageSectionMissing)
	}
	cfg.Package.Name = strings.TrimSpace(cfg.Package.Name)
	if cfg.Package.Name == "" {
		return Manifest{}, fmt.Errorf("%s: %w", path, ErrPackageNameMissing)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Manifest{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	if cfg.Build.OutDir == "" {
		cfg.Build.OutDir = "target"
	}
	if cfg.Build.Opt == "" {
		cfg.Build.Opt = "0"
	}
	return cfg, nil
}

// Load finds lumen.toml above startDir and decodes it.
func Load(startDir string) (*Project, bool, error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadManifest(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &Project{
		ManifestPath: manifestPath,
		Root:         filepath.Dir(manifestPath),
		Manifest:     cfg,
	}, true, nil
}

// Encode renders the manifest as TOML.
func (m Manifest) Encode() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("# Lumen project manifest\n")
	if err := toml.NewEncoder(&buf).Encode(m); err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	return buf.Bytes(), nil
}
