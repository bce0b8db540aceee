package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"lumen/internal/project"
)

// projectTarget is the project a command works on. Manifest is nil when
// the directory has no lumen.toml; the build then uses defaults.
type projectTarget struct {
	Root     string
	Manifest *project.Manifest
}

// Name is the output name: the package name or the directory name.
func (p projectTarget) Name() string {
	if p.Manifest != nil && p.Manifest.Package.Name != "" {
		return p.Manifest.Package.Name
	}
	return filepath.Base(p.Root)
}

// OutDir is the absolute artifact directory.
func (p projectTarget) OutDir() string {
	rel := "target"
	if p.Manifest != nil && p.Manifest.Build.OutDir != "" {
		rel = p.Manifest.Build.OutDir
	}
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(p.Root, filepath.FromSlash(rel))
}

// Opt is the manifest optimization level, "0" by default.
func (p projectTarget) Opt() string {
	if p.Manifest != nil && p.Manifest.Build.Opt != "" {
		return p.Manifest.Build.Opt
	}
	return "0"
}

// resolveTarget picks the project from the optional [dir] argument. The
// manifest is searched upwards from dir; without one, dir itself must
// hold src/main.lm.
func resolveTarget(args []string) (projectTarget, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return projectTarget{}, err
	}
	st, err := os.Stat(abs)
	if err != nil {
		return projectTarget{}, fmt.Errorf("project directory: %w", err)
	}
	if !st.IsDir() {
		return projectTarget{}, fmt.Errorf("%s is not a directory", dir)
	}

	proj, found, err := project.Load(abs)
	if err != nil {
		return projectTarget{}, err
	}
	if found {
		return projectTarget{Root: proj.Root, Manifest: &proj.Manifest}, nil
	}

	entry := filepath.Join(abs, filepath.FromSlash(project.EntryRel))
	if _, err := os.Stat(entry); errors.Is(err, os.ErrNotExist) {
		return projectTarget{}, fmt.Errorf("no %s found in %s or its parents, and no %s (run `lumen init`)",
			project.ManifestName, abs, project.EntryRel)
	}
	return projectTarget{Root: abs}, nil
}
