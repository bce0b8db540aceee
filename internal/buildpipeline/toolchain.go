package buildpipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	runtimeembed "lumen/runtime"
)

var errClangMissing = errors.New("clang not found; install with: sudo apt-get update && sudo apt-get install -y clang llvm")

func ensureClangAvailable() error {
	if _, err := exec.LookPath("clang"); err != nil {
		return errClangMissing
	}
	return nil
}

// commander runs external tools, optionally echoing each command line.
type commander struct {
	verbose bool
	mu      sync.Mutex
	out     io.Writer
}

func newCommander(verbose bool, out io.Writer) *commander {
	if out == nil {
		out = os.Stdout
	}
	return &commander{verbose: verbose, out: out}
}

func (c *commander) echo(format string, args ...any) error {
	if !c.verbose {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := fmt.Fprintf(c.out, format+"\n", args...); err != nil {
		return fmt.Errorf("failed to print command: %w", err)
	}
	return nil
}

func (c *commander) run(ctx context.Context, name string, args ...string) error {
	if err := c.echo("%s %s", name, strings.Join(args, " ")); err != nil {
		return err
	}
	// #nosec G204 -- имена инструментов фиксированы, аргументы - пути сборки
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return fmt.Errorf("%s: %w", name, err)
		}
		return fmt.Errorf("%s: %s", name, msg)
	}
	return nil
}

func compileLLVMIR(ctx context.Context, cmd *commander, req *BuildRequest, llPath, objPath string) error {
	clangErr := cmd.run(ctx, "clang", "-c", "-x", "ir", "-O"+req.Opt, "-target", req.TargetTriple, llPath, "-o", objPath)
	if clangErr == nil {
		return nil
	}
	if ctx.Err() != nil {
		return clangErr
	}
	llcPath, llcErr := exec.LookPath("llc")
	if llcErr != nil {
		return clangErr
	}
	args := []string{"-filetype=obj", "-O=" + llcLevel(req.Opt), "-mtriple=" + req.TargetTriple, llPath, "-o", objPath}
	if err := cmd.run(ctx, llcPath, args...); err != nil {
		return fmt.Errorf("clang and llc failed: %w", errors.Join(clangErr, err))
	}
	return cmd.echo("note: clang IR compile failed for %s; fell back to llc", filepath.Base(llPath))
}

// llcLevel maps clang's size levels onto llc, which knows only 0-3.
func llcLevel(opt string) string {
	switch opt {
	case "s", "z":
		return "2"
	}
	return opt
}

func extractNativeRuntime(tmpDir string) (runtimeDir string, sources []string, err error) {
	runtimeDir = filepath.Join(tmpDir, "native_runtime")
	if err := os.MkdirAll(runtimeDir, 0o750); err != nil {
		return "", nil, fmt.Errorf("failed to create native runtime dir: %w", err)
	}

	fsys := runtimeembed.NativeRuntimeFS()
	walkErr := fs.WalkDir(fsys, "native", func(entryPath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !runtimeFileAllowed(entryPath) {
			return nil
		}
		dst := filepath.Join(runtimeDir, filepath.FromSlash(strings.TrimPrefix(entryPath, "native/")))
		data, err := fs.ReadFile(fsys, entryPath)
		if err != nil {
			return err
		}
		if err := os.WriteFile(dst, data, 0o600); err != nil {
			return err
		}
		if strings.HasSuffix(entryPath, ".c") {
			sources = append(sources, dst)
		}
		return nil
	})
	if walkErr != nil {
		return "", nil, fmt.Errorf("failed to extract embedded runtime sources: %w", walkErr)
	}
	if len(sources) == 0 {
		return "", nil, errors.New("embedded runtime sources missing (build bug)")
	}
	sort.Strings(sources)
	return runtimeDir, sources, nil
}

// runtimeFileAllowed filters platform-suffixed runtime files.
func runtimeFileAllowed(entryPath string) bool {
	base := strings.TrimSuffix(path.Base(entryPath), path.Ext(entryPath))
	for _, goos := range []string{"linux", "darwin", "windows"} {
		if strings.HasSuffix(base, "_"+goos) {
			return runtime.GOOS == goos
		}
	}
	return true
}

func compileRuntimeSource(ctx context.Context, cmd *commander, opt, src, obj string) error {
	args := []string{"-c", "-std=c11", "-O" + opt}
	if runtime.GOOS != "windows" {
		args = append(args, "-pthread")
	}
	args = append(args, src, "-o", obj)
	if err := cmd.run(ctx, "clang", args...); err != nil {
		return fmt.Errorf("runtime %s: %w", filepath.Base(src), err)
	}
	return nil
}

func archiveRuntime(ctx context.Context, cmd *commander, runtimeDir string, objs []string) (string, error) {
	if _, err := exec.LookPath("ar"); err != nil {
		return "", errors.New("ar not found; install with: sudo apt-get update && sudo apt-get install -y llvm binutils")
	}
	libPath := filepath.Join(runtimeDir, "liblumen_rt.a")
	args := append([]string{"rcs", libPath}, objs...)
	if err := cmd.run(ctx, "ar", args...); err != nil {
		return "", err
	}
	return libPath, nil
}
