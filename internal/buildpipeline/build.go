// Package buildpipeline turns a project into a native executable: it runs
// the driver, emits LLVM IR per module, compiles the modules and the
// embedded C runtime with clang and links the result.
package buildpipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"lumen/internal/backend/llvm"
	"lumen/internal/driver"
	"lumen/internal/mir"
)

// BuildRequest configures output generation for a compilation.
type BuildRequest struct {
	CompileRequest
	// OutDir - абсолютный каталог артефактов, по умолчанию <Root>/target.
	OutDir     string
	OutputName string
	// Opt - уровень -O для clang: 0, 1, 2, 3, s или z.
	Opt           string
	TargetTriple  string
	KeepTmp       bool
	PrintCommands bool
	CommandOutput io.Writer
	// Jobs ограничивает число параллельных вызовов clang.
	Jobs int
}

// BuildResult captures build artefacts.
type BuildResult struct {
	Compile    CompileResult
	OutputPath string
	MIRPath    string
	TmpDir     string
	IRFiles    []string
}

// Artifacts are the files written by the emit stage.
type Artifacts struct {
	MIRPath string
	TmpDir  string
	// IRFiles[i] is the .ll file of Units[i].
	IRFiles []string
	Units   []llvm.Unit
}

// Build compiles the project and links an executable at
// <OutDir>/<OutputName>.
func Build(ctx context.Context, req *BuildRequest) (BuildResult, error) {
	var result BuildResult
	if req == nil {
		return result, errors.New("missing build request")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	reqCopy := *req
	req = &reqCopy
	if err := req.normalize(); err != nil {
		return result, err
	}

	compileRes, err := Compile(ctx, &req.CompileRequest)
	result.Compile = compileRes
	if err != nil {
		return result, err
	}

	art, err := WriteArtifacts(compileRes.Driver, req)
	result.MIRPath = art.MIRPath
	result.TmpDir = art.TmpDir
	result.IRFiles = art.IRFiles
	if err != nil {
		return result, err
	}

	if err := ensureClangAvailable(); err != nil {
		emit(req.Progress, Event{Stage: StageCompile, Status: StatusError, Err: err})
		return result, err
	}
	cmd := newCommander(req.PrintCommands, req.CommandOutput)

	objs, libPath, err := compileObjects(ctx, req, cmd, art)
	if err != nil {
		return result, err
	}

	outputPath := filepath.Join(req.OutDir, req.OutputName)
	linkIdx := req.Timer.Begin(string(StageLink))
	linkStart := time.Now()
	emit(req.Progress, Event{Stage: StageLink, Status: StatusWorking})
	args := make([]string, 0, len(objs)+4)
	args = append(args, objs...)
	args = append(args, libPath, "-o", outputPath)
	if runtime.GOOS != "windows" {
		args = append(args, "-pthread")
	}
	if err := cmd.run(ctx, "clang", args...); err != nil {
		req.Timer.End(linkIdx, "failed")
		err = fmt.Errorf("link failed: %w", err)
		emit(req.Progress, Event{Stage: StageLink, Status: StatusError, Err: err})
		return result, err
	}
	req.Timer.End(linkIdx, filepath.Base(outputPath))
	emit(req.Progress, Event{Stage: StageLink, Status: StatusDone, Elapsed: time.Since(linkStart)})
	result.OutputPath = outputPath

	if !req.KeepTmp {
		if err := os.RemoveAll(art.TmpDir); err != nil {
			return result, fmt.Errorf("failed to clean tmp dir: %w", err)
		}
	}
	return result, nil
}

func (req *BuildRequest) normalize() error {
	if req.Root == "" {
		return errors.New("missing project root")
	}
	if req.OutDir == "" {
		req.OutDir = filepath.Join(req.Root, "target")
	}
	if req.OutputName == "" {
		req.OutputName = filepath.Base(req.Root)
	}
	if req.Opt == "" {
		req.Opt = "0"
	}
	switch req.Opt {
	case "0", "1", "2", "3", "s", "z":
	default:
		return fmt.Errorf("invalid optimization level %q (expected 0|1|2|3|s|z)", req.Opt)
	}
	if req.TargetTriple == "" {
		req.TargetTriple = llvm.DefaultTriple
	}
	if req.Jobs <= 0 {
		req.Jobs = runtime.NumCPU()
	}
	return nil
}

// IRFileName maps a module key to its .ll file name: src::main → src.main.ll.
func IRFileName(key string) string {
	return strings.ReplaceAll(key, "::", ".") + ".ll"
}

// WriteArtifacts emits LLVM IR for every module of res.MIR and writes
// <OutDir>/<OutputName>.mir plus one .ll per module under the tmp dir.
func WriteArtifacts(res *driver.Result, req *BuildRequest) (Artifacts, error) {
	var art Artifacts
	if res == nil || res.MIR == nil {
		return art, errors.New("MIR not available")
	}
	if err := req.normalize(); err != nil {
		return art, err
	}
	idx := req.Timer.Begin(string(StageEmit))
	start := time.Now()
	emit(req.Progress, Event{Stage: StageEmit, Status: StatusWorking})
	fail := func(err error) (Artifacts, error) {
		req.Timer.End(idx, "failed")
		emit(req.Progress, Event{Stage: StageEmit, Status: StatusError, Err: err})
		return art, err
	}

	units, err := llvm.Emit(res.MIR, llvm.Options{TargetTriple: req.TargetTriple, Names: res.Context})
	if err != nil {
		return fail(fmt.Errorf("LLVM emit failed: %w", err))
	}
	art.Units = units

	art.MIRPath = filepath.Join(req.OutDir, req.OutputName+".mir")
	if err := mir.WriteFile(art.MIRPath, res.MIR); err != nil {
		return fail(err)
	}

	art.TmpDir = filepath.Join(req.OutDir, ".tmp", req.OutputName)
	if err := os.MkdirAll(art.TmpDir, 0o750); err != nil {
		return fail(fmt.Errorf("failed to create tmp dir: %w", err))
	}
	for _, u := range units {
		path := filepath.Join(art.TmpDir, IRFileName(u.Key))
		if err := os.WriteFile(path, []byte(u.Module.String()), 0o600); err != nil {
			return fail(fmt.Errorf("failed to write LLVM IR: %w", err))
		}
		art.IRFiles = append(art.IRFiles, path)
		emit(req.Progress, Event{Module: u.Key, Stage: StageCompile, Status: StatusQueued})
	}
	req.Timer.End(idx, fmt.Sprintf("modules=%d", len(units)))
	emit(req.Progress, Event{Stage: StageEmit, Status: StatusDone, Elapsed: time.Since(start)})
	return art, nil
}

// compileObjects runs clang over every .ll file and every runtime source
// concurrently, then archives the runtime objects.
func compileObjects(ctx context.Context, req *BuildRequest, cmd *commander, art Artifacts) (objs []string, libPath string, err error) {
	idx := req.Timer.Begin(string(StageCompile))
	start := time.Now()
	emit(req.Progress, Event{Stage: StageCompile, Status: StatusWorking})
	defer func() {
		if err != nil {
			req.Timer.End(idx, "failed")
			emit(req.Progress, Event{Stage: StageCompile, Status: StatusError, Err: err})
			return
		}
		req.Timer.End(idx, fmt.Sprintf("objects=%d", len(objs)))
		emit(req.Progress, Event{Stage: StageCompile, Status: StatusDone, Elapsed: time.Since(start)})
	}()

	runtimeDir, sources, err := extractNativeRuntime(art.TmpDir)
	if err != nil {
		return nil, "", err
	}

	objs = make([]string, len(art.IRFiles))
	runtimeObjs := make([]string, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(req.Jobs)
	for i, ll := range art.IRFiles {
		key := art.Units[i].Key
		obj := strings.TrimSuffix(ll, ".ll") + ".o"
		objs[i] = obj
		g.Go(func() error {
			began := time.Now()
			emit(req.Progress, Event{Module: key, Stage: StageCompile, Status: StatusWorking})
			if err := compileLLVMIR(gctx, cmd, req, ll, obj); err != nil {
				err = fmt.Errorf("module %s: %w", key, err)
				emit(req.Progress, Event{Module: key, Stage: StageCompile, Status: StatusError, Err: err})
				return err
			}
			emit(req.Progress, Event{Module: key, Stage: StageCompile, Status: StatusDone, Elapsed: time.Since(began)})
			return nil
		})
	}
	for i, src := range sources {
		obj := strings.TrimSuffix(src, filepath.Ext(src)) + ".o"
		runtimeObjs[i] = obj
		g.Go(func() error {
			return compileRuntimeSource(gctx, cmd, req.Opt, src, obj)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, "", err
	}

	libPath, err = archiveRuntime(ctx, cmd, runtimeDir, runtimeObjs)
	if err != nil {
		return nil, "", err
	}
	return objs, libPath, nil
}
