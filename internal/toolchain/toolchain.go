package toolchain

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Supported host identifiers, matching runtime.GOOS.
const (
	OSDarwin  = "darwin"
	OSWindows = "windows"
	OSLinux   = "linux"
)

const (
	// DefaultGenerator is the project generator directory and application name.
	DefaultGenerator = "Introjucer"
	// DefaultWindowsExporter is the Visual Studio build folder the generator writes.
	DefaultWindowsExporter = "VisualStudio2013"

	typeIOS  = "iOS"
	typeAU   = "AU"
	typeVST  = "VST"
	typeVST3 = "VST3"
)

// Target identifies the native project produced for one export.
type Target struct {
	Root          string
	PluginType    string
	Name          string
	Configuration string
}

// Tool is an external program a platform depends on.
type Tool struct {
	Name string
	// Path is set for tools expected at a fixed location instead of on PATH.
	Path string
	Hint string
}

// BuildResult describes what Build did. ExitCode is the native tool's own
// exit status and is reported, not interpreted.
type BuildResult struct {
	Project  string
	Command  []string
	ExitCode int
	Skipped  bool
	Reason   string
}

// Platform resolves and invokes the project generator and native builder
// for one host OS.
type Platform interface {
	Name() string
	// Resave launches the project generator on a customized descriptor.
	Resave(ctx context.Context, descriptorPath string) error
	// ProjectPath returns the generated native project for t. An empty path
	// with a nil error means the platform has no project for t's type.
	ProjectPath(t Target) (string, error)
	// Build compiles or opens the generated project.
	Build(ctx context.Context, t Target) (*BuildResult, error)
	// Requirements lists the tools Build and Resave need.
	Requirements() []Tool
}

// Options configures every platform variant.
type Options struct {
	Root            string
	Generator       string
	WindowsExporter string

	Runner   Runner
	LookPath func(file string) (string, error)
	// IDEOpen reports whether Visual Studio already has the named project open.
	IDEOpen func(ctx context.Context, projectName string) (bool, error)
	Log     logrus.FieldLogger
}

func (o Options) withDefaults() Options {
	if o.Generator == "" {
		o.Generator = DefaultGenerator
	}
	if o.WindowsExporter == "" {
		o.WindowsExporter = DefaultWindowsExporter
	}
	if o.LookPath == nil {
		o.LookPath = exec.LookPath
	}
	if o.Log == nil {
		o.Log = logrus.StandardLogger()
	}
	if o.Runner == nil {
		o.Runner = &ExecRunner{Log: o.Log}
	}
	if o.IDEOpen == nil {
		o.IDEOpen = VisualStudioHasProject
	}
	return o
}

// GeneratorDir is where the generator and the template descriptors live.
func (o Options) GeneratorDir() string {
	gen := o.Generator
	if gen == "" {
		gen = DefaultGenerator
	}
	return filepath.Join(o.Root, gen)
}

// ForOS returns the platform variant for goos.
func ForOS(goos string, opts Options) (Platform, error) {
	opts = opts.withDefaults()
	switch goos {
	case OSDarwin:
		return &darwin{opts: opts}, nil
	case OSWindows:
		return &windows{opts: opts}, nil
	case OSLinux:
		return &linux{opts: opts}, nil
	default:
		return nil, &UnsupportedError{OS: goos}
	}
}

// requireTool resolves a PATH tool or fails with a *ToolNotFoundError.
func requireTool(lookPath func(string) (string, error), tool Tool) (string, error) {
	path, err := lookPath(tool.Name)
	if err != nil || path == "" {
		return "", &ToolNotFoundError{Tool: tool.Name, Hint: tool.Hint}
	}
	return path, nil
}

// runTool invokes name with args and wraps the exit status in a BuildResult.
func runTool(ctx context.Context, o Options, project, name string, args ...string) (*BuildResult, error) {
	code, err := o.Runner.Run(ctx, name, args...)
	res := &BuildResult{
		Project:  project,
		Command:  append([]string{name}, args...),
		ExitCode: code,
	}
	if err != nil {
		return res, fmt.Errorf("running %s: %w", name, err)
	}
	if code != 0 {
		o.Log.WithFields(logrus.Fields{"tool": name, "exit_code": code}).Warn("build tool exited with non-zero status")
	}
	return res, nil
}
