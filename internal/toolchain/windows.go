package toolchain

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

var cmdTool = Tool{
	Name: "cmd.exe",
	Hint: "the Windows command interpreter is needed to open the generated Visual Studio project",
}

// windows resaves with the generator executable and opens the generated
// Visual Studio project, unless Visual Studio already has it open.
type windows struct {
	opts Options
}

func (w *windows) Name() string { return OSWindows }

// generatorExe returns the generator binary. Introjucer's Windows build
// ships as "The Introjucer.exe".
func (w *windows) generatorExe() string {
	exe := w.opts.Generator + ".exe"
	if w.opts.Generator == DefaultGenerator {
		exe = "The " + exe
	}
	return filepath.Join(w.opts.GeneratorDir(), exe)
}

func (w *windows) Requirements() []Tool {
	return []Tool{
		{Name: w.opts.Generator, Path: w.generatorExe(), Hint: "place the generator executable next to the templates"},
		cmdTool,
	}
}

func (w *windows) Resave(ctx context.Context, descriptorPath string) error {
	exe := w.generatorExe()
	if _, err := os.Stat(exe); err != nil {
		return &ToolNotFoundError{Tool: exe, Hint: "the project generator is required to regenerate native projects"}
	}
	code, err := w.opts.Runner.Run(ctx, exe, "--resave", filepath.FromSlash(descriptorPath))
	if err != nil {
		return fmt.Errorf("launching %s: %w", w.opts.Generator, err)
	}
	if code != 0 {
		w.opts.Log.WithField("exit_code", code).Warn("generator exited with non-zero status")
	}
	return nil
}

// ProjectPath only knows Visual Studio projects for VST and VST3; the
// other templates carry no Windows exporter.
func (w *windows) ProjectPath(t Target) (string, error) {
	if t.PluginType != typeVST && t.PluginType != typeVST3 {
		return "", nil
	}
	return filepath.Join(t.Root, t.PluginType+"-Builds", w.opts.WindowsExporter, t.Name+".vcxproj"), nil
}

func (w *windows) Build(ctx context.Context, t Target) (*BuildResult, error) {
	project, _ := w.ProjectPath(t)
	if project == "" {
		return nil, &UnsupportedError{OS: OSWindows, PluginType: t.PluginType}
	}
	cmd, err := requireTool(w.opts.LookPath, cmdTool)
	if err != nil {
		return nil, err
	}

	log := w.opts.Log.WithField("project", project)
	open, err := w.opts.IDEOpen(ctx, t.Name)
	if err != nil {
		log.WithError(err).Warn("could not inspect running processes")
	}
	if open {
		log.Info("project already open in Visual Studio")
		return &BuildResult{Project: project, Skipped: true, Reason: "already open in Visual Studio"}, nil
	}

	log.Info("opening project")
	return runTool(ctx, w.opts, project, cmd, "/c", project)
}
