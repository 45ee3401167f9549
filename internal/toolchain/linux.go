package toolchain

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

var makeTool = Tool{
	Name: "make",
	Hint: "install GNU make and a C++ toolchain (e.g. build-essential)",
}

// linux resaves with the generator binary and builds the LinuxMakefile
// exporter output with make.
type linux struct {
	opts Options
}

func (l *linux) Name() string { return OSLinux }

func (l *linux) generatorBin() string {
	return filepath.Join(l.opts.GeneratorDir(), l.opts.Generator)
}

func (l *linux) Requirements() []Tool {
	return []Tool{
		{Name: l.opts.Generator, Path: l.generatorBin(), Hint: "place the generator binary next to the templates"},
		makeTool,
	}
}

func (l *linux) Resave(ctx context.Context, descriptorPath string) error {
	bin := l.generatorBin()
	if _, err := os.Stat(bin); err != nil {
		return &ToolNotFoundError{Tool: bin, Hint: "the project generator is required to regenerate native projects"}
	}
	code, err := l.opts.Runner.Run(ctx, bin, "--resave", descriptorPath)
	if err != nil {
		return fmt.Errorf("launching %s: %w", l.opts.Generator, err)
	}
	if code != 0 {
		l.opts.Log.WithField("exit_code", code).Warn("generator exited with non-zero status")
	}
	return nil
}

func (l *linux) ProjectPath(t Target) (string, error) {
	if t.PluginType == typeIOS || t.PluginType == typeAU {
		return "", nil
	}
	return filepath.Join(t.Root, t.PluginType+"-Builds", "LinuxMakefile"), nil
}

func (l *linux) Build(ctx context.Context, t Target) (*BuildResult, error) {
	project, _ := l.ProjectPath(t)
	if project == "" {
		return nil, &UnsupportedError{OS: OSLinux, PluginType: t.PluginType}
	}
	mk, err := requireTool(l.opts.LookPath, makeTool)
	if err != nil {
		return nil, err
	}
	return runTool(ctx, l.opts, project, mk, "-C", project, "CONFIG="+t.Configuration)
}
