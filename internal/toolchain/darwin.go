package toolchain

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

var xcodebuildTool = Tool{
	Name: "xcodebuild",
	Hint: "it is necessary to build on macOS; make sure Xcode and its command line tools are installed (xcode-select --install)",
}

// darwin resaves through the generator app bundle and builds with xcodebuild.
// The iOS application project is opened in Xcode instead of built.
type darwin struct {
	opts Options
}

func (d *darwin) Name() string { return OSDarwin }

func (d *darwin) generatorApp() string {
	return filepath.Join(d.opts.GeneratorDir(), d.opts.Generator+".app")
}

func (d *darwin) Requirements() []Tool {
	return []Tool{
		{Name: d.opts.Generator, Path: d.generatorApp(), Hint: "place the generator app next to the templates"},
		{Name: "open", Hint: "part of macOS"},
		xcodebuildTool,
	}
}

// Resave starts a fresh generator instance; open returns before the
// generator has finished writing, so callers wait out a settle delay.
func (d *darwin) Resave(ctx context.Context, descriptorPath string) error {
	app := d.generatorApp()
	if _, err := os.Stat(app); err != nil {
		return &ToolNotFoundError{Tool: app, Hint: "the project generator is required to regenerate native projects"}
	}
	code, err := d.opts.Runner.Run(ctx, "open", "-n", app, "--args", "--resave", descriptorPath)
	if err != nil {
		return fmt.Errorf("launching %s: %w", d.opts.Generator, err)
	}
	if code != 0 {
		d.opts.Log.WithField("exit_code", code).Warn("generator launch exited with non-zero status")
	}
	return nil
}

func (d *darwin) ProjectPath(t Target) (string, error) {
	if t.PluginType == typeIOS {
		return filepath.Join(t.Root, "App-Builds", "iOS", t.Name+".xcodeproj"), nil
	}
	return filepath.Join(t.Root, t.PluginType+"-Builds", "MacOSX", t.Name+".xcodeproj"), nil
}

func (d *darwin) Build(ctx context.Context, t Target) (*BuildResult, error) {
	xcodebuild, err := requireTool(d.opts.LookPath, xcodebuildTool)
	if err != nil {
		return nil, err
	}
	project, _ := d.ProjectPath(t)

	if t.PluginType == typeIOS {
		return runTool(ctx, d.opts, project, "open", "-a", "Xcode", project)
	}
	return runTool(ctx, d.opts, project, xcodebuild, "-project", project, "-configuration", t.Configuration)
}
