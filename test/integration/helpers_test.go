//go:build integration

package integration_test

import (
	"io"
	"os"
	"path/filepath"
	goruntime "runtime"
	"strings"
	"testing"

	"github.com/cycling74/genexport/internal/descriptor"
	"github.com/cycling74/genexport/internal/export"
	"github.com/cycling74/genexport/internal/regen"
	"github.com/cycling74/genexport/internal/toolchain"
	"github.com/sirupsen/logrus"
)

// testEnv is an exported Gen project with stand-ins for the generator and make.
type testEnv struct {
	Root         string // project root
	TemplateDir  string // <root>/Introjucer
	GeneratorLog string // one line per generator run
	MakeLog      string // one line per make run
	MakeBin      string
}

// setupTestEnv copies the descriptor test templates into a fresh project and
// installs shell scripts that log their invocations in place of the
// generator and make.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	if goruntime.GOOS != "linux" {
		t.Skip("stand-in tools are shell scripts for the linux toolchain")
	}

	root := t.TempDir()
	env := &testEnv{
		Root:         root,
		TemplateDir:  filepath.Join(root, "Introjucer"),
		GeneratorLog: filepath.Join(root, "generator.log"),
		MakeLog:      filepath.Join(root, "make.log"),
		MakeBin:      filepath.Join(root, "bin", "make"),
	}

	for _, name := range []string{"C74-Gen-VSTPlugin.jucer", "C74-Gen-AUPlugin.jucer", "C74-Gen-Application.jucer"} {
		data, err := os.ReadFile(filepath.Join("..", "..", "internal", "descriptor", "testdata", name))
		if err != nil {
			t.Fatalf("reading template %s: %v", name, err)
		}
		writeFile(t, filepath.Join(env.TemplateDir, name), string(data))
	}

	writeScript(t, filepath.Join(env.TemplateDir, "Introjucer"), `#!/bin/sh
echo "$@" >> "`+env.GeneratorLog+`"
mkdir -p "`+root+`/VST-Builds/LinuxMakefile"
cp "$2" "`+root+`/VST-Builds/LinuxMakefile/resaved.jucer"
`)
	writeScript(t, env.MakeBin, `#!/bin/sh
echo "$@" >> "`+env.MakeLog+`"
`)
	return env
}

func (env *testEnv) exporter(t *testing.T) *export.Exporter {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	platform, err := toolchain.ForOS(toolchain.OSLinux, toolchain.Options{
		Root: env.Root,
		LookPath: func(name string) (string, error) {
			if name == "make" {
				return env.MakeBin, nil
			}
			return "", os.ErrNotExist
		},
		Runner: &toolchain.ExecRunner{Stdout: io.Discard, Stderr: io.Discard, Log: log},
		Log:    log,
	})
	if err != nil {
		t.Fatalf("ForOS: %v", err)
	}
	return &export.Exporter{
		Customizer: &descriptor.Customizer{Dir: env.TemplateDir},
		Cache:      &regen.Cache{Dir: env.TemplateDir, Log: log},
		Platform:   platform,
		Log:        log,
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func writeScript(t *testing.T, path, content string) {
	t.Helper()
	writeFile(t, path, content)
	if err := os.Chmod(path, 0755); err != nil {
		t.Fatalf("chmod %s: %v", path, err)
	}
}

// logLines returns the non-empty lines of a tool log; a missing log has none.
func logLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	var lines []string
	for _, l := range strings.Split(string(data), "\n") {
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s", path)
	}
}

func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected file to not exist: %s", path)
	}
}
