package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	goruntime "runtime"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/cycling74/genexport/internal/config"
	"github.com/cycling74/genexport/internal/projectfile"
	"github.com/cycling74/genexport/internal/toolchain"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// MinXcode is the oldest Xcode the templates' project format opens in.
const MinXcode = ">= 9.0"

var doctorRoot string

func init() {
	doctorCmd.Flags().StringVar(&doctorRoot, "root", "", "Project root to check (default current directory)")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the export toolchain",
	Long: `Run diagnostic checks on the host toolchain, the project generator, the
template descriptors and the project file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root := doctorRoot
		if root == "" {
			root = config.Current().Root
		}
		if root == "" {
			wd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("resolving project root: %w", err)
			}
			root = wd
		}

		d := &doctor{
			out:          cmd.OutOrStdout(),
			goos:         goruntime.GOOS,
			root:         root,
			settings:     config.Current(),
			lookPath:     exec.LookPath,
			xcodeVersion: xcodebuildVersion,
		}
		if n := d.run(cmd.Context()); n > 0 {
			return fmt.Errorf("%d problem(s) found", n)
		}
		return nil
	},
}

func okTag() string   { return color.GreenString("[ OK ]") }
func missTag() string { return color.RedString("[MISS]") }
func failTag() string { return color.RedString("[FAIL]") }
func warnTag() string { return color.YellowString("[WARN]") }
func infoTag() string { return color.CyanString("[INFO]") }

type doctor struct {
	out          io.Writer
	goos         string
	root         string
	settings     config.Settings
	lookPath     func(string) (string, error)
	xcodeVersion func(ctx context.Context) (string, error)

	problems int
}

// run prints every check and returns the number of problems found.
func (d *doctor) run(ctx context.Context) int {
	if ctx == nil {
		ctx = context.Background()
	}
	pf := d.checkProjectFile()

	generator := d.settings.Generator
	windowsExporter := d.settings.WindowsExporter
	if pf != nil {
		generator = firstNonEmpty(pf.Generator, generator)
		windowsExporter = firstNonEmpty(pf.WindowsExporter, windowsExporter)
	}

	d.checkTemplates(templateDir(d.root, generator))
	d.checkToolchain(generator, windowsExporter)
	if d.goos == toolchain.OSDarwin {
		d.checkXcode(ctx)
	}
	return d.problems
}

func (d *doctor) checkProjectFile() *projectfile.File {
	fmt.Fprintln(d.out, "Project file:")
	pf, err := projectfile.Load(d.root)
	var invalid *projectfile.InvalidError
	switch {
	case errors.As(err, &invalid):
		d.problems++
		fmt.Fprintf(d.out, "  %s %s: %d validation issue(s):\n", failTag(), invalid.Path, len(invalid.Issues))
		for _, issue := range invalid.Issues {
			fmt.Fprintf(d.out, "    - %s\n", issue)
		}
	case err != nil:
		d.problems++
		fmt.Fprintf(d.out, "  %s %v\n", failTag(), err)
	case pf == nil:
		fmt.Fprintf(d.out, "  %s no %s, using user settings\n", infoTag(), projectfile.FileName)
	default:
		fmt.Fprintf(d.out, "  %s %s is valid\n", okTag(), projectfile.Path(d.root))
	}
	return pf
}

func (d *doctor) checkTemplates(dir string) {
	fmt.Fprintln(d.out, "Templates:")
	types, err := newCustomizer(dir).Templates()
	if err != nil {
		d.problems++
		fmt.Fprintf(d.out, "  %s template directory %s: %v\n", missTag(), dir, err)
		return
	}
	if len(types) == 0 {
		d.problems++
		fmt.Fprintf(d.out, "  %s no templates in %s\n", missTag(), dir)
		return
	}
	fmt.Fprintf(d.out, "  %s %s\n", okTag(), strings.Join(types, ", "))
}

func (d *doctor) checkToolchain(generator, windowsExporter string) {
	fmt.Fprintf(d.out, "Toolchain (%s):\n", d.goos)
	platform, err := toolchain.ForOS(d.goos, toolchain.Options{
		Root:            d.root,
		Generator:       generator,
		WindowsExporter: windowsExporter,
		LookPath:        d.lookPath,
	})
	if err != nil {
		d.problems++
		fmt.Fprintf(d.out, "  %s %v\n", failTag(), err)
		return
	}
	for _, tool := range platform.Requirements() {
		d.checkTool(tool)
	}
}

func (d *doctor) checkTool(tool toolchain.Tool) {
	if tool.Path != "" {
		if _, err := os.Stat(tool.Path); err != nil {
			d.problems++
			fmt.Fprintf(d.out, "  %s %s not found at %s (%s)\n", missTag(), tool.Name, tool.Path, tool.Hint)
			return
		}
		fmt.Fprintf(d.out, "  %s %s found at %s\n", okTag(), tool.Name, tool.Path)
		return
	}
	path, err := d.lookPath(tool.Name)
	if err != nil {
		d.problems++
		fmt.Fprintf(d.out, "  %s %s not found (%s)\n", missTag(), tool.Name, tool.Hint)
		return
	}
	fmt.Fprintf(d.out, "  %s %s found at %s\n", okTag(), tool.Name, path)
}

func (d *doctor) checkXcode(ctx context.Context) {
	fmt.Fprintln(d.out, "Xcode:")
	out, err := d.xcodeVersion(ctx)
	if err != nil {
		d.problems++
		fmt.Fprintf(d.out, "  %s xcodebuild -version: %v\n", failTag(), err)
		return
	}
	v, err := parseXcodeVersion(out)
	if err != nil {
		fmt.Fprintf(d.out, "  %s %v\n", warnTag(), err)
		return
	}
	ok, err := meetsMinimum(v, MinXcode)
	if err != nil {
		fmt.Fprintf(d.out, "  %s %v\n", warnTag(), err)
		return
	}
	if !ok {
		d.problems++
		fmt.Fprintf(d.out, "  %s Xcode %s is too old (need %s)\n", failTag(), v, MinXcode)
		return
	}
	fmt.Fprintf(d.out, "  %s Xcode %s\n", okTag(), v)
}

func xcodebuildVersion(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, "xcodebuild", "-version").Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// parseXcodeVersion reads the version from `xcodebuild -version` output,
// e.g. "Xcode 15.2\nBuild version 15C500".
func parseXcodeVersion(out string) (*semver.Version, error) {
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 2 && fields[0] == "Xcode" {
			v, err := semver.NewVersion(fields[1])
			if err != nil {
				return nil, fmt.Errorf("parsing Xcode version %q: %w", fields[1], err)
			}
			return v, nil
		}
	}
	return nil, fmt.Errorf("no Xcode version in %q", strings.TrimSpace(out))
}

func meetsMinimum(v *semver.Version, constraint string) (bool, error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, fmt.Errorf("parsing constraint %q: %w", constraint, err)
	}
	return c.Check(v), nil
}
