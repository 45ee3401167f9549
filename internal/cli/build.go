package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	goruntime "runtime"
	"time"

	"github.com/cycling74/genexport/internal/branding"
	"github.com/cycling74/genexport/internal/config"
	"github.com/cycling74/genexport/internal/descriptor"
	"github.com/cycling74/genexport/internal/export"
	"github.com/cycling74/genexport/internal/projectfile"
	"github.com/cycling74/genexport/internal/regen"
	"github.com/cycling74/genexport/internal/toolchain"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Build configurations the templates define.
var configurations = []string{"Debug", "Release"}

// buildFlags holds the raw values of the build command's flags.
type buildFlags struct {
	pluginType    string
	name          string
	channelConf   string
	configuration string
	version       string
	root          string
	settle        time.Duration
	force         bool
	dryRun        bool
}

var buildOpts buildFlags

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Customize, regenerate and build a plugin project",
	Long: `Customize the template descriptor for a plugin type, regenerate the native
project when the customized descriptor differs from the cached one, then build
or open it with the host toolchain.

Settings are taken from flags first, then from ` + projectfile.FileName + ` in the project
root, then from the user config and the ` + branding.EnvPrefix() + `_* environment.`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	f := buildCmd.Flags()
	f.StringVarP(&buildOpts.pluginType, "type", "t", config.DefaultType, "Plugin type (VST, VST3, AU, AAX, iOS)")
	f.StringVarP(&buildOpts.name, "name", "n", "", "Product name (default "+branding.TemplatePrefix()+"<type>Plugin)")
	f.StringVar(&buildOpts.channelConf, "channelconf", config.DefaultChannelConf, "Supported channel configurations")
	f.StringVarP(&buildOpts.configuration, "configuration", "c", config.DefaultConfiguration, "Build configuration (Debug or Release)")
	f.StringVar(&buildOpts.version, "version", "", "Project version (semver)")
	f.StringVar(&buildOpts.root, "root", "", "Project root holding the template directory (default current directory)")
	f.DurationVar(&buildOpts.settle, "settle", config.DefaultSettleDelay, "Time to let the generator finish before building")
	f.BoolVar(&buildOpts.force, "force", false, "Regenerate even when the cached descriptor matches")
	f.BoolVar(&buildOpts.dryRun, "dry-run", false, "Report what would happen without writing or running anything")
	rootCmd.AddCommand(buildCmd)
}

// buildPlan is the fully resolved input of an export.
type buildPlan struct {
	Options         export.Options
	Settle          time.Duration
	Generator       string
	WindowsExporter string
}

func runBuild(cmd *cobra.Command, args []string) error {
	plan, err := resolvePlan(buildOpts, cmd.Flags().Changed, config.Current())
	if err != nil {
		return err
	}

	exp, err := newExporter(plan, goruntime.GOOS, log)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	res, err := exp.Run(ctx, plan.Options)
	if err != nil {
		return err
	}
	printBuildResult(cmd.OutOrStdout(), plan.Options, res)
	return nil
}

// resolvePlan merges flags, the project file and the user settings.
// changed reports whether a flag was given explicitly.
func resolvePlan(f buildFlags, changed func(string) bool, s config.Settings) (*buildPlan, error) {
	root := s.Root
	if changed("root") || f.root != "" {
		root = f.root
	}
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolving project root: %w", err)
		}
		root = wd
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving project root: %w", err)
	}

	pf, err := projectfile.Load(root)
	if err != nil {
		return nil, err
	}
	if pf == nil {
		pf = &projectfile.File{}
	}

	pick := func(flag, flagValue, fileValue, userValue string) string {
		if changed(flag) {
			return flagValue
		}
		if fileValue != "" {
			return fileValue
		}
		return userValue
	}

	plan := &buildPlan{
		Options: export.Options{
			Root:          root,
			PluginType:    pick("type", f.pluginType, pf.Type, s.Type),
			Name:          pick("name", f.name, pf.Name, s.Name),
			ChannelConfig: pick("channelconf", f.channelConf, pf.ChannelConf, s.ChannelConf),
			Configuration: pick("configuration", f.configuration, pf.Configuration, s.Configuration),
			Version:       pick("version", f.version, pf.Version, ""),
			Force:         f.force,
			DryRun:        f.dryRun,
		},
		Settle:          s.SettleDelay,
		Generator:       firstNonEmpty(pf.Generator, s.Generator),
		WindowsExporter: firstNonEmpty(pf.WindowsExporter, s.WindowsExporter),
	}

	if d, ok, err := pf.SettleDelayDuration(); err != nil {
		return nil, err
	} else if ok {
		plan.Settle = d
	}
	if changed("settle") {
		plan.Settle = f.settle
	}

	if err := validatePluginType(plan.Options.PluginType); err != nil {
		return nil, err
	}
	if err := validateName(plan.Options.Name); err != nil {
		return nil, err
	}
	if err := validateConfiguration(plan.Options.Configuration); err != nil {
		return nil, err
	}
	if plan.Settle < 0 {
		return nil, fmt.Errorf("settle delay must not be negative, got %s", plan.Settle)
	}
	return plan, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Same patterns as the project file schema. Both values end up in file
// names under the project root.
var (
	pluginTypePattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)
	namePattern       = regexp.MustCompile(`^[^/\\:*?"<>|]+$`)
)

func validatePluginType(typ string) error {
	if typ == "" {
		return fmt.Errorf("no plugin type given")
	}
	if !pluginTypePattern.MatchString(typ) {
		return fmt.Errorf("invalid plugin type %q (letters and digits only)", typ)
	}
	return nil
}

// validateName accepts the empty name, which selects the default.
func validateName(name string) error {
	if name == "" {
		return nil
	}
	if !namePattern.MatchString(name) || name == "." || name == ".." {
		return fmt.Errorf(`invalid product name %q (must not contain / \ : * ? " < > |)`, name)
	}
	return nil
}

func validateConfiguration(c string) error {
	for _, known := range configurations {
		if c == known {
			return nil
		}
	}
	return fmt.Errorf("unknown configuration %q (want Debug or Release)", c)
}

// templateDir is the directory holding the generator and its templates.
func templateDir(root, generator string) string {
	if generator == "" {
		generator = config.DefaultGenerator
	}
	return filepath.Join(root, generator)
}

func newExporter(plan *buildPlan, goos string, l logrus.FieldLogger) (*export.Exporter, error) {
	dir := templateDir(plan.Options.Root, plan.Generator)
	platform, err := toolchain.ForOS(goos, toolchain.Options{
		Root:            plan.Options.Root,
		Generator:       plan.Generator,
		WindowsExporter: plan.WindowsExporter,
		Log:             l,
	})
	if err != nil {
		return nil, err
	}
	return &export.Exporter{
		Customizer: newCustomizer(dir),
		Cache:      &regen.Cache{Dir: dir, Log: l},
		Platform:   platform,
		Settle:     plan.Settle,
		Log:        l,
	}, nil
}

func newCustomizer(dir string) *descriptor.Customizer {
	return &descriptor.Customizer{
		Dir:          dir,
		Prefix:       branding.TemplatePrefix(),
		BundlePrefix: branding.BundlePrefix(),
	}
}

func printBuildResult(w io.Writer, opts export.Options, res *export.Result) {
	verb := "Exported"
	if opts.DryRun {
		verb = "Would export"
	}
	fmt.Fprintf(w, "%s %s (%s, %s)\n", verb, res.Name, opts.PluginType, opts.Configuration)
	fmt.Fprintf(w, "  template: %s\n", res.TemplatePath)
	fmt.Fprintf(w, "  cache:    %s, %s (%s)\n", res.Cache.State, res.Cache.Decision, res.Cache.Reason)
	if res.Project == "" {
		fmt.Fprintln(w, "  project:  none for this host")
		return
	}
	fmt.Fprintf(w, "  project:  %s\n", res.Project)

	switch b := res.Build; {
	case b == nil:
	case b.Skipped:
		fmt.Fprintf(w, "  build:    skipped (%s)\n", b.Reason)
	case b.ExitCode != 0:
		fmt.Fprintf(w, "  build:    failed with exit code %d\n", b.ExitCode)
	default:
		fmt.Fprintln(w, "  build:    ok")
	}
}
