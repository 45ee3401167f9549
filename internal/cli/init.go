package cli

import (
	"fmt"
	"os"

	"github.com/cycling74/genexport/internal/config"
	"github.com/cycling74/genexport/internal/projectfile"
	"github.com/cycling74/genexport/internal/scaffold"
	"github.com/spf13/cobra"
)

var (
	initOpts  buildFlags
	initForce bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a " + projectfile.FileName + " for this project",
	Long: `Write a project file pinning the export settings of this project. Values not
given as flags are taken from the user config.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	f := initCmd.Flags()
	f.StringVarP(&initOpts.pluginType, "type", "t", "", "Plugin type")
	f.StringVarP(&initOpts.name, "name", "n", "", "Product name")
	f.StringVar(&initOpts.channelConf, "channelconf", "", "Supported channel configurations")
	f.StringVarP(&initOpts.configuration, "configuration", "c", "", "Build configuration (Debug or Release)")
	f.StringVar(&initOpts.version, "version", "", "Project version (semver)")
	f.StringVar(&initOpts.root, "root", "", "Project root (default current directory)")
	f.BoolVar(&initForce, "force", false, "Replace an existing project file")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	root := initOpts.root
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("resolving project root: %w", err)
		}
		root = wd
	}

	data := initData(initOpts, config.Current())
	if err := validateConfiguration(data.Configuration); err != nil {
		return err
	}

	result, err := scaffold.Generate(root, data, initForce)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", result.Path)
	for _, w := range result.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "  warning: %s\n", w)
	}
	return nil
}

func initData(f buildFlags, s config.Settings) *scaffold.Data {
	data := scaffold.NewData(
		firstNonEmpty(f.pluginType, s.Type),
		firstNonEmpty(f.name, s.Name),
		firstNonEmpty(f.channelConf, s.ChannelConf),
		firstNonEmpty(f.configuration, s.Configuration),
	)
	data.Version = f.version
	if s.Generator != config.DefaultGenerator {
		data.Generator = s.Generator
	}
	return data
}
