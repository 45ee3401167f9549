package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/cycling74/genexport/internal/branding"
	"github.com/cycling74/genexport/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	verbose bool
	log     = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` turns the project templates shipped with an exported Gen plugin into
native projects for the host OS and builds them. Customized descriptors are
cached so the project generator only reruns when the plugin identity changes.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		return configureLogger(log, cmd.ErrOrStderr(), config.Get(config.KeyLogLevel), verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// configureLogger points l at out with the plain text formatter.
// verbose wins over the configured level.
func configureLogger(l *logrus.Logger, out io.Writer, level string, verbose bool) error {
	l.SetOutput(out)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if verbose {
		l.SetLevel(logrus.DebugLevel)
		return nil
	}
	lvl, err := parseLevel(level)
	if err != nil {
		return err
	}
	l.SetLevel(lvl)
	return nil
}

func parseLevel(level string) (logrus.Level, error) {
	if level == "" {
		level = config.DefaultLogLevel
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", config.KeyLogLevel, level, err)
	}
	return lvl, nil
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}
