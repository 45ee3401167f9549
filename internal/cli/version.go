package cli

import (
	"encoding/json"
	"fmt"
	"io"
	goruntime "runtime"

	"github.com/cycling74/genexport/internal/branding"
	"github.com/spf13/cobra"
)

var (
	versionShort bool
	versionJSON  bool
)

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print version number only")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Print version info as JSON")
	rootCmd.AddCommand(versionCmd)
}

type versionInfo struct {
	Version  string `json:"version"`
	Commit   string `json:"commit"`
	Date     string `json:"date"`
	Platform string `json:"platform"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		info := versionInfo{
			Version:  buildVersion,
			Commit:   buildCommit,
			Date:     buildDate,
			Platform: goruntime.GOOS + "/" + goruntime.GOARCH,
		}
		return writeVersion(cmd.OutOrStdout(), info, versionShort, versionJSON)
	},
}

func writeVersion(w io.Writer, info versionInfo, short, asJSON bool) error {
	if short {
		_, err := fmt.Fprintln(w, info.Version)
		return err
	}
	if asJSON {
		out, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling version info: %w", err)
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	}
	_, err := fmt.Fprintf(w, "%s version %s (commit: %s, built: %s, %s)\n",
		branding.CLIName(), info.Version, info.Commit, info.Date, info.Platform)
	return err
}
