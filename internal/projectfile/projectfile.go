package projectfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"
)

// FileName is the project file looked up in the project root.
const FileName = "genexport.yaml"

// File holds the export settings pinned by a project. Empty fields are
// unset and leave the user configuration in charge.
type File struct {
	Type            string `yaml:"type,omitempty"`
	Name            string `yaml:"name,omitempty"`
	ChannelConf     string `yaml:"channelconf,omitempty"`
	Configuration   string `yaml:"configuration,omitempty"`
	Version         string `yaml:"version,omitempty"`
	SettleDelay     string `yaml:"settle_delay,omitempty"`
	Generator       string `yaml:"generator,omitempty"`
	WindowsExporter string `yaml:"windows_exporter,omitempty"`
}

// InvalidError is returned by Load when the file violates the schema.
type InvalidError struct {
	Path   string
	Issues []ValidationIssue
}

func (e *InvalidError) Error() string {
	msgs := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		msgs[i] = issue.String()
	}
	return fmt.Sprintf("%s has %d validation issue(s): %s", e.Path, len(e.Issues), strings.Join(msgs, "; "))
}

// Path returns the project file location for root.
func Path(root string) string {
	return filepath.Join(root, FileName)
}

// Load reads and validates the project file in root.
// Returns nil, nil if the project has no project file.
func Load(root string) (*File, error) {
	path := Path(root)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading project file %s: %w", path, err)
	}

	result, err := Validate(data)
	if err != nil {
		return nil, fmt.Errorf("validating project file %s: %w", path, err)
	}
	if !result.Valid {
		return nil, &InvalidError{Path: path, Issues: result.Issues}
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing project file %s: %w", path, err)
	}
	return &f, nil
}

// SettleDelayDuration parses SettleDelay. ok is false when it is unset.
func (f *File) SettleDelayDuration() (d time.Duration, ok bool, err error) {
	if f == nil || f.SettleDelay == "" {
		return 0, false, nil
	}
	d, err = time.ParseDuration(f.SettleDelay)
	if err != nil {
		return 0, false, fmt.Errorf("parsing settle_delay %q: %w", f.SettleDelay, err)
	}
	return d, true, nil
}
