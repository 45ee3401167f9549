// Package branding provides compile-time identity values for the CLI.
//
// Vendors shipping the exporter with their own templates edit branding.yaml
// before building; Go's //go:embed bakes it into the binary.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

type brand struct {
	CLIName        string `yaml:"cli_name"`
	DisplayName    string `yaml:"display_name"`
	Description    string `yaml:"description"`
	HomeDir        string `yaml:"home_dir"`
	EnvPrefix      string `yaml:"env_prefix"`
	TemplatePrefix string `yaml:"template_prefix"`
	BundlePrefix   string `yaml:"bundle_prefix"`
}

var fallback = brand{
	CLIName:        "genexport",
	DisplayName:    "GenExport",
	Description:    "Build orchestrator for exported Gen audio plugins",
	HomeDir:        ".genexport",
	EnvPrefix:      "GENEXPORT",
	TemplatePrefix: "C74-Gen-",
	BundlePrefix:   "com.cycling74.",
}

// current overlays the embedded YAML on the fallback values. Keys missing
// from the YAML keep their fallback.
var current = sync.OnceValue(func() brand {
	b := fallback
	_ = yaml.Unmarshal(rawBranding, &b)
	return b
})

// CLIName returns the root command name (e.g., "genexport").
func CLIName() string { return current().CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { return current().DisplayName }

// Description returns the short product description.
func Description() string { return current().Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".genexport").
func HomeDir() string { return current().HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "GENEXPORT").
func EnvPrefix() string { return current().EnvPrefix }

// TemplatePrefix starts template file names and synthesized product names.
func TemplatePrefix() string { return current().TemplatePrefix }

// BundlePrefix is the vendor prefix of bundle and AAX identifiers.
func BundlePrefix() string { return current().BundlePrefix }

// EnvVar returns a fully qualified env var name, e.g. EnvVar("type") → "GENEXPORT_TYPE".
func EnvVar(suffix string) string {
	return EnvPrefix() + "_" + strings.ToUpper(suffix)
}
