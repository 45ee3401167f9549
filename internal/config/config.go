package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cycling74/genexport/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Configuration keys. Each can also be set through the environment with the
// branding prefix, e.g. GENEXPORT_SETTLE_DELAY=3s.
const (
	KeyRoot            = "root"
	KeyType            = "type"
	KeyName            = "name"
	KeyChannelConf     = "channelconf"
	KeyConfiguration   = "configuration"
	KeySettleDelay     = "settle_delay"
	KeyGenerator       = "generator"
	KeyWindowsExporter = "windows_exporter"
	KeyLogLevel        = "log_level"
)

// Keys returns every configuration key in display order.
func Keys() []string {
	return []string{
		KeyRoot, KeyType, KeyName, KeyChannelConf, KeyConfiguration,
		KeySettleDelay, KeyGenerator, KeyWindowsExporter, KeyLogLevel,
	}
}

// Default values.
const (
	DefaultType            = "VST"
	DefaultChannelConf     = "{1,1}, {2,2}"
	DefaultConfiguration   = "Debug"
	DefaultSettleDelay     = 2 * time.Second
	DefaultGenerator       = "Introjucer"
	DefaultWindowsExporter = "VisualStudio2013"
	DefaultLogLevel        = "info"
)

// Settings is the resolved user-level configuration.
type Settings struct {
	Root            string
	Type            string
	Name            string
	ChannelConf     string
	Configuration   string
	SettleDelay     time.Duration
	Generator       string
	WindowsExporter string
	LogLevel        string
}

// Dir returns the path to the config directory (~/.genexport/).
// GENEXPORT_HOME overrides it.
func Dir() string {
	if v := os.Getenv(branding.EnvVar("HOME")); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.genexport/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// SetDefaults registers the default value of every key.
func SetDefaults() {
	viper.SetDefault(KeyRoot, "")
	viper.SetDefault(KeyType, DefaultType)
	viper.SetDefault(KeyName, "")
	viper.SetDefault(KeyChannelConf, DefaultChannelConf)
	viper.SetDefault(KeyConfiguration, DefaultConfiguration)
	viper.SetDefault(KeySettleDelay, DefaultSettleDelay.String())
	viper.SetDefault(KeyGenerator, DefaultGenerator)
	viper.SetDefault(KeyWindowsExporter, DefaultWindowsExporter)
	viper.SetDefault(KeyLogLevel, DefaultLogLevel)
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	SetDefaults()
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Current returns the settings Viper resolved from defaults, the config file
// and the environment.
func Current() Settings {
	return Settings{
		Root:            viper.GetString(KeyRoot),
		Type:            viper.GetString(KeyType),
		Name:            viper.GetString(KeyName),
		ChannelConf:     viper.GetString(KeyChannelConf),
		Configuration:   viper.GetString(KeyConfiguration),
		SettleDelay:     viper.GetDuration(KeySettleDelay),
		Generator:       viper.GetString(KeyGenerator),
		WindowsExporter: viper.GetString(KeyWindowsExporter),
		LogLevel:        viper.GetString(KeyLogLevel),
	}
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
