// Package config manages user-level settings stored at ~/.genexport/config.yaml.
// It provides the defaults for an export (plugin type, channel configuration,
// build configuration, settle delay, generator) and functions to load, read,
// and write configuration keys.
package config
