// Package cli defines the Cobra command tree for the genexport CLI. Each file
// in this package registers one top-level command (build, templates, doctor,
// etc.) with the root command. Commands resolve settings from flags, the
// project file and the user config, then delegate to the internal packages.
package cli
