// Package toolchain drives the external tools of an export: the project
// generator that turns a customized descriptor into native build files, and
// the native builder for the host OS (xcodebuild on macOS, Visual Studio on
// Windows, make on Linux). ForOS selects the Platform variant; every variant
// reports missing builders as a *ToolNotFoundError before running anything.
package toolchain
