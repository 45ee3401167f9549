package toolchain

import "fmt"

// ToolNotFoundError reports a required external tool that is not installed.
type ToolNotFoundError struct {
	Tool string
	Hint string
}

func (e *ToolNotFoundError) Error() string {
	if e.Hint == "" {
		return fmt.Sprintf("could not locate %q", e.Tool)
	}
	return fmt.Sprintf("could not locate %q: %s", e.Tool, e.Hint)
}

// UnsupportedError reports a host OS, or a plugin type on a host OS, that
// has no build path.
type UnsupportedError struct {
	OS         string
	PluginType string
}

func (e *UnsupportedError) Error() string {
	if e.PluginType == "" {
		return fmt.Sprintf("unsupported host OS %q", e.OS)
	}
	return fmt.Sprintf("plugin type %q cannot be built on %s", e.PluginType, e.OS)
}
