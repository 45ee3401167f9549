package descriptor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	// DefaultPrefix starts every template file name and synthesized product name.
	DefaultPrefix = "C74-Gen-"
	// DefaultBundlePrefix is the vendor prefix of bundle and AAX identifiers.
	DefaultBundlePrefix = "com.cycling74."
	// AUExportSuffix is appended to the name to form the AU export prefix.
	AUExportSuffix = "AU"

	// TypeIOS selects the application template instead of a plugin template.
	TypeIOS = "iOS"

	templateExt    = ".jucer"
	pluginSuffix   = "Plugin"
	appTemplateTag = "Application"
)

// ErrTemplateNotFound is matched by every *NotFoundError.
var ErrTemplateNotFound = errors.New("template not found")

// NotFoundError reports a plugin type without a template descriptor.
type NotFoundError struct {
	PluginType string
	Path       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no template for plugin type %q (expected %s)", e.PluginType, e.Path)
}

// Is lets errors.Is(err, ErrTemplateNotFound) match.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrTemplateNotFound
}

// TemplateFile maps a plugin type to its template file name using prefix.
func TemplateFile(prefix, pluginType string) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if pluginType == TypeIOS {
		return prefix + appTemplateTag + templateExt
	}
	return prefix + pluginType + pluginSuffix + templateExt
}

// DefaultName is the product name used when the caller supplies none.
func DefaultName(prefix, pluginType string) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return prefix + pluginType + pluginSuffix
}

// ListTemplates returns the plugin types whose templates exist in dir,
// sorted. The application template is reported as TypeIOS.
func ListTemplates(dir, prefix string) ([]string, error) {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading template directory %s: %w", dir, err)
	}

	var types []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, prefix) || filepath.Ext(name) != templateExt {
			continue
		}
		stem := strings.TrimSuffix(strings.TrimPrefix(name, prefix), templateExt)
		switch {
		case stem == appTemplateTag:
			types = append(types, TypeIOS)
		case strings.HasSuffix(stem, pluginSuffix) && stem != pluginSuffix:
			types = append(types, strings.TrimSuffix(stem, pluginSuffix))
		}
	}
	sort.Strings(types)
	return types, nil
}
