package descriptor

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Customizer turns a template descriptor into a customized one for a given
// plugin type, product name and channel configuration.
type Customizer struct {
	// Dir holds the template descriptors.
	Dir string
	// Prefix overrides DefaultPrefix when set.
	Prefix string
	// BundlePrefix overrides DefaultBundlePrefix when set.
	BundlePrefix string
}

// Request describes one customization.
type Request struct {
	PluginType    string
	Name          string
	ChannelConfig string
	Version       string
}

// TemplateFile returns the template file name for pluginType.
func (c *Customizer) TemplateFile(pluginType string) string {
	return TemplateFile(c.Prefix, pluginType)
}

// TemplatePath returns the full path of the template for pluginType.
func (c *Customizer) TemplatePath(pluginType string) string {
	return filepath.Join(c.Dir, c.TemplateFile(pluginType))
}

// DefaultName returns the synthesized product name for pluginType.
func (c *Customizer) DefaultName(pluginType string) string {
	return DefaultName(c.Prefix, pluginType)
}

// Templates lists the plugin types available in Dir.
func (c *Customizer) Templates() ([]string, error) {
	return ListTemplates(c.Dir, c.Prefix)
}

// Load reads the template for pluginType. A missing file yields a
// *NotFoundError.
func (c *Customizer) Load(pluginType string) (*Project, error) {
	if pluginType == "" {
		return nil, fmt.Errorf("plugin type is empty")
	}
	path := c.TemplatePath(pluginType)
	p, err := ParseFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &NotFoundError{PluginType: pluginType, Path: path}
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ApplyIdentity sets the name and every identity value derived from it.
func (c *Customizer) ApplyIdentity(p *Project, name string) {
	bundle := c.BundlePrefix
	if bundle == "" {
		bundle = DefaultBundlePrefix
	}
	p.Name = name
	p.PluginName = name
	p.MainGroupName = name
	p.BundleIdentifier = bundle + name
	p.PluginAUExportPrefix = name + AUExportSuffix
	p.AAXIdentifier = bundle + name
}

// ApplyChannelConfig stores the channel configuration verbatim.
func ApplyChannelConfig(p *Project, channelConfig string) {
	p.PluginChannelConfigs = channelConfig
}

// ApplyTargetNames points every configuration of every present exporter at
// name. Exporters missing from the template are left alone.
func ApplyTargetNames(p *Project, name string) {
	for i := range p.Exporters {
		for j := range p.Exporters[i].TargetNames {
			p.Exporters[i].TargetNames[j] = name
		}
	}
}

// ApplyVersion sets the project version. An empty version keeps the
// template's value.
func ApplyVersion(p *Project, version string) error {
	if version == "" {
		return nil
	}
	v, err := semver.NewVersion(strings.TrimPrefix(version, "v"))
	if err != nil {
		return fmt.Errorf("invalid project version %q: %w", version, err)
	}
	p.Version = v.String()
	return nil
}

// Customize loads the template for req.PluginType and applies req to it.
// It returns the template path alongside the customized project; nothing
// is written to disk.
func (c *Customizer) Customize(req Request) (string, *Project, error) {
	name := req.Name
	if name == "" {
		name = c.DefaultName(req.PluginType)
	}

	p, err := c.Load(req.PluginType)
	if err != nil {
		return "", nil, err
	}
	c.ApplyIdentity(p, name)
	ApplyChannelConfig(p, req.ChannelConfig)
	ApplyTargetNames(p, name)
	if err := ApplyVersion(p, req.Version); err != nil {
		return "", nil, err
	}
	return c.TemplatePath(req.PluginType), p, nil
}
