package descriptor

import (
	"bytes"
	"fmt"
	"os"
)

// Element and attribute names of the .jucer format.
const (
	ElemProject       = "JUCERPROJECT"
	ElemMainGroup     = "MAINGROUP"
	ElemExportFormats = "EXPORTFORMATS"
	ElemConfiguration = "CONFIGURATION"

	attrName                 = "name"
	attrBundleIdentifier     = "bundleIdentifier"
	attrPluginName           = "pluginName"
	attrPluginAUExportPrefix = "pluginAUExportPrefix"
	attrAAXIdentifier        = "aaxIdentifier"
	attrPluginChannelConfigs = "pluginChannelConfigs"
	attrVersion              = "version"
	attrTargetName           = "targetName"
)

// ExportFormat names an exporter element below EXPORTFORMATS.
type ExportFormat string

// Exporters whose target names are kept in sync with the project name.
const (
	FormatXcodeMac    ExportFormat = "XCODE_MAC"
	FormatXcodeIPhone ExportFormat = "XCODE_IPHONE"
	FormatVS2013      ExportFormat = "VS2013"
	FormatVS2019      ExportFormat = "VS2019"
)

// KnownFormats lists the exporters in the order they are scanned.
var KnownFormats = []ExportFormat{FormatXcodeMac, FormatXcodeIPhone, FormatVS2013, FormatVS2019}

// Exporter is a per-target build configuration present in the descriptor.
// TargetNames holds one entry per CONFIGURATION element (Debug, Release, ...).
type Exporter struct {
	Format      ExportFormat
	TargetNames []string
}

// Project is the typed view of a .jucer descriptor. Fields are read from the
// underlying tree on decode and written back on Encode; everything else in
// the tree passes through unchanged.
type Project struct {
	Name                 string
	BundleIdentifier     string
	PluginName           string
	PluginAUExportPrefix string
	AAXIdentifier        string
	PluginChannelConfigs string
	Version              string
	MainGroupName        string
	Exporters            []Exporter

	root *Node
}

// Parse decodes a descriptor from raw XML.
func Parse(data []byte) (*Project, error) {
	root, err := decodeTree(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding descriptor XML: %w", err)
	}
	if root.Name != ElemProject {
		return nil, fmt.Errorf("root element is %s, expected %s", root.Name, ElemProject)
	}

	p := &Project{root: root}
	p.Name, _ = root.Attr(attrName)
	p.BundleIdentifier, _ = root.Attr(attrBundleIdentifier)
	p.PluginName, _ = root.Attr(attrPluginName)
	p.PluginAUExportPrefix, _ = root.Attr(attrPluginAUExportPrefix)
	p.AAXIdentifier, _ = root.Attr(attrAAXIdentifier)
	p.PluginChannelConfigs, _ = root.Attr(attrPluginChannelConfigs)
	p.Version, _ = root.Attr(attrVersion)
	if mg := root.Child(ElemMainGroup); mg != nil {
		p.MainGroupName, _ = mg.Attr(attrName)
	}

	if formats := root.Child(ElemExportFormats); formats != nil {
		for _, f := range KnownFormats {
			exp := formats.Child(string(f))
			if exp == nil {
				continue
			}
			e := Exporter{Format: f}
			for _, conf := range exp.Descendants(ElemConfiguration) {
				tn, _ := conf.Attr(attrTargetName)
				e.TargetNames = append(e.TargetNames, tn)
			}
			p.Exporters = append(p.Exporters, e)
		}
	}
	return p, nil
}

// ParseFile reads and decodes the descriptor at path.
func ParseFile(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading descriptor %s: %w", path, err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing descriptor %s: %w", path, err)
	}
	return p, nil
}

// Exporter returns the exporter for format f, or nil when the descriptor
// does not define it.
func (p *Project) Exporter(f ExportFormat) *Exporter {
	for i := range p.Exporters {
		if p.Exporters[i].Format == f {
			return &p.Exporters[i]
		}
	}
	return nil
}

// Encode syncs the typed fields into the tree and serializes it. Empty
// fields are only written when the attribute already exists, so an
// untouched template does not grow empty attributes.
func (p *Project) Encode() []byte {
	root := p.root
	if root == nil {
		root = &Node{Name: ElemProject}
		p.root = root
	}

	setIfSet(root, attrName, p.Name)
	setIfSet(root, attrBundleIdentifier, p.BundleIdentifier)
	setIfSet(root, attrPluginName, p.PluginName)
	setIfSet(root, attrPluginAUExportPrefix, p.PluginAUExportPrefix)
	setIfSet(root, attrAAXIdentifier, p.AAXIdentifier)
	setIfSet(root, attrPluginChannelConfigs, p.PluginChannelConfigs)
	setIfSet(root, attrVersion, p.Version)
	if mg := root.Child(ElemMainGroup); mg != nil {
		setIfSet(mg, attrName, p.MainGroupName)
	}

	if formats := root.Child(ElemExportFormats); formats != nil {
		for _, e := range p.Exporters {
			exp := formats.Child(string(e.Format))
			if exp == nil {
				continue
			}
			confs := exp.Descendants(ElemConfiguration)
			for i, conf := range confs {
				if i < len(e.TargetNames) {
					setIfSet(conf, attrTargetName, e.TargetNames[i])
				}
			}
		}
	}
	return encodeTree(root)
}

func setIfSet(n *Node, name, value string) {
	if value == "" {
		if _, ok := n.Attr(name); !ok {
			return
		}
	}
	n.SetAttr(name, value)
}
