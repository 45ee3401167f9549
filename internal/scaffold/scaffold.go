package scaffold

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"strconv"
	"text/template"

	"github.com/cycling74/genexport/internal/branding"
	"github.com/cycling74/genexport/internal/projectfile"
)

//go:embed scaffolds/genexport.yaml.tmpl
var scaffoldFS embed.FS

const templatePath = "scaffolds/genexport.yaml.tmpl"

// Data holds the template variables of a project file.
type Data struct {
	Type          string
	Name          string // optional; empty keeps the synthesized default
	ChannelConf   string
	Configuration string
	Version       string // optional
	Generator     string // optional
	CLIName       string
	HomeDir       string
}

// NewData returns Data with the branding fields filled in.
func NewData(pluginType, name, channelConf, configuration string) *Data {
	return &Data{
		Type:          pluginType,
		Name:          name,
		ChannelConf:   channelConf,
		Configuration: configuration,
		CLIName:       branding.CLIName(),
		HomeDir:       branding.HomeDir(),
	}
}

// Result holds the outcome of a scaffold generation.
type Result struct {
	Path     string
	Warnings []string
}

// Render executes the project file template.
func Render(data *Data) ([]byte, error) {
	raw, err := scaffoldFS.ReadFile(templatePath)
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", templatePath, err)
	}
	tmpl, err := template.New("genexport.yaml").
		Funcs(template.FuncMap{"quote": strconv.Quote}).
		Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}
	return buf.Bytes(), nil
}

// Generate writes the project file into root. An existing file is only
// replaced when force is set. Schema violations are returned as warnings;
// the file is written regardless so it can be fixed by hand.
func Generate(root string, data *Data, force bool) (*Result, error) {
	path := projectfile.Path(root)
	if _, err := os.Stat(path); err == nil && !force {
		return nil, fmt.Errorf("%s already exists; use --force to replace it", path)
	}

	out, err := Render(data)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("creating project root: %w", err)
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", path, err)
	}

	result := &Result{Path: path}
	valResult, err := projectfile.Validate(out)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Could not validate %s: %v", projectfile.FileName, err))
		return result, nil
	}
	for _, issue := range valResult.Issues {
		result.Warnings = append(result.Warnings, issue.String())
	}
	return result, nil
}
