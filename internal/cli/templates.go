package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/cycling74/genexport/internal/config"
	"github.com/cycling74/genexport/internal/descriptor"
	"github.com/cycling74/genexport/internal/regen"
	"github.com/spf13/cobra"
)

var (
	templatesRoot string
	templatesJSON bool
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List plugin types with a template",
	Long: `List the plugin types that have a template descriptor in the template
directory, with the state of their cached customized descriptor.`,
	Args: cobra.NoArgs,
	RunE: runTemplates,
}

func init() {
	templatesCmd.Flags().StringVar(&templatesRoot, "root", "", "Project root holding the template directory (default current directory)")
	templatesCmd.Flags().BoolVar(&templatesJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(templatesCmd)
}

// templateEntry describes one plugin type for display.
type templateEntry struct {
	Type     string `json:"type"`
	Name     string `json:"name"`
	Template string `json:"template"`
	Cache    string `json:"cache"`
	Decision string `json:"decision"`
	Error    string `json:"error,omitempty"`
}

func runTemplates(cmd *cobra.Command, args []string) error {
	unchanged := func(string) bool { return false }
	plan, err := resolvePlan(buildFlags{root: templatesRoot}, unchanged, config.Current())
	if err != nil {
		return err
	}

	entries, err := listTemplates(plan)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No templates found in %s.\n", templateDir(plan.Options.Root, plan.Generator))
		return nil
	}
	if templatesJSON {
		out, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling templates: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}
	printTemplates(cmd.OutOrStdout(), entries)
	return nil
}

// listTemplates customizes every template with the plan's settings and asks
// the cache what a build would do with it. Nothing is written.
func listTemplates(plan *buildPlan) ([]templateEntry, error) {
	dir := templateDir(plan.Options.Root, plan.Generator)
	c := newCustomizer(dir)
	cache := &regen.Cache{Dir: dir, Log: log}

	types, err := c.Templates()
	if err != nil {
		return nil, fmt.Errorf("listing templates in %s: %w", dir, err)
	}

	entries := make([]templateEntry, 0, len(types))
	for _, typ := range types {
		name := plan.Options.Name
		if name == "" {
			name = c.DefaultName(typ)
		}
		e := templateEntry{Type: typ, Name: name, Template: c.TemplateFile(typ)}

		_, p, err := c.Customize(descriptor.Request{
			PluginType:    typ,
			Name:          name,
			ChannelConfig: plan.Options.ChannelConfig,
			Version:       plan.Options.Version,
		})
		if err != nil {
			e.Error = err.Error()
			entries = append(entries, e)
			continue
		}
		res := cache.Decide(e.Template, p)
		e.Cache = res.State.String()
		e.Decision = res.Decision.String()
		entries = append(entries, e)
	}
	return entries, nil
}

func printTemplates(w io.Writer, entries []templateEntry) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tNAME\tTEMPLATE\tCACHE")
	for _, e := range entries {
		state := e.Cache
		if e.Error != "" {
			state = "error: " + e.Error
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Type, e.Name, e.Template, state)
	}
	tw.Flush()
}
