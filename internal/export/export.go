package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/cycling74/genexport/internal/descriptor"
	"github.com/cycling74/genexport/internal/regen"
	"github.com/cycling74/genexport/internal/toolchain"
	"github.com/sirupsen/logrus"
)

// Options are the inputs of a single export.
type Options struct {
	Root          string
	PluginType    string
	Name          string
	ChannelConfig string
	Configuration string
	Version       string

	// Force rewrites the cached descriptor even on a cache hit.
	Force bool
	// DryRun customizes and consults the cache but writes and runs nothing.
	DryRun bool
}

// Result reports what an export did.
type Result struct {
	Name         string
	TemplatePath string
	CachePath    string
	Cache        regen.Result
	Project      string
	Build        *toolchain.BuildResult
}

// Exporter wires the customizer, the cache and a platform together.
type Exporter struct {
	Customizer *descriptor.Customizer
	Cache      *regen.Cache
	Platform   toolchain.Platform

	// Settle is waited out after launching the generator so it can finish
	// writing the native project before the builder reads it.
	Settle time.Duration
	// Sleep defaults to time.Sleep.
	Sleep func(time.Duration)
	Log   logrus.FieldLogger
}

// Run performs the export described by opts. Failures of the native tools
// are reported in the result; only missing templates, missing tools and
// I/O problems are returned as errors.
func (e *Exporter) Run(ctx context.Context, opts Options) (*Result, error) {
	if e.Customizer == nil || e.Cache == nil || e.Platform == nil {
		return nil, errors.New("exporter is not fully configured")
	}
	name := opts.Name
	if name == "" {
		name = e.Customizer.DefaultName(opts.PluginType)
	}
	log := e.logger().WithFields(logrus.Fields{"type": opts.PluginType, "name": name})

	templatePath, project, err := e.Customizer.Customize(descriptor.Request{
		PluginType:    opts.PluginType,
		Name:          name,
		ChannelConfig: opts.ChannelConfig,
		Version:       opts.Version,
	})
	if err != nil {
		return nil, err
	}
	log.WithField("template", templatePath).Debug("customized template")

	templateFile := e.Customizer.TemplateFile(opts.PluginType)
	decision := e.Cache.Decide(templateFile, project)
	if opts.Force && decision.Decision == regen.Skip {
		decision.Decision = regen.Write
		decision.Reason = "forced"
	}
	log.WithFields(logrus.Fields{
		"cache":    decision.State.String(),
		"decision": decision.Decision.String(),
	}).Info(decision.Reason)

	target := toolchain.Target{
		Root:          opts.Root,
		PluginType:    opts.PluginType,
		Name:          name,
		Configuration: opts.Configuration,
	}
	projectPath, err := e.Platform.ProjectPath(target)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Name:         name,
		TemplatePath: templatePath,
		CachePath:    decision.Path,
		Cache:        decision,
		Project:      projectPath,
	}
	if opts.DryRun {
		return res, nil
	}

	if decision.Decision == regen.Write {
		if err := checkGenerator(e.Platform); err != nil {
			return res, err
		}
		if err := e.Cache.Commit(project, decision.Path); err != nil {
			return res, err
		}
		if err := e.Platform.Resave(ctx, decision.Path); err != nil {
			// A cache entry whose project was never regenerated must not
			// count as a hit next time.
			if derr := e.Cache.Discard(decision.Path); derr != nil {
				log.WithError(derr).Warn("could not discard cached project")
			}
			return res, fmt.Errorf("regenerating native project: %w", err)
		}
		e.settle()
	} else {
		log.Info("using cached project")
	}

	if projectPath == "" {
		log.WithField("os", e.Platform.Name()).Warn("no native project for this plugin type on this host")
		return res, nil
	}

	build, err := e.Platform.Build(ctx, target)
	res.Build = build
	if err != nil {
		return res, err
	}
	return res, nil
}

// checkGenerator fails with a *toolchain.ToolNotFoundError when a required
// tool with a fixed location, such as the generator, is missing.
func checkGenerator(p toolchain.Platform) error {
	for _, tool := range p.Requirements() {
		if tool.Path == "" {
			continue
		}
		if _, err := os.Stat(tool.Path); err != nil {
			return &toolchain.ToolNotFoundError{Tool: tool.Path, Hint: tool.Hint}
		}
	}
	return nil
}

func (e *Exporter) settle() {
	if e.Settle <= 0 {
		return
	}
	sleep := e.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	e.logger().WithField("delay", e.Settle).Debug("waiting for generator")
	sleep(e.Settle)
}

func (e *Exporter) logger() logrus.FieldLogger {
	if e.Log != nil {
		return e.Log
	}
	return logrus.StandardLogger()
}
