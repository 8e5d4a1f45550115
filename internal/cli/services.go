package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/petar-djukic/cabplanner/internal/catalog"
	"github.com/petar-djukic/cabplanner/internal/controller"
	"github.com/petar-djukic/cabplanner/internal/formula"
	"github.com/petar-djukic/cabplanner/internal/project"
	"github.com/petar-djukic/cabplanner/internal/report"
	"github.com/petar-djukic/cabplanner/internal/settings"
	"github.com/petar-djukic/cabplanner/internal/store"
)

func (a *app) configString(key string) string {
	if a.cfg == nil {
		return ""
	}
	return a.cfg.GetString(key)
}

// planner returns a planner over the store constants with the configured
// formula script installed.
func (a *app) planner(s *store.Store) (*formula.Planner, error) {
	p := formula.NewPlanner(s)
	path := a.configString(cfgKeyFormulaScript)
	if path == "" {
		return p, nil
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, sysError(fmt.Errorf("read formula script: %w", err))
	}
	script, err := formula.CompileScript(string(src))
	if err != nil {
		return nil, userError(fmt.Errorf("%s: %w", path, err))
	}
	p.SetScript(script)
	a.log.Debug(context.Background(), "formula script loaded", "path", path, "adjust", script.HasAdjust())
	return p, nil
}

func (a *app) projects() (*project.Service, error) {
	s, err := a.open()
	if err != nil {
		return nil, err
	}
	p, err := a.planner(s)
	if err != nil {
		return nil, err
	}
	cs, err := a.colors()
	if err != nil {
		return nil, err
	}
	return project.NewService(s,
		project.WithPlanner(p),
		project.WithColors(cs),
		project.WithLogger(a.log),
	), nil
}

// generator returns a report generator with the configured company logo.
func (a *app) generator(svc *project.Service) (*report.Generator, error) {
	opts := []report.Option{report.WithLogger(a.log)}
	if path := a.configString(cfgKeyReportLogo); path != "" {
		logo, err := os.ReadFile(path)
		if err != nil {
			return nil, sysError(fmt.Errorf("read company logo: %w", err))
		}
		opts = append(opts, report.WithLogo(logo))
	}
	return report.NewGenerator(svc, opts...), nil
}

func (a *app) controller() (*controller.Controller, *project.Service, error) {
	svc, err := a.projects()
	if err != nil {
		return nil, nil, err
	}
	g, err := a.generator(svc)
	if err != nil {
		return nil, nil, err
	}
	return controller.New(svc, a.tr, controller.WithReports(g), controller.WithLogger(a.log)), svc, nil
}

func (a *app) catalog() (*catalog.Service, error) {
	s, err := a.open()
	if err != nil {
		return nil, err
	}
	return catalog.NewService(s, a.log), nil
}

func (a *app) settings() (*settings.Service, error) {
	s, err := a.open()
	if err != nil {
		return nil, err
	}
	return settings.NewService(s, a.log), nil
}
