package commands

import (
	"fmt"

	"git.home.luguber.info/inful/docsite/internal/build"
)

// DocsRelLinksCmd implements the 'docs-rel-links' command.
type DocsRelLinksCmd struct {
	Module string `arg:"" name:"module" help:"Module identifier"`
	Output string `short:"o" help:"Output directory (overrides paths.output)"`
}

func (d *DocsRelLinksCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	if d.Output != "" {
		cfg.Paths.Output = d.Output
	}
	id, err := build.NormalizeModuleID(d.Module)
	if err != nil {
		return err
	}
	gen, err := newRedirectGenerator(cfg)
	if err != nil {
		return err
	}
	written, err := gen.GenerateModule(cfg.Paths.Output, id)
	if err != nil {
		return err
	}
	for _, p := range written {
		_, _ = fmt.Fprintln(g.Stdout, p)
	}
	return nil
}
