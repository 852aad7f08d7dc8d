package commands

import (
	"log/slog"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/workspace"
)

// CleanCmd implements the 'clean' command. It never fails.
type CleanCmd struct{}

func (c *CleanCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		slog.Warn("Using default paths, configuration could not be loaded", "error", err)
		cfg = config.Default()
	}
	if failed := workspace.Clean(cfg.Paths.Output, cfg.Paths.Packages); len(failed) > 0 {
		slog.Warn("Some directories could not be removed", "count", len(failed))
	}
	return nil
}
