package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/history"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Module string `short:"m" help:"Only show builds of this module"`
	Limit  int    `short:"n" help:"Maximum number of builds to show (0 for all)" default:"20"`
	JSON   bool   `name:"json" help:"Print records as JSON lines"`
}

func (h *HistoryCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	if cfg.History.Path == "" {
		return errors.ConfigError("build history is disabled; set history.path").Build()
	}

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return errors.NewError(errors.CategoryHistory, "failed to open build history").
			WithCause(err).
			WithContext("path", cfg.History.Path).
			Build()
	}
	defer func() { _ = store.Close() }()

	records, err := store.List(g.Ctx, h.Module, h.Limit)
	if err != nil {
		return errors.NewError(errors.CategoryHistory, "failed to list build history").WithCause(err).Build()
	}

	if h.JSON {
		enc := json.NewEncoder(g.Stdout)
		for _, r := range records {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
		return nil
	}

	tw := tabwriter.NewWriter(g.Stdout, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "STARTED\tMODULE\tTAG\tOUTCOME\tDURATION\tCOMMIT\tBUILD")
	for _, r := range records {
		commit := r.Commit
		if len(commit) > 12 {
			commit = commit[:12]
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.StartedAt.Local().Format(time.DateTime), r.Module, dash(r.Tag), r.Outcome,
			r.Duration.Round(time.Millisecond), dash(commit), r.BuildID)
	}
	return tw.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
