package commands

import (
	"git.home.luguber.info/inful/docsite/internal/daemon"
)

// DaemonCmd implements the 'daemon' command.
type DaemonCmd struct{}

func (d *DaemonCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}

	svc := openServices(cfg)
	defer svc.Close()

	builder, err := newBuilder(cfg, root, "")
	if err != nil {
		return err
	}
	builder.WithRecorder(svc.recorder).
		WithHistory(svc.historyAppender()).
		WithPublisher(svc.publisher)

	dmn := daemon.New(cfg, builder, svc.prom)
	dmn.OnRunComplete(func() { svc.flushMetrics(cfg.Metrics.Textfile) })
	return dmn.Run(g.Ctx)
}
