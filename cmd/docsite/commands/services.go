package commands

import (
	"log/slog"

	"git.home.luguber.info/inful/docsite/internal/build"
	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/events"
	"git.home.luguber.info/inful/docsite/internal/history"
	"git.home.luguber.info/inful/docsite/internal/metrics"
)

// services holds the optional side channels of a build. Each one that cannot
// be opened is replaced by a no-op so the build itself still runs.
type services struct {
	recorder  metrics.Recorder
	prom      *metrics.PrometheusRecorder
	history   *history.Store
	publisher events.Publisher
}

func openServices(cfg *config.Config) *services {
	s := &services{recorder: metrics.NoopRecorder{}, publisher: events.NoopPublisher{}}

	if cfg.Metrics.Enabled() {
		s.prom = metrics.NewPrometheusRecorder(nil)
		s.recorder = s.prom
	}

	if cfg.History.Path != "" {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			slog.Warn("Build history disabled", "path", cfg.History.Path, "error", err)
		} else {
			s.history = store
		}
	}

	if cfg.Events.NATSURL != "" {
		pub, err := events.NewNATSPublisher(cfg.Events.NATSURL, cfg.Events.Subject)
		if err != nil {
			slog.Warn("Build events disabled", "url", cfg.Events.NATSURL, "error", err)
		} else {
			s.publisher = pub
		}
	}
	return s
}

// historyAppender returns nil when history is disabled.
func (s *services) historyAppender() build.HistoryAppender {
	if s.history == nil {
		return nil
	}
	return s.history
}

func (s *services) flushMetrics(path string) {
	if err := s.prom.WriteTextfile(path); err != nil {
		slog.Warn("Failed to write metrics textfile", "path", path, "error", err)
	}
}

func (s *services) Close() {
	if s.history != nil {
		if err := s.history.Close(); err != nil {
			slog.Warn("Failed to close build history", "error", err)
		}
	}
	if err := s.publisher.Close(); err != nil {
		slog.Warn("Failed to close event publisher", "error", err)
	}
}
