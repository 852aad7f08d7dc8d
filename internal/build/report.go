package build

import (
	"time"

	"git.home.luguber.info/inful/docsite/internal/history"
	"git.home.luguber.info/inful/docsite/internal/metrics"
)

// Stage names, in execution order.
const (
	StagePrepare          = "prepare"
	StageFetch            = "fetch"
	StageRelocateDocs     = "relocate_docs"
	StageRedirects        = "redirects"
	StageRelocateExamples = "relocate_examples"
	StageReadme           = "readme"
	StageStatic           = "static"
)

// Status represents the outcome of a build.
type Status string

const (
	StatusSuccess  Status = "success"
	StatusFailed   Status = "failed"
	StatusCanceled Status = "canceled"
)

// StageResult records one executed stage.
type StageResult struct {
	Name     string
	Result   metrics.ResultLabel
	Duration time.Duration
	Err      error
}

// Report describes one build.
type Report struct {
	BuildID   string
	Module    string
	URL       string
	Tag       string
	Commit    string
	Status    Status
	Stages    []StageResult
	StartTime time.Time
	Duration  time.Duration
	// AlreadyPresent is set when the staging clone existed before the build.
	AlreadyPresent bool
	Err            error
}

// Stage returns the named stage result, if it ran.
func (r *Report) Stage(name string) (StageResult, bool) {
	for _, s := range r.Stages {
		if s.Name == name {
			return s, true
		}
	}
	return StageResult{}, false
}

func (r *Report) outcomeLabel() metrics.BuildOutcomeLabel {
	switch r.Status {
	case StatusSuccess:
		return metrics.BuildOutcomeSuccess
	case StatusCanceled:
		return metrics.BuildOutcomeCanceled
	default:
		return metrics.BuildOutcomeFailed
	}
}

// HistoryRecord converts the report into a ledger entry.
func (r *Report) HistoryRecord() history.Record {
	rec := history.Record{
		BuildID:   r.BuildID,
		Module:    r.Module,
		URL:       r.URL,
		Tag:       r.Tag,
		Commit:    r.Commit,
		Outcome:   string(r.Status),
		StartedAt: r.StartTime,
		Duration:  r.Duration,
	}
	if r.Err != nil {
		rec.Error = r.Err.Error()
	}
	for _, s := range r.Stages {
		rec.Stages = append(rec.Stages, history.Stage{
			Name:       s.Name,
			Result:     string(s.Result),
			DurationMS: s.Duration.Milliseconds(),
		})
	}
	return rec
}
