package workflow

import (
	"log/slog"

	"capstan/internal/queue"
	"capstan/internal/stage"
)

// StageSet bundles the concrete workflow handlers the manager orchestrates.
type StageSet struct {
	Fetcher    stage.Handler
	Merger     stage.Handler
	Cleaner    stage.Handler
	Structurer stage.Handler
	Enricher   stage.Handler
}

type pipelineStage struct {
	name             string
	handler          stage.Handler
	startStatus      queue.Status
	processingStatus queue.Status
	doneStatus       queue.Status
}

// loggerAware stages receive the per-item logger before each run.
type loggerAware interface {
	SetLogger(*slog.Logger)
}
