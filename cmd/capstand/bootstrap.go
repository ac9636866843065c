package main

import (
	"log/slog"

	"capstan/internal/cleaner"
	"capstan/internal/config"
	"capstan/internal/fetch"
	"capstan/internal/merger"
	"capstan/internal/metadata"
	"capstan/internal/queue"
	"capstan/internal/structurer"
	"capstan/internal/workflow"
)

type stageRegistrar interface {
	ConfigureStages(workflow.StageSet)
}

func registerStages(reg stageRegistrar, cfg *config.Config, store *queue.Store, logger *slog.Logger) {
	if reg == nil || cfg == nil {
		return
	}

	reg.ConfigureStages(workflow.StageSet{
		Fetcher:    fetch.NewFetcher(cfg, store, logger),
		Merger:     merger.NewStage(cfg, store, logger),
		Cleaner:    cleaner.NewStage(cfg, store, logger),
		Structurer: structurer.NewStage(cfg, store, logger),
		Enricher:   metadata.NewStage(cfg, store, logger),
	})
}
