package workflow

import "capstan/internal/queue"

// ConfigureStages registers the concrete stage handlers the workflow will run.
// Stages are optional; an item whose status has no registered stage simply
// waits, which lets tests and partial deployments run a subset of the
// pipeline.
func (m *Manager) ConfigureStages(set StageSet) {
	var stages []pipelineStage

	if set.Fetcher != nil {
		stages = append(stages, pipelineStage{
			name:             "fetcher",
			handler:          set.Fetcher,
			startStatus:      queue.StatusPending,
			processingStatus: queue.StatusFetching,
			doneStatus:       queue.StatusFetched,
		})
	}
	if set.Merger != nil {
		stages = append(stages, pipelineStage{
			name:             "merger",
			handler:          set.Merger,
			startStatus:      queue.StatusFetched,
			processingStatus: queue.StatusMerging,
			doneStatus:       queue.StatusMerged,
		})
	}
	if set.Cleaner != nil {
		stages = append(stages, pipelineStage{
			name:             "cleaner",
			handler:          set.Cleaner,
			startStatus:      queue.StatusMerged,
			processingStatus: queue.StatusCleaning,
			doneStatus:       queue.StatusCleaned,
		})
	}
	if set.Structurer != nil {
		stages = append(stages, pipelineStage{
			name:             "structurer",
			handler:          set.Structurer,
			startStatus:      queue.StatusCleaned,
			processingStatus: queue.StatusStructuring,
			doneStatus:       queue.StatusStructured,
		})
	}
	if set.Enricher != nil {
		stages = append(stages, pipelineStage{
			name:             "enricher",
			handler:          set.Enricher,
			startStatus:      queue.StatusStructured,
			processingStatus: queue.StatusEnriching,
			doneStatus:       queue.StatusCompleted,
		})
	}

	stageByStart := make(map[queue.Status]pipelineStage, len(stages))
	statusOrder := make([]queue.Status, 0, len(stages))
	processing := make([]queue.Status, 0, len(stages))
	for _, stg := range stages {
		stageByStart[stg.startStatus] = stg
		statusOrder = append(statusOrder, stg.startStatus)
		processing = append(processing, stg.processingStatus)
	}

	m.mu.Lock()
	m.stages = stages
	m.stageByStart = stageByStart
	m.statusOrder = statusOrder
	m.processingStatuses = processing
	m.mu.Unlock()
}

func (m *Manager) stageForStatus(status queue.Status) (pipelineStage, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stg, ok := m.stageByStart[status]
	return stg, ok
}
