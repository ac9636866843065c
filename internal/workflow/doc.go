// Package workflow advances queue items through the configured processing
// stages.
//
// The Manager polls the queue, reclaims stale work via heartbeats, and feeds
// items into registered stage handlers (fetcher, merger, cleaner, structurer,
// enricher) while capturing progress and failure metadata. It also aggregates
// queue stats, calls stage health checks, and emits queue-level notifications
// when processing starts or completes.
//
// The pipeline is a single lane: each episode moves strictly
// pending → fetched → merged → cleaned → structured → completed, and the
// transformations themselves run synchronously. Stage failures are classified
// through the services error taxonomy; validation, configuration, and
// not-found failures park the item for review while everything else lands in
// failed, eligible for retry.
package workflow
