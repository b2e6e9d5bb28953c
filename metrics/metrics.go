// Package metrics exposes Prometheus counters for the ingestion pipeline and
// the post-publish audit. Served on /metrics by the API server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SourcesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "acontece_ingest_sources_processed_total",
		Help: "Sources successfully fetched and processed by the pipeline.",
	})
	SourcesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "acontece_ingest_sources_failed_total",
		Help: "Sources skipped because fetching or parsing failed.",
	})
	CandidatesSeen = promauto.NewCounter(prometheus.CounterOpts{
		Name: "acontece_ingest_candidates_total",
		Help: "Candidate articles extracted from all sources.",
	})
	DuplicatesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "acontece_ingest_duplicates_skipped_total",
		Help: "Candidates skipped because an article with the same title already exists.",
	})
	ArticlesInserted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "acontece_ingest_articles_inserted_total",
		Help: "Articles inserted by the pipeline, labeled by resulting status.",
	}, []string{"status"})
	AuditDemotions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "acontece_audit_demotions_total",
		Help: "Published articles demoted back to recycled by the post-publish audit.",
	})
)
