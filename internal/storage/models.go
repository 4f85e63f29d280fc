package storage

import "time"

// Run describes one finished crawl snapshot
type Run struct {
	ID            string
	Seed          string
	StartURL      string
	Weighted      bool
	TotalBudget   int
	PerPageBudget int
	Reason        string
	NodeCount     int
	EdgeCount     int
	PagesExpanded int
	PagesFailed   int
	StartedAt     time.Time
	FinishedAt    time.Time
}

// Metrics tracks crawl statistics for export on exit
type Metrics struct {
	RunID              string    `json:"run_id,omitempty"`
	StartTime          time.Time `json:"start_time"`
	EndTime            time.Time `json:"end_time"`
	VerticesDiscovered int       `json:"vertices_discovered"`
	EdgesRecorded      int       `json:"edges_recorded"`
	PagesExpanded      int       `json:"pages_expanded"`
	PagesFailed        int       `json:"pages_failed"`
	TotalFetchTimeMs   int64     `json:"total_fetch_time_ms"`
	AvgFetchTimeMs     int64     `json:"avg_fetch_time_ms"`
	TerminationReason  string    `json:"termination_reason"`
}
