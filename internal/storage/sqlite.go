package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/alvmarrod/wiki-weaver/internal/graph"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// ErrRunNotFound is returned when no snapshot has the requested id
var ErrRunNotFound = errors.New("run not found")

// Storage persists finished crawl snapshots
type Storage struct {
	db *sql.DB
}

// NewStorage creates a new Storage instance, opening/creating the DB and initializing schema
func NewStorage(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	storage := &Storage{db: db}

	if err := storage.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return storage, nil
}

// initSchema creates tables and indices if they don't exist
func (s *Storage) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		seed TEXT NOT NULL,
		start_url TEXT NOT NULL,
		weighted INTEGER NOT NULL DEFAULT 0,
		total_budget INTEGER NOT NULL,
		per_page_budget INTEGER NOT NULL,
		reason TEXT,
		node_count INTEGER DEFAULT 0,
		edge_count INTEGER DEFAULT 0,
		pages_expanded INTEGER DEFAULT 0,
		pages_failed INTEGER DEFAULT 0,
		started_at TIMESTAMP,
		finished_at TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS nodes (
		run_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		url TEXT NOT NULL,
		label TEXT NOT NULL,
		PRIMARY KEY (run_id, position),
		FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS edges (
		run_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		source_url TEXT NOT NULL,
		target_url TEXT NOT NULL,
		label TEXT NOT NULL,
		weight REAL,
		PRIMARY KEY (run_id, position),
		FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	CREATE INDEX IF NOT EXISTS idx_edges_source ON edges(run_id, source_url);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveRun stores a run and its graph view in one transaction.
// A run without an ID gets a new one; the stored ID is returned.
func (s *Storage) SaveRun(run *Run, view graph.View) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	run.NodeCount = len(view.Nodes)
	run.EdgeCount = len(view.Edges)

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO runs (run_id, seed, start_url, weighted, total_budget, per_page_budget, reason,
			node_count, edge_count, pages_expanded, pages_failed, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Seed, run.StartURL, run.Weighted, run.TotalBudget, run.PerPageBudget, run.Reason,
		run.NodeCount, run.EdgeCount, run.PagesExpanded, run.PagesFailed, run.StartedAt, run.FinishedAt)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	nodeStmt, err := tx.Prepare("INSERT INTO nodes (run_id, position, url, label) VALUES (?, ?, ?, ?)")
	if err != nil {
		return "", fmt.Errorf("failed to prepare node insert: %w", err)
	}
	defer nodeStmt.Close()

	for i, n := range view.Nodes {
		if _, err := nodeStmt.Exec(run.ID, i, n.ID, n.Label); err != nil {
			return "", fmt.Errorf("failed to insert node %q: %w", n.Label, err)
		}
	}

	edgeStmt, err := tx.Prepare(`
		INSERT INTO edges (run_id, position, source_url, target_url, label, weight)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare edge insert: %w", err)
	}
	defer edgeStmt.Close()

	for i, e := range view.Edges {
		if _, err := edgeStmt.Exec(run.ID, i, e.Source, e.Target, e.Label, e.Weight); err != nil {
			return "", fmt.Errorf("failed to insert edge %q: %w", e.Label, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit run: %w", err)
	}

	return run.ID, nil
}

const runColumns = `run_id, seed, start_url, weighted, total_budget, per_page_budget, reason,
	node_count, edge_count, pages_expanded, pages_failed, started_at, finished_at`

// scanner is satisfied by *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var run Run
	var reason sql.NullString
	err := row.Scan(&run.ID, &run.Seed, &run.StartURL, &run.Weighted, &run.TotalBudget, &run.PerPageBudget,
		&reason, &run.NodeCount, &run.EdgeCount, &run.PagesExpanded, &run.PagesFailed,
		&run.StartedAt, &run.FinishedAt)
	if err != nil {
		return nil, err
	}
	run.Reason = reason.String
	return &run, nil
}

// ListRuns returns all stored runs, most recent first
func (s *Storage) ListRuns() ([]*Run, error) {
	rows, err := s.db.Query("SELECT " + runColumns + " FROM runs ORDER BY started_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}

// GetRun retrieves a run's metadata by id
func (s *Storage) GetRun(id string) (*Run, error) {
	run, err := scanRun(s.db.QueryRow("SELECT "+runColumns+" FROM runs WHERE run_id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// LoadRun retrieves a run and its graph view in stored order
func (s *Storage) LoadRun(id string) (*Run, graph.View, error) {
	run, err := s.GetRun(id)
	if err != nil {
		return nil, graph.View{}, err
	}

	view := graph.View{
		Nodes: make([]graph.NodeRecord, 0, run.NodeCount),
		Edges: make([]graph.EdgeRecord, 0, run.EdgeCount),
	}

	nodeRows, err := s.db.Query("SELECT url, label FROM nodes WHERE run_id = ? ORDER BY position", id)
	if err != nil {
		return nil, graph.View{}, fmt.Errorf("failed to load nodes: %w", err)
	}
	defer nodeRows.Close()

	for nodeRows.Next() {
		var n graph.NodeRecord
		if err := nodeRows.Scan(&n.ID, &n.Label); err != nil {
			return nil, graph.View{}, fmt.Errorf("failed to scan node: %w", err)
		}
		view.Nodes = append(view.Nodes, n)
	}
	if err := nodeRows.Err(); err != nil {
		return nil, graph.View{}, fmt.Errorf("error iterating nodes: %w", err)
	}

	edgeRows, err := s.db.Query(`
		SELECT source_url, target_url, label, weight
		FROM edges
		WHERE run_id = ?
		ORDER BY position
	`, id)
	if err != nil {
		return nil, graph.View{}, fmt.Errorf("failed to load edges: %w", err)
	}
	defer edgeRows.Close()

	for edgeRows.Next() {
		var e graph.EdgeRecord
		var weight sql.NullFloat64
		if err := edgeRows.Scan(&e.Source, &e.Target, &e.Label, &weight); err != nil {
			return nil, graph.View{}, fmt.Errorf("failed to scan edge: %w", err)
		}
		if weight.Valid {
			w := weight.Float64
			e.Weight = &w
		}
		view.Edges = append(view.Edges, e)
	}
	if err := edgeRows.Err(); err != nil {
		return nil, graph.View{}, fmt.Errorf("error iterating edges: %w", err)
	}

	return run, view, nil
}

// DeleteRun removes a run and its graph
func (s *Storage) DeleteRun(id string) error {
	res, err := s.db.Exec("DELETE FROM runs WHERE run_id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}
