// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package manifest persists conversion runs and their notes in a SQLite
// database so past runs can be listed, filtered, and searched.
package manifest

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"

	"github.com/pdiddy/keep2org/pkg/types"
)

const dbFile = "keep2org.db"

// timeLayout is RFC3339 with fixed-width nanoseconds. started_at and created
// are ordered lexically in SQL, so trailing zeros must not be trimmed.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Run describes one recorded conversion run.
type Run struct {
	ID              string    `json:"id" yaml:"id"`
	StartedAt       time.Time `json:"started_at" yaml:"started_at"`
	InputDir        string    `json:"input_dir" yaml:"input_dir"`
	OutputDir       string    `json:"output_dir" yaml:"output_dir"`
	IncludeArchived bool      `json:"include_archived" yaml:"include_archived"`
	SplitByTag      bool      `json:"split_by_tag" yaml:"split_by_tag"`
	NotesTotal      int       `json:"notes_total" yaml:"notes_total"`
}

// NewRun builds a Run record for a conversion about to be recorded.
func NewRun(cfg types.ConvertConfig, notesTotal int) Run {
	return Run{
		ID:              ulid.Make().String(),
		StartedAt:       time.Now().UTC(),
		InputDir:        cfg.InputDir,
		OutputDir:       cfg.OutputDir,
		IncludeArchived: cfg.IncludeArchived,
		SplitByTag:      cfg.SplitByTag,
		NotesTotal:      notesTotal,
	}
}

// Store manages the manifest SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the manifest database at cfg.Dir/keep2org.db,
// creating the schema if it does not exist.
func NewStore(cfg types.ManifestConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating manifest directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening manifest database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			input_dir TEXT,
			output_dir TEXT,
			include_archived INTEGER,
			split_by_tag INTEGER,
			notes_total INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS notes (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id),
			source_file TEXT NOT NULL,
			title TEXT,
			content TEXT,
			archived INTEGER,
			created TEXT,
			tags TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notes_run_id ON notes(run_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='notes_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE notes_fts USING fts5(title, content, content=notes, content_rowid=rowid)`,
			`CREATE TRIGGER notes_ai AFTER INSERT ON notes BEGIN
				INSERT INTO notes_fts(rowid, title, content) VALUES (new.rowid, new.title, new.content);
			END`,
			`CREATE TRIGGER notes_ad AFTER DELETE ON notes BEGIN
				INSERT INTO notes_fts(notes_fts, rowid, title, content) VALUES('delete', old.rowid, old.title, old.content);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// RecordRun inserts a run and its notes in one transaction.
func (s *Store) RecordRun(ctx context.Context, run Run, notes []types.Note) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, input_dir, output_dir, include_archived, split_by_tag, notes_total)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.Format(timeLayout), run.InputDir, run.OutputDir,
		run.IncludeArchived, run.SplitByTag, run.NotesTotal)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	for _, n := range notes {
		tagsJSON, err := json.Marshal(n.Tags)
		if err != nil {
			return fmt.Errorf("encoding tags: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO notes (run_id, source_file, title, content, archived, created, tags)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			run.ID, n.SourceFile, n.Title, n.Body, n.Archived,
			n.Created.Format(timeLayout), string(tagsJSON))
		if err != nil {
			return fmt.Errorf("inserting note %s: %w", n.SourceFile, err)
		}
	}

	return tx.Commit()
}

// Runs lists recorded runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, input_dir, output_dir, include_archived, split_by_tag, notes_total
		 FROM runs ORDER BY started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r       Run
			started string
		)
		if err := rows.Scan(&r.ID, &started, &r.InputDir, &r.OutputDir,
			&r.IncludeArchived, &r.SplitByTag, &r.NotesTotal); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if t, err := time.Parse(timeLayout, started); err == nil {
			r.StartedAt = t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// QueryOptions holds parameters for manifest queries.
type QueryOptions struct {
	// RunID selects one run. Empty means the most recent run.
	RunID string

	// Tag filters notes carrying the given label.
	Tag string

	// Search is an FTS5 full-text search string over title and content.
	Search string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// Entry is one recorded note returned by Query.
type Entry struct {
	RunID      string    `json:"run_id" yaml:"run_id"`
	SourceFile string    `json:"source_file" yaml:"source_file"`
	Title      string    `json:"title" yaml:"title"`
	Content    string    `json:"content" yaml:"content"`
	Archived   bool      `json:"archived" yaml:"archived"`
	Created    time.Time `json:"created" yaml:"created"`
	Tags       []string  `json:"tags" yaml:"tags"`
}

// Query returns recorded notes filtered by run, tag, and full-text search.
// With no RunID it reports on the most recent run; an empty manifest yields
// no entries and no error.
func (s *Store) Query(ctx context.Context, opts QueryOptions) ([]Entry, error) {
	runID := opts.RunID
	if runID == "" {
		var err error
		runID, err = s.latestRunID(ctx)
		if err != nil {
			return nil, err
		}
		if runID == "" {
			return nil, nil
		}
	}

	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Search != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT n.run_id, n.source_file, n.title, n.content, n.archived, n.created, n.tags
			FROM notes_fts
			JOIN notes n ON n.rowid = notes_fts.rowid
			WHERE notes_fts MATCH ? AND n.run_id = ?`)
		args = append(args, opts.Search, runID)
	} else {
		qb.WriteString(
			`SELECT n.run_id, n.source_file, n.title, n.content, n.archived, n.created, n.tags
			FROM notes n
			WHERE n.run_id = ?`)
		args = append(args, runID)
	}

	if opts.Tag != "" {
		qb.WriteString(` AND EXISTS (SELECT 1 FROM json_each(n.tags) WHERE value = ?)`)
		args = append(args, opts.Tag)
	}

	if useFTS {
		qb.WriteString(` ORDER BY notes_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY n.created, n.rowid`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying manifest: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e        Entry
			created  string
			tagsJSON sql.NullString
		)
		if err := rows.Scan(&e.RunID, &e.SourceFile, &e.Title, &e.Content,
			&e.Archived, &created, &tagsJSON); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		if t, err := time.Parse(timeLayout, created); err == nil {
			e.Created = t
		}
		if tagsJSON.Valid && tagsJSON.String != "" {
			if err := json.Unmarshal([]byte(tagsJSON.String), &e.Tags); err != nil {
				return nil, fmt.Errorf("decoding tags: %w", err)
			}
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) latestRunID(ctx context.Context) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM runs ORDER BY started_at DESC LIMIT 1`).Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("finding latest run: %w", err)
	}
	return id, nil
}
