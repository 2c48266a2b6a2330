package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/papapumpkin/manpower/internal/alloc"
	"github.com/papapumpkin/manpower/internal/plan"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// schema contains the DDL executed on every open.
const schema = `
CREATE TABLE IF NOT EXISTS teams (
    position    INTEGER PRIMARY KEY,
    id          TEXT NOT NULL,
    name        TEXT NOT NULL,
    capacity    REAL NOT NULL,
    color       TEXT NOT NULL DEFAULT '',
    badge       TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS projects (
    position     INTEGER PRIMARY KEY,
    id           TEXT NOT NULL,
    name         TEXT NOT NULL,
    status       TEXT NOT NULL,
    color        TEXT NOT NULL DEFAULT '',
    pattern      TEXT NOT NULL DEFAULT 'solid',
    teams        TEXT NOT NULL DEFAULT '[]',
    release_date TEXT NOT NULL DEFAULT '',
    description  TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS time_points (
    position    INTEGER PRIMARY KEY,
    id          TEXT NOT NULL,
    name        TEXT NOT NULL,
    date        TEXT NOT NULL,
    type        TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS allocations (
    time_point TEXT NOT NULL,
    project    TEXT NOT NULL,
    team       TEXT NOT NULL,
    occupied   REAL NOT NULL,
    prerelease REAL NOT NULL,
    PRIMARY KEY (time_point, project, team)
);

CREATE TABLE IF NOT EXISTS saves (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    label       TEXT NOT NULL DEFAULT '',
    teams       INTEGER NOT NULL,
    projects    INTEGER NOT NULL,
    time_points INTEGER NOT NULL,
    cells       INTEGER NOT NULL,
    saved_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// SQLiteStore persists snapshots in a SQLite database in WAL mode.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens (or creates) the database at dbPath, enables WAL mode and a
// busy timeout, and creates the schema if needed.
func Open(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	// SQLite has a single writer; one pooled connection keeps PRAGMAs in
	// effect for every statement.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: enable WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: set busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("store: close: %w", err)
	}
	return nil
}

// Save replaces the current plan with snap and appends a history entry, all
// in one transaction. It returns the new history entry.
func (s *SQLiteStore) Save(ctx context.Context, snap Snapshot, label string) (SaveRecord, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SaveRecord{}, fmt.Errorf("store: begin save: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	for _, table := range []string{"teams", "projects", "time_points", "allocations"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return SaveRecord{}, fmt.Errorf("store: clear %s: %w", table, err)
		}
	}

	for i, t := range snap.Teams {
		const q = `INSERT INTO teams (position, id, name, capacity, color, badge, description) VALUES (?, ?, ?, ?, ?, ?, ?)`
		if _, err := tx.ExecContext(ctx, q, i, t.ID, t.Name, t.Capacity, t.Color, t.Badge, t.Description); err != nil {
			return SaveRecord{}, fmt.Errorf("store: insert team %q: %w", t.ID, err)
		}
	}
	for i, p := range snap.Projects {
		teams := p.Teams
		if teams == nil {
			teams = []string{}
		}
		teamsJSON, err := json.Marshal(teams)
		if err != nil {
			return SaveRecord{}, fmt.Errorf("store: encode project %q teams: %w", p.ID, err)
		}
		const q = `INSERT INTO projects (position, id, name, status, color, pattern, teams, release_date, description) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
		if _, err := tx.ExecContext(ctx, q, i, p.ID, p.Name, string(p.Status), p.Color, string(p.Pattern), string(teamsJSON), p.ReleaseDate, p.Description); err != nil {
			return SaveRecord{}, fmt.Errorf("store: insert project %q: %w", p.ID, err)
		}
	}
	for i, tp := range snap.TimePoints {
		const q = `INSERT INTO time_points (position, id, name, date, type, description) VALUES (?, ?, ?, ?, ?, ?)`
		if _, err := tx.ExecContext(ctx, q, i, tp.ID, tp.Name, tp.Date, string(tp.Type), tp.Description); err != nil {
			return SaveRecord{}, fmt.Errorf("store: insert time point %q: %w", tp.ID, err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO allocations (time_point, project, team, occupied, prerelease) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return SaveRecord{}, fmt.Errorf("store: prepare allocation insert: %w", err)
	}
	defer stmt.Close()
	for _, k := range alloc.FromNested(snap.Allocations).Keys() {
		c := snap.Allocations[k.TimePoint][k.Project][k.Team]
		if _, err := stmt.ExecContext(ctx, k.TimePoint, k.Project, k.Team, c.Occupied, c.Prerelease); err != nil {
			return SaveRecord{}, fmt.Errorf("store: insert allocation %s: %w", k, err)
		}
	}

	rec := SaveRecord{
		Label:      label,
		Teams:      len(snap.Teams),
		Projects:   len(snap.Projects),
		TimePoints: len(snap.TimePoints),
		Cells:      snap.Cells(),
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO saves (label, teams, projects, time_points, cells) VALUES (?, ?, ?, ?, ?)`,
		rec.Label, rec.Teams, rec.Projects, rec.TimePoints, rec.Cells)
	if err != nil {
		return SaveRecord{}, fmt.Errorf("store: record save: %w", err)
	}
	if rec.ID, err = res.LastInsertId(); err != nil {
		return SaveRecord{}, fmt.Errorf("store: save id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return SaveRecord{}, fmt.Errorf("store: commit save: %w", err)
	}
	rec.SavedAt = time.Now().UTC().Truncate(time.Second)
	return rec, nil
}

// Load returns the current plan, or ErrNoSnapshot if nothing was saved.
func (s *SQLiteStore) Load(ctx context.Context) (Snapshot, error) {
	var saves int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM saves").Scan(&saves); err != nil {
		return Snapshot{}, fmt.Errorf("store: count saves: %w", err)
	}
	if saves == 0 {
		return Snapshot{}, ErrNoSnapshot
	}

	snap := Snapshot{
		Teams:       []plan.Team{},
		Projects:    []plan.Project{},
		TimePoints:  []plan.TimePoint{},
		Allocations: alloc.Nested{},
	}
	if err := s.loadTeams(ctx, &snap); err != nil {
		return Snapshot{}, err
	}
	if err := s.loadProjects(ctx, &snap); err != nil {
		return Snapshot{}, err
	}
	if err := s.loadTimePoints(ctx, &snap); err != nil {
		return Snapshot{}, err
	}
	if err := s.loadAllocations(ctx, &snap); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

func (s *SQLiteStore) loadTeams(ctx context.Context, snap *Snapshot) error {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, capacity, color, badge, description FROM teams ORDER BY position")
	if err != nil {
		return fmt.Errorf("store: load teams: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var t plan.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.Capacity, &t.Color, &t.Badge, &t.Description); err != nil {
			return fmt.Errorf("store: scan team: %w", err)
		}
		snap.Teams = append(snap.Teams, t)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("store: iterate teams: %w", err)
	}
	return nil
}

func (s *SQLiteStore) loadProjects(ctx context.Context, snap *Snapshot) error {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, status, color, pattern, teams, release_date, description FROM projects ORDER BY position")
	if err != nil {
		return fmt.Errorf("store: load projects: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p plan.Project
		var status, pattern, teams string
		if err := rows.Scan(&p.ID, &p.Name, &status, &p.Color, &pattern, &teams, &p.ReleaseDate, &p.Description); err != nil {
			return fmt.Errorf("store: scan project: %w", err)
		}
		p.Status = plan.Status(status)
		p.Pattern = plan.Pattern(pattern)
		if err := json.Unmarshal([]byte(teams), &p.Teams); err != nil {
			return fmt.Errorf("store: decode project %q teams: %w", p.ID, err)
		}
		if len(p.Teams) == 0 {
			p.Teams = nil
		}
		snap.Projects = append(snap.Projects, p)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("store: iterate projects: %w", err)
	}
	return nil
}

func (s *SQLiteStore) loadTimePoints(ctx context.Context, snap *Snapshot) error {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, date, type, description FROM time_points ORDER BY position")
	if err != nil {
		return fmt.Errorf("store: load time points: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var tp plan.TimePoint
		var typ string
		if err := rows.Scan(&tp.ID, &tp.Name, &tp.Date, &typ, &tp.Description); err != nil {
			return fmt.Errorf("store: scan time point: %w", err)
		}
		tp.Type = plan.TimePointType(typ)
		snap.TimePoints = append(snap.TimePoints, tp)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("store: iterate time points: %w", err)
	}
	return nil
}

func (s *SQLiteStore) loadAllocations(ctx context.Context, snap *Snapshot) error {
	rows, err := s.db.QueryContext(ctx, "SELECT time_point, project, team, occupied, prerelease FROM allocations")
	if err != nil {
		return fmt.Errorf("store: load allocations: %w", err)
	}
	defer rows.Close()
	m := alloc.New()
	for rows.Next() {
		var k alloc.Key
		var c alloc.Cell
		if err := rows.Scan(&k.TimePoint, &k.Project, &k.Team, &c.Occupied, &c.Prerelease); err != nil {
			return fmt.Errorf("store: scan allocation: %w", err)
		}
		m.Set(k, c)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("store: iterate allocations: %w", err)
	}
	snap.Allocations = m.Nested()
	return nil
}

// History lists saves, newest first.
func (s *SQLiteStore) History(ctx context.Context) ([]SaveRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, label, teams, projects, time_points, cells, saved_at FROM saves ORDER BY id DESC")
	if err != nil {
		return nil, fmt.Errorf("store: history: %w", err)
	}
	defer rows.Close()

	var out []SaveRecord
	for rows.Next() {
		var r SaveRecord
		var ts string
		if err := rows.Scan(&r.ID, &r.Label, &r.Teams, &r.Projects, &r.TimePoints, &r.Cells, &ts); err != nil {
			return nil, fmt.Errorf("store: scan save: %w", err)
		}
		if r.SavedAt, err = parseTimestamp(ts); err != nil {
			return nil, fmt.Errorf("store: parse save timestamp: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate saves: %w", err)
	}
	return out, nil
}

// timestampFormats lists the formats SQLite drivers may produce for
// CURRENT_TIMESTAMP.
var timestampFormats = []string{
	time.RFC3339,
	time.DateTime,
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format: %q", s)
}
