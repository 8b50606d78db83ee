// Package sqlitestore implements store.Store on a single SQLite file.
package sqlitestore

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/matzehuels/ifcqto/pkg/pipeline"
	"github.com/matzehuels/ifcqto/pkg/store"
)

const backend = "sqlite"

//go:embed migrations/*.sql
var migrations embed.FS

// Store is a SQLite-backed store.Store.
type Store struct {
	db     *sql.DB
	logger *log.Logger
}

// Open opens (creating if needed) the database at path, sets the pragmas
// the store relies on and applies pending migrations.
func Open(ctx context.Context, path string, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if _, err := db.ExecContext(ctx, `
		PRAGMA journal_mode = WAL;
		PRAGMA foreign_keys = ON;
		PRAGMA busy_timeout = 5000;
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("set sqlite pragmas: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}
	if err := migrate(ctx, db, logger); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, logger: logger}, nil
}

func migrate(ctx context.Context, db *sql.DB, logger *log.Logger) error {
	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, fsys)
	if err != nil {
		return fmt.Errorf("create migration provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("run goose up migrations: %w", err)
	}
	for _, r := range results {
		logger.Debug("applied migration", "version", r.Source.Version, "duration", r.Duration)
	}
	return nil
}

func (s *Store) SaveProject(ctx context.Context, p store.Project) (id string, err error) {
	defer func(start time.Time) { store.Observe(ctx, backend, "save_project", start, err) }(time.Now())

	now := time.Now().UTC().Format(time.RFC3339Nano)
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO projects (id, name, description, file_id, filename, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			description = excluded.description,
			file_id = excluded.file_id,
			filename = excluded.filename,
			updated_at = excluded.updated_at
		RETURNING id`,
		uuid.NewString(), p.Name, p.Description, p.FileID, p.Filename, now, now,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("save project %q: %w", p.Name, err)
	}
	return id, nil
}

func (s *Store) ListProjects(ctx context.Context) (projects []store.Project, err error) {
	defer func(start time.Time) { store.Observe(ctx, backend, "list_projects", start, err) }(time.Now())

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, file_id, filename, created_at, updated_at
		FROM projects ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p store.Project
		var created, updated string
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.FileID, &p.Filename, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		p.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		p.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

func (s *Store) SaveTakeoff(ctx context.Context, msg pipeline.Message) (err error) {
	defer func(start time.Time) { store.Observe(ctx, backend, "save_takeoff", start, err) }(time.Now())

	elements, err := json.Marshal(msg.Elements)
	if err != nil {
		return fmt.Errorf("encode takeoff %s: %w", msg.FileID, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO takeoffs (file_id, project, filename, timestamp, element_count, elements)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(file_id) DO UPDATE SET
			project = excluded.project,
			filename = excluded.filename,
			timestamp = excluded.timestamp,
			element_count = excluded.element_count,
			elements = excluded.elements`,
		msg.FileID, msg.Project, msg.Filename, msg.Timestamp, msg.ElementCount, string(elements))
	if err != nil {
		return fmt.Errorf("save takeoff %s: %w", msg.FileID, err)
	}
	return nil
}

func (s *Store) LoadTakeoff(ctx context.Context, fileID string) (msg *pipeline.Message, err error) {
	defer func(start time.Time) { store.Observe(ctx, backend, "load_takeoff", start, err) }(time.Now())

	var m pipeline.Message
	var elements string
	err = s.db.QueryRowContext(ctx, `
		SELECT file_id, project, filename, timestamp, element_count, elements
		FROM takeoffs WHERE file_id = ?`, fileID,
	).Scan(&m.FileID, &m.Project, &m.Filename, &m.Timestamp, &m.ElementCount, &elements)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("takeoff %s: %w", fileID, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load takeoff %s: %w", fileID, err)
	}
	if err := json.Unmarshal([]byte(elements), &m.Elements); err != nil {
		return nil, fmt.Errorf("decode takeoff %s: %w", fileID, err)
	}
	return &m, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

var _ store.Store = (*Store)(nil)
