// Package store persists projects and takeoff messages.
//
// The service records every project it sends a takeoff for, together with
// the last QTO message of each model file, so downstream cost systems can
// re-read what was published. Two backends implement [Store]:
//
//   - mongostore: MongoDB, the document store of server deployments
//   - sqlitestore: a single SQLite file for local and CLI use
//
// [Null] reports itself unavailable and stores nothing; callers treat a
// missing store as a degraded, not failed, state.
package store

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/matzehuels/ifcqto/pkg/observability"
	"github.com/matzehuels/ifcqto/pkg/pipeline"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when a takeoff does not exist.
	ErrNotFound = stderrors.New("not found")

	// ErrUnavailable is returned by stores that cannot serve requests.
	ErrUnavailable = stderrors.New("store unavailable")
)

// Project is a named project a model file belongs to.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	FileID      string    `json:"file_id"`
	Filename    string    `json:"filename"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewProject describes the project of a QTO message.
func NewProject(msg pipeline.Message) Project {
	return Project{
		Name:        msg.Project,
		Description: "Project for " + msg.Filename,
		FileID:      msg.FileID,
		Filename:    msg.Filename,
	}
}

// Store persists projects and takeoff messages.
// Implementations must be safe for concurrent use.
type Store interface {
	// SaveProject creates or updates the project with p.Name and returns
	// its id. CreatedAt is kept on update.
	SaveProject(ctx context.Context, p Project) (string, error)

	// ListProjects returns all projects ordered by name.
	ListProjects(ctx context.Context) ([]Project, error)

	// SaveTakeoff stores msg under msg.FileID, replacing an earlier one.
	SaveTakeoff(ctx context.Context, msg pipeline.Message) error

	// LoadTakeoff returns the takeoff stored under fileID, or ErrNotFound.
	LoadTakeoff(ctx context.Context, fileID string) (*pipeline.Message, error)

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error

	Close() error
}

// Observe reports a finished store operation to the observability hooks.
// Backends call it as
//
//	defer func(start time.Time) { store.Observe(ctx, "sqlite", "save_project", start, err) }(time.Now())
func Observe(ctx context.Context, backend, op string, start time.Time, err error) {
	observability.Store().OnStoreOp(ctx, backend, op, time.Since(start), err)
}

// Null is a store that is never available.
type Null struct{}

func (Null) SaveProject(context.Context, Project) (string, error) { return "", ErrUnavailable }

func (Null) ListProjects(context.Context) ([]Project, error) { return nil, ErrUnavailable }

func (Null) SaveTakeoff(context.Context, pipeline.Message) error { return ErrUnavailable }

func (Null) LoadTakeoff(context.Context, string) (*pipeline.Message, error) {
	return nil, ErrUnavailable
}

func (Null) Ping(context.Context) error { return ErrUnavailable }

func (Null) Close() error { return nil }

var _ Store = Null{}
