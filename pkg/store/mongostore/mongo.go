// Package mongostore implements store.Store on MongoDB.
//
// Projects live in the "projects" collection with the file they were
// created for under "metadata". Takeoff messages live in "takeoffs", one
// document per file id, with the element records stored as nested
// documents so they can be queried in place.
package mongostore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/ifcqto/pkg/pipeline"
	"github.com/matzehuels/ifcqto/pkg/store"
)

const (
	backend = "mongodb"

	// DefaultDatabase is used when no database name is configured.
	DefaultDatabase = "qto"

	projectsCollection = "projects"
	takeoffsCollection = "takeoffs"

	connectTimeout    = 5 * time.Second
	disconnectTimeout = 5 * time.Second
)

// Store is a MongoDB-backed store.Store.
type Store struct {
	client   *mongo.Client
	projects *mongo.Collection
	takeoffs *mongo.Collection
	logger   *log.Logger
}

type projectDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	Metadata    projectMetadata    `bson:"metadata"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

type projectMetadata struct {
	FileID   string `bson:"file_id"`
	Filename string `bson:"filename"`
}

// Open connects to uri, verifies the connection and ensures the indexes of
// both collections exist.
func Open(ctx context.Context, uri, database string, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if database == "" {
		database = DefaultDatabase
	}

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(connectTimeout))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	db := client.Database(database)
	s := &Store{
		client:   client,
		projects: db.Collection(projectsCollection),
		takeoffs: db.Collection(takeoffsCollection),
		logger:   logger,
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	logger.Debug("connected to mongodb", "database", database)
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	if _, err := s.projects.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: unique,
	}); err != nil {
		return fmt.Errorf("create project index: %w", err)
	}
	if _, err := s.takeoffs.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "file_id", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "project", Value: 1}}},
	}); err != nil {
		return fmt.Errorf("create takeoff indexes: %w", err)
	}
	return nil
}

func (s *Store) SaveProject(ctx context.Context, p store.Project) (id string, err error) {
	defer func(start time.Time) { store.Observe(ctx, backend, "save_project", start, err) }(time.Now())

	now := time.Now().UTC()
	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "description", Value: p.Description},
			{Key: "metadata", Value: projectMetadata{FileID: p.FileID, Filename: p.Filename}},
			{Key: "updated_at", Value: now},
		}},
		{Key: "$setOnInsert", Value: bson.D{{Key: "created_at", Value: now}}},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc projectDoc
	err = s.projects.FindOneAndUpdate(ctx, bson.D{{Key: "name", Value: p.Name}}, update, opts).Decode(&doc)
	if err != nil {
		return "", fmt.Errorf("save project %q: %w", p.Name, err)
	}
	return doc.ID.Hex(), nil
}

func (s *Store) ListProjects(ctx context.Context) (projects []store.Project, err error) {
	defer func(start time.Time) { store.Observe(ctx, backend, "list_projects", start, err) }(time.Now())

	cur, err := s.projects.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	var docs []projectDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	for _, d := range docs {
		projects = append(projects, store.Project{
			ID:          d.ID.Hex(),
			Name:        d.Name,
			Description: d.Description,
			FileID:      d.Metadata.FileID,
			Filename:    d.Metadata.Filename,
			CreatedAt:   d.CreatedAt,
			UpdatedAt:   d.UpdatedAt,
		})
	}
	return projects, nil
}

// SaveTakeoff stores msg as a document shaped like its JSON encoding.
func (s *Store) SaveTakeoff(ctx context.Context, msg pipeline.Message) (err error) {
	defer func(start time.Time) { store.Observe(ctx, backend, "save_takeoff", start, err) }(time.Now())

	doc, err := toDocument(msg)
	if err != nil {
		return fmt.Errorf("encode takeoff %s: %w", msg.FileID, err)
	}
	_, err = s.takeoffs.ReplaceOne(ctx,
		bson.D{{Key: "file_id", Value: msg.FileID}},
		doc,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save takeoff %s: %w", msg.FileID, err)
	}
	return nil
}

func (s *Store) LoadTakeoff(ctx context.Context, fileID string) (msg *pipeline.Message, err error) {
	defer func(start time.Time) { store.Observe(ctx, backend, "load_takeoff", start, err) }(time.Now())

	raw, err := s.takeoffs.FindOne(ctx, bson.D{{Key: "file_id", Value: fileID}}).Raw()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("takeoff %s: %w", fileID, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load takeoff %s: %w", fileID, err)
	}
	m, err := fromDocument(raw)
	if err != nil {
		return nil, fmt.Errorf("decode takeoff %s: %w", fileID, err)
	}
	return m, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// toDocument converts msg through its JSON form so element records keep
// their key order (material volumes are ordered).
func toDocument(msg pipeline.Message) (bson.D, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}
	var doc bson.D
	if err := bson.UnmarshalExtJSON(data, false, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func fromDocument(raw bson.Raw) (*pipeline.Message, error) {
	data, err := bson.MarshalExtJSON(raw, false, false)
	if err != nil {
		return nil, err
	}
	var m pipeline.Message
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

var _ store.Store = (*Store)(nil)
