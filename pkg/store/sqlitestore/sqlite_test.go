package sqlitestore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/ifcqto/pkg/material"
	"github.com/matzehuels/ifcqto/pkg/pipeline"
	"github.com/matzehuels/ifcqto/pkg/quantity"
	"github.com/matzehuels/ifcqto/pkg/store"
	"github.com/matzehuels/ifcqto/pkg/takeoff"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "ifcqto.db"), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ifcqto.db")
	for i := 0; i < 2; i++ {
		s, err := Open(context.Background(), path, nil)
		if err != nil {
			t.Fatalf("Open #%d: %v", i+1, err)
		}
		if err := s.Ping(context.Background()); err != nil {
			t.Errorf("Ping: %v", err)
		}
		s.Close()
	}
}

func TestSaveProjectUpserts(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	id1, err := s.SaveProject(ctx, store.Project{Name: "house", Description: "v1", FileID: "house/a.json", Filename: "a.json"})
	if err != nil {
		t.Fatal(err)
	}
	id2, err := s.SaveProject(ctx, store.Project{Name: "house", Description: "v2", FileID: "house/b.json", Filename: "b.json"})
	if err != nil {
		t.Fatal(err)
	}
	if id1 != id2 {
		t.Errorf("ids differ on upsert: %s vs %s", id1, id2)
	}
	if _, err := s.SaveProject(ctx, store.Project{Name: "barn"}); err != nil {
		t.Fatal(err)
	}

	projects, err := s.ListProjects(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(projects) != 2 || projects[0].Name != "barn" || projects[1].Name != "house" {
		t.Fatalf("projects = %+v", projects)
	}
	house := projects[1]
	if house.Description != "v2" || house.Filename != "b.json" {
		t.Errorf("house = %+v", house)
	}
	if house.CreatedAt.IsZero() || house.UpdatedAt.Before(house.CreatedAt) {
		t.Errorf("timestamps = %v / %v", house.CreatedAt, house.UpdatedAt)
	}
}

func TestTakeoffRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	net := 2.5
	vols := material.NewVolumes()
	half := 1.25
	vols.Add("Brick", material.Record{Fraction: 0.5, Volume: &half})
	vols.Add("Brick", material.Record{Fraction: 0.5, Volume: &half})
	elements := []takeoff.Element{{
		ID:              "7",
		GlobalID:        "2O2Fr$t4X7Zf8NOew3FLOH",
		Type:            "IfcWall",
		Name:            "Wall",
		Properties:      map[string]string{"Pset_WallCommon.IsExternal": "True"},
		Volume:          &quantity.Volume{Net: &net},
		Area:            10,
		MaterialVolumes: vols,
	}}
	msg := pipeline.NewMessage("", "house.json", elements, time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC))

	if err := s.SaveTakeoff(ctx, msg); err != nil {
		t.Fatal(err)
	}
	got, err := s.LoadTakeoff(ctx, "house/house.json")
	if err != nil {
		t.Fatal(err)
	}
	if got.Project != "house" || got.Timestamp != "2025-01-02T03:04:05Z" || got.ElementCount != 1 {
		t.Errorf("message = %+v", got)
	}
	if len(got.Elements) != 1 {
		t.Fatalf("elements = %d, want 1", len(got.Elements))
	}
	el := got.Elements[0]
	if *el.Volume.Net != 2.5 || el.Properties["Pset_WallCommon.IsExternal"] != "True" {
		t.Errorf("element = %+v", el)
	}
	if names := el.MaterialVolumes.Names(); len(names) != 2 || names[1] != "Brick (1)" {
		t.Errorf("materials = %v", names)
	}

	// replace
	msg.ElementCount, msg.Elements = 0, []takeoff.Element{}
	if err := s.SaveTakeoff(ctx, msg); err != nil {
		t.Fatal(err)
	}
	got, _ = s.LoadTakeoff(ctx, "house/house.json")
	if got.ElementCount != 0 {
		t.Errorf("replaced ElementCount = %d", got.ElementCount)
	}
}

func TestLoadTakeoffNotFound(t *testing.T) {
	s := openTest(t)
	if _, err := s.LoadTakeoff(context.Background(), "nope/nope.json"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
