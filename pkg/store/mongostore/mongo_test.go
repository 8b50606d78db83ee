package mongostore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/matzehuels/ifcqto/pkg/material"
	"github.com/matzehuels/ifcqto/pkg/pipeline"
	"github.com/matzehuels/ifcqto/pkg/store"
	"github.com/matzehuels/ifcqto/pkg/takeoff"
)

func testMessage() pipeline.Message {
	vols := material.NewVolumes()
	a, b := 0.6, 0.4
	vols.Add("Screed", material.Record{Fraction: 0.6, Volume: &a})
	vols.Add("Concrete", material.Record{Fraction: 0.4, Volume: &b})
	elements := []takeoff.Element{{ID: "1", Type: "IfcSlab", Name: "Slab", Area: 12.5, MaterialVolumes: vols}}
	return pipeline.NewMessage("site", "slab.json", elements, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
}

func TestDocumentRoundTripKeepsMaterialOrder(t *testing.T) {
	doc, err := toDocument(testMessage())
	if err != nil {
		t.Fatal(err)
	}
	raw, err := bson.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	got, err := fromDocument(raw)
	if err != nil {
		t.Fatal(err)
	}
	if got.FileID != "site/slab.json" || got.ElementCount != 1 {
		t.Errorf("message = %+v", got)
	}
	names := got.Elements[0].MaterialVolumes.Names()
	if len(names) != 2 || names[0] != "Screed" || names[1] != "Concrete" {
		t.Errorf("material order = %v", names)
	}
	if r, _ := got.Elements[0].MaterialVolumes.Get("Screed"); *r.Volume != 0.6 {
		t.Errorf("Screed volume = %v", *r.Volume)
	}
}

// TestStore runs against a live server when MONGODB_URI is set.
func TestStore(t *testing.T) {
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		t.Skip("MONGODB_URI not set")
	}
	ctx := context.Background()
	database := fmt.Sprintf("ifcqto_test_%d", time.Now().UnixNano())
	s, err := Open(ctx, uri, database, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		_ = s.client.Database(database).Drop(context.Background())
		s.Close()
	})

	msg := testMessage()
	id1, err := s.SaveProject(ctx, store.NewProject(msg))
	if err != nil {
		t.Fatal(err)
	}
	id2, err := s.SaveProject(ctx, store.NewProject(msg))
	if err != nil {
		t.Fatal(err)
	}
	if id1 != id2 {
		t.Errorf("upsert produced a second project: %s vs %s", id1, id2)
	}

	if err := s.SaveTakeoff(ctx, msg); err != nil {
		t.Fatal(err)
	}
	got, err := s.LoadTakeoff(ctx, msg.FileID)
	if err != nil {
		t.Fatal(err)
	}
	if got.ElementCount != 1 || got.Elements[0].Area != 12.5 {
		t.Errorf("takeoff = %+v", got)
	}
	if _, err := s.LoadTakeoff(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
