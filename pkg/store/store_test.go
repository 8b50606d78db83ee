package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matzehuels/ifcqto/pkg/observability"
	"github.com/matzehuels/ifcqto/pkg/pipeline"
)

func TestNewProject(t *testing.T) {
	msg := pipeline.NewMessage("", "house.v1.json", nil, time.Now())
	p := NewProject(msg)
	if p.Name != "house" || p.FileID != "house/house.v1.json" || p.Filename != "house.v1.json" {
		t.Errorf("NewProject = %+v", p)
	}
	if p.Description != "Project for house.v1.json" {
		t.Errorf("Description = %q", p.Description)
	}
}

func TestNull(t *testing.T) {
	ctx := context.Background()
	var s Store = Null{}

	if err := s.Ping(ctx); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Ping = %v, want ErrUnavailable", err)
	}
	if _, err := s.SaveProject(ctx, Project{Name: "p"}); !errors.Is(err, ErrUnavailable) {
		t.Errorf("SaveProject = %v, want ErrUnavailable", err)
	}
	if _, err := s.LoadTakeoff(ctx, "p/f"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("LoadTakeoff = %v, want ErrUnavailable", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close = %v", err)
	}
}

type recordingHooks struct {
	observability.NoopStoreHooks
	ops []string
}

func (h *recordingHooks) OnStoreOp(_ context.Context, backend, op string, _ time.Duration, err error) {
	h.ops = append(h.ops, backend+":"+op)
}

func TestObserve(t *testing.T) {
	h := &recordingHooks{}
	observability.SetStoreHooks(h)
	t.Cleanup(observability.Reset)

	Observe(context.Background(), "sqlite", "save_project", time.Now(), nil)
	if len(h.ops) != 1 || h.ops[0] != "sqlite:save_project" {
		t.Errorf("ops = %v", h.ops)
	}
}
