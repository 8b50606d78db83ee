package server

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/ifcqto/pkg/ifc"
)

// model is an uploaded model document held in memory.
type model struct {
	ID         string
	Filename   string
	Hash       string
	Model      *ifc.Model
	UploadedAt time.Time
}

// registry holds uploaded models by id.
type registry struct {
	mu     sync.RWMutex
	models map[string]*model
}

func newRegistry() *registry {
	return &registry{models: make(map[string]*model)}
}

// add stores m under a fresh id and returns it.
func (r *registry) add(m *model) string {
	m.ID = uuid.NewString()
	r.mu.Lock()
	r.models[m.ID] = m
	r.mu.Unlock()
	return m.ID
}

func (r *registry) get(id string) (*model, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.models[id]
	return m, ok
}

func (r *registry) remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.models[id]; !ok {
		return false
	}
	delete(r.models, id)
	return true
}

// list returns all models, oldest upload first.
func (r *registry) list() []*model {
	r.mu.RLock()
	out := make([]*model, 0, len(r.models))
	for _, m := range r.models {
		out = append(out, m)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].UploadedAt.Equal(out[j].UploadedAt) {
			return out[i].UploadedAt.Before(out[j].UploadedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *registry) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.models)
}
