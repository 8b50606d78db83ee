package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/ifcqto/pkg/cache"
	"github.com/matzehuels/ifcqto/pkg/errors"
	"github.com/matzehuels/ifcqto/pkg/ifc"
	"github.com/matzehuels/ifcqto/pkg/observability"
	"github.com/matzehuels/ifcqto/pkg/takeoff"
)

const cacheKeyType = "takeoff"

// Runner encapsulates takeoff execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store results. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute computes the takeoff of m. A cached result for the same document
// and options is returned when available. When opts.Timeout expires the
// result holds the completed elements only. Cancellation of ctx itself is
// returned as an error.
func (r *Runner) Execute(ctx context.Context, m *ifc.Model, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, errors.New(errors.ErrCodeInvalidModel, "no model")
	}

	var key string
	if opts.DocumentHash != "" {
		key = r.Keyer.TakeoffKey(opts.DocumentHash, opts.TakeoffKeyOpts())
		if !opts.Refresh {
			if elements, ok := r.cached(ctx, key); ok {
				r.Logger.Debug("takeoff from cache", "model", opts.Name, "elements", len(elements))
				result := &Result{Elements: elements, CacheInfo: CacheInfo{Hit: true, Key: key}}
				result.Stats = summarize(elements)
				result.Stats.Selected = len(elements)
				return result, nil
			}
		}
	}

	result, err := r.run(ctx, m, opts)
	if err != nil {
		return nil, err
	}
	result.CacheInfo.Key = key

	r.Logger.Info("computed takeoff",
		"model", opts.Name,
		"elements", result.Stats.Completed,
		"with_area", result.Stats.WithArea,
		"with_materials", result.Stats.WithMaterials,
		"duration", result.Stats.Duration)

	if key != "" && result.Stats.Incomplete == 0 {
		if data, err := json.Marshal(result.Elements); err == nil {
			if err := r.Cache.Set(ctx, key, data, cache.TTLTakeoff); err != nil {
				r.Logger.Warn("cache takeoff", "error", err)
			} else {
				observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
			}
		}
	}
	return result, nil
}

// Elements is a convenience wrapper that calls Execute and returns only the
// element records.
func (r *Runner) Elements(ctx context.Context, m *ifc.Model, opts Options) ([]takeoff.Element, error) {
	result, err := r.Execute(ctx, m, opts)
	if err != nil {
		return nil, err
	}
	return result.Elements, nil
}

func (r *Runner) cached(ctx context.Context, key string) ([]takeoff.Element, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("read takeoff cache", "error", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return nil, false
	}
	elements, err := decodeElements(data)
	if err != nil {
		r.Logger.Warn("discarding takeoff cache entry", "key", key, "error", err)
		_ = r.Cache.Delete(ctx, key)
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, cacheKeyType)
	return elements, true
}

func decodeElements(data []byte) ([]takeoff.Element, error) {
	var elements []takeoff.Element
	if err := json.Unmarshal(data, &elements); err != nil {
		return nil, fmt.Errorf("%w: %v", cache.ErrCorrupt, err)
	}
	return elements, nil
}

// run assembles the selected elements in contiguous shards.
func (r *Runner) run(ctx context.Context, m *ifc.Model, opts Options) (*Result, error) {
	start := time.Now()
	selected := m.ByType(opts.Classes...)
	hooks := observability.Takeoff()
	hooks.OnTakeoffStart(ctx, opts.Name, len(selected))

	runCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	asm := takeoff.NewAssembler(m, opts.Logger)
	records := make([]takeoff.Element, len(selected))
	done := make([]bool, len(selected))

	workers := min(opts.Workers, max(len(selected), 1))
	size := (len(selected) + workers - 1) / workers
	g, gctx := errgroup.WithContext(runCtx)
	for lo := 0; lo < len(selected); lo += size {
		hi := min(lo+size, len(selected))
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				records[i] = asm.Element(selected[i])
				done[i] = true
			}
			return nil
		})
	}
	waitErr := g.Wait()

	result := &Result{Elements: make([]takeoff.Element, 0, len(selected))}
	for i, ok := range done {
		if ok {
			result.Elements = append(result.Elements, records[i])
		}
	}
	result.Stats = summarize(result.Elements)
	result.Stats.Selected = len(selected)
	result.Stats.Incomplete = len(selected) - result.Stats.Completed
	result.Stats.Workers = workers
	result.Stats.Duration = time.Since(start)

	hits, misses := asm.VolumeCache().Stats()
	hooks.OnVolumeCache(ctx, opts.Name, hits, misses)

	var err error
	if waitErr != nil && ctx.Err() != nil {
		err = errors.Wrap(errors.ErrCodeTimeout, ctx.Err(), "takeoff of %s cancelled", opts.Name)
	}
	hooks.OnTakeoffComplete(ctx, opts.Name, result.Stats.Completed, result.Stats.Duration, err)
	if err != nil {
		return nil, err
	}

	if result.Stats.Incomplete > 0 {
		r.Logger.Warn("takeoff timed out",
			"model", opts.Name,
			"completed", result.Stats.Completed,
			"incomplete", result.Stats.Incomplete,
			"timeout", opts.Timeout)
	}
	return result, nil
}

func summarize(elements []takeoff.Element) Stats {
	s := Stats{Completed: len(elements)}
	for _, el := range elements {
		if el.Area > 0 {
			s.WithArea++
		}
		if el.MaterialVolumes.Len() > 0 {
			s.WithMaterials++
		}
	}
	return s
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
