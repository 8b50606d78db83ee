// Package pipeline runs the quantity takeoff over a whole model.
//
// This package implements the model-level takeoff that the CLI and the HTTP
// API share: target-class selection, sharded parallel assembly of element
// records, a caller-level timeout, and result caching. By centralizing this
// logic both entry points report identical numbers for the same document.
//
// # Execution
//
// Elements are selected with [ifc.Model.ByType] over the target classes
// (subtypes included, each element once, in model order). The selection is
// split into contiguous shards, one goroutine per shard, and every element is
// assembled synchronously by a single [takeoff.Assembler] whose volume memo
// is shared by all shards.
//
// When the timeout expires, workers stop before their next element and the
// result holds only the elements that completed, still in model order.
// [Stats.Incomplete] counts the rest. Incomplete results are never cached.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, model, pipeline.Options{
//	    DocumentHash: cache.Hash(data),
//	    Workers:      8,
//	    Timeout:      time.Minute,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, el := range result.Elements {
//	    fmt.Println(el.Name, el.MaterialVolumes.Names())
//	}
package pipeline

import (
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ifcqto/pkg/cache"
	"github.com/matzehuels/ifcqto/pkg/errors"
	"github.com/matzehuels/ifcqto/pkg/ifc"
	"github.com/matzehuels/ifcqto/pkg/takeoff"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultTimeout bounds one takeoff run.
	DefaultTimeout = 5 * time.Minute

	// MaxWorkers caps the number of shards.
	MaxWorkers = 64

	// EngineVersion is part of every cache key. Bump it whenever the
	// takeoff output changes for the same input.
	EngineVersion = 1
)

// DefaultWorkers is the default number of shards.
var DefaultWorkers = runtime.NumCPU()

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatXLSX = "xlsx"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatXLSX: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains the configuration of one takeoff run.
type Options struct {
	// Classes are the target IFC classes. Empty selects
	// ifc.DefaultTargetClasses.
	Classes []string `json:"classes,omitempty"`

	// Workers is the number of shards processed in parallel.
	Workers int `json:"workers,omitempty"`

	// Timeout bounds the run. Elements not completed in time are dropped.
	Timeout time.Duration `json:"timeout,omitempty"`

	// DocumentHash identifies the source document for caching. Empty
	// disables the result cache.
	DocumentHash string `json:"document_hash,omitempty"`

	// Refresh recomputes and overwrites a cached result.
	Refresh bool `json:"refresh,omitempty"`

	// Name labels the model in logs and hooks.
	Name string `json:"name,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a takeoff run.
type Result struct {
	// Elements are the completed takeoff records in model order.
	Elements []takeoff.Element

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks whether the result came from the cache.
	CacheInfo CacheInfo
}

// Stats contains takeoff execution statistics.
type Stats struct {
	Selected      int // elements matching the target classes
	Completed     int // elements assembled
	Incomplete    int // elements dropped by the timeout
	WithArea      int
	WithMaterials int
	Workers       int
	Duration      time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	Hit bool // Whether the result came from cache
	Key string
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format: %q (must be one of: json, xlsx)", format)
	}
	return nil
}

// ParseClasses splits a comma-separated class list, dropping blanks.
func ParseClasses(s string) []string {
	var out []string
	for _, c := range strings.Split(s, ",") {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	classes := make([]string, 0, len(o.Classes))
	for _, c := range o.Classes {
		if c = strings.TrimSpace(c); c == "" {
			continue
		}
		if err := errors.ValidateClassName(c); err != nil {
			return err
		}
		classes = append(classes, c)
	}
	if len(classes) == 0 {
		classes = append(classes, ifc.DefaultTargetClasses...)
	}
	o.Classes = classes

	switch {
	case o.Workers < 0:
		return errors.New(errors.ErrCodeInvalidInput, "workers must not be negative: %d", o.Workers)
	case o.Workers == 0:
		o.Workers = max(DefaultWorkers, 1)
	case o.Workers > MaxWorkers:
		o.Workers = MaxWorkers
	}

	if o.Timeout < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "timeout must not be negative: %s", o.Timeout)
	}
	if o.Timeout == 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// TakeoffKeyOpts returns cache key options for the run.
func (o *Options) TakeoffKeyOpts() cache.TakeoffKeyOpts {
	return cache.TakeoffKeyOpts{
		Classes: o.Classes,
		Version: EngineVersion,
	}
}

func (o *Options) String() string {
	return fmt.Sprintf("classes=%d workers=%d timeout=%s", len(o.Classes), o.Workers, o.Timeout)
}
