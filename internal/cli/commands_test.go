package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ifcqto/pkg/cache"
	"github.com/matzehuels/ifcqto/pkg/config"
	"github.com/matzehuels/ifcqto/pkg/store/sqlitestore"
	"github.com/matzehuels/ifcqto/pkg/takeoff"
)

const testModel = `{
  "schema": "IFC4",
  "units": {"length": "mm"},
  "elements": [
    {
      "id": 10, "global_id": "w1", "type": "IfcWall", "name": "Wall A",
      "quantity_sets": [{"name": "Qto_WallBaseQuantities", "quantities": [
        {"name": "NetVolume", "kind": "volume", "value": 2.0}
      ]}],
      "materials": [{"type": "layer_set", "layers": [
        {"material": {"name": "Plaster"}, "thickness": 20},
        {"material": {"name": "Brick"}, "thickness": 180}
      ]}]
    },
    {"id": 11, "type": "IfcSlab", "name": "Slab",
     "quantity_sets": [{"name": "Q", "quantities": [{"name": "NetVolume", "kind": "volume", "value": 5}]}],
     "materials": [{"type": "material", "name": "Concrete"}]},
    {"id": 12, "type": "IfcSpace", "name": "Room"}
  ]
}`

// newTestCLI returns a CLI with a preloaded configuration rooted in a
// temporary directory, so no user files are touched.
func newTestCLI(t *testing.T) (*CLI, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Cache.Dir = filepath.Join(dir, "cache")
	cfg.Store.Backend = config.StoreNone
	c := New(io.Discard, log.InfoLevel)
	c.cfg = &cfg
	return c, dir
}

func writeModel(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "house.json")
	if err := os.WriteFile(path, []byte(testModel), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, c *CLI, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := c.RootCommand()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestTakeoffCommandJSON(t *testing.T) {
	c, dir := newTestCLI(t)
	input := writeModel(t, dir)
	output := filepath.Join(dir, "out.json")

	if _, err := run(t, c, "takeoff", input, "-o", output); err != nil {
		t.Fatalf("takeoff: %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	var elements []takeoff.Element
	if err := json.Unmarshal(data, &elements); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(elements) != 2 {
		t.Fatalf("got %d elements, want 2 (IfcSpace is not a target class)", len(elements))
	}
	if got := elements[0].Materials(); len(got) != 2 || got[0] != "Plaster" || got[1] != "Brick" {
		t.Errorf("wall materials = %v, want [Plaster Brick]", got)
	}

	// The result is cached in the configured directory.
	entries, _ := os.ReadDir(filepath.Join(dir, "cache"))
	if len(entries) == 0 {
		t.Error("expected cache entries after a takeoff run")
	}
}

func TestTakeoffCommandXLSX(t *testing.T) {
	c, dir := newTestCLI(t)
	input := writeModel(t, dir)

	if _, err := run(t, c, "takeoff", input, "--format", "xlsx", "--no-cache"); err != nil {
		t.Fatalf("takeoff: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "house.qto.xlsx")); err != nil {
		t.Errorf("default xlsx output missing: %v", err)
	}
}

func TestTakeoffCommandErrors(t *testing.T) {
	c, dir := newTestCLI(t)
	input := writeModel(t, dir)

	tests := []struct {
		name string
		args []string
	}{
		{"bad format", []string{"takeoff", input, "--format", "csv"}},
		{"missing file", []string{"takeoff", filepath.Join(dir, "nope.json")}},
		{"no args", []string{"takeoff"}},
		{"bad workers", []string{"takeoff", input, "--workers=-2", "--no-cache"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, c, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestDefaultOutputPath(t *testing.T) {
	tests := []struct {
		input, format, want string
	}{
		{"house.json", "json", "house.qto.json"},
		{"dir/house.v2.json", "xlsx", "dir/house.v2.qto.xlsx"},
		{"model", "json", "model.qto.json"},
	}
	for _, tt := range tests {
		if got := defaultOutputPath(tt.input, tt.format); got != tt.want {
			t.Errorf("defaultOutputPath(%q, %q) = %q, want %q", tt.input, tt.format, got, tt.want)
		}
	}
}

func TestLayersCommand(t *testing.T) {
	c, _ := newTestCLI(t)

	out, err := run(t, c, "layers", "Concrete (300mm) | Insulation (100mm)")
	if err != nil {
		t.Fatalf("layers: %v", err)
	}
	for _, want := range []string{"Concrete", "Insulation", "75.0%", "25.0%", "300.0"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCacheCommands(t *testing.T) {
	c, dir := newTestCLI(t)
	cacheDir := filepath.Join(dir, "cache")

	out, err := run(t, c, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != cacheDir {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), cacheDir)
	}

	fc, err := cache.NewFileCache(cacheDir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if err := fc.Set(ctx, "k", []byte("v"), time.Hour); err != nil {
		t.Fatal(err)
	}

	if _, err := run(t, c, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if _, ok, _ := fc.Get(ctx, "k"); ok {
		t.Error("entry survived cache clear")
	}
}

func TestSendCommand(t *testing.T) {
	t.Run("no collaborators", func(t *testing.T) {
		c, dir := newTestCLI(t)
		input := writeModel(t, dir)
		if _, err := run(t, c, "send", input, "--no-cache"); err == nil {
			t.Error("expected error when neither store nor stream is available")
		}
	})

	t.Run("sqlite store", func(t *testing.T) {
		c, dir := newTestCLI(t)
		input := writeModel(t, dir)
		dbPath := filepath.Join(dir, "data", "qto.db")
		c.cfg.Store.Backend = config.StoreSQLite
		c.cfg.Store.SQLitePath = dbPath

		if _, err := run(t, c, "send", input, "--project", "Tower", "--no-cache"); err != nil {
			t.Fatalf("send: %v", err)
		}

		ctx := context.Background()
		st, err := sqlitestore.Open(ctx, dbPath, log.New(io.Discard))
		if err != nil {
			t.Fatal(err)
		}
		defer st.Close()
		msg, err := st.LoadTakeoff(ctx, "Tower/house.json")
		if err != nil {
			t.Fatalf("LoadTakeoff: %v", err)
		}
		if msg.ElementCount != 2 {
			t.Errorf("ElementCount = %d, want 2", msg.ElementCount)
		}
	})
}

func TestNewCache(t *testing.T) {
	c, dir := newTestCLI(t)
	ctx := context.Background()

	got, err := c.newCache(ctx, *c.cfg, true)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := got.(cache.NullCache); !ok {
		t.Errorf("--no-cache: got %T, want cache.NullCache", got)
	}

	got, err = c.newCache(ctx, *c.cfg, false)
	if err != nil {
		t.Fatal(err)
	}
	fc, ok := got.(*cache.FileCache)
	if !ok || fc.Dir() != filepath.Join(dir, "cache") {
		t.Errorf("default: got %T, want file cache in %s", got, filepath.Join(dir, "cache"))
	}

	// An unreachable Redis falls back to the local cache.
	cfg := *c.cfg
	cfg.Redis.Addr = "127.0.0.1:1"
	cfg.Redis.Cache = true
	got, err = c.newCache(ctx, cfg, false)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := got.(*cache.FileCache); !ok {
		t.Errorf("unreachable redis: got %T, want *cache.FileCache", got)
	}
}
