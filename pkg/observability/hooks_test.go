package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	tk := NoopTakeoffHooks{}
	tk.OnTakeoffStart(ctx, "house.json", 120)
	tk.OnTakeoffComplete(ctx, "house.json", 120, time.Second, nil)
	tk.OnVolumeCache(ctx, "house.json", 10, 110)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "takeoff")
	c.OnCacheMiss(ctx, "takeoff")
	c.OnCacheSet(ctx, "takeoff", 1024)

	s := NoopStoreHooks{}
	s.OnStoreOp(ctx, "sqlite", "save", time.Millisecond, errors.New("locked"))

	p := NoopPublishHooks{}
	p.OnPublish(ctx, "ifc-qto", 2048, nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Takeoff().(NoopTakeoffHooks); !ok {
		t.Error("Takeoff() should return NoopTakeoffHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("Store() should return NoopStoreHooks by default")
	}
	if _, ok := Publish().(NoopPublishHooks); !ok {
		t.Error("Publish() should return NoopPublishHooks by default")
	}

	customTakeoff := &testTakeoffHooks{}
	SetTakeoffHooks(customTakeoff)
	if Takeoff() != customTakeoff {
		t.Error("SetTakeoffHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customStore := &testStoreHooks{}
	SetStoreHooks(customStore)
	if Store() != customStore {
		t.Error("SetStoreHooks should set custom hooks")
	}

	customPublish := &testPublishHooks{}
	SetPublishHooks(customPublish)
	if Publish() != customPublish {
		t.Error("SetPublishHooks should set custom hooks")
	}

	Reset()
	if _, ok := Takeoff().(NoopTakeoffHooks); !ok {
		t.Error("Reset() should restore NoopTakeoffHooks")
	}
	if _, ok := Publish().(NoopPublishHooks); !ok {
		t.Error("Reset() should restore NoopPublishHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testTakeoffHooks{}
	SetTakeoffHooks(custom)
	SetTakeoffHooks(nil)

	if Takeoff() != custom {
		t.Error("SetTakeoffHooks(nil) should be ignored")
	}

	Reset()
}

type testTakeoffHooks struct{ NoopTakeoffHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testStoreHooks struct{ NoopStoreHooks }
type testPublishHooks struct{ NoopPublishHooks }
