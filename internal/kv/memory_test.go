package kv

import (
	"context"
	"testing"
)

func TestMemoryGetSetRemove(t *testing.T) {
	ctx := context.Background()
	var m Memory

	if _, ok, err := m.Get(ctx, "missing"); ok || err != nil {
		t.Fatalf("Get missing: ok=%v err=%v", ok, err)
	}

	value := []byte(`{"version":1}`)
	if err := m.Set(ctx, "saved-items", value); err != nil {
		t.Fatalf("Set: %v", err)
	}
	value[0] = 'X'

	got, ok, err := m.Get(ctx, "saved-items")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if string(got) != `{"version":1}` {
		t.Errorf("stored value aliased caller slice: %q", got)
	}

	if err := m.Remove(ctx, "saved-items"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, ok, _ := m.Get(ctx, "saved-items"); ok {
		t.Error("expected miss after Remove")
	}
	if err := m.Remove(ctx, "saved-items"); err != nil {
		t.Errorf("Remove of absent key: %v", err)
	}
}
