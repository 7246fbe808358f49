package cart

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	pkgerrors "github.com/zora-fashion/storefront/pkg/errors"
	"github.com/zora-fashion/storefront/pkg/storage"
	"github.com/zora-fashion/storefront/pkg/storage/memory"
)

func TestStoragePortLoadMissingIsEmpty(t *testing.T) {
	port := NewStoragePort(memory.New(), "sess-1", time.Hour)

	snapshot, err := port.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if snapshot == nil || len(snapshot) != 0 {
		t.Fatalf("expected empty snapshot, got %#v", snapshot)
	}
}

func TestStoragePortRoundTripUsesSessionKey(t *testing.T) {
	ctx := context.Background()
	backing := memory.New()
	port := NewStoragePort(backing, "sess-1", time.Hour)

	want := Snapshot{{Product: product("7", 320000), SelectedSize: "M", Quantity: 2}}
	if err := port.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	raw, err := backing.Get(ctx, "zora:session:sess-1:cart")
	if err != nil {
		t.Fatalf("expected snapshot under session key: %v", err)
	}
	var decoded []map[string]any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		t.Fatalf("snapshot should be a JSON array: %v", err)
	}
	if decoded[0]["id"] != "7" || decoded[0]["selectedSize"] != "M" || decoded[0]["quantity"] != float64(2) {
		t.Fatalf("unexpected persisted layout %v", decoded[0])
	}

	got, err := port.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 1 || got[0].ID != "7" || got[0].Quantity != 2 || got[0].Price != 320000 {
		t.Fatalf("unexpected round trip %+v", got)
	}
}

func TestStoragePortSavesEmptyArrayForNil(t *testing.T) {
	ctx := context.Background()
	backing := memory.New()
	port := NewStoragePort(backing, "sess-1", time.Hour)

	if err := port.Save(ctx, nil); err != nil {
		t.Fatalf("save: %v", err)
	}
	raw, _ := backing.Get(ctx, storage.SessionKey("sess-1", "cart"))
	if raw != "[]" {
		t.Fatalf("expected empty array, got %q", raw)
	}
}

func TestStoragePortCorruptSnapshotIsDependencyError(t *testing.T) {
	ctx := context.Background()
	backing := memory.New()
	_ = backing.Set(ctx, storage.SessionKey("sess-1", "cart"), "{not json", time.Hour)

	_, err := NewStoragePort(backing, "sess-1", time.Hour).Load(ctx)
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
