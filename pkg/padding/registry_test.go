package padding

import (
	"math"
	"testing"
)

func TestRegistryMax(t *testing.T) {
	r := New()
	r.Register("x", "a", 5)
	r.Register("x", "b", 12)

	if got := r.Effective("x"); got != 12 {
		t.Fatalf("Effective = %g, want 12", got)
	}

	r.Unregister("x", "b")
	if got := r.Effective("x"); got != 5 {
		t.Errorf("after removing b: Effective = %g, want 5", got)
	}

	r.Unregister("x", "a")
	if got := r.Effective("x"); got != 0 {
		t.Errorf("after removing a: Effective = %g, want 0", got)
	}
	if r.Has("x") {
		t.Error("bucket should be dropped when empty")
	}
	if r.Buckets() != 0 {
		t.Errorf("Buckets() = %d, want 0", r.Buckets())
	}
}

func TestRegistryZeroPaddingKeepsBucket(t *testing.T) {
	r := New()
	r.Register("x", "a", 0)

	if !r.Has("x") {
		t.Error("one mark with zero padding should keep its bucket")
	}
	if _, ok := r.Snapshot()["x"]; !ok {
		t.Error("snapshot should list a zero-padding bucket")
	}
}

func TestRegistryUpsert(t *testing.T) {
	r := New()
	r.Register("x", "a", 10)
	r.Register("x", "a", 3)

	if got := r.Effective("x"); got != 3 {
		t.Errorf("Effective = %g, want 3 after upsert", got)
	}
	if r.Entries() != 1 {
		t.Errorf("Entries() = %d, want 1", r.Entries())
	}
}

func TestRegistryNegativeClamped(t *testing.T) {
	r := New()
	for _, v := range []float64{-4, math.NaN()} {
		r.Register("x", "a", v)
		if got, _ := r.Lookup("x", "a"); got != 0 {
			t.Errorf("Register(%g) stored %g, want 0", v, got)
		}
	}
}

func TestRegistryUnregisterUnknown(t *testing.T) {
	r := New()
	r.Register("x", "a", 4)

	r.Unregister("x", "missing")
	r.Unregister("nope", "a")

	if got := r.Effective("x"); got != 4 {
		t.Errorf("Effective = %g, want 4", got)
	}
}

func TestRegistryRebind(t *testing.T) {
	r := New()
	r.Register("s1", "a", 7)
	r.Register("s1", "b", 2)

	r.Rebind("a", "s1", "s2", 9)

	if r.Entries() != 2 {
		t.Errorf("Entries() = %d, want 2", r.Entries())
	}
	if got := r.Effective("s1"); got != 2 {
		t.Errorf("Effective(s1) = %g, want 2", got)
	}
	if got := r.Effective("s2"); got != 9 {
		t.Errorf("Effective(s2) = %g, want 9", got)
	}
	if _, ok := r.Lookup("s1", "a"); ok {
		t.Error("old entry should be gone after rebind")
	}
}

func TestRegistryPurge(t *testing.T) {
	r := New()
	r.Register("s1", "a", 1)
	r.Register("s2", "a", 2)
	r.Register("s2", "b", 3)

	if n := r.Purge("a"); n != 2 {
		t.Errorf("Purge = %d, want 2", n)
	}
	if r.Has("s1") {
		t.Error("s1 bucket should be dropped")
	}
	if got := r.Effective("s2"); got != 3 {
		t.Errorf("Effective(s2) = %g, want 3", got)
	}
	if n := r.Purge("a"); n != 0 {
		t.Errorf("second Purge = %d, want 0", n)
	}
}

func TestRegistrySnapshotIsCopy(t *testing.T) {
	r := New()
	r.Register("x", "a", 5)

	snap := r.Snapshot()
	r.Register("x", "b", 50)

	if snap["x"] != 5 {
		t.Errorf("snapshot changed to %g, want 5", snap["x"])
	}
	if got := r.Scales(); len(got) != 1 || got[0] != "x" {
		t.Errorf("Scales() = %v, want [x]", got)
	}
}
