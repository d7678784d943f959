package registry

import (
	"strconv"
	"sync"
	"testing"

	"github.com/CogentEmbedded/tweaktool-sub001/metadata"
	"github.com/CogentEmbedded/tweaktool-sub001/value"
)

func TestAddFindRemove(t *testing.T) {
	r := New()
	id, err := r.Add("/a", "desc", "", metadata.Parse(value.I32, 1, ""), value.NewI32(1), nil)
	if err != nil {
		t.Fatal(err)
	}
	if id == 0 {
		t.Fatal("id must not be 0 (Invariant I1)")
	}

	if got, ok := r.FindByURI("/a"); !ok || got != id {
		t.Fatalf("FindByURI = %d, %v; want %d, true", got, ok, id)
	}

	if !r.Remove(id) {
		t.Fatal("Remove of present id should return true")
	}
	if r.Remove(id) {
		t.Fatal("Remove of absent id should return false")
	}
	if _, ok := r.FindByURI("/a"); ok {
		t.Fatal("uri should be gone after Remove")
	}
}

func TestAddDuplicateURI(t *testing.T) {
	r := New()
	if _, err := r.Add("/dup", "", "", metadata.Metadata{}, value.NewI32(1), nil); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Add("/dup", "", "", metadata.Metadata{}, value.NewI32(2), nil); err == nil {
		t.Fatal("expected ErrAlreadyPresent")
	}
}

func TestIDsUniqueAndNonzero(t *testing.T) {
	r := New()
	seen := map[uint64]bool{}
	for i := 0; i < 100; i++ {
		id, err := r.Add(strconv.Itoa(i), "", "", metadata.Metadata{}, value.NewI32(int32(i)), nil)
		if err != nil {
			t.Fatal(err)
		}
		if id == 0 || seen[id] {
			t.Fatalf("id %d invalid or duplicate", id)
		}
		seen[id] = true
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	r := New()
	id, _ := r.Add("/s", "d", "m", metadata.Metadata{}, value.NewVecI32([]int32{1, 2, 3}), nil)

	snap, ok := r.Snapshot(id)
	if !ok {
		t.Fatal("snapshot missing")
	}
	original := snap.Current.VecI32()
	original[0] = 999

	snap2, _ := r.Snapshot(id)
	if snap2.Current.VecI32()[0] != 1 {
		t.Fatal("mutating a snapshot's backing slice must not affect the registry")
	}
}

func TestReplaceCurrentSwapsAndReturnsPrevious(t *testing.T) {
	r := New()
	id, _ := r.Add("/v", "", "", metadata.Metadata{}, value.NewI32(10), nil)

	v := value.NewI32(20)
	if err := r.ReplaceCurrent(id, &v, nil); err != nil {
		t.Fatal(err)
	}
	if v.I32() != 10 {
		t.Fatalf("caller should receive previous value 10, got %d", v.I32())
	}
	cur, err := r.CloneCurrent(id)
	if err != nil {
		t.Fatal(err)
	}
	if cur.I32() != 20 {
		t.Fatalf("stored current should be 20, got %d", cur.I32())
	}
}

func TestReplaceCurrentTypeMismatch(t *testing.T) {
	r := New()
	id, _ := r.Add("/v", "", "", metadata.Metadata{}, value.NewI32(10), nil)

	v := value.NewF64(1.5)
	err := r.ReplaceCurrent(id, &v, nil)
	if _, ok := err.(ErrTypeMismatch); !ok {
		t.Fatalf("expected ErrTypeMismatch, got %v", err)
	}
}

func TestReplaceCurrentNotFound(t *testing.T) {
	r := New()
	v := value.NewI32(1)
	err := r.ReplaceCurrent(999, &v, nil)
	if _, ok := err.(ErrItemNotFound); !ok {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestReplaceCurrentFiresHook(t *testing.T) {
	r := New()
	id, _ := r.Add("/v", "", "", metadata.Metadata{}, value.NewI32(1), nil)

	var gotPrev, gotCur int32
	v := value.NewI32(5)
	err := r.ReplaceCurrent(id, &v, func(gotID uint64, previous, current value.Value) {
		gotPrev = previous.I32()
		gotCur = current.I32()
	})
	if err != nil {
		t.Fatal(err)
	}
	if gotPrev != 1 || gotCur != 5 {
		t.Fatalf("hook saw prev=%d cur=%d, want 1/5", gotPrev, gotCur)
	}
}

func TestGenerationIncrementsOnEveryReplace(t *testing.T) {
	r := New()
	id, _ := r.Add("/v", "", "", metadata.Metadata{}, value.NewI32(1), nil)

	if gen, ok := r.Generation(id); !ok || gen != 0 {
		t.Fatalf("fresh item should start at generation 0, got %d, %v", gen, ok)
	}

	for want := uint64(1); want <= 3; want++ {
		v := value.NewI32(int32(want))
		if err := r.ReplaceCurrent(id, &v, nil); err != nil {
			t.Fatal(err)
		}
		if gen, _ := r.Generation(id); gen != want {
			t.Fatalf("generation = %d, want %d", gen, want)
		}
	}

	if _, ok := r.Generation(999); ok {
		t.Fatal("Generation of unknown id should report false")
	}
}

func TestSeedCurrentDoesNotBumpGeneration(t *testing.T) {
	r := New()
	id, _ := r.Add("/v", "", "", metadata.Metadata{}, value.NewI32(1), nil)

	if err := r.SeedCurrent(id, value.NewI32(42), 7); err != nil {
		t.Fatal(err)
	}
	if gen, _ := r.Generation(id); gen != 7 {
		t.Fatalf("generation = %d, want 7 (seeded value, not incremented)", gen)
	}
	cur, _ := r.CloneCurrent(id)
	if cur.I32() != 42 {
		t.Fatalf("current = %d, want 42", cur.I32())
	}
}

func TestTraverseVisitsEveryItem(t *testing.T) {
	r := New()
	for i := 0; i < 10; i++ {
		r.Add(strconv.Itoa(i), "", "", metadata.Metadata{}, value.NewI32(int32(i)), nil)
	}
	count := 0
	r.Traverse(func(Snapshot) bool {
		count++
		return true
	})
	if count != 10 {
		t.Fatalf("visited %d items, want 10", count)
	}
}

func TestTraverseAbortsEarly(t *testing.T) {
	r := New()
	for i := 0; i < 10; i++ {
		r.Add(strconv.Itoa(i), "", "", metadata.Metadata{}, value.NewI32(int32(i)), nil)
	}
	count := 0
	ok := r.Traverse(func(Snapshot) bool {
		count++
		return count < 3
	})
	if ok {
		t.Fatal("Traverse should report false when the visitor aborted")
	}
	if count != 3 {
		t.Fatalf("visited %d items, want exactly 3", count)
	}
}

func TestConcurrentSnapshotAndReplace(t *testing.T) {
	r := New()
	id, _ := r.Add("/c", "", "", metadata.Metadata{}, value.NewI32(0), nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			v := value.NewI32(int32(i))
			r.ReplaceCurrent(id, &v, nil)
		}(i)
		go func(i int) {
			defer wg.Done()
			r.Snapshot(id)
		}(i)
	}
	wg.Wait()

	if _, err := r.CloneCurrent(id); err != nil {
		t.Fatal(err)
	}
}
