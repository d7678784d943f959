// Package registry implements the process-wide, concurrency-safe item
// store shared by the facade and endpoint packages: a map keyed by a
// stable 64-bit id, a secondary index by URI, and per-item value
// mutation that does not block unrelated readers.
package registry

import (
	"fmt"
	"sync"

	"github.com/CogentEmbedded/tweaktool-sub001/internal/idgen"
	"github.com/CogentEmbedded/tweaktool-sub001/metadata"
	"github.com/CogentEmbedded/tweaktool-sub001/value"
)

// ErrAlreadyPresent is returned by Add when uri is already registered.
type ErrAlreadyPresent struct{ URI string }

func (e ErrAlreadyPresent) Error() string { return fmt.Sprintf("registry: uri already present: %s", e.URI) }

// ErrItemNotFound is returned when id does not name a live item.
type ErrItemNotFound struct{ ID uint64 }

func (e ErrItemNotFound) Error() string { return fmt.Sprintf("registry: item not found: %d", e.ID) }

// ErrTypeMismatch is returned when a replacement value's kind does not
// match the item's established type (Invariant I3).
type ErrTypeMismatch struct {
	ID   uint64
	Have value.Kind
	Want value.Kind
}

func (e ErrTypeMismatch) Error() string {
	return fmt.Sprintf("registry: type mismatch on item %d: have %s, want %s", e.ID, e.Have, e.Want)
}

// ChangeHook is invoked by ReplaceCurrent after the swap is committed, on
// the caller's goroutine. The endpoint package uses it to drive change
// propagation; it must be short-running.
type ChangeHook func(id uint64, previous, current value.Value)

// item is the registry's internal record. Its Value cell has its own
// mutex so that ReplaceCurrent does not need to hold the registry lock
// for the duration of the swap.
type item struct {
	id          uint64
	uri         string
	description string
	meta        string
	metadata    metadata.Metadata
	defaultVal  value.Value // immutable after construction (Invariant I4)
	cookie      any

	mu         sync.Mutex
	current    value.Value
	generation uint64
}

// Snapshot is a deep-copied, detached view of one item, safe to read
// after the Registry has moved on.
type Snapshot struct {
	ID          uint64
	URI         string
	Description string
	Meta        string
	Metadata    metadata.Metadata
	Default     value.Value
	Current     value.Value
	Cookie      any
	Generation  uint64
}

// Registry is the concurrent item store.
type Registry struct {
	mu       sync.RWMutex
	byID     map[uint64]*item
	byURI    map[string]uint64
	idSource idgen.Source
}

// New returns an empty Registry with its id source starting at 1.
func New() *Registry {
	return &Registry{
		byID:  make(map[uint64]*item),
		byURI: make(map[string]uint64),
	}
}

// Add allocates a fresh id and inserts a new item, or returns
// ErrAlreadyPresent if uri is already registered. initial becomes both
// the item's default_value and its current_value (Invariant I3).
func (r *Registry) Add(uri, description, meta string, md metadata.Metadata, initial value.Value, cookie any) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byURI[uri]; exists {
		return 0, ErrAlreadyPresent{URI: uri}
	}

	id := r.idSource.Next()
	it := &item{
		id:          id,
		uri:         uri,
		description: description,
		meta:        meta,
		metadata:    md,
		defaultVal:  value.Copy(initial),
		current:     value.Copy(initial),
		cookie:      cookie,
	}
	r.byID[id] = it
	r.byURI[uri] = id
	return id, nil
}

// Remove deletes id, returning true iff it was present.
func (r *Registry) Remove(id uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	it, ok := r.byID[id]
	if !ok {
		return false
	}
	delete(r.byID, id)
	delete(r.byURI, it.uri)
	return true
}

// FindByURI returns the id registered for uri, or (0, false).
func (r *Registry) FindByURI(uri string) (uint64, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byURI[uri]
	return id, ok
}

// Snapshot returns a deep-copied, detached record for id.
func (r *Registry) Snapshot(id uint64) (Snapshot, bool) {
	r.mu.RLock()
	it, ok := r.byID[id]
	r.mu.RUnlock()
	if !ok {
		return Snapshot{}, false
	}

	it.mu.Lock()
	current := value.Copy(it.current)
	generation := it.generation
	it.mu.Unlock()

	return Snapshot{
		ID:          it.id,
		URI:         it.uri,
		Description: it.description,
		Meta:        it.meta,
		Metadata:    it.metadata,
		Default:     value.Copy(it.defaultVal),
		Current:     current,
		Cookie:      it.cookie,
		Generation:  generation,
	}, true
}

// GetType returns id's value kind without copying the value.
func (r *Registry) GetType(id uint64) (value.Kind, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	it, ok := r.byID[id]
	if !ok {
		return value.Null, false
	}
	return it.defaultVal.Type(), true
}

// CloneCurrent returns a deep copy of id's current value, or
// ErrItemNotFound if id is unknown.
func (r *Registry) CloneCurrent(id uint64) (value.Value, error) {
	r.mu.RLock()
	it, ok := r.byID[id]
	r.mu.RUnlock()
	if !ok {
		return value.Value{}, ErrItemNotFound{ID: id}
	}
	it.mu.Lock()
	defer it.mu.Unlock()
	return value.Copy(it.current), nil
}

// ReplaceCurrent swaps v with id's stored current value (the caller
// receives the previous value back through v) and invokes hook, if
// non-nil, after the swap is committed. Every successful swap bumps the
// item's generation counter by one, regardless of whether the change
// originated locally or from a peer; Generation exposes the result.
// Fails with ErrTypeMismatch if v's kind does not match the item's
// established type, or ErrItemNotFound if id is unknown.
func (r *Registry) ReplaceCurrent(id uint64, v *value.Value, hook ChangeHook) error {
	r.mu.RLock()
	it, ok := r.byID[id]
	r.mu.RUnlock()
	if !ok {
		return ErrItemNotFound{ID: id}
	}

	it.mu.Lock()
	if it.current.Type() != v.Type() {
		have, want := v.Type(), it.current.Type()
		it.mu.Unlock()
		return ErrTypeMismatch{ID: id, Have: have, Want: want}
	}
	value.Swap(&it.current, v)
	it.generation++
	current := value.Copy(it.current)
	it.mu.Unlock()

	if hook != nil {
		hook(id, *v, current)
	}
	return nil
}

// SeedCurrent sets id's current value and generation counter directly,
// bypassing the increment-on-every-call bookkeeping ReplaceCurrent
// performs. It exists for mirroring an item a peer has already
// established (AddItem's Current/Generation): that is a starting
// snapshot, not a change, and must not advance the counter on its own.
func (r *Registry) SeedCurrent(id uint64, v value.Value, generation uint64) error {
	r.mu.RLock()
	it, ok := r.byID[id]
	r.mu.RUnlock()
	if !ok {
		return ErrItemNotFound{ID: id}
	}
	it.mu.Lock()
	it.current = value.Copy(v)
	it.generation = generation
	it.mu.Unlock()
	return nil
}

// Generation returns id's current generation counter: the number of
// times ReplaceCurrent has been applied to it, or (0, false) if id is
// unknown.
func (r *Registry) Generation(id uint64) (uint64, bool) {
	r.mu.RLock()
	it, ok := r.byID[id]
	r.mu.RUnlock()
	if !ok {
		return 0, false
	}
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.generation, true
}

// Cookie returns id's owner cookie, or (nil, false) if id is unknown.
func (r *Registry) Cookie(id uint64) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	it, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	return it.cookie, true
}

// Visitor is called once per item during Traverse. Returning false
// aborts the traversal early.
type Visitor func(Snapshot) bool

// Traverse visits every item present throughout the call exactly once,
// in unspecified order. Items added or removed concurrently may or may
// not be visited. Returns false iff the visitor aborted early.
func (r *Registry) Traverse(visit Visitor) bool {
	r.mu.RLock()
	ids := make([]uint64, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	for _, id := range ids {
		snap, ok := r.Snapshot(id)
		if !ok {
			continue
		}
		if !visit(snap) {
			return false
		}
	}
	return true
}
