// Package facade is the typed, Value-free surface an application talks
// to: every exported function takes or returns a plain Go scalar, slice,
// or string, never a value.Value. It composes endpoint, registry, and
// metadata the way kr/kr.go composes the lower daemon-client API into
// one function per user-facing verb.
package facade

import (
	"sync"

	"github.com/CogentEmbedded/tweaktool-sub001/endpoint"
	"github.com/CogentEmbedded/tweaktool-sub001/internal/tlog"
	"github.com/CogentEmbedded/tweaktool-sub001/registry"
	"github.com/CogentEmbedded/tweaktool-sub001/transport"
	"github.com/CogentEmbedded/tweaktool-sub001/value"
)

// Listeners mirrors endpoint.Listeners in Value-free terms. Per-item
// value-changed notification is handled separately, through the
// *Ex constructors' onChange callback.
type Listeners struct {
	OnConnectionState func(endpoint.ConnectionState)
	OnItemAdded       func(id uint64, uri string)
	OnItemRemoved     func(id uint64)
	OnSubscribe       func(pattern string)
}

// Facade wraps one Endpoint and layers per-item change callbacks on top
// of its connection-wide listener set.
type Facade struct {
	ep *endpoint.Endpoint

	cbMu      sync.RWMutex
	callbacks map[uint64]func(value.Value)
}

// New constructs a Facade around a fresh Endpoint of the given role and
// transport configuration.
func New(role endpoint.Role, cfg transport.Config, listeners Listeners) *Facade {
	f := &Facade{callbacks: make(map[uint64]func(value.Value))}
	f.ep = endpoint.New(role, cfg, endpoint.Listeners{
		OnConnectionState: listeners.OnConnectionState,
		OnItemAdded: func(snap registry.Snapshot) {
			if listeners.OnItemAdded != nil {
				listeners.OnItemAdded(snap.ID, snap.URI)
			}
		},
		OnItemRemoved: func(id uint64) {
			f.dropCallback(id)
			if listeners.OnItemRemoved != nil {
				listeners.OnItemRemoved(id)
			}
		},
		OnValueChanged: func(id uint64, current value.Value) {
			f.fireCallback(id, current)
		},
		OnSubscribe: listeners.OnSubscribe,
	})
	return f
}

// Endpoint exposes the underlying Endpoint for callers that need the
// lower-level contract (Subscribe, WaitURIs, Destroy).
func (f *Facade) Endpoint() *endpoint.Endpoint { return f.ep }

// Destroy tears down the underlying Endpoint.
func (f *Facade) Destroy() { f.ep.Destroy() }

func (f *Facade) fireCallback(id uint64, current value.Value) {
	f.cbMu.RLock()
	cb := f.callbacks[id]
	f.cbMu.RUnlock()
	if cb != nil {
		tlog.RecoverToLog(func() { cb(current) })
	}
}

func (f *Facade) setCallback(id uint64, cb func(value.Value)) {
	if cb == nil {
		return
	}
	f.cbMu.Lock()
	f.callbacks[id] = cb
	f.cbMu.Unlock()
}

func (f *Facade) dropCallback(id uint64) {
	f.cbMu.Lock()
	delete(f.callbacks, id)
	f.cbMu.Unlock()
}
