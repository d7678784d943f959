// Package endpoint implements the per-connection protocol state
// machine: feature negotiation, item lifecycle notification,
// value-change propagation with echo suppression, and connection-state
// notification, for both the server and client roles.
//
// The shape follows kryptco-kr's daemon/control and daemon/client split
// (one role-specific handler set dispatching on message type, driven by
// an I/O goroutine) generalized to two symmetric roles sharing one
// state machine instead of one fixed client-daemon/server-daemon pair.
package endpoint

import (
	"crypto/rand"
	"fmt"
	"sync"

	uuid "github.com/satori/go.uuid"

	"github.com/CogentEmbedded/tweaktool-sub001/codec"
	"github.com/CogentEmbedded/tweaktool-sub001/internal/tlog"
	"github.com/CogentEmbedded/tweaktool-sub001/metadata"
	"github.com/CogentEmbedded/tweaktool-sub001/registry"
	"github.com/CogentEmbedded/tweaktool-sub001/transport"
	"github.com/CogentEmbedded/tweaktool-sub001/value"
)

// Role distinguishes the two symmetric protocol participants.
type Role uint8

const (
	Server Role = iota
	Client
)

func (r Role) String() string {
	if r == Server {
		return "server"
	}
	return "client"
}

// ConnectionState is the Endpoint's place in its connection lifecycle.
type ConnectionState uint8

const (
	Offline ConnectionState = iota
	Connecting
	Negotiating
	Active
	Disconnected
)

func (s ConnectionState) String() string {
	switch s {
	case Offline:
		return "offline"
	case Connecting:
		return "connecting"
	case Negotiating:
		return "negotiating"
	case Active:
		return "active"
	case Disconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// Listeners carries every user callback an Endpoint may fire. All
// callbacks run on the I/O goroutine, except the OnConnectionState
// call for Connecting, which New makes on its caller's goroutine. All are
// wrapped in
// tlog.RecoverToLog so a panicking listener cannot take the goroutine
// down; callers are expected to return quickly.
type Listeners struct {
	OnConnectionState func(ConnectionState)
	OnItemAdded       func(registry.Snapshot)             // client only
	OnItemRemoved     func(id uint64)                      // client only
	OnValueChanged    func(id uint64, current value.Value) // both
	OnSubscribe       func(pattern string)                 // server only
	OnFeatures        func(FeatureSet)                     // both
}

// ErrPeerDisconnected is returned by ChangeItem when no transport is
// connected, and by Subscribe when the Endpoint is not Active.
var ErrPeerDisconnected = fmt.Errorf("endpoint: peer disconnected")

// ErrTimeout is returned by WaitURIs when the deadline elapses first.
var ErrTimeout = fmt.Errorf("endpoint: timeout")

// Endpoint owns a Registry and a transport connection and drives the
// protocol state machine for one connection.
type Endpoint struct {
	role      Role
	registry  *registry.Registry
	cfg       transport.Config
	listeners Listeners
	ourFeatures FeatureSet

	stateMu sync.Mutex
	state   ConnectionState
	backend transport.Backend

	txMu         sync.Mutex // guards backend and serializes backend.Send
	recent       *recentSet
	peerFeatures FeatureSet

	subMu        sync.Mutex
	subscription string // client: pattern we asked for; server: pattern granted

	wait waitGroup

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}

	sessionID uuid.UUID // correlates this connection's log lines end to end
}

// New constructs an Endpoint bound to its own Registry and immediately
// starts connecting: the Offline->Connecting transition happens on
// construction, not on a separate explicit call.
func New(role Role, cfg transport.Config, listeners Listeners) *Endpoint {
	e := &Endpoint{
		role:        role,
		registry:    registry.New(),
		cfg:         cfg,
		listeners:   listeners,
		ourFeatures: FeatureSet{"scalar": true, "vector": true, "string": true},
		recent:      newRecentSet(256),
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
		sessionID:   newSessionID(),
	}
	e.wait.init()
	e.setState(Connecting)
	go e.run()
	return e
}

// newSessionID mints a fresh correlation id for one Endpoint's lifetime,
// logged alongside every connection-state transition so a daemon's log
// can be sliced per connection.
func newSessionID() uuid.UUID {
	var raw [16]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return uuid.Nil
	}
	id, err := uuid.FromBytes(raw[:])
	if err != nil {
		return uuid.Nil
	}
	return id
}

// SessionID returns the correlation id assigned to this Endpoint.
func (e *Endpoint) SessionID() uuid.UUID { return e.sessionID }

// Registry returns the Endpoint's backing item store, for Facade use.
func (e *Endpoint) Registry() *registry.Registry { return e.registry }

// Role reports whether this is a server or client endpoint.
func (e *Endpoint) Role() Role { return e.role }

func (e *Endpoint) setState(s ConnectionState) {
	e.stateMu.Lock()
	e.state = s
	e.stateMu.Unlock()
	tlog.Debug("endpoint[%s %s]: -> %s", e.sessionID, e.role, s)
	if e.listeners.OnConnectionState != nil {
		tlog.RecoverToLog(func() { e.listeners.OnConnectionState(s) })
	}
}

// State returns the current connection state.
func (e *Endpoint) State() ConnectionState {
	e.stateMu.Lock()
	defer e.stateMu.Unlock()
	return e.state
}

func (e *Endpoint) connected() bool {
	return e.State() == Active
}

// run is the Endpoint's I/O goroutine: it dials, negotiates, and then
// loops decoding inbound messages until the transport fails or Destroy
// is called, at which point it reconnects (the Disconnected->Connecting
// loop) unless told to stop.
func (e *Endpoint) run() {
	defer close(e.doneCh)
	for {
		select {
		case <-e.stopCh:
			return
		default:
		}

		backend, err := transport.Dial(e.cfg)
		if err != nil {
			tlog.Warn("endpoint: dial failed: %v", err)
			e.setState(Disconnected)
			select {
			case <-e.stopCh:
				return
			default:
				continue
			}
		}

		e.txMu.Lock()
		e.backend = backend
		e.txMu.Unlock()
		e.setState(Negotiating)

		e.peerFeatures = FeatureSet{"scalar": true}
		if e.role == Client {
			e.sendFeatures()
			e.sendSubscribe("*")
		} else {
			// The client always sends Features first, before any other
			// message; wait for it here so peerFeatures is accurate
			// before Active lets callers start sending AddItem/ChangeItem,
			// rather than racing handleFeatures against the first caller.
			if raw, err := backend.Recv(); err == nil {
				if msg, decErr := codec.Decode(raw); decErr == nil && msg.Kind == codec.KindFeatures {
					e.handleFeatures(msg)
				} else {
					tlog.Warn("endpoint: expected Features as first message from peer")
				}
			}
		}

		e.setState(Active)
		e.wait.wakeUp()

		e.readLoop(backend)

		e.txMu.Lock()
		e.backend = nil
		e.txMu.Unlock()
		backend.Close()
		e.setState(Disconnected)

		select {
		case <-e.stopCh:
			return
		default:
		}
	}
}

func (e *Endpoint) readLoop(backend transport.Backend) {
	for {
		raw, err := backend.Recv()
		if err != nil {
			return
		}
		msg, err := codec.Decode(raw)
		if err != nil {
			tlog.Warn("endpoint: dropping malformed message: %v", err)
			continue
		}
		e.handle(msg)
	}
}

// Destroy cancels any pending WaitURIs, closes the transport, and joins
// the I/O goroutine. Always succeeds.
func (e *Endpoint) Destroy() {
	e.stopOnce.Do(func() {
		close(e.stopCh)
		e.txMu.Lock()
		backend := e.backend
		e.txMu.Unlock()
		if backend != nil {
			backend.Close()
		}
		e.wait.cancelAll()
	})
	<-e.doneCh
}

// send transmits one already-built message, serialized through tx_lock.
func (e *Endpoint) send(msg codec.Message) error {
	e.txMu.Lock()
	defer e.txMu.Unlock()
	if e.backend == nil {
		return ErrPeerDisconnected
	}
	return e.backend.Send(codec.Encode(msg))
}
