package endpoint

import (
	"fmt"

	"github.com/CogentEmbedded/tweaktool-sub001/codec"
	"github.com/CogentEmbedded/tweaktool-sub001/internal/tlog"
	"github.com/CogentEmbedded/tweaktool-sub001/metadata"
	"github.com/CogentEmbedded/tweaktool-sub001/value"
)

// AddItem registers a new item and, if the peer already holds an active
// subscription, transmits it immediately. Server role only. Per the
// server-add sequencing rule, the item is registered
// before it is transmitted, so a concurrent ChangeItem can never race
// ahead of the AddItem that introduces it.
func (e *Endpoint) AddItem(uri, description, meta string, md metadata.Metadata, initial value.Value, cookie any) (uint64, error) {
	if e.role != Server {
		return 0, fmt.Errorf("endpoint: AddItem is server-only")
	}
	id, err := e.registry.Add(uri, description, meta, md, initial, cookie)
	if err != nil {
		return 0, err
	}

	e.subMu.Lock()
	subscribed := e.subscription != ""
	e.subMu.Unlock()
	if subscribed {
		if snap, ok := e.registry.Snapshot(id); ok {
			e.sendAddItem(snap)
		}
	}
	return id, nil
}

// RemoveItem transmits RemoveItem to the peer before releasing the
// registry slot, so the peer never observes an id that this endpoint
// has already forgotten. Server role only.
func (e *Endpoint) RemoveItem(id uint64) error {
	if e.role != Server {
		return fmt.Errorf("endpoint: RemoveItem is server-only")
	}
	if err := e.send(codec.Message{Kind: codec.KindRemoveItem, ID: id}); err != nil && err != ErrPeerDisconnected {
		return err
	}
	e.registry.Remove(id)
	return nil
}

// ChangeItem applies a new value to id and propagates it to the peer,
// available on both roles. A value equal to the last one exchanged with
// the peer for id (received from it or sent to it) is committed locally
// but not retransmitted, so a just-learned peer value is not echoed back.
// The Registry write always
// commits regardless of transport state; ErrPeerDisconnected reports only
// that the peer did not receive it (the Facade layer turns this into a
// silent, logged no-op so callers above it never see a disconnected
// transport as a failure).
func (e *Endpoint) ChangeItem(id uint64, v value.Value) error {
	if e.recent.seen(id, v) {
		cur := v
		return e.registry.ReplaceCurrent(id, &cur, nil)
	}

	var committed value.Value
	hook := func(_ uint64, _, current value.Value) { committed = current }
	in := v
	if err := e.registry.ReplaceCurrent(id, &in, hook); err != nil {
		return err
	}
	e.recent.record(id, committed)

	if !peerAccepts(e.peerFeatures, committed.Type()) {
		tlog.Warn("endpoint: peer has not announced %s support, skipping ChangeItem transmission for id %d", committed.Type(), id)
		return nil
	}

	generation, _ := e.registry.Generation(id)
	return e.send(codec.Message{Kind: codec.KindChangeItem, ID: id, Current: committed, Generation: generation})
}

// ItemGetCookie returns the owner cookie id was registered with.
func (e *Endpoint) ItemGetCookie(id uint64) (any, bool) {
	return e.registry.Cookie(id)
}

// Subscribe requests every item the server currently holds, and every
// item it adds afterward. Client role only.
func (e *Endpoint) Subscribe(pattern string) error {
	if e.role != Client {
		return fmt.Errorf("endpoint: Subscribe is client-only")
	}
	if !e.connected() {
		return ErrPeerDisconnected
	}
	e.sendSubscribe(pattern)
	return nil
}
