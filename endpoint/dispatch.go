package endpoint

import (
	"github.com/CogentEmbedded/tweaktool-sub001/codec"
	"github.com/CogentEmbedded/tweaktool-sub001/internal/tlog"
	"github.com/CogentEmbedded/tweaktool-sub001/metadata"
	"github.com/CogentEmbedded/tweaktool-sub001/registry"
	"github.com/CogentEmbedded/tweaktool-sub001/value"
)

// handle dispatches one decoded inbound message per the Active-state
// transition table.
func (e *Endpoint) handle(msg codec.Message) {
	switch msg.Kind {
	case codec.KindFeatures:
		e.handleFeatures(msg)
	case codec.KindAddItem:
		e.handleAddItem(msg)
	case codec.KindChangeItem:
		e.handleChangeItem(msg)
	case codec.KindRemoveItem:
		e.handleRemoveItem(msg)
	case codec.KindSubscribe:
		e.handleSubscribe(msg)
	}
}

// handleAddItem reconstructs a mirrored item on the client side. A
// server receiving an AddItem is a protocol violation from this
// release's peer and is logged and ignored.
func (e *Endpoint) handleAddItem(msg codec.Message) {
	if e.role != Client {
		tlog.Warn("endpoint: server received unexpected AddItem for id %d", msg.ID)
		return
	}
	md := metadata.Parse(msg.Default.Type(), value.ItemCount(msg.Default), msg.Meta)
	id, err := e.registry.Add(msg.URI, msg.Desc, msg.Meta, md, msg.Default, nil)
	if err != nil {
		tlog.Warn("endpoint: AddItem for %q: %v", msg.URI, err)
		return
	}
	e.registry.SeedCurrent(id, msg.Current, msg.Generation)
	e.wait.wakeUp()

	if e.listeners.OnItemAdded != nil {
		snap, _ := e.registry.Snapshot(id)
		tlog.RecoverToLog(func() { e.listeners.OnItemAdded(snap) })
	}
}

func (e *Endpoint) handleRemoveItem(msg codec.Message) {
	if e.role != Client {
		tlog.Warn("endpoint: server received unexpected RemoveItem for id %d", msg.ID)
		return
	}
	if !e.registry.Remove(msg.ID) {
		return
	}
	if e.listeners.OnItemRemoved != nil {
		tlog.RecoverToLog(func() { e.listeners.OnItemRemoved(msg.ID) })
	}
}

// handleChangeItem applies a peer-originated value update without
// retransmitting it (the echo-suppression rule.) A message whose
// Generation is at or behind the local item's generation counter has
// already been superseded by a change this endpoint applied in the
// meantime, and is discarded rather than overwriting the newer value.
func (e *Endpoint) handleChangeItem(msg codec.Message) {
	if local, ok := e.registry.Generation(msg.ID); ok && msg.Generation != 0 && msg.Generation <= local {
		tlog.Warn("endpoint: discarding stale ChangeItem for id %d (generation %d <= local %d)", msg.ID, msg.Generation, local)
		return
	}

	e.recent.record(msg.ID, msg.Current)

	prev := msg.Current
	if err := e.registry.ReplaceCurrent(msg.ID, &prev, nil); err != nil {
		tlog.Warn("endpoint: ChangeItem for unknown/mismatched id %d: %v", msg.ID, err)
		return
	}
	if e.listeners.OnValueChanged != nil {
		tlog.RecoverToLog(func() { e.listeners.OnValueChanged(msg.ID, msg.Current) })
	}
}

// handleSubscribe is the server-side half of subscription: in this
// release any pattern is treated as "*".
func (e *Endpoint) handleSubscribe(msg codec.Message) {
	if e.role != Server {
		tlog.Warn("endpoint: client received unexpected Subscribe")
		return
	}
	pattern := "*"
	e.subMu.Lock()
	e.subscription = pattern
	e.subMu.Unlock()

	if e.listeners.OnSubscribe != nil {
		tlog.RecoverToLog(func() { e.listeners.OnSubscribe(pattern) })
	}

	e.registry.Traverse(func(snap registry.Snapshot) bool {
		e.sendAddItem(snap)
		return true
	})
}

func (e *Endpoint) sendAddItem(snap registry.Snapshot) {
	if !peerAccepts(e.peerFeatures, snap.Current.Type()) {
		tlog.Warn("endpoint: peer has not announced %s support, skipping AddItem for %q", snap.Current.Type(), snap.URI)
		return
	}
	if err := e.send(codec.Message{
		Kind:       codec.KindAddItem,
		ID:         snap.ID,
		URI:        snap.URI,
		Desc:       snap.Description,
		Meta:       snap.Meta,
		Default:    snap.Default,
		Current:    snap.Current,
		Generation: snap.Generation,
	}); err != nil {
		tlog.Warn("endpoint: send AddItem for %q: %v", snap.URI, err)
	}
}

func (e *Endpoint) sendSubscribe(pattern string) {
	e.subMu.Lock()
	e.subscription = pattern
	e.subMu.Unlock()
	if err := e.send(codec.Message{Kind: codec.KindSubscribe, URIPatterns: pattern}); err != nil {
		tlog.Warn("endpoint: send Subscribe: %v", err)
	}
}
