// Package gateway bridges two Endpoints across different transports: a
// client Endpoint facing the device side (e.g. "rpmsg" or "serial") and a
// server Endpoint facing the tool/cloud side (e.g. "nng" tcp, or an AWS
// SQS relay leg). Item lifecycle traffic observed on one side is
// mirrored onto the other, the way tweak-gw relays between a device's
// native transport and whatever the connecting tool speaks.
package gateway

import (
	"sync"

	"github.com/CogentEmbedded/tweaktool-sub001/endpoint"
	"github.com/CogentEmbedded/tweaktool-sub001/internal/tlog"
	"github.com/CogentEmbedded/tweaktool-sub001/registry"
	"github.com/CogentEmbedded/tweaktool-sub001/transport"
	"github.com/CogentEmbedded/tweaktool-sub001/value"
)

// Gateway owns one device-facing client Endpoint and one tool-facing
// server Endpoint, and keeps their item ids in sync by URI. The two
// Registries assign ids independently, so every item crossing the bridge
// needs a translation entry in both directions.
type Gateway struct {
	device *endpoint.Endpoint
	tool   *endpoint.Endpoint

	idMu         sync.Mutex
	deviceToTool map[uint64]uint64
	toolToDevice map[uint64]uint64
}

// New constructs a Gateway. deviceCfg is dialed with a client Endpoint,
// toolCfg with a server Endpoint. Start must be called once both sides
// are expected to be reachable.
func New(deviceCfg, toolCfg transport.Config) *Gateway {
	g := &Gateway{
		deviceToTool: make(map[uint64]uint64),
		toolToDevice: make(map[uint64]uint64),
	}

	g.tool = endpoint.New(endpoint.Server, toolCfg, endpoint.Listeners{
		OnValueChanged: g.onToolValueChanged,
	})
	g.device = endpoint.New(endpoint.Client, deviceCfg, endpoint.Listeners{
		OnItemAdded:    g.onDeviceItemAdded,
		OnItemRemoved:  g.onDeviceItemRemoved,
		OnValueChanged: g.onDeviceValueChanged,
	})
	return g
}

// Start subscribes the device-facing Endpoint to every item the device
// exposes, so relaying can begin.
func (g *Gateway) Start() error {
	return g.device.Subscribe("*")
}

// Destroy tears down both Endpoints.
func (g *Gateway) Destroy() {
	g.device.Destroy()
	g.tool.Destroy()
}

func (g *Gateway) onDeviceItemAdded(snap registry.Snapshot) {
	toolID, err := g.tool.AddItem(snap.URI, snap.Description, snap.Meta, snap.Metadata, snap.Current, nil)
	if err != nil {
		tlog.Warn("gateway: relay AddItem for %q: %v", snap.URI, err)
		return
	}

	g.idMu.Lock()
	g.deviceToTool[snap.ID] = toolID
	g.toolToDevice[toolID] = snap.ID
	g.idMu.Unlock()
}

func (g *Gateway) onDeviceItemRemoved(deviceID uint64) {
	g.idMu.Lock()
	toolID, ok := g.deviceToTool[deviceID]
	delete(g.deviceToTool, deviceID)
	delete(g.toolToDevice, toolID)
	g.idMu.Unlock()
	if !ok {
		return
	}

	if err := g.tool.RemoveItem(toolID); err != nil {
		tlog.Warn("gateway: relay RemoveItem for device id %d: %v", deviceID, err)
	}
}

func (g *Gateway) onDeviceValueChanged(deviceID uint64, current value.Value) {
	g.idMu.Lock()
	toolID, ok := g.deviceToTool[deviceID]
	g.idMu.Unlock()
	if !ok {
		return
	}

	if err := g.tool.ChangeItem(toolID, current); err != nil && err != endpoint.ErrPeerDisconnected {
		tlog.Warn("gateway: relay ChangeItem device->tool for id %d: %v", deviceID, err)
	}
}

func (g *Gateway) onToolValueChanged(toolID uint64, current value.Value) {
	g.idMu.Lock()
	deviceID, ok := g.toolToDevice[toolID]
	g.idMu.Unlock()
	if !ok {
		return
	}

	if err := g.device.ChangeItem(deviceID, current); err != nil && err != endpoint.ErrPeerDisconnected {
		tlog.Warn("gateway: relay ChangeItem tool->device for id %d: %v", toolID, err)
	}
}
