package gateway

import (
	"testing"
	"time"

	"github.com/CogentEmbedded/tweaktool-sub001/endpoint"
	"github.com/CogentEmbedded/tweaktool-sub001/metadata"
	"github.com/CogentEmbedded/tweaktool-sub001/transport"
	"github.com/CogentEmbedded/tweaktool-sub001/value"
)

func waitActive(t *testing.T, e *endpoint.Endpoint) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if e.State() == endpoint.Active {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("endpoint never went active")
}

// TestGatewayRelaysDeviceItemToToolClient builds a device-side server
// (standing in for the device's own Endpoint), a Gateway bridging it to a
// tool-side transport, and a tool-side client, and checks that an item
// added on the device surfaces on the tool client and that a change made
// on either side reaches the other.
func TestGatewayRelaysDeviceItemToToolClient(t *testing.T) {
	deviceServer := endpoint.New(endpoint.Server, transport.Config{Kind: "inproc", Params: "role=server", URI: "test/gw-device"}, endpoint.Listeners{})
	defer deviceServer.Destroy()

	gw := New(
		transport.Config{Kind: "inproc", Params: "role=client", URI: "test/gw-device"},
		transport.Config{Kind: "inproc", Params: "role=server", URI: "test/gw-tool"},
	)
	defer gw.Destroy()
	waitActive(t, deviceServer)
	waitActive(t, gw.device)

	if err := gw.Start(); err != nil {
		t.Fatal(err)
	}

	toolClientChanged := make(chan value.Value, 1)
	toolClient := endpoint.New(endpoint.Client, transport.Config{Kind: "inproc", Params: "role=client", URI: "test/gw-tool"}, endpoint.Listeners{
		OnValueChanged: func(_ uint64, v value.Value) { toolClientChanged <- v },
	})
	defer toolClient.Destroy()
	waitActive(t, toolClient)
	waitActive(t, gw.tool)

	md := metadata.Parse(value.I32, 1, "")
	deviceID, err := deviceServer.AddItem("uri:temp", "", "", md, value.NewI32(20), nil)
	if err != nil {
		t.Fatal(err)
	}

	if err := toolClient.WaitURIs([]string{"uri:temp"}, 2*time.Second); err != nil {
		t.Fatalf("tool client never saw relayed item: %v", err)
	}
	toolID, ok := toolClient.Registry().FindByURI("uri:temp")
	if !ok {
		t.Fatal("relayed item missing from tool client registry")
	}

	if err := deviceServer.ChangeItem(deviceID, value.NewI32(30)); err != nil {
		t.Fatal(err)
	}
	select {
	case v := <-toolClientChanged:
		if v.I32() != 30 {
			t.Fatalf("got %d, want 30", v.I32())
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for device->tool relay")
	}

	deviceChanged := make(chan value.Value, 1)
	if err := toolClient.ChangeItem(toolID, value.NewI32(40)); err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		v, err := deviceServer.Registry().CloneCurrent(deviceID)
		if err == nil && v.I32() == 40 {
			deviceChanged <- v
			break
		}
		time.Sleep(time.Millisecond)
	}
	select {
	case v := <-deviceChanged:
		if v.I32() != 40 {
			t.Fatalf("got %d, want 40", v.I32())
		}
	default:
		t.Fatal("timed out waiting for tool->device relay")
	}
}
