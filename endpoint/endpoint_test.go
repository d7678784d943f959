package endpoint

import (
	"testing"
	"time"

	"github.com/CogentEmbedded/tweaktool-sub001/codec"
	"github.com/CogentEmbedded/tweaktool-sub001/metadata"
	"github.com/CogentEmbedded/tweaktool-sub001/transport"
	"github.com/CogentEmbedded/tweaktool-sub001/value"
)

func waitForState(t *testing.T, e *Endpoint, want ConnectionState) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if e.State() == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("endpoint never reached state %s, stuck at %s", want, e.State())
}

func newPair(t *testing.T, uri string, serverListeners, clientListeners Listeners) (server, client *Endpoint) {
	t.Helper()
	server = New(Server, transport.Config{Kind: "inproc", Params: "role=server", URI: uri}, serverListeners)
	client = New(Client, transport.Config{Kind: "inproc", Params: "role=client", URI: uri}, clientListeners)
	waitForState(t, server, Active)
	waitForState(t, client, Active)
	return server, client
}

func TestAddItemPropagatesToClient(t *testing.T) {
	server, client := newPair(t, "test/add-item", Listeners{}, Listeners{})
	defer server.Destroy()
	defer client.Destroy()

	md := metadata.Parse(value.I32, 1, "")
	id, err := server.AddItem("uri:counter", "a counter", "", md, value.NewI32(42), nil)
	if err != nil {
		t.Fatal(err)
	}

	if err := client.WaitURIs([]string{"uri:counter"}, 2*time.Second); err != nil {
		t.Fatalf("WaitURIs: %v", err)
	}

	v, err := client.Registry().CloneCurrent(id)
	if err != nil {
		t.Fatal(err)
	}
	if v.I32() != 42 {
		t.Fatalf("got %d, want 42", v.I32())
	}
}

func TestChangeItemPropagatesServerToClient(t *testing.T) {
	changed := make(chan value.Value, 1)
	server, client := newPair(t, "test/change-item", Listeners{}, Listeners{
		OnValueChanged: func(_ uint64, v value.Value) { changed <- v },
	})
	defer server.Destroy()
	defer client.Destroy()

	md := metadata.Parse(value.I32, 1, "")
	id, err := server.AddItem("uri:counter", "", "", md, value.NewI32(0), nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := client.WaitURIs([]string{"uri:counter"}, 2*time.Second); err != nil {
		t.Fatal(err)
	}

	if err := server.ChangeItem(id, value.NewI32(7)); err != nil {
		t.Fatal(err)
	}

	select {
	case v := <-changed:
		if v.I32() != 7 {
			t.Fatalf("got %d, want 7", v.I32())
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for client to observe the change")
	}
}

func TestRemoveItemRemovesFromClient(t *testing.T) {
	removed := make(chan uint64, 1)
	server, client := newPair(t, "test/remove-item", Listeners{}, Listeners{
		OnItemRemoved: func(gotID uint64) { removed <- gotID },
	})
	defer server.Destroy()
	defer client.Destroy()

	md := metadata.Parse(value.Bool, 1, "")
	id, err := server.AddItem("uri:flag", "", "", md, value.NewBool(true), nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := client.WaitURIs([]string{"uri:flag"}, 2*time.Second); err != nil {
		t.Fatal(err)
	}

	if err := server.RemoveItem(id); err != nil {
		t.Fatal(err)
	}

	select {
	case gotID := <-removed:
		if gotID != id {
			t.Fatalf("got id %d, want %d", gotID, id)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for removal")
	}
	if _, ok := client.Registry().FindByURI("uri:flag"); ok {
		t.Fatal("item still present in client registry")
	}
}

func TestVectorItemPropagatesOnceFeaturesNegotiated(t *testing.T) {
	server, client := newPair(t, "test/vector-negotiated", Listeners{}, Listeners{})
	defer server.Destroy()
	defer client.Destroy()

	md := metadata.Parse(value.VecF32, 3, "")
	_, err := server.AddItem("uri:samples", "", "", md, value.NewVecF32([]float32{1, 2, 3}), nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := client.WaitURIs([]string{"uri:samples"}, 2*time.Second); err != nil {
		t.Fatalf("vector item never reached client: %v", err)
	}
}

func TestHandleChangeItemDiscardsStaleGeneration(t *testing.T) {
	server, client := newPair(t, "test/stale-generation", Listeners{}, Listeners{})
	defer server.Destroy()
	defer client.Destroy()

	md := metadata.Parse(value.I32, 1, "")
	id, err := server.AddItem("uri:counter", "", "", md, value.NewI32(0), nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := client.WaitURIs([]string{"uri:counter"}, 2*time.Second); err != nil {
		t.Fatal(err)
	}

	if err := client.registry.ReplaceCurrent(id, ptr(value.NewI32(5)), nil); err != nil {
		t.Fatal(err)
	}
	gen, _ := client.registry.Generation(id)

	client.handleChangeItem(codec.Message{Kind: codec.KindChangeItem, ID: id, Current: value.NewI32(99), Generation: gen})

	cur, err := client.registry.CloneCurrent(id)
	if err != nil {
		t.Fatal(err)
	}
	if cur.I32() != 5 {
		t.Fatalf("stale ChangeItem should have been discarded, got %d, want 5", cur.I32())
	}
}

func ptr(v value.Value) *value.Value { return &v }

func TestChangeItemScalarIgnoresPeerFeatureGating(t *testing.T) {
	server, client := newPair(t, "test/peer-rejects-kind", Listeners{}, Listeners{})
	defer server.Destroy()
	defer client.Destroy()

	md := metadata.Parse(value.I32, 1, "")
	id, err := server.AddItem("uri:gated", "", "", md, value.NewI32(0), nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := client.WaitURIs([]string{"uri:gated"}, 2*time.Second); err != nil {
		t.Fatal(err)
	}

	server.peerFeatures = FeatureSet{} // simulate a peer that announced nothing
	if err := server.ChangeItem(id, value.NewI32(7)); err != nil {
		t.Fatal(err)
	}

	// scalar kinds always pass peerAccepts regardless of announced
	// features, so the change still must have reached the client.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if v, _ := client.Registry().CloneCurrent(id); v.I32() == 7 {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("scalar ChangeItem should not be gated by peerAccepts")
}

func TestSendAddItemSkipsVectorForPeerThatDidNotAnnounceSupport(t *testing.T) {
	server, client := newPair(t, "test/peer-rejects-vector", Listeners{}, Listeners{})
	defer server.Destroy()
	defer client.Destroy()

	server.peerFeatures = FeatureSet{"scalar": true} // simulate a peer that never announced "vector"
	md := metadata.Parse(value.VecI32, 2, "")
	if _, err := server.AddItem("uri:ungated-vector", "", "", md, value.NewVecI32([]int32{1, 2}), nil); err != nil {
		t.Fatal(err)
	}

	if err := client.WaitURIs([]string{"uri:ungated-vector"}, 100*time.Millisecond); err != ErrTimeout {
		t.Fatalf("expected the AddItem to be withheld from a peer lacking vector support, got %v", err)
	}
}

func TestWaitURIsTimesOutWhenNeverResolved(t *testing.T) {
	server, client := newPair(t, "test/wait-timeout", Listeners{}, Listeners{})
	defer server.Destroy()
	defer client.Destroy()

	if err := client.WaitURIs([]string{"uri:never"}, 20*time.Millisecond); err != ErrTimeout {
		t.Fatalf("got %v, want ErrTimeout", err)
	}
}

func TestServerOnlyAndClientOnlyCallsRejected(t *testing.T) {
	server, client := newPair(t, "test/role-check", Listeners{}, Listeners{})
	defer server.Destroy()
	defer client.Destroy()

	md := metadata.Parse(value.Bool, 1, "")
	if _, err := client.AddItem("x", "", "", md, value.NewBool(true), nil); err == nil {
		t.Fatal("expected AddItem on client to be rejected")
	}
	if err := server.Subscribe("*"); err == nil {
		t.Fatal("expected Subscribe on server to be rejected")
	}
}
