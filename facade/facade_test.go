package facade

import (
	"testing"
	"time"

	"github.com/CogentEmbedded/tweaktool-sub001/endpoint"
	"github.com/CogentEmbedded/tweaktool-sub001/transport"
)

func waitForActive(t *testing.T, f *Facade) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if f.Endpoint().State() == endpoint.Active {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("facade endpoint never went active")
}

func newFacadePair(t *testing.T, uri string, serverL, clientL Listeners) (server, client *Facade) {
	t.Helper()
	server = New(endpoint.Server, transport.Config{Kind: "inproc", Params: "role=server", URI: uri}, serverL)
	client = New(endpoint.Client, transport.Config{Kind: "inproc", Params: "role=client", URI: uri}, clientL)
	waitForActive(t, server)
	waitForActive(t, client)
	return server, client
}

func TestScalarRoundTrip(t *testing.T) {
	server, client := newFacadePair(t, "test/scalar", Listeners{}, Listeners{})
	defer server.Destroy()
	defer client.Destroy()

	id, err := AddScalar[int32](server, "uri:count", "a count", "", 10)
	if err != nil {
		t.Fatal(err)
	}
	if err := client.Endpoint().WaitURIs([]string{"uri:count"}, 2*time.Second); err != nil {
		t.Fatal(err)
	}

	if got := GetScalar[int32](client, id); got != 10 {
		t.Fatalf("got %d, want 10", got)
	}

	if err := SetScalar[int32](client, id, 99); err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if GetScalar[int32](server, id) == 99 {
			break
		}
		time.Sleep(time.Millisecond)
	}
	if got := GetScalar[int32](server, id); got != 99 {
		t.Fatalf("got %d, want 99", got)
	}
}

func TestGetScalarTypeMismatchReturnsZero(t *testing.T) {
	server, client := newFacadePair(t, "test/scalar-mismatch", Listeners{}, Listeners{})
	defer server.Destroy()
	defer client.Destroy()

	id, err := AddScalar[bool](server, "uri:flag", "", "", true)
	if err != nil {
		t.Fatal(err)
	}
	if err := client.Endpoint().WaitURIs([]string{"uri:flag"}, 2*time.Second); err != nil {
		t.Fatal(err)
	}

	if got := GetScalar[int32](client, id); got != 0 {
		t.Fatalf("got %d, want 0 on type mismatch", got)
	}
}

func TestAddScalarExFiresPerItemCallback(t *testing.T) {
	server, client := newFacadePair(t, "test/scalar-ex", Listeners{}, Listeners{})
	defer server.Destroy()
	defer client.Destroy()

	changed := make(chan int32, 1)
	id, err := AddScalarEx[int32](server, "uri:ex", "", "", 1, func(_ uint64, v int32) { changed <- v }, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := client.Endpoint().WaitURIs([]string{"uri:ex"}, 2*time.Second); err != nil {
		t.Fatal(err)
	}

	if err := SetScalar[int32](client, id, 55); err != nil {
		t.Fatal(err)
	}

	select {
	case v := <-changed:
		if v != 55 {
			t.Fatalf("got %d, want 55", v)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for per-item callback")
	}
}

func TestVectorRoundTrip(t *testing.T) {
	server, client := newFacadePair(t, "test/vector", Listeners{}, Listeners{})
	defer server.Destroy()
	defer client.Destroy()

	id, err := CreateVector[float32](server, "uri:samples", "", "", []float32{1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	if err := client.Endpoint().WaitURIs([]string{"uri:samples"}, 2*time.Second); err != nil {
		t.Fatal(err)
	}

	if n := client.GetVectorItemCount(id); n != 3 {
		t.Fatalf("got count %d, want 3", n)
	}

	out := make([]float32, 3)
	n := GetVector[float32](client, id, out)
	if n != 3 || out[0] != 1 || out[1] != 2 || out[2] != 3 {
		t.Fatalf("got %v (n=%d), want [1 2 3]", out, n)
	}
}

func TestStringRoundTripAndTruncation(t *testing.T) {
	server, client := newFacadePair(t, "test/string", Listeners{}, Listeners{})
	defer server.Destroy()
	defer client.Destroy()

	id, err := CreateString(server, "uri:name", "", "", "hello world")
	if err != nil {
		t.Fatal(err)
	}
	if err := client.Endpoint().WaitURIs([]string{"uri:name"}, 2*time.Second); err != nil {
		t.Fatal(err)
	}

	buf := make([]byte, 5)
	n := GetString(client, id, buf)
	got := string(buf[:n])
	if got != "he…" {
		t.Fatalf("got %q, want truncated %q", got, "he…")
	}

	full := make([]byte, 32)
	n = GetString(client, id, full)
	if string(full[:n]) != "hello world" {
		t.Fatalf("got %q, want %q", string(full[:n]), "hello world")
	}
}
