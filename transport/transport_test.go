package transport

import (
	"bytes"
	"sync"
	"testing"
)

func TestInprocRoundTrip(t *testing.T) {
	var wg sync.WaitGroup
	var server, client Backend
	var serverErr, clientErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		server, serverErr = Dial(Config{Kind: "inproc", Params: "role=server", URI: "test"})
	}()
	go func() {
		defer wg.Done()
		client, clientErr = Dial(Config{Kind: "inproc", Params: "role=client", URI: "test"})
	}()
	wg.Wait()

	if serverErr != nil || clientErr != nil {
		t.Fatalf("dial errors: server=%v client=%v", serverErr, clientErr)
	}

	if err := client.Send([]byte("hello")); err != nil {
		t.Fatal(err)
	}
	got, err := server.Recv()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, []byte("hello")) {
		t.Fatalf("got %q, want %q", got, "hello")
	}

	server.Close()
	client.Close()
}

func TestParseParamsRole(t *testing.T) {
	if ParseParams("role=client") != RoleClient {
		t.Fatal("expected RoleClient")
	}
	if ParseParams("role=server") != RoleServer {
		t.Fatal("expected RoleServer")
	}
	if ParseParams("") != RoleServer {
		t.Fatal("empty params should default to RoleServer")
	}
	if ParseParams("foo=bar;role=client;baz=qux") != RoleClient {
		t.Fatal("role should be found among other keys")
	}
}

func TestUnknownTransportKind(t *testing.T) {
	if _, err := Dial(Config{Kind: "carrier-pigeon"}); err == nil {
		t.Fatal("expected error for unknown transport_kind")
	}
}
