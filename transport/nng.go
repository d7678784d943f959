package transport

import (
	"bufio"
	"net"
	"strings"
	"sync"

	"github.com/CogentEmbedded/tweaktool-sub001/codec"
)

// nngBackend is the "nng" transport_kind: TCP-backed datagrams. nng
// itself (nanomsg-next-gen) is not vendored here; this backend gives
// tweak's TCP transport the same message-boundary guarantee nng's
// PAIR0 protocol would, using the length-prefix framing in
// codec.WriteFrame/ReadFrame.
type nngBackend struct {
	role Role
	addr string

	mu   sync.Mutex
	conn net.Conn
	r    *bufio.Reader

	listener net.Listener
}

func newNNGBackend(cfg Config) (Backend, error) {
	return &nngBackend{
		role: ParseParams(cfg.Params),
		addr: strings.TrimPrefix(cfg.URI, "tcp://"),
	}, nil
}

func (b *nngBackend) Dial() error {
	if b.role == RoleServer {
		ln, err := net.Listen("tcp", b.addr)
		if err != nil {
			return err
		}
		b.listener = ln
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		b.conn = conn
		b.r = bufio.NewReader(conn)
		return nil
	}

	conn, err := net.Dial("tcp", b.addr)
	if err != nil {
		return err
	}
	b.conn = conn
	b.r = bufio.NewReader(conn)
	return nil
}

func (b *nngBackend) Send(msg []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.conn == nil {
		return ErrClosed
	}
	return codec.WriteFrame(b.conn, msg)
}

func (b *nngBackend) Recv() ([]byte, error) {
	if b.r == nil {
		return nil, ErrClosed
	}
	return codec.ReadFrame(b.r)
}

func (b *nngBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.listener != nil {
		b.listener.Close()
	}
	if b.conn != nil {
		return b.conn.Close()
	}
	return nil
}
