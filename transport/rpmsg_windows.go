//go:build windows

package transport

import (
	"bufio"
	"sync"

	"net"

	"github.com/Microsoft/go-winio"
	"github.com/CogentEmbedded/tweaktool-sub001/codec"
)

// rpmsgBackend is the "rpmsg" transport_kind: the ARM inter-core
// transport. On Windows hosts used for development/simulation this
// rides a named pipe via go-winio, a kernel-mediated inter-process
// byte stream usable as a pipe-backed client/server dial path.
type rpmsgBackend struct {
	role Role
	path string

	mu   sync.Mutex
	conn net.Conn
	r    *bufio.Reader
}

func newRPMsgBackend(cfg Config) (Backend, error) {
	return &rpmsgBackend{role: ParseParams(cfg.Params), path: cfg.URI}, nil
}

func (b *rpmsgBackend) Dial() error {
	if b.role == RoleServer {
		ln, err := winio.ListenPipe(b.path, nil)
		if err != nil {
			return err
		}
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		b.conn = conn
		b.r = bufio.NewReader(b.conn)
		return nil
	}

	conn, err := winio.DialPipe(b.path, nil)
	if err != nil {
		return err
	}
	b.conn = conn
	b.r = bufio.NewReader(conn)
	return nil
}

func (b *rpmsgBackend) Send(msg []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.conn == nil {
		return ErrClosed
	}
	return codec.WriteFrame(b.conn, msg)
}

func (b *rpmsgBackend) Recv() ([]byte, error) {
	if b.r == nil {
		return nil, ErrClosed
	}
	return codec.ReadFrame(b.r)
}

func (b *rpmsgBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.conn != nil {
		return b.conn.Close()
	}
	return nil
}
