package transport

import (
	"bufio"
	"os"
	"strings"
	"sync"

	"github.com/CogentEmbedded/tweaktool-sub001/codec"
)

// serialBackend is the "serial" transport_kind: a UART device node
// opened as a plain file, framed the same way as nngBackend since a
// serial line is a raw byte stream with no message boundaries of its
// own.
type serialBackend struct {
	path string

	mu   sync.Mutex
	file *os.File
	r    *bufio.Reader
}

func newSerialBackend(cfg Config) (Backend, error) {
	return &serialBackend{path: strings.TrimPrefix(cfg.URI, "serial://")}, nil
}

func (b *serialBackend) Dial() error {
	f, err := os.OpenFile(b.path, os.O_RDWR, 0)
	if err != nil {
		return err
	}
	b.file = f
	b.r = bufio.NewReader(f)
	return nil
}

func (b *serialBackend) Send(msg []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.file == nil {
		return ErrClosed
	}
	return codec.WriteFrame(b.file, msg)
}

func (b *serialBackend) Recv() ([]byte, error) {
	if b.r == nil {
		return nil, ErrClosed
	}
	return codec.ReadFrame(b.r)
}

func (b *serialBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.file != nil {
		return b.file.Close()
	}
	return nil
}
