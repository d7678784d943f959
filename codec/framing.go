package codec

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

// maxFrameLen bounds a single frame so a corrupt or hostile length
// prefix cannot force an unbounded allocation.
const maxFrameLen = 64 << 20

var errFrameTooLarge = fmt.Errorf("codec: frame exceeds maximum length")

// WriteFrame writes msg to w prefixed with its 4-byte big-endian length,
// for byte-stream transports (serial, TCP) that do not preserve message
// boundaries on their own. This framing is a supplement to the
// datagram-transport codec above, not a replacement for it.
func WriteFrame(w io.Writer, msg []byte) error {
	var prefix [4]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(len(msg)))
	if _, err := w.Write(prefix[:]); err != nil {
		return err
	}
	_, err := w.Write(msg)
	return err
}

// ReadFrame reads one length-prefixed frame from r.
func ReadFrame(r *bufio.Reader) ([]byte, error) {
	var prefix [4]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(prefix[:])
	if n > maxFrameLen {
		return nil, errFrameTooLarge
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}
