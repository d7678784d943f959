// Package transport abstracts the byte-stream or datagram link an
// Endpoint runs its protocol over, mirroring kryptco-kr's own Transport
// interface (transport.go) generalized from a single AWS-backed
// implementation to the several supported backends.
package transport


// Backend is a bidirectional, ordered, length-preserving message
// channel. Send and Recv each move exactly one already-framed protocol
// message; backends that sit on top of a raw byte stream (serial,
// rpmsg) apply codec.WriteFrame/ReadFrame internally to preserve
// message boundaries.
type Backend interface {
	// Dial establishes the connection. The server-role nng and rpmsg
	// backends block until a peer connects; the inproc, ble and aws
	// backends return without waiting for one.
	Dial() error

	// Send transmits one message. Concurrent calls are not required to
	// be safe; callers serialize sends through a single mutex.
	Send(msg []byte) error

	// Recv blocks until one message arrives, the backend is closed, or
	// the underlying link fails.
	Recv() ([]byte, error)

	// Close tears down the connection. Safe to call more than once and
	// concurrently with Recv, which must then return an error promptly.
	Close() error
}

// Config is the three-string transport configuration contract:
// transport_kind selects the backend, params is a semicolon-separated
// key=value list (only role=server/role=client is recognized), and uri
// is backend-specific.
type Config struct {
	Kind   string
	Params string
	URI    string
}

// Role is parsed out of Config.Params' "role" key.
type Role uint8

const (
	RoleServer Role = iota
	RoleClient
)

// ParseParams extracts the recognized role=server|client key from a
// semicolon-separated params string. Unrecognized keys are ignored, not
// rejected: only the two role values are recognized.
func ParseParams(params string) Role {
	for _, kv := range splitSemicolon(params) {
		k, v, ok := splitOnce(kv, '=')
		if !ok {
			continue
		}
		if k == "role" && v == "client" {
			return RoleClient
		}
	}
	return RoleServer
}

func splitSemicolon(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == ';' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}

func splitOnce(s string, sep byte) (string, string, bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == sep {
			return s[:i], s[i+1:], true
		}
	}
	return s, "", false
}

// Dial constructs and dials the backend named by cfg.Kind.
func Dial(cfg Config) (Backend, error) {
	b, err := newBackend(cfg)
	if err != nil {
		return nil, err
	}
	if err := b.Dial(); err != nil {
		return nil, err
	}
	return b, nil
}

// errClosed is returned by Recv/Send once Close has been called.
type errClosed struct{}

func (errClosed) Error() string { return "transport: closed" }

var ErrClosed error = errClosed{}
