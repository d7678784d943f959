package facade

import (
	"github.com/CogentEmbedded/tweaktool-sub001/endpoint"
	"github.com/CogentEmbedded/tweaktool-sub001/internal/tlog"
	"github.com/CogentEmbedded/tweaktool-sub001/metadata"
	"github.com/CogentEmbedded/tweaktool-sub001/value"
)

// ellipsis is the literal truncation suffix GetString appends when the
// destination buffer is too small to hold the full string.
const ellipsis = "…"

// CreateString registers a new string item. Server role only.
func CreateString(f *Facade, uri, description, meta, initial string) (uint64, error) {
	md := metadata.Parse(value.String, 1, meta)
	return f.ep.AddItem(uri, description, meta, md, value.NewString(initial), nil)
}

// SetString replaces a string item's value. A disconnected peer is not
// treated as a failure: see SetScalar.
func SetString(f *Facade, id uint64, s string) error {
	err := f.ep.ChangeItem(id, value.NewString(s))
	if err == endpoint.ErrPeerDisconnected {
		tlog.Warn("facade: set_string(%d): peer disconnected, committed locally", id)
		return nil
	}
	return err
}

// GetString copies id's current string into buf, truncating with the
// literal suffix "…" when buf is too small to hold it whole. Returns the
// number of bytes written.
func GetString(f *Facade, id uint64, buf []byte) int {
	v, err := f.ep.Registry().CloneCurrent(id)
	if err != nil {
		tlog.Warn("facade: get_string(%d): %v", id, err)
		return 0
	}
	if v.Type() != value.String {
		tlog.Warn("facade: get_string(%d): type mismatch, item is %s", id, v.Type())
		return 0
	}

	s := v.Str()
	if len(s) <= len(buf) {
		return copy(buf, s)
	}
	if len(buf) < len(ellipsis) {
		return copy(buf, ellipsis[:len(buf)])
	}
	n := copy(buf, s[:len(buf)-len(ellipsis)])
	n += copy(buf[n:], ellipsis)
	return n
}
