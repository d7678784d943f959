package facade

import (
	"github.com/CogentEmbedded/tweaktool-sub001/endpoint"
	"github.com/CogentEmbedded/tweaktool-sub001/internal/tlog"
	"github.com/CogentEmbedded/tweaktool-sub001/metadata"
	"github.com/CogentEmbedded/tweaktool-sub001/value"
)

// CreateVector registers a new vector item of element type T. Server
// role only.
func CreateVector[T Numeric](f *Facade, uri, description, meta string, initial []T) (uint64, error) {
	kind := vecKindOf[T]()
	md := metadata.Parse(kind, len(initial), meta)
	return f.ep.AddItem(uri, description, meta, md, vecToValue(initial), nil)
}

// SetVector replaces a vector item's elements. A disconnected peer is not
// treated as a failure: see SetScalar.
func SetVector[T Numeric](f *Facade, id uint64, s []T) error {
	err := f.ep.ChangeItem(id, vecToValue(s))
	if err == endpoint.ErrPeerDisconnected {
		tlog.Warn("facade: set_vector(%d): peer disconnected, committed locally", id)
		return nil
	}
	return err
}

// GetVector copies id's current elements into out, returning the number
// copied. Returns 0 and logs on a type mismatch or unknown id.
func GetVector[T Numeric](f *Facade, id uint64, out []T) int {
	v, err := f.ep.Registry().CloneCurrent(id)
	if err != nil {
		tlog.Warn("facade: get_vector(%d): %v", id, err)
		return 0
	}
	if v.Type() != vecKindOf[T]() {
		tlog.Warn("facade: get_vector(%d): type mismatch, item is %s", id, v.Type())
		return 0
	}
	return valueToVec(v, out)
}

// GetVectorItemCount reports id's element count, or 0 if id is unknown.
func (f *Facade) GetVectorItemCount(id uint64) int {
	v, err := f.ep.Registry().CloneCurrent(id)
	if err != nil {
		return 0
	}
	return value.ItemCount(v)
}
