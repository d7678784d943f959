package facade

import (
	"github.com/CogentEmbedded/tweaktool-sub001/endpoint"
	"github.com/CogentEmbedded/tweaktool-sub001/internal/tlog"
	"github.com/CogentEmbedded/tweaktool-sub001/metadata"
	"github.com/CogentEmbedded/tweaktool-sub001/value"
)

// AddScalar registers a new scalar item of type T. Server role only.
func AddScalar[T Scalar](f *Facade, uri, description, meta string, initial T) (uint64, error) {
	kind := kindOf[T]()
	md := metadata.Parse(kind, 1, meta)
	return f.ep.AddItem(uri, description, meta, md, scalarToValue(initial), nil)
}

// AddScalarEx registers a scalar item without a fixed uri (the Registry
// still requires one; callers that don't need a stable address can pass
// an empty string and address the item by id) and wires a per-item
// change callback plus an owner cookie, the way add_scalar_T_ex's
// descriptor does.
func AddScalarEx[T Scalar](f *Facade, uri, description, meta string, initial T, onChange func(id uint64, v T), cookie any) (uint64, error) {
	kind := kindOf[T]()
	md := metadata.Parse(kind, 1, meta)
	id, err := f.ep.AddItem(uri, description, meta, md, scalarToValue(initial), cookie)
	if err != nil {
		return 0, err
	}
	if onChange != nil {
		f.setCallback(id, func(v value.Value) {
			if v.Type() != kind {
				return
			}
			onChange(id, valueToScalar[T](v))
		})
	}
	return id, nil
}

// SetScalar applies a new value to a scalar item, available on both
// roles. A disconnected peer is not treated as a failure: the new value
// still commits to the local registry, a warning is logged, and
// propagation resumes whenever the transport reconnects.
func SetScalar[T Scalar](f *Facade, id uint64, v T) error {
	err := f.ep.ChangeItem(id, scalarToValue(v))
	if err == endpoint.ErrPeerDisconnected {
		tlog.Warn("facade: set_scalar(%d): peer disconnected, committed locally", id)
		return nil
	}
	return err
}

// GetScalar reads id's current value as T. If id does not hold a T
// (wrong type or unknown id), it logs and returns T's zero value rather
// than coercing.
func GetScalar[T Scalar](f *Facade, id uint64) T {
	var zero T
	v, err := f.ep.Registry().CloneCurrent(id)
	if err != nil {
		tlog.Warn("facade: get_scalar(%d): %v", id, err)
		return zero
	}
	if v.Type() != kindOf[T]() {
		tlog.Warn("facade: get_scalar(%d): type mismatch, item is %s", id, v.Type())
		return zero
	}
	return valueToScalar[T](v)
}
