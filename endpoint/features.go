package endpoint

import (
	"strings"

	"github.com/CogentEmbedded/tweaktool-sub001/codec"
	"github.com/CogentEmbedded/tweaktool-sub001/internal/tlog"
	"github.com/CogentEmbedded/tweaktool-sub001/value"
	"github.com/blang/semver"
)

// FeatureSet is the set of extension features a peer has announced
// support for. "scalar" is the baseline and is always implicitly
// present; "vector" and "string" are opt-in.
type FeatureSet map[string]bool

// parseFeatureString parses a semicolon-separated feature announcement.
// Each token may carry an optional "@version" suffix (e.g.
// "vector@1.0.0"); a token whose version suffix does not parse as valid
// semver is dropped rather than failing the whole announcement, since a
// single malformed feature tag should not cost the peer every feature
// it actually supports.
func parseFeatureString(s string) FeatureSet {
	fs := FeatureSet{}
	for _, tok := range strings.Split(s, ";") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		name := tok
		if i := strings.IndexByte(tok, '@'); i >= 0 {
			name = tok[:i]
			if _, err := semver.Parse(tok[i+1:]); err != nil {
				tlog.Warn("endpoint: dropping feature %q with unparseable version: %v", tok, err)
				continue
			}
		}
		fs[name] = true
	}
	return fs
}

// String renders fs back to the wire's semicolon-separated form.
func (fs FeatureSet) String() string {
	names := make([]string, 0, len(fs))
	for name := range fs {
		names = append(names, name)
	}
	return strings.Join(names, ";")
}

// Has reports whether fs announces support for feature.
func (fs FeatureSet) Has(feature string) bool { return fs[feature] }

func (e *Endpoint) sendFeatures() {
	if err := e.send(codec.Message{Kind: codec.KindFeatures, Features: e.ourFeatures.String()}); err != nil {
		tlog.Warn("endpoint: send Features: %v", err)
	}
}

func (e *Endpoint) handleFeatures(msg codec.Message) {
	e.peerFeatures = parseFeatureString(msg.Features)
	if e.listeners.OnFeatures != nil {
		tlog.RecoverToLog(func() { e.listeners.OnFeatures(e.peerFeatures) })
	}
}

// PeerFeatures returns the most recently negotiated peer feature set.
func (e *Endpoint) PeerFeatures() FeatureSet { return e.peerFeatures }

// peerAccepts reports whether the negotiated peer feature set covers
// kind: vectors and strings require the matching opt-in extension,
// every other kind falls under the always-present "scalar" baseline.
func peerAccepts(peer FeatureSet, kind value.Kind) bool {
	switch {
	case kind.IsVector():
		return peer.Has("vector")
	case kind == value.String:
		return peer.Has("string")
	default:
		return true
	}
}
