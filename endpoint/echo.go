package endpoint

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru"

	"github.com/CogentEmbedded/tweaktool-sub001/value"
)

// recentSet is last_sent_by_us: a bounded recency cache holding, per item
// id, the fingerprint of the value most recently exchanged with the peer,
// either sent in a ChangeItem or applied from one received. It exists to
// suppress a redundant retransmission when local application code mirrors
// a just-applied peer update back through the same Endpoint.
type recentSet struct {
	cache *lru.Cache
}

func newRecentSet(size int) *recentSet {
	cache, err := lru.New(size)
	if err != nil {
		// size is always a positive compile-time constant from New();
		// lru.New only fails for size <= 0.
		panic(fmt.Sprintf("endpoint: recentSet: %v", err))
	}
	return &recentSet{cache: cache}
}

func fingerprint(id uint64, v value.Value) string {
	return fmt.Sprintf("%d:%s", id, value.ToString(v))
}

// seen reports whether v is the value last recorded for id.
func (r *recentSet) seen(id uint64, v value.Value) bool {
	last, ok := r.cache.Get(id)
	return ok && last == fingerprint(id, v)
}

// record marks v as the value last exchanged with the peer for id.
func (r *recentSet) record(id uint64, v value.Value) {
	r.cache.Add(id, fingerprint(id, v))
}
