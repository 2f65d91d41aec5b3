package career

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Key identifies a memoized oracle answer
type Key struct {
	Operation string
	Role      string
	// Signature is the order-preserving digest of the inputs.
	Signature string
}

// Signature digests values in order
func Signature(values ...[]string) string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	for _, v := range values {
		_ = enc.Encode(v)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Memo caches answers per Key and generation. Bust starts a new generation,
// after which earlier answers are neither returned nor stored. Concurrent
// calls for the same key share one computation.
type Memo[V any] struct {
	mu         sync.RWMutex
	generation uint64
	entries    map[string]V
	group      singleflight.Group
}

// NewMemo returns an empty memo
func NewMemo[V any]() *Memo[V] {
	return &Memo[V]{entries: make(map[string]V)}
}

// Generation returns the current cache-bust counter
func (m *Memo[V]) Generation() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.generation
}

// Bust invalidates every entry
func (m *Memo[V]) Bust() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generation++
	m.entries = make(map[string]V)
}

// Len returns the number of cached entries
func (m *Memo[V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Do returns the cached value for key or computes it with fn. fn reports
// whether its value may be cached. Errors are never cached.
func (m *Memo[V]) Do(key Key, fn func() (V, bool, error)) (V, error) {
	m.mu.RLock()
	gen := m.generation
	k := flightKey(gen, key)
	if v, ok := m.entries[k]; ok {
		m.mu.RUnlock()
		return v, nil
	}
	m.mu.RUnlock()

	res, err, _ := m.group.Do(k, func() (any, error) {
		v, keep, err := fn()
		if err != nil {
			return v, err
		}
		if keep {
			m.mu.Lock()
			if m.generation == gen {
				m.entries[k] = v
			}
			m.mu.Unlock()
		}
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return res.(V), nil
}

func flightKey(gen uint64, key Key) string {
	return strconv.FormatUint(gen, 10) + "\x00" + key.Operation + "\x00" + key.Role + "\x00" + key.Signature
}
