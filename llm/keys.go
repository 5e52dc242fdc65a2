package llm

import (
	"fmt"
	"os"
	"sync/atomic"
)

// KeyRing rotates across multiple API keys for one provider.
type KeyRing struct {
	keys []string
	next uint32
}

// NewKeyRing builds a ring from explicit keys, skipping blanks.
func NewKeyRing(keys ...string) *KeyRing {
	ring := &KeyRing{}
	for _, key := range keys {
		if key != "" {
			ring.keys = append(ring.keys, key)
		}
	}
	return ring
}

// KeysFromEnv collects keys named VAR, VAR_2, VAR_3, VAR_4 from the
// environment, skipping any that are unset.
func KeysFromEnv(envVar string) *KeyRing {
	var keys []string
	if key := os.Getenv(envVar); key != "" {
		keys = append(keys, key)
	}
	for i := 2; i <= 4; i++ {
		if key := os.Getenv(fmt.Sprintf("%s_%d", envVar, i)); key != "" {
			keys = append(keys, key)
		}
	}
	return &KeyRing{keys: keys}
}

// Len returns the number of available keys.
func (k *KeyRing) Len() int {
	return len(k.keys)
}

// Next returns the next key in round-robin order, or "" when none are
// configured.
func (k *KeyRing) Next() string {
	if len(k.keys) == 0 {
		return ""
	}
	n := atomic.AddUint32(&k.next, 1)
	return k.keys[(n-1)%uint32(len(k.keys))]
}
