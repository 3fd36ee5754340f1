package sana

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache holds recently compiled IRs keyed by rule set content.
//
// Two rule sets with the same patterns, priorities and actions in the same
// order share one IR. A Cache is safe for concurrent use.
type Cache[A comparable] struct {
	config Config
	lru    *lru.Cache[string, *IR[A]]
}

// NewCache creates a cache holding up to size IRs compiled with config.
func NewCache[A comparable](size int, config Config) (*Cache[A], error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	l, err := lru.New[string, *IR[A]](size)
	if err != nil {
		return nil, err
	}
	return &Cache[A]{config: config, lru: l}, nil
}

// Compile returns the cached IR for rs, compiling and caching it on a miss.
// Failed compilations are not cached.
func (c *Cache[A]) Compile(rs *RuleSet[A]) (*IR[A], error) {
	key := fingerprint(rs)
	if ir, ok := c.lru.Get(key); ok {
		return ir, nil
	}

	ir, err := CompileWithConfig(rs, c.config)
	if err != nil {
		return nil, err
	}
	c.lru.Add(key, ir)
	return ir, nil
}

// Contains reports whether an IR for rs is cached, without updating recency.
func (c *Cache[A]) Contains(rs *RuleSet[A]) bool {
	return c.lru.Contains(fingerprint(rs))
}

// Len returns the number of cached IRs.
func (c *Cache[A]) Len() int {
	return c.lru.Len()
}

// Purge drops every cached IR.
func (c *Cache[A]) Purge() {
	c.lru.Purge()
}

// fingerprint hashes every rule's pattern, priority and action.
// Fields are length-prefixed so that adjacent values cannot run together.
func fingerprint[A comparable](rs *RuleSet[A]) string {
	h := sha256.New()
	var buf [8]byte
	write := func(s string) {
		binary.LittleEndian.PutUint64(buf[:], uint64(len(s)))
		h.Write(buf[:])
		h.Write([]byte(s))
	}

	for _, r := range rs.rules {
		pattern := ""
		if r.Pattern != nil {
			pattern = r.Pattern.String()
		}
		write(pattern)
		write(fmt.Sprint(r.Priority))
		write(fmt.Sprintf("%#v", r.Action))
	}
	return hex.EncodeToString(h.Sum(nil))
}
