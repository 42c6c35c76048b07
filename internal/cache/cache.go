// Package cache memoizes engine results by input hash.
package cache

import (
	"encoding/json"
	"fmt"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/spotter-dz/spotter/internal/engine"
	"github.com/spotter-dz/spotter/pkg/core"
)

// hashed is the canonical form of a calculation input.
type hashed struct {
	Jump    core.JumpParameters   `json:"jump"`
	Common  core.CommonParameters `json:"common"`
	Terrain core.TerrainData      `json:"terrain"`
	Profile []core.WindSample     `json:"profile"`
	Options engine.Options        `json:"options"`
}

// Key hashes everything a result depends on. Equal inputs always give
// equal keys.
func Key(in engine.Input, opts engine.Options) (string, error) {
	b, err := json.Marshal(hashed{
		Jump:    in.Jump,
		Common:  in.Common,
		Terrain: in.Terrain,
		Profile: in.Profile.Samples(),
		Options: opts,
	})
	if err != nil {
		return "", fmt.Errorf("hash input: %w", err)
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(b)), nil
}

// ResultCache is a bounded LRU of engine results. A nil *ResultCache is a
// valid cache that never hits.
type ResultCache struct {
	lru *lru.Cache[string, *engine.Result]
}

// New creates a cache holding up to size results. size <= 0 disables
// caching and returns nil.
func New(size int) (*ResultCache, error) {
	if size <= 0 {
		return nil, nil
	}
	l, err := lru.New[string, *engine.Result](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create result cache: %w", err)
	}
	return &ResultCache{lru: l}, nil
}

// Get returns a copy of the cached result for key.
func (c *ResultCache) Get(key string) (*engine.Result, bool) {
	if c == nil {
		return nil, false
	}
	res, ok := c.lru.Get(key)
	if !ok {
		return nil, false
	}
	return res.Clone(), true
}

// Add stores a copy of res under key, evicting the least recently used
// entry when full.
func (c *ResultCache) Add(key string, res *engine.Result) {
	if c == nil || res == nil {
		return
	}
	c.lru.Add(key, res.Clone())
}

// Len returns the number of cached results.
func (c *ResultCache) Len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}

// Purge drops every entry.
func (c *ResultCache) Purge() {
	if c == nil {
		return
	}
	c.lru.Purge()
}
