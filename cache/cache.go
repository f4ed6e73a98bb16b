/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package cache

import (
	"context"
	"time"

	golog "github.com/ipfs/go-log"
	gocache "github.com/patrickmn/go-cache"

	"github.com/suparena/nftstore/storagemodels"
)

var log = golog.Logger("nftstore/cache")

const DefaultExpiration = 10 * time.Minute
const DefaultCleanupInterval = 30 * time.Minute

const (
	tokenPrefix    = "token:"
	metadataPrefix = "metadata:"
)

// TokenCache keeps recently read tokens and token metadata in memory.
// Tokens never change after mint, so entries are only evicted by expiry.
// Values are copied on the way in and out.
type TokenCache struct {
	cache      *gocache.Cache
	expiration time.Duration
}

// New initializes the cache. Non-positive durations fall back to the defaults.
func New(expiration, cleanupInterval time.Duration) *TokenCache {
	if expiration <= 0 {
		expiration = DefaultExpiration
	}
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultCleanupInterval
	}
	return &TokenCache{
		cache:      gocache.New(expiration, cleanupInterval),
		expiration: expiration,
	}
}

// GetToken retrieves a token by id
func (c *TokenCache) GetToken(id string) (*storagemodels.Token, bool) {
	value, found := c.cache.Get(tokenPrefix + id)
	if !found {
		return nil, false
	}

	token, ok := value.(*storagemodels.Token)
	if !ok {
		log.Errorf("wrong type assertion when getting token %q", id)
		return nil, false
	}

	log.Debugf("cache hit token %q", id)
	return token.Clone(), true
}

// SetToken stores a token under its id
func (c *TokenCache) SetToken(token *storagemodels.Token) {
	if token == nil {
		return
	}
	c.cache.Set(tokenPrefix+token.TokenID, token.Clone(), c.expiration)
}

// GetMetadata retrieves the metadata of a token
func (c *TokenCache) GetMetadata(id string) (*storagemodels.TokenMetadata, bool) {
	value, found := c.cache.Get(metadataPrefix + id)
	if !found {
		return nil, false
	}

	md, ok := value.(*storagemodels.TokenMetadata)
	if !ok {
		log.Errorf("wrong type assertion when getting metadata %q", id)
		return nil, false
	}

	log.Debugf("cache hit metadata %q", id)
	return md.Clone(), true
}

// SetMetadata stores the metadata of a token
func (c *TokenCache) SetMetadata(id string, md *storagemodels.TokenMetadata) {
	if md == nil {
		return
	}
	c.cache.Set(metadataPrefix+id, md.Clone(), c.expiration)
}

// Token returns the cached token or loads and caches it. A nil result from
// load is not cached.
func (c *TokenCache) Token(ctx context.Context, id string, load func(ctx context.Context) (*storagemodels.Token, error)) (*storagemodels.Token, error) {
	if token, ok := c.GetToken(id); ok {
		return token, nil
	}

	token, err := load(ctx)
	if err != nil || token == nil {
		return token, err
	}

	c.SetToken(token)
	return token, nil
}

// Metadata returns the cached metadata or loads and caches it.
func (c *TokenCache) Metadata(ctx context.Context, id string, load func(ctx context.Context) (*storagemodels.TokenMetadata, error)) (*storagemodels.TokenMetadata, error) {
	if md, ok := c.GetMetadata(id); ok {
		return md, nil
	}

	md, err := load(ctx)
	if err != nil || md == nil {
		return md, err
	}

	c.SetMetadata(id, md)
	return md, nil
}

// Flush removes every entry
func (c *TokenCache) Flush() {
	c.cache.Flush()
}

// Len returns the number of cached entries, expired ones included
func (c *TokenCache) Len() int {
	return c.cache.ItemCount()
}
