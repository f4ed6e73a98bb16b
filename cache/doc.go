// Package cache provides a read-through cache for tokens and token metadata
// backed by patrickmn/go-cache. Owner token lists are never cached because
// another process sharing the backend can extend them.
package cache
