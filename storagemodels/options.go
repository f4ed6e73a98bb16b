/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import "time"

// QueryOptions configures paging and retry behaviour of remote backends
type QueryOptions struct {
	PageSize     int32         // Items per page when listing an owner's tokens (default: 100)
	MaxRetries   int           // Retry attempts for throttling and write conflicts (default: 3)
	RetryBackoff time.Duration // Backoff between retries, multiplied by the attempt (default: 1s)
}

// QueryOption is a functional option for configuring queries
type QueryOption func(*QueryOptions)

// DefaultQueryOptions returns default query options
func DefaultQueryOptions() QueryOptions {
	return QueryOptions{
		PageSize:     100,
		MaxRetries:   3,
		RetryBackoff: time.Second,
	}
}

// WithPageSize sets the page size
func WithPageSize(size int32) QueryOption {
	return func(opts *QueryOptions) {
		opts.PageSize = size
	}
}

// WithMaxRetries sets the maximum retry attempts
func WithMaxRetries(retries int) QueryOption {
	return func(opts *QueryOptions) {
		opts.MaxRetries = retries
	}
}

// WithRetryBackoff sets the retry backoff duration
func WithRetryBackoff(backoff time.Duration) QueryOption {
	return func(opts *QueryOptions) {
		opts.RetryBackoff = backoff
	}
}
