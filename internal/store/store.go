// Package store defines the key/value boundary the tagged-logger engine is
// written against: atomic counters, string values, sorted sets with
// range-by-score queries, pattern deletion, and publish/subscribe channels.
//
// The engine never talks to a concrete database directly; it holds a Store.
// The production implementation lives in internal/store/pebble.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when a key has no value.
var ErrNotFound = errors.New("store: key not found")

// ErrClosed is returned by subscription receives after Close.
var ErrClosed = errors.New("store: subscription closed")

// MessageKind distinguishes data messages from protocol control
// acknowledgements on a subscription.
type MessageKind int

const (
	KindData MessageKind = iota
	KindSubscribe
	KindUnsubscribe
)

// Message is a single delivery on a subscribed channel.
type Message struct {
	Kind    MessageKind
	Channel string
	Payload []byte
}

// Subscription is a handle bound to one channel. Receive blocks until a
// message arrives, the context is cancelled, or the subscription is closed
// from another goroutine.
type Subscription interface {
	Receive(ctx context.Context) (Message, error)
	Close() error
}

// Batch stages deletions and sorted-set removals for a single atomic commit.
type Batch interface {
	Del(keys ...string)
	ZRem(set string, members ...string)
	ZRemRangeByScore(set string, min, max float64)

	Commit(ctx context.Context) error
	Close() error
}

// Store is the backing key/value engine.
//
// Sorted sets keep one score per member; re-adding a member replaces its
// score. Range queries are inclusive on both bounds. Del and DelPattern
// remove keys of any kind (value, counter, or whole sorted set), matching
// the semantics of a flat keyspace.
type Store interface {
	// Incr atomically increments the named counter and returns the new value.
	// A missing counter starts at zero.
	Incr(ctx context.Context, key string) (int64, error)

	Set(ctx context.Context, key string, value []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	// MGet returns one slot per requested key; missing keys yield nil slots.
	MGet(ctx context.Context, keys []string) ([][]byte, error)

	Del(ctx context.Context, keys ...string) error
	// DelPattern deletes every key matching a glob pattern ('*' and '?')
	// and returns the number of keys removed.
	DelPattern(ctx context.Context, pattern string) (int, error)

	ZAdd(ctx context.Context, set, member string, score float64) error
	// ZRevRangeByScore returns members with min <= score <= max in descending
	// score order, skipping offset members. count <= 0 means no limit.
	ZRevRangeByScore(ctx context.Context, set string, max, min float64, offset, count int) ([]string, error)
	ZRem(ctx context.Context, set string, members ...string) error
	ZRemRangeByScore(ctx context.Context, set string, min, max float64) error

	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) (Subscription, error)

	NewBatch() Batch
	Close() error
}
