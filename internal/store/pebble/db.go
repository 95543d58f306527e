package pebblestore

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"sync"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/rs/zerolog"

	"github.com/trbck/tagged-logger/internal/store"
)

// FsyncMode defines durability behavior for write operations.
type FsyncMode int

const (
	FsyncModeUnspecified FsyncMode = iota
	// FsyncModeAlways requests a WAL fsync on each committed batch/write.
	FsyncModeAlways
	// FsyncModeInterval enables group-commit by allowing Pebble to coalesce
	// WAL syncs for operations within the configured interval.
	FsyncModeInterval
	// FsyncModeNever avoids forcing WAL syncs from the application. Pebble
	// may still sync based on its own policies.
	FsyncModeNever
)

// Options configures the Pebble-backed store.
type Options struct {
	// DataDir is the path to the Pebble database directory.
	DataDir string
	// Fsync determines when to sync the WAL.
	Fsync FsyncMode
	// FsyncInterval controls group-commit when Fsync=FsyncModeInterval.
	FsyncInterval time.Duration
	// PebbleOptions allows advanced tuning of Pebble. If nil, sensible
	// defaults are used.
	PebbleOptions *pebble.Options
	// Logger receives Pebble's internal diagnostics. Defaults to a
	// disabled logger.
	Logger zerolog.Logger
}

// pebbleLogger adapts zerolog to Pebble's logging interface.
type pebbleLogger struct {
	log zerolog.Logger
}

func (l pebbleLogger) Infof(format string, args ...interface{}) {
	l.log.Debug().Msgf(format, args...)
}

func (l pebbleLogger) Errorf(format string, args ...interface{}) {
	l.log.Error().Msgf(format, args...)
}

func (l pebbleLogger) Fatalf(format string, args ...interface{}) {
	l.log.Fatal().Msgf(format, args...)
}

// DB implements store.Store on a Pebble database.
type DB struct {
	inner     *pebble.DB
	writeSync bool

	// mu serializes read-modify-write sequences (counters, sorted-set
	// score replacement) that Pebble alone does not make atomic.
	mu sync.Mutex

	broker *broker
}

var _ store.Store = (*DB)(nil)

// Open creates or opens a Pebble-backed store with the provided options.
func Open(opts Options) (*DB, error) {
	if opts.DataDir == "" {
		return nil, errors.New("pebblestore: Options.DataDir is required")
	}

	po := opts.PebbleOptions
	if po == nil {
		po = &pebble.Options{}
	}
	if po.Logger == nil {
		po.Logger = pebbleLogger{log: opts.Logger}
	}
	switch opts.Fsync {
	case FsyncModeAlways:
		// Sync on each commit; WALMinSyncInterval left at default.
	case FsyncModeInterval:
		if opts.FsyncInterval <= 0 {
			opts.FsyncInterval = 5 * time.Millisecond
		}
		po.WALMinSyncInterval = func() time.Duration { return opts.FsyncInterval }
	case FsyncModeNever:
	default:
		po.WALMinSyncInterval = func() time.Duration { return 5 * time.Millisecond }
	}

	inner, err := pebble.Open(opts.DataDir, po)
	if err != nil {
		return nil, err
	}
	return &DB{
		inner:     inner,
		writeSync: opts.Fsync == FsyncModeAlways,
		broker:    newBroker(),
	}, nil
}

// Close closes the database and terminates all subscriptions.
func (db *DB) Close() error {
	if db == nil || db.inner == nil {
		return nil
	}
	db.broker.closeAll()
	return db.inner.Close()
}

func (db *DB) commit(_ context.Context, b *pebble.Batch) error {
	syncMode := pebble.NoSync
	if db.writeSync {
		syncMode = pebble.Sync
	}
	return b.Commit(syncMode)
}

// Incr atomically increments the named counter and returns the new value.
func (db *DB) Incr(ctx context.Context, key string) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	k := ctrKey(key)
	var cur int64
	val, closer, err := db.inner.Get(k)
	switch {
	case err == pebble.ErrNotFound:
	case err != nil:
		return 0, err
	default:
		if len(val) >= 8 {
			cur = int64(binary.BigEndian.Uint64(val[:8]))
		}
		closer.Close()
	}
	cur++

	b := db.inner.NewBatch()
	defer b.Close()
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(cur))
	if err := b.Set(k, buf[:], nil); err != nil {
		return 0, err
	}
	if err := db.commit(ctx, b); err != nil {
		return 0, err
	}
	return cur, nil
}

// Set stores a value under key.
func (db *DB) Set(ctx context.Context, key string, value []byte) error {
	b := db.inner.NewBatch()
	defer b.Close()
	if err := b.Set(kvKey(key), value, nil); err != nil {
		return err
	}
	return db.commit(ctx, b)
}

// Get copies the value stored under key.
func (db *DB) Get(ctx context.Context, key string) ([]byte, error) {
	val, closer, err := db.inner.Get(kvKey(key))
	if err == pebble.ErrNotFound {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	return append([]byte(nil), val...), nil
}

// MGet returns one slot per key; missing keys yield nil slots.
func (db *DB) MGet(ctx context.Context, keys []string) ([][]byte, error) {
	out := make([][]byte, len(keys))
	for i, key := range keys {
		val, err := db.Get(ctx, key)
		if err == store.ErrNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		out[i] = val
	}
	return out, nil
}

// Del removes the named keys regardless of their kind.
func (db *DB) Del(ctx context.Context, keys ...string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	b := db.inner.NewBatch()
	defer b.Close()
	for _, key := range keys {
		if err := stageDelAnyKind(b, key); err != nil {
			return err
		}
	}
	return db.commit(ctx, b)
}

func stageDelAnyKind(b *pebble.Batch, key string) error {
	if err := b.Delete(kvKey(key), nil); err != nil {
		return err
	}
	if err := b.Delete(ctrKey(key), nil); err != nil {
		return err
	}
	return stageZSetDrop(b, key)
}

// DelPattern removes every key matching the glob pattern and reports how
// many were found. Values, counters, and sorted sets are all enumerated.
func (db *DB) DelPattern(ctx context.Context, pattern string) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	b := db.inner.NewBatch()
	defer b.Close()

	matched := 0
	for _, space := range [][]byte{kvPrefix, ctrPrefix, zrPrefix} {
		names, err := db.scanNames(space, pattern)
		if err != nil {
			return 0, err
		}
		for _, name := range names {
			matched++
			if bytes.Equal(space, zrPrefix) {
				if err := stageZSetDrop(b, name); err != nil {
					return 0, err
				}
				continue
			}
			k := make([]byte, 0, len(space)+len(name))
			k = append(k, space...)
			k = append(k, name...)
			if err := b.Delete(k, nil); err != nil {
				return 0, err
			}
		}
	}
	if matched == 0 {
		return 0, nil
	}
	return matched, db.commit(ctx, b)
}

// scanNames collects key names under a keyspace prefix that match pattern.
func (db *DB) scanNames(space []byte, pattern string) ([]string, error) {
	iter, err := db.inner.NewIter(&pebble.IterOptions{LowerBound: space, UpperBound: prefixEnd(space)})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var names []string
	for ok := iter.First(); ok; ok = iter.Next() {
		name := string(iter.Key()[len(space):])
		if globMatch(pattern, name) {
			names = append(names, name)
		}
	}
	return names, iter.Error()
}

// globMatch implements '*' (any run) and '?' (any single byte) matching.
func globMatch(pattern, s string) bool {
	for len(pattern) > 0 {
		switch pattern[0] {
		case '*':
			for len(pattern) > 0 && pattern[0] == '*' {
				pattern = pattern[1:]
			}
			if pattern == "" {
				return true
			}
			for i := 0; i <= len(s); i++ {
				if globMatch(pattern, s[i:]) {
					return true
				}
			}
			return false
		case '?':
			if s == "" {
				return false
			}
		default:
			if s == "" || s[0] != pattern[0] {
				return false
			}
		}
		pattern = pattern[1:]
		s = s[1:]
	}
	return s == ""
}

// batch implements store.Batch over a Pebble batch. Removals are staged
// against the database state at staging time and committed atomically.
type batch struct {
	db *DB
	b  *pebble.Batch
}

// NewBatch creates a batch for a single atomic multi-key removal.
func (db *DB) NewBatch() store.Batch {
	return &batch{db: db, b: db.inner.NewBatch()}
}

func (bt *batch) Del(keys ...string) {
	for _, key := range keys {
		_ = stageDelAnyKind(bt.b, key)
	}
}

func (bt *batch) ZRem(set string, members ...string) {
	_ = bt.db.stageZRem(bt.b, set, members)
}

func (bt *batch) ZRemRangeByScore(set string, min, max float64) {
	_ = bt.db.stageZRemRange(bt.b, set, min, max)
}

func (bt *batch) Commit(ctx context.Context) error {
	bt.db.mu.Lock()
	defer bt.db.mu.Unlock()
	return bt.db.commit(ctx, bt.b)
}

func (bt *batch) Close() error { return bt.b.Close() }
