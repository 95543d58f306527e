package pebblestore

import (
	"context"
	"encoding/binary"
	"math"

	"github.com/cockroachdb/pebble"
)

// encodeScore maps a float64 onto a uint64 whose big-endian byte order equals
// the numeric order of the input, including negative values and infinities.
func encodeScore(f float64) uint64 {
	b := math.Float64bits(f)
	if b>>63 == 1 {
		return ^b
	}
	return b | 1<<63
}

func decodeScore(u uint64) float64 {
	if u>>63 == 1 {
		return math.Float64frombits(u &^ (1 << 63))
	}
	return math.Float64frombits(^u)
}

// ZAdd inserts member with the given score, replacing a previous score.
func (db *DB) ZAdd(ctx context.Context, set, member string, score float64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	b := db.inner.NewBatch()
	defer b.Close()

	mk := memberKey(set, member)
	if old, ok, err := db.getScore(mk); err != nil {
		return err
	} else if ok && old != score {
		if err := b.Delete(scoreKey(set, old, member), nil); err != nil {
			return err
		}
	}

	var sv [8]byte
	binary.BigEndian.PutUint64(sv[:], math.Float64bits(score))
	if err := b.Set(mk, sv[:], nil); err != nil {
		return err
	}
	if err := b.Set(scoreKey(set, score, member), nil, nil); err != nil {
		return err
	}
	if err := b.Set(zrKey(set), nil, nil); err != nil {
		return err
	}
	return db.commit(ctx, b)
}

func (db *DB) getScore(mk []byte) (float64, bool, error) {
	val, closer, err := db.inner.Get(mk)
	if err == pebble.ErrNotFound {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	defer closer.Close()
	if len(val) < 8 {
		return 0, false, nil
	}
	return math.Float64frombits(binary.BigEndian.Uint64(val[:8])), true, nil
}

// scoreRangeBounds returns iterator bounds covering min <= score <= max.
func scoreRangeBounds(set string, min, max float64) (lo, hi []byte) {
	prefix := scorePrefix(set)
	lo = make([]byte, 0, len(prefix)+8)
	lo = append(lo, prefix...)
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], encodeScore(min))
	lo = append(lo, b[:]...)

	encMax := encodeScore(max)
	if encMax == math.MaxUint64 {
		hi = prefixEnd(prefix)
		return lo, hi
	}
	hi = make([]byte, 0, len(prefix)+8)
	hi = append(hi, prefix...)
	binary.BigEndian.PutUint64(b[:], encMax+1)
	hi = append(hi, b[:]...)
	return lo, hi
}

// ZRevRangeByScore scans descending from max to min.
func (db *DB) ZRevRangeByScore(ctx context.Context, set string, max, min float64, offset, count int) ([]string, error) {
	prefix := scorePrefix(set)
	lo, hi := scoreRangeBounds(set, min, max)
	iter, err := db.inner.NewIter(&pebble.IterOptions{LowerBound: lo, UpperBound: hi})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var members []string
	skipped := 0
	for ok := iter.Last(); ok; ok = iter.Prev() {
		if count > 0 && len(members) >= count {
			break
		}
		key := iter.Key()
		if len(key) < len(prefix)+8 {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		members = append(members, string(key[len(prefix)+8:]))
	}
	return members, iter.Error()
}

// ZRem removes the given members if present.
func (db *DB) ZRem(ctx context.Context, set string, members ...string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	b := db.inner.NewBatch()
	defer b.Close()
	if err := db.stageZRem(b, set, members); err != nil {
		return err
	}
	return db.commit(ctx, b)
}

func (db *DB) stageZRem(b *pebble.Batch, set string, members []string) error {
	for _, m := range members {
		mk := memberKey(set, m)
		score, ok, err := db.getScore(mk)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if err := b.Delete(scoreKey(set, score, m), nil); err != nil {
			return err
		}
		if err := b.Delete(mk, nil); err != nil {
			return err
		}
	}
	return nil
}

// ZRemRangeByScore removes every member with min <= score <= max.
func (db *DB) ZRemRangeByScore(ctx context.Context, set string, min, max float64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	b := db.inner.NewBatch()
	defer b.Close()
	if err := db.stageZRemRange(b, set, min, max); err != nil {
		return err
	}
	return db.commit(ctx, b)
}

func (db *DB) stageZRemRange(b *pebble.Batch, set string, min, max float64) error {
	prefix := scorePrefix(set)
	lo, hi := scoreRangeBounds(set, min, max)
	iter, err := db.inner.NewIter(&pebble.IterOptions{LowerBound: lo, UpperBound: hi})
	if err != nil {
		return err
	}
	defer iter.Close()

	for ok := iter.First(); ok; ok = iter.Next() {
		key := iter.Key()
		if len(key) < len(prefix)+8 {
			continue
		}
		member := string(key[len(prefix)+8:])
		if err := b.Delete(append([]byte(nil), key...), nil); err != nil {
			return err
		}
		if err := b.Delete(memberKey(set, member), nil); err != nil {
			return err
		}
	}
	return iter.Error()
}

// stageZSetDrop deletes a whole sorted set, registry entry included.
func stageZSetDrop(b *pebble.Batch, set string) error {
	base := zsetBase(set)
	if err := b.DeleteRange(base, prefixEnd(base), nil); err != nil {
		return err
	}
	return b.Delete(zrKey(set), nil)
}
