package taglog

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Expire removes every record whose expiry is at or before cutoff and
// returns the number of records removed. A zero cutoff means now.
//
// When an archive callback applies (the argument wins over the configured
// default), it runs once per record before anything is removed. An archival
// error aborts the sweep with no removal committed, so the failed record and
// everything after it stay indexed and are picked up by the next sweep.
func (l *Logger) Expire(ctx context.Context, cutoff time.Time, archive ArchiveFunc) (int, error) {
	if cutoff.IsZero() {
		cutoff = l.now()
	}
	cut := tsFloat(cutoff.UTC())

	members, err := l.st.ZRevRangeByScore(ctx, l.keys.flow(tagExpire), cut, math.Inf(-1), 0, 0)
	if err != nil {
		return 0, fmt.Errorf("taglog: scan pending expirations: %w", err)
	}
	if len(members) == 0 {
		return 0, nil
	}

	recKeys := make([]string, len(members))
	for i, m := range members {
		recKeys[i] = l.keys.msgMember(m)
	}
	vals, err := l.st.MGet(ctx, recKeys)
	if err != nil {
		return 0, fmt.Errorf("taglog: fetch expiring records: %w", err)
	}

	fn := archive
	if fn == nil {
		fn = l.archive
	}

	b := l.st.NewBatch()
	defer b.Close()

	count := 0
	for i, member := range members {
		if vals[i] == nil {
			// Record already gone; still drop its stale index entry.
			b.ZRem(l.keys.flow(TagAll), member)
			continue
		}
		rec, err := DecodeRecord(vals[i])
		if err != nil {
			return 0, err
		}
		if fn != nil {
			if err := fn(ctx, rec); err != nil {
				return 0, fmt.Errorf("taglog: archive record %d: %w", rec.ID, err)
			}
		}
		b.Del(recKeys[i])
		b.ZRem(l.keys.flow(TagAll), member)
		for _, tag := range rec.Tags {
			b.ZRem(l.keys.flow(tag), member)
		}
		count++
	}
	b.ZRemRangeByScore(l.keys.flow(tagExpire), math.Inf(-1), cut)

	if err := b.Commit(ctx); err != nil {
		return 0, fmt.Errorf("taglog: commit expiration sweep: %w", err)
	}
	l.log.Debug().Int("removed", count).Time("cutoff", cutoff).Msg("expiration sweep")
	return count, nil
}

// FullCleanup deletes every record, every tag index, and the id counter
// under the engine's prefix. Intended for test isolation and full resets.
func (l *Logger) FullCleanup(ctx context.Context) error {
	for _, pattern := range []string{l.keys.msgPattern(), l.keys.flowPattern()} {
		if _, err := l.st.DelPattern(ctx, pattern); err != nil {
			return fmt.Errorf("taglog: cleanup %q: %w", pattern, err)
		}
	}
	if err := l.st.Del(ctx, l.keys.counter()); err != nil {
		return fmt.Errorf("taglog: cleanup counter: %w", err)
	}
	return nil
}
