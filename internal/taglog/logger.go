package taglog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/trbck/tagged-logger/internal/store"
)

// ErrInvalidFilter is returned when an attribute filter carries more than
// one key/value pair.
var ErrInvalidFilter = errors.New("taglog: attribute filter must be a single key/value pair")

// ErrClosed is returned by Tail.Next after Unsubscribe.
var ErrClosed = errors.New("taglog: subscription closed")

// ArchiveFunc receives a record about to be removed by an expiration sweep.
// Returning an error aborts the sweep before any removal is committed.
type ArchiveFunc func(ctx context.Context, rec *Record) error

// Options configures a Logger.
type Options struct {
	// Store is the backing key/value engine. Required.
	Store store.Store
	// Prefix namespaces every key the engine writes.
	Prefix string
	// Archive is the default archival callback for expiration sweeps. A
	// callback passed to Expire directly takes precedence.
	Archive ArchiveFunc
	// Logger receives engine diagnostics. Defaults to a disabled logger.
	Logger zerolog.Logger
	// Now overrides the wall clock, for tests.
	Now func() time.Time
}

// Logger is the tagged event-log engine. It holds no mutable state beyond
// its store connection and configuration and is safe for concurrent use.
type Logger struct {
	st      store.Store
	keys    keys
	archive ArchiveFunc
	log     zerolog.Logger
	now     func() time.Time
}

// Open validates the options and returns a ready engine. There is no
// unconfigured state: a *Logger only exists once a store is attached.
func Open(opts Options) (*Logger, error) {
	if opts.Store == nil {
		return nil, errors.New("taglog: Options.Store is required")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Logger{
		st:      opts.Store,
		keys:    keys{prefix: opts.Prefix},
		archive: opts.Archive,
		log:     opts.Logger,
		now:     now,
	}, nil
}

// Log writes one record. Ambient scope state from ctx is merged first, then
// the call-site marks, so call-site values win on key collisions.
//
// The steps (counter increment, record write, index fan-out, publish) are
// not one transaction; a crash mid-way can leave a record with partial index
// coverage. Reads tolerate the resulting gaps.
func (l *Logger) Log(ctx context.Context, message any, marks ...Mark) error {
	d := newDraft()
	if s := ScopeFrom(ctx); s != nil {
		for _, tag := range s.tags {
			d.addTag(tag)
		}
		for k, v := range s.attrs {
			d.attrs[k] = v
		}
	}
	for _, m := range marks {
		d.apply(m)
	}
	ts, expire := d.resolve(l.now())

	id, err := l.st.Incr(ctx, l.keys.counter())
	if err != nil {
		return fmt.Errorf("taglog: assign id: %w", err)
	}

	rec := &Record{ID: id, TS: ts, Message: message, Tags: d.tags, Expire: expire}
	if len(d.attrs) > 0 {
		rec.Attrs = d.attrs
	}
	encoded, err := EncodeRecord(rec)
	if err != nil {
		return err
	}

	if err := l.st.Set(ctx, l.keys.msg(id), encoded); err != nil {
		return fmt.Errorf("taglog: store record %d: %w", id, err)
	}

	member := memberOf(id)
	score := tsFloat(ts)
	if err := l.st.ZAdd(ctx, l.keys.flow(TagAll), member, score); err != nil {
		return fmt.Errorf("taglog: index record %d: %w", id, err)
	}
	for _, tag := range rec.Tags {
		if err := l.st.ZAdd(ctx, l.keys.flow(tag), member, score); err != nil {
			return fmt.Errorf("taglog: index record %d under %q: %w", id, tag, err)
		}
	}
	if expire != nil {
		if err := l.st.ZAdd(ctx, l.keys.flow(tagExpire), member, tsFloat(*expire)); err != nil {
			return fmt.Errorf("taglog: schedule expiry of record %d: %w", id, err)
		}
	}

	if err := l.st.Publish(ctx, l.keys.channel(), encoded); err != nil {
		return fmt.Errorf("taglog: publish record %d: %w", id, err)
	}

	l.log.Debug().Int64("id", id).Int("tags", len(rec.Tags)).Msg("record written")
	return nil
}
