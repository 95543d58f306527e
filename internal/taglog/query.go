package taglog

import (
	"context"
	"fmt"
	"math"
	"time"
)

// QueryOptions bounds a read over one tag index.
type QueryOptions struct {
	// Tag selects the index to scan. Empty means the universal tag.
	Tag string
	// Limit caps the result, most recent first. 0 means no limit.
	Limit int
	// MinTS/MaxTS bound the scan inclusively. Zero values mean unbounded.
	MinTS time.Time
	MaxTS time.Time
	// Attrs is an attribute filter of exactly one key/value pair,
	// translated to the derived tag "key:value". More than one pair is
	// ErrInvalidFilter. When set, it takes the place of Tag.
	Attrs map[string]any
	// Filter is an optional CEL expression evaluated per record after
	// hydration; see the package documentation for available variables.
	Filter string
}

func (l *Logger) resolveTag(opts QueryOptions) (string, error) {
	if len(opts.Attrs) > 1 {
		return "", ErrInvalidFilter
	}
	for k, v := range opts.Attrs {
		return derivedTag(k, v), nil
	}
	if opts.Tag == "" {
		return TagAll, nil
	}
	return opts.Tag, nil
}

// Query returns records in reverse time order. An empty or unknown tag index
// yields an empty result, never an error; ids whose record is already gone
// (for example expired mid-scan) are silently skipped.
func (l *Logger) Query(ctx context.Context, opts QueryOptions) ([]*Record, error) {
	tag, err := l.resolveTag(opts)
	if err != nil {
		return nil, err
	}

	min := math.Inf(-1)
	if !opts.MinTS.IsZero() {
		min = tsFloat(opts.MinTS.UTC())
	}
	max := math.Inf(1)
	if !opts.MaxTS.IsZero() {
		max = tsFloat(opts.MaxTS.UTC())
	}

	members, err := l.st.ZRevRangeByScore(ctx, l.keys.flow(tag), max, min, 0, opts.Limit)
	if err != nil {
		return nil, fmt.Errorf("taglog: scan %q: %w", tag, err)
	}
	if len(members) == 0 {
		return nil, nil
	}

	recKeys := make([]string, len(members))
	for i, m := range members {
		recKeys[i] = l.keys.msgMember(m)
	}
	vals, err := l.st.MGet(ctx, recKeys)
	if err != nil {
		return nil, fmt.Errorf("taglog: fetch records: %w", err)
	}

	flt, err := newCELFilter(opts.Filter)
	if err != nil {
		return nil, err
	}

	out := make([]*Record, 0, len(vals))
	for _, val := range vals {
		if val == nil {
			continue
		}
		rec, err := DecodeRecord(val)
		if err != nil {
			return nil, err
		}
		if !flt.Eval(rec, l.now()) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// GetLatest returns the most recent record for the options, or nil when the
// index is empty.
func (l *Logger) GetLatest(ctx context.Context, opts QueryOptions) (*Record, error) {
	opts.Limit = 1
	recs, err := l.Query(ctx, opts)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return recs[0], nil
}
