package taglog

import (
	"fmt"
	"time"
)

type markKind int

const (
	markTag markKind = iota
	markAttr
	markTaggingAttr
	markAt
	markExpireAt
	markExpireAfter
)

// Mark annotates a log call. A mark is an explicit tag, an explicit
// attribute, a tagging attribute (stored as an attribute and materialized as
// a derived "key:value" tag), a timestamp override, or an expiry.
type Mark struct {
	kind  markKind
	name  string
	value any
	t     time.Time
	d     time.Duration
}

// Tag marks the record with an explicit tag.
func Tag(name string) Mark { return Mark{kind: markTag, name: name} }

// Attr attaches an attribute without deriving a tag.
func Attr(key string, value any) Mark { return Mark{kind: markAttr, name: key, value: value} }

// TA attaches a tagging attribute: the pair is stored under Attrs and the
// record is additionally indexed under the derived tag "key:value".
func TA(key string, value any) Mark { return Mark{kind: markTaggingAttr, name: key, value: value} }

// At overrides the record timestamp. The time is interpreted as UTC.
func At(ts time.Time) Mark { return Mark{kind: markAt, t: ts} }

// ExpireAt sets an absolute expiry time for the record.
func ExpireAt(t time.Time) Mark { return Mark{kind: markExpireAt, t: t} }

// ExpireAfter sets the expiry relative to the record timestamp.
func ExpireAfter(d time.Duration) Mark { return Mark{kind: markExpireAfter, d: d} }

// derivedTag is the index tag of a tagging attribute.
func derivedTag(key string, value any) string {
	return key + ":" + fmt.Sprintf("%v", value)
}

// draft accumulates the effective record fields while marks and ambient
// scope state are merged.
type draft struct {
	tags  []string
	attrs map[string]any

	ts    time.Time
	hasTS bool

	expireAt    time.Time
	hasExpireAt bool
	expireAfter time.Duration
	hasAfter    bool
}

func newDraft() *draft {
	return &draft{attrs: map[string]any{}}
}

func (d *draft) addTag(tag string) {
	for _, t := range d.tags {
		if t == tag {
			return
		}
	}
	d.tags = append(d.tags, tag)
}

func (d *draft) apply(m Mark) {
	switch m.kind {
	case markTag:
		d.addTag(m.name)
	case markAttr:
		d.attrs[m.name] = m.value
	case markTaggingAttr:
		d.attrs[m.name] = m.value
		d.addTag(derivedTag(m.name, m.value))
	case markAt:
		d.ts = m.t.UTC()
		d.hasTS = true
	case markExpireAt:
		d.expireAt = m.t.UTC()
		d.hasExpireAt = true
	case markExpireAfter:
		d.expireAfter = m.d
		d.hasAfter = true
	}
}

// resolve finalizes timestamp and expiry. A relative expiry is anchored at
// the record timestamp, not at wall clock.
func (d *draft) resolve(now time.Time) (ts time.Time, expire *time.Time) {
	ts = now
	if d.hasTS {
		ts = d.ts
	}
	ts = ts.UTC().Truncate(time.Microsecond)
	switch {
	case d.hasExpireAt:
		e := d.expireAt.Truncate(time.Microsecond)
		expire = &e
	case d.hasAfter:
		e := ts.Add(d.expireAfter)
		expire = &e
	}
	return ts, expire
}
