package taglog

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Record is one immutable logged event.
type Record struct {
	// ID is unique and strictly increasing per engine.
	ID int64
	// TS is the record timestamp in UTC, microsecond precision.
	TS time.Time
	// Message is either a string (possibly a template over Attrs, see
	// Format) or a structured string-keyed value.
	Message any
	// Attrs are the merged attributes of the record.
	Attrs map[string]any
	// Tags are the merged tags, deduplicated, insertion order preserved.
	Tags []string
	// Expire is the absolute expiry time, nil when the record never expires.
	Expire *time.Time
}

// HasTag reports whether the record carries the tag.
func (r *Record) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// String renders the message: templates are formatted against Attrs, any
// other message is compact JSON.
func (r *Record) String() string {
	if s, ok := r.Message.(string); ok {
		return formatMessage(s, r.Attrs)
	}
	b, err := json.Marshal(r.Message)
	if err != nil {
		return fmt.Sprintf("%v", r.Message)
	}
	return string(b)
}

// wireRecord is the self-describing stored form. Timestamps travel as
// floating-point seconds since epoch (UTC).
type wireRecord struct {
	ID      int64          `json:"id"`
	TS      float64        `json:"ts"`
	Message any            `json:"message"`
	Attrs   map[string]any `json:"attrs,omitempty"`
	Tags    []string       `json:"tags,omitempty"`
	Expire  *float64       `json:"expire"`
}

// tsFloat converts a time to float seconds, microsecond precision.
func tsFloat(t time.Time) float64 {
	return float64(t.UnixMicro()) / 1e6
}

// timeFromFloat converts float seconds back to a UTC time.
func timeFromFloat(f float64) time.Time {
	return time.UnixMicro(int64(math.Round(f * 1e6))).UTC()
}

// EncodeRecord serializes a record to its wire form.
func EncodeRecord(r *Record) ([]byte, error) {
	w := wireRecord{
		ID:      r.ID,
		TS:      tsFloat(r.TS),
		Message: r.Message,
		Attrs:   r.Attrs,
		Tags:    r.Tags,
	}
	if r.Expire != nil {
		e := tsFloat(*r.Expire)
		w.Expire = &e
	}
	b, err := json.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("taglog: encode record %d: %w", r.ID, err)
	}
	return b, nil
}

// DecodeRecord parses a stored record.
func DecodeRecord(data []byte) (*Record, error) {
	var w wireRecord
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("taglog: decode record: %w", err)
	}
	r := &Record{
		ID:      w.ID,
		TS:      timeFromFloat(w.TS),
		Message: w.Message,
		Attrs:   w.Attrs,
		Tags:    w.Tags,
	}
	if w.Expire != nil {
		e := timeFromFloat(*w.Expire)
		r.Expire = &e
	}
	return r, nil
}
