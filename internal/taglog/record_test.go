package taglog

import (
	"testing"
	"time"
)

func TestRecordRoundTrip(t *testing.T) {
	ts := time.Date(2012, 1, 1, 0, 0, 0, 250000*1000, time.UTC)
	expire := ts.Add(time.Second)
	rec := &Record{
		ID:      42,
		TS:      ts,
		Message: "{user} is from {ip}",
		Attrs:   map[string]any{"user": "foo", "ip": "127.0.0.1"},
		Tags:    []string{"user:foo", "ip:127.0.0.1"},
		Expire:  &expire,
	}
	data, err := EncodeRecord(rec)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeRecord(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != rec.ID {
		t.Fatalf("id: want %d got %d", rec.ID, got.ID)
	}
	if !got.TS.Equal(rec.TS) {
		t.Fatalf("ts: want %v got %v", rec.TS, got.TS)
	}
	if got.Message != rec.Message {
		t.Fatalf("message: want %v got %v", rec.Message, got.Message)
	}
	if len(got.Attrs) != 2 || got.Attrs["user"] != "foo" || got.Attrs["ip"] != "127.0.0.1" {
		t.Fatalf("attrs: %v", got.Attrs)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "user:foo" || got.Tags[1] != "ip:127.0.0.1" {
		t.Fatalf("tags: %v", got.Tags)
	}
	if got.Expire == nil || !got.Expire.Equal(expire) {
		t.Fatalf("expire: %v", got.Expire)
	}
}

func TestRecordRoundTripNoExpire(t *testing.T) {
	rec := &Record{ID: 1, TS: time.Unix(1325376000, 0).UTC(), Message: "foo"}
	data, err := EncodeRecord(rec)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeRecord(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Expire != nil {
		t.Fatalf("expire should stay nil, got %v", got.Expire)
	}
	if got.Attrs != nil || got.Tags != nil {
		t.Fatalf("empty attrs/tags should stay nil")
	}
}

func TestRecordRoundTripStructuredMessage(t *testing.T) {
	rec := &Record{ID: 7, TS: time.Unix(1, 0).UTC(), Message: map[string]any{"foo": "bar"}}
	data, err := EncodeRecord(rec)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeRecord(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	m, ok := got.Message.(map[string]any)
	if !ok || m["foo"] != "bar" {
		t.Fatalf("structured message lost: %v", got.Message)
	}
	if got.String() != `{"foo":"bar"}` {
		t.Fatalf("structured String: %q", got.String())
	}
}

func TestTimeFloatConversion(t *testing.T) {
	ts := time.Date(2012, 1, 2, 3, 4, 5, 678901*1000, time.UTC)
	if got := timeFromFloat(tsFloat(ts)); !got.Equal(ts) {
		t.Fatalf("conversion drift: %v vs %v", ts, got)
	}
}
