// Package taglog implements the tagged event-log engine.
//
// # Overview
//
// Records are JSON documents stored in a key/value engine under per-record
// keys, indexed into one time-ordered sorted set per tag:
//   - {prefix:}msg:{id}        record storage
//   - {prefix:}flow:{tag}      per-tag index (member=id, score=timestamp)
//   - {prefix:}flow:__all__    universal index, every record
//   - {prefix:}flow:__expire__ pending expiration (score=expiry timestamp)
//   - {prefix:}counter         id counter
//   - {prefix:}log-records     broadcast channel for live tailing
//
// API surface
//
//	l, _ := taglog.Open(taglog.Options{Store: db, Prefix: "app"})
//
//	// Write: tags, attributes and tagging attributes are marks.
//	_ = l.Log(ctx, "{user} is from {ip}", taglog.TA("user", "foo"), taglog.TA("ip", "127.0.0.1"))
//	_ = l.Log(ctx, "job done", taglog.Tag("jobs"), taglog.ExpireAfter(time.Hour))
//
//	// Read: reverse time order, optionally bounded and filtered.
//	recs, _ := l.Query(ctx, taglog.QueryOptions{Tag: "jobs", Limit: 10})
//	rec, _ := l.GetLatest(ctx, taglog.QueryOptions{Attrs: map[string]any{"user": "foo"}})
//
//	// Live tail.
//	tail, _ := l.Subscribe(ctx, taglog.SubscribeOptions{})
//	rec, err := tail.Next(ctx) // blocks; ErrClosed after Unsubscribe
//	_ = tail.Unsubscribe()
//
//	// Expiration sweep with optional archival.
//	n, _ := l.Expire(ctx, cutoff, archiveFn)
//
// Ambient tags and attributes live in a per-execution-unit Scope carried on
// the context; see Scope and WithScope.
//
// The write path is deliberately not transactional: a crash between the
// record write and the index fan-out can leave a record without full index
// coverage. Reads tolerate the converse (index entry without record) by
// skipping silently.
package taglog
