// Package pebblestore implements the store boundary on top of Pebble with a
// configurable fsync policy.
//
// The flat keyspace of the boundary is mapped onto byte-prefixed, lexically
// sortable Pebble keys:
//   - kv/{key}                         plain string values
//   - ctr/{key}                        counters (8-byte big-endian)
//   - zs/{len_be2}{set}/s/{score_be8}{member}   sorted-set score order
//   - zs/{len_be2}{set}/m/{member}              member -> score lookups
//   - zr/{set}                         sorted-set registry (for pattern deletes)
//
// Scores are float64 values encoded so that byte order equals numeric order,
// which lets range-by-score queries run as plain iterator scans.
//
// Publish/subscribe is an in-process broker per DB handle: subscribers get a
// buffered channel, receive a subscribe acknowledgement first, and an
// unsubscribe acknowledgement when closed.
package pebblestore
