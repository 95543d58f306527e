package pebblestore

import "encoding/binary"

// Keyspace helpers. Set names are length-prefixed so that names containing
// the separator cannot collide with each other's ranges.

var (
	kvPrefix  = []byte("kv/")
	ctrPrefix = []byte("ctr/")
	zsPrefix  = []byte("zs/")
	zrPrefix  = []byte("zr/")
	scoreSeg  = []byte("/s/")
	memberSeg = []byte("/m/")
)

func kvKey(key string) []byte {
	k := make([]byte, 0, len(kvPrefix)+len(key))
	k = append(k, kvPrefix...)
	k = append(k, key...)
	return k
}

func ctrKey(key string) []byte {
	k := make([]byte, 0, len(ctrPrefix)+len(key))
	k = append(k, ctrPrefix...)
	k = append(k, key...)
	return k
}

func zrKey(set string) []byte {
	k := make([]byte, 0, len(zrPrefix)+len(set))
	k = append(k, zrPrefix...)
	k = append(k, set...)
	return k
}

// zsetBase builds "zs/{len_be2}{set}".
func zsetBase(set string) []byte {
	k := make([]byte, 0, len(zsPrefix)+2+len(set)+16)
	k = append(k, zsPrefix...)
	var l [2]byte
	binary.BigEndian.PutUint16(l[:], uint16(len(set)))
	k = append(k, l[:]...)
	k = append(k, set...)
	return k
}

// scorePrefix builds the prefix of all score-ordered entries of a set.
func scorePrefix(set string) []byte {
	return append(zsetBase(set), scoreSeg...)
}

// scoreKey builds the score-ordered entry key for one member.
func scoreKey(set string, score float64, member string) []byte {
	k := scorePrefix(set)
	var s [8]byte
	binary.BigEndian.PutUint64(s[:], encodeScore(score))
	k = append(k, s[:]...)
	k = append(k, member...)
	return k
}

// memberKey builds the member -> score lookup key.
func memberKey(set, member string) []byte {
	k := append(zsetBase(set), memberSeg...)
	k = append(k, member...)
	return k
}

// prefixEnd returns the smallest key greater than every key with the given
// prefix, for use as an exclusive iterator upper bound.
func prefixEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil // prefix is all 0xff; no upper bound
}
