package taglog

import "strconv"

// Reserved tags.
const (
	// TagAll is the universal tag; every record is indexed under it.
	TagAll = "__all__"
	// tagExpire is the reserved pending-expiration index.
	tagExpire = "__expire__"
)

// keys builds store key names under an optional prefix, joined with ':'.
type keys struct {
	prefix string
}

func (k keys) join(name string) string {
	if k.prefix == "" {
		return name
	}
	return k.prefix + ":" + name
}

func (k keys) msg(id int64) string {
	return k.join("msg:" + strconv.FormatInt(id, 10))
}

// msgMember builds the record key from an index member (a decimal id).
func (k keys) msgMember(member string) string {
	return k.join("msg:" + member)
}

// memberOf is the index-member form of a record id.
func memberOf(id int64) string { return strconv.FormatInt(id, 10) }

func (k keys) msgPattern() string { return k.join("msg:*") }

func (k keys) flow(tag string) string { return k.join("flow:" + tag) }

func (k keys) flowPattern() string { return k.join("flow:*") }

func (k keys) counter() string { return k.join("counter") }

func (k keys) channel() string { return k.join("log-records") }
