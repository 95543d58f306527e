package taglog

import "context"

// Scope holds the ambient tags and attributes of one execution unit. Every
// record logged with a context carrying the scope inherits its state.
//
// A Scope is not safe for concurrent use; each goroutine (or logical task)
// owns its own and threads it through its context.
type Scope struct {
	tags  []string
	attrs map[string]any
}

// NewScope returns an empty scope.
func NewScope() *Scope {
	return &Scope{attrs: map[string]any{}}
}

// AddTags appends tags to the scope, suppressing duplicates.
func (s *Scope) AddTags(tags ...string) {
	for _, tag := range tags {
		if !s.hasTag(tag) {
			s.tags = append(s.tags, tag)
		}
	}
}

// RmTags removes tags from the scope.
func (s *Scope) RmTags(tags ...string) {
	for _, tag := range tags {
		for i, t := range s.tags {
			if t == tag {
				s.tags = append(s.tags[:i], s.tags[i+1:]...)
				break
			}
		}
	}
}

// AddAttrs merges attributes into the scope.
func (s *Scope) AddAttrs(attrs map[string]any) {
	for k, v := range attrs {
		s.attrs[k] = v
	}
}

// RmAttrs removes attribute keys from the scope.
func (s *Scope) RmAttrs(keys ...string) {
	for _, k := range keys {
		delete(s.attrs, k)
	}
}

// AddMarks applies tag, attribute, and tagging-attribute marks to the scope
// in place. Timestamp and expiry marks are meaningless here and ignored.
func (s *Scope) AddMarks(marks ...Mark) {
	for _, m := range marks {
		switch m.kind {
		case markTag:
			s.AddTags(m.name)
		case markAttr:
			s.attrs[m.name] = m.value
		case markTaggingAttr:
			s.attrs[m.name] = m.value
			s.AddTags(derivedTag(m.name, m.value))
		}
	}
}

// RmMarks undoes AddMarks for the given marks.
func (s *Scope) RmMarks(marks ...Mark) {
	for _, m := range marks {
		switch m.kind {
		case markTag:
			s.RmTags(m.name)
		case markAttr:
			delete(s.attrs, m.name)
		case markTaggingAttr:
			delete(s.attrs, m.name)
			s.RmTags(derivedTag(m.name, m.value))
		}
	}
}

// Reset clears all tags and attributes.
func (s *Scope) Reset() {
	s.tags = nil
	s.attrs = map[string]any{}
}

// Enter applies marks for a nested scope and returns a restore function that
// reinstates the exact prior state. Callers defer it so the state is
// restored on every exit path, panics included:
//
//	restore := scope.Enter(taglog.TA("user", "foo"))
//	defer restore()
func (s *Scope) Enter(marks ...Mark) (restore func()) {
	prevTags := append([]string(nil), s.tags...)
	prevAttrs := make(map[string]any, len(s.attrs))
	for k, v := range s.attrs {
		prevAttrs[k] = v
	}
	s.AddMarks(marks...)
	return func() {
		s.tags = prevTags
		s.attrs = prevAttrs
	}
}

// Tags returns a copy of the active tags.
func (s *Scope) Tags() []string { return append([]string(nil), s.tags...) }

// Attrs returns a copy of the active attributes.
func (s *Scope) Attrs() map[string]any {
	out := make(map[string]any, len(s.attrs))
	for k, v := range s.attrs {
		out[k] = v
	}
	return out
}

func (s *Scope) hasTag(tag string) bool {
	for _, t := range s.tags {
		if t == tag {
			return true
		}
	}
	return false
}

type scopeCtxKey struct{}

// WithScope attaches a scope to the context.
func WithScope(ctx context.Context, s *Scope) context.Context {
	return context.WithValue(ctx, scopeCtxKey{}, s)
}

// ScopeFrom returns the scope carried by the context, or nil.
func ScopeFrom(ctx context.Context) *Scope {
	s, _ := ctx.Value(scopeCtxKey{}).(*Scope)
	return s
}
