package taglog

import (
	"fmt"
	"sort"
	"strings"
)

// missingPlaceholder is rendered for template keys absent from the
// attributes, mirroring the text/template convention.
const missingPlaceholder = "<no value>"

// formatMessage renders a "{key}" template against attrs. Keys without an
// attribute render as a fixed placeholder; attributes the template never
// references are appended as trailing "key=value" annotations in key order.
func formatMessage(tmpl string, attrs map[string]any) string {
	var b strings.Builder
	used := map[string]bool{}

	for i := 0; i < len(tmpl); {
		if tmpl[i] == '{' {
			if j := strings.IndexByte(tmpl[i+1:], '}'); j >= 0 {
				name := tmpl[i+1 : i+1+j]
				if isAttrKey(name) {
					if v, ok := attrs[name]; ok {
						fmt.Fprintf(&b, "%v", v)
						used[name] = true
					} else {
						b.WriteString(missingPlaceholder)
					}
					i += j + 2
					continue
				}
			}
		}
		b.WriteByte(tmpl[i])
		i++
	}

	var unused []string
	for k := range attrs {
		if !used[k] {
			unused = append(unused, k)
		}
	}
	sort.Strings(unused)
	for _, k := range unused {
		fmt.Fprintf(&b, " %s=%v", k, attrs[k])
	}
	return b.String()
}

// isAttrKey reports whether s looks like an attribute key; anything else in
// braces is left untouched.
func isAttrKey(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return false
		}
	}
	return true
}
