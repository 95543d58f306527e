package taglog

import "testing"

func TestFormatMessage(t *testing.T) {
	cases := []struct {
		name  string
		tmpl  string
		attrs map[string]any
		want  string
	}{
		{
			name:  "plain text",
			tmpl:  "hello",
			attrs: nil,
			want:  "hello",
		},
		{
			name:  "substitution",
			tmpl:  "{user} is from {ip}",
			attrs: map[string]any{"user": "foo", "ip": "127.0.0.1"},
			want:  "foo is from 127.0.0.1",
		},
		{
			name:  "missing key placeholder",
			tmpl:  "{user} did {action}",
			attrs: map[string]any{"user": "foo"},
			want:  "foo did <no value>",
		},
		{
			name:  "unused attrs appended sorted",
			tmpl:  "{user} logged in",
			attrs: map[string]any{"user": "foo", "ip": "127.0.0.1", "agent": "cli"},
			want:  "foo logged in agent=cli ip=127.0.0.1",
		},
		{
			name:  "non-key braces untouched",
			tmpl:  "literal {not a key} stays",
			attrs: nil,
			want:  "literal {not a key} stays",
		},
		{
			name:  "unterminated brace",
			tmpl:  "open {user",
			attrs: map[string]any{"user": "foo"},
			want:  "open {user user=foo",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := formatMessage(c.tmpl, c.attrs); got != c.want {
				t.Fatalf("want %q, got %q", c.want, got)
			}
		})
	}
}

func TestRecordStringFormatsTemplate(t *testing.T) {
	rec := &Record{Message: "{user} is here", Attrs: map[string]any{"user": "foo"}}
	if got := rec.String(); got != "foo is here" {
		t.Fatalf("got %q", got)
	}
}
