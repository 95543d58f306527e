package taglog

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/cel-go/cel"
)

// celFilter wraps a compiled CEL program shared by Query and Tail. When
// disabled (empty expression), Eval always returns true.
type celFilter struct {
	prog    cel.Program
	enabled bool
}

func newCELFilter(expr string) (celFilter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return celFilter{}, nil
	}
	env, err := cel.NewEnv(
		cel.Variable("id", cel.IntType),
		cel.Variable("ts", cel.DoubleType),
		cel.Variable("text", cel.StringType),
		cel.Variable("attrs", cel.DynType),
		cel.Variable("tags", cel.ListType(cel.StringType)),
		cel.Variable("now", cel.DoubleType),
	)
	if err != nil {
		return celFilter{}, err
	}
	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return celFilter{}, fmt.Errorf("taglog: compile filter: %w", iss.Err())
	}
	prog, err := env.Program(ast)
	if err != nil {
		return celFilter{}, fmt.Errorf("taglog: build filter: %w", err)
	}
	return celFilter{prog: prog, enabled: true}, nil
}

// Eval runs the filter against a record. Evaluation errors exclude the
// record.
func (f celFilter) Eval(rec *Record, now time.Time) bool {
	if !f.enabled {
		return true
	}
	attrs := rec.Attrs
	if attrs == nil {
		attrs = map[string]any{}
	}
	tags := rec.Tags
	if tags == nil {
		tags = []string{}
	}
	out, _, err := f.prog.Eval(map[string]any{
		"id":    rec.ID,
		"ts":    tsFloat(rec.TS),
		"text":  rec.String(),
		"attrs": attrs,
		"tags":  tags,
		"now":   tsFloat(now),
	})
	if err != nil {
		return false
	}
	b, ok := out.Value().(bool)
	return ok && b
}
