package taglog

import (
	"context"
	"errors"

	"github.com/trbck/tagged-logger/internal/store"
)

// SubscribeOptions configures a live tail.
type SubscribeOptions struct {
	// Filter is an optional CEL expression; non-matching records are
	// dropped before they surface.
	Filter string
}

// Tail is a live subscription to the record broadcast channel. Each tail is
// independent: every subscriber sees every record written after it attached.
// A Tail must not be shared across execution units.
type Tail struct {
	l   *Logger
	sub store.Subscription
	flt celFilter
}

// Subscribe binds a new tail to the engine's broadcast channel.
func (l *Logger) Subscribe(ctx context.Context, opts SubscribeOptions) (*Tail, error) {
	flt, err := newCELFilter(opts.Filter)
	if err != nil {
		return nil, err
	}
	sub, err := l.st.Subscribe(ctx, l.keys.channel())
	if err != nil {
		return nil, err
	}
	return &Tail{l: l, sub: sub, flt: flt}, nil
}

// Next blocks until the next record is published, the context is cancelled,
// or the tail is unsubscribed (ErrClosed). Protocol control messages never
// surface.
func (t *Tail) Next(ctx context.Context) (*Record, error) {
	for {
		msg, err := t.sub.Receive(ctx)
		if errors.Is(err, store.ErrClosed) {
			return nil, ErrClosed
		}
		if err != nil {
			return nil, err
		}
		if msg.Kind != store.KindData {
			continue
		}
		rec, err := DecodeRecord(msg.Payload)
		if err != nil {
			t.l.log.Warn().Err(err).Msg("dropping undecodable broadcast message")
			continue
		}
		if !t.flt.Eval(rec, t.l.now()) {
			continue
		}
		return rec, nil
	}
}

// Unsubscribe detaches the tail. A blocked Next returns ErrClosed.
func (t *Tail) Unsubscribe() error { return t.sub.Close() }
