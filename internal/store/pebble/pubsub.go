package pebblestore

import (
	"context"
	"sync"

	"github.com/trbck/tagged-logger/internal/store"
)

// broker fans published payloads out to every subscriber of a channel.
// Delivery is broadcast, not competing-consumers. A slow subscriber whose
// buffer is full loses messages rather than blocking publishers.
type broker struct {
	mu   sync.Mutex
	subs map[string]map[*subscription]struct{}
}

func newBroker() *broker {
	return &broker{subs: map[string]map[*subscription]struct{}{}}
}

const subBufLen = 1024

type subscription struct {
	br      *broker
	channel string
	ch      chan store.Message
	once    sync.Once
}

var _ store.Subscription = (*subscription)(nil)

func (br *broker) subscribe(channel string) *subscription {
	s := &subscription{br: br, channel: channel, ch: make(chan store.Message, subBufLen)}
	br.mu.Lock()
	set, ok := br.subs[channel]
	if !ok {
		set = map[*subscription]struct{}{}
		br.subs[channel] = set
	}
	set[s] = struct{}{}
	s.ch <- store.Message{Kind: store.KindSubscribe, Channel: channel}
	br.mu.Unlock()
	return s
}

func (br *broker) publish(channel string, payload []byte) {
	br.mu.Lock()
	defer br.mu.Unlock()
	for s := range br.subs[channel] {
		msg := store.Message{Kind: store.KindData, Channel: channel, Payload: append([]byte(nil), payload...)}
		select {
		case s.ch <- msg:
		default:
		}
	}
}

func (br *broker) closeAll() {
	br.mu.Lock()
	var all []*subscription
	for _, set := range br.subs {
		for s := range set {
			all = append(all, s)
		}
	}
	br.mu.Unlock()
	for _, s := range all {
		_ = s.Close()
	}
}

// Receive blocks for the next message. After Close it drains any buffered
// messages (the unsubscribe acknowledgement included) and then reports
// store.ErrClosed.
func (s *subscription) Receive(ctx context.Context) (store.Message, error) {
	select {
	case msg, ok := <-s.ch:
		if !ok {
			return store.Message{}, store.ErrClosed
		}
		return msg, nil
	case <-ctx.Done():
		return store.Message{}, ctx.Err()
	}
}

// Close detaches the subscription. A concurrent Receive observes the
// unsubscribe acknowledgement followed by store.ErrClosed.
func (s *subscription) Close() error {
	s.once.Do(func() {
		s.br.mu.Lock()
		if set, ok := s.br.subs[s.channel]; ok {
			delete(set, s)
			if len(set) == 0 {
				delete(s.br.subs, s.channel)
			}
		}
		select {
		case s.ch <- store.Message{Kind: store.KindUnsubscribe, Channel: s.channel}:
		default:
		}
		close(s.ch)
		s.br.mu.Unlock()
	})
	return nil
}

// Publish broadcasts payload to the channel's current subscribers.
func (db *DB) Publish(ctx context.Context, channel string, payload []byte) error {
	db.broker.publish(channel, payload)
	return nil
}

// Subscribe binds a new subscription to the named channel.
func (db *DB) Subscribe(ctx context.Context, channel string) (store.Subscription, error) {
	return db.broker.subscribe(channel), nil
}
