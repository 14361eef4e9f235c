package push

import (
	"sort"
	"sync"
)

// Message is a push message delivered while the app is in the foreground.
type Message struct {
	Title string
	Body  string
	Data  map[string]string
}

type Handler func(Message)

// Broker fans foreground messages out to subscribers.
type Broker struct {
	mu   sync.RWMutex
	next uint64
	subs map[uint64]Handler
}

func NewBroker() *Broker {
	return &Broker{subs: map[uint64]Handler{}}
}

// Subscribe registers h and returns the function that removes it. Calling
// the returned function more than once is harmless.
func (b *Broker) Subscribe(h Handler) (unsubscribe func()) {
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = h
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// Publish hands msg to every current subscriber in subscription order and
// returns how many received it. Handlers run on the caller's goroutine.
func (b *Broker) Publish(msg Message) int {
	type sub struct {
		id uint64
		h  Handler
	}

	b.mu.RLock()
	subs := make([]sub, 0, len(b.subs))
	for id, h := range b.subs {
		subs = append(subs, sub{id, h})
	}
	b.mu.RUnlock()

	sort.Slice(subs, func(i, j int) bool { return subs[i].id < subs[j].id })
	for _, s := range subs {
		s.h(msg)
	}
	return len(subs)
}

func (b *Broker) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
