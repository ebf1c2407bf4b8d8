// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package eventstream is an in-process topic based publish/subscribe broker.
package eventstream

import (
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
)

// Stream defines the event stream broker.
type Stream interface {
	// AddSubscriber adds a subscriber.
	AddSubscriber() Subscriber
	// RemoveSubscriber unsubscribes the subscriber from every topic and shuts it down.
	RemoveSubscriber(sub Subscriber)
	// SubscribersCount returns the number of subscribers for a given topic.
	SubscribersCount(topic string) int
	// Subscribe subscribes a subscriber to a topic.
	Subscribe(sub Subscriber, topic string)
	// Unsubscribe removes a subscriber from a topic.
	Unsubscribe(sub Subscriber, topic string)
	// Publish publishes a message to a topic.
	Publish(topic string, msg any)
	// Close shuts every subscriber down.
	Close()
}

// EventsStream is the default Stream implementation.
type EventsStream struct {
	mu          sync.RWMutex
	subscribers map[string]Subscriber
	topics      map[string]mapset.Set[string]
	closed      bool
}

var _ Stream = (*EventsStream)(nil)

// New creates an instance of EventsStream.
func New() *EventsStream {
	return &EventsStream{
		subscribers: make(map[string]Subscriber),
		topics:      make(map[string]mapset.Set[string]),
	}
}

func (b *EventsStream) AddSubscriber() Subscriber {
	sub := newSubscriber()
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		sub.Shutdown()
		return sub
	}
	b.subscribers[sub.ID()] = sub
	b.mu.Unlock()
	return sub
}

func (b *EventsStream) RemoveSubscriber(sub Subscriber) {
	for _, topic := range sub.Topics() {
		b.Unsubscribe(sub, topic)
	}

	b.mu.Lock()
	delete(b.subscribers, sub.ID())
	b.mu.Unlock()

	sub.Shutdown()
}

func (b *EventsStream) SubscribersCount(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if ids, ok := b.topics[topic]; ok {
		return ids.Cardinality()
	}
	return 0
}

func (b *EventsStream) Subscribe(sub Subscriber, topic string) {
	if !sub.Active() {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}

	sub.subscribe(topic)
	ids, ok := b.topics[topic]
	if !ok {
		ids = mapset.NewThreadUnsafeSet[string]()
		b.topics[topic] = ids
	}
	ids.Add(sub.ID())
}

func (b *EventsStream) Unsubscribe(sub Subscriber, topic string) {
	sub.unsubscribe(topic)

	b.mu.Lock()
	if ids, ok := b.topics[topic]; ok {
		ids.Remove(sub.ID())
		if ids.Cardinality() == 0 {
			delete(b.topics, topic)
		}
	}
	b.mu.Unlock()
}

func (b *EventsStream) Publish(topic string, msg any) {
	b.mu.RLock()
	ids, ok := b.topics[topic]
	if !ok {
		b.mu.RUnlock()
		return
	}
	targets := make([]Subscriber, 0, ids.Cardinality())
	ids.Each(func(id string) bool {
		if sub, ok := b.subscribers[id]; ok {
			targets = append(targets, sub)
		}
		return false
	})
	b.mu.RUnlock()

	message := NewMessage(topic, msg)
	for _, sub := range targets {
		sub.signal(message)
	}
}

func (b *EventsStream) Close() {
	b.mu.Lock()
	subscribers := b.subscribers
	b.subscribers = make(map[string]Subscriber)
	b.topics = make(map[string]mapset.Set[string])
	b.closed = true
	b.mu.Unlock()

	for _, sub := range subscribers {
		sub.Shutdown()
	}
}
