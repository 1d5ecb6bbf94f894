package pubsub

import (
	"fmt"
	"sync"
	"time"
)

const (
	publishTimeout = 3 * time.Second
	retryInterval  = 100 * time.Millisecond
)

type Broker struct {
	topics map[string][]*Subscriber
	sync.RWMutex
}

func NewBroker() *Broker {
	return &Broker{
		topics: make(map[string][]*Subscriber),
	}
}

// Publish delivers data to every subscriber of the topic. Topics come into
// existence on the first Subscribe call, so a publisher that outruns the
// subscribing operation retries until the topic shows up or the timeout hits.
func (b *Broker) Publish(topic string, data any) error {
	deadline := time.After(publishTimeout)

	for {
		b.RLock()
		subs, exists := b.topics[topic]
		b.RUnlock()

		if exists {
			for _, sub := range subs {
				sub.Signal(data)
			}
			return nil
		}

		select {
		case <-deadline:
			return fmt.Errorf("topic[%s] does not exist", topic)
		case <-time.After(retryInterval):
		}
	}
}

func (b *Broker) Subscribe(topic string, s *Subscriber) {
	b.Lock()
	defer b.Unlock()
	{
		_, exists := b.topics[topic]
		if !exists {
			b.topics[topic] = make([]*Subscriber, 0)
		}

		b.topics[topic] = append(b.topics[topic], s)
	}
}

func (b *Broker) Unsubscribe(topic string, s *Subscriber) error {
	b.Lock()
	defer b.Unlock()
	{
		subs, exists := b.topics[topic]
		if !exists {
			return fmt.Errorf("topic[%s] does not exist", topic)
		}

		b.topics[topic] = removeFromSlice(subs, s)
		s.CloseChannel()
	}

	return nil
}

// =================================================================================================================

func removeFromSlice[T comparable](s []T, d T) []T {
	for i := range s {
		if s[i] == d {
			s[i] = s[len(s)-1]
			return s[:len(s)-1]
		}
	}
	return s
}
