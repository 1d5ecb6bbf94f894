package state

import "sync"

type Service int

const (
	LiveFeed Service = iota
	Redis
	Kafka
	Translation
)

// State tracks which best-effort sinks are still in use. A sink that
// fails mid-call is switched off so the call itself keeps going.
type State struct {
	sync.RWMutex

	LiveFeed    bool
	Redis       bool
	Kafka       bool
	Translation bool
}

func NewState() *State {
	return &State{
		LiveFeed:    true,
		Redis:       true,
		Kafka:       true,
		Translation: true,
	}
}

func (s *State) Get(svc Service) bool {
	s.RLock()
	defer s.RUnlock()
	{
		switch svc {
		case LiveFeed:
			return s.LiveFeed

		case Redis:
			return s.Redis

		case Kafka:
			return s.Kafka

		case Translation:
			return s.Translation
		}
	}
	return false
}

func (s *State) Set(svc Service, state bool) {
	s.Lock()
	defer s.Unlock()
	{
		switch svc {
		case LiveFeed:
			s.LiveFeed = state

		case Redis:
			s.Redis = state

		case Kafka:
			s.Kafka = state

		case Translation:
			s.Translation = state
		}
	}
}
