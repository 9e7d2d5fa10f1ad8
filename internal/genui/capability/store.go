package capability

import "sync/atomic"

// Provider hands out the vocabulary configuration currently in force.
type Provider interface {
	Current() Config
}

// Current lets a fixed Config act as its own Provider.
func (c Config) Current() Config { return c.orDefault() }

// Store holds a Config that can be replaced while requests are being served.
type Store struct {
	cur atomic.Pointer[Config]
}

func NewStore(cfg Config) *Store {
	s := &Store{}
	s.Set(cfg)
	return s
}

func (s *Store) Current() Config {
	if s == nil {
		return DefaultConfig()
	}
	if c := s.cur.Load(); c != nil {
		return *c
	}
	return DefaultConfig()
}

func (s *Store) Set(cfg Config) {
	cfg = cfg.orDefault()
	s.cur.Store(&cfg)
}
