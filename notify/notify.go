package notify

import (
	"sync"
	"time"
)

// Kind classifies a transient notification.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Notification is a transient staff-facing message (the original toast).
type Notification struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// Slot holds at most one pending notification. Setting a new one replaces the
// current message and cancels its scheduled expiry, so the newest message
// always wins under rapid successive submissions.
type Slot struct {
	mu         sync.Mutex
	current    *Notification
	timer      *time.Timer
	gen        uint64
	successTTL time.Duration
	errorTTL   time.Duration
}

// NewSlot builds a slot with per-kind expiry delays.
func NewSlot(successTTL, errorTTL time.Duration) *Slot {
	return &Slot{successTTL: successTTL, errorTTL: errorTTL}
}

// Set stores a notification and schedules its expiry.
func (s *Slot) Set(kind Kind, message string) {
	ttl := s.successTTL
	if kind == KindError {
		ttl = s.errorTTL
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}
	s.gen++
	s.current = &Notification{Kind: kind, Message: message}

	// The generation guard keeps a stopped-but-already-fired timer from
	// clearing a newer message.
	gen := s.gen
	s.timer = time.AfterFunc(ttl, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.gen == gen {
			s.current = nil
			s.timer = nil
		}
	})
}

// Current returns a copy of the pending notification, or nil.
func (s *Slot) Current() *Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	n := *s.current
	return &n
}

// Clear drops any pending notification and its expiry timer.
func (s *Slot) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
	s.current = nil
}
