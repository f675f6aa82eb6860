package ui

import "sync"

type SelectorID string

const (
	SelectUpload     SelectorID = "upload"
	SelectBarter     SelectorID = "barter"
	SelectMatches    SelectorID = "matches"
	SelectLostFound  SelectorID = "lostFound"
	SelectBarterItem SelectorID = "barterItem"
)

// ProfileSelectors choose the acting user of a form. They are pre-selected
// to the session user on login.
var ProfileSelectors = []SelectorID{SelectUpload, SelectBarter, SelectMatches, SelectLostFound}

type Option struct {
	Value int64
	Label string
}

// Selector is a single-choice list. A value can only be selected while it is
// one of the options.
type Selector struct {
	ID SelectorID

	mu       sync.Mutex
	options  []Option
	selected int64
	has      bool
}

func NewSelector(id SelectorID) *Selector {
	return &Selector{ID: id}
}

// Populate replaces the options. The current selection survives only if its
// value is still offered.
func (s *Selector) Populate(opts []Option) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.options = append([]Option(nil), opts...)
	if s.has && !s.containsLocked(s.selected) {
		s.selected, s.has = 0, false
	}
}

// Select picks value and reports whether it is one of the options.
func (s *Selector) Select(value int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.containsLocked(value) {
		return false
	}
	s.selected, s.has = value, true
	return true
}

func (s *Selector) Selected() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected, s.has
}

func (s *Selector) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected, s.has = 0, false
}

func (s *Selector) Options() []Option {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Option(nil), s.options...)
}

func (s *Selector) containsLocked(value int64) bool {
	for _, o := range s.options {
		if o.Value == value {
			return true
		}
	}
	return false
}
