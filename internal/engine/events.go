package engine

// Event categories.
const (
	CategoryCycle   = "cycle"
	CategoryCombat  = "combat"
	CategoryFarm    = "farm"
	CategoryEconomy = "economy"
)

// maxEvents bounds the in-memory event log.
const maxEvents = 1000

// Event is a notable occurrence on the farm.
type Event struct {
	Tick        uint64 `json:"tick" db:"tick"`
	Description string `json:"description" db:"description"`
	Category    string `json:"category" db:"category"`
}

func (s *GameState) record(category, description string) {
	e := Event{Tick: s.LastTick, Description: description, Category: category}
	s.events = append(s.events, e)
	s.pending = append(s.pending, e)
	if len(s.events) > maxEvents {
		s.events = s.events[len(s.events)-maxEvents:]
	}
	if len(s.pending) > maxEvents {
		s.pending = s.pending[len(s.pending)-maxEvents:]
	}
}

// Events returns a copy of the recent event log, oldest first.
func (s *GameState) Events() []Event {
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// FlushEvents returns events recorded since the last flush and forgets them.
func (s *GameState) FlushEvents() []Event {
	out := s.pending
	s.pending = nil
	return out
}
