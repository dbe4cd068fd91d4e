package distractions

import (
	"sync"
	"time"
)

// Store holds the live distraction collection for one session.
type Store struct {
	mu           sync.Mutex
	distractions map[int]*Distraction
	nextID       int
}

func NewStore() *Store {
	return &Store{
		distractions: make(map[int]*Distraction),
		nextID:       1,
	}
}

func (s *Store) Add(x, y float64, content Content, color string) *Distraction {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	d := &Distraction{
		ID:        id,
		X:         x,
		Y:         y,
		Title:     content.Title,
		Icon:      content.Icon,
		Color:     color,
		SpawnedAt: time.Now(),
		State:     StateActive,
	}
	s.distractions[id] = d
	return d
}

func (s *Store) Get(id int) *Distraction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.distractions[id]
}

// SetState moves a distraction out of the active set. Returns false if the
// distraction is unknown or already settled, so duplicate interactions are
// ignored.
func (s *Store) SetState(id int, state State) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.distractions[id]
	if !ok || d.State != StateActive {
		return false
	}
	d.State = state
	return true
}

// ShiftActive pushes the spawn time of every active distraction forward by
// d, so time a session spent paused never counts toward a lifespan.
func (s *Store) ShiftActive(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, dist := range s.distractions {
		if dist.State == StateActive {
			dist.SpawnedAt = dist.SpawnedAt.Add(d)
		}
	}
}

// ActiveList returns the active distractions ordered by spawn time.
func (s *Store) ActiveList() []*Distraction {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]*Distraction, 0, len(s.distractions))
	for _, d := range s.distractions {
		if d.State == StateActive {
			list = append(list, d)
		}
	}
	for i := 0; i < len(list); i++ {
		for j := i + 1; j < len(list); j++ {
			if list[j].SpawnedAt.Before(list[i].SpawnedAt) {
				list[i], list[j] = list[j], list[i]
			}
		}
	}
	return list
}

func (s *Store) ActiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, d := range s.distractions {
		if d.State == StateActive {
			n++
		}
	}
	return n
}

// EvictOldest dismisses the longest-lived active distraction.
func (s *Store) EvictOldest() *Distraction {
	s.mu.Lock()
	defer s.mu.Unlock()
	var oldest *Distraction
	for _, d := range s.distractions {
		if d.State != StateActive {
			continue
		}
		if oldest == nil || d.SpawnedAt.Before(oldest.SpawnedAt) {
			oldest = d
		}
	}
	if oldest != nil {
		oldest.State = StateDismissed
	}
	return oldest
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.distractions = make(map[int]*Distraction)
	s.nextID = 1
}
