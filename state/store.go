package state

import (
	"sync"
)

// Device identifies one controllable toggle. Values match the keys of the
// house model device table.
type Device string

const (
	LivingRoom Device = "sala"
	Kitchen    Device = "cozinha"
	Bedroom    Device = "quarto"
	Bathroom   Device = "banheiro"
	Yard       Device = "quintal"
	Notice     Device = "display"
)

// Devices lists every toggle in presentation order.
var Devices = []Device{LivingRoom, Kitchen, Bedroom, Bathroom, Yard, Notice}

// Snapshot is an immutable copy of the store taken for renderers and display
// collaborators. Readers never hold a reference into the live store.
type Snapshot struct {
	Toggles   map[Device]bool `json:"toggles"`
	Indicator bool            `json:"indicator"`
}

// On reports the value of one toggle in the snapshot.
func (s Snapshot) On(d Device) bool {
	return s.Toggles[d]
}

// Store holds the volatile device state. The HTTP accept loop and the tick
// loop run on separate goroutines, so every access takes the mutex. No
// method blocks beyond the lock.
type Store struct {
	mu        sync.Mutex
	toggles   map[Device]bool
	indicator bool
}

// NewStore returns a store with every toggle off, matching power-up state.
func NewStore() *Store {
	t := make(map[Device]bool, len(Devices))
	for _, d := range Devices {
		t[d] = false
	}
	return &Store{toggles: t}
}

func (s *Store) Get(d Device) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.toggles[d]
}

// Toggle inverts one toggle and returns the new value. Unknown devices are
// ignored and report false.
func (s *Store) Toggle(d Device) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.toggles[d]; !ok {
		return false
	}
	s.toggles[d] = !s.toggles[d]
	return s.toggles[d]
}

func (s *Store) SetIndicator(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.indicator = on
}

func (s *Store) Indicator() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indicator
}

// Snapshot copies the current state. The returned map is owned by the
// caller.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := make(map[Device]bool, len(s.toggles))
	for d, v := range s.toggles {
		t[d] = v
	}
	return Snapshot{Toggles: t, Indicator: s.indicator}
}
