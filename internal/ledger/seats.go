package ledger

// SeatResolver maps a player identity to a seat index.
type SeatResolver interface {
	SeatIndex(id Identity) (int, bool)
}

// SeatMap is a flat identity → seat index table built once per hand.
type SeatMap map[Identity]int

// SeatIndex implements SeatResolver. Unseated identities report false.
func (m SeatMap) SeatIndex(id Identity) (int, bool) {
	if id == "" {
		return 0, false
	}
	seat, ok := m[id]
	if !ok || seat < 0 {
		return 0, false
	}
	return seat, true
}

// Seat pairs an identity with a seat index. Seat < 0 means unseated.
type Seat struct {
	ID    Identity
	Index int
}

// NewSeatMap builds a SeatMap from the table's current seating. Unseated
// players are left out; a later duplicate identity overwrites an earlier one.
func NewSeatMap(seats []Seat) SeatMap {
	m := make(SeatMap, len(seats))
	for _, s := range seats {
		if s.ID == "" || s.Index < 0 {
			continue
		}
		m[s.ID] = s.Index
	}
	return m
}
