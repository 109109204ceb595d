package phh

// HandHistory represents a single poker hand encoded in PHH format.
type HandHistory struct {
	Variant           string         `toml:"variant"`
	Table             string         `toml:"table,omitempty"`
	SeatCount         int            `toml:"seat_count,omitempty"`
	Seats             []int          `toml:"seats,omitempty"`
	Antes             []int          `toml:"antes"`
	BlindsOrStraddles []int          `toml:"blinds_or_straddles"`
	MinBet            int            `toml:"min_bet"`
	StartingStacks    []int          `toml:"starting_stacks"`
	FinishingStacks   []int          `toml:"finishing_stacks,omitempty"`
	Winnings          []int          `toml:"winnings,omitempty"`
	Actions           []string       `toml:"actions"`
	Players           []string       `toml:"players,omitempty"`
	HandID            string         `toml:"hand"`
	LegacyHandID      string         `toml:"hand_id,omitempty"`
	Currency          string         `toml:"currency,omitempty"`
	Time              string         `toml:"time,omitempty"`
	TimeZone          string         `toml:"time_zone,omitempty"`
	Day               int            `toml:"day,omitempty"`
	Month             int            `toml:"month,omitempty"`
	Year              int            `toml:"year,omitempty"`
	Metadata          map[string]any `toml:"metadata,omitempty"`
}

// PlayerCount returns the number of players in the hand, falling back to
// the stack list when player names are absent.
func (h HandHistory) PlayerCount() int {
	return max(len(h.Players), len(h.StartingStacks))
}

// PlayerName returns the display identity of position pos (0-based).
// Positions without a name are called p1, p2, and so on.
func (h HandHistory) PlayerName(pos int) string {
	if pos >= 0 && pos < len(h.Players) && h.Players[pos] != "" {
		return h.Players[pos]
	}
	return positionToken(pos)
}

// SeatIndex returns the 0-based table seat of position pos.
func (h HandHistory) SeatIndex(pos int) int {
	if pos < len(h.Seats) && h.Seats[pos] > 0 {
		return h.Seats[pos] - 1
	}
	return pos
}
