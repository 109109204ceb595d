package ledger

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// carryPots folds committed bets forward over the present stages: each
// stage's pot is the previous stage's starting pot plus everything bet in it.
// The first present stage starts empty.
func carryPots(b *book) {
	order := b.order()
	for i, s := range order {
		st := &b.stages[s]
		st.StartingPot = 0
		if i == 0 {
			st.Pot = 0
			continue
		}
		prev := &b.stages[order[i-1]]
		st.Pot = prev.StartingPot + sumValues(prev.Bets)
		st.StartingPot = st.Pot
	}
}

// allocateWinnings credits the winners to the last present stage.
func allocateWinnings(b *book, winners []Winner, seats SeatResolver, logger *log.Logger) {
	terminal := &b.stages[b.last()]
	for _, w := range winners {
		seat, ok := seatOf(seats, w.ID)
		if !ok {
			logger.Debug("Skipping winner without seat", "winner", w.ID, "amount", w.Amount)
			continue
		}
		terminal.Winnings[seat] += w.Amount
	}
}

// extractRake recognises rake as the undistributed part of every stage that
// paid out, and zeroes the live pot of those stages.
func extractRake(b *book) []Defect {
	var defects []Defect
	for _, s := range b.order() {
		st := &b.stages[s]
		paid := sumValues(st.Winnings)
		if paid <= 0 {
			st.Rake = 0
			continue
		}
		st.Rake = st.Pot - paid
		if st.Rake < 0 {
			defects = append(defects, Defect{
				Kind:   NegativeRake,
				Stage:  s,
				Index:  -1,
				Detail: fmt.Sprintf("winnings %d exceed pot %d", paid, st.Pot),
			})
		}
		st.Pot = 0
	}
	return defects
}

// grossPot is the terminal stage's pot including its own bets, before any
// payout adjustment.
func grossPot(b *book) int {
	st := &b.stages[b.last()]
	return st.StartingPot + sumValues(st.Bets)
}

func sumValues(m map[int]int) int {
	total := 0
	for _, v := range m {
		total += v
	}
	return total
}
