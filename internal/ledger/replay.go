package ledger

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// book is the scratch table filled during a single build. It never escapes
// Build; callers receive copies in a Ledger.
type book struct {
	present [len(Stages)]bool
	stages  [len(Stages)]StageLedger
}

func newBook() *book {
	b := &book{}
	b.ensure(Initial)
	return b
}

func (b *book) ensure(s Stage) *StageLedger {
	if !b.present[s] {
		b.present[s] = true
		b.stages[s] = StageLedger{
			Stage:    s,
			Bets:     make(map[int]int),
			Winnings: make(map[int]int),
		}
	}
	return &b.stages[s]
}

// order returns the present stages in canonical order.
func (b *book) order() []Stage {
	out := make([]Stage, 0, len(Stages))
	for _, s := range Stages {
		if b.present[s] {
			out = append(out, s)
		}
	}
	return out
}

func (b *book) last() Stage {
	order := b.order()
	return order[len(order)-1]
}

// replay walks the log once in order, tracking the current bet per stage and
// each seat's latest bet in that stage.
func replay(entries []Entry, seats SeatResolver, blinds Blinds, logger *log.Logger) (*book, []Defect) {
	b := newBook()
	var defects []Defect

	current := Initial
	currentBet := 0

	for i, entry := range entries {
		if t, ok := entry.Kind.(StageTransition); ok {
			next, known := t.Stage.Canonical()
			if !known {
				logger.Debug("Skipping unknown deal stage", "entry", i, "stage", t.Stage)
				continue
			}
			switch {
			case next == current:
				// Sub-phases sharing a bucket keep the current bet.
			case next < current:
				defects = append(defects, Defect{
					Kind:   StageRegression,
					Stage:  current,
					Index:  i,
					Detail: fmt.Sprintf("transition to %s (%s) after %s ignored", next, t.Stage, current),
				})
			default:
				current = next
				b.ensure(current)
				currentBet = 0
			}
			continue
		}

		seat, ok := seatOf(seats, entry.Actor)
		if !ok {
			logger.Debug("Skipping entry without seat", "entry", i, "actor", entry.Actor, "kind", entry.Kind)
			continue
		}

		bets := b.ensure(current).Bets
		switch k := entry.Kind.(type) {
		case Call:
			bets[seat] = currentBet
		case Raise:
			currentBet = k.Amount
			bets[seat] = k.Amount
		case SmallBlind:
			currentBet = max(currentBet, blinds.Small)
			bets[seat] = blinds.Small
		case BigBlind:
			currentBet = max(currentBet, blinds.Big)
			bets[seat] = blinds.Big
		case AllIn:
			currentBet = max(currentBet, k.Amount)
			bets[seat] = k.Amount
		case Other, nil:
			logger.Debug("Skipping uninterpreted entry", "entry", i, "kind", entry.Kind)
		default:
			panic(fmt.Sprintf("ledger: unhandled action kind %T", k))
		}
	}

	return b, defects
}

func seatOf(seats SeatResolver, id Identity) (int, bool) {
	if seats == nil || id == "" {
		return 0, false
	}
	return seats.SeatIndex(id)
}
