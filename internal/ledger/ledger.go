// Package ledger reconstructs per-stage pot, bet, winnings and rake state for
// a single poker hand from its flat, append-only action log.
//
// # Basic Usage
//
//	seats := ledger.NewSeatMap([]ledger.Seat{{ID: "alice", Index: 0}, {ID: "bob", Index: 1}})
//	l := ledger.Build(ledger.Hand{
//	    Log: []ledger.Entry{
//	        ledger.Act("alice", ledger.SmallBlind{}),
//	        ledger.Act("bob", ledger.BigBlind{}),
//	        ledger.Deal(ledger.DealFlop),
//	        ledger.Act("alice", ledger.Raise{Amount: 50}),
//	        ledger.Act("bob", ledger.Call{}),
//	    },
//	    Seats:  seats,
//	    Blinds: ledger.Blinds{Small: 10, Big: 20},
//	})
//	flop, _ := l.Stage(ledger.Flop) // flop.Pot == 30
//
// A build is a pure function of its inputs: the log is replayed once in
// order, pots are carried forward over the stages that were reached, winners
// are credited to the last stage and rake is the residual of every stage
// that paid out. Nothing is clamped; inconsistencies are reported through
// Ledger.Defects and Ledger.Err.
package ledger

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

// Blinds holds the small and big blind values for a hand.
type Blinds struct {
	Small int `json:"small"`
	Big   int `json:"big"`
}

// Winner is one (identity, amount won) pair.
type Winner struct {
	ID     Identity `json:"id"`
	Amount int      `json:"amount"`
}

// Hand is the immutable input of a ledger build.
type Hand struct {
	ID      string
	Log     []Entry
	Seats   SeatResolver
	Winners []Winner
	// WinnersKnown gates winnings allocation; a hand still in progress has
	// no winners yet.
	WinnersKnown bool
	Blinds       Blinds
	// Pot is the externally reported pot, used only as a cross-check when
	// positive.
	Pot int
}

// StageLedger is the reconstructed state of one canonical stage.
type StageLedger struct {
	Stage       Stage       `json:"stage"`
	Bets        map[int]int `json:"bets"`
	Winnings    map[int]int `json:"winnings"`
	StartingPot int         `json:"starting_pot"`
	Pot         int         `json:"pot"`
	Rake        int         `json:"rake"`
}

// TotalBets returns the sum of every seat's last bet in the stage.
func (s StageLedger) TotalBets() int { return sumValues(s.Bets) }

// TotalWinnings returns the sum paid out in the stage.
func (s StageLedger) TotalWinnings() int { return sumValues(s.Winnings) }

// Ledger is the result of a build: the present stages in canonical order plus
// any defects found on the way.
type Ledger struct {
	HandID  string        `json:"hand_id,omitempty"`
	Stages  []StageLedger `json:"stages"`
	Defects []Defect      `json:"defects,omitempty"`
}

// Stage returns the ledger entry for s if the hand reached it.
func (l *Ledger) Stage(s Stage) (StageLedger, bool) {
	for _, st := range l.Stages {
		if st.Stage == s {
			return st, true
		}
	}
	return StageLedger{}, false
}

// Terminal returns the last stage the hand reached.
func (l *Ledger) Terminal() StageLedger {
	return l.Stages[len(l.Stages)-1]
}

// TotalRake sums rake over all stages.
func (l *Ledger) TotalRake() int {
	total := 0
	for _, st := range l.Stages {
		total += st.Rake
	}
	return total
}

// Err returns an *InconsistencyError when the build recorded any defect.
func (l *Ledger) Err() error {
	if len(l.Defects) == 0 {
		return nil
	}
	return &InconsistencyError{HandID: l.HandID, Defects: append([]Defect(nil), l.Defects...)}
}

// Builder builds ledgers, logging skipped entries and defects.
type Builder struct {
	logger *log.Logger
}

// NewBuilder returns a Builder. A nil logger discards output.
func NewBuilder(logger *log.Logger) *Builder {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Builder{logger: logger}
}

var defaultBuilder = NewBuilder(nil)

// Build reconstructs the ledger for hand without logging.
func Build(hand Hand) *Ledger {
	return defaultBuilder.Build(hand)
}

// Build reconstructs the ledger for hand.
func (bl *Builder) Build(hand Hand) *Ledger {
	logger := bl.logger
	if hand.ID != "" {
		logger = logger.With("hand", hand.ID)
	}

	b, defects := replay(hand.Log, hand.Seats, hand.Blinds, logger)
	carryPots(b)

	gross := grossPot(b)
	if hand.Pot > 0 && gross != hand.Pot {
		defects = append(defects, Defect{
			Kind:   PotMismatch,
			Stage:  b.last(),
			Index:  -1,
			Detail: fmt.Sprintf("reconstructed pot %d, reported %d", gross, hand.Pot),
		})
	}

	if hand.WinnersKnown {
		allocateWinnings(b, hand.Winners, hand.Seats, logger)
	}
	defects = append(defects, extractRake(b)...)

	for _, d := range defects {
		logger.Warn("Ledger defect", "kind", d.Kind, "stage", d.Stage, "detail", d.Detail)
	}

	order := b.order()
	l := &Ledger{
		HandID:  hand.ID,
		Stages:  make([]StageLedger, 0, len(order)),
		Defects: defects,
	}
	for _, s := range order {
		l.Stages = append(l.Stages, b.stages[s])
	}
	logger.Debug("Ledger built", "stages", len(l.Stages), "rake", l.TotalRake(), "defects", len(defects))
	return l
}
