// Package view turns hands into table views: the per-stage ledger with every
// pot, bet and payout broken down into physical chip stacks. Ledgers and
// chip plans are pure, so both are memoised.
package view

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/potledger/internal/chips"
	"github.com/lox/potledger/internal/ledger"
	"github.com/lox/potledger/internal/memo"
)

const (
	defaultTTL        = 5 * time.Minute
	defaultMaxEntries = 4096
)

// Options configures a Service. Zero values select the default ladder
// counted directly in chips, a real clock and a five minute TTL.
type Options struct {
	Logger       *log.Logger
	Clock        quartz.Clock
	TTL          time.Duration
	MaxEntries   int
	Ladder       chips.Ladder
	ValuePerChip int
}

// SeatAmount is one seat's amount and its chip breakdown.
type SeatAmount struct {
	Seat   int         `json:"seat"`
	Amount int         `json:"amount"`
	Stack  chips.Stack `json:"stack"`
	Dust   int         `json:"dust,omitempty"`
}

// Stage is one ledger stage with chip stacks attached.
type Stage struct {
	ledger.StageLedger
	PotStack chips.Stack  `json:"pot_stack"`
	SeatBets []SeatAmount `json:"seat_bets"`
	Payouts  []SeatAmount `json:"payouts"`
}

// Table is the full view of one hand.
type Table struct {
	HandID  string          `json:"hand_id"`
	Stages  []Stage         `json:"stages"`
	Rake    int             `json:"rake"`
	Defects []ledger.Defect `json:"defects,omitempty"`
}

type plan struct {
	stack chips.Stack
	err   error
}

// Service builds memoised table views.
type Service struct {
	logger       *log.Logger
	builder      *ledger.Builder
	planner      *chips.Planner
	ladder       chips.Ladder
	valuePerChip int

	ledgers *memo.Cache[ledger.Key, *ledger.Ledger]
	plans   *memo.Cache[chips.PlanKey, plan]
}

// New creates a Service.
func New(opts Options) (*Service, error) {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.TTL == 0 {
		opts.TTL = defaultTTL
	}
	if opts.MaxEntries == 0 {
		opts.MaxEntries = defaultMaxEntries
	}
	if len(opts.Ladder.Denominations) == 0 {
		opts.Ladder = chips.DefaultLadder()
	}
	if opts.ValuePerChip == 0 {
		opts.ValuePerChip = 1
	}
	if opts.ValuePerChip < 0 {
		return nil, fmt.Errorf("view: value per chip must be positive, got %d", opts.ValuePerChip)
	}
	if err := opts.Ladder.Validate(); err != nil {
		return nil, fmt.Errorf("view: %w", err)
	}

	return &Service{
		logger:       opts.Logger,
		builder:      ledger.NewBuilder(opts.Logger),
		planner:      chips.NewPlanner(opts.Logger),
		ladder:       opts.Ladder,
		valuePerChip: opts.ValuePerChip,
		ledgers:      memo.New[ledger.Key, *ledger.Ledger](opts.Clock, opts.TTL, opts.MaxEntries),
		plans:        memo.New[chips.PlanKey, plan](opts.Clock, opts.TTL, opts.MaxEntries),
	}, nil
}

// Builder returns the ledger builder shared by the service.
func (s *Service) Builder() *ledger.Builder {
	return s.builder
}

// Ledger builds the ledger for hand. Hands without an ID cannot be told
// apart and are never cached.
func (s *Service) Ledger(hand ledger.Hand) *ledger.Ledger {
	if hand.ID == "" {
		return s.builder.Build(hand)
	}
	return s.ledgers.Do(ledger.KeyOf(hand), func() *ledger.Ledger {
		return s.builder.Build(hand)
	})
}

// Remember stores an already built ledger, for callers that build in bulk.
func (s *Service) Remember(hand ledger.Hand, l *ledger.Ledger) {
	if hand.ID != "" && l != nil {
		s.ledgers.Set(ledger.KeyOf(hand), l)
	}
}

// Stack decomposes a currency amount into chips. The returned dust is the
// part smaller than one chip unit.
func (s *Service) Stack(amount int) (chips.Stack, int, error) {
	if amount < 0 {
		return nil, 0, chips.ErrNegativeAmount
	}
	units := amount / s.valuePerChip
	p := s.plans.Do(chips.PlanKey{Chips: units, Ladder: s.ladder.Name}, func() plan {
		stack, err := s.planner.Plan(units, s.ladder)
		return plan{stack: stack, err: err}
	})
	return p.stack, amount % s.valuePerChip, p.err
}

// Table builds the view for hand. Stacks that cannot be planned exactly are
// still included; their errors are joined into the returned error.
func (s *Service) Table(hand ledger.Hand) (Table, error) {
	return s.TableFor(s.Ledger(hand))
}

// TableFor builds the view for an existing ledger.
func (s *Service) TableFor(l *ledger.Ledger) (Table, error) {
	t := Table{
		HandID:  l.HandID,
		Stages:  make([]Stage, 0, len(l.Stages)),
		Rake:    l.TotalRake(),
		Defects: l.Defects,
	}

	var errs []error
	stack := func(amount int) (chips.Stack, int) {
		st, dust, err := s.Stack(amount)
		if err != nil {
			errs = append(errs, fmt.Errorf("amount %d: %w", amount, err))
		}
		return st, dust
	}
	seatAmounts := func(m map[int]int) []SeatAmount {
		out := make([]SeatAmount, 0, len(m))
		for _, seat := range sortedSeats(m) {
			st, dust := stack(m[seat])
			out = append(out, SeatAmount{Seat: seat, Amount: m[seat], Stack: st, Dust: dust})
		}
		return out
	}

	for _, sl := range l.Stages {
		potStack, _ := stack(sl.StartingPot)
		t.Stages = append(t.Stages, Stage{
			StageLedger: sl,
			PotStack:    potStack,
			SeatBets:    seatAmounts(sl.Bets),
			Payouts:     seatAmounts(sl.Winnings),
		})
	}

	if hits, misses := s.plans.Stats(); hits+misses > 0 {
		s.logger.Debug("Chip plan cache", "hits", hits, "misses", misses, "entries", s.plans.Len())
	}
	return t, errors.Join(errs...)
}

func sortedSeats(m map[int]int) []int {
	seats := make([]int, 0, len(m))
	for seat := range m {
		seats = append(seats, seat)
	}
	sort.Ints(seats)
	return seats
}
