package phh

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lox/potledger/internal/ledger"
)

// ActionError reports an action line that could not be converted.
type ActionError struct {
	HandID string
	Index  int
	Action string
	Reason string
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("phh: hand %s action %d %q: %s", e.HandID, e.Index, e.Action, e.Reason)
}

// ToHand converts a PHH hand into ledger input. Player names are the
// identities, blinds become blind entries, board deals become stage
// transitions and the first showdown becomes the showdown transition.
//
// A bet that commits a player's whole remaining stack becomes an all-in
// entry. When finishing stacks are present, winners and their gross payouts
// come from the stack deltas and the replayed commitments, and winnings are
// read as nets; otherwise winnings are taken as gross payouts. The external
// pot counts uncalled bets in full, as the ledger does, and is only reported
// without antes, which the ledger does not model.
func ToHand(h HandHistory) (ledger.Hand, error) {
	n := h.PlayerCount()
	if n == 0 {
		return ledger.Hand{}, fmt.Errorf("phh: hand %s has no players", h.HandID)
	}

	seats := make([]ledger.Seat, 0, n)
	for pos := range n {
		seats = append(seats, ledger.Seat{ID: ledger.Identity(h.PlayerName(pos)), Index: h.SeatIndex(pos)})
	}

	c := newConverter(h, n)
	c.postBlinds()
	for i, raw := range h.Actions {
		if err := c.action(i, raw); err != nil {
			return ledger.Hand{}, err
		}
	}

	c.closeStreet()

	payouts, fromStacks := c.payouts()
	hand := ledger.Hand{
		ID:     h.HandID,
		Log:    c.log,
		Seats:  ledger.NewSeatMap(seats),
		Blinds: c.blinds,
	}
	if fromStacks && !hasAntes(h) {
		hand.Pot = c.externalPot(payouts)
	}
	for pos, won := range payouts {
		if won > 0 {
			hand.Winners = append(hand.Winners, ledger.Winner{ID: c.identity(pos), Amount: won})
		}
	}
	hand.WinnersKnown = len(hand.Winners) > 0
	return hand, nil
}

type converter struct {
	hand   HandHistory
	log    []ledger.Entry
	blinds ledger.Blinds

	board     int
	showdown  bool
	street    []int // committed this street, by position
	remaining []int // stack left at the start of this street
	invested  []int // committed on closed streets, uncalled bets included
	refunded  []int // uncalled bets returned
	current   int
}

func newConverter(h HandHistory, n int) *converter {
	c := &converter{
		hand:      h,
		street:    make([]int, n),
		remaining: make([]int, n),
		invested:  make([]int, n),
		refunded:  make([]int, n),
	}
	for pos := range n {
		if pos < len(h.StartingStacks) {
			c.remaining[pos] = h.StartingStacks[pos]
		}
	}
	return c
}

// postBlinds emits the first two forced bets as blinds and any further
// straddles as raises.
func (c *converter) postBlinds() {
	posted := 0
	for pos, amount := range c.hand.BlindsOrStraddles {
		if amount <= 0 || pos >= len(c.street) {
			continue
		}
		id := c.identity(pos)
		switch posted {
		case 0:
			c.blinds.Small = amount
			c.log = append(c.log, ledger.Act(id, ledger.SmallBlind{}))
		case 1:
			c.blinds.Big = amount
			c.log = append(c.log, ledger.Act(id, ledger.BigBlind{}))
		default:
			c.log = append(c.log, ledger.Act(id, ledger.Raise{Amount: amount}))
		}
		posted++
		c.street[pos] = amount
		c.current = max(c.current, amount)
	}
}

func (c *converter) action(idx int, raw string) error {
	line := raw
	if cut := strings.Index(line, "#"); cut >= 0 {
		line = line[:cut]
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	fail := func(format string, args ...any) error {
		return &ActionError{HandID: c.hand.HandID, Index: idx, Action: raw, Reason: fmt.Sprintf(format, args...)}
	}

	if fields[0] == "d" {
		if len(fields) < 2 {
			return fail("missing deal code")
		}
		switch fields[1] {
		case "dh":
			return nil
		case "db":
			if len(fields) < 3 {
				return fail("missing board cards")
			}
			return c.deal(len(parseCardRun(fields[2])), fail)
		default:
			return fail("unsupported deal code %q", fields[1])
		}
	}

	pos := parsePosition(fields[0])
	if pos < 0 || pos >= len(c.street) {
		return fail("invalid player %q", fields[0])
	}
	if len(fields) < 2 {
		return fail("missing action code")
	}
	id := c.identity(pos)

	switch code := fields[1]; code {
	case "cc":
		owed := c.current - c.street[pos]
		left := c.remaining[pos] - c.street[pos]
		if c.remaining[pos] > 0 && owed > 0 && owed >= left {
			c.commit(pos, c.remaining[pos])
			c.log = append(c.log, ledger.Act(id, ledger.AllIn{Amount: c.remaining[pos]}))
			return nil
		}
		c.commit(pos, c.current)
		c.log = append(c.log, ledger.Act(id, ledger.Call{}))
	case "cbr":
		if len(fields) < 3 {
			return fail("missing amount")
		}
		amount, err := strconv.Atoi(fields[2])
		if err != nil || amount < 0 {
			return fail("invalid amount %q", fields[2])
		}
		c.commit(pos, amount)
		c.current = max(c.current, amount)
		if c.remaining[pos] > 0 && amount >= c.remaining[pos] {
			c.log = append(c.log, ledger.Act(id, ledger.AllIn{Amount: amount}))
		} else {
			c.log = append(c.log, ledger.Act(id, ledger.Raise{Amount: amount}))
		}
	case "sm":
		if !c.showdown {
			c.showdown = true
			c.log = append(c.log, ledger.Deal(ledger.DealShowdown))
		}
	case "f":
		c.log = append(c.log, ledger.Act(id, ledger.Other{Name: "fold"}))
	default:
		c.log = append(c.log, ledger.Act(id, ledger.Other{Name: code}))
	}
	return nil
}

func (c *converter) deal(cards int, fail func(string, ...any) error) error {
	size := boardSize(c.board, cards)
	var stage ledger.DealStage
	switch size {
	case 3:
		stage = ledger.DealFlop
	case 4:
		stage = ledger.DealTurn
	case 5:
		stage = ledger.DealRiver
	default:
		return fail("unexpected board size %d", size)
	}
	c.board = size

	c.closeStreet()
	c.log = append(c.log, ledger.Deal(stage))
	return nil
}

// closeStreet moves this street's commitments into the hand totals. The part
// of the top commitment nobody matched is returned to its owner.
func (c *converter) closeStreet() {
	top, second, leader := 0, 0, -1
	for pos, amount := range c.street {
		switch {
		case amount > top:
			second, top, leader = top, amount, pos
		case amount > second:
			second = amount
		}
	}
	for pos, amount := range c.street {
		c.invested[pos] += amount
		c.remaining[pos] -= amount
		c.street[pos] = 0
	}
	if leader >= 0 && top > second {
		c.refunded[leader] += top - second
		c.remaining[leader] += top - second
	}
	c.current = 0
}

// payouts returns each position's gross payout. With moved finishing stacks
// it is finish - start + ante + committed - refunded; otherwise the winnings
// list is used as is.
func (c *converter) payouts() ([]int, bool) {
	h := c.hand
	n := len(c.street)
	out := make([]int, n)
	if len(h.StartingStacks) >= n && len(h.FinishingStacks) >= n && stacksMoved(h, n) {
		for pos := range n {
			ante := 0
			if pos < len(h.Antes) {
				ante = h.Antes[pos]
			}
			out[pos] = h.FinishingStacks[pos] - h.StartingStacks[pos] + ante + c.invested[pos] - c.refunded[pos]
		}
		return out, true
	}
	for pos, won := range h.Winnings {
		if pos < n {
			out[pos] = won
		}
	}
	return out, false
}

func (c *converter) commit(pos, total int) {
	if total > c.street[pos] {
		c.street[pos] = total
	}
}

func (c *converter) identity(pos int) ledger.Identity {
	return ledger.Identity(c.hand.PlayerName(pos))
}

// externalPot sums what each player put in, start - finish + payout, plus
// the uncalled bets the ledger still counts as bets.
func (c *converter) externalPot(payouts []int) int {
	h := c.hand
	pot := 0
	for pos := range payouts {
		pot += h.StartingStacks[pos] - h.FinishingStacks[pos] + payouts[pos] + c.refunded[pos]
	}
	return pot
}

func stacksMoved(h HandHistory, n int) bool {
	for pos := range n {
		if h.FinishingStacks[pos] != h.StartingStacks[pos] {
			return true
		}
	}
	return false
}

func hasAntes(h HandHistory) bool {
	for _, ante := range h.Antes {
		if ante != 0 {
			return true
		}
	}
	return false
}
