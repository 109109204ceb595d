// Package chips decomposes an amount into a display-friendly multiset of
// fixed chip denominations.
//
// Planning is greedy (largest denomination first) followed by a consolidation
// pass that moves value from over-tall stacks into smaller denominations that
// divide them exactly, as long as the receiving stack stays within its own
// capacity. The result is grouped by display category in ascending order.
package chips

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/log"
)

var (
	// ErrNegativeAmount is returned for amounts below zero.
	ErrNegativeAmount = errors.New("chips: negative amount")
	// ErrValueChanged signals that consolidation altered the total value.
	ErrValueChanged = errors.New("chips: consolidation changed total value")
)

// RemainderError reports an amount the ladder cannot represent exactly.
type RemainderError struct {
	Ladder    string
	Chips     int
	Remainder int
}

func (e *RemainderError) Error() string {
	return fmt.Sprintf("chips: ladder %q cannot represent %d: %d left over", e.Ladder, e.Chips, e.Remainder)
}

// Entry is a count of chips of one denomination.
type Entry struct {
	Denomination int `json:"denomination"`
	Count        int `json:"count"`
}

// Group is a contiguous run of entries sharing a display category.
type Group struct {
	Category Category `json:"category"`
	Entries  []Entry  `json:"entries"`
}

// Stack is a grouped decomposition, ascending by denomination.
type Stack []Group

// Total returns the value represented by the stack.
func (s Stack) Total() int {
	total := 0
	for _, g := range s {
		for _, e := range g.Entries {
			total += e.Denomination * e.Count
		}
	}
	return total
}

// Count returns the number of physical chips in the stack.
func (s Stack) Count() int {
	n := 0
	for _, g := range s {
		for _, e := range g.Entries {
			n += e.Count
		}
	}
	return n
}

// PlanKey identifies a plan for memoisation. Ladders are immutable once
// configured, so the name stands in for the whole table.
type PlanKey struct {
	Chips  int
	Ladder string
}

// Planner plans decompositions and logs consolidation decisions.
type Planner struct {
	logger *log.Logger
}

// NewPlanner returns a Planner. A nil logger discards output.
func NewPlanner(logger *log.Logger) *Planner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Planner{logger: logger}
}

var defaultPlanner = NewPlanner(nil)

// Plan decomposes chips over ladder without logging.
func Plan(chips int, ladder Ladder) (Stack, error) {
	return defaultPlanner.Plan(chips, ladder)
}

// Decompose converts a currency amount into chip units and plans it. The
// remainder of amount/valuePerChip is returned as dust and is not part of
// the stack.
func Decompose(amount, valuePerChip int, ladder Ladder) (Stack, int, error) {
	return defaultPlanner.Decompose(amount, valuePerChip, ladder)
}

// Decompose is the logging variant of the package-level Decompose.
func (p *Planner) Decompose(amount, valuePerChip int, ladder Ladder) (Stack, int, error) {
	if valuePerChip <= 0 {
		return nil, 0, fmt.Errorf("chips: value per chip must be positive, got %d", valuePerChip)
	}
	if amount < 0 {
		return nil, 0, ErrNegativeAmount
	}
	stack, err := p.Plan(amount/valuePerChip, ladder)
	return stack, amount % valuePerChip, err
}

// Plan decomposes chips over ladder. When the ladder cannot represent the
// amount exactly the partial stack is returned with a *RemainderError.
func (p *Planner) Plan(chips int, ladder Ladder) (Stack, error) {
	if chips < 0 {
		return nil, ErrNegativeAmount
	}
	if err := ladder.Validate(); err != nil {
		return nil, err
	}
	if chips == 0 {
		return Stack{}, nil
	}

	denoms := ladder.Denominations
	counts, remaining := greedy(chips, denoms)
	if remaining != 0 {
		p.logger.Warn("Amount not representable", "ladder", ladder.Name, "chips", chips, "remainder", remaining)
		return group(denoms, counts), &RemainderError{Ladder: ladder.Name, Chips: chips, Remainder: remaining}
	}

	p.consolidate(denoms, counts)

	stack := group(denoms, counts)
	if total := stack.Total(); total != chips {
		return stack, fmt.Errorf("%w: planned %d, want %d", ErrValueChanged, total, chips)
	}
	return stack, nil
}

// greedy fills from the largest denomination down and returns per-rung
// counts plus anything smaller than the smallest rung.
func greedy(chips int, denoms []Denomination) ([]int, int) {
	counts := make([]int, len(denoms))
	remaining := chips
	for i := len(denoms) - 1; i >= 0 && remaining > 0; i-- {
		counts[i] = remaining / denoms[i].Value
		remaining -= counts[i] * denoms[i].Value
	}
	return counts, remaining
}

// consolidate moves whole chips out of stacks taller than their capacity into
// smaller denominations that divide them exactly. A receiving stack never
// grows past its own capacity, so value only ever moves downward.
func (p *Planner) consolidate(denoms []Denomination, counts []int) {
	for i := len(denoms) - 1; i > 0; i-- {
		excess := counts[i] - denoms[i].MaxStack
		for j := i - 1; j >= 0 && excess > 0; j-- {
			if denoms[i].Value%denoms[j].Value != 0 {
				continue
			}
			ratio := denoms[i].Value / denoms[j].Value
			room := denoms[j].MaxStack - counts[j]
			move := min(excess, room/ratio)
			if move <= 0 {
				continue
			}
			counts[i] -= move
			counts[j] += move * ratio
			excess -= move
			p.logger.Debug("Consolidated stack", "from", denoms[i].Value, "to", denoms[j].Value, "chips", move, "into", move*ratio)
		}
		if excess > 0 {
			p.logger.Debug("Stack over capacity", "denomination", denoms[i].Value, "count", counts[i], "max", denoms[i].MaxStack)
		}
	}
}

// group sorts the non-zero counts ascending and splits them into runs of the
// same category.
func group(denoms []Denomination, counts []int) Stack {
	type rung struct {
		Denomination
		count int
	}
	rungs := make([]rung, 0, len(denoms))
	for i, d := range denoms {
		if counts[i] > 0 {
			rungs = append(rungs, rung{Denomination: d, count: counts[i]})
		}
	}
	sort.Slice(rungs, func(a, b int) bool { return rungs[a].Value < rungs[b].Value })

	stack := Stack{}
	for _, r := range rungs {
		entry := Entry{Denomination: r.Value, Count: r.count}
		if n := len(stack); n > 0 && stack[n-1].Category == r.Category {
			stack[n-1].Entries = append(stack[n-1].Entries, entry)
			continue
		}
		stack = append(stack, Group{Category: r.Category, Entries: []Entry{entry}})
	}
	return stack
}
