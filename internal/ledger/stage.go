package ledger

import (
	"fmt"
	"strings"
)

// Stage is a canonical betting stage. Declaration order is canonical order.
type Stage int

const (
	Initial Stage = iota
	Flop
	Turn
	River
	Showdown
)

// Stages lists every canonical stage in order.
var Stages = [...]Stage{Initial, Flop, Turn, River, Showdown}

func (s Stage) String() string {
	if s < Initial || s > Showdown {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return [...]string{"initial", "flop", "turn", "river", "showdown"}[s]
}

// MarshalText renders the stage name, so stages work as JSON map keys.
func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// DealStage is the raw deal-stage tag carried by a stage transition.
type DealStage int

const (
	DealFresh DealStage = iota
	DealOpening
	DealBlinds
	DealFlop
	DealTurn
	DealRiver
	DealShowdown
)

var dealStageNames = [...]string{"fresh", "opening", "blinds", "flop", "turn", "river", "showdown"}

func (d DealStage) String() string {
	if d < DealFresh || d > DealShowdown {
		return fmt.Sprintf("deal_stage(%d)", int(d))
	}
	return dealStageNames[d]
}

// Canonical maps a deal stage onto its canonical bucket. Every pre-flop
// sub-phase lands in Initial. Unknown tags report false.
func (d DealStage) Canonical() (Stage, bool) {
	switch d {
	case DealFresh, DealOpening, DealBlinds:
		return Initial, true
	case DealFlop:
		return Flop, true
	case DealTurn:
		return Turn, true
	case DealRiver:
		return River, true
	case DealShowdown:
		return Showdown, true
	default:
		return Initial, false
	}
}

// ParseDealStage parses a deal-stage tag such as "flop" or "Blinds".
func ParseDealStage(tag string) (DealStage, error) {
	want := strings.ToLower(strings.TrimSpace(tag))
	for i, name := range dealStageNames {
		if name == want {
			return DealStage(i), nil
		}
	}
	return 0, fmt.Errorf("ledger: unknown deal stage %q", tag)
}
