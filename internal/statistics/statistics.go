// Package statistics summarises ledgers across a session.
package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/lox/potledger/internal/ledger"
)

// Session tracks per-hand ledger figures for a whole session.
type Session struct {
	Hands     int
	Defective int

	TotalRake int
	SumRake   float64
	SumRake2  float64 // sum of squares for variance calculation

	Pots       []float64 // gross pot of every hand, for median/percentile
	MaxPot     int
	MaxPotHand string

	// Ended counts hands by their last reached stage.
	Ended   [len(ledger.Stages)]int
	Defects map[ledger.DefectKind]int
}

// Add incorporates one ledger.
func (s *Session) Add(l *ledger.Ledger) {
	if l == nil || len(l.Stages) == 0 {
		return
	}
	s.Hands++

	rake := l.TotalRake()
	s.TotalRake += rake
	s.SumRake += float64(rake)
	s.SumRake2 += float64(rake) * float64(rake)

	terminal := l.Terminal()
	pot := terminal.StartingPot + terminal.TotalBets()
	s.Pots = append(s.Pots, float64(pot))
	if pot > s.MaxPot || s.Hands == 1 {
		s.MaxPot = pot
		s.MaxPotHand = l.HandID
	}
	if terminal.Stage >= ledger.Initial && int(terminal.Stage) < len(s.Ended) {
		s.Ended[terminal.Stage]++
	}

	if len(l.Defects) > 0 {
		s.Defective++
		if s.Defects == nil {
			s.Defects = make(map[ledger.DefectKind]int)
		}
		for _, d := range l.Defects {
			s.Defects[d.Kind]++
		}
	}
}

// MeanRake returns the mean rake per hand.
func (s *Session) MeanRake() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.SumRake / float64(s.Hands)
}

// RakeVariance returns the sample variance of rake per hand.
func (s *Session) RakeVariance() float64 {
	if s.Hands < 2 {
		return 0
	}
	mean := s.MeanRake()
	return (s.SumRake2 - float64(s.Hands)*mean*mean) / float64(s.Hands-1)
}

// RakeStdDev returns the sample standard deviation of rake per hand.
func (s *Session) RakeStdDev() float64 {
	return math.Sqrt(s.RakeVariance())
}

// MedianPot returns the median gross pot.
func (s *Session) MedianPot() float64 {
	return s.PotPercentile(0.5)
}

// PotPercentile returns the gross pot at percentile p (0.0 to 1.0),
// interpolating between neighbours.
func (s *Session) PotPercentile(p float64) float64 {
	if len(s.Pots) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Pots))
	copy(sorted, s.Pots)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Validate checks that the counters agree with each other.
func (s *Session) Validate() error {
	if len(s.Pots) != s.Hands {
		return fmt.Errorf("pots recorded (%d) does not match hands (%d)", len(s.Pots), s.Hands)
	}
	ended := 0
	for _, n := range s.Ended {
		ended += n
	}
	if ended != s.Hands {
		return fmt.Errorf("hands by final stage (%d) does not match hands (%d)", ended, s.Hands)
	}
	if s.Defective > s.Hands {
		return fmt.Errorf("defective hands (%d) exceeds hands (%d)", s.Defective, s.Hands)
	}
	if math.Abs(s.SumRake-float64(s.TotalRake)) > 1e-6 {
		return fmt.Errorf("rake mismatch: sum=%.0f total=%d", s.SumRake, s.TotalRake)
	}
	return nil
}
