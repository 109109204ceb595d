package ledger

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInconsistent is matched by every error produced from ledger defects.
var ErrInconsistent = errors.New("ledger: inconsistent hand data")

// DefectKind classifies a data-consistency defect found while building a ledger.
type DefectKind int

const (
	// NegativeRake means a stage paid out more than its pot.
	NegativeRake DefectKind = iota
	// StageRegression means the log moved back to an earlier canonical stage.
	StageRegression
	// PotMismatch means the reconstructed pot disagrees with the external pot.
	PotMismatch
)

func (k DefectKind) String() string {
	switch k {
	case NegativeRake:
		return "negative_rake"
	case StageRegression:
		return "stage_regression"
	case PotMismatch:
		return "pot_mismatch"
	default:
		return fmt.Sprintf("defect(%d)", int(k))
	}
}

// MarshalText renders the defect kind name.
func (k DefectKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Defect describes one inconsistency. Index is the offending log position,
// or -1 when the defect is not tied to a single entry.
type Defect struct {
	Kind   DefectKind `json:"kind"`
	Stage  Stage      `json:"stage"`
	Index  int        `json:"index"`
	Detail string     `json:"detail"`
}

func (d Defect) String() string {
	if d.Index >= 0 {
		return fmt.Sprintf("%s at %s (entry %d): %s", d.Kind, d.Stage, d.Index, d.Detail)
	}
	return fmt.Sprintf("%s at %s: %s", d.Kind, d.Stage, d.Detail)
}

// InconsistencyError reports every defect found in one hand.
type InconsistencyError struct {
	HandID  string
	Defects []Defect
}

func (e *InconsistencyError) Error() string {
	parts := make([]string, len(e.Defects))
	for i, d := range e.Defects {
		parts[i] = d.String()
	}
	if e.HandID == "" {
		return fmt.Sprintf("%s: %s", ErrInconsistent, strings.Join(parts, "; "))
	}
	return fmt.Sprintf("%s: hand %s: %s", ErrInconsistent, e.HandID, strings.Join(parts, "; "))
}

func (e *InconsistencyError) Unwrap() error { return ErrInconsistent }

// Has reports whether a defect of the given kind was recorded.
func (e *InconsistencyError) Has(kind DefectKind) bool {
	for _, d := range e.Defects {
		if d.Kind == kind {
			return true
		}
	}
	return false
}
