package ledger

import "fmt"

// Identity is a stable player identity. The empty identity means the entry
// has no actor (dealer events, annotations).
type Identity string

// Entry is one record of a hand's append-only action log.
type Entry struct {
	Actor Identity
	Kind  Kind
}

func (e Entry) String() string {
	if e.Kind == nil {
		return string(e.Actor) + " <nil>"
	}
	if e.Actor == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s %s", e.Actor, e.Kind)
}

// Kind is the sealed set of action kinds understood by the replayer.
type Kind interface {
	fmt.Stringer
	kind()
}

// StageTransition moves the hand to a new deal stage.
type StageTransition struct {
	Stage DealStage
}

// Call matches the current bet without changing it.
type Call struct{}

// Raise sets the current bet to Amount.
type Raise struct {
	Amount int
}

// SmallBlind posts the small blind.
type SmallBlind struct{}

// BigBlind posts the big blind.
type BigBlind struct{}

// AllIn commits Amount, raising the current bet if it is higher.
type AllIn struct {
	Amount int
}

// Other is any action this package does not interpret (folds, checks,
// chat, annotations). It is skipped during replay.
type Other struct {
	Name string
}

func (StageTransition) kind() {}
func (Call) kind()            {}
func (Raise) kind()           {}
func (SmallBlind) kind()      {}
func (BigBlind) kind()        {}
func (AllIn) kind()           {}
func (Other) kind()           {}

func (k StageTransition) String() string { return "deal " + k.Stage.String() }
func (Call) String() string              { return "call" }
func (k Raise) String() string           { return fmt.Sprintf("raise %d", k.Amount) }
func (SmallBlind) String() string        { return "small_blind" }
func (BigBlind) String() string          { return "big_blind" }
func (k AllIn) String() string           { return fmt.Sprintf("allin %d", k.Amount) }

func (k Other) String() string {
	if k.Name == "" {
		return "other"
	}
	return k.Name
}

// Convenience constructors used when assembling logs by hand.

// Deal returns a stage transition entry.
func Deal(stage DealStage) Entry {
	return Entry{Kind: StageTransition{Stage: stage}}
}

// Act returns an entry for actor performing kind.
func Act(actor Identity, kind Kind) Entry {
	return Entry{Actor: actor, Kind: kind}
}
