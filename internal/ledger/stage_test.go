package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDealStageCanonical(t *testing.T) {
	t.Parallel()

	tests := []struct {
		deal DealStage
		want Stage
	}{
		{DealFresh, Initial},
		{DealOpening, Initial},
		{DealBlinds, Initial},
		{DealFlop, Flop},
		{DealTurn, Turn},
		{DealRiver, River},
		{DealShowdown, Showdown},
	}

	for _, tt := range tests {
		got, ok := tt.deal.Canonical()
		assert.True(t, ok, tt.deal.String())
		assert.Equal(t, tt.want, got, tt.deal.String())
	}

	_, ok := DealStage(42).Canonical()
	assert.False(t, ok)
	_, ok = DealStage(-1).Canonical()
	assert.False(t, ok)
}

func TestParseDealStage(t *testing.T) {
	t.Parallel()

	got, err := ParseDealStage(" Blinds ")
	require.NoError(t, err)
	assert.Equal(t, DealBlinds, got)

	got, err = ParseDealStage("showdown")
	require.NoError(t, err)
	assert.Equal(t, DealShowdown, got)

	_, err = ParseDealStage("preflop")
	assert.Error(t, err)
}

func TestStageString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "initial", Initial.String())
	assert.Equal(t, "showdown", Showdown.String())
	assert.Equal(t, "stage(9)", Stage(9).String())

	text, err := River.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "river", string(text))
}

func TestNewSeatMap(t *testing.T) {
	t.Parallel()

	m := NewSeatMap([]Seat{
		{ID: "alice", Index: 0},
		{ID: "bob", Index: -1},
		{ID: "", Index: 3},
		{ID: "carol", Index: 2},
		{ID: "alice", Index: 4},
	})

	assert.Equal(t, SeatMap{"alice": 4, "carol": 2}, m)

	seat, ok := m.SeatIndex("carol")
	assert.True(t, ok)
	assert.Equal(t, 2, seat)

	_, ok = m.SeatIndex("bob")
	assert.False(t, ok)
	_, ok = m.SeatIndex("")
	assert.False(t, ok)
}

func TestEntryString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "deal flop", Deal(DealFlop).String())
	assert.Equal(t, "alice raise 40", Act("alice", Raise{Amount: 40}).String())
	assert.Equal(t, "bob allin 300", Act("bob", AllIn{Amount: 300}).String())
	assert.Equal(t, "carol fold", Act("carol", Other{Name: "fold"}).String())
}
