package phh

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/potledger/internal/ledger"
)

func sampleHand() HandHistory {
	return HandHistory{
		Variant:           "NT",
		Table:             "default",
		SeatCount:         3,
		Seats:             []int{1, 2, 3},
		Antes:             []int{0, 0, 0},
		BlindsOrStraddles: []int{5, 10, 0},
		MinBet:            10,
		StartingStacks:    []int{1000, 1000, 300},
		FinishingStacks:   []int{700, 970, 620},
		Winnings:          []int{0, 0, 620},
		Actions: []string{
			"d dh p1 AsAd",
			"d dh p2 7c2d",
			"d dh p3 KdKc",
			"p3 cbr 30",
			"p1 cc",
			"p2 cc",
			"d db AhKhQs",
			"p1 cbr 50",
			"p2 f",
			"p3 cbr 270",
			"p1 cc",
			"d db 2c",
			"d db 3d",
			"p1 sm AsAd",
			"p3 sm KdKc",
		},
		Players: []string{"alice", "bob", "carol"},
		HandID:  "hand-00042",
	}
}

func TestEncodeHandHistory(t *testing.T) {
	t.Parallel()

	hand := &HandHistory{
		Variant:           "NT",
		Table:             "default",
		SeatCount:         3,
		Seats:             []int{1, 2, 3},
		Antes:             []int{0, 0, 0},
		BlindsOrStraddles: []int{1, 2, 0},
		MinBet:            2,
		StartingStacks:    []int{200, 200, 200},
		FinishingStacks:   []int{200, 200, 200},
		Winnings:          []int{0, 0, 0},
		Actions:           []string{"p1 cbr 6", "p2 f", "p3 cc"},
		Players:           []string{"alice-bot", "bob-bot", "charlie-bot"},
		HandID:            "hand-00042",
		Time:              "15:22:00",
		TimeZone:          "UTC",
		Day:               14,
		Month:             11,
		Year:              2025,
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, hand))

	want := "" +
		"variant = \"NT\"\n" +
		"table = \"default\"\n" +
		"seat_count = 3\n" +
		"seats = [1, 2, 3]\n" +
		"antes = [0, 0, 0]\n" +
		"blinds_or_straddles = [1, 2, 0]\n" +
		"min_bet = 2\n" +
		"starting_stacks = [200, 200, 200]\n" +
		"finishing_stacks = [200, 200, 200]\n" +
		"winnings = [0, 0, 0]\n" +
		"actions = [\"p1 cbr 6\", \"p2 f\", \"p3 cc\"]\n" +
		"players = [\"alice-bot\", \"bob-bot\", \"charlie-bot\"]\n" +
		"hand = \"hand-00042\"\n" +
		"time = \"15:22:00\"\n" +
		"time_zone = \"UTC\"\n" +
		"day = 14\n" +
		"month = 11\n" +
		"year = 2025\n"
	assert.Equal(t, want, buf.String())

	assert.Error(t, Encode(&buf, nil))
}

func TestDecodeSingleHand(t *testing.T) {
	t.Parallel()

	hand := sampleHand()
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, &hand))

	hands, err := Decode(&buf)
	require.NoError(t, err)
	require.Len(t, hands, 1)
	assert.Equal(t, hand, hands[0])
}

func TestDecodeSessionOrder(t *testing.T) {
	t.Parallel()

	hands := make([]HandHistory, 11)
	for i := range hands {
		hands[i] = sampleHand()
		hands[i].HandID = ""
		hands[i].MinBet = i + 1
	}

	var buf bytes.Buffer
	require.NoError(t, EncodeSession(&buf, hands))

	got, err := Decode(&buf)
	require.NoError(t, err)
	require.Len(t, got, 11)
	for i, h := range got {
		assert.Equal(t, i+1, h.MinBet, "section %d out of order", i+1)
	}
	assert.Equal(t, "1", got[0].HandID)
	assert.Equal(t, "10", got[9].HandID)
}

func TestDecodeChunks(t *testing.T) {
	t.Parallel()

	src := `
variant = "NT"
hand_id = "legacy-1"
actions = ["p1 f"]
# ───────────────
variant = "NT"
actions = ["p2 f"]
`
	hands, err := Decode(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, hands, 2)
	assert.Equal(t, "legacy-1", hands[0].HandID)
	assert.Equal(t, "hand-2", hands[1].HandID)
	assert.Equal(t, []string{"p2 f"}, hands[1].Actions)

	_, err = Decode(strings.NewReader("variant = [\n"))
	assert.ErrorContains(t, err, "decode chunk 1")
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "session.phhs")
	var buf bytes.Buffer
	require.NoError(t, EncodeSession(&buf, []HandHistory{sampleHand(), sampleHand()}))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	hands, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, hands, 2)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.phhs"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestToHand(t *testing.T) {
	t.Parallel()

	hand, err := ToHand(sampleHand())
	require.NoError(t, err)

	assert.Equal(t, "hand-00042", hand.ID)
	assert.Equal(t, ledger.Blinds{Small: 5, Big: 10}, hand.Blinds)
	assert.Equal(t, 630, hand.Pot)
	assert.True(t, hand.WinnersKnown)
	assert.Equal(t, []ledger.Winner{{ID: "carol", Amount: 620}}, hand.Winners)

	assert.Equal(t, []ledger.Entry{
		ledger.Act("alice", ledger.SmallBlind{}),
		ledger.Act("bob", ledger.BigBlind{}),
		ledger.Act("carol", ledger.Raise{Amount: 30}),
		ledger.Act("alice", ledger.Call{}),
		ledger.Act("bob", ledger.Call{}),
		ledger.Deal(ledger.DealFlop),
		ledger.Act("alice", ledger.Raise{Amount: 50}),
		ledger.Act("bob", ledger.Other{Name: "fold"}),
		ledger.Act("carol", ledger.AllIn{Amount: 270}),
		ledger.Act("alice", ledger.Call{}),
		ledger.Deal(ledger.DealTurn),
		ledger.Deal(ledger.DealRiver),
		ledger.Deal(ledger.DealShowdown),
	}, hand.Log)

	seat, ok := hand.Seats.SeatIndex("carol")
	require.True(t, ok)
	assert.Equal(t, 2, seat)

	l := ledger.Build(hand)
	require.NoError(t, l.Err())

	flop, ok := l.Stage(ledger.Flop)
	require.True(t, ok)
	assert.Equal(t, 90, flop.Pot)
	assert.Equal(t, map[int]int{0: 270, 2: 270}, flop.Bets)

	showdown := l.Terminal()
	assert.Equal(t, ledger.Showdown, showdown.Stage)
	assert.Equal(t, map[int]int{2: 620}, showdown.Winnings)
	assert.Equal(t, 10, showdown.Rake)
	assert.Equal(t, 10, l.TotalRake())
}

func TestToHandShortCallIsAllIn(t *testing.T) {
	t.Parallel()

	h := HandHistory{
		BlindsOrStraddles: []int{1, 2},
		StartingStacks:    []int{100, 40},
		Actions:           []string{"p1 cbr 100", "p2 cc # calls short"},
	}
	hand, err := ToHand(h)
	require.NoError(t, err)

	assert.Equal(t, []ledger.Entry{
		ledger.Act("p1", ledger.SmallBlind{}),
		ledger.Act("p2", ledger.BigBlind{}),
		ledger.Act("p1", ledger.AllIn{Amount: 100}),
		ledger.Act("p2", ledger.AllIn{Amount: 40}),
	}, hand.Log)
	assert.False(t, hand.WinnersKnown)
	assert.Zero(t, hand.Pot, "no finishing stacks, no external pot")
}

func TestToHandStraddleAndRepeatedBoard(t *testing.T) {
	t.Parallel()

	h := HandHistory{
		Players:           []string{"a", "b", "c"},
		Seats:             []int{3, 1, 2},
		BlindsOrStraddles: []int{1, 2, 4},
		StartingStacks:    []int{100, 100, 100},
		Actions:           []string{"d db AhKhQs", "d db AhKhQsJd", "d db AhKhQsJdTc"},
	}
	hand, err := ToHand(h)
	require.NoError(t, err)

	assert.Equal(t, []ledger.Entry{
		ledger.Act("a", ledger.SmallBlind{}),
		ledger.Act("b", ledger.BigBlind{}),
		ledger.Act("c", ledger.Raise{Amount: 4}),
		ledger.Deal(ledger.DealFlop),
		ledger.Deal(ledger.DealTurn),
		ledger.Deal(ledger.DealRiver),
	}, hand.Log)

	seat, ok := hand.Seats.SeatIndex("a")
	require.True(t, ok)
	assert.Equal(t, 2, seat)
}

func headsUp(finishing []int, winnings []int, actions ...string) HandHistory {
	return HandHistory{
		Variant:           "NT",
		Antes:             []int{0, 0},
		BlindsOrStraddles: []int{5, 10},
		MinBet:            10,
		StartingStacks:    []int{100, 100},
		FinishingStacks:   finishing,
		Winnings:          winnings,
		Actions:           actions,
		Players:           []string{"alice", "bob"},
		HandID:            "hand-1",
	}
}

func TestToHandReadsNetWinnings(t *testing.T) {
	t.Parallel()

	// Servers record net chips won, so the stacks decide the payout.
	h := headsUp([]int{110, 90}, []int{10, 0},
		"p1 cc", "p2 cc",
		"d db AhKhQs", "p1 cc", "p2 cc",
		"d db 2c", "p1 cc", "p2 cc",
		"d db 3d", "p1 cc", "p2 cc",
		"p1 sm AsAd", "p2 sm 7c2d",
	)
	hand, err := ToHand(h)
	require.NoError(t, err)
	assert.Equal(t, []ledger.Winner{{ID: "alice", Amount: 20}}, hand.Winners)
	assert.Equal(t, 20, hand.Pot)

	l := ledger.Build(hand)
	require.NoError(t, l.Err())
	assert.Equal(t, ledger.Showdown, l.Terminal().Stage)
	assert.Equal(t, map[int]int{0: 20}, l.Terminal().Winnings)
	assert.Zero(t, l.TotalRake())
}

func TestToHandFoldToBet(t *testing.T) {
	t.Parallel()

	h := headsUp([]int{110, 90}, []int{10, 0},
		"p1 cc", "p2 cc",
		"d db AhKhQs", "p1 cbr 30", "p2 f",
	)
	hand, err := ToHand(h)
	require.NoError(t, err)
	assert.Equal(t, []ledger.Winner{{ID: "alice", Amount: 20}}, hand.Winners)
	assert.Equal(t, 50, hand.Pot, "the uncalled bet counts as a bet")

	l := ledger.Build(hand)
	require.NoError(t, l.Err())

	flop := l.Terminal()
	assert.Equal(t, ledger.Flop, flop.Stage)
	assert.Equal(t, map[int]int{0: 30}, flop.Bets)
	assert.Zero(t, flop.Rake)
}

func TestToHandRakeFromStacks(t *testing.T) {
	t.Parallel()

	// Two chips never reach the winner.
	h := headsUp([]int{108, 90}, []int{8, 0},
		"p1 cc", "p2 cc",
		"d db AhKhQs", "p1 cc", "p2 cc",
		"p1 sm AsAd", "p2 sm 7c2d",
	)
	hand, err := ToHand(h)
	require.NoError(t, err)

	l := ledger.Build(hand)
	require.NoError(t, l.Err())
	assert.Equal(t, 2, l.TotalRake())
}

func TestToHandWinningsWithoutStacks(t *testing.T) {
	t.Parallel()

	h := sampleHand()
	h.FinishingStacks = nil
	hand, err := ToHand(h)
	require.NoError(t, err)
	assert.Equal(t, []ledger.Winner{{ID: "carol", Amount: 620}}, hand.Winners)
	assert.Zero(t, hand.Pot)

	h.FinishingStacks = h.StartingStacks
	hand, err = ToHand(h)
	require.NoError(t, err)
	assert.Equal(t, []ledger.Winner{{ID: "carol", Amount: 620}}, hand.Winners, "unmoved stacks carry no outcome")
}

func TestToHandAntesSkipPotCheck(t *testing.T) {
	t.Parallel()

	h := sampleHand()
	h.Antes = []int{1, 1, 1}
	hand, err := ToHand(h)
	require.NoError(t, err)
	assert.Zero(t, hand.Pot)
}

func TestToHandErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		action string
		reason string
	}{
		{"unknown player", "p9 cc", "invalid player"},
		{"bad token", "x1 cc", "invalid player"},
		{"missing code", "p1", "missing action code"},
		{"missing amount", "p1 cbr", "missing amount"},
		{"bad amount", "p1 cbr ten", "invalid amount"},
		{"bad board", "d db Ah", "unexpected board size 1"},
		{"missing board", "d db", "missing board cards"},
		{"unknown deal", "d xx", "unsupported deal code"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := HandHistory{
				HandID:         "h1",
				Players:        []string{"a", "b"},
				StartingStacks: []int{100, 100},
				Actions:        []string{"p2 f", tt.action},
			}
			_, err := ToHand(h)

			var actionErr *ActionError
			require.True(t, errors.As(err, &actionErr))
			assert.Equal(t, 1, actionErr.Index)
			assert.Equal(t, "h1", actionErr.HandID)
			assert.Contains(t, actionErr.Reason, tt.reason)
		})
	}

	_, err := ToHand(HandHistory{HandID: "empty"})
	assert.ErrorContains(t, err, "has no players")
}
