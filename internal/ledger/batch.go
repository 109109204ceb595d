package ledger

import (
	"context"
	"encoding/binary"
	"hash/fnv"

	"golang.org/x/sync/errgroup"
)

// BuildAll builds one ledger per hand using at most workers goroutines.
// Results keep the input order. Builds are independent, so the only error is
// context cancellation.
func BuildAll(ctx context.Context, bl *Builder, hands []Hand, workers int) ([]*Ledger, error) {
	if bl == nil {
		bl = defaultBuilder
	}
	if workers <= 0 {
		workers = 1
	}

	out := make([]*Ledger, len(hands))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range hands {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = bl.Build(hands[i])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Key identifies a hand snapshot for memoisation. The action log is
// append-only, so a hand ID plus the log length pins its contents; the seat
// map is fixed for the lifetime of a hand.
type Key struct {
	HandID       string
	LogLen       int
	WinnersLen   int
	Winners      uint64
	WinnersKnown bool
	Blinds       Blinds
	Pot          int
}

// KeyOf derives the memoisation key for hand.
func KeyOf(hand Hand) Key {
	return Key{
		HandID:       hand.ID,
		LogLen:       len(hand.Log),
		WinnersLen:   len(hand.Winners),
		Winners:      winnersDigest(hand.Winners),
		WinnersKnown: hand.WinnersKnown,
		Blinds:       hand.Blinds,
		Pot:          hand.Pot,
	}
}

// winnersDigest hashes the ordered (identity, amount) pairs.
func winnersDigest(winners []Winner) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	for _, w := range winners {
		h.Write([]byte(w.ID))
		h.Write([]byte{0})
		binary.LittleEndian.PutUint64(buf[:], uint64(int64(w.Amount)))
		h.Write(buf[:])
	}
	return h.Sum64()
}
