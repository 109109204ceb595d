package phh

import (
	"strconv"
	"strings"
)

// parseCardRun splits a run such as "AhKhQs" into two-character cards.
func parseCardRun(run string) []string {
	run = strings.TrimSpace(run)
	if run == "" {
		return nil
	}
	cards := make([]string, 0, (len(run)+1)/2)
	for i := 0; i < len(run); i += 2 {
		end := min(i+2, len(run))
		cards = append(cards, run[i:end])
	}
	return cards
}

// boardSize returns the board length after a "d db" deal of n cards on top
// of a board of current cards. Some writers repeat the whole board on every
// street, so a deal at least as large as the current board replaces it.
func boardSize(current, n int) int {
	switch {
	case current == 0:
		return n
	case n == 1:
		return current + 1
	case n >= current:
		return n
	default:
		return current + n
	}
}

// parsePosition converts a "pN" token to a 0-based position, or -1.
func parsePosition(token string) int {
	if !strings.HasPrefix(token, "p") {
		return -1
	}
	v, err := strconv.Atoi(token[1:])
	if err != nil || v < 1 {
		return -1
	}
	return v - 1
}

func positionToken(pos int) string {
	return "p" + strconv.Itoa(pos+1)
}
