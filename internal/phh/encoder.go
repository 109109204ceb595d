package phh

import (
	"fmt"
	"io"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Encode writes the hand history to the provided writer in PHH TOML format.
func Encode(w io.Writer, hand *HandHistory) error {
	if hand == nil {
		return fmt.Errorf("phh: hand history is nil")
	}

	enc := toml.NewEncoder(w)
	enc.Indent = "\t"
	return enc.Encode(hand)
}

// EncodeSession writes hands as a sectioned session ([1], [2], ...) that
// Decode reads back in order.
func EncodeSession(w io.Writer, hands []HandHistory) error {
	sections := make(map[string]HandHistory, len(hands))
	for i, hand := range hands {
		sections[strconv.Itoa(i+1)] = hand
	}
	enc := toml.NewEncoder(w)
	enc.Indent = "\t"
	return enc.Encode(sections)
}
