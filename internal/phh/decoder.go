// Package phh reads and writes hand histories in the Poker Hand History
// (PHH) TOML format and converts them into ledger input.
package phh

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// LoadFile reads every hand from a .phh or .phhs file.
func LoadFile(path string) ([]HandHistory, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	hands, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return hands, nil
}

// Decode reads hands from r. Sectioned sessions ([1], [2], ...) are returned
// in numeric section order; otherwise the input is split into one chunk per
// hand on separator comments or repeated version keys.
func Decode(r io.Reader) ([]HandHistory, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	if hands, ok := decodeSectioned(string(data)); ok {
		return hands, nil
	}

	chunks := splitChunks(string(data))
	hands := make([]HandHistory, 0, len(chunks))
	for idx, chunk := range chunks {
		var hand HandHistory
		if _, err := toml.Decode(chunk, &hand); err != nil {
			return nil, fmt.Errorf("decode chunk %d: %w", idx+1, err)
		}
		normalizeHandID(&hand, len(hands)+1)
		hands = append(hands, hand)
	}
	return hands, nil
}

func decodeSectioned(raw string) ([]HandHistory, bool) {
	sections := make(map[string]HandHistory)
	if _, err := toml.Decode(raw, &sections); err != nil || len(sections) == 0 {
		return nil, false
	}

	keys := make([]string, 0, len(sections))
	for k := range sections {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return compareSectionKeys(keys[i], keys[j])
	})

	hands := make([]HandHistory, 0, len(keys))
	for _, key := range keys {
		hand := sections[key]
		if hand.HandID == "" && hand.LegacyHandID == "" {
			hand.HandID = key
		}
		normalizeHandID(&hand, len(hands)+1)
		hands = append(hands, hand)
	}
	return hands, true
}

func compareSectionKeys(a, b string) bool {
	ai, errA := strconv.Atoi(strings.TrimPrefix(a, "hand_"))
	bi, errB := strconv.Atoi(strings.TrimPrefix(b, "hand_"))
	if errA == nil && errB == nil {
		return ai < bi
	}
	return a < b
}

func splitChunks(data string) []string {
	var chunks []string
	cur := make([]string, 0, 64)
	flush := func() {
		if len(cur) == 0 {
			return
		}
		if chunk := strings.TrimSpace(strings.Join(cur, "\n")); chunk != "" {
			chunks = append(chunks, chunk)
		}
		cur = cur[:0]
	}

	for _, line := range strings.Split(data, "\n") {
		trim := strings.TrimSpace(line)
		if strings.HasPrefix(trim, "# ─") {
			flush()
			continue
		}
		if strings.HasPrefix(trim, "version") && strings.Contains(trim, "=") && len(cur) > 0 {
			flush()
		}
		if trim == "" && len(cur) == 0 {
			continue
		}
		cur = append(cur, line)
	}
	flush()
	return chunks
}

func normalizeHandID(hand *HandHistory, nextIndex int) {
	if hand.HandID == "" {
		hand.HandID = hand.LegacyHandID
	}
	if hand.HandID == "" {
		hand.HandID = fmt.Sprintf("hand-%d", nextIndex)
	}
}
