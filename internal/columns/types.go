package columns

import (
	"encoding/json"
	"fmt"
	"sort"
)

// KeyPrefix namespaces column layouts in storage.
const KeyPrefix = "table-columns-"

// Key returns the storage key for a table.
func Key(tableID string) string {
	return KeyPrefix + tableID
}

// State is the persisted layout of one column.
type State struct {
	ID      string `json:"id"`
	Visible bool   `json:"visible"`
	Order   int    `json:"order"`
}

// Defaults builds the default layout: every column visible, ordered by
// position.
func Defaults(ids []string) []State {
	states := make([]State, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		states = append(states, State{ID: id, Visible: true, Order: len(states)})
	}
	return states
}

// Encode serializes a layout for storage.
func Encode(states []State) (string, error) {
	data, err := json.Marshal(states)
	if err != nil {
		return "", fmt.Errorf("failed to encode column layout: %w", err)
	}
	return string(data), nil
}

// Decode parses a stored layout. Entries without an id and duplicate ids
// make the value invalid.
func Decode(raw string) ([]State, error) {
	var states []State
	if err := json.Unmarshal([]byte(raw), &states); err != nil {
		return nil, fmt.Errorf("failed to decode column layout: %w", err)
	}
	seen := make(map[string]bool, len(states))
	for _, s := range states {
		if s.ID == "" {
			return nil, fmt.Errorf("failed to decode column layout: empty column id")
		}
		if seen[s.ID] {
			return nil, fmt.Errorf("failed to decode column layout: duplicate column id %q", s.ID)
		}
		seen[s.ID] = true
	}
	return states, nil
}

// sorted returns a copy ordered by Order, ties kept in slice order.
func sorted(states []State) []State {
	out := append([]State(nil), states...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order < out[j].Order
	})
	return out
}
