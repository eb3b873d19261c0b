package filters

import (
	"strings"

	"tablestate/internal/logging"
)

// Choice is one selectable value of a filter.
type Choice struct {
	Label string `json:"label" toml:"label"`
	Value string `json:"value" toml:"value"`
}

// Config declares a filter shown above a table.
type Config struct {
	Key         string   `json:"key" toml:"key"`
	Label       string   `json:"label" toml:"label"`
	Choices     []Choice `json:"options" toml:"options"`
	Placeholder string   `json:"placeholder,omitempty" toml:"placeholder"`
}

// PlaceholderText is the placeholder shown when nothing is selected.
func (c Config) PlaceholderText() string {
	if c.Placeholder != "" {
		return c.Placeholder
	}
	return "Select " + strings.ToLower(c.Label)
}

// ChoiceLabel returns the label of value, or value itself when unknown.
func (c Config) ChoiceLabel(value string) string {
	for _, ch := range c.Choices {
		if ch.Value == value {
			return ch.Label
		}
	}
	return value
}

// Values maps a filter key to its selected values.
type Values map[string][]string

// Clone returns a deep copy; nil lists become empty lists.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, vals := range v {
		out[k] = append([]string{}, vals...)
	}
	return out
}

// ChangeFunc receives the complete filter mapping after each mutation.
type ChangeFunc func(values Values)

// Option configures a Composer.
type Option func(*Composer)

// WithFilterChange registers the change callback.
func WithFilterChange(fn ChangeFunc) Option {
	return func(c *Composer) {
		c.onChange = fn
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(c *Composer) {
		c.logger = l
	}
}
