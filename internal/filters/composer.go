// Package filters holds the selected option values of a table's filters and
// turns them into row predicates.
package filters

import (
	"slices"

	"github.com/expr-lang/expr/vm"

	"tablestate/internal/logging"
)

// Composer holds the current filter values of one table screen. Every
// configured key always has a list, possibly empty.
type Composer struct {
	configs  []Config
	keys     []string
	values   Values
	onChange ChangeFunc
	logger   logging.Logger

	program    *vm.Program
	programSrc string
}

// NewComposer creates a composer for configs, seeded from initial. Initial
// values for keys that are not configured are ignored.
func NewComposer(configs []Config, initial Values, opts ...Option) *Composer {
	c := &Composer{
		configs: slices.Clone(configs),
		values:  make(Values, len(configs)),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.OrDefault(c.logger)

	for _, cfg := range configs {
		if _, dup := c.values[cfg.Key]; dup {
			continue
		}
		c.keys = append(c.keys, cfg.Key)
		c.values[cfg.Key] = append([]string{}, initial[cfg.Key]...)
	}
	return c
}

// Configs returns the filter declarations.
func (c *Composer) Configs() []Config {
	return slices.Clone(c.configs)
}

// Config returns the declaration for key.
func (c *Composer) Config(key string) (Config, bool) {
	for _, cfg := range c.configs {
		if cfg.Key == key {
			return cfg, true
		}
	}
	return Config{}, false
}

// Keys returns the configured keys in declaration order followed by keys
// added through SetFilter.
func (c *Composer) Keys() []string {
	return slices.Clone(c.keys)
}

// Values returns a copy of the full mapping.
func (c *Composer) Values() Values {
	return c.values.Clone()
}

// Get returns the values of key; unknown keys yield an empty list.
func (c *Composer) Get(key string) []string {
	return append([]string{}, c.values[key]...)
}

// SetFilter replaces the values of key. Unknown keys are added.
func (c *Composer) SetFilter(key string, values []string) {
	c.put(key, append([]string{}, values...))
	c.notify()
}

// ClearFilter empties the values of key.
func (c *Composer) ClearFilter(key string) {
	c.put(key, []string{})
	c.notify()
}

// ClearAllFilters empties every key with a single notification.
func (c *Composer) ClearAllFilters() {
	next := make(Values, len(c.keys))
	for _, k := range c.keys {
		next[k] = []string{}
	}
	c.values = next
	c.notify()
}

// HasActiveFilters reports whether any key has a value.
func (c *Composer) HasActiveFilters() bool {
	return c.ActiveFilterCount() > 0
}

// ActiveFilterCount counts the keys with at least one value.
func (c *Composer) ActiveFilterCount() int {
	n := 0
	for _, vals := range c.values {
		if len(vals) > 0 {
			n++
		}
	}
	return n
}

// Cycle advances key through its choices one value at a time: none, the
// first choice, the second, and back to none. It is how single-key
// shortcuts drive a multi-select.
func (c *Composer) Cycle(key string) {
	cfg, ok := c.Config(key)
	if !ok || len(cfg.Choices) == 0 {
		return
	}
	current := c.values[key]
	next := []string{cfg.Choices[0].Value}
	if len(current) == 1 {
		i := slices.IndexFunc(cfg.Choices, func(ch Choice) bool { return ch.Value == current[0] })
		switch {
		case i < 0:
		case i == len(cfg.Choices)-1:
			next = []string{}
		default:
			next = []string{cfg.Choices[i+1].Value}
		}
	}
	c.SetFilter(key, next)
}

func (c *Composer) put(key string, values []string) {
	if _, ok := c.values[key]; !ok {
		c.keys = append(c.keys, key)
	}
	next := c.values.Clone()
	next[key] = values
	c.values = next
}

func (c *Composer) notify() {
	if c.onChange != nil {
		c.onChange(c.values.Clone())
	}
}
