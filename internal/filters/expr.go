package filters

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	exprlang "github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var reserved = map[string]bool{
	"in": true, "not": true, "and": true, "or": true, "let": true,
	"nil": true, "true": true, "false": true, "matches": true,
	"contains": true, "startsWith": true, "endsWith": true,
}

// Expression renders the active filters as an expr-lang condition, one
// membership test per active key joined with &&. It is empty when no filter
// is active.
func (c *Composer) Expression() string {
	var parts []string
	for _, key := range c.keys {
		vals := c.values[key]
		if len(vals) == 0 {
			continue
		}
		quoted := make([]string, len(vals))
		for i, v := range vals {
			quoted[i] = strconv.Quote(v)
		}
		parts = append(parts, fmt.Sprintf("%s in [%s]", reference(key), strings.Join(quoted, ", ")))
	}
	return strings.Join(parts, " && ")
}

// Compile returns the program for the current Expression, or nil when no
// filter is active. The last program is cached until the values change.
func (c *Composer) Compile() (*vm.Program, error) {
	src := c.Expression()
	if src == "" {
		return nil, nil
	}
	if c.program != nil && c.programSrc == src {
		return c.program, nil
	}
	program, err := exprlang.Compile(src, exprlang.AsBool(), exprlang.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("failed to compile filter expression %q: %w", src, err)
	}
	c.program = program
	c.programSrc = src
	return program, nil
}

// Match runs program against env. A nil program matches everything.
func Match(program *vm.Program, env map[string]any) (bool, error) {
	if program == nil {
		return true, nil
	}
	out, err := exprlang.Run(program, env)
	if err != nil {
		return false, fmt.Errorf("failed to evaluate filter: %w", err)
	}
	ok, _ := out.(bool)
	return ok, nil
}

// Predicate compiles the current filters into a row predicate. Rows whose
// evaluation fails are treated as not matching.
func Predicate[T any](c *Composer, env func(T) map[string]any) (func(T) bool, error) {
	program, err := c.Compile()
	if err != nil {
		return nil, err
	}
	if program == nil {
		return nil, nil
	}
	return func(row T) bool {
		ok, err := Match(program, env(row))
		if err != nil {
			c.logger.Debug("filter evaluation failed", "error", err)
			return false
		}
		return ok
	}, nil
}

func reference(key string) string {
	if identifier.MatchString(key) && !reserved[key] {
		return key
	}
	return fmt.Sprintf("$env[%s]", strconv.Quote(key))
}
