// Package config loads the rule configuration files that define a cellular
// automaton: its states, neighborhood, and transition rule source. The
// structs are exported so tooling (e.g. schema generators) can reflect over
// the configuration contract shared with rule authors.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"casim/internal/core"
)

// Resolution modes accepted in the rule_mode field.
const (
	ModeTable  = "table"
	ModePlugin = "plugin"
)

// ErrInvalid wraps every validation failure so callers can test for the
// class with errors.Is.
var ErrInvalid = errors.New("invalid rule configuration")

// Rule is a rule configuration document as it appears on disk.
type Rule struct {
	Name         string      `json:"name,omitempty" jsonschema:"title=Rule name,description=Display name shown in window titles and logs."`
	States       []int32     `json:"states" jsonschema:"title=Declared states,description=Every state value cells may hold.,minItems=1,required"`
	DefaultState int32       `json:"default_state" jsonschema:"title=Default state,description=State assumed for cells not stored explicitly. Must be one of the declared states."`
	Neighborhood [][2]int32  `json:"neighborhood" jsonschema:"title=Neighborhood offsets,description=Ordered relative offsets sampled for each cell. Order is the positional input to rule resolution.,required"`
	RuleMode     string      `json:"rule_mode" jsonschema:"title=Resolution mode,enum=table,enum=plugin,required"`
	Rules        [][]int32   `json:"rules,omitempty" jsonschema:"title=Transition table,description=Table mode only: each row lists one state per neighborhood offset followed by the resulting state."`
	RuleLibrary  string      `json:"rule_library,omitempty" jsonschema:"title=Rule library,description=Plugin mode only: shared library path base resolved with platform prefix and extension."`
	RuleSymbol   string      `json:"rule_symbol,omitempty" jsonschema:"title=Rule symbol,description=Plugin mode only: exported function implementing int32 update(const int32*)."`
	StateColors  [][]uint8   `json:"state_color_map,omitempty" jsonschema:"title=State colors,description=Optional RGB or RGBA triples aligned with the states list. Invalid entries fall back to generated colors."`
}

// Load reads and validates a rule configuration file.
func Load(path string) (*Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule configuration: %w", err)
	}
	rule, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return rule, nil
}

// Parse decodes and validates a rule configuration document. Unknown fields
// are rejected so typos surface instead of silently configuring nothing.
func Parse(data []byte) (*Rule, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	rule := &Rule{}
	if err := dec.Decode(rule); err != nil {
		return nil, fmt.Errorf("decode rule configuration: %w", err)
	}
	if err := rule.Validate(); err != nil {
		return nil, err
	}
	return rule, nil
}

// Validate checks the structural constraints the engine relies on. Any
// violation wraps ErrInvalid.
func (r *Rule) Validate() error {
	if len(r.States) == 0 {
		return fmt.Errorf("%w: states list is empty", ErrInvalid)
	}
	declared := make(map[int32]struct{}, len(r.States))
	for _, s := range r.States {
		declared[s] = struct{}{}
	}
	if _, ok := declared[r.DefaultState]; !ok {
		return fmt.Errorf("%w: default_state %d is not a declared state", ErrInvalid, r.DefaultState)
	}

	switch r.RuleMode {
	case ModeTable:
		if len(r.Rules) == 0 {
			return fmt.Errorf("%w: table mode requires at least one rule row", ErrInvalid)
		}
		if r.RuleLibrary != "" || r.RuleSymbol != "" {
			return fmt.Errorf("%w: table mode does not accept rule_library/rule_symbol", ErrInvalid)
		}
		want := len(r.Neighborhood) + 1
		for i, row := range r.Rules {
			if len(row) != want {
				return fmt.Errorf("%w: rule row %d has %d symbols, want %d (neighborhood size + result)", ErrInvalid, i, len(row), want)
			}
			for j, sym := range row {
				if _, ok := declared[sym]; !ok {
					return fmt.Errorf("%w: rule row %d symbol %d: state %d is not declared", ErrInvalid, i, j, sym)
				}
			}
		}
	case ModePlugin:
		if len(r.Rules) != 0 {
			return fmt.Errorf("%w: plugin mode does not accept a rules table", ErrInvalid)
		}
		if r.RuleLibrary == "" {
			return fmt.Errorf("%w: plugin mode requires rule_library", ErrInvalid)
		}
		if r.RuleSymbol == "" {
			return fmt.Errorf("%w: plugin mode requires rule_symbol", ErrInvalid)
		}
	case "":
		return fmt.Errorf("%w: rule_mode is missing", ErrInvalid)
	default:
		return fmt.Errorf("%w: unknown rule_mode %q", ErrInvalid, r.RuleMode)
	}
	return nil
}

// Offsets returns the neighborhood as grid points, preserving order.
func (r *Rule) Offsets() []core.Point {
	out := make([]core.Point, len(r.Neighborhood))
	for i, n := range r.Neighborhood {
		out[i] = core.Pt(n[0], n[1])
	}
	return out
}
