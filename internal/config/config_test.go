package config

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"casim/internal/core"
)

const validTable = `{
	"name": "majority",
	"states": [0, 1],
	"default_state": 0,
	"neighborhood": [[-1, 0], [0, 0], [1, 0]],
	"rule_mode": "table",
	"rules": [
		[1, 0, 1, 1],
		[0, 1, 0, 0]
	],
	"state_color_map": [[0, 0, 0], [255, 255, 255, 200]]
}`

func TestParseValidTable(t *testing.T) {
	rule, err := Parse([]byte(validTable))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if rule.RuleMode != ModeTable {
		t.Fatalf("mode = %q, want %q", rule.RuleMode, ModeTable)
	}
	if len(rule.Rules) != 2 {
		t.Fatalf("rows = %d, want 2", len(rule.Rules))
	}
	offsets := rule.Offsets()
	want := []core.Point{core.Pt(-1, 0), core.Pt(0, 0), core.Pt(1, 0)}
	for i := range want {
		if offsets[i] != want[i] {
			t.Fatalf("offset %d = %v, want %v", i, offsets[i], want[i])
		}
	}
}

func TestParseValidPlugin(t *testing.T) {
	doc := `{
		"states": [0, 1],
		"default_state": 0,
		"neighborhood": [[0, 0]],
		"rule_mode": "plugin",
		"rule_library": "plugins/life",
		"rule_symbol": "update"
	}`
	rule, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if rule.RuleLibrary != "plugins/life" || rule.RuleSymbol != "update" {
		t.Fatalf("plugin fields = %q/%q", rule.RuleLibrary, rule.RuleSymbol)
	}
}

func TestValidateFailures(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"empty states", `{"states": [], "default_state": 0, "neighborhood": [], "rule_mode": "table", "rules": [[0]]}`},
		{"default not declared", `{"states": [1, 2], "default_state": 0, "neighborhood": [], "rule_mode": "table", "rules": [[1]]}`},
		{"missing mode", `{"states": [0], "default_state": 0, "neighborhood": []}`},
		{"unknown mode", `{"states": [0], "default_state": 0, "neighborhood": [], "rule_mode": "oracle"}`},
		{"row too short", `{"states": [0, 1], "default_state": 0, "neighborhood": [[1, 0], [0, 1]], "rule_mode": "table", "rules": [[0, 1]]}`},
		{"undeclared symbol", `{"states": [0, 1], "default_state": 0, "neighborhood": [[1, 0]], "rule_mode": "table", "rules": [[0, 7]]}`},
		{"table with library", `{"states": [0], "default_state": 0, "neighborhood": [], "rule_mode": "table", "rules": [[0]], "rule_library": "x"}`},
		{"plugin with rows", `{"states": [0], "default_state": 0, "neighborhood": [], "rule_mode": "plugin", "rule_library": "x", "rule_symbol": "y", "rules": [[0]]}`},
		{"plugin missing library", `{"states": [0], "default_state": 0, "neighborhood": [], "rule_mode": "plugin", "rule_symbol": "y"}`},
		{"plugin missing symbol", `{"states": [0], "default_state": 0, "neighborhood": [], "rule_mode": "plugin", "rule_library": "x"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.doc))
			if err == nil {
				t.Fatal("Parse accepted an invalid document")
			}
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("error %v does not wrap ErrInvalid", err)
			}
		})
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	doc := `{"states": [0], "default_state": 0, "neighborhood": [], "rule_mode": "table", "rules": [[0]], "rule_modes": "typo"}`
	if _, err := Parse([]byte(doc)); err == nil {
		t.Fatal("Parse accepted an unknown field")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rule.json")
	if err := os.WriteFile(path, []byte(validTable), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	rule, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if rule.Name != "majority" {
		t.Fatalf("name = %q, want %q", rule.Name, "majority")
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("Load succeeded on a missing file")
	}
}

func TestColors(t *testing.T) {
	rule, err := Parse([]byte(validTable))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	colors := rule.Colors()
	black := colors[0]
	if black.R != 0 || black.G != 0 || black.B != 0 || black.A != 255 {
		t.Fatalf("state 0 color = %v, want opaque black", black)
	}
	white := colors[1]
	if white.R != 255 || white.A != 200 {
		t.Fatalf("state 1 color = %v, want RGBA white with alpha 200", white)
	}
}

func TestColorsFallBackOnBadEntries(t *testing.T) {
	rule := &Rule{
		States:      []int32{0, 1, 2},
		StateColors: [][]uint8{{1, 2}, {3, 4, 5}},
	}
	colors := rule.Colors()
	if len(colors) != 3 {
		t.Fatalf("colors for %d states, want 3", len(colors))
	}
	// Entry 0 is malformed (2 components) and entry 2 is missing; both must
	// still resolve to opaque generated colors.
	if colors[0].A != 255 || colors[2].A != 255 {
		t.Fatalf("fallback colors not opaque: %v", colors)
	}
	if colors[1] != (color.RGBA{R: 3, G: 4, B: 5, A: 255}) {
		t.Fatalf("state 1 color = %v, want {3 4 5 255}", colors[1])
	}
}
