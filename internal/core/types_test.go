package core

import "testing"

func TestPointArithmetic(t *testing.T) {
	p := Pt(3, -2)
	q := Pt(-1, 5)

	if got := p.Add(q); got != Pt(2, 3) {
		t.Fatalf("Add: got %v, want (2, 3)", got)
	}
	if got := p.Sub(q); got != Pt(4, -7) {
		t.Fatalf("Sub: got %v, want (4, -7)", got)
	}
}

func TestPointLess(t *testing.T) {
	cases := []struct {
		name string
		a, b Point
		want bool
	}{
		{"smaller x wins", Pt(-1, 9), Pt(0, -9), true},
		{"larger x loses", Pt(1, -9), Pt(0, 9), false},
		{"equal x compares y", Pt(2, 1), Pt(2, 3), true},
		{"equal points", Pt(2, 3), Pt(2, 3), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Less(tc.b); got != tc.want {
				t.Fatalf("%v.Less(%v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestPointAsMapKey(t *testing.T) {
	m := map[Point]int32{}
	m[Pt(1, 2)] = 7
	m[Pt(1, 2)] = 9
	if len(m) != 1 || m[Pt(1, 2)] != 9 {
		t.Fatalf("map keyed by Point did not overwrite: %v", m)
	}
}

func TestFixedStepDefaults(t *testing.T) {
	fs := NewFixedStep(0)
	if fs.TPS() != 60 {
		t.Fatalf("TPS after NewFixedStep(0) = %d, want 60", fs.TPS())
	}
	fs.SetTPS(-5)
	if fs.TPS() != 60 {
		t.Fatalf("TPS after SetTPS(-5) = %d, want 60", fs.TPS())
	}
	fs.SetTPS(12)
	if fs.TPS() != 12 {
		t.Fatalf("TPS after SetTPS(12) = %d, want 12", fs.TPS())
	}
}
