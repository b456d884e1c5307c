package rules

import "testing"

func TestTableExactMatch(t *testing.T) {
	tab := newRuleTable()
	tab.insert([]int32{0, 1, 1}, 7)
	tab.insert([]int32{0, 1, 0}, 3)

	if got, ok := tab.lookup([]int32{0, 1, 1}); !ok || got != 7 {
		t.Fatalf("lookup(011) = %d, %v; want 7, true", got, ok)
	}
	if got, ok := tab.lookup([]int32{0, 1, 0}); !ok || got != 3 {
		t.Fatalf("lookup(010) = %d, %v; want 3, true", got, ok)
	}
}

func TestTablePrefixIsNotAMatch(t *testing.T) {
	tab := newRuleTable()
	tab.insert([]int32{5, 5, 5}, 1)

	if _, ok := tab.lookup([]int32{5, 5}); ok {
		t.Fatal("strict prefix of an inserted pattern matched")
	}
	if _, ok := tab.lookup([]int32{5, 5, 5, 5}); ok {
		t.Fatal("extension of an inserted pattern matched")
	}
	if _, ok := tab.lookup([]int32{5, 5, 6}); ok {
		t.Fatal("divergent pattern matched")
	}
}

func TestTableEmptyPattern(t *testing.T) {
	tab := newRuleTable()
	if _, ok := tab.lookup(nil); ok {
		t.Fatal("fresh table matched the empty pattern")
	}
	tab.insert(nil, 9)
	if got, ok := tab.lookup(nil); !ok || got != 9 {
		t.Fatalf("lookup(empty) = %d, %v; want 9, true", got, ok)
	}
}

func TestTableOverwrite(t *testing.T) {
	tab := newRuleTable()
	tab.insert([]int32{1, 2}, 3)
	tab.insert([]int32{1, 2}, 4)
	if got, ok := tab.lookup([]int32{1, 2}); !ok || got != 4 {
		t.Fatalf("lookup after overwrite = %d, %v; want 4, true", got, ok)
	}
}

func TestTableResolverIdentityFallback(t *testing.T) {
	r := NewTableResolver([][]int32{{0, 1}})
	if got := r.Resolve([]int32{0}, 5); got != 1 {
		t.Fatalf("matched resolve = %d, want 1", got)
	}
	if got := r.Resolve([]int32{9}, 5); got != 5 {
		t.Fatalf("unmatched resolve = %d, want current state 5", got)
	}
}
