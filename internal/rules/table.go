package rules

// ruleTable is a prefix tree mapping a complete neighbor-state sequence to
// a result state. Matching is exact: a prefix of an inserted sequence is
// not a match and there are no wildcards, so every pattern that should
// transition must be enumerated.
type ruleTable struct {
	root *tableNode
}

type tableNode struct {
	children map[int32]*tableNode
	terminal bool
	result   int32
}

func newRuleTable() *ruleTable {
	return &ruleTable{root: &tableNode{}}
}

// insert records pattern → result, consuming one symbol per tree level.
// Re-inserting a pattern overwrites its result.
func (t *ruleTable) insert(pattern []int32, result int32) {
	n := t.root
	for _, sym := range pattern {
		if n.children == nil {
			n.children = map[int32]*tableNode{}
		}
		child, ok := n.children[sym]
		if !ok {
			child = &tableNode{}
			n.children[sym] = child
		}
		n = child
	}
	n.terminal = true
	n.result = result
}

// lookup walks the tree by symbol. It reports a result only when the whole
// pattern ends exactly on a terminal node.
func (t *ruleTable) lookup(pattern []int32) (int32, bool) {
	n := t.root
	for _, sym := range pattern {
		child, ok := n.children[sym]
		if !ok {
			return 0, false
		}
		n = child
	}
	if !n.terminal {
		return 0, false
	}
	return n.result, true
}
