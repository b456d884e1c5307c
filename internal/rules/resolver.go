package rules

// Resolver turns one cell's neighbor-state pattern into its next state.
// Exactly one implementation is selected when the engine is constructed;
// the engine never switches strategies per call.
type Resolver interface {
	// Resolve returns the next state for a cell currently holding current
	// whose neighbors hold pattern, in neighborhood order.
	Resolve(pattern []int32, current int32) int32
	// Close releases any resources the resolver owns.
	Close() error
}

// TableResolver resolves patterns through an exact-match rule table. A
// pattern with no entry keeps the cell's current state.
type TableResolver struct {
	table *ruleTable
}

// NewTableResolver builds the rule table from configured rows, each row
// being the neighbor symbols followed by the result state.
func NewTableResolver(rows [][]int32) *TableResolver {
	t := newRuleTable()
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		t.insert(row[:len(row)-1], row[len(row)-1])
	}
	return &TableResolver{table: t}
}

// Resolve looks the pattern up, falling back to the current state.
func (r *TableResolver) Resolve(pattern []int32, current int32) int32 {
	if next, ok := r.table.lookup(pattern); ok {
		return next
	}
	return current
}

// Close is a no-op; the table owns no external resources.
func (r *TableResolver) Close() error { return nil }

// PluginResolver resolves patterns through a dynamically loaded rule
// function. The plugin's return value is always authoritative; there is no
// unmatched case in this mode.
type PluginResolver struct {
	binding *binding
}

// NewPluginResolver loads the shared library and binds the rule symbol. On
// any failure nothing stays loaded and the error is returned; the caller
// must treat it as fatal rather than fall back to another mode.
func NewPluginResolver(libraryBase, symbol string) (*PluginResolver, error) {
	b := &binding{}
	if err := b.load(libraryBase, symbol); err != nil {
		return nil, err
	}
	return &PluginResolver{binding: b}, nil
}

// Resolve invokes the loaded rule function.
func (r *PluginResolver) Resolve(pattern []int32, current int32) int32 {
	return r.binding.call(pattern)
}

// Close unloads the library.
func (r *PluginResolver) Close() error {
	r.binding.unload()
	return nil
}
