package mindscript

import "sort"

// Cell is an assignable slot: the unit an Env binds a name to. Indirecting
// through a pointer is what lets a closure and its defining scope share
// mutable state after the scope that created the cell has otherwise gone
// out of lexical reach.
type Cell struct {
	Value Value
}

// Env is a lexical frame: a mapping from identifier to cell, with an
// optional parent, per spec §3.5. Blocks, function bodies, loop bodies, and
// destructuring patterns each introduce a fresh Env; closures capture the
// Env in which their function literal was evaluated, not the Env at call
// time.
type Env struct {
	vars   map[string]*Cell
	parent *Env
}

// NewEnv creates a fresh frame chained to parent. parent may be nil for a
// root frame.
func NewEnv(parent *Env) *Env {
	return &Env{vars: make(map[string]*Cell), parent: parent}
}

// Define introduces a new cell for name in this frame, shadowing any outer
// binding of the same name. This is what `let name = ...` does at its
// introduction site.
func (e *Env) Define(name string, v Value) {
	e.vars[name] = &Cell{Value: v}
}

// Lookup walks from this frame outward and returns the cell bound to name,
// or nil if no such cell exists in this frame or any ancestor.
func (e *Env) Lookup(name string) *Cell {
	for env := e; env != nil; env = env.parent {
		if c, ok := env.vars[name]; ok {
			return c
		}
	}
	return nil
}

// Get returns the value bound to name, walking outward, and whether it was
// found.
func (e *Env) Get(name string) (Value, bool) {
	if c := e.Lookup(name); c != nil {
		return c.Value, true
	}
	return Value{}, false
}

// Assign rebinds the nearest existing cell for name to v. It reports
// whether such a cell existed; callers are expected to raise a NameError
// when it did not (spec §3.5: "[assignment] fails if no such cell
// exists").
func (e *Env) Assign(name string, v Value) bool {
	c := e.Lookup(name)
	if c == nil {
		return false
	}
	c.Value = v
	return true
}

// Snapshot returns an object value (spec §4.6's getEnv contract) listing
// every name bound in this frame — not its ancestors — in an unspecified
// but stable order. It is a snapshot: mutating the returned object never
// perturbs the running program.
func (e *Env) Snapshot() Value {
	keys := make([]string, 0, len(e.vars))
	vals := make(map[string]Value, len(e.vars))
	for name, cell := range e.vars {
		keys = append(keys, name)
		vals[name] = cell.Value
	}
	sort.Strings(keys)
	return NewObject(keys, vals)
}
