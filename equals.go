package mindscript

import (
	"reflect"

	"github.com/zephyrtronium/contains"
)

// ptrID returns the address of v's backing pointer, used as an identity key
// for reference-identity comparisons and for cycle detection while walking
// arrays and objects. It mirrors the teacher's reflect-based UniqueID
// fallback (uniqueid_reflect.go) rather than using unsafe directly, since
// MindScript values are never on a performance path as hot as Io's message
// passing.
func ptrID(v Value) (uintptr, bool) {
	id := v.identity()
	if id == nil {
		return 0, false
	}
	return reflect.ValueOf(id).Pointer(), true
}

// pairID folds two identities into the single key contains.Set guards on,
// so a pairwise array/object walk can reuse the same cycle-detection
// primitive printer.go's single-value walk uses.
func pairID(a, b uintptr) uintptr {
	return a ^ (b*0x9e3779b97f4a7c15 + 1)
}

// ValueEquals implements spec §4.5's equality rule: deep structural over
// booleans, strings, numbers (Int/Num compare numerically), arrays
// (pairwise), objects (same key set, pairwise equal values, key ordering
// irrelevant), and type values (structural term equality); functions and
// oracles compare by identity only.
func ValueEquals(a, b Value) bool {
	return valueEquals(a, b, contains.Set{})
}

func valueEquals(a, b Value, seen contains.Set) bool {
	switch {
	case a.Kind == KNull && b.Kind == KNull:
		return true
	case a.Kind == KBool && b.Kind == KBool:
		return a.b == b.b
	case a.Kind == KStr && b.Kind == KStr:
		return a.s == b.s
	case isNumeric(a) && isNumeric(b):
		if a.Kind == KInt && b.Kind == KInt {
			return a.i == b.i
		}
		return a.NumOf() == b.NumOf()
	case a.Kind == KType && b.Kind == KType:
		return equalTypes(a.typ, b.typ)
	case a.Kind == KArray && b.Kind == KArray:
		return arraysEqual(a, b, seen)
	case a.Kind == KObject && b.Kind == KObject:
		return objectsEqual(a, b, seen)
	case a.Kind == KFunction && b.Kind == KFunction:
		return a.fn == b.fn
	case a.Kind == KOracle && b.Kind == KOracle:
		return a.orc == b.orc
	}
	return false
}

func isNumeric(v Value) bool { return v.Kind == KInt || v.Kind == KNum }

func arraysEqual(a, b Value, seen contains.Set) bool {
	ida, _ := ptrID(a)
	idb, _ := ptrID(b)
	if !seen.Add(pairID(ida, idb)) {
		// Already descending into this pair: a direct or indirect cycle,
		// assumed equal to itself so the walk terminates.
		return true
	}
	ai, bi := a.Items(), b.Items()
	if len(ai) != len(bi) {
		return false
	}
	for i := range ai {
		if !valueEquals(ai[i], bi[i], seen) {
			return false
		}
	}
	return true
}

func objectsEqual(a, b Value, seen contains.Set) bool {
	ida, _ := ptrID(a)
	idb, _ := ptrID(b)
	if !seen.Add(pairID(ida, idb)) {
		return true
	}
	ak, bk := a.Keys(), b.Keys()
	if len(ak) != len(bk) {
		return false
	}
	for _, k := range ak {
		bv, ok := b.Get(k)
		if !ok {
			return false
		}
		av, _ := a.Get(k)
		if !valueEquals(av, bv, seen) {
			return false
		}
	}
	return true
}
