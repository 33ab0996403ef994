package mindscript

import "testing"

func TestEnvDefineAndGet(t *testing.T) {
	e := NewEnv(nil)
	e.Define("x", Int(1))
	v, ok := e.Get("x")
	if !ok || !ValueEquals(v, Int(1)) {
		t.Fatalf("Get(x) = %v, %v; want 1, true", v, ok)
	}
	if _, ok := e.Get("y"); ok {
		t.Error("Get(y) should fail on an undefined name")
	}
}

func TestEnvLookupWalksParent(t *testing.T) {
	parent := NewEnv(nil)
	parent.Define("x", Int(1))
	child := NewEnv(parent)
	v, ok := child.Get("x")
	if !ok || !ValueEquals(v, Int(1)) {
		t.Fatalf("child should see parent's binding: got %v, %v", v, ok)
	}
}

func TestEnvDefineShadows(t *testing.T) {
	parent := NewEnv(nil)
	parent.Define("x", Int(1))
	child := NewEnv(parent)
	child.Define("x", Int(2))
	v, _ := child.Get("x")
	if !ValueEquals(v, Int(2)) {
		t.Errorf("child's own binding should shadow the parent's: got %v", v)
	}
	pv, _ := parent.Get("x")
	if !ValueEquals(pv, Int(1)) {
		t.Errorf("shadowing in a child should not mutate the parent: got %v", pv)
	}
}

func TestEnvAssignFailsWithoutExistingCell(t *testing.T) {
	e := NewEnv(nil)
	if e.Assign("x", Int(1)) {
		t.Error("Assign should fail when no cell for the name exists")
	}
}

func TestEnvAssignRebindsThroughClosure(t *testing.T) {
	outer := NewEnv(nil)
	outer.Define("x", Int(1))
	inner := NewEnv(outer)
	if !inner.Assign("x", Int(2)) {
		t.Fatal("Assign should find the cell through the parent chain")
	}
	v, _ := outer.Get("x")
	if !ValueEquals(v, Int(2)) {
		t.Errorf("Assign should mutate the existing cell in place: got %v", v)
	}
}

func TestEnvSnapshotIsOwnFrameOnly(t *testing.T) {
	parent := NewEnv(nil)
	parent.Define("x", Int(1))
	child := NewEnv(parent)
	child.Define("y", Int(2))
	snap := child.Snapshot()
	if _, ok := snap.Get("y"); !ok {
		t.Error("snapshot should include the frame's own bindings")
	}
	if _, ok := snap.Get("x"); ok {
		t.Error("snapshot should not include ancestor bindings")
	}
}

func TestEnvSnapshotIsNotLive(t *testing.T) {
	e := NewEnv(nil)
	e.Define("x", Int(1))
	snap := e.Snapshot()
	e.Assign("x", Int(2))
	v, _ := snap.Get("x")
	if !ValueEquals(v, Int(1)) {
		t.Errorf("mutating the running env should not perturb a prior snapshot: got %v", v)
	}
}
