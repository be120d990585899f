package recon

import (
	"reflect"
	"testing"
)

func TestResolveWithoutOverride(t *testing.T) {
	global := Policy{IgnoredTypes: []string{"SOA", "NS"}, PreserveRemote: true}

	effective := Resolve(global, nil)

	if !reflect.DeepEqual(effective, global) {
		t.Errorf("expected global policy unchanged, got %+v", effective)
	}
}

func TestResolveReplacesIgnoredTypes(t *testing.T) {
	global := Policy{IgnoredTypes: []string{"SOA"}}
	override := &PolicyOverride{IgnoredTypes: &[]string{"NS", "TXT"}}

	effective := Resolve(global, override)

	// The override replaces the global list, it is not unioned with it.
	want := []string{"NS", "TXT"}
	if !reflect.DeepEqual(effective.IgnoredTypes, want) {
		t.Errorf("expected ignored types %v, got %v", want, effective.IgnoredTypes)
	}
}

func TestResolveEmptyIgnoredTypesOverride(t *testing.T) {
	global := DefaultPolicy()
	override := &PolicyOverride{IgnoredTypes: &[]string{}}

	effective := Resolve(global, override)

	if len(effective.IgnoredTypes) != 0 {
		t.Errorf("expected empty ignored types, got %v", effective.IgnoredTypes)
	}
}

func TestResolvePreserveRemoteOverride(t *testing.T) {
	preserve := true
	effective := Resolve(DefaultPolicy(), &PolicyOverride{PreserveRemote: &preserve})

	if !effective.PreserveRemote {
		t.Error("expected preserve_remote to be overridden to true")
	}
	// The untouched field inherits the global value.
	if !reflect.DeepEqual(effective.IgnoredTypes, DefaultPolicy().IgnoredTypes) {
		t.Errorf("expected default ignored types, got %v", effective.IgnoredTypes)
	}
}

func TestDefaultPolicyIgnoresSOA(t *testing.T) {
	policy := DefaultPolicy()

	if !policy.Ignores("SOA") {
		t.Error("expected SOA to be ignored by default")
	}
	if policy.Ignores("A") {
		t.Error("did not expect A to be ignored by default")
	}
	if policy.PreserveRemote {
		t.Error("did not expect preserve_remote by default")
	}
}
