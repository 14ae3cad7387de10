package feature

import "testing"

func TestInternerStableIDs(t *testing.T) {
	in := NewInterner()

	a := in.Intern("D")
	b := in.Intern("C")
	again := in.Intern("D")

	if a != again {
		t.Fatalf("Intern(\"D\") returned different ids: %v, %v", a, again)
	}
	if a == b {
		t.Fatalf("distinct names interned to the same id: %v", a)
	}
	if in.Name(a) != "D" || in.Name(b) != "C" {
		t.Fatalf("Name did not round-trip: %v=%q, %v=%q", a, in.Name(a), b, in.Name(b))
	}
}

func TestFormat(t *testing.T) {
	in := NewInterner()
	d := in.Intern("D")
	w := in.Intern("W")

	tests := []struct {
		f    Feature
		want string
	}{
		{New(KindCategory, d), "D"},
		{New(KindSelector, d), "D="},
		{New(KindHeadMovementSelectorLeft, d), "=D"},
		{New(KindHeadMovementSelectorRight, d), "=>D"},
		{New(KindLicensor, w), "+W"},
		{New(KindLicensee, w), "-W"},
	}
	for _, tt := range tests {
		if got := in.Format(tt.f); got != tt.want {
			t.Errorf("Format(%+v) = %q, want %q", tt.f, got, tt.want)
		}
	}
}

func TestKindPredicates(t *testing.T) {
	for _, k := range []Kind{KindSelector, KindHeadMovementSelectorLeft, KindHeadMovementSelectorRight} {
		if !k.IsSelector() {
			t.Errorf("%v.IsSelector() = false, want true", k)
		}
	}
	for _, k := range []Kind{KindCategory, KindLicensor, KindLicensee} {
		if k.IsSelector() {
			t.Errorf("%v.IsSelector() = true, want false", k)
		}
	}
	if !KindHeadMovementSelectorLeft.IsHeadMovement() || !KindHeadMovementSelectorRight.IsHeadMovement() {
		t.Errorf("head-movement selector kinds must report IsHeadMovement() == true")
	}
	if KindSelector.IsHeadMovement() {
		t.Errorf("plain selector must not report IsHeadMovement() == true")
	}
}
