package derivation

import (
	"testing"

	"github.com/arashi-lang/mg/lexicon"
)

// step advances s to its single successor, failing the test unless
// Successors yields exactly one; these fixtures have exactly one legal
// successor at each point.
func step(t *testing.T, s *State, lex *lexicon.Lexicon) *State {
	t.Helper()
	next := Successors(s, lex, nil, 0.5)
	if len(next) != 1 {
		t.Fatalf("Successors produced %d states, want exactly 1", len(next))
	}
	return next[0]
}

func TestMaxMemoryLoadFeatureOrderMatters(t *testing.T) {
	lex, err := lexicon.Build("a::b= c= +a +e C\nb::b -a\nc::c -e")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	a := lex.Items()[0]
	s := NewLexical(a)
	s = step(t, s, lex) // merge b
	s = step(t, s, lex) // merge c
	s = step(t, s, lex) // move +a
	s = step(t, s, lex) // move +e

	if !s.Final(lex.Interner(), a.Features[len(a.Features)-1].Name()) {
		t.Fatalf("final state is not Final() for goal C")
	}
	if got := s.MaxMemoryLoad(); got != 2 {
		t.Errorf("MaxMemoryLoad = %d, want 2", got)
	}
}

func TestMaxMemoryLoadReducedWhenLicensorMovesEarly(t *testing.T) {
	lex, err := lexicon.Build("a::b= +a c= +e C\nb::b -a\nc::c -e")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	a := lex.Items()[0]
	s := NewLexical(a)
	s = step(t, s, lex) // merge b
	s = step(t, s, lex) // move +a
	s = step(t, s, lex) // merge c
	s = step(t, s, lex) // move +e

	if got := s.MaxMemoryLoad(); got != 1 {
		t.Errorf("MaxMemoryLoad = %d, want 1", got)
	}
}

func TestSimpleGenerateSucceeds(t *testing.T) {
	lex, err := lexicon.Build("a::b= a\nb::b")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	goal, _ := lex.Interner().Lookup("a")
	a := lex.Items()[0]
	s := NewLexical(a)

	successors := Successors(s, lex, nil, 0.5)
	if len(successors) != 1 {
		t.Fatalf("got %d successors, want 1", len(successors))
	}
	final := successors[0]
	if !final.Final(lex.Interner(), goal) {
		t.Fatalf("merged state is not final for goal \"a\"")
	}
	if got := final.SurfaceString(); got != "a b" {
		t.Errorf("SurfaceString = %q, want %q", got, "a b")
	}
}
