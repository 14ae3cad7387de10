package lexicon

import (
	"errors"
	"reflect"
	"testing"

	mgerr "github.com/arashi-lang/mg/error"
	"github.com/arashi-lang/mg/feature"
)

func TestBuildBasic(t *testing.T) {
	l, err := Build("a::b= a\nb::b")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(l.Items()) != 2 {
		t.Fatalf("got %d items, want 2", len(l.Items()))
	}

	a, b := l.Items()[0], l.Items()[1]
	if a.Form != "a" || b.Form != "b" {
		t.Fatalf("unexpected forms: %q, %q", a.Form, b.Form)
	}
	if got := feature.FormatAll(l.Interner(), a.Features); got != "b= a" {
		t.Errorf("a features = %q, want %q", got, "b= a")
	}
	if !l.HasCategory("a") {
		t.Errorf("HasCategory(\"a\") = false, want true")
	}
	if l.HasCategory("nonexistent") {
		t.Errorf("HasCategory(\"nonexistent\") = true, want false")
	}
}

func TestBuildSkipsBlankAndComments(t *testing.T) {
	l, err := Build("\n# a comment\n  \na::b= a\nb::b\n")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(l.Items()) != 2 {
		t.Fatalf("got %d items, want 2", len(l.Items()))
	}
}

func TestBuildEmptyForm(t *testing.T) {
	l, err := Build("::S\nb::b")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if l.Items()[0].Form != "" {
		t.Errorf("first item form = %q, want empty", l.Items()[0].Form)
	}
}

func TestBuildMalformedLine(t *testing.T) {
	_, err := Build("a b")
	if err == nil {
		t.Fatal("expected an error for a line with no \"::\"")
	}
	var ge *mgerr.GrammarError
	if !errors.As(err, &ge) {
		t.Fatalf("error is not a *mgerr.GrammarError: %v", err)
	}
	if ge.Row != 1 {
		t.Errorf("Row = %d, want 1", ge.Row)
	}
	if !errors.Is(err, ErrMalformedLine) {
		t.Errorf("error does not wrap ErrMalformedLine: %v", err)
	}
}

func TestBuildDuplicateLicensee(t *testing.T) {
	_, err := Build("a::b -w -w")
	if !errors.Is(err, ErrDuplicateLicensee) {
		t.Fatalf("error = %v, want ErrDuplicateLicensee", err)
	}
}

func TestClassifyFeatureKinds(t *testing.T) {
	tests := []struct {
		tok      string
		wantKind feature.Kind
		wantName string
	}{
		{"D", feature.KindCategory, "D"},
		{"D=", feature.KindSelector, "D"},
		{"=D", feature.KindHeadMovementSelectorLeft, "D"},
		{"=>D", feature.KindHeadMovementSelectorRight, "D"},
		{"D<=", feature.KindHeadMovementSelectorRight, "D"},
		{"+w", feature.KindLicensor, "w"},
		{"-w", feature.KindLicensee, "w"},
	}
	for _, tt := range tests {
		kind, name := classify(tt.tok)
		if kind != tt.wantKind || name != tt.wantName {
			t.Errorf("classify(%q) = (%v, %q), want (%v, %q)", tt.tok, kind, name, tt.wantKind, tt.wantName)
		}
	}
}

func TestTokensAndDetokenize(t *testing.T) {
	l, err := Build("a::b= a\nb::b")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	toks := l.Tokens()
	if toks["a"] == toks["b"] {
		t.Fatalf("distinct forms got the same token id")
	}
	for _, reserved := range []string{"<bos>", "<eos>", "<pad>"} {
		if _, ok := toks[reserved]; !ok {
			t.Errorf("Tokens() missing reserved form %q", reserved)
		}
	}

	ids := []int{toks["a"], toks["b"]}
	forms, err := l.Detokenize(ids)
	if err != nil {
		t.Fatalf("Detokenize: %v", err)
	}
	if !reflect.DeepEqual(forms, []string{"a", "b"}) {
		t.Errorf("Detokenize(%v) = %v, want [a b]", ids, forms)
	}

	if _, err := l.Detokenize([]int{9999}); !errors.Is(err, ErrUnknownToken) {
		t.Errorf("Detokenize with unknown id: err = %v, want ErrUnknownToken", err)
	}
}

func TestDetokenizeBatch(t *testing.T) {
	l, err := Build("a::b= a\nb::b")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	toks := l.Tokens()
	batch := [][]int{{toks["a"]}, {toks["b"], toks["a"]}}
	got, err := l.DetokenizeBatch(batch)
	if err != nil {
		t.Fatalf("DetokenizeBatch: %v", err)
	}
	want := [][]string{{"a"}, {"b", "a"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DetokenizeBatch = %v, want %v", got, want)
	}
}

func TestMDLStableAcrossRuns(t *testing.T) {
	l1, err := Build("a::b= a\nb::b")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	l2, err := Build("a::b= a\nb::b")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if l1.MDL(10) != l2.MDL(10) {
		t.Errorf("MDL not stable across identical builds: %v != %v", l1.MDL(10), l2.MDL(10))
	}
	if l1.MDL(1) != 0 {
		t.Errorf("MDL with vocabSize<=1 = %v, want 0", l1.MDL(1))
	}
}

func TestRandomLexiconDeterministic(t *testing.T) {
	forms := []string{"dog", "cat", "run", "the"}
	l1 := RandomLexicon(forms, 42)
	l2 := RandomLexicon(forms, 42)

	if len(l1.Items()) != len(l2.Items()) {
		t.Fatalf("item count differs across identical seeds: %d vs %d", len(l1.Items()), len(l2.Items()))
	}
	for i := range l1.Items() {
		a, b := l1.Items()[i], l2.Items()[i]
		if a.Form != b.Form {
			t.Errorf("item %d form differs: %q vs %q", i, a.Form, b.Form)
		}
		if feature.FormatAll(l1.Interner(), a.Features) != feature.FormatAll(l2.Interner(), b.Features) {
			t.Errorf("item %d features differ across identical seeds", i)
		}
	}
	if !l1.HasCategory("0") {
		t.Errorf("RandomLexicon must keep category \"0\" reachable")
	}

	l3 := RandomLexicon(forms, 7)
	same := true
	for i := range l1.Items() {
		if feature.FormatAll(l1.Interner(), l1.Items()[i].Features) != feature.FormatAll(l3.Interner(), l3.Items()[i].Features) {
			same = false
		}
	}
	if same {
		t.Errorf("different seeds produced identical feature assignments; sampler may not be using the seed")
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	l, err := Build("a::b= +w a\nb::b -w\nc::c")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	data, err := l.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	l2, err := Deserialize(data)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}

	if len(l.Items()) != len(l2.Items()) {
		t.Fatalf("item count changed across round-trip: %d vs %d", len(l.Items()), len(l2.Items()))
	}
	for i := range l.Items() {
		a, b := l.Items()[i], l2.Items()[i]
		if a.Form != b.Form || a.LogWeight != b.LogWeight {
			t.Errorf("item %d changed across round-trip: %+v vs %+v", i, a, b)
		}
		if feature.FormatAll(l.Interner(), a.Features) != feature.FormatAll(l2.Interner(), b.Features) {
			t.Errorf("item %d features changed across round-trip", i)
		}
	}
}
