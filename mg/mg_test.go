package mg

import (
	"strings"
	"testing"

	"github.com/arashi-lang/mg/lexicon"
)

func TestGenerateGrammarScenario(t *testing.T) {
	lex, err := BuildLexicon("a::b= a\nb::b")
	if err != nil {
		t.Fatalf("BuildLexicon: %v", err)
	}

	next, err := GenerateGrammar(lex, "a")
	if err != nil {
		t.Fatalf("GenerateGrammar: %v", err)
	}
	d, ok := next()
	if !ok {
		t.Fatal("expected at least one derivation")
	}
	if got := d.String(); got != "a b" {
		t.Errorf("String() = %q, want %q", got, "a b")
	}
	if _, ok := next(); ok {
		t.Error("expected exactly one derivation for this grammar")
	}
}

func TestParseProducesLatexForestBlock(t *testing.T) {
	lex, err := BuildLexicon("a::b= a\nb::b")
	if err != nil {
		t.Fatalf("BuildLexicon: %v", err)
	}
	results, err := Parse(lex, "a b", "a")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("Parse returned no derivations")
	}
	latex := results[0].Latex()
	if !strings.HasPrefix(latex, "\\begin{forest}") {
		t.Errorf("Latex() does not start with \\begin{forest}: %q", latex[:20])
	}
	if !strings.HasSuffix(strings.TrimRight(latex, "\n"), "\\end{forest}") {
		t.Errorf("Latex() does not end with \\end{forest}: %q", latex)
	}
}

func TestDerivationTokensFramedWithBOSAndEOS(t *testing.T) {
	lex, err := BuildLexicon("a::b= a\nb::b")
	if err != nil {
		t.Fatalf("BuildLexicon: %v", err)
	}
	results, err := Parse(lex, "a b", "a")
	if err != nil || len(results) == 0 {
		t.Fatalf("Parse: %v (results=%d)", err, len(results))
	}
	ids := results[0].Tokens()
	if len(ids) < 2 {
		t.Fatalf("Tokens() too short: %v", ids)
	}
	if ids[0] != lexicon.TokenBOS {
		t.Errorf("Tokens()[0] = %d, want BOS (%d)", ids[0], lexicon.TokenBOS)
	}
	if ids[len(ids)-1] != lexicon.TokenEOS {
		t.Errorf("Tokens() last = %d, want EOS (%d)", ids[len(ids)-1], lexicon.TokenEOS)
	}
	forms, err := Detokenize(lex, ids[1:len(ids)-1])
	if err != nil {
		t.Fatalf("Detokenize: %v", err)
	}
	if got := strings.Join(forms, " "); got != results[0].String() {
		t.Errorf("detokenized Tokens() = %q, want %q", got, results[0].String())
	}
}

func TestContainsWordAndEmptyWord(t *testing.T) {
	lex, err := BuildLexicon("a::S= b= S\n::S\nb::b")
	if err != nil {
		t.Fatalf("BuildLexicon: %v", err)
	}
	results, err := Parse(lex, "a b", "S")
	if err != nil || len(results) == 0 {
		t.Fatalf("Parse: %v (results=%d)", err, len(results))
	}
	d := results[0]
	if !d.ContainsWord("a") {
		t.Error("expected ContainsWord(\"a\") to be true")
	}
	if d.ContainsWord("z") {
		t.Error("expected ContainsWord(\"z\") to be false")
	}
	if !d.ContainsEmptyWord() {
		t.Error("expected ContainsEmptyWord() to be true: the derivation bottoms out in the empty S item")
	}
	if !d.ContainsLexicalEntry("") {
		t.Error("expected ContainsLexicalEntry(\"\") to be true")
	}
}

func TestMaxMemoryLoadScenario(t *testing.T) {
	lex, err := BuildLexicon("a::b= c= +a +e C\nb::b -a\nc::c -e")
	if err != nil {
		t.Fatalf("BuildLexicon: %v", err)
	}
	results, err := Parse(lex, "c b a", "C")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("Parse returned no derivations for \"c b a\"")
	}
	if got := results[0].MaxMemoryLoad(); got != 2 {
		t.Errorf("MaxMemoryLoad() = %d, want 2", got)
	}
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	lex, err := BuildLexicon("a::b= a\nb::b")
	if err != nil {
		t.Fatalf("BuildLexicon: %v", err)
	}
	data, err := Serialize(lex)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	back, err := Deserialize(data)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if len(back.Items()) != len(lex.Items()) {
		t.Errorf("round-tripped lexicon has %d items, want %d", len(back.Items()), len(lex.Items()))
	}
}
