package grammar

import "testing"

func TestNewC99ParserLoadsEmbeddedTable(t *testing.T) {
	p, err := NewC99Parser()
	if err != nil {
		t.Fatalf("NewC99Parser: %v", err)
	}
	if p.Start != "translation-unit" {
		t.Fatalf("Start = %q, want %q", p.Start, "translation-unit")
	}
}

func TestParseSimpleFunction(t *testing.T) {
	p, err := NewC99Parser()
	if err != nil {
		t.Fatalf("NewC99Parser: %v", err)
	}
	src := `int ffact(int a){
    if(a==0) return 1;
    return a*ffact(a-1);
}`
	tree, err := p.Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tree.Sym != "translation-unit" {
		t.Fatalf("root Sym = %q, want %q", tree.Sym, "translation-unit")
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	p, err := NewC99Parser()
	if err != nil {
		t.Fatalf("NewC99Parser: %v", err)
	}
	if _, err := p.Parse("int a = ;;;{"); err == nil {
		t.Fatalf("expected a ParseError for malformed input")
	} else if _, ok := err.(*ParseError); !ok {
		t.Fatalf("error is %T, want *ParseError", err)
	}
}
