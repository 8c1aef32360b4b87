package ops

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseLineAlgebraic(t *testing.T) {
	p := NewParser(DomainAlgebraic, NegativeReject)

	cases := []struct {
		line string
		want Operation
	}{
		{"pow 2,4", Power{Base: 2, Exponent: 4}},
		{"pow 2.5, 3", Power{Base: 2.5, Exponent: 3}},
		{"pow -2,3", Power{Base: -2, Exponent: 3}},
		{"factorial 5", Factorial{N: 5}},
		{"factorial 0", Factorial{N: 0}},
	}
	for _, c := range cases {
		got, err := p.ParseLine(1, c.line)
		if err != nil {
			t.Errorf("ParseLine(%q) unexpected error: %v", c.line, err)
			continue
		}
		if diff := cmp.Diff(c.want, got); diff != "" {
			t.Errorf("ParseLine(%q) mismatch (-want +got):\n%s", c.line, diff)
		}
	}
}

func TestParseLineGeometric(t *testing.T) {
	p := NewParser(DomainGeometric, NegativeReject)

	cases := []struct {
		line string
		want Operation
	}{
		{"square 3", Square{Side: 3}},
		{"circle 2", Circle{Radius: 2}},
		{"circle 0.5", Circle{Radius: 0.5}},
	}
	for _, c := range cases {
		got, err := p.ParseLine(1, c.line)
		if err != nil {
			t.Errorf("ParseLine(%q) unexpected error: %v", c.line, err)
			continue
		}
		if diff := cmp.Diff(c.want, got); diff != "" {
			t.Errorf("ParseLine(%q) mismatch (-want +got):\n%s", c.line, diff)
		}
	}
}

func TestParseLineRejects(t *testing.T) {
	alg := NewParser(DomainAlgebraic, NegativeReject)
	geo := NewParser(DomainGeometric, NegativeReject)

	cases := []struct {
		p    *Parser
		line string
	}{
		{alg, "pow 2"},             // missing exponent
		{alg, "pow 2,-1"},          // negative exponent
		{alg, "pow 2,1.5"},         // fractional exponent
		{alg, "factorial -3"},      // negative operand
		{alg, "factorial"},         // no operand
		{alg, "square 3"},          // geometric verb on algebraic input
		{alg, "frobnicate 1,2"},    // unknown verb
		{geo, "square -3"},         // negative side under reject policy
		{geo, "circle 0"},          // zero radius under reject policy
		{geo, "circle two"},        // non-numeric
		{geo, "pow 2,4"},           // algebraic verb on geometric input
	}
	for _, c := range cases {
		if _, err := c.p.ParseLine(1, c.line); err == nil {
			t.Errorf("ParseLine(%q) expected error, got nil", c.line)
		}
	}
}

func TestParseLineNegativeAllow(t *testing.T) {
	p := NewParser(DomainGeometric, NegativeAllow)
	got, err := p.ParseLine(1, "square -3")
	if err != nil {
		t.Fatalf("ParseLine(square -3) with allow policy: %v", err)
	}
	if diff := cmp.Diff(Square{Side: -3}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFileSkipsBadLines(t *testing.T) {
	p := NewParser(DomainAlgebraic, NegativeReject)

	content := []byte("pow 2,4\n\n# comment\nnonsense here\nfactorial 5\npow 1,bad\n")
	records, errs := p.ParseFile(content)

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Line != 1 || records[1].Line != 5 {
		t.Errorf("record lines = %d,%d, want 1,5", records[0].Line, records[1].Line)
	}
	if diff := cmp.Diff(Power{Base: 2, Exponent: 4}, records[0].Op); diff != "" {
		t.Errorf("first record mismatch:\n%s", diff)
	}
	if diff := cmp.Diff(Factorial{N: 5}, records[1].Op); diff != "" {
		t.Errorf("second record mismatch:\n%s", diff)
	}
	if len(errs) != 2 {
		t.Fatalf("expected 2 parse errors, got %d: %v", len(errs), errs)
	}
	if errs[0].Line != 4 || errs[1].Line != 6 {
		t.Errorf("error lines = %d,%d, want 4,6", errs[0].Line, errs[1].Line)
	}
}

func TestParseFileOrderPreserved(t *testing.T) {
	p := NewParser(DomainGeometric, NegativeReject)
	records, errs := p.ParseFile([]byte("circle 2\nsquare 3\ncircle 1\n"))
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	verbs := make([]string, len(records))
	for i, r := range records {
		verbs[i] = r.Op.Verb()
	}
	if diff := cmp.Diff([]string{"circle", "square", "circle"}, verbs); diff != "" {
		t.Errorf("dispatch order mismatch:\n%s", diff)
	}
}
