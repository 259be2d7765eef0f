package satsls

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestParseFormula(t *testing.T) {
	for _, tt := range []struct {
		name string
		text string
		want [][]int
	}{
		{
			name: "no vars or clauses",
			text: "c No vars or clauses\np cnf 0 0\n",
			want: [][]int{},
		},
		{
			name: "one var one clause",
			text: "c 1 var, 1 clause\np cnf 1 1\n1 0\n",
			want: [][]int{{1}},
		},
		{
			name: "multi clause",
			text: "c DIMACS example file\nc\np cnf 4 3\n1 3 -4 0\n4 0\n2 -3 0\n",
			want: [][]int{{1, 3, -4}, {4}, {2, -3}},
		},
		{
			name: "percent trailer",
			text: "p cnf 2 2\n1 2 0\n-1 2 0\n%\n1 2 3\nx y z\n",
			want: [][]int{{1, 2}, {-1, 2}},
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ParseFormula(strings.NewReader(tt.text))
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(f.Clauses, tt.want, cmpopts.EquateEmpty()); diff != "" {
				t.Fatalf("Clauses (-got, +want):\n%s", diff)
			}
		})
	}
}

func TestParseFormulaErrors(t *testing.T) {
	for _, tt := range []struct {
		name string
		text string
	}{
		{"missing problem line", "1 2 0\n"},
		{"multiple problem lines", "p cnf 2 1\np cnf 2 1\n1 2 0\n"},
		{"bad literal", "p cnf 2 1\n1 x 0\n"},
		{"wrong clause count", "p cnf 2 2\n1 2 0\n"},
		{"literal exceeds declared vars", "p cnf 2 1\n1 3 0\n"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFormula(strings.NewReader(tt.text))
			if err == nil {
				t.Fatal("expected error")
			}
			if _, ok := err.(*FormulaParseError); !ok {
				t.Fatalf("error type = %T, want *FormulaParseError", err)
			}
		})
	}
}

func TestDIMACSRoundTrip(t *testing.T) {
	text := "c assgn 0x5\np cnf 3 2\n1 -2 3 0\n-1 2 3 0\n"
	f, err := ParseFormula(strings.NewReader(text))
	if err != nil {
		t.Fatal(err)
	}
	if f.SatisfyingAssignment == nil {
		t.Fatal("expected witness to be parsed")
	}
	if got, want := f.SatisfyingAssignment.String(), "0x5"; got != want {
		t.Fatalf("witness = %q, want %q", got, want)
	}

	var b strings.Builder
	if err := WriteFormula(&b, f); err != nil {
		t.Fatal(err)
	}
	got := b.String()
	if got != text {
		t.Fatalf("WriteFormula round-trip:\ngot:\n%s\nwant:\n%s", got, text)
	}

	f2, err := ParseFormula(strings.NewReader(got))
	if err != nil {
		t.Fatal(err)
	}
	if !f.Equal(f2) {
		t.Fatal("re-parsed formula not equal to original")
	}
}

func TestParseFormulaNegativeWitnessIsAllFalse(t *testing.T) {
	text := "c assgn -0x5\np cnf 3 1\n1 2 3 0\n"
	f, err := ParseFormula(strings.NewReader(text))
	if err != nil {
		t.Fatal(err)
	}
	if f.SatisfyingAssignment == nil {
		t.Fatal("expected witness to be parsed")
	}
	if got, want := f.SatisfyingAssignment.String(), "0x0"; got != want {
		t.Fatalf("witness = %q, want %q (negative witness resolves to all-false)", got, want)
	}
}

func TestWriteFormulaPreservesComments(t *testing.T) {
	text := "c a comment\nc another\np cnf 2 1\n1 2 0\n"
	f, err := ParseFormula(strings.NewReader(text))
	if err != nil {
		t.Fatal(err)
	}
	var b strings.Builder
	if err := WriteFormula(&b, f); err != nil {
		t.Fatal(err)
	}
	if got := b.String(); got != text {
		t.Fatalf("got:\n%s\nwant:\n%s", got, text)
	}
}
