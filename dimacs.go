package satsls

import (
	"bufio"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"
)

// A FormulaParseError reports a malformed DIMACS input, pointing at the
// offending line and (when known) column.
type FormulaParseError struct {
	Line int
	Col  int
	Msg  string
}

func (e *FormulaParseError) Error() string {
	if e.Col > 0 {
		return fmt.Sprintf("dimacs: line %d, col %d: %s", e.Line, e.Col, e.Msg)
	}
	return fmt.Sprintf("dimacs: line %d: %s", e.Line, e.Msg)
}

// ParseFormula parses DIMACS CNF text into a Formula.
//
// Lines beginning with 'c' are comments; a line of the exact form
// "c assgn 0x<hex>" (an optional leading '-' is tolerated but never
// produced by this package) is recognized as the embedded witness and is
// not kept in Formula.Comments. A line beginning with 'p' is the problem
// line "p cnf N M". Any other non-blank line is a clause: a
// whitespace-separated list of signed integers terminated by a literal 0.
// A line containing only "%" ends clause reading, as some DIMACS corpora
// append trailing material after it.
func ParseFormula(r io.Reader) (*Formula, error) {
	var (
		numVars, numClauses int
		sawProblemLine      bool
		comments            []string
		witnessHex          string
		clauses             [][]int
		clause              []int
	)
	s := bufio.NewScanner(r)
	lineNo := 0
	for s.Scan() {
		lineNo++
		line := s.Text()
		if len(line) == 0 {
			continue
		}
		if line[0] == 'c' {
			if strings.HasPrefix(line, "c assgn") {
				fields := strings.Fields(line)
				if len(fields) != 3 {
					return nil, &FormulaParseError{lineNo, 0, fmt.Sprintf("malformed assgn comment %q", line)}
				}
				witnessHex = fields[2]
			} else {
				comments = append(comments, line)
			}
			continue
		}
		if line == "%" {
			break
		}
		if line[0] == 'p' {
			if len(clauses) > 0 || len(clause) > 0 {
				return nil, &FormulaParseError{lineNo, 0, "problem line appears after clauses"}
			}
			if sawProblemLine {
				return nil, &FormulaParseError{lineNo, 0, "multiple problem lines"}
			}
			fields := strings.Fields(line)
			if len(fields) != 4 || fields[0] != "p" || fields[1] != "cnf" {
				return nil, &FormulaParseError{lineNo, 0, fmt.Sprintf("malformed problem line %q", line)}
			}
			var err error
			numVars, err = strconv.Atoi(fields[2])
			if err != nil || numVars < 0 {
				return nil, &FormulaParseError{lineNo, 0, fmt.Sprintf("malformed #vars in problem line: %q", fields[2])}
			}
			numClauses, err = strconv.Atoi(fields[3])
			if err != nil || numClauses < 0 {
				return nil, &FormulaParseError{lineNo, 0, fmt.Sprintf("malformed #clauses in problem line: %q", fields[3])}
			}
			sawProblemLine = true
			continue
		}
		for col, field := range strings.Fields(line) {
			n, err := strconv.Atoi(field)
			if err != nil {
				return nil, &FormulaParseError{lineNo, col + 1, fmt.Sprintf("invalid literal %q", field)}
			}
			if n == 0 {
				clauses = append(clauses, clause)
				clause = nil
			} else {
				if sawProblemLine && abs(n) > numVars {
					return nil, &FormulaParseError{lineNo, col + 1, fmt.Sprintf("literal %d exceeds declared #vars %d", n, numVars)}
				}
				clause = append(clause, n)
			}
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	if len(clause) > 0 {
		return nil, &FormulaParseError{lineNo, 0, "last clause not terminated by 0"}
	}
	if !sawProblemLine {
		return nil, &FormulaParseError{lineNo, 0, "missing problem line"}
	}
	if len(clauses) != numClauses {
		return nil, &FormulaParseError{lineNo, 0, fmt.Sprintf("problem line specifies %d clauses, but there are %d", numClauses, len(clauses))}
	}
	f := &Formula{Clauses: clauses, NumVars: numVars, NumClauses: len(clauses), Comments: comments}
	f.buildOccurrences()
	if witnessHex != "" && f.NumVars > 0 {
		neg := strings.HasPrefix(witnessHex, "-")
		hex := strings.TrimPrefix(strings.TrimPrefix(witnessHex, "-"), "0x")
		n, ok := new(big.Int).SetString(hex, 16)
		if !ok {
			return nil, &FormulaParseError{lineNo, 0, fmt.Sprintf("malformed witness hex %q", witnessHex)}
		}
		if neg {
			// A negative witness value is degenerate: the reference
			// implementation's atoms_from_integer loop never runs for
			// n <= 0, so it resolves to the all-false assignment.
			f.SatisfyingAssignment = New(big.NewInt(0), f.NumVars)
		} else {
			f.SatisfyingAssignment = New(n, f.NumVars)
		}
	}
	return f, nil
}

// WriteFormula serializes f in DIMACS format: Formula.Comments verbatim,
// then "c assgn <hex>" if a witness is known, then the problem line, then
// each clause followed by a terminating 0.
func WriteFormula(w io.Writer, f *Formula) error {
	bw := bufio.NewWriter(w)
	for _, c := range f.Comments {
		if _, err := fmt.Fprintln(bw, c); err != nil {
			return err
		}
	}
	if f.SatisfyingAssignment != nil {
		if _, err := fmt.Fprintf(bw, "c assgn %s\n", f.SatisfyingAssignment.String()); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(bw, "p cnf %d %d\n", f.NumVars, f.NumClauses); err != nil {
		return err
	}
	for _, cls := range f.Clauses {
		for _, lit := range cls {
			if _, err := fmt.Fprintf(bw, "%d ", lit); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(bw, "0"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
