// Command satsls generates planted-satisfiable random CNF formulas and
// runs a minimal WalkSAT-family flip loop over DIMACS CNF input.
package main

import (
	"flag"
	"fmt"
	"hash/fnv"
	"io"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/cespare/satsls"
	"github.com/cespare/satsls/walksat"
)

func main() {
	log.SetFlags(0)
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "generate":
		runGenerate(os.Args[2:])
	case "walksat":
		runWalksat(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `satsls: stochastic local search SAT tools.

Usage:

  satsls generate -n N -ratio R [-seed S] [-out DIR]
  satsls walksat [-max-flips F] [-noise P] [-mode diff|break] [-seed S] [input.cnf]

generate writes one planted-satisfiable random 3-CNF formula as a DIMACS
file. walksat reads a DIMACS file (or stdin) and runs a WalkSAT-family
flip loop, reporting SAT with an assignment or UNKNOWN if the flip budget
is exhausted (the core makes no claim of completeness).
`)
}

func runGenerate(args []string) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	n := fs.Int("n", 50, "number of variables")
	ratio := fs.Float64("ratio", 4.2, "clause/variable ratio")
	seed := fs.Int64("seed", time.Now().UnixNano(), "PRNG seed")
	out := fs.String("out", ".", "output directory")
	exact := fs.Bool("exact-count", false, "emit exactly floor(ratio*n) clauses instead of the reference's +1")
	fs.Parse(args)

	rng := rand.New(rand.NewSource(*seed))
	f := satsls.Generate(*n, *ratio, rng, satsls.GeneratorOptions{ExactCount: *exact})

	name := fmt.Sprintf("n%d-r%.2f-k3-%016x.cnf", *n, *ratio, digest(f))
	path := filepath.Join(*out, name)
	file, err := os.Create(path)
	if err != nil {
		log.Fatal(err)
	}
	defer file.Close()
	if err := satsls.WriteFormula(file, f); err != nil {
		log.Fatal(err)
	}
	fmt.Println(path)
}

// digest hashes the formula's visible fields, for distinct and reproducible
// generated filenames.
func digest(f *satsls.Formula) uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d|%d|%g|%s", f.NumVars, f.MaxClauseLen, f.Ratio, witnessString(f))
	return h.Sum64()
}

func witnessString(f *satsls.Formula) string {
	if f.SatisfyingAssignment == nil {
		return ""
	}
	return f.SatisfyingAssignment.String()
}

func runWalksat(args []string) {
	fs := flag.NewFlagSet("walksat", flag.ExitOnError)
	maxFlips := fs.Int("max-flips", 100000, "flip budget")
	noise := fs.Float64("noise", 0.5, "probability of a noise (random) move")
	modeFlag := fs.String("mode", "break", "scoring mode: diff or break")
	seed := fs.Int64("seed", time.Now().UnixNano(), "PRNG seed")
	verbose := fs.Bool("v", false, "verbose mode")
	fs.Parse(args)

	var mode satsls.Mode
	switch *modeFlag {
	case "diff":
		mode = satsls.Diff
	case "break":
		mode = satsls.BreakOnly
	default:
		log.Fatalf("invalid -mode %q: want diff or break", *modeFlag)
	}

	var r io.Reader = os.Stdin
	if fs.NArg() >= 1 {
		file, err := os.Open(fs.Arg(0))
		if err != nil {
			log.Fatal(err)
		}
		defer file.Close()
		r = file
	}

	f, err := satsls.ParseFormula(r)
	if err != nil {
		log.Fatalln("Error reading input file as DIMACS CNF:", err)
	}

	rng := rand.New(rand.NewSource(*seed))
	start := satsls.Random(f.NumVars, rng)
	result := walksat.Run(f, start, walksat.Options{
		MaxFlips:  *maxFlips,
		NoiseProb: *noise,
		Mode:      mode,
		Rand:      rng,
	})

	if *verbose {
		fmt.Fprintf(os.Stderr, "flips: %d\n", result.Flips)
		fmt.Fprintf(os.Stderr, "sat:   %v\n", result.Sat)
		result.Scoreboard.DumpState(os.Stderr)
	}

	if !result.Sat {
		fmt.Println("UNKNOWN")
		return
	}
	fmt.Println("SAT")
	for v := 1; v <= f.NumVars; v++ {
		if v > 1 {
			fmt.Print(" ")
		}
		if result.Assignment.Value(v) {
			fmt.Print(v)
		} else {
			fmt.Print(-v)
		}
	}
	fmt.Println()
}
