// Command saturday drives the lookahead core directly from a DIMACS CNF
// file, as a standalone solver rather than embedded inside a CDCL search
// (§6 "CLI surface: None" describes the library; this binary is an external
// harness over it, not part of the core itself).
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jsatlite/lookahead"
)

var (
	cfgPath string
	drat    bool
	verbose bool
)

func main() {
	root := &cobra.Command{
		Use:   "saturday",
		Short: "A lookahead-style SAT solver, in the March/z3 tradition",
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to a YAML config overlay")
	root.PersistentFlags().BoolVar(&drat, "drat", false, "record DRAT proof steps in memory (they are not printed)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable trace-level logging")

	root.AddCommand(solveCmd(), simplifyCmd(), sccCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadInput(args []string) (lookahead.Input, error) {
	var r io.Reader = os.Stdin
	if len(args) > 0 {
		f, err := os.Open(args[0])
		if err != nil {
			return lookahead.Input{}, err
		}
		defer f.Close()
		r = f
	}
	clauses, err := lookahead.ParseDIMACS(r)
	if err != nil {
		return lookahead.Input{}, fmt.Errorf("parsing DIMACS input: %w", err)
	}
	return lookahead.BuildInput(clauses), nil
}

func buildConfig() (lookahead.Config, error) {
	cfg, err := lookahead.LoadConfig(cfgPath)
	if err != nil {
		return cfg, err
	}
	cfg.DRAT = drat || cfg.DRAT
	logger := logrus.New()
	if verbose {
		logger.SetLevel(logrus.TraceLevel)
	} else {
		logger.SetLevel(logrus.WarnLevel)
	}
	cfg.Logger = logger
	return cfg, nil
}

// solveCmd runs the full C8 search loop to completion and prints a model in
// the same conventional two-line shape the teacher's CLI used.
func solveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "solve [input.cnf]",
		Short: "Solve a DIMACS CNF file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := loadInput(args)
			if err != nil {
				return err
			}
			cfg, err := buildConfig()
			if err != nil {
				return err
			}
			s := lookahead.Init(in, cfg)
			result, err := s.Solve()
			if err != nil {
				return err
			}
			if result == lookahead.LFalse {
				fmt.Println("UNSAT")
				return nil
			}
			fmt.Println("SAT")
			model := s.ExtractModel()
			for i := 1; i <= len(model); i++ {
				if i > 1 {
					fmt.Print(" ")
				}
				v := model.Value(i)
				n := i
				if v == lookahead.LFalse {
					n = -i
				}
				fmt.Print(n)
			}
			fmt.Println()
			return nil
		},
	}
}

// simplifyCmd runs one lookahead pass and prints the solver's whole trail
// afterwards (input units included), one literal per line, in DIMACS form.
func simplifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "simplify [input.cnf]",
		Short: "Derive unit literals via a single lookahead pass",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := loadInput(args)
			if err != nil {
				return err
			}
			cfg, err := buildConfig()
			if err != nil {
				return err
			}
			s := lookahead.Init(in, cfg)
			units, ok := s.Simplify()
			if !ok {
				fmt.Println("UNSAT")
				return nil
			}
			for _, u := range units {
				fmt.Println(u.Int())
			}
			return nil
		},
	}
}

// sccCmd runs equivalence extraction and prints each substitution found as
// "v -> root" in DIMACS literal form.
func sccCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scc [input.cnf]",
		Short: "Extract equivalence classes via SCC over the binary graph",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := loadInput(args)
			if err != nil {
				return err
			}
			cfg, err := buildConfig()
			if err != nil {
				return err
			}
			s := lookahead.Init(in, cfg)
			eqs, ok := s.EliminateEquivalences()
			if !ok {
				fmt.Println("UNSAT")
				return nil
			}
			for _, eq := range eqs {
				fmt.Printf("%d -> %d\n", eq.V.Pos().Int(), eq.Root.Int())
			}
			return nil
		},
	}
}
