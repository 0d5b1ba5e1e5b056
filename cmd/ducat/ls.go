package main

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/spf13/cobra"
)

var lsFilter string

// unitEnv exposes unit metadata for filter expression evaluation.
type unitEnv struct {
	Name string   `expr:"name"`
	Kind string   `expr:"kind"`
	Deps []string `expr:"deps"`
}

// lsCmd lists the discovered units and their inferred dependencies.
var lsCmd = &cobra.Command{
	Use:   "ls <sql-dir>",
	Short: "List transformations and their inferred dependencies",
	Long: `Load the folder, infer the dependency graph, and list every unit
with its kind and dependencies, in execution order.

Filtering:
  --filter "kind == 'routine'"          Only routine units
  --filter "'orders' in deps"           Units reading from orders
  --filter "name startsWith 'stg_'"     Name prefix match`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return lsAction(args[0])
	},
}

func init() {
	rootCmd.AddCommand(lsCmd)

	lsCmd.Flags().StringVar(&lsFilter, "filter", "", "Filter expression over {name, kind, deps}")
}

func lsAction(dir string) error {
	reg, g, err := loadGraph(dir)
	if err != nil {
		return err
	}
	plan, err := g.Schedule()
	if err != nil {
		return err
	}

	var program *vm.Program
	if lsFilter != "" {
		program, err = expr.Compile(lsFilter, expr.Env(unitEnv{}), expr.AsBool())
		if err != nil {
			return fmt.Errorf("invalid filter expression: %w", err)
		}
	}

	for _, name := range plan {
		u, _ := reg.Unit(name)
		deps := g.Dependencies(name)

		if program != nil {
			env := unitEnv{Name: name, Kind: string(u.Kind), Deps: deps}
			keep, err := expr.Run(program, env)
			if err != nil {
				return fmt.Errorf("evaluating filter for %s: %w", name, err)
			}
			if keep != true {
				continue
			}
		}

		line := fmt.Sprintf("%-30s %-8s", name, u.Kind)
		if len(deps) > 0 {
			line += " <- " + strings.Join(deps, ", ")
		}
		fmt.Println(strings.TrimRight(line, " "))
	}
	return nil
}
