// Package graph builds the dependency graph over transformation units,
// validates it, and linearizes it into a deterministic execution plan.
package graph

import (
	"sort"

	"github.com/ducat-dev/ducat/internal/apperrors"
	"github.com/ducat-dev/ducat/internal/unit"
)

// Graph is a directed dependency graph over unit names. Edges point from a
// dependency to its dependent. It is built once per run from an immutable
// registry snapshot and never mutated afterwards.
type Graph struct {
	nodes      map[string]struct{}
	deps       map[string]map[string]struct{} // node -> nodes it reads from
	dependents map[string]map[string]struct{} // node -> nodes that read it
}

// Build constructs the graph for a set of units. The node set is every unit
// name; an edge (d, u) exists for every known unit d that u's producing
// statement (or a routine's declared source query) reads from. References
// to relations outside the unit set are external tables and produce no
// edge; a unit never depends on itself.
func Build(units []*unit.Unit) *Graph {
	g := &Graph{
		nodes:      make(map[string]struct{}, len(units)),
		deps:       make(map[string]map[string]struct{}, len(units)),
		dependents: make(map[string]map[string]struct{}, len(units)),
	}
	for _, u := range units {
		g.nodes[u.Name] = struct{}{}
		g.deps[u.Name] = make(map[string]struct{})
		g.dependents[u.Name] = make(map[string]struct{})
	}
	for _, u := range units {
		for _, ref := range references(u) {
			if ref == u.Name {
				continue
			}
			if _, known := g.nodes[ref]; !known {
				continue
			}
			g.deps[u.Name][ref] = struct{}{}
			g.dependents[ref][u.Name] = struct{}{}
		}
	}
	return g
}

// references returns the relations a unit reads from, as extracted from its
// single producing statement. Side-effecting statements never contribute
// references. Extraction is pure: the same unit always yields the same set.
func references(u *unit.Unit) []string {
	producing, ok := u.Producing()
	if !ok {
		return nil
	}
	return producing.Reads
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Nodes returns all node names, sorted.
func (g *Graph) Nodes() []string {
	return sortedKeys(g.nodes)
}

// Dependencies returns the names a node reads from, sorted.
func (g *Graph) Dependencies(name string) []string {
	return sortedKeys(g.deps[name])
}

// Dependents returns the names that read from a node, sorted.
func (g *Graph) Dependents(name string) []string {
	return sortedKeys(g.dependents[name])
}

// TransitiveDependents returns every node reachable from name along
// dependency -> dependent edges. Used to cascade skips after a failure.
func (g *Graph) TransitiveDependents(name string) map[string]struct{} {
	reached := make(map[string]struct{})
	frontier := []string{name}
	for len(frontier) > 0 {
		n := frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]
		for dep := range g.dependents[n] {
			if _, seen := reached[dep]; seen {
				continue
			}
			reached[dep] = struct{}{}
			frontier = append(frontier, dep)
		}
	}
	return reached
}

// Validate checks the graph for cycles using a depth-first traversal with
// an in-progress mark per node. On a cycle it returns a CycleError naming
// the cycle's nodes in discovery order, starting from the first repeated
// node. Traversal order is sorted, so the report is deterministic.
func (g *Graph) Validate() error {
	done := make(map[string]bool, len(g.nodes))
	inProgress := make(map[string]bool)
	var stack []string

	var visit func(name string) *apperrors.CycleError
	visit = func(name string) *apperrors.CycleError {
		if done[name] {
			return nil
		}
		if inProgress[name] {
			for i, n := range stack {
				if n == name {
					cycle := make([]string, len(stack)-i)
					copy(cycle, stack[i:])
					return apperrors.NewCycleError(cycle)
				}
			}
			return apperrors.NewCycleError([]string{name})
		}

		inProgress[name] = true
		stack = append(stack, name)
		for _, dep := range g.Dependents(name) {
			if cerr := visit(dep); cerr != nil {
				return cerr
			}
		}
		stack = stack[:len(stack)-1]
		delete(inProgress, name)
		done[name] = true
		return nil
	}

	for _, name := range g.Nodes() {
		if cerr := visit(name); cerr != nil {
			return cerr
		}
	}
	return nil
}

// Schedule linearizes the graph into an execution plan: a permutation of
// all node names in which every dependency appears before its dependents.
// Ties are broken by always picking the lexicographically smallest ready
// name, so an unchanged unit set always yields an identical plan. The
// graph must have passed Validate; a cycle surfaces as a CycleError here
// as well.
func (g *Graph) Schedule() ([]string, error) {
	pending := make(map[string]int, len(g.nodes))
	for name := range g.nodes {
		pending[name] = len(g.deps[name])
	}

	var ready []string
	for name, n := range pending {
		if n == 0 {
			ready = append(ready, name)
		}
	}
	sort.Strings(ready)

	plan := make([]string, 0, len(g.nodes))
	for len(ready) > 0 {
		name := ready[0]
		ready = ready[1:]
		plan = append(plan, name)

		released := false
		for _, dep := range g.Dependents(name) {
			pending[dep]--
			if pending[dep] == 0 {
				ready = append(ready, dep)
				released = true
			}
		}
		if released {
			sort.Strings(ready)
		}
	}

	if len(plan) != len(g.nodes) {
		var stuck []string
		for name, n := range pending {
			if n > 0 {
				stuck = append(stuck, name)
			}
		}
		sort.Strings(stuck)
		return nil, apperrors.NewCycleError(stuck)
	}
	return plan, nil
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
