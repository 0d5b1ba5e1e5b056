// Package registry loads transformation definitions into an immutable set
// of named units.
package registry

import (
	"fmt"
	"sort"

	"github.com/ducat-dev/ducat/internal/apperrors"
	"github.com/ducat-dev/ducat/internal/sqlparse"
	"github.com/ducat-dev/ducat/internal/template"
	"github.com/ducat-dev/ducat/internal/unit"
)

// Definition is one raw transformation definition produced by a Source:
// a candidate name plus the unparsed SQL text.
type Definition struct {
	Name string
	Path string
	SQL  string
}

// Source enumerates transformation definitions. Implementations must
// return definitions in a stable order so load failures are deterministic.
type Source interface {
	Definitions() ([]Definition, error)
}

// Registry is the loaded, immutable set of units for one run.
type Registry struct {
	byName map[string]*unit.Unit
}

// Unit returns the unit with the given name.
func (r *Registry) Unit(name string) (*unit.Unit, bool) {
	u, ok := r.byName[name]
	return u, ok
}

// Units returns all units sorted by name. Downstream components must not
// read any execution meaning into this order; only the scheduler's plan
// orders execution.
func (r *Registry) Units() []*unit.Unit {
	units := make([]*unit.Unit, 0, len(r.byName))
	for _, u := range r.byName {
		units = append(units, u)
	}
	sort.Slice(units, func(i, j int) bool { return units[i].Name < units[j].Name })
	return units
}

// Len returns the number of loaded units.
func (r *Registry) Len() int {
	return len(r.byName)
}

// Loader builds a Registry from a Source plus any registered routines.
type Loader struct {
	parser      sqlparse.Parser
	substitutor *template.Substitutor
	routines    map[string]unit.Routine
}

// NewLoader creates a loader. The parser and substitutor are injected so
// load behavior is testable with fakes.
func NewLoader(parser sqlparse.Parser, substitutor *template.Substitutor) *Loader {
	return &Loader{
		parser:      parser,
		substitutor: substitutor,
		routines:    make(map[string]unit.Routine),
	}
}

// RegisterRoutine adds an imperative unit under the given name. Routines
// are registered explicitly; nothing is discovered by reflection.
func (l *Loader) RegisterRoutine(name string, r unit.Routine) error {
	if _, exists := l.routines[name]; exists {
		return apperrors.NewDuplicateNameError(name)
	}
	l.routines[name] = r
	return nil
}

// Load enumerates the source, substitutes environment variables, parses
// every definition, merges registered routines, and returns the registry.
// It fails on the first duplicate name, unset variable, unparsable
// definition, or unit without exactly one producing statement; no partial
// registry is ever returned.
func (l *Loader) Load(src Source) (*Registry, error) {
	defs, err := src.Definitions()
	if err != nil {
		return nil, fmt.Errorf("enumerating definitions: %w", err)
	}

	byName := make(map[string]*unit.Unit, len(defs)+len(l.routines))
	for _, def := range defs {
		if prior, exists := byName[def.Name]; exists {
			return nil, apperrors.NewDuplicateNameError(def.Name, prior.Path, def.Path)
		}
		stmts, err := l.parse(def.Name, def.SQL)
		if err != nil {
			return nil, err
		}
		byName[def.Name] = &unit.Unit{
			Name:       def.Name,
			Kind:       unit.KindSQL,
			Path:       def.Path,
			Statements: stmts,
		}
	}

	for _, name := range sortedRoutineNames(l.routines) {
		r := l.routines[name]
		if prior, exists := byName[name]; exists {
			return nil, apperrors.NewDuplicateNameError(name, prior.Path)
		}
		u := &unit.Unit{
			Name:    name,
			Kind:    unit.KindRoutine,
			Routine: r,
		}
		if sourceSQL := r.SourceSQL(); sourceSQL != "" {
			stmts, err := l.parse(name, sourceSQL)
			if err != nil {
				return nil, err
			}
			u.Statements = stmts
			u.SourceSQL = stmts[producingIndex(stmts)].Text
		}
		byName[name] = u
	}

	return &Registry{byName: byName}, nil
}

// parse substitutes variables, parses the text, and enforces the
// exactly-one-producing-statement invariant.
func (l *Loader) parse(name, text string) ([]unit.Statement, error) {
	substituted, err := l.substitutor.Substitute(text, name)
	if err != nil {
		return nil, err
	}

	stmts, err := l.parser.ParseScript(substituted)
	if err != nil {
		return nil, apperrors.NewParseError(name, "invalid SQL", err)
	}

	producing := 0
	for _, s := range stmts {
		if s.Producing {
			producing++
		}
	}
	switch {
	case producing == 0:
		return nil, apperrors.NewParseError(name, "no result-producing statement", nil)
	case producing > 1:
		return nil, apperrors.NewParseError(name, fmt.Sprintf("%d result-producing statements, want exactly one", producing), nil)
	}
	return stmts, nil
}

func producingIndex(stmts []unit.Statement) int {
	for i, s := range stmts {
		if s.Producing {
			return i
		}
	}
	return 0
}

func sortedRoutineNames(routines map[string]unit.Routine) []string {
	names := make([]string, 0, len(routines))
	for name := range routines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
