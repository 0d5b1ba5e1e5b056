// Package apperrors defines the typed error taxonomy for ducat.
//
// DuplicateNameError, CycleError, ParseError, and UndefinedVariableError
// are load-time failures: they abort a run before any unit executes.
// ExecutionError and RoutineError are run-time failures: the executor
// records them per unit and cascades skips per the failure policy.
package apperrors

import (
	"fmt"
	"strings"
)

// DuplicateNameError indicates two definitions normalized to the same unit
// name, regardless of which subfolders they were declared under.
type DuplicateNameError struct {
	Name  string
	Paths []string // definition files that collided, when known
}

func (e *DuplicateNameError) Error() string {
	if len(e.Paths) == 2 {
		return fmt.Sprintf("duplicate unit name %q (%s, %s)", e.Name, e.Paths[0], e.Paths[1])
	}
	return fmt.Sprintf("duplicate unit name %q", e.Name)
}

// NewDuplicateNameError creates a new duplicate name error.
func NewDuplicateNameError(name string, paths ...string) *DuplicateNameError {
	return &DuplicateNameError{Name: name, Paths: paths}
}

// CycleError indicates the dependency graph contains a cycle. Nodes lists
// the unit names on the cycle in discovery order, starting from the first
// repeated node.
type CycleError struct {
	Nodes []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(e.Nodes, " -> "))
}

// NewCycleError creates a new cycle error.
func NewCycleError(nodes []string) *CycleError {
	return &CycleError{Nodes: nodes}
}

// ParseError indicates a unit's declarative text could not be parsed, or
// violated a structural rule (for example more than one producing
// statement).
type ParseError struct {
	Unit    string
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error in unit %s: %s: %v", e.Unit, e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error in unit %s: %s", e.Unit, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// NewParseError creates a new parse error.
func NewParseError(unit, message string, cause error) *ParseError {
	return &ParseError{Unit: unit, Message: message, Cause: cause}
}

// UndefinedVariableError indicates definition text referenced an
// environment variable that is not set.
type UndefinedVariableError struct {
	Variable string
	Unit     string
}

func (e *UndefinedVariableError) Error() string {
	if e.Unit != "" {
		return fmt.Sprintf("environment variable %s referenced by unit %s is not set", e.Variable, e.Unit)
	}
	return fmt.Sprintf("environment variable %s is not set", e.Variable)
}

// NewUndefinedVariableError creates a new undefined variable error.
func NewUndefinedVariableError(variable, unit string) *UndefinedVariableError {
	return &UndefinedVariableError{Variable: variable, Unit: unit}
}

// ExecutionError indicates the store rejected a unit's statement.
type ExecutionError struct {
	Unit      string
	Statement string
	Cause     error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("execution failed for unit %s: %v", e.Unit, e.Cause)
}

func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// NewExecutionError creates a new execution error.
func NewExecutionError(unit, statement string, cause error) *ExecutionError {
	return &ExecutionError{Unit: unit, Statement: statement, Cause: cause}
}

// RoutineError indicates a routine unit's Run returned an error.
type RoutineError struct {
	Unit  string
	Cause error
}

func (e *RoutineError) Error() string {
	return fmt.Sprintf("routine failed for unit %s: %v", e.Unit, e.Cause)
}

func (e *RoutineError) Unwrap() error {
	return e.Cause
}

// NewRoutineError creates a new routine error.
func NewRoutineError(unit string, cause error) *RoutineError {
	return &RoutineError{Unit: unit, Cause: cause}
}
