// Package taskgraph implements the dependency graph of tasks that
// produce signal and dataset values (spec §3 Variable/ScopedVariable/
// Task/TaskGraph, §4.4 graph construction & scheduler contract).
package taskgraph

import "fmt"

// Namespace classifies a Variable's role in the graph.
type Namespace int

const (
	NamespaceSignal Namespace = iota
	NamespaceData
	NamespaceScale
)

func (n Namespace) String() string {
	switch n {
	case NamespaceSignal:
		return "signal"
	case NamespaceData:
		return "data"
	case NamespaceScale:
		return "scale"
	default:
		return "unknown"
	}
}

// Variable identifies a named input/output in the graph (spec §3
// "Name + namespace").
type Variable struct {
	Namespace Namespace
	Name      string
}

func (v Variable) String() string {
	return fmt.Sprintf("%s:%s", v.Namespace, v.Name)
}

// ScopedVariable pairs a Variable with its path through nested chart
// groups; an empty Scope is the root (spec §3 ScopedVariable).
type ScopedVariable struct {
	Var   Variable
	Scope []uint32
}

func (sv ScopedVariable) String() string {
	if len(sv.Scope) == 0 {
		return sv.Var.String()
	}
	return fmt.Sprintf("%s@%v", sv.Var, sv.Scope)
}

// Equal compares two scoped variables for identity, used when
// resolving a task's declared inputs against earlier nodes in the
// enclosing scope chain (innermost wins, per spec §4.4).
func (sv ScopedVariable) Equal(o ScopedVariable) bool {
	if sv.Var != o.Var || len(sv.Scope) != len(o.Scope) {
		return false
	}
	for i := range sv.Scope {
		if sv.Scope[i] != o.Scope[i] {
			return false
		}
	}
	return true
}
