package ast

// implicitLocals are identifiers the expression grammar binds without a
// signal/constant lookup: `datum` (the current row in a transform
// predicate) and `event` (interaction payloads, unused server-side but
// still a reserved local so it is never reported as a free variable).
var implicitLocals = map[string]bool{
	"datum": true,
	"event": true,
}

// BuiltinNameSet reports whether a name is bound to one of the
// expression language's builtin functions, supplied by the caller (the
// logicalexpr package owns the registry; this package only needs the
// predicate to avoid an import cycle).
type BuiltinNameSet interface {
	IsBuiltin(name string) bool
}

// ExtractVariables walks n and returns the set of free identifiers: bare
// Identifier nodes and Call callees that are not implicit locals and are
// not builtin function names. Member expressions on `datum` contribute
// column usage (via ExtractColumns), not variables, per spec §4.1.
func ExtractVariables(n Node, builtins BuiltinNameSet) []string {
	seen := map[string]bool{}
	var order []string
	var walk func(Node)
	walk = func(n Node) {
		switch v := n.(type) {
		case *Identifier:
			if !implicitLocals[v.Name] && !(builtins != nil && builtins.IsBuiltin(v.Name)) {
				if !seen[v.Name] {
					seen[v.Name] = true
					order = append(order, v.Name)
				}
			}
		case *Literal:
			// no children
		case *Array:
			for _, e := range v.Elements {
				walk(e)
			}
		case *Object:
			for _, p := range v.Properties {
				if p.Computed {
					walk(p.Key)
				}
				walk(p.Value)
			}
		case *Member:
			if isDatumRoot(v) {
				// Column usage, not a variable; do not recurse into the
				// datum root, but a computed index may itself reference
				// variables (e.g. datum[sigName]).
				if v.Computed {
					walk(v.Property)
				}
				return
			}
			walk(v.Object)
			if v.Computed {
				walk(v.Property)
			}
		case *Call:
			if !(builtins != nil && builtins.IsBuiltin(v.Callee)) {
				if !seen[v.Callee] {
					seen[v.Callee] = true
					order = append(order, v.Callee)
				}
			}
			for _, a := range v.Args {
				walk(a)
			}
		case *Unary:
			walk(v.Argument)
		case *Binary:
			walk(v.Left)
			walk(v.Right)
		case *Logical:
			walk(v.Left)
			walk(v.Right)
		case *Conditional:
			walk(v.Test)
			walk(v.Consequent)
			walk(v.Alternate)
		}
	}
	walk(n)
	return order
}

// isDatumRoot reports whether m's root object is the `datum` identifier,
// i.e. m is (a possibly nested) column reference rather than a free
// variable member access.
func isDatumRoot(m *Member) bool {
	obj := m.Object
	for {
		switch v := obj.(type) {
		case *Identifier:
			return v.Name == "datum"
		case *Member:
			obj = v.Object
		default:
			return false
		}
	}
}

// ExtractColumns returns the set of `datum.field` / `datum["field"]`
// column names referenced by n, in first-appearance order.
func ExtractColumns(n Node) []string {
	seen := map[string]bool{}
	var order []string
	var walk func(Node)
	walk = func(n Node) {
		switch v := n.(type) {
		case *Member:
			if isDatumRoot(v) {
				if name, ok := memberColumnName(v); ok {
					if !seen[name] {
						seen[name] = true
						order = append(order, name)
					}
					return
				}
			}
			walk(v.Object)
			if v.Computed {
				walk(v.Property)
			}
		case *Array:
			for _, e := range v.Elements {
				walk(e)
			}
		case *Object:
			for _, p := range v.Properties {
				walk(p.Value)
			}
		case *Call:
			for _, a := range v.Args {
				walk(a)
			}
		case *Unary:
			walk(v.Argument)
		case *Binary:
			walk(v.Left)
			walk(v.Right)
		case *Logical:
			walk(v.Left)
			walk(v.Right)
		case *Conditional:
			walk(v.Test)
			walk(v.Consequent)
			walk(v.Alternate)
		}
	}
	walk(n)
	return order
}

// MemberColumnName extracts the literal `datum.field` column name a
// Member node addresses, for callers (e.g. the compiler package) that
// need this outside of a full tree walk. Returns ok=false if m is not
// rooted at `datum` or its index is not resolvable to a literal name.
func MemberColumnName(m *Member) (string, bool) {
	if !isDatumRoot(m) {
		return "", false
	}
	return memberColumnName(m)
}

// memberColumnName extracts the literal field name of a direct
// `datum.x` or `datum["x"]` access; returns ok=false for a computed
// member whose index is not a string literal (e.g. datum[i]).
func memberColumnName(m *Member) (string, bool) {
	if _, isDatum := m.Object.(*Identifier); !isDatum {
		return "", false
	}
	if !m.Computed {
		if id, ok := m.Property.(*Identifier); ok {
			return id.Name, true
		}
		return "", false
	}
	if lit, ok := m.Property.(*Literal); ok && lit.Kind == LiteralString {
		return lit.Str, true
	}
	return "", false
}
