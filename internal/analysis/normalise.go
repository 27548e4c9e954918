package analysis

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/roach88/horn/internal/ast"
)

// Element is one entry of the flat normalised representation: a qualified
// name plus the normalised-argument tokens it applies to. The first param
// of body elements is the scope id tying the element to its (possibly
// nested aggregate) variable scope.
type Element struct {
	Name   ast.QualifiedName
	Params []string
}

// String renders the element as name:[p1,p2,...].
func (e Element) String() string {
	s := e.Name.String() + ":["
	for i, p := range e.Params {
		if i > 0 {
			s += ","
		}
		s += p
	}
	return s + "]"
}

// NormalisedClause is the canonical flat form of a clause. Element
// insertion order is significant (the head element is always first);
// the constant and variable sets are insertion-order-independent.
//
// Downstream equivalence checks compare normalised clauses as multisets
// of elements, which makes the form invariant under reordering of body
// literals that hold no unnamed variables and no aggregators. Unnamed
// tokens and aggregator scope ids are numbered in visiting order, so
// moving literals that hold them changes the elements.
type NormalisedClause struct {
	elements        []Element
	constants       map[string]struct{}
	variables       map[string]struct{}
	fullyNormalised bool

	// Both counters are per-clause so clauses normalise independently.
	unnamedCount   int
	aggrScopeCount int
}

// NewNormalisedClause builds the canonical flat form of a clause.
// String constants resolve through the unit's symbol table.
func NewNormalisedClause(clause *ast.Clause, st *ast.SymbolTable) *NormalisedClause {
	n := &NormalisedClause{
		constants:       make(map[string]struct{}),
		variables:       make(map[string]struct{}),
		fullyNormalised: true,
	}

	// head
	headParams := make([]string, 0, clause.Head().Arity())
	for _, arg := range clause.Head().Args() {
		headParams = append(headParams, n.normaliseArgument(arg, st))
	}
	n.elements = append(n.elements, Element{
		Name:   ast.NewQualifiedName("@min:head"),
		Params: headParams,
	})

	// body
	for _, lit := range clause.Body() {
		n.addBodyLiteral("@min:scope:0", lit, st)
	}

	return n
}

// Elements returns the elements in insertion order. The slice is borrowed.
func (n *NormalisedClause) Elements() []Element { return n.elements }

// Constants returns the constant tokens in sorted order.
func (n *NormalisedClause) Constants() []string { return sortedSet(n.constants) }

// Variables returns the variable tokens in sorted order.
func (n *NormalisedClause) Variables() []string { return sortedSet(n.variables) }

// HasConstant reports membership in the constant set.
func (n *NormalisedClause) HasConstant(token string) bool {
	_, ok := n.constants[token]
	return ok
}

// HasVariable reports membership in the variable set.
func (n *NormalisedClause) HasVariable(token string) bool {
	_, ok := n.variables[token]
	return ok
}

// FullyNormalised reports whether every literal and argument of the clause
// was understood. Once false it stays false; downstream passes must then
// treat the clause pessimistically.
func (n *NormalisedClause) FullyNormalised() bool { return n.fullyNormalised }

func sortedSet(set map[string]struct{}) []string {
	res := make([]string, 0, len(set))
	for s := range set {
		res = append(res, s)
	}
	slices.Sort(res)
	return res
}

// addAtom emits one element for an atom, tagged with a qualifier
// ("@min:atom" or "@min:neg") and tied to a scope.
func (n *NormalisedClause) addAtom(qualifier, scopeID string, atom *ast.Atom, st *ast.SymbolTable) {
	name := ast.NewQualifiedName(atom.Name().Parts()...)
	name.Prepend(qualifier)

	params := make([]string, 0, atom.Arity()+1)
	params = append(params, scopeID)
	for _, arg := range atom.Args() {
		params = append(params, n.normaliseArgument(arg, st))
	}
	n.elements = append(n.elements, Element{Name: name, Params: params})
}

// addBodyLiteral emits the element(s) for one body literal under the given
// scope. Literal kinds the normaliser does not understand drop the
// fullyNormalised flag and leave a placeholder element so processing can
// continue.
func (n *NormalisedClause) addBodyLiteral(scopeID string, lit ast.Literal, st *ast.SymbolTable) {
	switch l := lit.(type) {
	case *ast.Atom:
		n.addAtom("@min:atom", scopeID, l, st)
	case *ast.Negation:
		n.addAtom("@min:neg", scopeID, l.Atom(), st)
	case *ast.BinaryConstraint:
		name := ast.NewQualifiedName(l.Op().Symbol())
		name.Prepend("@min:operator")
		params := []string{
			scopeID,
			n.normaliseArgument(l.LHS(), st),
			n.normaliseArgument(l.RHS(), st),
		}
		n.elements = append(n.elements, Element{Name: name, Params: params})
	default:
		n.fullyNormalised = false
		name := ast.NewQualifiedName(ast.Sprint(lit, st))
		name.Prepend("@min:unhandled:lit:" + scopeID)
		n.elements = append(n.elements, Element{Name: name})
	}
}

// normaliseArgument maps an argument to its stable token, collecting
// constants and variables on the way. Aggregators open a fresh scope and
// recursively normalise their body under it.
func (n *NormalisedClause) normaliseArgument(arg ast.Argument, st *ast.SymbolTable) string {
	switch a := arg.(type) {
	case *ast.StringConstant:
		token := "@min:cst:str" + strconv.Quote(a.Text(st))
		n.constants[token] = struct{}{}
		return token
	case *ast.NumericConstant:
		token := "@min:cst:num:" + strconv.FormatInt(a.Value(), 10)
		n.constants[token] = struct{}{}
		return token
	case *ast.NilConstant:
		n.constants["@min:cst:nil"] = struct{}{}
		return "@min:cst:nil"
	case *ast.Variable:
		n.variables[a.Name()] = struct{}{}
		return a.Name()
	case *ast.UnnamedVariable:
		token := "@min:unnamed:" + strconv.Itoa(n.unnamedCount)
		n.unnamedCount++
		n.variables[token] = struct{}{}
		return token
	case *ast.Aggregator:
		// A fresh scope uniquely identifies the aggregator; nested
		// aggregators get scopes distinct from any enclosing one.
		n.aggrScopeCount++
		scopeID := "@min:scope:" + strconv.Itoa(n.aggrScopeCount)
		n.variables[scopeID] = struct{}{}

		// Type signature of the aggregator: the operator is fixed and
		// encoded in the element name; the scope and the normalised
		// target expression can be remapped as variables.
		params := []string{scopeID}
		if a.Target() != nil {
			params = append(params, n.normaliseArgument(a.Target(), st))
		}
		n.elements = append(n.elements, Element{
			Name:   ast.NewQualifiedName(fmt.Sprintf("@min:aggrtype:%s", a.Op())),
			Params: params,
		})

		// Each contained literal normalises under the new scope.
		for _, lit := range a.Body() {
			n.addBodyLiteral(scopeID, lit, st)
		}

		return scopeID
	default:
		n.fullyNormalised = false
		return "@min:unhandled:arg"
	}
}
