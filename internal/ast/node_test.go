package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleNodes builds one instance of every node variant, sharing a
// symbol table so string constants resolve.
func sampleNodes(st *SymbolTable) []Node {
	agg := NewAggregator(AggMin)
	agg.SetTarget(NewVariable("X"))
	agg.AddBodyLiteral(NewAtom(NewQualifiedName("S"), NewVariable("X")))

	countAgg := NewAggregator(AggCount)
	countAgg.AddBodyLiteral(NewAtom(NewQualifiedName("S"), NewUnnamedVariable()))

	return []Node{
		NewVariable("X"),
		NewUnnamedVariable(),
		NewCounter(),
		NewStringConstant(st, "hello"),
		NewNumericConstant(42),
		NewNilConstant(),
		NewIntrinsicFunctor(FuncAdd, NewVariable("X"), NewNumericConstant(1)),
		NewIntrinsicFunctor(FuncOrd, NewStringConstant(st, "a")),
		NewUserFunctor("dist", NewVariable("X"), NewVariable("Y")),
		NewRecordInit(NewVariable("X"), NewNilConstant()),
		NewTypeCast(NewNumericConstant(7), NewQualifiedName("Weight")),
		agg,
		countAgg,
		NewSubroutineArg(2),
		NewAtom(NewQualifiedName("edge"), NewVariable("X"), NewVariable("Y")),
		NewNegation(NewAtom(NewQualifiedName("edge"), NewVariable("X"), NewVariable("Y"))),
		NewBinaryConstraint(CmpLt, NewVariable("X"), NewNumericConstant(10)),
		NewClause(
			NewAtom(NewQualifiedName("path"), NewVariable("X"), NewVariable("Y")),
			NewAtom(NewQualifiedName("edge"), NewVariable("X"), NewVariable("Y")),
		),
	}
}

func TestCloneIsEqualAndIndependent(t *testing.T) {
	st := NewSymbolTable()
	for _, n := range sampleNodes(st) {
		t.Run(Sprint(n, st), func(t *testing.T) {
			clone := n.Clone()
			require.True(t, clone.Equal(n), "clone must equal original")
			require.True(t, n.Equal(clone), "equality must be symmetric")

			// No aliasing between the original's children and the clone's.
			origChildren := n.Children()
			cloneChildren := clone.Children()
			require.Len(t, cloneChildren, len(origChildren))
			for i := range origChildren {
				assert.NotSame(t, origChildren[i], cloneChildren[i])
			}
		})
	}
}

func TestCloneMutationDoesNotAffectOriginal(t *testing.T) {
	st := NewSymbolTable()
	orig := NewUserFunctor("f", NewVariable("X"), NewVariable("Y"))
	clone := orig.Clone().(*UserFunctor)

	clone.Args()[0].(*Variable).SetName("Z")

	assert.Equal(t, "X", orig.Args()[0].(*Variable).Name())
	assert.Equal(t, "@f(X,Y)", Sprint(orig, st))
	assert.Equal(t, "@f(Z,Y)", Sprint(clone, st))
}

func TestEqualIsReflexive(t *testing.T) {
	st := NewSymbolTable()
	for _, n := range sampleNodes(st) {
		assert.True(t, n.Equal(n), "node %s must equal itself", Sprint(n, st))
	}
}

func TestEqualAcrossVariantsIsFalse(t *testing.T) {
	st := NewSymbolTable()
	nodes := sampleNodes(st)
	for i, a := range nodes {
		for j, b := range nodes {
			if i == j {
				continue
			}
			if a.Equal(b) {
				// Distinct sample nodes must never compare equal,
				// whatever their variants.
				t.Errorf("distinct nodes compare equal: %s vs %s", Sprint(a, st), Sprint(b, st))
			}
		}
	}
}

func TestEqualIgnoresSrcLoc(t *testing.T) {
	a := NewVariable("X")
	b := NewVariable("X")
	a.SetLoc(SrcLoc{File: "a.dl", StartLine: 1, StartCol: 2})
	b.SetLoc(SrcLoc{File: "b.dl", StartLine: 9, StartCol: 9})

	assert.True(t, a.Equal(b))
	assert.True(t, b.Equal(a))
}

func TestCloneCopiesSrcLoc(t *testing.T) {
	v := NewVariable("X")
	loc := SrcLoc{File: "prog.dl", StartLine: 3, StartCol: 7, EndLine: 3, EndCol: 8}
	v.SetLoc(loc)

	clone := v.Clone()
	assert.Equal(t, loc, clone.Loc())
}

func TestIdentityMapperLeavesTreeEqual(t *testing.T) {
	st := NewSymbolTable()
	id := MapperFunc(func(n Node) Node { return n })
	for _, n := range sampleNodes(st) {
		before := n.Clone()
		n.Apply(id)
		assert.True(t, n.Equal(before), "identity rewrite changed %s", Sprint(before, st))
	}
}

func TestChildrenDeclarationOrder(t *testing.T) {
	x := NewVariable("X")
	y := NewVariable("Y")
	f := NewIntrinsicFunctor(FuncSub, x, y)

	children := f.Children()
	require.Len(t, children, 2)
	assert.Same(t, Node(x), children[0])
	assert.Same(t, Node(y), children[1])

	head := NewAtom(NewQualifiedName("R"), NewVariable("A"))
	body := Literal(NewAtom(NewQualifiedName("S"), NewVariable("A")))
	clause := NewClause(head, body)

	cc := clause.Children()
	require.Len(t, cc, 2)
	assert.Same(t, Node(head), cc[0])
	assert.Same(t, Node(body), cc[1])
}

func TestAggregatorChildrenIncludeTargetThenBody(t *testing.T) {
	target := NewVariable("X")
	lit := Literal(NewAtom(NewQualifiedName("S"), NewVariable("X")))
	agg := NewAggregator(AggMax)
	agg.SetTarget(target)
	agg.AddBodyLiteral(lit)

	children := agg.Children()
	require.Len(t, children, 2)
	assert.Same(t, Node(target), children[0])
	assert.Same(t, Node(lit), children[1])
}

// TestCloneThenRewriteSwap builds R(f(X,Y)), clones it, and applies a
// variable-swapping mapper to the clone only.
func TestCloneThenRewriteSwap(t *testing.T) {
	st := NewSymbolTable()
	clause := NewClause(NewAtom(NewQualifiedName("R"),
		NewUserFunctor("f", NewVariable("X"), NewVariable("Y"))))

	clone := clause.Clone().(*Clause)

	var swap MapperFunc
	swap = func(n Node) Node {
		if v, ok := n.(*Variable); ok {
			switch v.Name() {
			case "X":
				return NewVariable("Y")
			case "Y":
				return NewVariable("X")
			}
			return v
		}
		n.Apply(swap)
		return n
	}
	clone.Apply(swap)

	assert.Equal(t, "R(@f(X,Y)).", Sprint(clause, st))
	assert.Equal(t, "R(@f(Y,X)).", Sprint(clone, st))
}

func TestMapperWrongKindPanics(t *testing.T) {
	atom := NewAtom(NewQualifiedName("R"), NewVariable("X"))
	bad := MapperFunc(func(Node) Node { return NewAtom(NewQualifiedName("S")) })

	// An atom slot holds arguments; returning a literal poisons the tree.
	assert.Panics(t, func() { atom.Apply(bad) })
}

func TestNegationApplyReplacesAtomSlot(t *testing.T) {
	st := NewSymbolTable()
	neg := NewNegation(NewAtom(NewQualifiedName("S"), NewVariable("X")))

	rename := MapperFunc(func(n Node) Node {
		if a, ok := n.(*Atom); ok {
			renamed := a.Clone().(*Atom)
			renamed.SetName(NewQualifiedName("T"))
			return renamed
		}
		return n
	})
	neg.Apply(rename)

	assert.Equal(t, "!T(X)", Sprint(neg, st))
}
