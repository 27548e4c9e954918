package ast

import (
	"fmt"
	"io"
	"strconv"
)

// Variable is a named logic variable.
type Variable struct {
	baseNode
	name string
}

// NewVariable creates a named variable.
func NewVariable(name string) *Variable {
	return &Variable{name: name}
}

// Name returns the variable name.
func (v *Variable) Name() string { return v.name }

// SetName renames the variable.
func (v *Variable) SetName(name string) { v.name = name }

func (v *Variable) Clone() Node {
	res := NewVariable(v.name)
	res.SetLoc(v.Loc())
	return res
}

func (v *Variable) Equal(other Node) bool {
	o, ok := other.(*Variable)
	return ok && v.name == o.name
}

func (v *Variable) Children() []Node { return nil }

func (v *Variable) Apply(Mapper) {}

func (v *Variable) Print(w io.Writer, _ *SymbolTable) {
	io.WriteString(w, v.name)
}

func (*Variable) argNode() {}

// UnnamedVariable is the anonymous wildcard, printed as "_".
type UnnamedVariable struct {
	baseNode
}

// NewUnnamedVariable creates an anonymous wildcard.
func NewUnnamedVariable() *UnnamedVariable {
	return &UnnamedVariable{}
}

func (v *UnnamedVariable) Clone() Node {
	res := NewUnnamedVariable()
	res.SetLoc(v.Loc())
	return res
}

func (v *UnnamedVariable) Equal(other Node) bool {
	_, ok := other.(*UnnamedVariable)
	return ok
}

func (v *UnnamedVariable) Children() []Node { return nil }

func (v *UnnamedVariable) Apply(Mapper) {}

func (v *UnnamedVariable) Print(w io.Writer, _ *SymbolTable) {
	io.WriteString(w, "_")
}

func (*UnnamedVariable) argNode() {}

// Counter is the projection counter, printed as "$".
type Counter struct {
	baseNode
}

// NewCounter creates a projection counter.
func NewCounter() *Counter {
	return &Counter{}
}

func (c *Counter) Clone() Node {
	res := NewCounter()
	res.SetLoc(c.Loc())
	return res
}

func (c *Counter) Equal(other Node) bool {
	_, ok := other.(*Counter)
	return ok
}

func (c *Counter) Children() []Node { return nil }

func (c *Counter) Apply(Mapper) {}

func (c *Counter) Print(w io.Writer, _ *SymbolTable) {
	io.WriteString(w, "$")
}

func (*Counter) argNode() {}

// StringConstant is an interned string constant. The node stores the
// symbol index only; the enclosing translation unit's SymbolTable resolves
// it, threaded through Print rather than stored per node.
type StringConstant struct {
	baseNode
	sym Symbol
}

// NewStringConstant interns text in st and wraps the resulting index.
func NewStringConstant(st *SymbolTable, text string) *StringConstant {
	return &StringConstant{sym: st.Lookup(text)}
}

// NewStringConstantFromSymbol wraps an already interned index.
func NewStringConstantFromSymbol(sym Symbol) *StringConstant {
	return &StringConstant{sym: sym}
}

// Index returns the symbol-table index of the constant.
func (s *StringConstant) Index() Symbol { return s.sym }

// Text resolves the constant through the symbol table.
func (s *StringConstant) Text(st *SymbolTable) string { return st.Resolve(s.sym) }

func (s *StringConstant) Clone() Node {
	res := NewStringConstantFromSymbol(s.sym)
	res.SetLoc(s.Loc())
	return res
}

func (s *StringConstant) Equal(other Node) bool {
	o, ok := other.(*StringConstant)
	return ok && s.sym == o.sym
}

func (s *StringConstant) Children() []Node { return nil }

func (s *StringConstant) Apply(Mapper) {}

func (s *StringConstant) Print(w io.Writer, st *SymbolTable) {
	fmt.Fprintf(w, "%q", st.Resolve(s.sym))
}

func (*StringConstant) argNode() {}

// NumericConstant is an integer constant.
type NumericConstant struct {
	baseNode
	value int64
}

// NewNumericConstant creates an integer constant.
func NewNumericConstant(value int64) *NumericConstant {
	return &NumericConstant{value: value}
}

// Value returns the constant value.
func (n *NumericConstant) Value() int64 { return n.value }

func (n *NumericConstant) Clone() Node {
	res := NewNumericConstant(n.value)
	res.SetLoc(n.Loc())
	return res
}

func (n *NumericConstant) Equal(other Node) bool {
	o, ok := other.(*NumericConstant)
	return ok && n.value == o.value
}

func (n *NumericConstant) Children() []Node { return nil }

func (n *NumericConstant) Apply(Mapper) {}

func (n *NumericConstant) Print(w io.Writer, _ *SymbolTable) {
	io.WriteString(w, strconv.FormatInt(n.value, 10))
}

func (*NumericConstant) argNode() {}

// NilConstant is the record null, printed as "-".
type NilConstant struct {
	baseNode
}

// NewNilConstant creates a record null.
func NewNilConstant() *NilConstant {
	return &NilConstant{}
}

func (n *NilConstant) Clone() Node {
	res := NewNilConstant()
	res.SetLoc(n.Loc())
	return res
}

func (n *NilConstant) Equal(other Node) bool {
	_, ok := other.(*NilConstant)
	return ok
}

func (n *NilConstant) Children() []Node { return nil }

func (n *NilConstant) Apply(Mapper) {}

func (n *NilConstant) Print(w io.Writer, _ *SymbolTable) {
	io.WriteString(w, "-")
}

func (*NilConstant) argNode() {}

// IntrinsicFunctor applies a built-in operator to argument expressions.
// The operand count is fixed by the op; an arity mismatch at construction
// is a compiler bug and panics.
type IntrinsicFunctor struct {
	baseNode
	op   FunctorOp
	args []Argument
}

// NewIntrinsicFunctor creates an intrinsic functor application.
func NewIntrinsicFunctor(op FunctorOp, args ...Argument) *IntrinsicFunctor {
	if len(args) != op.Arity() {
		panic(fmt.Sprintf("functor %s: got %d arguments, arity is %d", op.Symbol(), len(args), op.Arity()))
	}
	return &IntrinsicFunctor{op: op, args: args}
}

// Op returns the intrinsic operator.
func (f *IntrinsicFunctor) Op() FunctorOp { return f.op }

// Args returns the operand sequence. The slice is borrowed.
func (f *IntrinsicFunctor) Args() []Argument { return f.args }

// Arg returns operand i. An out-of-range index panics.
func (f *IntrinsicFunctor) Arg(i int) Argument {
	if i < 0 || i >= len(f.args) {
		panic(fmt.Sprintf("functor %s: operand index %d out of range", f.op.Symbol(), i))
	}
	return f.args[i]
}

func (f *IntrinsicFunctor) Clone() Node {
	res := &IntrinsicFunctor{op: f.op, args: cloneArgs(f.args)}
	res.SetLoc(f.Loc())
	return res
}

func (f *IntrinsicFunctor) Equal(other Node) bool {
	o, ok := other.(*IntrinsicFunctor)
	return ok && f.op == o.op && equalArgs(f.args, o.args)
}

func (f *IntrinsicFunctor) Children() []Node {
	res := make([]Node, len(f.args))
	for i, a := range f.args {
		res[i] = a
	}
	return res
}

func (f *IntrinsicFunctor) Apply(m Mapper) {
	for i := range f.args {
		f.args[i] = mapArg(m, f.args[i])
	}
}

func (f *IntrinsicFunctor) Print(w io.Writer, st *SymbolTable) {
	if len(f.args) == 2 && f.op.Infix() {
		io.WriteString(w, "(")
		f.args[0].Print(w, st)
		io.WriteString(w, f.op.Symbol())
		f.args[1].Print(w, st)
		io.WriteString(w, ")")
		return
	}
	io.WriteString(w, f.op.Symbol())
	io.WriteString(w, "(")
	printArgs(w, st, f.args)
	io.WriteString(w, ")")
}

func (*IntrinsicFunctor) argNode() {}

// UserFunctor applies a user-defined operator, printed as @name(args).
type UserFunctor struct {
	baseNode
	name string
	args []Argument
}

// NewUserFunctor creates a user-defined functor application.
func NewUserFunctor(name string, args ...Argument) *UserFunctor {
	return &UserFunctor{name: name, args: args}
}

// Name returns the functor name.
func (f *UserFunctor) Name() string { return f.name }

// SetName renames the functor.
func (f *UserFunctor) SetName(name string) { f.name = name }

// Args returns the operand sequence. The slice is borrowed.
func (f *UserFunctor) Args() []Argument { return f.args }

// Add appends an operand, taking ownership.
func (f *UserFunctor) Add(arg Argument) { f.args = append(f.args, arg) }

func (f *UserFunctor) Clone() Node {
	res := &UserFunctor{name: f.name, args: cloneArgs(f.args)}
	res.SetLoc(f.Loc())
	return res
}

func (f *UserFunctor) Equal(other Node) bool {
	o, ok := other.(*UserFunctor)
	return ok && f.name == o.name && equalArgs(f.args, o.args)
}

func (f *UserFunctor) Children() []Node {
	res := make([]Node, len(f.args))
	for i, a := range f.args {
		res[i] = a
	}
	return res
}

func (f *UserFunctor) Apply(m Mapper) {
	for i := range f.args {
		f.args[i] = mapArg(m, f.args[i])
	}
}

func (f *UserFunctor) Print(w io.Writer, st *SymbolTable) {
	io.WriteString(w, "@")
	io.WriteString(w, f.name)
	io.WriteString(w, "(")
	printArgs(w, st, f.args)
	io.WriteString(w, ")")
}

func (*UserFunctor) argNode() {}

// RecordInit constructs a record value from a sequence of arguments,
// printed as [a,b,...].
type RecordInit struct {
	baseNode
	args []Argument
}

// NewRecordInit creates a record constructor.
func NewRecordInit(args ...Argument) *RecordInit {
	return &RecordInit{args: args}
}

// Args returns the component sequence. The slice is borrowed.
func (r *RecordInit) Args() []Argument { return r.args }

// Add appends a component, taking ownership.
func (r *RecordInit) Add(arg Argument) { r.args = append(r.args, arg) }

func (r *RecordInit) Clone() Node {
	res := &RecordInit{args: cloneArgs(r.args)}
	res.SetLoc(r.Loc())
	return res
}

func (r *RecordInit) Equal(other Node) bool {
	o, ok := other.(*RecordInit)
	return ok && equalArgs(r.args, o.args)
}

func (r *RecordInit) Children() []Node {
	res := make([]Node, len(r.args))
	for i, a := range r.args {
		res[i] = a
	}
	return res
}

func (r *RecordInit) Apply(m Mapper) {
	for i := range r.args {
		r.args[i] = mapArg(m, r.args[i])
	}
}

func (r *RecordInit) Print(w io.Writer, st *SymbolTable) {
	io.WriteString(w, "[")
	printArgs(w, st, r.args)
	io.WriteString(w, "]")
}

func (*RecordInit) argNode() {}

// TypeCast casts a value to a named type, printed as "value as Type".
// The target type is textual only; resolution happens in a later pass.
type TypeCast struct {
	baseNode
	value Argument
	typ   QualifiedName
}

// NewTypeCast creates a type cast around an owned value.
func NewTypeCast(value Argument, typ QualifiedName) *TypeCast {
	return &TypeCast{value: value, typ: typ}
}

// Value returns the casted expression.
func (c *TypeCast) Value() Argument { return c.value }

// TargetType returns the textual target type name.
func (c *TypeCast) TargetType() QualifiedName { return c.typ }

func (c *TypeCast) Clone() Node {
	res := &TypeCast{value: CloneArg(c.value), typ: NewQualifiedName(c.typ.Parts()...)}
	res.SetLoc(c.Loc())
	return res
}

func (c *TypeCast) Equal(other Node) bool {
	o, ok := other.(*TypeCast)
	return ok && c.typ.Equal(o.typ) && c.value.Equal(o.value)
}

func (c *TypeCast) Children() []Node {
	return []Node{c.value}
}

func (c *TypeCast) Apply(m Mapper) {
	c.value = mapArg(m, c.value)
}

func (c *TypeCast) Print(w io.Writer, st *SymbolTable) {
	c.value.Print(w, st)
	io.WriteString(w, " as ")
	io.WriteString(w, c.typ.String())
}

func (*TypeCast) argNode() {}

// AggregatorOp enumerates the aggregation operators.
type AggregatorOp int

const (
	AggMin AggregatorOp = iota
	AggMax
	AggCount
	AggSum
)

// String returns the operator keyword.
func (op AggregatorOp) String() string {
	switch op {
	case AggMin:
		return "min"
	case AggMax:
		return "max"
	case AggCount:
		return "count"
	case AggSum:
		return "sum"
	default:
		return "unknown"
	}
}

// AggregatorOpForSymbol returns the aggregation operator for a keyword.
func AggregatorOpForSymbol(symbol string) (AggregatorOp, bool) {
	switch symbol {
	case "min":
		return AggMin, true
	case "max":
		return AggMax, true
	case "count":
		return AggCount, true
	case "sum":
		return AggSum, true
	default:
		return 0, false
	}
}

// Aggregator computes min/max/count/sum over a sub-query. The body
// literals introduce a nested variable scope disjoint from the enclosing
// clause. The target expression is absent for count.
type Aggregator struct {
	baseNode
	op     AggregatorOp
	target Argument
	body   []Literal
}

// NewAggregator creates an aggregation with an empty body.
func NewAggregator(op AggregatorOp) *Aggregator {
	return &Aggregator{op: op}
}

// Op returns the aggregation operator.
func (a *Aggregator) Op() AggregatorOp { return a.op }

// Target returns the aggregated expression, or nil for count.
func (a *Aggregator) Target() Argument { return a.target }

// SetTarget installs the aggregated expression, taking ownership.
func (a *Aggregator) SetTarget(arg Argument) { a.target = arg }

// Body returns the sub-query literals. The slice is borrowed.
func (a *Aggregator) Body() []Literal { return a.body }

// AddBodyLiteral appends a sub-query literal, taking ownership.
func (a *Aggregator) AddBodyLiteral(lit Literal) { a.body = append(a.body, lit) }

func (a *Aggregator) Clone() Node {
	res := &Aggregator{op: a.op, body: cloneLits(a.body)}
	if a.target != nil {
		res.target = CloneArg(a.target)
	}
	res.SetLoc(a.Loc())
	return res
}

func (a *Aggregator) Equal(other Node) bool {
	o, ok := other.(*Aggregator)
	if !ok || a.op != o.op {
		return false
	}
	if (a.target == nil) != (o.target == nil) {
		return false
	}
	if a.target != nil && !a.target.Equal(o.target) {
		return false
	}
	return equalLits(a.body, o.body)
}

func (a *Aggregator) Children() []Node {
	var res []Node
	if a.target != nil {
		res = append(res, a.target)
	}
	for _, l := range a.body {
		res = append(res, l)
	}
	return res
}

func (a *Aggregator) Apply(m Mapper) {
	if a.target != nil {
		a.target = mapArg(m, a.target)
	}
	for i := range a.body {
		a.body[i] = mapLit(m, a.body[i])
	}
}

func (a *Aggregator) Print(w io.Writer, st *SymbolTable) {
	io.WriteString(w, a.op.String())
	if a.target != nil {
		io.WriteString(w, " ")
		a.target.Print(w, st)
	}
	io.WriteString(w, " : { ")
	for i, l := range a.body {
		if i > 0 {
			io.WriteString(w, ", ")
		}
		l.Print(w, st)
	}
	io.WriteString(w, " }")
}

func (*Aggregator) argNode() {}

// SubroutineArg takes its value from an argument of a generated
// subroutine, printed as arg_N.
type SubroutineArg struct {
	baseNode
	index int
}

// NewSubroutineArg creates a subroutine argument reference.
// A negative index is a compiler bug and panics.
func NewSubroutineArg(index int) *SubroutineArg {
	if index < 0 {
		panic(fmt.Sprintf("subroutine argument index must be non-negative, got %d", index))
	}
	return &SubroutineArg{index: index}
}

// Index returns the position in the subroutine argument list.
func (s *SubroutineArg) Index() int { return s.index }

func (s *SubroutineArg) Clone() Node {
	res := NewSubroutineArg(s.index)
	res.SetLoc(s.Loc())
	return res
}

func (s *SubroutineArg) Equal(other Node) bool {
	o, ok := other.(*SubroutineArg)
	return ok && s.index == o.index
}

func (s *SubroutineArg) Children() []Node { return nil }

func (s *SubroutineArg) Apply(Mapper) {}

func (s *SubroutineArg) Print(w io.Writer, _ *SymbolTable) {
	fmt.Fprintf(w, "arg_%d", s.index)
}

func (*SubroutineArg) argNode() {}
