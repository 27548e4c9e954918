package ast

import "io"

// Clause is a deduction rule: a head atom entailed by the conjunction of
// its body literals. The order of body literals is semantically irrelevant
// to execution but preserved as authored.
type Clause struct {
	baseNode
	head *Atom
	body []Literal
}

// NewClause creates a clause over an owned head and body.
func NewClause(head *Atom, body ...Literal) *Clause {
	return &Clause{head: head, body: body}
}

// Head returns the head atom.
func (c *Clause) Head() *Atom { return c.head }

// SetHead replaces the head atom, taking ownership.
func (c *Clause) SetHead(head *Atom) { c.head = head }

// Body returns the body literals. The slice is borrowed.
func (c *Clause) Body() []Literal { return c.body }

// AddToBody appends a body literal, taking ownership.
func (c *Clause) AddToBody(lit Literal) { c.body = append(c.body, lit) }

// IsFact reports whether the clause has an empty body.
func (c *Clause) IsFact() bool { return len(c.body) == 0 }

func (c *Clause) Clone() Node {
	res := &Clause{head: c.head.Clone().(*Atom), body: cloneLits(c.body)}
	res.SetLoc(c.Loc())
	return res
}

func (c *Clause) Equal(other Node) bool {
	o, ok := other.(*Clause)
	return ok && c.head.Equal(o.head) && equalLits(c.body, o.body)
}

func (c *Clause) Children() []Node {
	res := make([]Node, 0, len(c.body)+1)
	res = append(res, c.head)
	for _, l := range c.body {
		res = append(res, l)
	}
	return res
}

func (c *Clause) Apply(m Mapper) {
	c.head = mapAtom(m, c.head)
	for i := range c.body {
		c.body[i] = mapLit(m, c.body[i])
	}
}

func (c *Clause) Print(w io.Writer, st *SymbolTable) {
	c.head.Print(w, st)
	if len(c.body) > 0 {
		io.WriteString(w, " :- ")
		for i, l := range c.body {
			if i > 0 {
				io.WriteString(w, ", ")
			}
			l.Print(w, st)
		}
	}
	io.WriteString(w, ".")
}
