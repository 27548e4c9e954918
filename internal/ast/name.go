package ast

import "strings"

// QualifiedName is an ordered sequence of identifier components,
// e.g. "graph.edge" has components ["graph", "edge"].
// Equality is sequence equality.
type QualifiedName struct {
	parts []string
}

// NewQualifiedName creates a qualified name from components in order.
func NewQualifiedName(parts ...string) QualifiedName {
	cp := make([]string, len(parts))
	copy(cp, parts)
	return QualifiedName{parts: cp}
}

// Prepend adds a component in front of the name.
func (q *QualifiedName) Prepend(part string) {
	q.parts = append([]string{part}, q.parts...)
}

// Append adds a component at the end of the name.
func (q *QualifiedName) Append(part string) {
	// Reallocate so names sharing a backing array stay independent.
	parts := make([]string, 0, len(q.parts)+1)
	parts = append(parts, q.parts...)
	q.parts = append(parts, part)
}

// Parts returns the components in order. The slice is borrowed.
func (q QualifiedName) Parts() []string {
	return q.parts
}

// IsEmpty reports whether the name has no components.
func (q QualifiedName) IsEmpty() bool {
	return len(q.parts) == 0
}

// Equal reports sequence equality of components.
func (q QualifiedName) Equal(other QualifiedName) bool {
	if len(q.parts) != len(other.parts) {
		return false
	}
	for i, p := range q.parts {
		if p != other.parts[i] {
			return false
		}
	}
	return true
}

// String joins the components with dots.
func (q QualifiedName) String() string {
	return strings.Join(q.parts, ".")
}
