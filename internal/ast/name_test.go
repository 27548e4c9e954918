package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQualifiedNameString(t *testing.T) {
	tests := []struct {
		name     string
		parts    []string
		expected string
	}{
		{"empty", nil, ""},
		{"single", []string{"edge"}, "edge"},
		{"qualified", []string{"graph", "edge"}, "graph.edge"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewQualifiedName(tt.parts...)
			assert.Equal(t, tt.expected, q.String())
		})
	}
}

func TestQualifiedNamePrependAppend(t *testing.T) {
	q := NewQualifiedName("edge")
	q.Prepend("graph")
	q.Append("weight")
	assert.Equal(t, "graph.edge.weight", q.String())
	assert.Equal(t, []string{"graph", "edge", "weight"}, q.Parts())
}

func TestQualifiedNameEqual(t *testing.T) {
	a := NewQualifiedName("graph", "edge")
	b := NewQualifiedName("graph", "edge")
	c := NewQualifiedName("graph", "node")

	assert.True(t, a.Equal(b))
	assert.True(t, b.Equal(a))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(NewQualifiedName("graph")))
}

func TestQualifiedNamePrependDoesNotAliasCopies(t *testing.T) {
	a := NewQualifiedName("edge")
	b := NewQualifiedName(a.Parts()...)
	b.Prepend("graph")

	assert.Equal(t, "edge", a.String())
	assert.Equal(t, "graph.edge", b.String())
}
