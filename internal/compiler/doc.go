// Package compiler loads structural Datalog program descriptions (CUE or
// YAML) and builds the owned AST the front-end analyses consume. It plays
// the role of the concrete-syntax parser: one constructor call per node
// variant, source locations attached where the input provides them.
package compiler
