// Package ast defines the front-end intermediate representation for Horn
// Datalog programs.
//
// This package contains the tree model only. All other internal packages
// import ast; ast imports nothing internal. This keeps the IR the
// foundational layer with no circular dependencies.
//
// The tree is built from two sealed node families:
//
//	Node (interface)
//	├── Argument (interface) - expression nodes
//	│   ├── Variable, UnnamedVariable, Counter
//	│   ├── StringConstant, NumericConstant, NilConstant
//	│   ├── IntrinsicFunctor, UserFunctor
//	│   └── RecordInit, TypeCast, Aggregator, SubroutineArg
//	└── Literal (interface) - clause body elements
//	    ├── Atom
//	    ├── Negation
//	    └── BinaryConstraint
//
// plus Clause (head atom + body literals) and Program (clause collection).
//
// Key design constraints:
//   - Every subtree has exactly one owner; copies are deep clones
//   - Equal ignores source locations and is false across variants
//   - Apply rewrites direct child slots only; recursion belongs to the Mapper
//   - NO float constants anywhere - numeric values are int64
package ast
