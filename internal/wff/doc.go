// Package wff implements the formula layer of the build pipeline: the
// authoring expression tree, the language skeleton, and the compilation
// bridge that lowers expressions into canonical token sequences.
//
// A build context owns one Skeleton. The skeleton declares the typecode,
// the connective table with arities, the schema variables, and the
// designated implication connective used by proof composition. Compiling
// an expression against the skeleton yields a TokenSeq: the fixed prefix
// encoding of the tree over interned canonical identifiers.
//
// The package also provides the text front end (lexer + parser) for the
// parenthesized infix notation used by authored content, for example
// "( ph -> ( ps -> ph ) )" or its alias form "( φ → ( ψ → φ ) )".
package wff
