// Package semantics implements a classical truth-table audit for
// assembled assertions.
//
// Connectives may declare a classical meaning (implies, not, and, or,
// iff). An assertion built entirely from meaningful connectives and
// schema variables is checked against every boolean assignment: if some
// assignment satisfies the hypotheses but falsifies the conclusion, the
// assertion cannot be sound, and the audit reports the countermodel.
// The check is a warning-level gate, most valuable for axioms and for
// stubs, which carry no proof to vouch for them.
//
// Out of scope (reported as Skipped):
//   - assertions mentioning any connective without a declared meaning
//     (quantifiers, equality, membership)
//   - assertions over more schema variables than the enumeration limit
package semantics
