// Package proof implements the proof layer of the build pipeline:
// assertion shapes, structured proof scripts, floating-hypothesis
// synthesis, and the stack machine that lowers scripts into verified
// justification lists.
//
// A script is a flat list of steps. Hyp pushes one of the assertion's own
// hypotheses, Ref applies a previously assembled assertion under a
// substitution (discharging its hypotheses against matching stack
// entries), and Compose pops an antecedent and an implication and pushes
// the consequent. A proof is complete when exactly one entry remains and
// it equals the declared conclusion token for token.
package proof
