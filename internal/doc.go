// Package internal provides the core assembly pipeline for logical
// packages.
//
// This package turns authored package specifications into assembled,
// proof-checked packages ready for artifact emission. Assembly runs in
// fixed phases (axioms, rules, definitions, lemmas, theorems) inside a
// fresh build context, so symbol identity never leaks between packages.
//
// Key components:
//
// Assembler: coordinates one package build. It constructs the build
// context, binds imported assertions, compiles authored formulas,
// lowers proof scripts, audits assertions against their declared
// classical meanings, and enforces the export policy.
//
// PackageSpec: the authoring surface; declares the language skeleton,
// aliases, definition macros, and the phased assertion content.
//
// Package: the assembled result, with per-assertion provenance, the
// collected issues, the name mapping, and the artifact view.
//
// ExportPolicyError: the fatal policy violations (duplicate labels,
// exported stubs). Unlike lowering failures, which are collected per
// lemma, a policy violation aborts assembly with no partial result.
//
// The package also includes the manifest loader for *.mm.yaml files,
// the gob-backed build cache, and the manifest watcher.
//
// Usage:
//
//	asm := internal.NewAssembler(symbols.Policy{}, nil)
//	pkg, err := asm.Assemble(spec, imports)
//	if err != nil {
//	    // fatal: policy violation or broken language skeleton
//	}
//
//	for _, issue := range pkg.Issues {
//	    fmt.Println(issue.Message)
//	}
//
//	art := pkg.Artifact()
//
// This package is intended for internal use within the compiler and
// should not be imported by external packages.
package internal
