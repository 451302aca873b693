// Package lint checks that index labels are used consistently across
// repeated references to the same tensor.
//
// # Architecture
//
// A Checker owns everything the checks share:
//
//  1. Options: which checks run and how failures are reported
//  2. LabelStore: the first-seen label sequence of every tensor
//  3. SizeStore: the first-seen extent of every label
//  4. Reporter: turns mismatches into errors or diagnostics
//
// Construct one Checker and pass it by reference to every front-end that
// shares a namespace of tensors. There is no package-level state.
//
// # Static and runtime checks
//
// AnalyzeStatic compares a reference's labels against the sequence first
// recorded for the same tensor. Alphabetic labels further apart than the
// tolerance are reported as LabelDrift; a different number of labels is an
// ArityMismatch. It never touches array data.
//
// VerifyRuntime compares the ranks and extents of real arrays against the
// extents first recorded per label. It always returns its input so that it
// can wrap an evaluator call:
//
//	out, err := lint.Verify(checker, arr, label.MustParse("i", "j"), "A", loc)
//
// # Reporting
//
// With Options.ThrowOnError set, the first mismatch is returned as a
// *CheckError and the caller aborts. Otherwise mismatches are logged at
// error level, delivered to every Sink, and the call succeeds. Malformed
// input always fails with ErrMalformedReference.
//
// # Directives
//
// The textual configuration surface accepts alpha, tol, size, throw and
// named, plus the bare directives info and empty:
//
//	d, _ := lint.ParseDirective("tol=5")
//	_, err := checker.Apply(d)
package lint
