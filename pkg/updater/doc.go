// SPDX-License-Identifier: MPL-2.0

// Package updater rewrites versioned module URLs in a source file to newer
// compatible versions.
//
// One Run processes a single file: candidate URLs are scanned from the
// content, matched against a prioritized registry list, resolved through
// the semver constraint algebra, and rewritten one at a time with a
// replace → validate → rollback transaction. References are independent:
// a failed constraint or validation produces a failure Outcome and the
// batch continues; only a registry fetch error aborts the run.
//
//	outcomes, err := updater.Run(ctx, "deps.ts",
//	    updater.WithDryRun(true))
package updater
